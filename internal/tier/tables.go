package tier

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is an immutable mapping from a tier name to its numeric parameter:
// an annual interest percentage for rate tiers, a collateral valuation
// multiplier in percentage points for collateral tiers. Tables are populated
// once at startup and never mutated afterwards.
type Table struct {
	params map[string]uint64
}

// New copies m into a fresh table so the caller cannot mutate it later.
func New(m map[string]uint64) Table {
	params := make(map[string]uint64, len(m))
	for k, v := range m {
		params[k] = v
	}
	return Table{params: params}
}

// Parse builds a table from a "name:value,name:value" string, the format
// used by the RATE_TIERS / COLLATERAL_TIERS environment variables.
func Parse(s string) (Table, error) {
	params := make(map[string]uint64)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, raw, ok := strings.Cut(pair, ":")
		if !ok {
			return Table{}, fmt.Errorf("tier: malformed entry %q (want name:value)", pair)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return Table{}, fmt.Errorf("tier: empty tier name in %q", pair)
		}
		v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Table{}, fmt.Errorf("tier: invalid value for %q: %w", name, err)
		}
		if v == 0 {
			return Table{}, fmt.Errorf("tier: zero parameter for %q", name)
		}
		if _, dup := params[name]; dup {
			return Table{}, fmt.Errorf("tier: duplicate tier %q", name)
		}
		params[name] = v
	}
	if len(params) == 0 {
		return Table{}, fmt.Errorf("tier: no tiers defined")
	}
	return Table{params: params}, nil
}

// Lookup resolves a tier name; lifecycle validation treats a missing name
// as a hard error, which is why the second return exists.
func (t Table) Lookup(name string) (uint64, bool) {
	v, ok := t.params[name]
	return v, ok
}

// Param is the read-only accessor variant: unknown names yield 0.
func (t Table) Param(name string) uint64 {
	return t.params[name]
}

// Names returns the tier names in no particular order.
func (t Table) Names() []string {
	out := make([]string, 0, len(t.params))
	for k := range t.params {
		out = append(out, k)
	}
	return out
}
