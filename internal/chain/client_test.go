package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func rpcServer(t *testing.T, handler func(method string, params json.RawMessage) (any, *rpcError)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		result, rpcErr := handler(req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": 1}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Config{}, nil); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestCurrentTick(t *testing.T) {
	srv := rpcServer(t, func(method string, _ json.RawMessage) (any, *rpcError) {
		if method != "ledger_getHeight" {
			t.Errorf("method = %s", method)
		}
		return map[string]uint64{"height": 123456}, nil
	})
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	tick, err := c.CurrentTick(context.Background())
	if err != nil {
		t.Fatalf("CurrentTick: %v", err)
	}
	if tick != 123456 {
		t.Fatalf("tick = %d", tick)
	}
}

func TestTransfer_SendsParams(t *testing.T) {
	var got []struct {
		Asset  string `json:"asset"`
		Amount uint64 `json:"amount"`
		From   string `json:"from"`
		To     string `json:"to"`
		Ref    string `json:"ref"`
	}
	srv := rpcServer(t, func(method string, params json.RawMessage) (any, *rpcError) {
		if method != "ledger_transfer" {
			t.Errorf("method = %s", method)
		}
		if err := json.Unmarshal(params, &got); err != nil {
			t.Errorf("params: %v", err)
		}
		return map[string]bool{"ok": true}, nil
	})
	defer srv.Close()

	c, _ := NewClient(Config{BaseURL: srv.URL}, nil)
	if err := c.Transfer(context.Background(), "wbtc", 1500000, "aaaa", "bbbb"); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("params = %+v", got)
	}
	p := got[0]
	if p.Asset != "wbtc" || p.Amount != 1500000 || p.From != "aaaa" || p.To != "bbbb" {
		t.Fatalf("params = %+v", p)
	}
	if len(p.Ref) != 32 {
		t.Fatalf("ref = %q", p.Ref)
	}
}

func TestTransfer_RPCErrorSurfaces(t *testing.T) {
	srv := rpcServer(t, func(string, json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: -32000, Message: "insufficient funds"}
	})
	defer srv.Close()

	c, _ := NewClient(Config{BaseURL: srv.URL}, nil)
	err := c.Transfer(context.Background(), "native", 10, "a", "b")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestTransferWrapped_UsesWrappedMethod(t *testing.T) {
	var gotMethod string
	srv := rpcServer(t, func(method string, params json.RawMessage) (any, *rpcError) {
		gotMethod = method
		return map[string]bool{"ok": true}, nil
	})
	defer srv.Close()

	c, _ := NewClient(Config{BaseURL: srv.URL}, nil)
	if err := c.TransferWrapped(context.Background(), "wbtc", 1500000, "aaaa", "bbbb"); err != nil {
		t.Fatalf("TransferWrapped: %v", err)
	}
	if gotMethod != "ledger_transferWrapped" {
		t.Fatalf("method = %q, want ledger_transferWrapped", gotMethod)
	}
}

func TestWrappedAsset_RoutesToWrappedMethod(t *testing.T) {
	var gotMethod, gotAsset string
	srv := rpcServer(t, func(method string, params json.RawMessage) (any, *rpcError) {
		gotMethod = method
		var p []map[string]any
		_ = json.Unmarshal(params, &p)
		if len(p) == 1 {
			gotAsset, _ = p[0]["asset"].(string)
		}
		return map[string]bool{"ok": true}, nil
	})
	defer srv.Close()

	c, _ := NewClient(Config{BaseURL: srv.URL}, nil)
	tr := c.WrappedAsset("wsteth")
	if err := tr.Transfer(context.Background(), 5, "a", "b"); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if gotMethod != "ledger_transferWrapped" {
		t.Fatalf("method = %q, want ledger_transferWrapped", gotMethod)
	}
	if gotAsset != "wsteth" {
		t.Fatalf("asset = %q", gotAsset)
	}
}

func TestAsset_BindsAssetType(t *testing.T) {
	var gotAsset string
	srv := rpcServer(t, func(_ string, params json.RawMessage) (any, *rpcError) {
		var p []map[string]any
		_ = json.Unmarshal(params, &p)
		if len(p) == 1 {
			gotAsset, _ = p[0]["asset"].(string)
		}
		return map[string]bool{"ok": true}, nil
	})
	defer srv.Close()

	c, _ := NewClient(Config{BaseURL: srv.URL}, nil)
	tr := c.Asset("wsteth")
	if err := tr.Transfer(context.Background(), 5, "a", "b"); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if gotAsset != "wsteth" {
		t.Fatalf("asset = %q", gotAsset)
	}
}

func TestCall_BearerHeader(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": 1, "result": map[string]uint64{"height": 1}})
	}))
	defer srv.Close()

	c, _ := NewClient(Config{BaseURL: srv.URL, BearerToken: "sekrit"}, nil)
	if _, err := c.CurrentTick(context.Background()); err != nil {
		t.Fatalf("CurrentTick: %v", err)
	}
	if auth != "Bearer sekrit" {
		t.Fatalf("auth = %q", auth)
	}
}
