package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"loanledger/internal/transfer"
	"loanledger/pkg/id"
)

// Config controls how the Client connects to the ledger node RPC endpoint.
type Config struct {
	BaseURL     string
	BearerToken string
	Timeout     time.Duration
}

// Client implements the minimal subset of JSON-RPC 2.0 the loan ledger
// needs from the node: reading the current height (tick source) and asking
// the ledger to move assets (transfer service). Each transfer succeeds or
// fails as a unit on the node side.
type Client struct {
	baseURL string
	http    *http.Client
	bearer  string
	log     *zap.Logger
}

var _ TickSource = (*Client)(nil)

// NewClient constructs a Client from the provided configuration.
func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		bearer:  strings.TrimSpace(cfg.BearerToken),
		log:     log,
	}, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *rpcError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Data) > 0 {
		return fmt.Sprintf("rpc error %d: %s: %s", e.Code, e.Message, string(e.Data))
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Call performs a JSON-RPC request to the configured endpoint.
func (c *Client) Call(ctx context.Context, method string, params any, result any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqBody := rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Client", "loanledger")
	if c.bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("call rpc: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("rpc call failed with status %s", resp.Status)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}

type heightResult struct {
	Height uint64 `json:"height"`
}

// CurrentTick reads the node's current height via ledger_getHeight.
func (c *Client) CurrentTick(ctx context.Context) (uint64, error) {
	var out heightResult
	if err := c.Call(ctx, "ledger_getHeight", nil, &out); err != nil {
		return 0, fmt.Errorf("get height: %w", err)
	}
	return out.Height, nil
}

type transferParams struct {
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount"`
	From   string `json:"from"`
	To     string `json:"to"`
	Ref    string `json:"ref"`
}

func (c *Client) send(ctx context.Context, method, asset string, amount uint64, from, to string) error {
	ref := id.NewID32()
	p := transferParams{Asset: asset, Amount: amount, From: from, To: to, Ref: ref}
	if err := c.Call(ctx, method, []any{p}, nil); err != nil {
		c.log.Warn("ledger transfer failed",
			zap.String("method", method),
			zap.String("asset", asset),
			zap.Uint64("amount", amount),
			zap.String("ref", ref),
			zap.Error(err))
		return fmt.Errorf("transfer %s: %w", asset, err)
	}
	c.log.Debug("ledger transfer",
		zap.String("method", method),
		zap.String("asset", asset),
		zap.Uint64("amount", amount),
		zap.String("ref", ref))
	return nil
}

// Transfer asks the ledger to move amount of a native asset from one account
// to another via ledger_transfer. The ref tags the movement for
// reconciliation.
func (c *Client) Transfer(ctx context.Context, asset string, amount uint64, from, to string) error {
	return c.send(ctx, "ledger_transfer", asset, amount, from, to)
}

// TransferWrapped is the ledger_transferWrapped variant for wrapped assets,
// whose custody the node handles through its bridge escrow rather than a
// direct balance move.
func (c *Client) TransferWrapped(ctx context.Context, asset string, amount uint64, from, to string) error {
	return c.send(ctx, "ledger_transferWrapped", asset, amount, from, to)
}

// assetTransferer binds the client to one asset type so it can be registered
// with the transfer dispatcher.
type assetTransferer struct {
	c       *Client
	asset   string
	wrapped bool
}

func (a assetTransferer) Transfer(ctx context.Context, amount uint64, from, to string) error {
	if a.wrapped {
		return a.c.TransferWrapped(ctx, a.asset, amount, from, to)
	}
	return a.c.Transfer(ctx, a.asset, amount, from, to)
}

// Asset returns a transfer.Transferer that moves the named native asset
// through this client.
func (c *Client) Asset(asset string) transfer.Transferer {
	return assetTransferer{c: c, asset: asset}
}

// WrappedAsset is the ledger_transferWrapped counterpart of Asset.
func (c *Client) WrappedAsset(asset string) transfer.Transferer {
	return assetTransferer{c: c, asset: asset, wrapped: true}
}
