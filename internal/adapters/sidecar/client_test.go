package sidecar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plagtech/spraay/internal/domain"
	"github.com/plagtech/spraay/internal/ports"
)

// fakeSidecar is an in-process websocket server speaking the sidecar
// protocol. It records requests per method for assertions.
type fakeSidecar struct {
	t *testing.T

	mu       sync.Mutex
	requests map[string][]json.RawMessage

	// handle overrides the default response for a method.
	handle map[string]func(params json.RawMessage) (any, *rpcError)
}

func newFakeSidecar(t *testing.T) *fakeSidecar {
	return &fakeSidecar{
		t:        t,
		requests: make(map[string][]json.RawMessage),
		handle:   make(map[string]func(json.RawMessage) (any, *rpcError)),
	}
}

func (f *fakeSidecar) calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests[method])
}

func (f *fakeSidecar) serve(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	for {
		var req struct {
			JSONRPC string          `json:"jsonrpc"`
			ID      uint64          `json:"id"`
			Method  string          `json:"method"`
			Params  json.RawMessage `json:"params"`
		}
		if err := conn.ReadJSON(&req); err != nil {
			return
		}

		f.mu.Lock()
		f.requests[req.Method] = append(f.requests[req.Method], req.Params)
		handler := f.handle[req.Method]
		f.mu.Unlock()

		var result any
		var rpcErr *rpcError
		if handler != nil {
			result, rpcErr = handler(req.Params)
		} else {
			result, rpcErr = f.defaultResult(req.Method, req.Params)
		}

		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		if err := conn.WriteJSON(resp); err != nil {
			return
		}
	}
}

func (f *fakeSidecar) defaultResult(method string, params json.RawMessage) (any, *rpcError) {
	switch method {
	case "set_network":
		return map[string]any{"ok": true}, nil
	case "compose_transfer":
		var p struct {
			Dest      string `json:"dest"`
			AmountRao int64  `json:"amount_rao"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			f.t.Errorf("compose_transfer params: %v", err)
		}
		return map[string]any{"call": "transfer:" + p.Dest}, nil
	case "compose_batch":
		var p struct {
			Mode  string   `json:"mode"`
			Calls []string `json:"calls"`
		}
		if err := json.Unmarshal(params, &p); err != nil {
			f.t.Errorf("compose_batch params: %v", err)
		}
		return map[string]any{"call": p.Mode + ":" + strings.Join(p.Calls, ",")}, nil
	case "estimate_fee":
		return map[string]any{"partial_fee_rao": 1_000_000}, nil
	case "get_balance":
		return map[string]any{"balance_rao": 42_000_000_000}, nil
	case "sign_and_submit":
		return map[string]any{
			"success":         true,
			"message":         "included",
			"block_hash":      "0xabc",
			"extrinsic_hash":  "0xdef",
			"network_fee_rao": 2_000_000,
		}, nil
	case "get_wallet_address":
		return map[string]any{"address": "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"}, nil
	case "get_block_hash":
		return map[string]any{"hash": "0xhead"}, nil
	default:
		return nil, &rpcError{Code: -32601, Message: "method not found"}
	}
}

func dialFake(t *testing.T, f *fakeSidecar) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := Dial(ctx, url, "test", 5*time.Second, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestDial_SetsNetwork(t *testing.T) {
	f := newFakeSidecar(t)
	dialFake(t, f)

	require.Equal(t, 1, f.calls("set_network"))

	f.mu.Lock()
	raw := f.requests["set_network"][0]
	f.mu.Unlock()

	var p struct {
		Network string `json:"network"`
	}
	require.NoError(t, json.Unmarshal(raw, &p))
	assert.Equal(t, "test", p.Network)
}

func TestDial_SetNetworkRejected(t *testing.T) {
	f := newFakeSidecar(t)
	f.handle["set_network"] = func(json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: 1, Message: "unknown network"}
	}

	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, err := Dial(context.Background(), url, "nope", 5*time.Second, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown network")
}

func TestComposeTransfer_Cached(t *testing.T) {
	f := newFakeSidecar(t)
	c := dialFake(t, f)
	ctx := context.Background()

	amt, err := domain.ParseAmount("1.5")
	require.NoError(t, err)

	first, err := c.ComposeTransfer(ctx, "5Alice", amt, true)
	require.NoError(t, err)
	assert.Equal(t, ports.Call("transfer:5Alice"), first)

	// Same arguments hit the cache, no second round-trip.
	second, err := c.ComposeTransfer(ctx, "5Alice", amt, true)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.calls("compose_transfer"))

	// Different keep-alive flag is a different call.
	_, err = c.ComposeTransfer(ctx, "5Alice", amt, false)
	require.NoError(t, err)
	assert.Equal(t, 2, f.calls("compose_transfer"))
}

func TestComposeBatch(t *testing.T) {
	f := newFakeSidecar(t)
	c := dialFake(t, f)

	call, err := c.ComposeBatch(context.Background(), domain.BatchAll,
		[]ports.Call{ports.Call("a"), ports.Call("b")})
	require.NoError(t, err)
	assert.Equal(t, ports.Call("batch_all:a,b"), call)
}

func TestEstimateFeeAndBalance(t *testing.T) {
	f := newFakeSidecar(t)
	c := dialFake(t, f)
	ctx := context.Background()

	fee, err := c.EstimateFee(ctx, ports.Call("x"), "5Signer")
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), fee.Rao())

	bal, err := c.Balance(ctx, "5Signer")
	require.NoError(t, err)
	assert.Equal(t, "42", bal.String())
}

func TestSignAndSubmit(t *testing.T) {
	f := newFakeSidecar(t)
	c := dialFake(t, f)

	res, err := c.SignAndSubmit(context.Background(), ports.Call("x"),
		domain.Wallet{Name: "payouts"}, true, false)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "0xabc", res.BlockHash)
	assert.Equal(t, "0xdef", res.ExtrinsicHash)
	assert.Equal(t, int64(2_000_000), res.NetworkFee.Rao())

	f.mu.Lock()
	raw := f.requests["sign_and_submit"][0]
	f.mu.Unlock()

	var p struct {
		Wallet           string `json:"wallet"`
		WaitForInclusion bool   `json:"wait_for_inclusion"`
	}
	require.NoError(t, json.Unmarshal(raw, &p))
	assert.Equal(t, "payouts", p.Wallet)
	assert.True(t, p.WaitForInclusion)
}

func TestSignAndSubmit_RPCError(t *testing.T) {
	f := newFakeSidecar(t)
	f.handle["sign_and_submit"] = func(json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: 7, Message: "wallet locked"}
	}
	c := dialFake(t, f)

	_, err := c.SignAndSubmit(context.Background(), ports.Call("x"),
		domain.Wallet{Name: "payouts"}, true, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wallet locked")
}

func TestBlockHash(t *testing.T) {
	f := newFakeSidecar(t)
	c := dialFake(t, f)

	hash, err := c.BlockHash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xhead", hash)
}

func TestWalletAddress(t *testing.T) {
	f := newFakeSidecar(t)
	c := dialFake(t, f)

	addr, err := c.WalletAddress(context.Background(), "payouts")
	require.NoError(t, err)
	assert.Equal(t, "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", addr)
}

func TestCall_ContextCancelled(t *testing.T) {
	f := newFakeSidecar(t)
	f.handle["get_block_hash"] = func(json.RawMessage) (any, *rpcError) {
		time.Sleep(2 * time.Second)
		return map[string]any{"hash": "0xlate"}, nil
	}
	c := dialFake(t, f)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := c.BlockHash(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
