// Package sidecar implements the chain client port against the spraay wallet
// sidecar: a JSON-RPC 2.0 service spoken over a websocket connection.
//
// The sidecar owns everything spraay deliberately does not: wallet keys,
// extrinsic encoding and the node connection. This adapter only correlates
// requests with responses and converts between wire types and domain types.
package sidecar

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"github.com/plagtech/spraay/internal/domain"
	"github.com/plagtech/spraay/internal/ports"
)

const (
	writeWait      = 10 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4 * 1024 * 1024

	// composeCacheSize bounds the cache of composed transfer calls.
	// Composition is deterministic, so repeated recipients across an
	// estimate followed by an execute skip the extra round trips.
	composeCacheSize = 4096
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("sidecar: %s (code %d)", e.Message, e.Code)
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// Client is a websocket JSON-RPC client for the wallet sidecar. It implements
// ports.ChainClient. Safe for concurrent use, though the executor drives it
// sequentially.
type Client struct {
	conn    *websocket.Conn
	timeout time.Duration
	log     zerolog.Logger

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[uint64]chan *rpcResponse
	nextID    atomic.Uint64

	composeCache *lru.Cache[string, ports.Call]

	closeOnce sync.Once
	closeChan chan struct{}
}

var _ ports.ChainClient = (*Client)(nil)

// Dial connects to the sidecar at url, binds the session to the given network
// and starts the read and ping loops. timeout bounds every individual
// round-trip; submissions that wait for finalization need a generous value.
func Dial(ctx context.Context, url, network string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial sidecar %s: %w", url, err)
	}
	conn.SetReadLimit(maxMessageSize)

	cache, err := lru.New[string, ports.Call](composeCacheSize)
	if err != nil {
		conn.Close()
		return nil, err
	}

	c := &Client{
		conn:         conn,
		timeout:      timeout,
		log:          logger,
		pending:      make(map[uint64]chan *rpcResponse),
		composeCache: cache,
		closeChan:    make(chan struct{}),
	}

	go c.readLoop()
	go c.pingLoop()

	var res struct {
		OK bool `json:"ok"`
	}
	if err := c.call(ctx, "set_network", map[string]string{"network": network}, &res); err != nil {
		c.Close()
		return nil, fmt.Errorf("set network %q: %w", network, err)
	}

	c.log.Debug().Str("url", url).Str("network", network).Msg("sidecar session open")
	return c, nil
}

// Close tears down the connection and fails all in-flight calls.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closeChan)
		c.conn.Close()

		c.pendingMu.Lock()
		for id, ch := range c.pending {
			close(ch)
			delete(c.pending, id)
		}
		c.pendingMu.Unlock()
	})
}

// readLoop dispatches responses to waiting callers by request id.
func (c *Client) readLoop() {
	defer c.Close()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("sidecar read error")
			}
			return
		}

		var resp rpcResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			c.log.Warn().Err(err).Msg("sidecar sent malformed response")
			continue
		}

		c.pendingMu.Lock()
		ch, ok := c.pending[resp.ID]
		if ok {
			delete(c.pending, resp.ID)
		}
		c.pendingMu.Unlock()

		if !ok {
			c.log.Warn().Uint64("id", resp.ID).Msg("sidecar response for unknown request")
			continue
		}
		ch <- &resp
	}
}

// pingLoop keeps the connection alive across long submission waits. Control
// frames may be written concurrently with WriteMessage.
func (c *Client) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.closeChan:
			return
		case <-ticker.C:
			deadline := time.Now().Add(writeWait)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		}
	}
}

// call performs one JSON-RPC round-trip and unmarshals the result.
func (c *Client) call(ctx context.Context, method string, params, result any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	id := c.nextID.Add(1)
	ch := make(chan *rpcResponse, 1)

	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()

	unregister := func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}

	data, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		unregister()
		return err
	}

	c.writeMu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = c.conn.WriteMessage(websocket.TextMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		unregister()
		return fmt.Errorf("sidecar write %s: %w", method, err)
	}

	select {
	case <-ctx.Done():
		unregister()
		return fmt.Errorf("sidecar %s: %w", method, ctx.Err())
	case <-c.closeChan:
		unregister()
		return fmt.Errorf("sidecar %s: connection closed", method)
	case resp, ok := <-ch:
		if !ok || resp == nil {
			return fmt.Errorf("sidecar %s: connection closed", method)
		}
		if resp.Error != nil {
			return fmt.Errorf("sidecar %s: %w", method, resp.Error)
		}
		if result == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("sidecar %s: decode result: %w", method, err)
		}
		return nil
	}
}

// ComposeTransfer builds a single balance transfer call. Deterministic, so
// results are cached per (dest, amount, keepAlive).
func (c *Client) ComposeTransfer(ctx context.Context, dest string, amount domain.Amount, keepAlive bool) (ports.Call, error) {
	key := fmt.Sprintf("%s|%d|%t", dest, amount.Rao(), keepAlive)
	if call, ok := c.composeCache.Get(key); ok {
		return call, nil
	}

	params := struct {
		Dest      string `json:"dest"`
		AmountRao int64  `json:"amount_rao"`
		KeepAlive bool   `json:"keep_alive"`
	}{dest, amount.Rao(), keepAlive}

	var res struct {
		Call string `json:"call"`
	}
	if err := c.call(ctx, "compose_transfer", params, &res); err != nil {
		return nil, err
	}

	call := ports.Call(res.Call)
	c.composeCache.Add(key, call)
	return call, nil
}

// ComposeBatch wraps calls into one utility batch call of the given mode.
func (c *Client) ComposeBatch(ctx context.Context, mode domain.BatchMode, calls []ports.Call) (ports.Call, error) {
	encoded := make([]string, len(calls))
	for i, call := range calls {
		encoded[i] = string(call)
	}

	params := struct {
		Mode  string   `json:"mode"`
		Calls []string `json:"calls"`
	}{mode.String(), encoded}

	var res struct {
		Call string `json:"call"`
	}
	if err := c.call(ctx, "compose_batch", params, &res); err != nil {
		return nil, err
	}
	return ports.Call(res.Call), nil
}

// EstimateFee projects the network fee for submitting call signed by signer.
func (c *Client) EstimateFee(ctx context.Context, call ports.Call, signer string) (domain.Amount, error) {
	params := struct {
		Call   string `json:"call"`
		Signer string `json:"signer"`
	}{string(call), signer}

	var res struct {
		PartialFeeRao int64 `json:"partial_fee_rao"`
	}
	if err := c.call(ctx, "estimate_fee", params, &res); err != nil {
		return 0, err
	}
	return domain.NewAmount(res.PartialFeeRao), nil
}

// Balance returns the free balance of the given account.
func (c *Client) Balance(ctx context.Context, address string) (domain.Amount, error) {
	params := struct {
		Address string `json:"address"`
	}{address}

	var res struct {
		BalanceRao int64 `json:"balance_rao"`
	}
	if err := c.call(ctx, "get_balance", params, &res); err != nil {
		return 0, err
	}
	return domain.NewAmount(res.BalanceRao), nil
}

// SignAndSubmit signs call with the named wallet and submits it.
func (c *Client) SignAndSubmit(ctx context.Context, call ports.Call, wallet domain.Wallet, waitForInclusion, waitForFinalization bool) (ports.SubmitResult, error) {
	params := struct {
		Call                string `json:"call"`
		Wallet              string `json:"wallet"`
		WaitForInclusion    bool   `json:"wait_for_inclusion"`
		WaitForFinalization bool   `json:"wait_for_finalization"`
	}{string(call), wallet.Name, waitForInclusion, waitForFinalization}

	var res struct {
		Success         bool     `json:"success"`
		Message         string   `json:"message"`
		BlockHash       string   `json:"block_hash"`
		ExtrinsicHash   string   `json:"extrinsic_hash"`
		NetworkFeeRao   int64    `json:"network_fee_rao"`
		FailedAddresses []string `json:"failed_addresses"`
	}
	if err := c.call(ctx, "sign_and_submit", params, &res); err != nil {
		return ports.SubmitResult{}, err
	}

	return ports.SubmitResult{
		Success:         res.Success,
		Message:         res.Message,
		BlockHash:       res.BlockHash,
		ExtrinsicHash:   res.ExtrinsicHash,
		NetworkFee:      domain.NewAmount(res.NetworkFeeRao),
		FailedAddresses: res.FailedAddresses,
	}, nil
}

// WalletAddress resolves the ss58 address of a wallet known to the sidecar.
// Not part of the chain client port; the CLI uses it to turn the configured
// wallet name into the signer address before estimating or executing.
func (c *Client) WalletAddress(ctx context.Context, name string) (string, error) {
	params := struct {
		Wallet string `json:"wallet"`
	}{name}

	var res struct {
		Address string `json:"address"`
	}
	if err := c.call(ctx, "get_wallet_address", params, &res); err != nil {
		return "", err
	}
	return res.Address, nil
}

// BlockHash returns the current chain head hash.
func (c *Client) BlockHash(ctx context.Context) (string, error) {
	var res struct {
		Hash string `json:"hash"`
	}
	if err := c.call(ctx, "get_block_hash", nil, &res); err != nil {
		return "", err
	}
	return res.Hash, nil
}
