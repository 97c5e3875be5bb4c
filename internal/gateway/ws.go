package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wwcxin/cyberbot-new/internal/bus"
	"github.com/wwcxin/cyberbot-new/internal/onebot"
)

// Options configures a WSClient.
type Options struct {
	URL               string
	AccessToken       string
	ReconnectInterval time.Duration
}

// WSClient is a OneBot11 forward WebSocket client. One connection carries
// both inbound events and action calls; responses are matched to callers by
// echo id.
type WSClient struct {
	opts   Options
	bus    bus.Bus
	dialer *websocket.Dialer

	mu   sync.RWMutex
	conn *websocket.Conn

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan actionResponse
}

type actionRequest struct {
	Action string `json:"action"`
	Params any    `json:"params"`
	Echo   string `json:"echo"`
}

type actionResponse struct {
	Status  string          `json:"status"`
	RetCode int             `json:"retcode"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Wording string          `json:"wording"`
	Echo    json.RawMessage `json:"echo"`
}

// frameHead is just enough of a frame to tell responses from events.
type frameHead struct {
	PostType string          `json:"post_type"`
	Echo     json.RawMessage `json:"echo"`
}

func NewWSClient(opts Options, b bus.Bus) *WSClient {
	if opts.ReconnectInterval <= 0 {
		opts.ReconnectInterval = 5 * time.Second
	}
	return &WSClient{
		opts:    opts,
		bus:     b,
		dialer:  websocket.DefaultDialer,
		pending: make(map[string]chan actionResponse),
	}
}

// Connected reports whether a connection is currently up.
func (c *WSClient) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil
}

// Start connects and keeps reconnecting until ctx is cancelled.
func (c *WSClient) Start(ctx context.Context) error {
	slog.Info("gateway: connecting", "url", c.opts.URL)

	for {
		if err := c.connectOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("gateway: connection lost, reconnecting", "in", c.opts.ReconnectInterval, "err", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.opts.ReconnectInterval):
		}
	}
}

func (c *WSClient) connectOnce(ctx context.Context) error {
	header := http.Header{}
	if c.opts.AccessToken != "" {
		header.Set("Authorization", "Bearer "+c.opts.AccessToken)
	}
	conn, _, err := c.dialer.DialContext(ctx, c.opts.URL, header)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	done := make(chan struct{})
	defer func() {
		close(done)
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
		c.failPending()
	}()
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	slog.Info("gateway: connected", "url", c.opts.URL)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.handleFrame(ctx, raw)
	}
}

// handleFrame routes one inbound frame. Events are published synchronously so
// the bus sees them in arrival order.
func (c *WSClient) handleFrame(ctx context.Context, raw []byte) {
	var head frameHead
	if err := json.Unmarshal(raw, &head); err != nil {
		slog.Warn("gateway: malformed frame", "err", err)
		return
	}

	if head.PostType == "" && len(head.Echo) > 0 {
		var resp actionResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			slog.Warn("gateway: malformed response", "err", err)
			return
		}
		c.resolve(echoString(resp.Echo), resp)
		return
	}

	ev, err := onebot.ParseEvent(raw)
	if err != nil {
		if !errors.Is(err, onebot.ErrNotDispatchable) {
			slog.Warn("gateway: dropping event", "err", err)
		}
		return
	}
	if err := c.bus.Publish(ctx, ev); err != nil {
		slog.Warn("gateway: publish event", "err", err)
	}
}

func echoString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (c *WSClient) resolve(echo string, resp actionResponse) {
	c.pendingMu.Lock()
	ch, ok := c.pending[echo]
	if ok {
		delete(c.pending, echo)
	}
	c.pendingMu.Unlock()

	if !ok {
		slog.Debug("gateway: response without caller", "echo", echo)
		return
	}
	ch <- resp
}

func (c *WSClient) failPending() {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	for echo, ch := range c.pending {
		close(ch)
		delete(c.pending, echo)
	}
}

// Call sends one action and waits for its response. When out is non-nil the
// response data is decoded into it.
func (c *WSClient) Call(ctx context.Context, action string, params any, out any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}

	if params == nil {
		params = struct{}{}
	}
	echo := uuid.NewString()
	payload, err := json.Marshal(actionRequest{Action: action, Params: params, Echo: echo})
	if err != nil {
		return fmt.Errorf("gateway: encode %s: %w", action, err)
	}

	ch := make(chan actionResponse, 1)
	c.pendingMu.Lock()
	c.pending[echo] = ch
	c.pendingMu.Unlock()
	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, echo)
		c.pendingMu.Unlock()
	}()

	c.writeMu.Lock()
	err = conn.WriteMessage(websocket.TextMessage, payload)
	c.writeMu.Unlock()
	if err != nil {
		return fmt.Errorf("gateway: send %s: %w", action, err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			return ErrNotConnected
		}
		return decodeResponse(action, resp, out)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func decodeResponse(action string, resp actionResponse, out any) error {
	if resp.Status == "failed" || (resp.Status != "ok" && resp.Status != "async" && resp.RetCode != 0) {
		msg := resp.Wording
		if msg == "" {
			msg = resp.Message
		}
		return &ActionError{Action: action, RetCode: resp.RetCode, Message: msg}
	}
	if out == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("gateway: decode %s result: %w", action, err)
	}
	return nil
}
