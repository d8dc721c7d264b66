package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/skincraft/tradeupbot/internal/domain"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// pingPeriod sends pings to the peer at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// reconnectDelay is the base delay before attempting to reconnect.
	reconnectDelay = 2 * time.Second

	// maxReconnectDelay caps the exponential backoff for reconnection.
	maxReconnectDelay = 60 * time.Second
)

// tickMessage is one listing price update on the wire.
type tickMessage struct {
	Listing string  `json:"listing"`
	Price   float64 `json:"price"`
}

// Ticker streams live listing price updates from a websocket endpoint into
// the listing cache. It reconnects with exponential backoff on disconnect
// and runs until its context is cancelled.
type Ticker struct {
	wsURL  string
	cache  domain.ListingCache
	logger *slog.Logger
}

// NewTicker creates a ticker feeding the given cache from wsURL.
func NewTicker(wsURL string, cache domain.ListingCache, logger *slog.Logger) *Ticker {
	return &Ticker{
		wsURL:  wsURL,
		cache:  cache,
		logger: logger.With(slog.String("component", "price_ticker")),
	}
}

// Run connects and consumes price updates until ctx is cancelled. Transport
// failures trigger a reconnect with exponential backoff; the backoff resets
// after a successful connection.
func (t *Ticker) Run(ctx context.Context) error {
	delay := reconnectDelay

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := t.runConnection(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			t.logger.Warn("ticker disconnected, reconnecting",
				slog.String("error", err.Error()),
				slog.Duration("delay", delay),
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

// runConnection dials, starts the keep-alive ping loop and reads updates
// until the connection breaks or ctx is cancelled.
func (t *Ticker) runConnection(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 15 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, t.wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Close the connection when ctx is cancelled so ReadMessage unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	go t.pingLoop(conn, done)

	t.logger.Info("ticker connected", slog.String("url", t.wsURL))

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		t.handleMessage(ctx, message)
	}
}

// pingLoop sends periodic ping messages to keep the connection alive.
func (t *Ticker) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage parses one price update and writes it through to the cache.
// Unparseable messages are dropped silently.
func (t *Ticker) handleMessage(ctx context.Context, raw []byte) {
	var tick tickMessage
	if err := json.Unmarshal(raw, &tick); err != nil {
		return
	}
	if tick.Listing == "" || tick.Price <= 0 {
		return
	}

	if err := t.cache.Set(ctx, tick.Listing, tick.Price); err != nil {
		t.logger.Warn("ticker cache write failed",
			slog.String("listing", tick.Listing),
			slog.String("error", err.Error()),
		)
	}
}
