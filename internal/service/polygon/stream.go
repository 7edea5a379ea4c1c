package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"TradeYodha/internal/domain/models"
	drepo "TradeYodha/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Stream implements a MarketStream backed by the Polygon trades WebSocket.
type Stream struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// NewStream creates a new Polygon MarketStream.
func NewStream(apiKey, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration) drepo.MarketStream {
	return &Stream{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection and authenticates.
func (s *Stream) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("polygon connect: %w", err)
	}
	s.conn = conn

	auth := map[string]string{"action": "auth", "params": s.apiKey}
	if err := conn.WriteJSON(auth); err != nil {
		_ = conn.Close()
		return fmt.Errorf("polygon auth: %w", err)
	}

	s.connected = true
	log.Printf("polygon: connected")
	return nil
}

// Subscribe subscribes to trade events for the configured symbols.
func (s *Stream) Subscribe(ctx context.Context) error {
	if s.conn == nil || !s.connected {
		return fmt.Errorf("polygon not connected")
	}
	topics := make([]string, 0, len(s.symbols))
	for _, sym := range s.symbols {
		topics = append(topics, "T."+sym)
	}
	msg := map[string]string{"action": "subscribe", "params": strings.Join(topics, ",")}
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	log.Printf("polygon: subscribed %s", strings.Join(s.symbols, ","))
	return nil
}

type wsTrade struct {
	Ev   string  `json:"ev"`
	Sym  string  `json:"sym"`
	P    float64 `json:"p"`
	Size float64 `json:"s"`
	T    int64   `json:"t"` // ms
}

// Read streams Trade events and errors.
func (s *Stream) Read(ctx context.Context) (<-chan *models.Trade, <-chan error) {
	trades := make(chan *models.Trade, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.conn != nil {
					_ = s.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(trades)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if s.conn == nil {
					errs <- fmt.Errorf("polygon conn nil")
					return
				}
				_, b, err := s.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("polygon read: %w", err)
					return
				}
				// Polygon frames arrive as arrays of events.
				var events []wsTrade
				if err := json.Unmarshal(b, &events); err != nil {
					// ignore status frames
					continue
				}
				for _, e := range events {
					if e.Ev != "T" {
						continue
					}
					trade := &models.Trade{Symbol: e.Sym, Timestamp: e.T / 1000, Price: e.P, Size: e.Size}
					select {
					case trades <- trade:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return trades, errs
}

// Reconnect closes and reconnects.
func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	time.Sleep(s.reconnectDelay)
	if err := s.Connect(ctx); err != nil {
		return err
	}
	return s.Subscribe(ctx)
}

// Close closes the WS connection.
func (s *Stream) Close() error {
	s.connected = false
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (s *Stream) IsConnected() bool { return s.connected }
