package live

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"kusina/internal/models"
)

const (
	readDeadline = 60 * time.Second
	pingPeriod   = 30 * time.Second
	writeWait    = 10 * time.Second
)

// StatsHandler receives each landing-stats frame pushed by the backend.
type StatsHandler func(models.LandingStats)

// Subscription is a live connection to the backend's landing-stats
// channel. The landing page polls nothing; updated aggregates arrive as
// JSON frames as orders complete.
type Subscription struct {
	conn    *websocket.Conn
	handler StatsHandler
	done    chan struct{}
}

// Subscribe dials the stats channel and starts delivering frames to the
// handler until ctx is cancelled or the connection drops.
func Subscribe(ctx context.Context, url string, handler StatsHandler) (*Subscription, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	s := &Subscription{
		conn:    conn,
		handler: handler,
		done:    make(chan struct{}),
	}

	go s.readPump()
	go s.keepAlive(ctx)
	return s, nil
}

// Done is closed when the subscription ends, for callers that want to
// redial.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close tears down the connection.
func (s *Subscription) Close() error {
	return s.conn.Close()
}

// readPump reads stats frames and hands them to the handler.
func (s *Subscription) readPump() {
	defer func() {
		s.conn.Close()
		close(s.done)
	}()

	s.conn.SetReadLimit(64 * 1024)
	s.conn.SetReadDeadline(time.Now().Add(readDeadline))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Live stats connection error: %v", err)
			}
			return
		}

		var stats models.LandingStats
		if err := json.Unmarshal(message, &stats); err != nil {
			log.Printf("Error unmarshaling stats frame: %v", err)
			continue
		}
		s.handler(stats)
	}
}

// keepAlive pings on a ticker and closes the connection when ctx ends.
func (s *Subscription) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			s.conn.Close()
			return
		case <-s.done:
			return
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.conn.Close()
				return
			}
		}
	}
}
