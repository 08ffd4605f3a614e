package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Event is a change notification pushed by the API
type Event struct {
	Type      string          `json:"type"`
	Entity    string          `json:"entity"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// Subscriber opens the API's websocket change stream
type Subscriber struct {
	wsURL  string
	dialer *websocket.Dialer
}

// NewSubscriber derives the websocket endpoint from the API base URL
func NewSubscriber(baseURL string) (*Subscriber, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("invalid api url scheme %q: must be http or https", u.Scheme)
	}
	u.Path = "/api/ws"

	return &Subscriber{
		wsURL: u.String(),
		dialer: &websocket.Dialer{
			HandshakeTimeout: DefaultTimeout,
		},
	}, nil
}

// Subscribe connects with token and streams events until ctx is done or the
// connection drops; the returned channel is closed in both cases.
func (s *Subscriber) Subscribe(ctx context.Context, token string) (<-chan Event, error) {
	target := s.wsURL + "?token=" + url.QueryEscape(token)

	conn, resp, err := s.dialer.DialContext(ctx, target, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, domain.ErrUnauthenticated
		}
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		return nil, &domain.SyncError{Status: status, Message: "could not open the change stream", Err: err}
	}

	events := make(chan Event)
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	go func() {
		defer close(events)
		defer close(done)
		defer conn.Close()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					log.Warn().Err(err).Msg("Change stream closed")
				}
				return
			}

			var event Event
			if err := json.Unmarshal(data, &event); err != nil {
				log.Warn().Err(err).Msg("Ignoring undecodable change event")
				continue
			}

			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, nil
}
