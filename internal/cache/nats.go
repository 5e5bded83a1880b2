package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Event is published for every invalidation.
type Event struct {
	Ledger int       `json:"ledger"`
	Names  []string  `json:"names"`
	At     time.Time `json:"at"`
}

type publisher interface {
	Publish(subject string, data []byte) error
}

// NATS announces invalidations so that other processes can drop their own
// caches.
type NATS struct {
	conn    publisher
	subject string
	now     func() time.Time
}

func NewNATS(url, subject string) (*NATS, error) {
	conn, err := nats.Connect(url,
		nats.Name("gl-setup"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATS{conn: conn, subject: subject, now: time.Now}, nil
}

func (n *NATS) Invalidate(_ context.Context, ledger int, names []string) error {
	payload, err := json.Marshal(Event{Ledger: ledger, Names: names, At: n.now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return n.conn.Publish(n.subject, payload)
}

func (n *NATS) Close() {
	if c, ok := n.conn.(*nats.Conn); ok {
		c.Close()
	}
}
