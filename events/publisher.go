// backend/events/publisher.go
package events

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"
)

// NATS subjects for the domain events. Downstream systems (notifications,
// cache invalidation, achievements) subscribe independently; the lifecycle
// never waits on them.
const (
	SubjectPirepFiled        = "v1.pirep.filed"
	SubjectPirepAccepted     = "v1.pirep.accepted"
	SubjectPirepRejected     = "v1.pirep.rejected"
	SubjectPilotStatsChanged = "v1.pilot.stats-changed"
)

// Publisher is the outbound event channel the lifecycle emits into.
// Implementations must not block the caller on consumer success: a failed
// publish is the publisher's problem, not the transition's.
type Publisher interface {
	Publish(subject string, payload interface{})
}

// NatsPublisher publishes JSON payloads to a NATS server.
type NatsPublisher struct {
	conn *nats.Conn
}

// ConnectNats connects to the NATS server at url.
func ConnectNats(url string) (*NatsPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("flightops-backend"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	log.Printf("Events: Connected to NATS at %s\n", url)
	return &NatsPublisher{conn: conn}, nil
}

// Publish marshals the payload to JSON and publishes it fire-and-forget.
// Failures are logged and swallowed; the domain operation already
// committed and must not be failed by the event bus.
func (p *NatsPublisher) Publish(subject string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR Events: Failed to marshal payload for %s: %v", subject, err)
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		log.Printf("ERROR Events: Failed to publish to %s: %v", subject, err)
	}
}

// Close drains and closes the NATS connection.
func (p *NatsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
		log.Println("Events: NATS connection closed.")
	}
}

// NopPublisher discards all events. Used when no NATS URL is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(subject string, payload interface{}) {}
