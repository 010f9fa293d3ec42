// backend/models/events.go
package models

// Event payloads published on the NATS bus. Downstream consumers
// (notifications, cache invalidation, achievements) subscribe independently;
// the lifecycle never blocks on them.

// PirepEvent is the payload for the filed / accepted / rejected subjects.
type PirepEvent struct {
	Pirep *Pirep `json:"pirep"`
}

// PilotStatsChangedEvent is the payload for the pilot stats-changed subject.
// It names the changed field and carries the previous value so consumers
// like the achievements system can diff without a second read.
type PilotStatsChangedEvent struct {
	PilotID       int64  `json:"pilot_id"`
	Field         string `json:"field"`
	PreviousValue string `json:"previous_value"`
	NewValue      string `json:"new_value"`
}
