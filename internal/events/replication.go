package events

import (
	"encoding/json"
	"time"
)

const ReplicationTopic = "otta.replication.v1"

const (
	ActionAddUser       = "ADD_USER"
	ActionLogAttendance = "LOG_ATTENDANCE"
)

// ReplicationEnvelope is the body the spreadsheet web-app accepts. Key and
// OccurredAt travel as Kafka message metadata, not in the body.
type ReplicationEnvelope struct {
	Action     string          `json:"action"`
	Data       json.RawMessage `json:"data"`
	Key        string          `json:"-"`
	OccurredAt time.Time       `json:"-"`
}
