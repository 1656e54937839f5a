package replication

import (
	"encoding/json"
	"time"

	"go-otta/internal/domain"
	"go-otta/internal/events"
)

const unknownEmail = "unknown@otta.com"

type logRecord struct {
	domain.TimeLog
	Email string `json:"email"`
}

// NewLogEnvelope wraps a saved entry with the owner's email.
func NewLogEnvelope(log domain.TimeLog, email string, at time.Time) (events.ReplicationEnvelope, error) {
	if email == "" {
		email = unknownEmail
	}
	data, err := json.Marshal(logRecord{TimeLog: log, Email: email})
	if err != nil {
		return events.ReplicationEnvelope{}, err
	}
	return events.ReplicationEnvelope{
		Action:     events.ActionLogAttendance,
		Data:       data,
		Key:        log.UserID,
		OccurredAt: at,
	}, nil
}

func NewUserEnvelope(u domain.User, at time.Time) (events.ReplicationEnvelope, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return events.ReplicationEnvelope{}, err
	}
	return events.ReplicationEnvelope{
		Action:     events.ActionAddUser,
		Data:       data,
		Key:        u.ID,
		OccurredAt: at,
	}, nil
}
