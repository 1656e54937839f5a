package notification

import (
	"fmt"

	"go-otta/internal/domain"
)

type Kind string

const (
	KindCheckedIn  Kind = "checked_in"
	KindCheckedOut Kind = "checked_out"
	KindNone       Kind = "none"
)

type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

type Event struct {
	Log    domain.TimeLog `json:"log"`
	Kind   Kind           `json:"kind"`
	Source Source         `json:"source"`
}

// Classify maps an entry to the toast it should produce. Leave entries and
// anything not matching the two shapes below produce none.
func Classify(l domain.TimeLog) Kind {
	switch {
	case l.Status == domain.LogStatusActive:
		return KindCheckedIn
	case l.Status == domain.LogStatusCompleted && l.Type == domain.LogTypeOfficeWork:
		return KindCheckedOut
	default:
		return KindNone
	}
}

// Message is the toast text for ev, empty for KindNone.
func Message(ev Event) string {
	switch ev.Kind {
	case KindCheckedIn:
		return fmt.Sprintf("%s checked in", ev.Log.UserName)
	case KindCheckedOut:
		return fmt.Sprintf("%s checked out", ev.Log.UserName)
	default:
		return ""
	}
}
