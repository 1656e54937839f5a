package attendance

import (
	"time"

	"go-otta/internal/domain"
)

// ManualEntry is a retroactive entry. StartTime and EndTime are HH:mm and
// only read for office work.
type ManualEntry struct {
	Date      string
	Type      domain.LogType
	StartTime string
	EndTime   string
	Notes     string
}

// TodaySummary is derived on every read and never stored.
type TodaySummary struct {
	Date           string
	FirstCheckIn   *time.Time
	LastCheckOut   *time.Time
	TotalMinutes   int
	ElapsedSeconds int64
	Active         *domain.TimeLog
	Entries        []domain.TimeLog
}
