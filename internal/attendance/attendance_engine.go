package attendance

import (
	"sort"
	"time"

	attendanceerrors "go-otta/internal/attendance/errors"
	"go-otta/internal/domain"
	"go-otta/internal/ledger"

	"github.com/google/uuid"
)

// Engine holds the entry state machine. It only transforms values; callers
// load and persist the ledger around it.
type Engine struct {
	now   func() time.Time
	loc   *time.Location
	newID func() string
}

type EngineOption func(*Engine)

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func WithIDGenerator(newID func() string) EngineOption {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine assigns calendar days in loc.
func NewEngine(loc *time.Location, opts ...EngineOption) *Engine {
	if loc == nil {
		loc = time.Local
	}
	e := &Engine{now: time.Now, loc: loc, newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Now() time.Time { return e.now().In(e.loc) }

func (e *Engine) Location() *time.Location { return e.loc }

func (e *Engine) Today() string { return e.Now().Format(domain.DateLayout) }

// CheckIn opens a new office entry. A user with an open entry is rejected.
func (e *Engine) CheckIn(logs []domain.TimeLog, user domain.User) (domain.TimeLog, error) {
	if ledger.FindActive(logs, user.ID) != nil {
		return domain.TimeLog{}, attendanceerrors.ErrAlreadyCheckedIn
	}

	now := e.Now()
	return domain.TimeLog{
		ID:       e.newID(),
		UserID:   user.ID,
		UserName: user.Name,
		Type:     domain.LogTypeOfficeWork,
		CheckIn:  now,
		Status:   domain.LogStatusActive,
		Date:     now.Format(domain.DateLayout),
	}, nil
}

// CheckOut closes active in place; the id is kept.
func (e *Engine) CheckOut(active *domain.TimeLog) (domain.TimeLog, error) {
	if active == nil || !active.IsActive() {
		return domain.TimeLog{}, attendanceerrors.ErrNoActiveEntry
	}

	now := e.Now()
	closed := *active
	minutes := wholeMinutes(now.Sub(active.CheckIn))
	closed.CheckOut = &now
	closed.DurationMinutes = &minutes
	closed.Status = domain.LogStatusCompleted
	return closed, nil
}

// ManualEntry builds a completed entry without looking at existing ones;
// several entries per day are allowed.
func (e *Engine) ManualEntry(user domain.User, in ManualEntry) (domain.TimeLog, error) {
	if !in.Type.Valid() {
		return domain.TimeLog{}, attendanceerrors.ErrInvalidLogType
	}
	day, err := time.ParseInLocation(domain.DateLayout, in.Date, e.loc)
	if err != nil {
		return domain.TimeLog{}, attendanceerrors.ErrInvalidDate
	}

	log := domain.TimeLog{
		ID:       e.newID(),
		UserID:   user.ID,
		UserName: user.Name,
		Type:     in.Type,
		Status:   domain.LogStatusCompleted,
		Date:     in.Date,
		Remarks:  in.Notes,
	}

	if in.Type.IsLeave() {
		marker := day
		zero := 0
		log.CheckIn = marker
		log.CheckOut = &marker
		log.DurationMinutes = &zero
		return log, nil
	}

	start, err := atClock(day, in.StartTime)
	if err != nil {
		return domain.TimeLog{}, err
	}
	end, err := atClock(day, in.EndTime)
	if err != nil {
		return domain.TimeLog{}, err
	}
	if !end.After(start) {
		return domain.TimeLog{}, attendanceerrors.ErrInvalidTimeRange
	}

	minutes := wholeMinutes(end.Sub(start))
	log.CheckIn = start
	log.CheckOut = &end
	log.DurationMinutes = &minutes
	return log, nil
}

// Summarize aggregates userID's entries dated today. The open entry counts
// with its live elapsed time whatever its date.
func (e *Engine) Summarize(logs []domain.TimeLog, userID string) TodaySummary {
	now := e.Now()
	today := now.Format(domain.DateLayout)
	sum := TodaySummary{Date: today, Entries: []domain.TimeLog{}}

	for _, l := range logs {
		if l.UserID != userID || l.Date != today {
			continue
		}
		sum.Entries = append(sum.Entries, l)
		sum.TotalMinutes += l.Minutes()

		if l.Type != domain.LogTypeOfficeWork {
			continue
		}
		if sum.FirstCheckIn == nil || l.CheckIn.Before(*sum.FirstCheckIn) {
			in := l.CheckIn
			sum.FirstCheckIn = &in
		}
		if l.Status == domain.LogStatusCompleted && l.CheckOut != nil &&
			(sum.LastCheckOut == nil || l.CheckOut.After(*sum.LastCheckOut)) {
			out := *l.CheckOut
			sum.LastCheckOut = &out
		}
	}

	if active := ledger.FindActive(logs, userID); active != nil {
		elapsed := now.Sub(active.CheckIn)
		if elapsed < 0 {
			elapsed = 0
		}
		sum.Active = active
		sum.ElapsedSeconds = int64(elapsed / time.Second)
		sum.TotalMinutes += wholeMinutes(elapsed)
	}
	return sum
}

// UserLogs returns userID's entries, newest check-in first.
func UserLogs(logs []domain.TimeLog, userID string) []domain.TimeLog {
	out := make([]domain.TimeLog, 0)
	for _, l := range logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CheckIn.After(out[j].CheckIn)
	})
	return out
}

func atClock(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidTime
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// wholeMinutes floors d to minutes, never below zero.
func wholeMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}
