package analytics

import (
	"math"
	"sort"
	"time"

	"go-otta/internal/domain"
)

var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// Summarize aggregates every log regardless of date. Completed counts only
// office work; every non-office entry counts as leave.
func Summarize(logs []domain.TimeLog, loc *time.Location) Summary {
	if loc == nil {
		loc = time.Local
	}

	var (
		totalMinutes int
		employees    = make(map[string]struct{})
		volume       = make(map[time.Weekday]int)
		dist         Distribution
	)
	for _, l := range logs {
		totalMinutes += l.Minutes()
		employees[l.UserID] = struct{}{}

		switch {
		case l.IsActive():
			dist.Active++
		case l.Type == domain.LogTypeOfficeWork:
			dist.Completed++
		}
		if l.Type != domain.LogTypeOfficeWork {
			dist.Leaves++
			continue
		}
		volume[l.CheckIn.In(loc).Weekday()] += l.Minutes()
	}

	sum := Summary{
		TotalHours:      float64(totalMinutes) / 60,
		UniqueEmployees: len(employees),
		Distribution:    dist,
		WeekdayVolume:   []DayVolume{},
	}
	if dist.Completed > 0 {
		sum.AvgShift = sum.TotalHours / float64(dist.Completed)
	}
	for _, wd := range weekOrder {
		if m, ok := volume[wd]; ok {
			sum.WeekdayVolume = append(sum.WeekdayVolume, DayVolume{Day: wd, Minutes: m})
		}
	}
	return sum
}

// Activity returns logs newest check-in first. limit <= 0 keeps all.
func Activity(logs []domain.TimeLog, limit int) []domain.TimeLog {
	out := make([]domain.TimeLog, len(logs))
	copy(out, logs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CheckIn.After(out[j].CheckIn)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
