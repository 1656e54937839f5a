package analytics

import "time"

// Summary is the HR dashboard headline. Hours are decimal hours.
type Summary struct {
	TotalHours      float64
	UniqueEmployees int
	AvgShift        float64
	WeekdayVolume   []DayVolume
	Distribution    Distribution
}

type DayVolume struct {
	Day     time.Weekday
	Minutes int
}

type Distribution struct {
	Active    int
	Completed int
	Leaves    int
}
