package analytics

import (
	"fmt"
	"time"

	"go-otta/internal/domain"
)

type ActivityQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=1000"`
}

type SummaryResponse struct {
	TotalHours      float64              `json:"totalHours"`
	UniqueEmployees int                  `json:"uniqueEmployees"`
	AvgShift        float64              `json:"avgShift"`
	WeekdayVolume   []DayVolumeResponse  `json:"weekdayVolume"`
	Distribution    DistributionResponse `json:"distribution"`
}

type DayVolumeResponse struct {
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

type DistributionResponse struct {
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Leaves    int `json:"leaves"`
}

type ActivityResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	UserName        string  `json:"userName"`
	Type            string  `json:"type"`
	Status          string  `json:"status"`
	Date            string  `json:"date"`
	CheckIn         string  `json:"checkIn"`
	CheckOut        *string `json:"checkOut,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Hours           string  `json:"hours"`
	Remarks         string  `json:"remarks,omitempty"`
}

func mapToSummaryResponse(s Summary) SummaryResponse {
	resp := SummaryResponse{
		TotalHours:      round1(s.TotalHours),
		UniqueEmployees: s.UniqueEmployees,
		AvgShift:        round1(s.AvgShift),
		WeekdayVolume:   make([]DayVolumeResponse, len(s.WeekdayVolume)),
		Distribution: DistributionResponse{
			Active:    s.Distribution.Active,
			Completed: s.Distribution.Completed,
			Leaves:    s.Distribution.Leaves,
		},
	}
	for i, v := range s.WeekdayVolume {
		resp.WeekdayVolume[i] = DayVolumeResponse{
			Name:  v.Day.String()[:3],
			Hours: round1(float64(v.Minutes) / 60),
		}
	}
	return resp
}

func mapToActivityResponse(l domain.TimeLog) ActivityResponse {
	resp := ActivityResponse{
		ID:              l.ID,
		UserID:          l.UserID,
		UserName:        l.UserName,
		Type:            string(l.Type),
		Status:          string(l.Status),
		Date:            l.Date,
		CheckIn:         l.CheckIn.Format(time.RFC3339),
		DurationMinutes: l.DurationMinutes,
		Hours:           "-",
		Remarks:         l.Remarks,
	}
	if l.CheckOut != nil {
		v := l.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &v
	}
	if l.Type == domain.LogTypeOfficeWork && l.Minutes() > 0 {
		resp.Hours = fmt.Sprintf("%.1fh", float64(l.Minutes())/60)
	}
	return resp
}
