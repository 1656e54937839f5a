package attendance

import (
	"time"

	"go-otta/internal/domain"
)

type ManualEntryRequest struct {
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	Type      string `json:"type" binding:"required,oneof=OFFICE_WORK SICK_LEAVE CASUAL_LEAVE OTHER"`
	StartTime string `json:"startTime" binding:"required_if=Type OFFICE_WORK"`
	EndTime   string `json:"endTime" binding:"required_if=Type OFFICE_WORK"`
	Notes     string `json:"notes" binding:"max=500"`
}

type TimeLogResponse struct {
	ID              string  `json:"id"`
	UserID          string  `json:"userId"`
	UserName        string  `json:"userName"`
	Type            string  `json:"type"`
	CheckIn         string  `json:"checkIn"`
	CheckOut        *string `json:"checkOut,omitempty"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Status          string  `json:"status"`
	Date            string  `json:"date"`
	Remarks         string  `json:"remarks,omitempty"`
}

type TodayResponse struct {
	Date           string            `json:"date"`
	FirstCheckIn   *string           `json:"firstCheckIn"`
	LastCheckOut   *string           `json:"lastCheckOut"`
	TotalMinutes   int               `json:"totalMinutes"`
	ElapsedSeconds int64             `json:"elapsedSeconds"`
	Active         *TimeLogResponse  `json:"active"`
	Entries        []TimeLogResponse `json:"entries"`
}

func mapToResponse(l domain.TimeLog) TimeLogResponse {
	resp := TimeLogResponse{
		ID:              l.ID,
		UserID:          l.UserID,
		UserName:        l.UserName,
		Type:            string(l.Type),
		CheckIn:         l.CheckIn.Format(time.RFC3339),
		DurationMinutes: l.DurationMinutes,
		Status:          string(l.Status),
		Date:            l.Date,
		Remarks:         l.Remarks,
	}
	if l.CheckOut != nil {
		v := l.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &v
	}
	return resp
}

func mapToListResponse(logs []domain.TimeLog) []TimeLogResponse {
	res := make([]TimeLogResponse, len(logs))
	for i, l := range logs {
		res[i] = mapToResponse(l)
	}
	return res
}

func mapToTodayResponse(s TodaySummary) TodayResponse {
	resp := TodayResponse{
		Date:           s.Date,
		TotalMinutes:   s.TotalMinutes,
		ElapsedSeconds: s.ElapsedSeconds,
		Entries:        mapToListResponse(s.Entries),
	}
	if s.FirstCheckIn != nil {
		v := s.FirstCheckIn.Format(time.RFC3339)
		resp.FirstCheckIn = &v
	}
	if s.LastCheckOut != nil {
		v := s.LastCheckOut.Format(time.RFC3339)
		resp.LastCheckOut = &v
	}
	if s.Active != nil {
		a := mapToResponse(*s.Active)
		resp.Active = &a
	}
	return resp
}
