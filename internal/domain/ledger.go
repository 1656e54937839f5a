package domain

import "time"

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleHR       Role = "HR"
)

type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Role       Role   `json:"role"`
	Department string `json:"department"`
	Avatar     string `json:"avatar"`
}

type LogType string

const (
	LogTypeOfficeWork  LogType = "OFFICE_WORK"
	LogTypeSickLeave   LogType = "SICK_LEAVE"
	LogTypeCasualLeave LogType = "CASUAL_LEAVE"
	LogTypeOther       LogType = "OTHER"
)

func (t LogType) Valid() bool {
	switch t {
	case LogTypeOfficeWork, LogTypeSickLeave, LogTypeCasualLeave, LogTypeOther:
		return true
	}
	return false
}

func (t LogType) IsLeave() bool {
	return t.Valid() && t != LogTypeOfficeWork
}

type LogStatus string

const (
	LogStatusActive    LogStatus = "active"
	LogStatusCompleted LogStatus = "completed"
)

// TimeLog is one attendance record. UserName is a snapshot taken when the
// entry was created and is not kept in sync with the user registry.
type TimeLog struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	UserName        string     `json:"userName"`
	Type            LogType    `json:"type"`
	CheckIn         time.Time  `json:"checkIn"`
	CheckOut        *time.Time `json:"checkOut,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
	Status          LogStatus  `json:"status"`
	Date            string     `json:"date"`
	Remarks         string     `json:"remarks,omitempty"`
}

func (l TimeLog) IsActive() bool {
	return l.Status == LogStatusActive
}

// LatestAt is the checkout instant when present, otherwise the check-in.
func (l TimeLog) LatestAt() time.Time {
	if l.CheckOut != nil {
		return *l.CheckOut
	}
	return l.CheckIn
}

// Minutes returns DurationMinutes or zero.
func (l TimeLog) Minutes() int {
	if l.DurationMinutes == nil {
		return 0
	}
	return *l.DurationMinutes
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

const DateLayout = "2006-01-02"
