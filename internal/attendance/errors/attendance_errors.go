package attendanceerrors

import (
	"net/http"

	"go-otta/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrAlreadyCheckedIn = apperror.New(
		apperror.CodeInvalidState,
		"user already has an active entry, check out first",
		http.StatusConflict,
	)
	ErrNoActiveEntry = apperror.New(
		apperror.CodeInvalidState,
		"no active entry to check out",
		http.StatusConflict,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidTime = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time format, expected HH:mm",
		http.StatusBadRequest,
	)
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"End time must be after start time",
		http.StatusBadRequest,
	)
	ErrInvalidLogType = apperror.New(
		apperror.CodeInvalidInput,
		"type must be one of OFFICE_WORK, SICK_LEAVE, CASUAL_LEAVE, OTHER",
		http.StatusBadRequest,
	)
)
