package reporterrors

import (
	"net/http"

	"go-otta/internal/shared/apperror"
)

var (
	ErrNoReportData = apperror.New(
		apperror.CodeNotFound,
		"No data found.",
		http.StatusNotFound,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"start and end must be dates in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
	ErrInvalidRange = apperror.New(
		apperror.CodeInvalidInput,
		"start must not be after end",
		http.StatusBadRequest,
	)
	ErrRenderFailed = apperror.New(
		apperror.CodeInternalError,
		"failed to generate the report file",
		http.StatusInternalServerError,
	)
)
