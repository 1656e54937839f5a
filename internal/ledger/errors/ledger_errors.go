package ledgererrors

import (
	"net/http"

	"go-otta/internal/shared/apperror"
)

var (
	ErrCorruptPayload = apperror.New(
		apperror.CodeInternalError,
		"stored ledger data is malformed",
		http.StatusInternalServerError,
	)
	ErrStorageUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"ledger storage is unavailable",
		http.StatusServiceUnavailable,
	)
	ErrUserExists = apperror.New(
		apperror.CodeConflict,
		"user with the same id already exists",
		http.StatusConflict,
	)
	ErrInvalidTheme = apperror.New(
		apperror.CodeInvalidInput,
		"theme must be light or dark",
		http.StatusBadRequest,
	)
)
