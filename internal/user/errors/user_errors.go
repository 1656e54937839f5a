package usererrors

import (
	"go-otta/internal/shared/apperror"
	"net/http"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)

	ErrUserAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"User with the same email already exists",
		http.StatusConflict,
	)

	ErrRemoveSessionUser = apperror.New(
		apperror.CodeInvalidState,
		"The signed-in user cannot be removed",
		http.StatusConflict,
	)
)
