package errors

import "net/http"

var (
	ErrValidation = New(
		"VALIDATION_ERROR",
		"Validation errors",
		http.StatusBadRequest,
	)

	ErrInvalidID = New(
		"INVALID_ID",
		"Invalid id format",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request body",
		http.StatusBadRequest,
	)

	ErrStationNotFound = New(
		"STATION_NOT_FOUND",
		"Charging station not found",
		http.StatusNotFound,
	)

	ErrUserNotFound = New(
		"USER_NOT_FOUND",
		"User not found",
		http.StatusNotFound,
	)

	ErrEmailInUse = New(
		"EMAIL_IN_USE",
		"User already exists with this email",
		http.StatusBadRequest,
	)

	ErrInvalidCredentials = New(
		"INVALID_CREDENTIALS",
		"Invalid email or password",
		http.StatusUnauthorized,
	)

	ErrUnauthorized = New(
		"UNAUTHORIZED",
		"Access denied. No token provided",
		http.StatusUnauthorized,
	)

	ErrInvalidToken = New(
		"INVALID_TOKEN",
		"Invalid or expired token",
		http.StatusUnauthorized,
	)

	ErrForbidden = New(
		"FORBIDDEN",
		"Not authorized to modify this charging station",
		http.StatusForbidden,
	)

	ErrRouteNotFound = New(
		"NOT_FOUND",
		"Not found",
		http.StatusNotFound,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Server Error",
		http.StatusInternalServerError,
	)
)
