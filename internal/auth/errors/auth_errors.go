package autherrors

import (
	"net/http"

	"github.com/TAIYOKONO/kintaikanri/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(apperror.CodeUnauthorized, "Email or password is incorrect", http.StatusUnauthorized)

	ErrInvalidToken = apperror.New(apperror.CodeUnauthorized, "Invalid token", http.StatusUnauthorized)

	ErrTokenExpired = apperror.New(apperror.CodeTokenExpired, "Token has expired", http.StatusUnauthorized)

	ErrInvalidRefreshToken = apperror.New(apperror.CodeUnauthorized, "Invalid refresh token", http.StatusUnauthorized)

	ErrForbidden = apperror.New(apperror.CodeForbidden, "You do not have permission to access this resource", http.StatusForbidden)

	ErrInvalidUserID = apperror.New(apperror.CodeInvalidInput, "Invalid user id", http.StatusBadRequest)

	ErrUserNotFound = apperror.New(apperror.CodeNotFound, "User not found", http.StatusNotFound)

	ErrAccountDisabled = apperror.New(apperror.CodeForbidden, "Account has been disabled", http.StatusForbidden)

	ErrTenantSuspended = apperror.New(apperror.CodeForbidden, "Workspace is suspended", http.StatusForbidden)

	ErrEmailAlreadyRegistered = apperror.New(apperror.CodeConflict, "Email is already registered", http.StatusConflict)

	ErrTokenGenerationFailed = apperror.New(apperror.CodeInternalError, "Failed to generate token", http.StatusInternalServerError)
)
