package adminrequesterrors

import (
	"net/http"

	"github.com/TAIYOKONO/kintaikanri/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(apperror.CodeNotFound, "Admin request not found", http.StatusNotFound)

	ErrAlreadyReviewed = apperror.New(apperror.CodeInvalidState, "Admin request has already been reviewed", http.StatusConflict)

	ErrPendingRequestExists = apperror.New(apperror.CodeConflict, "A pending request already exists for this email", http.StatusConflict)

	ErrEmailAlreadyRegistered = apperror.New(apperror.CodeConflict, "Email is already registered", http.StatusConflict)

	ErrRejectReasonRequired = apperror.New(apperror.CodeInvalidInput, "A rejection reason is required", http.StatusBadRequest)
)
