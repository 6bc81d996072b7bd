package inviteerrors

import (
	"net/http"

	"github.com/TAIYOKONO/kintaikanri/internal/shared/apperror"
)

var (
	ErrInviteInvalid = apperror.New(apperror.CodeNotFound, "Invite code is invalid", http.StatusNotFound)

	ErrInviteInactive = apperror.New(apperror.CodeInvalidState, "Invite code has been deactivated", http.StatusGone)

	ErrInviteExpired = apperror.New(apperror.CodeTokenExpired, "Invite code has expired", http.StatusGone)

	ErrInviteExhausted = apperror.New(apperror.CodeQuotaExceeded, "Invite code has reached its usage limit", http.StatusConflict)
)
