package rbacerrors

import (
	"net/http"

	"github.com/TAIYOKONO/kintaikanri/internal/shared/apperror"
)

var (
	ErrUnknownRole = apperror.New(apperror.CodeInvalidInput, "role must be employee or admin", http.StatusBadRequest)
)
