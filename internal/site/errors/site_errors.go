package siteerrors

import (
	"net/http"

	"github.com/TAIYOKONO/kintaikanri/internal/shared/apperror"
)

var (
	ErrSiteNotFound = apperror.New(apperror.CodeNotFound, "Site not found", http.StatusNotFound)

	ErrSiteNameTaken = apperror.New(apperror.CodeConflict, "A site with this name already exists", http.StatusConflict)
)
