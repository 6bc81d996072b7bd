package attendanceerrors

import (
	"net/http"

	"github.com/TAIYOKONO/kintaikanri/internal/shared/apperror"
)

var (
	ErrRecordNotFound = apperror.New(apperror.CodeNotFound, "Attendance record not found", http.StatusNotFound)

	ErrAlreadyClockedIn = apperror.New(apperror.CodeInvalidState, "Already clocked in today", http.StatusConflict)

	ErrNotClockedIn = apperror.New(apperror.CodeInvalidState, "Not clocked in today", http.StatusConflict)

	ErrAlreadyCompleted = apperror.New(apperror.CodeInvalidState, "Attendance for today is already completed", http.StatusConflict)

	ErrBreakOpen = apperror.New(apperror.CodeInvalidState, "End the current break before clocking out", http.StatusConflict)

	ErrAlreadyOnBreak = apperror.New(apperror.CodeInvalidState, "Already on break", http.StatusConflict)

	ErrNoOpenBreak = apperror.New(apperror.CodeNotFound, "No break is in progress", http.StatusNotFound)

	ErrInvalidDate = apperror.New(apperror.CodeInvalidInput, "Date must be in YYYY-MM-DD form", http.StatusBadRequest)

	ErrInvalidTimeRange = apperror.New(apperror.CodeInvalidInput, "End time must be after start time", http.StatusBadRequest)

	ErrReasonRequired = apperror.New(apperror.CodeInvalidInput, "An edit reason is required", http.StatusBadRequest)
)
