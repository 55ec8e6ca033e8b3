package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hospital-slots/internal/slots"
)

// CalendarBusy returns the wall-clock windows a doctor is busy on date
// according to an external calendar.
type CalendarBusy interface {
	Busy(ctx context.Context, token, calendarID string, date time.Time) ([]slots.Window, error)
}

type App struct {
	Doctors      DoctorDirectory
	Appointments AppointmentLister
	// Calendar is optional; nil disables the X-Google-Token merge.
	Calendar CalendarBusy
	Log      *zap.Logger
	// Checks are run by the health endpoint, keyed by dependency name.
	Checks map[string]func(context.Context) error
}

func (a *App) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}
