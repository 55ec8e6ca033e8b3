package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hospital-slots/internal/domain"
	"hospital-slots/internal/slots"
)

var ErrInvalidDate = errors.New("invalid date")

type DoctorDirectory interface {
	GetDoctor(ctx context.Context, id int64) (domain.Doctor, error)
}

type AppointmentLister interface {
	ListAppointments(ctx context.Context, doctorID int64, date time.Time) ([]domain.Appointment, error)
}

// Why a doctor has no slots on a date; empty when slots were computed.
const (
	ReasonNoWindow      = "no_availability_window"
	ReasonInvalidWindow = "invalid_availability_window"
	ReasonInactive      = "doctor_inactive"
	ReasonDayOff        = "not_a_working_day"
)

type DoctorSlots struct {
	DoctorID int64    `json:"doctor_id"`
	Date     string   `json:"date"`
	Slots    []string `json:"slots"`
	Count    int      `json:"count"`
	Reason   string   `json:"reason,omitempty"`
}

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// GenerateAvailableSlots computes the open slots of one doctor on one date.
// Busy windows (from an external calendar) block every slot they overlap.
// A doctor without a usable window gets an empty list, not an error.
func (a *App) GenerateAvailableSlots(ctx context.Context, doctorID int64, date time.Time, busy []slots.Window) (DoctorSlots, error) {
	doctor, err := a.Doctors.GetDoctor(ctx, doctorID)
	if err != nil {
		return DoctorSlots{DoctorID: doctorID, Date: date.Format(domain.DateLayout), Slots: []string{}}, err
	}
	if doctor.ID == 0 {
		doctor.ID = doctorID
	}
	return a.SlotsForDoctor(ctx, doctor, date, busy)
}

// SlotsForDoctor is GenerateAvailableSlots for a doctor the caller already loaded.
func (a *App) SlotsForDoctor(ctx context.Context, doctor domain.Doctor, date time.Time, busy []slots.Window) (DoctorSlots, error) {
	doctorID := doctor.ID
	out := DoctorSlots{DoctorID: doctorID, Date: date.Format(domain.DateLayout), Slots: []string{}}

	if !doctor.HasWindow() {
		out.Reason = ReasonNoWindow
		return out, nil
	}
	if !doctor.IsActive() {
		out.Reason = ReasonInactive
		return out, nil
	}
	days, err := slots.ParseDays(doctor.AvailableDays)
	if err != nil {
		// unreadable day lists do not hide the doctor
		a.logger().Warn("ignoring available_days", zap.Int64("doctor_id", doctorID), zap.Error(err))
		days = nil
	}
	if !days.Has(date.Weekday()) {
		out.Reason = ReasonDayOff
		return out, nil
	}

	if _, err := slots.ParseWindow(doctor.AvailableTimeStart, doctor.AvailableTimeEnd); err != nil {
		a.logger().Warn("doctor has an unusable availability window",
			zap.Int64("doctor_id", doctorID),
			zap.String("start", doctor.AvailableTimeStart),
			zap.String("end", doctor.AvailableTimeEnd),
			zap.Error(err))
		out.Reason = ReasonInvalidWindow
		return out, nil
	}
	candidates := slots.GenerateSlots(doctor.AvailableTimeStart, doctor.AvailableTimeEnd)

	appointments, err := a.Appointments.ListAppointments(ctx, doctorID, date)
	if err != nil {
		return out, err
	}
	booked := slots.NewBookedSet()
	for _, ap := range appointments {
		if ap.Holds() {
			booked.Add(ap.AppointmentTime)
		}
	}
	for _, b := range busy {
		booked.Block(candidates, slots.DefaultStepMinutes, b)
	}

	out.Slots = slots.FilterAvailable(candidates, booked)
	out.Count = len(out.Slots)
	return out, nil
}
