package domain

import (
	"errors"
	"strings"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrUnauthorized   = errors.New("unauthorized")
)

const (
	DoctorActive   = "active"
	DoctorInactive = "inactive"

	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// DateLayout is the wire format of appointment dates.
const DateLayout = "2006-01-02"

type Doctor struct {
	ID                 int64  `json:"id"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Specialization     string `json:"specialization,omitempty"`
	AvailableDays      string `json:"available_days,omitempty"`
	AvailableTimeStart string `json:"available_time_start,omitempty"`
	AvailableTimeEnd   string `json:"available_time_end,omitempty"`
	Status             string `json:"status"`
}

// HasWindow reports whether both ends of the availability window are recorded.
func (d Doctor) HasWindow() bool {
	return strings.TrimSpace(d.AvailableTimeStart) != "" && strings.TrimSpace(d.AvailableTimeEnd) != ""
}

// IsActive treats a missing status as active, matching the booking UI default.
func (d Doctor) IsActive() bool {
	return d.Status == "" || strings.EqualFold(d.Status, DoctorActive)
}

type Appointment struct {
	ID              int64  `json:"id"`
	DoctorID        int64  `json:"doctor_id"`
	PatientID       int64  `json:"patient_id"`
	AppointmentDate string `json:"appointment_date"`
	AppointmentTime string `json:"appointment_time"`
	Reason          string `json:"reason,omitempty"`
	Status          string `json:"status"`
}

// Holds reports whether the appointment still occupies its slot.
func (a Appointment) Holds() bool {
	return !strings.EqualFold(a.Status, AppointmentCancelled)
}
