package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hospital-slots/internal/domain"
)

// PGStore reads doctors and appointments from the hospital database.
// It never writes; the administration system owns those tables.
type PGStore struct {
	DB *pgxpool.Pool
}

func (s *PGStore) GetDoctor(ctx context.Context, id int64) (domain.Doctor, error) {
	q := `SELECT id, first_name, last_name, COALESCE(specialization, ''), COALESCE(available_days, ''),
	             COALESCE(to_char(available_time_start, 'HH24:MI'), ''),
	             COALESCE(to_char(available_time_end, 'HH24:MI'), ''),
	             COALESCE(status, '')
	      FROM doctors WHERE id=$1`

	var d domain.Doctor
	err := s.DB.QueryRow(ctx, q, id).Scan(&d.ID, &d.FirstName, &d.LastName, &d.Specialization,
		&d.AvailableDays, &d.AvailableTimeStart, &d.AvailableTimeEnd, &d.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return d, domain.ErrDoctorNotFound
	}
	if err != nil {
		return d, fmt.Errorf("get doctor %d: %w", id, err)
	}
	return d, nil
}

func (s *PGStore) ListAppointments(ctx context.Context, doctorID int64, date time.Time) ([]domain.Appointment, error) {
	q := `SELECT id, doctor_id, patient_id, to_char(appointment_date, 'YYYY-MM-DD'),
	             to_char(appointment_time, 'HH24:MI'), COALESCE(reason, ''), status
	      FROM appointments
	      WHERE doctor_id=$1 AND appointment_date=$2
	      ORDER BY appointment_time`
	rows, err := s.DB.Query(ctx, q, doctorID, date.Format(domain.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var out []domain.Appointment
	for rows.Next() {
		var a domain.Appointment
		if err := rows.Scan(&a.ID, &a.DoctorID, &a.PatientID, &a.AppointmentDate,
			&a.AppointmentTime, &a.Reason, &a.Status); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PGStore) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}
