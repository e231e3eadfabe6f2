package scheduler

import (
	"context"
	"time"

	"clinic-app-server/internal/models"
)

// Store is the record-store boundary the scheduler operates over. The scheduler
// itself is stateless; everything it knows it reads through this interface per
// request. Implementations must make CreateAppointment return ErrSlotTaken and
// CreateMedicalRecord return ErrRecordExists on uniqueness violations, so the
// persistent constraint and the upstream pre-check surface the same error.
type Store interface {
	// FindAppointments returns every appointment for the doctor on the date,
	// regardless of status.
	FindAppointments(ctx context.Context, doctorID string, date time.Time) ([]models.Appointment, error)

	// FindAppointment looks up the appointment occupying the exact
	// (doctor, date, slot) triple, or nil when the triple is free.
	FindAppointment(ctx context.Context, doctorID string, date time.Time, slot string) (*models.Appointment, error)

	// GetAppointment fetches an appointment by id, or nil when absent.
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)

	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	SetAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) error
	DeleteAppointment(ctx context.Context, id string) error

	// FindMedicalRecord returns the record attached to the appointment, or nil.
	FindMedicalRecord(ctx context.Context, appointmentID string) (*models.MedicalRecord, error)

	CreateMedicalRecord(ctx context.Context, rec *models.MedicalRecord) error
	DeleteMedicalRecordByAppointment(ctx context.Context, appointmentID string) error

	// InTransaction runs fn against a transactional view of the store. All
	// writes inside fn commit together or roll back together.
	InTransaction(ctx context.Context, fn func(Store) error) error
}
