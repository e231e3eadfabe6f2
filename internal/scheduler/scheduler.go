// Package scheduler implements appointment slot allocation and conflict
// avoidance: computing free slots for a doctor on a date, booking a slot
// exactly once per (doctor, date, slot) triple, and driving the appointment
// lifecycle from Scheduled to Completed.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"clinic-app-server/internal/models"
)

// DateLayout is the wire format for appointment dates.
const DateLayout = "2006-01-02"

// Actor is the authenticated identity an operation runs as. For doctors and
// patients the ID is the directory profile id, not the login account id.
// Roles are verified upstream; the scheduler trusts them but still enforces
// ownership per operation.
type Actor struct {
	ID   string
	Role models.Role
}

// Service is the slot scheduler. It holds no state of its own beyond the
// store handle and a clock, injectable for tests.
type Service struct {
	store Store
	now   func() time.Time
}

// New creates a scheduler over the given store.
func New(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// AvailableSlots returns the free slots for a doctor on a date, partitioned by
// period in template order. For today, slots not strictly later than the
// current time are excluded. Appointments occupy their slot regardless of
// status. An unknown doctor simply yields the full template; validating doctor
// existence is the caller's job.
func (s *Service) AvailableSlots(ctx context.Context, doctorID string, dateStr string) (Availability, error) {
	date, err := time.ParseInLocation(DateLayout, dateStr, time.Local)
	if err != nil {
		return Availability{}, fmt.Errorf("%w: %q", ErrBadDate, dateStr)
	}

	morning := slotTemplate[PeriodMorning]
	afternoon := slotTemplate[PeriodAfternoon]
	evening := slotTemplate[PeriodEvening]

	now := s.now()
	if sameDay(date, now) {
		// "HH:MM" compares correctly as a string.
		cutoff := now.Format("15:04")
		morning = slotsAfter(morning, cutoff)
		afternoon = slotsAfter(afternoon, cutoff)
		evening = slotsAfter(evening, cutoff)
	}

	appts, err := s.store.FindAppointments(ctx, doctorID, date)
	if err != nil {
		return Availability{}, err
	}
	booked := make(map[string]bool, len(appts))
	for _, appt := range appts {
		booked[appt.TimeSlot] = true
	}

	return Availability{
		Morning:   slotsExcluding(morning, booked),
		Afternoon: slotsExcluding(afternoon, booked),
		Evening:   slotsExcluding(evening, booked),
	}, nil
}

// Book creates a Scheduled appointment for the triple, or fails with
// ErrSlotTaken if it is occupied. The pre-check gives a fast answer; the
// store's uniqueness constraint is what actually prevents a concurrent double
// booking, and surfaces as the same ErrSlotTaken.
func (s *Service) Book(ctx context.Context, actor Actor, patientID, doctorID, dateStr, slot string) (*models.Appointment, error) {
	if actor.Role == models.RolePatient && actor.ID != patientID {
		return nil, ErrNotOwner
	}

	date, err := time.ParseInLocation(DateLayout, dateStr, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadDate, dateStr)
	}
	if date.Before(startOfDay(s.now())) {
		return nil, fmt.Errorf("%w: %q is in the past", ErrBadDate, dateStr)
	}

	if !templateHasSlot(slot) {
		return nil, fmt.Errorf("%w: %q", ErrBadSlot, slot)
	}
	period, err := PeriodOf(slot)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.FindAppointment(ctx, doctorID, date, slot)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlotTaken
	}

	appt := &models.Appointment{
		PatientID:       patientID,
		DoctorID:        doctorID,
		AppointmentDate: date,
		TimeSlot:        slot,
		Period:          string(period),
		Status:          models.StatusScheduled,
	}
	err = s.store.InTransaction(ctx, func(tx Store) error {
		return tx.CreateAppointment(ctx, appt)
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// Complete marks an appointment Completed. Only the owning doctor may do
// this; an already completed appointment completes idempotently.
func (s *Service) Complete(ctx context.Context, actor Actor, appointmentID string) (*models.Appointment, error) {
	appt, err := s.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrNotFound
	}
	if actor.Role != models.RoleDoctor || actor.ID != appt.DoctorID {
		return nil, ErrNotOwner
	}
	if appt.Status == models.StatusCompleted {
		return appt, nil
	}

	err = s.store.InTransaction(ctx, func(tx Store) error {
		return tx.SetAppointmentStatus(ctx, appt.ID, models.StatusCompleted)
	})
	if err != nil {
		return nil, err
	}
	appt.Status = models.StatusCompleted
	return appt, nil
}

// AttachRecord creates the medical record for an appointment and transitions
// it to Completed as one unit. At most one record may exist per appointment;
// a second attempt fails with ErrRecordExists and leaves the original intact.
func (s *Service) AttachRecord(ctx context.Context, actor Actor, appointmentID, diagnosis, prescription, notes string) (*models.MedicalRecord, error) {
	appt, err := s.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, ErrNotFound
	}
	if actor.Role != models.RoleDoctor || actor.ID != appt.DoctorID {
		return nil, ErrNotOwner
	}

	existing, err := s.store.FindMedicalRecord(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrRecordExists
	}

	rec := &models.MedicalRecord{
		PatientID:     appt.PatientID,
		AppointmentID: appt.ID,
		Diagnosis:     diagnosis,
		Prescription:  prescription,
		Notes:         notes,
	}
	err = s.store.InTransaction(ctx, func(tx Store) error {
		if err := tx.CreateMedicalRecord(ctx, rec); err != nil {
			return err
		}
		return tx.SetAppointmentStatus(ctx, appt.ID, models.StatusCompleted)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// CancelAsPatient lets the owning patient cancel a still-Scheduled
// appointment. The row is deleted, which frees the slot for rebooking.
func (s *Service) CancelAsPatient(ctx context.Context, actor Actor, appointmentID string) error {
	appt, err := s.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appt == nil {
		return ErrNotFound
	}
	if actor.Role != models.RolePatient || actor.ID != appt.PatientID {
		return ErrNotOwner
	}
	if appt.Status != models.StatusScheduled {
		return ErrNotCancellable
	}

	return s.store.InTransaction(ctx, func(tx Store) error {
		return tx.DeleteAppointment(ctx, appt.ID)
	})
}

// Remove is the administrative hard delete: no ownership check, any status,
// cascading to the attached medical record so no orphan rows remain.
func (s *Service) Remove(ctx context.Context, actor Actor, appointmentID string) error {
	if actor.Role != models.RoleAdmin {
		return ErrNotOwner
	}
	appt, err := s.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appt == nil {
		return ErrNotFound
	}

	return s.store.InTransaction(ctx, func(tx Store) error {
		if err := tx.DeleteMedicalRecordByAppointment(ctx, appt.ID); err != nil {
			return err
		}
		return tx.DeleteAppointment(ctx, appt.ID)
	})
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func slotsAfter(slots []string, cutoff string) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if s > cutoff {
			out = append(out, s)
		}
	}
	return out
}

func slotsExcluding(slots []string, booked map[string]bool) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if !booked[s] {
			out = append(out, s)
		}
	}
	return out
}
