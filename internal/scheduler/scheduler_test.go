package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-app-server/internal/models"
)

func newTestService(now time.Time) (*Service, *memStore) {
	store := newMemStore()
	svc := New(store)
	svc.now = func() time.Time { return now }
	return svc, store
}

var testClock = time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)

const (
	testDoctor  = "doctor-1"
	testPatient = "patient-1"
	futureDate  = "2024-06-10"
)

func patientActor(id string) Actor { return Actor{ID: id, Role: models.RolePatient} }
func doctorActor(id string) Actor  { return Actor{ID: id, Role: models.RoleDoctor} }
func adminActor() Actor            { return Actor{ID: "admin-1", Role: models.RoleAdmin} }

func TestAvailableSlotsFullTemplateForFutureDate(t *testing.T) {
	svc, _ := newTestService(testClock)

	avail, err := svc.AvailableSlots(context.Background(), testDoctor, futureDate)
	require.NoError(t, err)

	assert.Len(t, avail.Morning, 6)
	assert.Len(t, avail.Afternoon, 8)
	assert.Len(t, avail.Evening, 6)
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}, avail.Morning)
}

func TestAvailableSlotsExcludesBookedPreservingOrder(t *testing.T) {
	svc, _ := newTestService(testClock)
	ctx := context.Background()

	_, err := svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "09:00")
	require.NoError(t, err)
	_, err = svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "10:30")
	require.NoError(t, err)

	avail, err := svc.AvailableSlots(ctx, testDoctor, futureDate)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:30", "10:00", "11:00", "11:30"}, avail.Morning)
	assert.Len(t, avail.Afternoon, 8)
	assert.Len(t, avail.Evening, 6)
}

func TestAvailableSlotsTodayFiltersElapsedSlots(t *testing.T) {
	// 13:10 on the requested day: all morning slots and 13:00 are elapsed.
	now := time.Date(2024, 6, 1, 13, 10, 0, 0, time.Local)
	svc, _ := newTestService(now)

	avail, err := svc.AvailableSlots(context.Background(), testDoctor, "2024-06-01")
	require.NoError(t, err)

	assert.Empty(t, avail.Morning)
	assert.Equal(t, []string{"13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30"}, avail.Afternoon)
	assert.Len(t, avail.Evening, 6)
}

func TestAvailableSlotsOtherDoctorUnaffected(t *testing.T) {
	svc, _ := newTestService(testClock)
	ctx := context.Background()

	_, err := svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "09:00")
	require.NoError(t, err)

	avail, err := svc.AvailableSlots(ctx, "doctor-2", futureDate)
	require.NoError(t, err)
	assert.Len(t, avail.Morning, 6)
}

func TestAvailableSlotsBadDate(t *testing.T) {
	svc, _ := newTestService(testClock)

	_, err := svc.AvailableSlots(context.Background(), testDoctor, "06/10/2024")
	assert.ErrorIs(t, err, ErrBadDate)
}

func TestBookCreatesScheduledAppointment(t *testing.T) {
	svc, store := newTestService(testClock)

	appt, err := svc.Book(context.Background(), patientActor(testPatient), testPatient, testDoctor, futureDate, "13:30")
	require.NoError(t, err)

	assert.Equal(t, models.StatusScheduled, appt.Status)
	assert.Equal(t, "Afternoon", appt.Period)
	assert.Equal(t, "13:30", appt.TimeSlot)
	assert.Equal(t, futureDate, appt.AppointmentDate.Format(DateLayout))
	assert.Equal(t, 1, store.appointmentCount())
}

func TestBookSameTripleTwice(t *testing.T) {
	svc, store := newTestService(testClock)
	ctx := context.Background()

	_, err := svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "09:00")
	require.NoError(t, err)

	_, err = svc.Book(ctx, patientActor("patient-2"), "patient-2", testDoctor, futureDate, "09:00")
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, 1, store.appointmentCount())
}

func TestBookCancelledRowStillOccupiesSlot(t *testing.T) {
	svc, store := newTestService(testClock)
	ctx := context.Background()

	appt, err := svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "09:00")
	require.NoError(t, err)
	require.NoError(t, store.SetAppointmentStatus(ctx, appt.ID, models.StatusCancelled))

	_, err = svc.Book(ctx, patientActor("patient-2"), "patient-2", testDoctor, futureDate, "09:00")
	assert.ErrorIs(t, err, ErrSlotTaken)

	avail, err := svc.AvailableSlots(ctx, testDoctor, futureDate)
	require.NoError(t, err)
	assert.NotContains(t, avail.Morning, "09:00")
}

func TestBookRejectsBadInput(t *testing.T) {
	svc, store := newTestService(testClock)
	ctx := context.Background()
	actor := patientActor(testPatient)

	_, err := svc.Book(ctx, actor, testPatient, testDoctor, "not-a-date", "09:00")
	assert.ErrorIs(t, err, ErrBadDate)

	_, err = svc.Book(ctx, actor, testPatient, testDoctor, "2024-05-20", "09:00")
	assert.ErrorIs(t, err, ErrBadDate, "past dates are not bookable")

	_, err = svc.Book(ctx, actor, testPatient, testDoctor, futureDate, "09:15")
	assert.ErrorIs(t, err, ErrBadSlot, "label outside the template")

	_, err = svc.Book(ctx, actor, testPatient, testDoctor, futureDate, "12:00")
	assert.ErrorIs(t, err, ErrBadSlot, "lunch break is not in the template")

	assert.Equal(t, 0, store.appointmentCount())
}

func TestBookForAnotherPatientDenied(t *testing.T) {
	svc, store := newTestService(testClock)

	_, err := svc.Book(context.Background(), patientActor(testPatient), "patient-2", testDoctor, futureDate, "09:00")
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, 0, store.appointmentCount())
}

func TestConcurrentBookingSameTriple(t *testing.T) {
	svc, store := newTestService(testClock)
	ctx := context.Background()

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "17:00")
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrSlotTaken)
		}
	}
	assert.Equal(t, 1, successes, "exactly one booking must win")
	assert.Equal(t, 1, store.appointmentCount())
}

func TestCompleteByOwningDoctor(t *testing.T) {
	svc, store := newTestService(testClock)
	ctx := context.Background()

	booked, err := svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "09:00")
	require.NoError(t, err)

	appt, err := svc.Complete(ctx, doctorActor(testDoctor), booked.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, appt.Status)

	stored, err := store.GetAppointment(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)

	// Completing again is a no-op success.
	_, err = svc.Complete(ctx, doctorActor(testDoctor), booked.ID)
	assert.NoError(t, err)
}

func TestCompleteByNonOwnerDenied(t *testing.T) {
	svc, store := newTestService(testClock)
	ctx := context.Background()

	booked, err := svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "09:00")
	require.NoError(t, err)

	_, err = svc.Complete(ctx, doctorActor("doctor-2"), booked.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.Complete(ctx, patientActor(testPatient), booked.ID)
	assert.ErrorIs(t, err, ErrNotOwner, "patients cannot complete appointments")

	stored, err := store.GetAppointment(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, stored.Status, "status must be unchanged")
}

func TestCompleteUnknownAppointment(t *testing.T) {
	svc, _ := newTestService(testClock)

	_, err := svc.Complete(context.Background(), doctorActor(testDoctor), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttachRecordCompletesAppointment(t *testing.T) {
	svc, store := newTestService(testClock)
	ctx := context.Background()

	booked, err := svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "09:00")
	require.NoError(t, err)

	rec, err := svc.AttachRecord(ctx, doctorActor(testDoctor), booked.ID, "Flu", "Rest and fluids", "follow up in a week")
	require.NoError(t, err)
	assert.Equal(t, booked.ID, rec.AppointmentID)
	assert.Equal(t, testPatient, rec.PatientID)

	stored, err := store.GetAppointment(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
}

func TestAttachRecordTwiceKeepsOriginal(t *testing.T) {
	svc, store := newTestService(testClock)
	ctx := context.Background()

	booked, err := svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "09:00")
	require.NoError(t, err)

	first, err := svc.AttachRecord(ctx, doctorActor(testDoctor), booked.ID, "Flu", "Rest", "")
	require.NoError(t, err)

	_, err = svc.AttachRecord(ctx, doctorActor(testDoctor), booked.ID, "Cold", "Tea", "")
	assert.ErrorIs(t, err, ErrRecordExists)

	stored, err := store.FindMedicalRecord(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "Flu", stored.Diagnosis)
}

func TestAttachRecordRollsBackWhenStatusWriteFails(t *testing.T) {
	svc, store := newTestService(testClock)
	ctx := context.Background()

	booked, err := svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "09:00")
	require.NoError(t, err)

	// The record insert succeeds but the Completed transition fails, so the
	// whole transaction must roll back: no record, status unchanged.
	store.setStatusErr = errors.New("lost connection during update")
	_, err = svc.AttachRecord(ctx, doctorActor(testDoctor), booked.ID, "Flu", "Rest", "")
	require.Error(t, err)
	store.setStatusErr = nil

	rec, err := store.FindMedicalRecord(ctx, booked.ID)
	require.NoError(t, err)
	assert.Nil(t, rec, "record from the failed transaction must not persist")

	stored, err := store.GetAppointment(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, stored.Status)

	// The appointment is still attachable once the store recovers.
	_, err = svc.AttachRecord(ctx, doctorActor(testDoctor), booked.ID, "Flu", "Rest", "")
	assert.NoError(t, err)
}

func TestAttachRecordByNonOwnerDenied(t *testing.T) {
	svc, store := newTestService(testClock)
	ctx := context.Background()

	booked, err := svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "09:00")
	require.NoError(t, err)

	_, err = svc.AttachRecord(ctx, doctorActor("doctor-2"), booked.ID, "Flu", "Rest", "")
	assert.ErrorIs(t, err, ErrNotOwner)

	stored, err := store.GetAppointment(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, stored.Status)

	rec, err := store.FindMedicalRecord(ctx, booked.ID)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestAttachRecordUnknownAppointment(t *testing.T) {
	svc, _ := newTestService(testClock)

	_, err := svc.AttachRecord(context.Background(), doctorActor(testDoctor), "missing", "Flu", "Rest", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelAsPatientFreesSlot(t *testing.T) {
	svc, store := newTestService(testClock)
	ctx := context.Background()

	booked, err := svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "09:00")
	require.NoError(t, err)

	require.NoError(t, svc.CancelAsPatient(ctx, patientActor(testPatient), booked.ID))
	assert.Equal(t, 0, store.appointmentCount())

	// The triple is free again.
	_, err = svc.Book(ctx, patientActor("patient-2"), "patient-2", testDoctor, futureDate, "09:00")
	assert.NoError(t, err)
}

func TestCancelAsPatientGuards(t *testing.T) {
	svc, _ := newTestService(testClock)
	ctx := context.Background()

	booked, err := svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "09:00")
	require.NoError(t, err)

	err = svc.CancelAsPatient(ctx, patientActor("patient-2"), booked.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.Complete(ctx, doctorActor(testDoctor), booked.ID)
	require.NoError(t, err)
	err = svc.CancelAsPatient(ctx, patientActor(testPatient), booked.ID)
	assert.ErrorIs(t, err, ErrNotCancellable)

	err = svc.CancelAsPatient(ctx, patientActor(testPatient), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveCascadesToMedicalRecord(t *testing.T) {
	svc, store := newTestService(testClock)
	ctx := context.Background()

	booked, err := svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "09:00")
	require.NoError(t, err)
	_, err = svc.AttachRecord(ctx, doctorActor(testDoctor), booked.ID, "Flu", "Rest", "")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, adminActor(), booked.ID))

	assert.Equal(t, 0, store.appointmentCount())
	rec, err := store.FindMedicalRecord(ctx, booked.ID)
	require.NoError(t, err)
	assert.Nil(t, rec, "no orphan record may remain")
}

func TestRemoveRequiresAdmin(t *testing.T) {
	svc, store := newTestService(testClock)
	ctx := context.Background()

	booked, err := svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "09:00")
	require.NoError(t, err)

	err = svc.Remove(ctx, doctorActor(testDoctor), booked.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.Equal(t, 1, store.appointmentCount())
}

// The end-to-end scenario: an empty day shows the 20-slot template
// partitioned 6/8/6; after booking 09:00 the morning list has 5 entries.
func TestBookingScenario(t *testing.T) {
	svc, _ := newTestService(testClock)
	ctx := context.Background()

	avail, err := svc.AvailableSlots(ctx, testDoctor, futureDate)
	require.NoError(t, err)
	require.Equal(t, 20, len(avail.Morning)+len(avail.Afternoon)+len(avail.Evening))

	_, err = svc.Book(ctx, patientActor(testPatient), testPatient, testDoctor, futureDate, "09:00")
	require.NoError(t, err)

	avail, err = svc.AvailableSlots(ctx, testDoctor, futureDate)
	require.NoError(t, err)
	assert.Len(t, avail.Morning, 5)
	assert.NotContains(t, avail.Morning, "09:00")
}
