package scheduler

import "errors"

// Sentinel errors returned by the scheduling operations. Handlers match them
// with errors.Is and map each to a distinct HTTP status and message.
var (
	// ErrBadDate means the date string did not parse as YYYY-MM-DD, or a
	// booking was attempted for a date in the past.
	ErrBadDate = errors.New("scheduler: invalid appointment date")

	// ErrBadSlot means the slot label is malformed or not part of the template.
	ErrBadSlot = errors.New("scheduler: invalid time slot")

	// ErrNotFound means the referenced appointment does not exist.
	ErrNotFound = errors.New("scheduler: appointment not found")

	// ErrNotOwner means the acting user does not own the resource they are mutating.
	ErrNotOwner = errors.New("scheduler: appointment belongs to someone else")

	// ErrSlotTaken means the (doctor, date, slot) triple is already occupied.
	// Callers should re-query available slots before retrying.
	ErrSlotTaken = errors.New("scheduler: time slot already booked")

	// ErrRecordExists means a medical record is already attached to the appointment.
	ErrRecordExists = errors.New("scheduler: medical record already exists for appointment")

	// ErrNotCancellable means the appointment is no longer in a cancellable state.
	ErrNotCancellable = errors.New("scheduler: only scheduled appointments can be cancelled")
)
