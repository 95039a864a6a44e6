package scheduling

import "errors"

var (
	// ErrAppointmentNotFound is returned when an appointment is not found
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrInvalidSlot is returned when the requested interval is malformed
	ErrInvalidSlot = errors.New("slot start must be before end")

	// ErrInvalidClockTime is returned when a wall-clock time is not HH:MM
	ErrInvalidClockTime = errors.New("invalid wall-clock time, use HH:MM")

	// ErrMissingPractitioner is returned when the practitioner id is empty
	ErrMissingPractitioner = errors.New("practitioner_id is required")

	// ErrMissingPatient is returned when the patient id is empty
	ErrMissingPatient = errors.New("patient_id is required")

	// ErrMissingDate is returned when the calendar date is empty
	ErrMissingDate = errors.New("date is required")

	// ErrSlotConflict is returned when the requested slot overlaps an
	// existing appointment for the same practitioner and date.
	ErrSlotConflict = errors.New("time slot conflicts with an existing appointment")

	// ErrInvalidStatus is returned for an unknown lifecycle status
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrSlotHeld is returned when another front-desk session holds the slot.
	ErrSlotHeld = errors.New("time slot is held by another session")
)
