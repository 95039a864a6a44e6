package scheduling

import (
	"strings"
	"time"
)

// Appointment lifecycle statuses. Cancellation is a status change, not a
// deletion: a cancelled appointment keeps its row until explicitly deleted.
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// Appointment categories.
const (
	TypeCheckup   = "checkup"
	TypeTreatment = "treatment"
	TypeFollowUp  = "follow_up"
	TypeEmergency = "emergency"
)

// Appointment is a booked visit for one practitioner. StartTime/EndTime are
// same-day wall-clock times ("HH:MM") forming a half-open interval
// [start, end); Date is the calendar day ("2006-01-02").
type Appointment struct {
	ID             string    `json:"id"`
	PatientID      string    `json:"patient_id"`
	PractitionerID string    `json:"practitioner_id"`
	Date           string    `json:"date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	Status         string    `json:"status"`
	Type           string    `json:"type"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateAppointmentRequest is the request body for booking an appointment
type CreateAppointmentRequest struct {
	PatientID      string `json:"patient_id"`
	PractitionerID string `json:"practitioner_id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Type           string `json:"type"`
	Notes          string `json:"notes"`
}

// Validate checks the request shape and the [start, end) interval.
func (r *CreateAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.PractitionerID) == "" {
		return ErrMissingPractitioner
	}
	if strings.TrimSpace(r.PatientID) == "" {
		return ErrMissingPatient
	}
	if strings.TrimSpace(r.Date) == "" {
		return ErrMissingDate
	}
	start, err := ParseClock(r.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(r.EndTime)
	if err != nil {
		return err
	}
	if start >= end {
		return ErrInvalidSlot
	}
	return nil
}

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}
