package scheduling

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/dental-clinic-platform/internal/observability/metrics"
	"github.com/wolfman30/dental-clinic-platform/pkg/logging"
)

var schedulingTracer = otel.Tracer("clinic.internal.scheduling")

// Service books, edits and cancels appointments. All mutations go through
// the conflict check. The check and the write are separate repository calls,
// so two requests racing for the same slot can both pass the check; resolving
// that race is left to the Redis slot holds and the front desk.
type Service struct {
	repo    Repository
	holds   *SlotHolder
	metrics *metrics.ClinicMetrics
	logger  *logging.Logger
}

// NewService constructs a scheduling service. holds and m may be nil.
func NewService(repo Repository, holds *SlotHolder, m *metrics.ClinicMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("scheduling: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, holds: holds, metrics: m, logger: logger}
}

// CheckAvailability reports whether the requested interval can be booked.
// excludeID names the appointment being edited, "" for new bookings.
func (s *Service) CheckAvailability(ctx context.Context, practitionerID, date string, startTime, endTime, excludeID string) (bool, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.check_availability")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinic.practitioner_id", practitionerID),
		attribute.String("clinic.date", date),
	)

	began := time.Now()
	defer func() {
		s.metrics.ObserveAvailabilityLatency(time.Since(began).Seconds())
	}()

	start, err := ParseClock(startTime)
	if err != nil {
		return false, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return false, err
	}
	if start >= end {
		return false, ErrInvalidSlot
	}

	existing, err := s.repo.List(ctx, ListFilter{PractitionerID: practitionerID, Date: date})
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	return IsSlotAvailable(existing, practitionerID, date, start, end, excludeID), nil
}

// Book creates an appointment after validating the request and running the
// conflict check. sessionID, when non-empty, lets the caller book through a
// slot hold it owns; other sessions' holds block the booking.
func (s *Service) Book(ctx context.Context, req *CreateAppointmentRequest, sessionID string) (*Appointment, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.book")
	defer span.End()
	span.SetAttributes(
		attribute.String("clinic.practitioner_id", req.PractitionerID),
		attribute.String("clinic.date", req.Date),
	)

	if err := req.Validate(); err != nil {
		s.metrics.ObserveBooking("invalid")
		return nil, err
	}
	start, _ := ParseClock(req.StartTime)
	end, _ := ParseClock(req.EndTime)

	if s.holds != nil && s.holds.HeldByOther(ctx, req.PractitionerID, req.Date, start, end, sessionID) {
		s.metrics.ObserveBooking("held")
		return nil, ErrSlotHeld
	}

	existing, err := s.repo.List(ctx, ListFilter{PractitionerID: req.PractitionerID, Date: req.Date})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !IsSlotAvailable(existing, req.PractitionerID, req.Date, start, end, "") {
		s.metrics.ObserveBooking("conflict")
		s.metrics.ObserveSlotConflict()
		return nil, ErrSlotConflict
	}

	apptType := req.Type
	if apptType == "" {
		apptType = TypeCheckup
	}
	created, err := s.repo.Create(ctx, &Appointment{
		PatientID:      req.PatientID,
		PractitionerID: req.PractitionerID,
		Date:           req.Date,
		StartTime:      start.String(),
		EndTime:        end.String(),
		Status:         StatusScheduled,
		Type:           apptType,
		Notes:          req.Notes,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.holds != nil {
		s.holds.Release(ctx, req.PractitionerID, req.Date, start, end)
	}
	s.metrics.ObserveBooking("created")
	s.logger.Info("appointment booked",
		"appointment_id", created.ID,
		"practitioner_id", created.PractitionerID,
		"date", created.Date,
		"slot", created.StartTime+"-"+created.EndTime,
	)
	return created, nil
}

// Reschedule moves an existing appointment to a new interval. The
// appointment's own slot is excluded from the conflict check so an edit
// never conflicts with itself.
func (s *Service) Reschedule(ctx context.Context, id string, req *CreateAppointmentRequest) (*Appointment, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.reschedule")
	defer span.End()
	span.SetAttributes(attribute.String("clinic.appointment_id", id))

	if err := req.Validate(); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	start, _ := ParseClock(req.StartTime)
	end, _ := ParseClock(req.EndTime)

	existing, err := s.repo.List(ctx, ListFilter{PractitionerID: req.PractitionerID, Date: req.Date})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !IsSlotAvailable(existing, req.PractitionerID, req.Date, start, end, id) {
		s.metrics.ObserveSlotConflict()
		return nil, ErrSlotConflict
	}

	current.PatientID = req.PatientID
	current.PractitionerID = req.PractitionerID
	current.Date = req.Date
	current.StartTime = start.String()
	current.EndTime = end.String()
	if req.Type != "" {
		current.Type = req.Type
	}
	current.Notes = req.Notes

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.Info("appointment rescheduled", "appointment_id", id, "date", updated.Date, "slot", updated.StartTime+"-"+updated.EndTime)
	return updated, nil
}

// UpdateStatus moves the appointment through its lifecycle. Cancelling keeps
// the slot occupied; only deletion releases it.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	current.Status = status
	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, err
	}
	s.logger.Info("appointment status changed", "appointment_id", id, "status", status)
	return updated, nil
}

// Get returns a single appointment.
func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns appointments matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	return s.repo.List(ctx, filter)
}

// Delete removes an appointment permanently, releasing its slot.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("appointment deleted", "appointment_id", id)
	return nil
}

// HoldSlot places a soft hold on a slot for the session.
func (s *Service) HoldSlot(ctx context.Context, practitionerID, date, startTime, endTime, sessionID string) (*Hold, error) {
	if s.holds == nil {
		return nil, nil
	}
	start, err := ParseClock(startTime)
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, ErrInvalidSlot
	}
	return s.holds.Acquire(ctx, practitionerID, date, start, end, sessionID)
}
