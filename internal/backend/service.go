package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anurags10/medibook/internal/logging"
	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/ledger"
	"github.com/google/uuid"
)

// Service implements the scheduling operations over a ledger.
type Service struct {
	ledger  *ledger.Manager
	catalog *domain.Catalog
	day     WorkingDay
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCatalog replaces the built-in appointment type catalog.
func WithCatalog(c *domain.Catalog) Option {
	return func(s *Service) {
		s.catalog = c
	}
}

// WithWorkingDay overrides DefaultWorkingDay.
func WithWorkingDay(day WorkingDay) Option {
	return func(s *Service) {
		s.day = day
	}
}

// WithClock sets the clock used for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a service writing through l.
func NewService(l *ledger.Manager, opts ...Option) *Service {
	s := &Service{
		ledger:  l,
		catalog: domain.DefaultCatalog(),
		day:     DefaultWorkingDay,
		now:     time.Now,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Availability lists every slot of the type on date with its availability.
func (s *Service) Availability(ctx context.Context, date string, key domain.AppointmentTypeKey) ([]domain.AvailabilitySlot, error) {
	typ, err := s.lookupType(key)
	if err != nil {
		return nil, err
	}
	if err := validateDate(date); err != nil {
		return nil, err
	}

	booked, err := s.ledger.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}
	return generateSlots(s.day, typ.DurationMinutes, booked)
}

// Book confirms a new booking if its slot is free.
func (s *Service) Book(ctx context.Context, req domain.BookingRequest) (domain.BookingConfirmation, error) {
	typ, err := s.lookupType(req.AppointmentType)
	if err != nil {
		return domain.BookingConfirmation{}, err
	}
	if err := validateDate(req.Date); err != nil {
		return domain.BookingConfirmation{}, err
	}
	if err := validatePatient(req.Patient); err != nil {
		return domain.BookingConfirmation{}, err
	}
	slot, err := s.slotFor(req.StartTime, typ.DurationMinutes)
	if err != nil {
		return domain.BookingConfirmation{}, err
	}

	var out domain.BookingConfirmation
	err = s.ledger.WithLock(ctx, []string{ledger.SlotKey(req.Date)}, func(ctx context.Context) error {
		if err := s.ensureFree(ctx, req.Date, slot, ""); err != nil {
			return err
		}
		id, err := s.nextID(ctx, req.Date, clockOf(slot.start))
		if err != nil {
			return err
		}

		now := s.now().UTC()
		b := &domain.Booking{
			ID:               id,
			AppointmentType:  typ.Key,
			Date:             req.Date,
			StartTime:        clockOf(slot.start),
			EndTime:          clockOf(slot.end),
			Patient:          req.Patient,
			Reason:           req.Reason,
			Status:           domain.StatusConfirmed,
			ConfirmationCode: confirmationCode(),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.ledger.Store().Save(ctx, b); err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		out = domain.BookingConfirmation{BookingID: b.ID, Status: b.Status, ConfirmationCode: b.ConfirmationCode}
		return nil
	})
	if err != nil {
		return domain.BookingConfirmation{}, err
	}

	s.logger.Info("booking confirmed", "booking_id", out.BookingID, "type", typ.Key, "date", req.Date)
	return out, nil
}

// Reschedule moves an active booking. The moved appointment gets a new id and
// the original is kept with status rescheduled.
func (s *Service) Reschedule(ctx context.Context, req domain.RescheduleRequest) (domain.RescheduleConfirmation, error) {
	if err := validateDate(req.Date); err != nil {
		return domain.RescheduleConfirmation{}, err
	}
	if _, err := minuteOf(req.StartTime); err != nil {
		return domain.RescheduleConfirmation{}, err
	}

	orig, err := s.ledger.Get(ctx, strings.TrimSpace(req.BookingID))
	if err != nil {
		return domain.RescheduleConfirmation{}, err
	}

	var out domain.RescheduleConfirmation
	keys := []string{ledger.SlotKey(orig.Date), ledger.SlotKey(req.Date)}
	err = s.ledger.WithLock(ctx, keys, func(ctx context.Context) error {
		// reload under lock
		cur, err := s.ledger.Get(ctx, orig.ID)
		if err != nil {
			return err
		}
		if !cur.Active() {
			return fmt.Errorf("%w: %s is %s", domain.ErrBookingInactive, cur.ID, cur.Status)
		}
		typ, err := s.lookupType(cur.AppointmentType)
		if err != nil {
			return err
		}
		slot, err := s.slotFor(req.StartTime, typ.DurationMinutes)
		if err != nil {
			return err
		}
		if err := s.ensureFree(ctx, req.Date, slot, cur.ID); err != nil {
			return err
		}
		id, err := s.nextID(ctx, req.Date, clockOf(slot.start))
		if err != nil {
			return err
		}

		now := s.now().UTC()
		moved := *cur
		moved.ID = id
		moved.Date = req.Date
		moved.StartTime = clockOf(slot.start)
		moved.EndTime = clockOf(slot.end)
		moved.ConfirmationCode = confirmationCode()
		moved.PreviousBookingID = cur.ID
		moved.CreatedAt = now
		moved.UpdatedAt = now

		cur.Status = domain.StatusRescheduled
		cur.UpdatedAt = now

		if err := s.ledger.Store().Save(ctx, &moved); err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		if err := s.ledger.Store().Save(ctx, cur); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		out = domain.RescheduleConfirmation{
			BookingID:         moved.ID,
			Status:            domain.StatusRescheduled,
			PreviousBookingID: cur.ID,
		}
		return nil
	})
	if err != nil {
		return domain.RescheduleConfirmation{}, err
	}

	s.logger.Info("booking rescheduled", "booking_id", out.BookingID, "previous_booking_id", out.PreviousBookingID)
	return out, nil
}

// Cancel releases the slot of an active booking.
func (s *Service) Cancel(ctx context.Context, req domain.CancelRequest) (domain.CancelConfirmation, error) {
	id := strings.TrimSpace(req.BookingID)
	orig, err := s.ledger.Get(ctx, id)
	if err != nil {
		return domain.CancelConfirmation{}, err
	}

	err = s.ledger.WithLock(ctx, []string{ledger.SlotKey(orig.Date)}, func(ctx context.Context) error {
		cur, err := s.ledger.Get(ctx, id)
		if err != nil {
			return err
		}
		if !cur.Active() {
			return fmt.Errorf("%w: %s is %s", domain.ErrBookingInactive, cur.ID, cur.Status)
		}
		cur.Status = domain.StatusCancelled
		cur.CancelReason = req.Reason
		cur.UpdatedAt = s.now().UTC()
		return s.ledger.Store().Save(ctx, cur)
	})
	if err != nil {
		return domain.CancelConfirmation{}, err
	}

	s.logger.Info("booking cancelled", "booking_id", id)
	return domain.CancelConfirmation{BookingID: id, Status: domain.StatusCancelled}, nil
}

func (s *Service) lookupType(key domain.AppointmentTypeKey) (domain.AppointmentType, error) {
	typ, ok := s.catalog.Lookup(key)
	if !ok {
		return domain.AppointmentType{}, fmt.Errorf("%w: unknown appointment type %q", domain.ErrInvalidRequest, key)
	}
	return typ, nil
}

// slotFor checks that an appointment of the given length starting at start
// fits in the working day.
func (s *Service) slotFor(start string, minutes int) (span, error) {
	begin, err := minuteOf(start)
	if err != nil {
		return span{}, err
	}
	open, err := minuteOf(s.day.Open)
	if err != nil {
		return span{}, err
	}
	closing, err := minuteOf(s.day.Close)
	if err != nil {
		return span{}, err
	}
	if begin < open || begin+minutes > closing {
		return span{}, fmt.Errorf("%w: %s is outside working hours %s-%s", domain.ErrSlotUnavailable, start, s.day.Open, s.day.Close)
	}
	return span{begin, begin + minutes}, nil
}

func (s *Service) ensureFree(ctx context.Context, date string, slot span, skipID string) error {
	booked, err := s.ledger.ListByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to load bookings: %w", err)
	}
	if overlapsAny(slot, activeSpans(booked, skipID)) {
		return fmt.Errorf("%w: %s at %s is already booked", domain.ErrSlotUnavailable, date, clockOf(slot.start))
	}
	return nil
}

// nextID derives APPT-YYYYMMDD-HHMM from the slot, adding -2, -3, ... when an
// older booking (cancelled or rescheduled) already holds that id.
func (s *Service) nextID(ctx context.Context, date, start string) (string, error) {
	base := "APPT-" + strings.ReplaceAll(date, "-", "") + "-" + strings.ReplaceAll(start, ":", "")
	id := base
	for n := 2; ; n++ {
		_, err := s.ledger.Get(ctx, id)
		if errors.Is(err, domain.ErrBookingNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check booking id: %w", err)
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

func confirmationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func validateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", domain.ErrInvalidRequest, date)
	}
	return nil
}

func validatePatient(p domain.Patient) error {
	var missing []string
	if strings.TrimSpace(p.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(p.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(p.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: patient %s required", domain.ErrInvalidRequest, strings.Join(missing, ", "))
	}
	return nil
}
