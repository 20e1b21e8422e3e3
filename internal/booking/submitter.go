package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"barberbook/internal/availability"
	"barberbook/internal/handoff"
	"barberbook/internal/metrics"
	"barberbook/internal/model"
	"barberbook/internal/storeapi"
)

// Transport persists bookings to the remote store.
type Transport interface {
	SendPrimary(ctx context.Context, p storeapi.BookingPayload) error
	SendFallback(ctx context.Context, p storeapi.BookingPayload) error
}

// Refresher reloads availability after a booking went through.
type Refresher interface {
	Refresh(ctx context.Context) (availability.Map, error)
}

// Notifier tells the shop owner about a new booking.
type Notifier interface {
	NotifyBooking(ctx context.Context, b model.Booking, message string) error
}

// Options configures a Submitter.
type Options struct {
	BusinessName   string
	RequireContact bool
	PhoneRegion    string
	// Services, when set, is the catalog a booking's service must belong to.
	Services []string
}

// Request is a submission as entered by the visitor.
type Request struct {
	Selection *model.BookingSlot
	Service   string
	Name      string
	Phone     string
	UserAgent string
}

// Result describes a booking the store accepted.
type Result struct {
	// Provisional is set when only the primary send went through and the
	// store's answer could not be read.
	Provisional  bool             `json:"provisional"`
	Booking      model.Booking    `json:"booking"`
	Message      string           `json:"message"`
	Handoff      handoff.Link     `json:"handoff"`
	Availability availability.Map `json:"-"`
}

// notifyTimeout bounds one owner notification; it runs after the response.
const notifyTimeout = 15 * time.Second

// Submitter validates and sends bookings.
type Submitter struct {
	notifying sync.WaitGroup

	transport Transport
	refresher Refresher
	notifier  Notifier
	links     *handoff.Builder
	validator *bookingValidator
	business  string
	logger    zerolog.Logger
}

// NewSubmitter wires a submitter. refresher and notifier may be nil.
func NewSubmitter(transport Transport, refresher Refresher, notifier Notifier, links *handoff.Builder, opts Options, logger *zerolog.Logger) *Submitter {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "submitter").Logger()
	}
	return &Submitter{
		transport: transport,
		refresher: refresher,
		notifier:  notifier,
		links:     links,
		validator: newBookingValidator(opts),
		business:  opts.BusinessName,
		logger:    l,
	}
}

// Submit validates req and persists it: POST first, GET fallback only when
// the POST failed in transport. Failures never clear anything; that is up
// to the caller through the session reducer.
func (s *Submitter) Submit(ctx context.Context, req Request) (*Result, error) {
	b, err := s.validator.check(req)
	if err != nil {
		metrics.IncBookingSubmitted("invalid")
		return nil, err
	}

	payload := storeapi.PayloadFor(b)
	provisional := true

	if primaryErr := s.transport.SendPrimary(ctx, payload); primaryErr != nil {
		s.logger.Warn().Err(primaryErr).Str("slot", b.Slot.String()).Msg("primary send failed, trying fallback")

		fallbackErr := s.transport.SendFallback(ctx, payload)
		var statusErr *storeapi.StatusError
		switch {
		case fallbackErr == nil:
			provisional = false
		case errors.As(fallbackErr, &statusErr):
			metrics.IncBookingSubmitted("status_error")
			s.logger.Error().Int("status", statusErr.StatusCode).Str("slot", b.Slot.String()).Msg("store rejected booking")
			return nil, &SubmitStatusError{StatusCode: statusErr.StatusCode, Status: statusErr.Status}
		default:
			metrics.IncBookingSubmitted("transport_error")
			s.logger.Error().Err(fallbackErr).Str("slot", b.Slot.String()).Msg("store unreachable")
			return nil, &SubmitTransportError{
				Primary:  primaryErr,
				Fallback: fallbackErr,
				Handoff:  s.links.Build(FormatMessage(s.business, b), req.UserAgent),
			}
		}
	}

	res := &Result{
		Provisional: provisional,
		Booking:     b,
		Message:     FormatMessage(s.business, b),
	}
	res.Handoff = s.links.Build(res.Message, req.UserAgent)

	if s.refresher != nil {
		avail, err := s.refresher.Refresh(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("availability refresh after booking failed")
		} else {
			res.Availability = avail
		}
	}

	if s.notifier != nil {
		s.notifying.Add(1)
		go s.notifyOwner(context.WithoutCancel(ctx), b, res.Message)
	}

	outcome := "confirmed"
	if provisional {
		outcome = "provisional"
	}
	metrics.IncBookingSubmitted(outcome)
	s.logger.Info().
		Str("slot", b.Slot.String()).
		Str("service", b.Service).
		Bool("provisional", provisional).
		Msg("booking submitted")
	return res, nil
}

func (s *Submitter) notifyOwner(ctx context.Context, b model.Booking, message string) {
	defer s.notifying.Done()
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := s.notifier.NotifyBooking(ctx, b, message); err != nil {
		s.logger.Warn().Err(err).Str("slot", b.Slot.String()).Msg("owner notification failed")
	}
}

// Wait blocks until pending owner notifications are done.
func (s *Submitter) Wait() {
	s.notifying.Wait()
}

// Handoff builds the message link for req without touching the store.
// It is the degraded path when the store cannot be reached.
func (s *Submitter) Handoff(req Request) (handoff.Link, error) {
	b, err := s.validator.check(req)
	if err != nil {
		return handoff.Link{}, err
	}
	return s.links.Build(FormatMessage(s.business, b), req.UserAgent), nil
}
