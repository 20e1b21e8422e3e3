package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"barberbook/internal/booking"
	"barberbook/internal/handoff"
	"barberbook/internal/metrics"
	"barberbook/internal/model"
)

// BookingRequest is the body of POST /api/bookings. The slot comes from
// the session.
type BookingRequest struct {
	Service string `json:"service"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
}

// BookingResponse is returned on success.
type BookingResponse struct {
	Provisional bool         `json:"provisional"`
	Slot        string       `json:"slot"`
	Message     string       `json:"message"`
	Handoff     handoff.Link `json:"handoff"`
}

// ValidationResponse lists the invalid fields.
type ValidationResponse struct {
	Error  string               `json:"error"`
	Fields []booking.FieldError `json:"fields"`
}

// TransportFailureResponse offers the manual handoff when the store could
// not be reached.
type TransportFailureResponse struct {
	Error        string       `json:"error"`
	Connectivity bool         `json:"connectivity"`
	HandoffURL   string       `json:"handoff_url"`
	Handoff      handoff.Link `json:"handoff"`
}

// handleBooking submits the session's selection.
// POST /api/bookings
func (s *HTTPServer) handleBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("booking")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}
	if s.deps.Limiter != nil && !s.deps.Limiter.Allow(clientIP(r)) {
		s.logger.Warn().Str("ip", clientIP(r)).Msg("booking rate limit exceeded")
		writeError(w, http.StatusTooManyRequests, "too many booking attempts; try again shortly")
		return
	}

	var req BookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sess := s.session(w, r)
	sess, err := s.deps.Sessions.Dispatch(sess.ID, s.policy(), booking.SubmitStarted{})
	if err != nil {
		s.writeReduceError(w, err)
		return
	}

	res, submitErr := s.deps.Submitter.Submit(r.Context(), booking.Request{
		Selection: sess.Selection,
		Service:   req.Service,
		Name:      req.Name,
		Phone:     req.Phone,
		UserAgent: r.UserAgent(),
	})

	done := booking.Submitted{Err: submitErr}
	if res != nil {
		done.Availability = res.Availability
	}
	if _, err := s.deps.Sessions.Dispatch(sess.ID, s.policy(), done); err != nil {
		s.logger.Warn().Err(err).Str("session", sess.ID).Msg("apply submission outcome")
	}

	if submitErr != nil {
		var verr *booking.ValidationError
		if !errors.As(submitErr, &verr) {
			// The store may have changed under us; reload on next read.
			_, _ = s.deps.Sessions.Dispatch(sess.ID, s.policy(), booking.MonthChanged{})
		}
		s.writeSubmitError(w, submitErr)
		return
	}

	writeJSON(w, http.StatusCreated, BookingResponse{
		Provisional: res.Provisional,
		Slot:        res.Booking.Slot.String(),
		Message:     res.Message,
		Handoff:     res.Handoff,
	})
}

func (s *HTTPServer) writeSubmitError(w http.ResponseWriter, err error) {
	var (
		verr      *booking.ValidationError
		statusErr *booking.SubmitStatusError
		trErr     *booking.SubmitTransportError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{Error: verr.Error(), Fields: verr.Fields})
	case errors.As(err, &statusErr):
		writeError(w, http.StatusBadGateway, statusErr.Error())
	case errors.As(err, &trErr):
		writeJSON(w, http.StatusServiceUnavailable, TransportFailureResponse{
			Error:        trErr.Error(),
			Connectivity: trErr.Connectivity(),
			HandoffURL:   trErr.Handoff.URL,
			Handoff:      trErr.Handoff,
		})
	default:
		s.logger.Error().Err(err).Msg("submit booking")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// handleHandoff builds the message link without contacting the store.
// GET /api/handoff?date=2025-06-14&time=11:00&service=Corte&name=Ana&phone=...
func (s *HTTPServer) handleHandoff(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("handoff")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	q := r.URL.Query()
	req := booking.Request{
		Service:   q.Get("service"),
		Name:      q.Get("name"),
		Phone:     q.Get("phone"),
		UserAgent: r.UserAgent(),
	}

	var fields []booking.FieldError
	date, err := model.ParseDate(q.Get("date"))
	if err != nil {
		fields = append(fields, booking.FieldError{Field: "date", Message: "date must be YYYY-MM-DD"})
	}
	tod, err := model.ParseTimeOfDay(q.Get("time"))
	if err != nil {
		fields = append(fields, booking.FieldError{Field: "time", Message: "time must be HH:MM"})
	}
	if len(fields) > 0 {
		verr := &booking.ValidationError{Fields: fields}
		writeJSON(w, http.StatusUnprocessableEntity, ValidationResponse{Error: verr.Error(), Fields: fields})
		return
	}
	req.Selection = &model.BookingSlot{Date: date, Time: tod}

	link, err := s.deps.Submitter.Handoff(req)
	if err != nil {
		s.writeSubmitError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}
