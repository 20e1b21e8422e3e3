package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"barberbook/internal/booking"
	"barberbook/internal/calendar"
	"barberbook/internal/metrics"
	"barberbook/internal/model"
)

// SessionResponse is the current session with its rendered month.
type SessionResponse struct {
	Session booking.Session   `json:"session"`
	View    calendar.View     `json:"view"`
	Day     *calendar.DayCell `json:"day,omitempty"`
	Warning string            `json:"warning,omitempty"`
}

// EventRequest is the body of POST /api/session/events.
type EventRequest struct {
	Type  string `json:"type"` // month_changed, day_selected, slot_selected, deselected
	Delta int    `json:"delta,omitempty"`
	Date  string `json:"date,omitempty"` // YYYY-MM-DD
	Time  string `json:"time,omitempty"` // HH:MM
}

// handleSession returns the visitor's session, creating it on first use.
// GET /api/session
func (s *HTTPServer) handleSession(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("session")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	sess := s.session(w, r)
	sess = s.completeLoad(r, sess)
	writeJSON(w, http.StatusOK, s.sessionResponse(sess))
}

// handleSessionEvent applies one visitor action to the session.
// POST /api/session/events
func (s *HTTPServer) handleSessionEvent(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("session_event")

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use POST")
		return
	}

	var req EventRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ev, err := eventFrom(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess := s.session(w, r)
	sess, err = s.deps.Sessions.Dispatch(sess.ID, s.policy(), ev)
	if err != nil {
		s.writeReduceError(w, err)
		return
	}

	sess = s.completeLoad(r, sess)
	writeJSON(w, http.StatusOK, s.sessionResponse(sess))
}

func eventFrom(req EventRequest) (booking.Event, error) {
	switch req.Type {
	case "month_changed":
		return booking.MonthChanged{Delta: req.Delta}, nil
	case "day_selected":
		d, err := model.ParseDate(req.Date)
		if err != nil {
			return nil, err
		}
		return booking.DaySelected{Date: d}, nil
	case "slot_selected":
		d, err := model.ParseDate(req.Date)
		if err != nil {
			return nil, err
		}
		t, err := model.ParseTimeOfDay(req.Time)
		if err != nil {
			return nil, err
		}
		return booking.SlotSelected{Slot: model.BookingSlot{Date: d, Time: t}}, nil
	case "deselected":
		return booking.Deselected{}, nil
	case "":
		return nil, errors.New("type is required")
	default:
		return nil, errors.New("unknown event type " + req.Type)
	}
}

func (s *HTTPServer) writeReduceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrSlotUnavailable),
		errors.Is(err, booking.ErrDayClosed),
		errors.Is(err, booking.ErrNothingSelected),
		errors.Is(err, booking.ErrSubmitInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrOutsideMonth):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, booking.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error().Err(err).Msg("session event")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// session returns the cookie's session, starting a new one on the current
// month when there is none.
func (s *HTTPServer) session(w http.ResponseWriter, r *http.Request) booking.Session {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}

	month := calendar.MonthOf(s.deps.Now().In(s.deps.Location))
	sess, created := s.deps.Sessions.GetOrCreate(id, month)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

// completeLoad runs the load the session is waiting for. The result is
// tagged with the sequence it was started under, so if the visitor moved
// on in the meantime the reducer drops it and the newer load wins.
func (s *HTTPServer) completeLoad(r *http.Request, sess booking.Session) booking.Session {
	if !sess.Loading {
		return sess
	}
	seq := sess.LoadSeq
	res, err := s.deps.Loader.Load(r.Context())

	next, dispatchErr := s.deps.Sessions.Dispatch(sess.ID, s.policy(), booking.LoadCompleted{Seq: seq, Map: res.Map, Err: err})
	if dispatchErr != nil {
		s.logger.Warn().Err(dispatchErr).Str("session", sess.ID).Msg("apply load")
		return sess
	}
	return next
}

func (s *HTTPServer) sessionResponse(sess booking.Session) SessionResponse {
	view := calendar.BuildMonth(sess.Month, sess.Availability, s.policy())
	resp := SessionResponse{Session: sess, View: view}
	if !sess.SelectedDay.IsZero() {
		if cell, ok := view.Day(sess.SelectedDay); ok {
			resp.Day = &cell
		}
	}
	if sess.Unreachable {
		resp.Warning = warningUnreachable
	}
	return resp
}
