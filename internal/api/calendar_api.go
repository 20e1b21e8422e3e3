package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"barberbook/internal/calendar"
	"barberbook/internal/metrics"
	"barberbook/internal/report"
	"barberbook/internal/storeapi"
)

// warningUnreachable is shown when the store looks offline; bookings still
// work through the message handoff.
const warningUnreachable = "No se pudo conectar con el servidor de reservas. Puedes agendar por WhatsApp."

// CalendarResponse is the body of GET /api/calendar.
type CalendarResponse struct {
	View    calendar.View `json:"view"`
	Warning string        `json:"warning,omitempty"`
}

// handleCalendar returns the month view, independent of any session.
// GET /api/calendar?year=2025&month=6
func (s *HTTPServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("calendar")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	month, err := s.monthFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, warning := s.buildView(r, month)
	writeJSON(w, http.StatusOK, CalendarResponse{View: view, Warning: warning})
}

// handleCalendarExport returns the month occupancy as a workbook.
// GET /api/calendar.xlsx?year=2025&month=6
func (s *HTTPServer) handleCalendarExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("calendar_export")

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	month, err := s.monthFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, _ := s.buildView(r, month)
	var buf bytes.Buffer
	if err := report.WriteMonth(&buf, view); err != nil {
		s.logger.Error().Err(err).Str("month", month.String()).Msg("export month")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="reservas-%s.xlsx"`, month))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// buildView loads availability and lays out month. Load failures degrade
// to an empty map; only connectivity failures produce a warning.
func (s *HTTPServer) buildView(r *http.Request, month calendar.Month) (calendar.View, string) {
	res, err := s.deps.Loader.Load(r.Context())
	var warning string
	if err != nil {
		if storeapi.IsConnectivity(err) {
			warning = warningUnreachable
		}
		s.logger.Warn().Err(err).Msg("availability unavailable, showing empty calendar")
	}
	return calendar.BuildMonth(month, res.Map, s.policy()), warning
}

func (s *HTTPServer) monthFromQuery(r *http.Request) (calendar.Month, error) {
	q := r.URL.Query()
	if q.Get("year") == "" && q.Get("month") == "" {
		return calendar.MonthOf(s.deps.Now().In(s.deps.Location)), nil
	}
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		return calendar.Month{}, fmt.Errorf("invalid year")
	}
	m, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		return calendar.Month{}, fmt.Errorf("invalid month")
	}
	return calendar.NewMonth(year, m)
}
