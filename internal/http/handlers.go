package http

import (
	"errors"
	"html/template"
	"net/http"

	"radiodash/internal/core"
	applog "radiodash/internal/log"
	"radiodash/internal/services"
)

// ErrorMessage is shown when the report cannot be loaded.
const ErrorMessage = "Erro: o relatório não pôde ser carregado."

// dashboardPage is the template data of the dashboard page.
type dashboardPage struct {
	services.View
	DonutStyle template.CSS
	Explicit   bool
}

type errorPage struct {
	Message string
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready only when the configured report loads.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.reports.Report(r.Context()); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed",
			applog.NewFields().WithOperation(applog.OpLoad).WithError(err).ToSlice()...)
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)
	filters := ParseFilters(r.URL.Query())

	view, err := s.reports.View(ctx, filters)
	if err != nil {
		logger.ErrorContext(ctx, "Dashboard load failed",
			applog.NewFields().WithOperation(applog.OpLoad).WithError(err).ToSlice()...)
		s.render(w, r, statusFor(err), "error.html", errorPage{Message: ErrorMessage})
		return
	}

	logger.DebugContext(ctx, "Dashboard built", applog.NewFields().
		WithDashboard(view.Source, view.Stats.RowsRead, len(view.Rows), len(filters.Clients), len(filters.Agencies), view.Metrics.Total).
		ToSlice()...)

	s.render(w, r, http.StatusOK, "dashboard.html", dashboardPage{
		View: view,
		// Built from palette colors and formatted numbers only.
		DonutStyle: template.CSS(view.DonutStyle),
		Explicit:   filters.Active(),
	})
}

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := s.reports.View(ctx, ParseFilters(r.URL.Query()))
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "Dashboard load failed",
			applog.NewFields().WithOperation(applog.OpLoad).WithError(err).ToSlice()...)
		writeJSONError(w, statusFor(err), ErrorMessage)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleCacheClear drops the cached report of the form value "source", or
// every cached report when it is empty. With redirect=1 the browser is sent
// back to the dashboard.
func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid form")
		return
	}
	src := sanitizeInput(r.Form.Get("source"))
	removed := s.reports.Reload(src)
	fields := applog.NewFields().WithOperation(applog.OpInvalidate)
	fields[applog.FieldSource] = src
	fields[applog.FieldClientIP] = s.detector.ExtractClientIP(r)
	fields["removed"] = removed
	applog.FromContext(ctx).InfoContext(ctx, "Report cache cleared", fields.ToSlice()...)

	if r.Form.Get("redirect") == "1" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps a load failure to its HTTP status.
func statusFor(err error) int {
	if errors.Is(err, core.ErrDataUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
