package handler

import (
	"embed"
	"html/template"
	"log/slog"
	"marksentry/internal/metrics"
	"marksentry/internal/model"
	"marksentry/internal/service"
	"net/http"
)

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html"))

type formPage struct {
	Form    model.FormState
	Records []model.StudentRecord
	Visits  int
	Alert   string
}

// FormHandler serves the HTML entry form.
type FormHandler struct {
	sessions *service.SessionService
	visits   *service.VisitCounter
	exports  *ExportHandler
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewFormHandler(sessions *service.SessionService, visits *service.VisitCounter, exports *ExportHandler, m *metrics.Metrics, logger *slog.Logger) *FormHandler {
	return &FormHandler{
		sessions: sessions,
		visits:   visits,
		exports:  exports,
		metrics:  m,
		logger:   logger.With(slog.String("handler", "form")),
	}
}

// Page starts a fresh session on every load, dropping whatever the previous
// page held.
func (h *FormHandler) Page(w http.ResponseWriter, r *http.Request) {
	_, form := startSession(w, h.sessions)

	count, counted, err := h.visits.RecordVisit(r.Context(), visitorID(w, r))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to record visit", slog.String("error", err.Error()))
	} else if counted {
		h.metrics.Visits.Inc()
	}

	h.render(w, r, formPage{Form: form.State(), Records: form.Records(), Visits: count})
}

// Submit handles the Add and Export buttons.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	id, form := currentSession(w, r, h.sessions)

	if r.PostForm.Get("action") == "export" {
		h.exports.serve(w, r, form.Records())
		return
	}

	code := r.PostForm.Get("code")
	marks := r.PostForm.Get("marks")
	section, err := model.ParseSection(r.PostForm.Get("section"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.sessions.Add(id, code, marks, section)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	page := formPage{}
	if res.OK {
		h.metrics.RecordsAdded.Inc()
		h.logger.InfoContext(r.Context(), "record added",
			slog.String("roll_number", res.Record.RollNumber),
			slog.String("section", string(res.Record.Section)))
	} else {
		h.metrics.RecordsRejected.Inc()
		form.SetFields(code, marks, section)
		page.Alert = res.Reason
	}

	page.Form = form.State()
	page.Records = form.Records()
	page.Visits = h.visitCount(r)
	h.render(w, r, page)
}

func (h *FormHandler) visitCount(r *http.Request) int {
	count, err := h.visits.Count(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read visit count", slog.String("error", err.Error()))
		return 0
	}
	return count
}

func (h *FormHandler) render(w http.ResponseWriter, r *http.Request, page formPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := formTemplate.Execute(w, page); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render form", slog.String("error", err.Error()))
	}
}
