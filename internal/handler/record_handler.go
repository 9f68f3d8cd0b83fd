package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"marksentry/internal/metrics"
	"marksentry/internal/model"
	"marksentry/internal/service"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
)

type RecordHandler struct {
	sessions *service.SessionService
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewRecordHandler(sessions *service.SessionService, m *metrics.Metrics, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{
		sessions: sessions,
		metrics:  m,
		logger:   logger.With(slog.String("handler", "records")),
	}
}

// marksValue accepts marks sent either as a JSON string or a JSON number and
// keeps the text exactly as sent.
type marksValue string

func (m *marksValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = marksValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("marks must be a string or a number")
	}
	*m = marksValue(n.String())
	return nil
}

type addRecordRequest struct {
	Code    string     `json:"code"`
	Marks   marksValue `json:"marks"`
	Section string     `json:"section,omitempty"`
}

// ListRecords returns one page of the session's records in entry order.
func (h *RecordHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	_, form := currentSession(w, r, h.sessions)
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	if limit < 1 {
		limit = 10
	}

	records, total, totalPages := form.Page(page, limit)

	response := map[string]interface{}{
		"data":       records,
		"page":       page,
		"limit":      limit,
		"total":      total,
		"totalPages": totalPages,
	}
	render.JSON(w, r, response)
}

// AddRecord appends one record to the session. A missing section falls back
// to whatever the form currently shows.
func (h *RecordHandler) AddRecord(w http.ResponseWriter, r *http.Request) {
	id, form := currentSession(w, r, h.sessions)

	var req addRecordRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	section := form.State().Section
	if req.Section != "" {
		parsed, err := model.ParseSection(req.Section)
		if err != nil {
			renderError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		section = parsed
	}

	res, err := h.sessions.Add(id, req.Code, string(req.Marks), section)
	if errors.Is(err, service.ErrSessionNotFound) {
		renderError(w, r, http.StatusNotFound, err.Error())
		return
	}
	if !res.OK {
		h.metrics.RecordsRejected.Inc()
		renderError(w, r, http.StatusUnprocessableEntity, res.Reason)
		return
	}

	h.metrics.RecordsAdded.Inc()
	h.logger.InfoContext(r.Context(), "record added",
		slog.String("roll_number", res.Record.RollNumber),
		slog.String("section", string(res.Record.Section)))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, res.Record)
}

// GetForm returns the transient state of the session's form.
func (h *RecordHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	_, form := currentSession(w, r, h.sessions)
	render.JSON(w, r, form.State())
}
