package handler

import (
	"bytes"
	"log/slog"
	"marksentry/internal/exporter"
	"marksentry/internal/metrics"
	"marksentry/internal/model"
	"marksentry/internal/service"
	"mime"
	"net/http"
	"strconv"
)

type ExportHandler struct {
	sessions *service.SessionService
	encoder  *exporter.Encoder
	fileName string
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewExportHandler(sessions *service.SessionService, encoder *exporter.Encoder, fileName string, m *metrics.Metrics, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		sessions: sessions,
		encoder:  encoder,
		fileName: fileName,
		metrics:  m,
		logger:   logger.With(slog.String("handler", "export")),
	}
}

// Export streams the session's records as an xlsx attachment.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	_, form := currentSession(w, r, h.sessions)
	h.serve(w, r, form.Records())
}

func (h *ExportHandler) serve(w http.ResponseWriter, r *http.Request, records []model.StudentRecord) {
	var buf bytes.Buffer
	if err := h.encoder.Encode(&buf, records); err != nil {
		h.logger.ErrorContext(r.Context(), "export failed",
			slog.String("error", err.Error()),
			slog.Int("records", len(records)))
		http.Error(w, "Failed to build spreadsheet", http.StatusInternalServerError)
		return
	}

	h.metrics.Exports.Inc()
	w.Header().Set("Content-Type", exporter.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": h.fileName}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "export download interrupted", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(r.Context(), "records exported", slog.Int("records", len(records)))
}
