package handler

import (
	"encoding/json"
	"log/slog"
	"marksentry/internal/model"
	"marksentry/internal/service"
	"net/http"
	"time"
)

// streamKeepAlive is how often an idle stream pings the client and marks its
// session as seen.
const streamKeepAlive = 30 * time.Second

type StreamHandler struct {
	sessions *service.SessionService
	logger   *slog.Logger
}

func NewStreamHandler(sessions *service.SessionService, logger *slog.Logger) *StreamHandler {
	return &StreamHandler{
		sessions: sessions,
		logger:   logger.With(slog.String("handler", "stream")),
	}
}

// StreamRecords pushes every record added to the caller's session using
// Server-Sent Events. An open stream keeps its session alive; the stream ends
// when the session expires.
func (h *StreamHandler) StreamRecords(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		http.Error(w, "session cookie is required", http.StatusBadRequest)
		return
	}
	if _, ok := h.sessions.Get(c.Value); !ok {
		http.Error(w, service.ErrSessionNotFound.Error(), http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	recordCh := make(chan model.StudentRecord, 16)
	h.sessions.RegisterListener(c.Value, recordCh)
	defer h.sessions.UnregisterListener(c.Value, recordCh)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	for {
		select {
		case rec, ok := <-recordCh:
			if !ok {
				// session expired
				return
			}
			data, err := json.Marshal(rec)
			if err != nil {
				h.logger.Error("failed to marshal record", slog.String("error", err.Error()))
				continue
			}
			if _, err := w.Write([]byte("event: record\ndata: " + string(data) + "\n\n")); err != nil {
				h.logger.Debug("stream write failed", slog.String("error", err.Error()))
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, ok := h.sessions.Get(c.Value); !ok {
				return
			}
			if _, err := w.Write([]byte(": keep-alive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
