package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers groups everything the router serves.
type Handlers struct {
	Form    *FormHandler
	Records *RecordHandler
	Export  *ExportHandler
	Stream  *StreamHandler
	Visits  *VisitHandler
	Metrics http.Handler
}

func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", h.Form.Page).Methods("GET")
	r.HandleFunc("/", h.Form.Submit).Methods("POST")
	r.HandleFunc("/export", h.Export.Export).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/form", h.Records.GetForm).Methods("GET")
	api.HandleFunc("/records", h.Records.ListRecords).Methods("GET")
	api.HandleFunc("/records", h.Records.AddRecord).Methods("POST")
	api.HandleFunc("/records/stream", h.Stream.StreamRecords).Methods("GET")
	api.HandleFunc("/visits", h.Visits.GetVisits).Methods("GET")

	r.HandleFunc("/health", Health).Methods("GET")
	if h.Metrics != nil {
		r.Handle("/metrics", h.Metrics).Methods("GET")
	}
	return r
}
