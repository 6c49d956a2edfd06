package handlers

import (
	"github.com/gorilla/mux"
)

func RegisterRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/healthz", HandleHealth).Methods("GET")
	r.HandleFunc("/api/audit", h.CreateAudit).Methods("POST")
	r.HandleFunc("/history", h.History).Methods("GET")
}
