package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/ismywebok/webaudit/internal/audit"
	"github.com/ismywebok/webaudit/internal/config"
	"github.com/ismywebok/webaudit/internal/models"
	"github.com/ismywebok/webaudit/internal/report"
	"github.com/sirupsen/logrus"
)

// AuditRunner is the orchestrator surface the HTTP layer consumes.
type AuditRunner interface {
	Handle(ctx context.Context, url string, forceRefresh bool, clientIP string) (*audit.Result, error)
}

// HistoryStore serves the history view's reads.
type HistoryStore interface {
	RecentByURL(ctx context.Context, url string, limit int) ([]models.Audit, error)
}

type Handler struct {
	cfg     *config.Config
	runner  AuditRunner
	history HistoryStore
	log     *logrus.Entry
}

func NewHandler(logger *logrus.Logger, cfg *config.Config, runner AuditRunner, history HistoryStore) *Handler {
	return &Handler{
		cfg:     cfg,
		runner:  runner,
		history: history,
		log:     logger.WithField("component", "http_handler"),
	}
}

type auditRequest struct {
	URL          string `json:"url"`
	ForceRefresh bool   `json:"forceRefresh"`
}

type auditResponse struct {
	report.Report
	FromCache bool    `json:"from_cache"`
	CachedAt  *string `json:"cached_at"`
}

// CreateAudit handles POST /api/audit. Validation failures and provider
// failures both surface as 400 with an error message.
func (h *Handler) CreateAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !validAbsoluteURL(req.URL) {
		writeError(w, http.StatusBadRequest, "url must be a valid absolute http(s) URL")
		return
	}

	result, err := h.runner.Handle(r.Context(), req.URL, req.ForceRefresh, getClientIP(r))
	if err != nil {
		h.log.WithError(err).WithField("url", req.URL).Warn("Audit failed")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cachedAt := result.CachedAt.UTC().Format(time.RFC3339)
	writeJSON(w, http.StatusOK, auditResponse{
		Report:    result.Report,
		FromCache: result.FromCache,
		CachedAt:  &cachedAt,
	})
}

func validAbsoluteURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
