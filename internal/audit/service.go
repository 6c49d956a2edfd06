package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ismywebok/webaudit/internal/models"
	"github.com/ismywebok/webaudit/internal/pagespeed"
	"github.com/ismywebok/webaudit/internal/report"
	"github.com/ismywebok/webaudit/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Store is the persistence surface the service needs. Absent rows are
// (nil, nil), not errors.
type Store interface {
	Insert(ctx context.Context, audit *models.Audit) error
	LatestByURL(ctx context.Context, url string) (*models.Audit, error)
}

// Provider runs one external performance audit per strategy.
type Provider interface {
	Run(ctx context.Context, url string, strategy pagespeed.Strategy) (*pagespeed.Result, error)
}

// Result is the orchestrator's response envelope. CachedAt is the stored
// row's creation time on a cache hit, or the live audit's completion time.
type Result struct {
	Report    report.Report
	FromCache bool
	CachedAt  time.Time
}

type Service struct {
	store    Store
	provider Provider
	archive  storage.Storage
	ttl      time.Duration
	log      *logrus.Entry
}

// NewService wires the orchestrator. archive may be nil when raw payload
// archival is not configured.
func NewService(logger *logrus.Logger, store Store, provider Provider, archive storage.Storage, ttl time.Duration) *Service {
	return &Service{
		store:    store,
		provider: provider,
		archive:  archive,
		ttl:      ttl,
		log:      logger.WithField("component", "audit_service"),
	}
}

// Handle serves one audit request: a fresh-enough stored audit is returned
// as-is, otherwise both strategies are measured live, shaped into a report,
// persisted best-effort, and returned.
//
// There is no single-flight guard: two concurrent misses for the same URL
// both run the live audit and both persist. The table is append-only, so
// the duplicate row is harmless and simply shows up in history.
func (s *Service) Handle(ctx context.Context, url string, forceRefresh bool, clientIP string) (*Result, error) {
	log := s.log.WithField("url", url)

	if !forceRefresh {
		if rep, createdAt, ok := s.freshAudit(ctx, url); ok {
			log.WithField("cached_at", createdAt).Info("Serving audit from cache")
			return &Result{Report: rep, FromCache: true, CachedAt: createdAt}, nil
		}
	}

	log.Info("Running live audit")

	var mobile, desktop *pagespeed.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		mobile, err = s.provider.Run(gctx, url, pagespeed.StrategyMobile)
		return err
	})
	g.Go(func() error {
		var err error
		desktop, err = s.provider.Run(gctx, url, pagespeed.StrategyDesktop)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := report.Build(url, pagespeed.ExtractMetrics(mobile), pagespeed.ExtractMetrics(desktop))
	completedAt := time.Now().UTC()

	// Best-effort side work: neither a failed insert nor a failed archive
	// alters the response.
	s.persist(ctx, rep, clientIP)
	s.archiveRaw(ctx, url, completedAt, mobile, desktop)

	return &Result{Report: rep, FromCache: false, CachedAt: completedAt}, nil
}

// freshAudit returns the most recent stored audit for url when its age is
// within the TTL. Any lookup failure degrades to a miss.
func (s *Service) freshAudit(ctx context.Context, url string) (report.Report, time.Time, bool) {
	row, err := s.store.LatestByURL(ctx, url)
	if err != nil {
		s.log.WithError(err).Warn("Audit lookup failed, treating as cache miss")
		return report.Report{}, time.Time{}, false
	}
	if row == nil {
		return report.Report{}, time.Time{}, false
	}

	// Exactly TTL old still counts as fresh; only age > TTL is stale.
	if time.Since(row.CreatedAt) > s.ttl {
		return report.Report{}, time.Time{}, false
	}

	rep, err := row.Report()
	if err != nil {
		s.log.WithError(err).Warn("Stored audit is unreadable, treating as cache miss")
		return report.Report{}, time.Time{}, false
	}
	return rep, row.CreatedAt, true
}

func (s *Service) persist(ctx context.Context, rep report.Report, clientIP string) {
	row, err := models.NewAudit(rep, HashIP(clientIP))
	if err != nil {
		s.log.WithError(err).Warn("Failed to encode audit for storage")
		return
	}
	if err := s.store.Insert(ctx, row); err != nil {
		s.log.WithError(err).Warn("Failed to persist audit")
	}
}

func (s *Service) archiveRaw(ctx context.Context, url string, at time.Time, results ...*pagespeed.Result) {
	if s.archive == nil {
		return
	}

	strategies := []pagespeed.Strategy{pagespeed.StrategyMobile, pagespeed.StrategyDesktop}
	urlHash := sha256.Sum256([]byte(url))

	for i, result := range results {
		if result == nil || result.Raw == nil {
			continue
		}
		key := fmt.Sprintf("audits/%s/%s-%s.json",
			hex.EncodeToString(urlHash[:]), at.Format("20060102T150405Z"), strategies[i])
		if err := s.archive.Put(ctx, key, result.Raw, "application/json"); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("Failed to archive raw payload")
		}
	}
}

// HashIP one-way hashes a submitter address; nil when the address is
// unknown.
func HashIP(ip string) *string {
	if ip == "" {
		return nil
	}
	sum := sha256.Sum256([]byte(ip))
	hashed := hex.EncodeToString(sum[:])
	return &hashed
}
