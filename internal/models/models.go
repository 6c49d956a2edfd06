package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ismywebok/webaudit/internal/report"
	"gorm.io/gorm"
)

// Audit is one persisted audit run. Rows are append-only: they are never
// updated after insert, and the history view is the time-ordered set of
// rows sharing the exact URL string.
type Audit struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	CreatedAt   time.Time `gorm:"index;not null"`
	URL         string    `gorm:"type:text;not null;index:,length:256"`
	Score       int       `gorm:"not null"`
	SummaryEN   string    `gorm:"column:summary_en;type:text;not null"`
	SummaryPL   string    `gorm:"column:summary_pl;type:text;not null"`
	Metrics     string    `gorm:"type:jsonb;not null"`
	TopFindings string    `gorm:"column:top_findings;type:jsonb;not null"`
	IPHash      *string   `gorm:"column:ip_hash;type:varchar(64)"`
}

type AccessLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Timestamp time.Time `gorm:"index;not null"`
	Method    string    `gorm:"type:varchar(10);not null"`
	Path      string    `gorm:"type:text;not null"`
	Status    int       `gorm:"not null;index"`
	Duration  time.Duration
	ClientIP  string `gorm:"type:varchar(45);not null"`
	UserAgent string `gorm:"type:text"`
	BytesSent int    `gorm:"not null;default:0"`
}

func (Audit) TableName() string {
	return "audits"
}

func (AccessLog) TableName() string {
	return "access_logs"
}

func (a *Audit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return nil
}

// NewAudit converts a report into a row ready for insert. ipHash may be
// nil when the submitter's address could not be determined.
func NewAudit(r report.Report, ipHash *string) (*Audit, error) {
	metrics, err := json.Marshal(r.Metrics)
	if err != nil {
		return nil, fmt.Errorf("marshal metrics: %w", err)
	}
	findings, err := json.Marshal(r.TopFindings)
	if err != nil {
		return nil, fmt.Errorf("marshal findings: %w", err)
	}
	return &Audit{
		URL:         r.URL,
		Score:       r.Score,
		SummaryEN:   r.SummaryEN,
		SummaryPL:   r.SummaryPL,
		Metrics:     string(metrics),
		TopFindings: string(findings),
		IPHash:      ipHash,
	}, nil
}

// Report reconstructs the report value stored in this row.
func (a *Audit) Report() (report.Report, error) {
	r := report.Report{
		URL:       a.URL,
		Score:     a.Score,
		SummaryEN: a.SummaryEN,
		SummaryPL: a.SummaryPL,
	}
	if err := json.Unmarshal([]byte(a.Metrics), &r.Metrics); err != nil {
		return report.Report{}, fmt.Errorf("unmarshal metrics: %w", err)
	}
	if err := json.Unmarshal([]byte(a.TopFindings), &r.TopFindings); err != nil {
		return report.Report{}, fmt.Errorf("unmarshal findings: %w", err)
	}
	return r, nil
}
