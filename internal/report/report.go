package report

import "github.com/ismywebok/webaudit/internal/pagespeed"

// NotAvailable is the sentinel stored in the metrics map when the
// underlying measurement is missing from the vendor payload.
const NotAvailable = "n/a"

type Severity string

const (
	SeverityHigh Severity = "HIGH"
	SeverityMed  Severity = "MED"
	SeverityLow  Severity = "LOW"
)

type Finding struct {
	Severity  Severity `json:"severity"`
	MessageEN string   `json:"message_en"`
	MessagePL string   `json:"message_pl"`
}

// Report is the normalized audit report returned to clients and persisted
// as an audit row. It is a pure value: no timestamps, no identifiers.
type Report struct {
	URL         string         `json:"url"`
	Score       int            `json:"score"`
	SummaryEN   string         `json:"summary_en"`
	SummaryPL   string         `json:"summary_pl"`
	Metrics     map[string]any `json:"metrics"`
	TopFindings []Finding      `json:"topFindings"`
}

const (
	summaryGoodEN = "Your website is performing well overall, with room for small improvements."
	summaryGoodPL = "Twoja strona działa ogólnie dobrze, wymaga jedynie drobnych poprawek."

	summaryOkEN = "Your website is OK, but there are several performance issues worth fixing."
	summaryOkPL = "Twoja strona jest w porządku, ale wymaga kilku istotnych usprawnień."

	summaryPoorEN = "Your website is currently slow or poorly optimized. Fixing key issues could significantly improve user experience and SEO."
	summaryPoorPL = "Twoja strona działa obecnie wolno lub jest słabo zoptymalizowana. Poprawa kluczowych elementów może znacząco polepszyć doświadczenie użytkownika i SEO."
)

// Summary returns the bilingual summary tier for a score: >=80 good,
// >=60 ok, otherwise poor.
func Summary(score int) (en, pl string) {
	switch {
	case score >= 80:
		return summaryGoodEN, summaryGoodPL
	case score >= 60:
		return summaryOkEN, summaryOkPL
	default:
		return summaryPoorEN, summaryPoorPL
	}
}

// Build combines the mobile and desktop extractions into one report.
// Mobile is authoritative for the overall score because it is the stricter
// measurement surface; desktop is the fallback, then 0.
//
// Build is deterministic: identical inputs always produce identical
// reports, and the findings list is never empty.
func Build(url string, mobile, desktop pagespeed.Metrics) Report {
	score := 0
	switch {
	case mobile.PerfScore != nil:
		score = *mobile.PerfScore
	case desktop.PerfScore != nil:
		score = *desktop.PerfScore
	}

	summaryEN, summaryPL := Summary(score)

	metrics := map[string]any{
		"mobile_score":  scoreOrNA(mobile.PerfScore),
		"desktop_score": scoreOrNA(desktop.PerfScore),
		"mobile_lcp":    valueOrNA(mobile.LCP),
		"mobile_cls":    valueOrNA(mobile.CLS),
		"mobile_tbt":    valueOrNA(mobile.TBT),
		"mobile_tti":    valueOrNA(mobile.TTI),
		"mobile_fcp":    valueOrNA(mobile.FCP),
	}

	coreSeverity := SeverityLow
	if score < 60 {
		coreSeverity = SeverityHigh
	} else if score < 80 {
		coreSeverity = SeverityMed
	}

	findings := []Finding{
		{
			Severity:  coreSeverity,
			MessageEN: "Improve core performance metrics (LCP, FCP, TBT) by optimizing images and reducing JavaScript.",
			MessagePL: "Popraw kluczowe metryki wydajności (LCP, FCP, TBT) optymalizując obrazy i zmniejszając ilość JavaScriptu.",
		},
		{
			Severity:  SeverityMed,
			MessageEN: "Check the detailed PageSpeed report for unused JavaScript and CSS and remove or defer them.",
			MessagePL: "Sprawdź szczegółowy raport PageSpeed pod kątem nieużywanego JavaScriptu i CSS, a następnie usuń lub odłóż ich ładowanie.",
		},
		{
			Severity:  SeverityLow,
			MessageEN: "Consider implementing caching (CDN, HTTP caching headers) for static assets.",
			MessagePL: "Rozważ wdrożenie mechanizmów cache (CDN, nagłówki HTTP cache) dla zasobów statycznych.",
		},
	}

	return Report{
		URL:         url,
		Score:       score,
		SummaryEN:   summaryEN,
		SummaryPL:   summaryPL,
		Metrics:     metrics,
		TopFindings: findings,
	}
}

func scoreOrNA(score *int) any {
	if score == nil {
		return NotAvailable
	}
	return *score
}

func valueOrNA(v string) any {
	if v == "" {
		return NotAvailable
	}
	return v
}
