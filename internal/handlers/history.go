package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/ismywebok/webaudit/internal/models"
)

const (
	trendWidth  = 560
	trendHeight = 120
)

type historyRow struct {
	CreatedAt    time.Time
	Score        int
	Delta        string
	MobileScore  string
	DesktopScore string
	LCP          string
	CLS          string
	TopIssue     string
}

type historyPage struct {
	URL         string
	Rows        []historyRow
	TrendPoints string
	TrendWidth  int
	TrendHeight int
}

// History handles GET /history: the most recent audits for the exact URL
// string, newest first, with per-row score deltas and a score-trend
// polyline. A store failure renders the empty state rather than an error.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	page := historyPage{
		URL:         strings.TrimSpace(r.URL.Query().Get("url")),
		TrendWidth:  trendWidth,
		TrendHeight: trendHeight,
	}

	if page.URL != "" {
		audits, err := h.history.RecentByURL(r.Context(), page.URL, h.cfg.HistoryLimit)
		if err != nil {
			h.log.WithError(err).WithField("url", page.URL).Warn("History lookup failed")
		} else {
			page.Rows = historyRows(audits)
			page.TrendPoints = trendPoints(chronologicalScores(audits), trendWidth, trendHeight)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := historyTemplate.Execute(w, page); err != nil {
		h.log.WithError(err).Error("History render failed")
	}
}

// historyRows maps newest-first rows to view rows. Each delta compares a
// row's score against the immediately older row; the oldest has none.
func historyRows(audits []models.Audit) []historyRow {
	rows := make([]historyRow, 0, len(audits))
	for i, a := range audits {
		row := historyRow{
			CreatedAt:    a.CreatedAt,
			Score:        a.Score,
			MobileScore:  "n/a",
			DesktopScore: "n/a",
			LCP:          "n/a",
			CLS:          "n/a",
			TopIssue:     "—",
		}

		if i+1 < len(audits) {
			row.Delta = formatDelta(a.Score - audits[i+1].Score)
		}

		if rep, err := a.Report(); err == nil {
			row.MobileScore = metricString(rep.Metrics["mobile_score"])
			row.DesktopScore = metricString(rep.Metrics["desktop_score"])
			row.LCP = metricString(rep.Metrics["mobile_lcp"])
			row.CLS = metricString(rep.Metrics["mobile_cls"])
			if len(rep.TopFindings) > 0 {
				top := rep.TopFindings[0]
				row.TopIssue = fmt.Sprintf("%s: %s", top.Severity, top.MessageEN)
			}
		}

		rows = append(rows, row)
	}
	return rows
}

func chronologicalScores(audits []models.Audit) []int {
	scores := make([]int, len(audits))
	for i, a := range audits {
		scores[len(audits)-1-i] = a.Score
	}
	return scores
}

// trendPoints renders oldest-first scores as SVG polyline points,
// min/max-normalized to the given viewport.
func trendPoints(scores []int, width, height int) string {
	if len(scores) < 2 {
		return ""
	}

	min, max := scores[0], scores[0]
	for _, s := range scores {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	var b strings.Builder
	step := float64(width) / float64(len(scores)-1)
	for i, s := range scores {
		y := float64(height) / 2
		if max > min {
			y = float64(height) - float64(s-min)/float64(max-min)*float64(height)
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", float64(i)*step, y)
	}
	return b.String()
}

func formatDelta(delta int) string {
	return fmt.Sprintf("%+d", delta)
}

func metricString(v any) string {
	switch value := v.(type) {
	case nil:
		return "n/a"
	case string:
		return value
	case float64:
		return fmt.Sprintf("%.0f", value)
	case int:
		return fmt.Sprintf("%d", value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

var historyTemplate = template.Must(template.New("history").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Audit history</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem auto; max-width: 760px; color: #111; }
table { border-collapse: collapse; width: 100%; font-size: 0.85rem; }
th, td { border-bottom: 1px solid #e5e7eb; padding: 0.5rem 0.75rem; text-align: left; }
th { text-transform: uppercase; font-size: 0.7rem; color: #6b7280; }
form { display: flex; gap: 0.5rem; margin: 1.5rem 0; }
input[name=url] { flex: 1; padding: 0.5rem; }
.muted { color: #6b7280; font-size: 0.85rem; }
svg { margin-top: 1.5rem; }
</style>
</head>
<body>
<h1>Audit history</h1>
<p class="muted">Enter the exact URL you audited to see its recent audits and score trend.</p>
<form method="get">
<input name="url" value="{{.URL}}" placeholder="https://your-site.com">
<button type="submit">Show history</button>
</form>
{{if not .URL}}
<p class="muted">Start by entering the exact URL you audited.</p>
{{else if not .Rows}}
<p class="muted">No audits found yet for <code>{{.URL}}</code>. Run a check first.</p>
{{else}}
{{if .TrendPoints}}
<svg width="{{.TrendWidth}}" height="{{.TrendHeight}}" viewBox="0 0 {{.TrendWidth}} {{.TrendHeight}}">
<polyline fill="none" stroke="#059669" stroke-width="2" points="{{.TrendPoints}}"/>
</svg>
{{end}}
<table>
<thead>
<tr><th>Date</th><th>Score</th><th>Δ</th><th>Mobile</th><th>Desktop</th><th>LCP (mobile)</th><th>CLS (mobile)</th><th>Top issue</th></tr>
</thead>
<tbody>
{{range .Rows}}
<tr>
<td>{{.CreatedAt.Format "2006-01-02 15:04"}}</td>
<td><strong>{{.Score}}</strong></td>
<td>{{.Delta}}</td>
<td>{{.MobileScore}}</td>
<td>{{.DesktopScore}}</td>
<td>{{.LCP}}</td>
<td>{{.CLS}}</td>
<td>{{.TopIssue}}</td>
</tr>
{{end}}
</tbody>
</table>
{{end}}
</body>
</html>
`))
