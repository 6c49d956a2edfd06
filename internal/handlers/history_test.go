package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/ismywebok/webaudit/internal/config"
	"github.com/ismywebok/webaudit/internal/models"
)

func muxRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	RegisterRoutes(r, h)
	return r
}

func seedHistory(store *fakeStore, url string, scores ...int) {
	base := time.Now().UTC().Add(-time.Duration(len(scores)) * time.Hour)
	for i, score := range scores {
		store.rows = append(store.rows, &models.Audit{
			ID:          "seed-" + string(rune('a'+i)),
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
			URL:         url,
			Score:       score,
			SummaryEN:   "summary",
			SummaryPL:   "podsumowanie",
			Metrics:     `{"mobile_score":` + strconv.Itoa(score) + `,"desktop_score":"n/a","mobile_lcp":"3.8 s","mobile_cls":"0.12","mobile_tbt":"n/a","mobile_tti":"n/a","mobile_fcp":"n/a"}`,
			TopFindings: `[{"severity":"MED","message_en":"Top issue","message_pl":"Problem"}]`,
		})
	}
}

func TestHistoryRowsDeltas(t *testing.T) {
	store := &fakeStore{}
	seedHistory(store, "https://example.com", 50, 70, 65)

	audits, err := store.RecentByURL(context.Background(), "https://example.com", 10)
	if err != nil {
		t.Fatalf("RecentByURL: %v", err)
	}

	wantScores := []int{65, 70, 50}
	rows := historyRows(audits)
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}
	for i, want := range wantScores {
		if rows[i].Score != want {
			t.Errorf("rows[%d].Score: got %d, want %d", i, rows[i].Score, want)
		}
	}

	if rows[0].Delta != "-5" {
		t.Errorf("rows[0].Delta: got %q, want %q", rows[0].Delta, "-5")
	}
	if rows[1].Delta != "+20" {
		t.Errorf("rows[1].Delta: got %q, want %q", rows[1].Delta, "+20")
	}
	if rows[2].Delta != "" {
		t.Errorf("rows[2].Delta: got %q, want empty (oldest row has no older neighbor)", rows[2].Delta)
	}

	if rows[0].TopIssue != "MED: Top issue" {
		t.Errorf("rows[0].TopIssue: got %q, want %q", rows[0].TopIssue, "MED: Top issue")
	}
	if rows[0].MobileScore != "65" {
		t.Errorf("rows[0].MobileScore: got %q, want %q", rows[0].MobileScore, "65")
	}
	if rows[0].DesktopScore != "n/a" {
		t.Errorf("rows[0].DesktopScore: got %q, want %q", rows[0].DesktopScore, "n/a")
	}
}

func TestTrendPoints(t *testing.T) {
	got := trendPoints([]int{50, 70, 65}, 560, 120)
	want := "0.0,120.0 280.0,0.0 560.0,30.0"
	if got != want {
		t.Errorf("trendPoints: got %q, want %q", got, want)
	}
}

func TestTrendPointsFlatSeries(t *testing.T) {
	got := trendPoints([]int{60, 60}, 100, 100)
	want := "0.0,50.0 100.0,50.0"
	if got != want {
		t.Errorf("trendPoints: got %q, want %q", got, want)
	}
}

func TestTrendPointsTooFewSamples(t *testing.T) {
	if got := trendPoints([]int{80}, 560, 120); got != "" {
		t.Errorf("trendPoints with one sample: got %q, want empty", got)
	}
	if got := trendPoints(nil, 560, 120); got != "" {
		t.Errorf("trendPoints with no samples: got %q, want empty", got)
	}
}

func TestHistoryPage(t *testing.T) {
	store := &fakeStore{}
	seedHistory(store, "https://example.com", 50, 70, 65)
	h := NewHandler(quietLogger(), &config.Config{HistoryLimit: 10}, nil, store)

	req := httptest.NewRequest(http.MethodGet, "/history?url=https://example.com", nil)
	rec := httptest.NewRecorder()
	h.History(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	body := rec.Body.String()

	for _, want := range []string{"-5", "+20", "polyline", "0.0,120.0 280.0,0.0 560.0,30.0"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}

	// Newest first: the 65-row renders before the 50-row.
	if strings.Index(body, "<strong>65</strong>") > strings.Index(body, "<strong>50</strong>") {
		t.Error("rows are not ordered newest first")
	}
}

func TestHistoryPageLimit(t *testing.T) {
	store := &fakeStore{}
	seedHistory(store, "https://example.com",
		10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21)
	h := NewHandler(quietLogger(), &config.Config{HistoryLimit: 10}, nil, store)

	req := httptest.NewRequest(http.MethodGet, "/history?url=https://example.com", nil)
	rec := httptest.NewRecorder()
	h.History(rec, req)

	body := rec.Body.String()
	if strings.Contains(body, "<strong>10</strong>") || strings.Contains(body, "<strong>11</strong>") {
		t.Error("history page must cap at the 10 most recent audits")
	}
	if !strings.Contains(body, "<strong>21</strong>") {
		t.Error("history page missing the newest audit")
	}
}

func TestHistoryPageEmptyStates(t *testing.T) {
	h := NewHandler(quietLogger(), &config.Config{HistoryLimit: 10}, nil, &fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/history", nil)
	rec := httptest.NewRecorder()
	h.History(rec, req)
	if !strings.Contains(rec.Body.String(), "Start by entering") {
		t.Error("missing-url state not rendered")
	}

	req = httptest.NewRequest(http.MethodGet, "/history?url=https://unknown.example", nil)
	rec = httptest.NewRecorder()
	h.History(rec, req)
	if !strings.Contains(rec.Body.String(), "No audits found yet") {
		t.Error("empty-history state not rendered")
	}
}
