package pagespeed

import "testing"

func fullResult(score float64) *Result {
	return &Result{
		Lighthouse: lighthouseResult{
			Categories: map[string]category{
				"performance": {Score: &score},
			},
			Audits: map[string]auditRef{
				"largest-contentful-paint": {DisplayValue: "2.5 s"},
				"cumulative-layout-shift":  {DisplayValue: "0.12"},
				"total-blocking-time":      {DisplayValue: "310 ms"},
				"interactive":              {DisplayValue: "4.1 s"},
				"first-contentful-paint":   {DisplayValue: "1.8 s"},
			},
		},
	}
}

func TestExtractMetricsFullPayload(t *testing.T) {
	m := ExtractMetrics(fullResult(0.546))

	if m.PerfScore == nil || *m.PerfScore != 55 {
		t.Errorf("PerfScore: got %v, want 55", m.PerfScore)
	}
	if m.LCP != "2.5 s" {
		t.Errorf("LCP: got %q, want %q", m.LCP, "2.5 s")
	}
	if m.CLS != "0.12" {
		t.Errorf("CLS: got %q, want %q", m.CLS, "0.12")
	}
	if m.TBT != "310 ms" {
		t.Errorf("TBT: got %q, want %q", m.TBT, "310 ms")
	}
	if m.TTI != "4.1 s" {
		t.Errorf("TTI: got %q, want %q", m.TTI, "4.1 s")
	}
	if m.FCP != "1.8 s" {
		t.Errorf("FCP: got %q, want %q", m.FCP, "1.8 s")
	}
}

func TestExtractMetricsRounding(t *testing.T) {
	cases := []struct {
		raw  float64
		want int
	}{
		{0, 0},
		{0.55, 55},
		{0.995, 100},
		{0.004, 0},
		{1, 100},
	}
	for _, tc := range cases {
		m := ExtractMetrics(fullResult(tc.raw))
		if m.PerfScore == nil || *m.PerfScore != tc.want {
			t.Errorf("ExtractMetrics(%v).PerfScore: got %v, want %d", tc.raw, m.PerfScore, tc.want)
		}
	}
}

func TestExtractMetricsMissingFields(t *testing.T) {
	m := ExtractMetrics(&Result{})

	if m.PerfScore != nil {
		t.Errorf("PerfScore: got %v, want nil", *m.PerfScore)
	}
	for name, got := range map[string]string{
		"LCP": m.LCP, "CLS": m.CLS, "TBT": m.TBT, "TTI": m.TTI, "FCP": m.FCP,
	} {
		if got != "" {
			t.Errorf("%s: got %q, want empty", name, got)
		}
	}
}

func TestExtractMetricsNilResult(t *testing.T) {
	m := ExtractMetrics(nil)
	if m.PerfScore != nil {
		t.Errorf("PerfScore: got %v, want nil", *m.PerfScore)
	}
}

func TestExtractMetricsNullCategoryScore(t *testing.T) {
	res := &Result{
		Lighthouse: lighthouseResult{
			Categories: map[string]category{"performance": {Score: nil}},
		},
	}
	if m := ExtractMetrics(res); m.PerfScore != nil {
		t.Errorf("PerfScore: got %v, want nil", *m.PerfScore)
	}
}
