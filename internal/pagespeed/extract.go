package pagespeed

import "math"

// Metrics is the fixed set of fields pulled out of one provider result.
// PerfScore is nil when the provider omitted the performance category;
// timing fields are empty strings when their audit is missing.
type Metrics struct {
	PerfScore *int
	LCP       string
	CLS       string
	TBT       string
	TTI       string
	FCP       string
}

// ExtractMetrics maps a provider result to Metrics. It never fails:
// absent fields degrade to nil/empty and are rendered as "n/a" downstream.
func ExtractMetrics(result *Result) Metrics {
	var m Metrics
	if result == nil {
		return m
	}

	if perf, ok := result.Lighthouse.Categories["performance"]; ok && perf.Score != nil {
		score := int(math.Round(*perf.Score * 100))
		m.PerfScore = &score
	}

	m.LCP = result.Lighthouse.Audits["largest-contentful-paint"].DisplayValue
	m.CLS = result.Lighthouse.Audits["cumulative-layout-shift"].DisplayValue
	m.TBT = result.Lighthouse.Audits["total-blocking-time"].DisplayValue
	m.TTI = result.Lighthouse.Audits["interactive"].DisplayValue
	m.FCP = result.Lighthouse.Audits["first-contentful-paint"].DisplayValue

	return m
}
