package pagespeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ismywebok/webaudit/internal/config"
	"github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// Strategy is the device profile under which the provider measures a page.
type Strategy string

const (
	StrategyMobile  Strategy = "mobile"
	StrategyDesktop Strategy = "desktop"
)

// Result is the decoded provider payload for one strategy. Raw keeps the
// undecoded body for archival.
type Result struct {
	Raw        json.RawMessage  `json:"-"`
	Lighthouse lighthouseResult `json:"lighthouseResult"`
}

type lighthouseResult struct {
	Categories map[string]category `json:"categories"`
	Audits     map[string]auditRef `json:"audits"`
}

type category struct {
	Score *float64 `json:"score"`
}

type auditRef struct {
	DisplayValue string `json:"displayValue"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *logrus.Entry
}

type loggingTransport struct {
	log *logrus.Entry
}

func NewClient(logger *logrus.Logger, cfg *config.Config) *Client {
	baseURL := cfg.PSIBaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: &loggingTransport{log: logger.WithField("component", "pagespeed_transport")},
		},
		baseURL: baseURL,
		apiKey:  cfg.PSIAPIKey,
		log:     logger.WithField("component", "pagespeed_client"),
	}
}

// Run performs one audit of target under the given strategy. A non-200
// provider status is an error naming the failing strategy; no partial
// result is ever returned.
func (c *Client) Run(ctx context.Context, target string, strategy Strategy) (*Result, error) {
	start := time.Now()
	log := c.log.WithFields(logrus.Fields{
		"url":      target,
		"strategy": strategy,
	})

	params := url.Values{}
	params.Set("url", target)
	params.Set("strategy", string(strategy))
	params.Set("key", c.apiKey)
	params.Set("category", "performance")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("pagespeed request (%s): %w", strategy, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Error("Audit request failed")
		return nil, fmt.Errorf("pagespeed request (%s): %w", strategy, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("pagespeed response (%s): %w", strategy, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.WithField("status_code", resp.StatusCode).Error("Audit failed")
		return nil, fmt.Errorf("pagespeed error (%s): status %d: %s", strategy, resp.StatusCode, snippet(body))
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		log.WithError(err).Error("Invalid audit response")
		return nil, fmt.Errorf("pagespeed decode (%s): %w", strategy, err)
	}
	result.Raw = body

	log.WithField("duration", time.Since(start)).Debug("Audit completed")
	return &result, nil
}

func snippet(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := t.log.WithFields(logrus.Fields{
		"method": req.Method,
		"host":   req.URL.Host,
	})

	resp, err := http.DefaultTransport.RoundTrip(req)
	if err != nil {
		log.WithError(err).Error("HTTP request failed")
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"duration":    time.Since(start),
	}).Debug("HTTP request completed")
	return resp, nil
}
