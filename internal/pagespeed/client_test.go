package pagespeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ismywebok/webaudit/internal/config"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(baseURL string) *Client {
	return NewClient(quietLogger(), &config.Config{
		PSIAPIKey:  "test-key",
		PSIBaseURL: baseURL,
	})
}

func TestClientRunRequestShape(t *testing.T) {
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"url":      r.URL.Query().Get("url"),
			"strategy": r.URL.Query().Get("strategy"),
			"key":      r.URL.Query().Get("key"),
			"category": r.URL.Query().Get("category"),
		}
		fmt.Fprint(w, `{"lighthouseResult":{"categories":{"performance":{"score":0.91}},"audits":{"largest-contentful-paint":{"displayValue":"1.9 s"}}}}`)
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL).Run(context.Background(), "https://example.com", StrategyMobile)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := map[string]string{
		"url":      "https://example.com",
		"strategy": "mobile",
		"key":      "test-key",
		"category": "performance",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s: got %q, want %q", k, gotQuery[k], v)
		}
	}

	m := ExtractMetrics(result)
	if m.PerfScore == nil || *m.PerfScore != 91 {
		t.Errorf("PerfScore: got %v, want 91", m.PerfScore)
	}
	if m.LCP != "1.9 s" {
		t.Errorf("LCP: got %q, want %q", m.LCP, "1.9 s")
	}
	if len(result.Raw) == 0 {
		t.Error("Raw: expected the undecoded body to be retained")
	}
}

func TestClientRunProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Run(context.Background(), "https://example.com", StrategyDesktop)
	if err == nil {
		t.Fatal("Run: expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "desktop") {
		t.Errorf("error should name the failing strategy: %v", err)
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should include the provider status: %v", err)
	}
}

func TestClientRunInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not json")
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Run(context.Background(), "https://example.com", StrategyMobile); err == nil {
		t.Fatal("Run: expected decode error")
	}
}
