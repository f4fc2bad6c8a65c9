package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRunPrintsSpotPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/currency_pair/ETH-EUR/spot" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("date"); got != "2024-02-29" {
			t.Errorf("date = %q", got)
		}
		_, _ = w.Write([]byte(`{"data":{"amount":"2900.123456789","currency":"EUR"}}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), []string{"--api-url", srv.URL, "--pair", "ETH-EUR", "--date", "2024-02-29"}, &out)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), `"amount": "2900.123456789"`) {
		t.Fatalf("unexpected output %s", out.String())
	}
}

func TestRunReportsAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":[{"id":"not_found","message":"Invalid currency"}]}`))
	}))
	defer srv.Close()

	err := run(context.Background(), []string{"--api-url", srv.URL, "--kind", "rates", "--base", "NOPE"}, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "Invalid currency") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestParseFlagsRejectsDateForNonSpot(t *testing.T) {
	if _, err := parseFlags([]string{"--kind", "buy", "--date", "2024-01-01"}, io.Discard); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFetchRejectsUnknownKind(t *testing.T) {
	opts, err := parseFlags([]string{"--kind", "mid"}, io.Discard)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if _, err := fetch(context.Background(), nil, opts); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
