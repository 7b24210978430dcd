package riot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient() *Client {
	c := NewClient("RGAPI-test", false)
	c.interval = time.Nanosecond // no pacing in tests
	return c
}

func TestDoRequestSuccess(t *testing.T) {
	var gotToken, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Riot-Token")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"leagueId":"L1","tier":"CHALLENGER"}`))
	}))
	defer srv.Close()

	c := testClient()
	var list LeagueList
	if err := c.doRequest(context.Background(), "test", srv.URL, &list); err != nil {
		t.Fatal(err)
	}
	if list.Tier != "CHALLENGER" {
		t.Errorf("tier = %q", list.Tier)
	}
	if gotToken != "RGAPI-test" {
		t.Errorf("token header = %q", gotToken)
	}
	if gotAccept != "application/json" {
		t.Errorf("accept header = %q", gotAccept)
	}
}

func TestDoRequestNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := testClient()
	var out map[string]any
	err := c.doRequest(context.Background(), "test", srv.URL, &out)
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDoRequestRetriesOn429(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`["NA1_1","NA1_2"]`))
	}))
	defer srv.Close()

	c := testClient()
	var ids []string
	if err := c.doRequest(context.Background(), "test", srv.URL, &ids); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if len(ids) != 2 {
		t.Errorf("ids = %v", ids)
	}
}

func TestDoRequestRetriesOn5xx(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient()
	var ids []string
	if err := c.doRequest(context.Background(), "test", srv.URL, &ids); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestDoRequestClientErrorNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("bad key"))
	}))
	defer srv.Close()

	c := testClient()
	var out map[string]any
	err := c.doRequest(context.Background(), "test", srv.URL, &out)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRequestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient("RGAPI-test", false)
	var out map[string]any
	if err := c.doRequest(ctx, "test", srv.URL, &out); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestLimiterPerHost(t *testing.T) {
	c := testClient()
	na := c.limiter("na1")
	if c.limiter("na1") != na {
		t.Error("same host should reuse its limiter")
	}
	if c.limiter("euw1") == na {
		t.Error("different hosts must not share a limiter")
	}
}

func TestNewClientIntervals(t *testing.T) {
	if c := NewClient("k", true); c.interval != devKeyInterval {
		t.Errorf("dev interval = %v", c.interval)
	}
	if c := NewClient("k", false); c.interval != 50*time.Millisecond {
		t.Errorf("production interval = %v", c.interval)
	}
}
