package nws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&http.Client{Timeout: 5 * time.Second}, baseURL, "zipweather-test/1.0")
}

func TestGetForecastHappyPath(t *testing.T) {
	var forecastCalls int32

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "zipweather-test/1.0" {
			t.Errorf("unexpected User-Agent: %q", ua)
		}
		// Coordinates must be rounded to four decimal places.
		if r.URL.Path != "/points/40.7484,-73.9967" {
			t.Errorf("unexpected points path: %s", r.URL.Path)
		}
		fmt.Fprintf(w, `{"properties":{"forecast":"%s/gridpoints/OKX/33,35/forecast"}}`, srv.URL)
	})
	mux.HandleFunc("/gridpoints/OKX/33,35/forecast", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&forecastCalls, 1)
		fmt.Fprint(w, `{"properties":{"periods":[
			{"name":"Tonight","temperature":43,"temperatureUnit":"F",
			 "probabilityOfPrecipitation":{"unit":"wmoUnit:percent","value":30},
			 "windSpeed":"8 mph","windDirection":"NW","shortForecast":"Partly Cloudy"},
			{"name":"Thursday","temperature":55,"temperatureUnit":"F",
			 "probabilityOfPrecipitation":{"value":null},
			 "windSpeed":"5 mph","windDirection":"W","shortForecast":"Sunny"}
		]}}`)
	})

	c := newTestClient(srv.URL)
	periods, err := c.GetForecast(context.Background(), 40.74841357, -73.99671234)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}
	first := periods[0]
	if first.Name != "Tonight" || first.Temperature != 43 || first.ShortForecast != "Partly Cloudy" {
		t.Fatalf("unexpected first period: %+v", first)
	}
	if first.PrecipChance == nil || *first.PrecipChance != 30 {
		t.Fatalf("unexpected precip chance: %v", first.PrecipChance)
	}
	if periods[1].PrecipChance != nil {
		t.Fatal("null probability value should decode to nil")
	}
	if got := atomic.LoadInt32(&forecastCalls); got != 1 {
		t.Fatalf("expected exactly one forecast request, got %d", got)
	}
}

func TestPointsMissingForecastURL(t *testing.T) {
	var forecastCalls int32

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"properties":{"forecastZone":"https://example.invalid/zone"}}`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&forecastCalls, 1)
	})

	c := newTestClient(srv.URL)
	_, err := c.GetForecast(context.Background(), 40.7484, -73.9967)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if got := atomic.LoadInt32(&forecastCalls); got != 0 {
		t.Fatalf("no second request should be made, got %d", got)
	}
}

func TestForecastEmptyPeriods(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/points/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"properties":{"forecast":"%s/forecast"}}`, srv.URL)
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"properties":{"periods":[]}}`)
	})

	c := newTestClient(srv.URL)
	_, err := c.GetForecast(context.Background(), 40.7484, -73.9967)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestPointsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// NWS answers 404 for coordinates outside US coverage.
		http.Error(w, `{"title":"Data Unavailable"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Points(context.Background(), 51.5074, -0.1278)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", statusErr.StatusCode)
	}
}

func TestPointsMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"properties":`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Points(context.Background(), 40.7484, -73.9967)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestTransportErrorIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := newTestClient(srv.URL)
	_, err := c.Points(context.Background(), 40.7484, -73.9967)
	if err == nil {
		t.Fatal("expected a transport error")
	}
	if errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("transport failure must not be classified as malformed response: %v", err)
	}
}
