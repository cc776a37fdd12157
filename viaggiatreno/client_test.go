package viaggiatreno

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDepartures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/partenze/S01700/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"categoriaDescrizione":"REG","compNumeroTreno":"REG 2567","destinazione":"MODENA","orarioPartenza":1700000000000,"ritardo":5},
			{"categoriaDescrizione":"REG","compNumeroTreno":"REG 2569","destinazione":"BOLOGNA C.LE","orarioPartenza":1700000300000,"ritardo":-2}
		]`))
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	trains, err := c.Departures(context.Background(), "S01700", time.Now())
	if err != nil {
		t.Fatalf("Departures failed: %v", err)
	}

	if len(trains) != 2 {
		t.Fatalf("expected 2 trains, got %d", len(trains))
	}
	if trains[0].Destination != "MODENA" {
		t.Errorf("destination = %q, want MODENA", trains[0].Destination)
	}
	if trains[0].Delay != 5 || trains[1].Delay != -2 {
		t.Errorf("delays = %d, %d; want 5, -2", trains[0].Delay, trains[1].Delay)
	}
	if trains[1].DepartureTime != 1700000300000 {
		t.Errorf("departure time = %d, want 1700000300000", trains[1].DepartureTime)
	}
}

func TestDeparturesNonArrayIsEmpty(t *testing.T) {
	payloads := []string{
		`{"error":"unknown station"}`,
		`null`,
		`"maintenance"`,
	}

	for _, payload := range payloads {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(payload))
		}))

		c := New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
		trains, err := c.Departures(context.Background(), "S99999", time.Now())
		srv.Close()

		if err != nil {
			t.Errorf("payload %s: expected lenient empty result, got error %v", payload, err)
		}
		if len(trains) != 0 {
			t.Errorf("payload %s: expected 0 trains, got %d", payload, len(trains))
		}
	}
}

func TestDeparturesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if _, err := c.Departures(context.Background(), "S01700", time.Now()); err == nil {
		t.Error("expected error on upstream 500")
	}
}

func TestStationName(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/regione/S01700", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("8\n"))
	})
	mux.HandleFunc("/dettaglioStazione/S01700/8", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"localita":{"nomeLungo":"MODENA","nomeBreve":"Modena"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	name, err := c.StationName(context.Background(), "S01700")
	if err != nil {
		t.Fatalf("StationName failed: %v", err)
	}
	if name != "MODENA" {
		t.Errorf("name = %q, want MODENA", name)
	}
}

func TestStationNameRegionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if _, err := c.StationName(context.Background(), "S01700"); err == nil {
		t.Error("expected error when region lookup fails")
	}
}
