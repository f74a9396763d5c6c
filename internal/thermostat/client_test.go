// internal/thermostat/client_test.go
package thermostat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatus_FullResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/thermostat/status" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"active_target": 21.5,
			"config": {"target_temp": 22.0},
			"all_temps": {"temp_outdoor": -3.2, "temp_living": 21.1}
		}`))
	}))
	defer srv.Close()

	r, err := New(srv.URL, 0).Status(context.Background())
	if err != nil {
		t.Fatalf("Status() err=%v", err)
	}
	if r.ActiveTarget == nil || *r.ActiveTarget != 21.5 {
		t.Errorf("active target = %v, want 21.5", r.ActiveTarget)
	}
	if r.ConfigTarget == nil || *r.ConfigTarget != 22.0 {
		t.Errorf("config target = %v, want 22.0", r.ConfigTarget)
	}
	if r.Outdoor == nil || *r.Outdoor != -3.2 {
		t.Errorf("outdoor = %v, want -3.2", r.Outdoor)
	}
}

// Missing fields decode to nil, not zero, so callers can tell
// "no reading" from a real 0°C.
func TestStatus_MissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"all_temps": {}}`))
	}))
	defer srv.Close()

	r, err := New(srv.URL, 0).Status(context.Background())
	if err != nil {
		t.Fatalf("Status() err=%v", err)
	}
	if r.ActiveTarget != nil || r.ConfigTarget != nil || r.Outdoor != nil {
		t.Errorf("missing fields must be nil, got %+v", r)
	}
}

func TestStatus_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := New(srv.URL, 0).Status(context.Background()); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestApplyConfig_PostsJSON(t *testing.T) {
	var got Config
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/api/v1/thermostat/config" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
	}))
	defer srv.Close()

	cfg := Config{TargetTemp: 21.0, Mode: "AUTO", EcoTemp: 19.0, Hysteresis: 0.1}
	if err := New(srv.URL, 0).ApplyConfig(context.Background(), cfg); err != nil {
		t.Fatalf("ApplyConfig() err=%v", err)
	}
	if got.TargetTemp != 21.0 || got.Mode != "AUTO" {
		t.Errorf("server received %+v", got)
	}
}

func TestCurrentConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"target_temp": 21.0, "mode": "ON", "eco_temp": 19.0,
			"hysteresis": 0.1, "min_on_time": 40, "min_off_time": 20,
			"temp_sample_count": 4, "control_interval": 60}`))
	}))
	defer srv.Close()

	cfg, err := New(srv.URL, 0).CurrentConfig(context.Background())
	if err != nil {
		t.Fatalf("CurrentConfig() err=%v", err)
	}
	if cfg.Mode != "ON" || cfg.TargetTemp != 21.0 || cfg.MinOnTime != 40 {
		t.Errorf("config = %+v", cfg)
	}
}
