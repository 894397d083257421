package db

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPoolStats_JSONKeys(t *testing.T) {
	stats := PoolStats{
		TotalConns:      10,
		IdleConns:       5,
		AcquiredConns:   5,
		MaxConns:        20,
		AcquireCount:    100,
		AcquireDuration: "1.5s",
		Healthy:         true,
	}

	data, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, key := range []string{"total_conns", "idle_conns", "acquired_conns", "max_conns", "acquire_count", "acquire_duration", "healthy"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("pool stats JSON missing key %s", key)
		}
	}
	if decoded["healthy"] != true {
		t.Errorf("healthy = %v, want true", decoded["healthy"])
	}
}

func TestHealthResponse_OmitsErrorWhenHealthy(t *testing.T) {
	healthy, err := json.Marshal(healthResponse{Status: "healthy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(healthy), `"error"`) {
		t.Errorf("healthy response carries an error key: %s", healthy)
	}

	sick, err := json.Marshal(healthResponse{Status: "unhealthy", Error: "dial timeout"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(sick), `"dial timeout"`) {
		t.Errorf("unhealthy response missing the error detail: %s", sick)
	}
}
