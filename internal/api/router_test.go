package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fightclub-sim/wolfden/internal/coordinator"
	"github.com/fightclub-sim/wolfden/internal/progression"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	coord := coordinator.New(coordinator.DefaultResourceLimits())
	prog := progression.New()
	return NewRouter(RouterConfig{
		Coordinator: coord,
		Progression: prog,
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
		},
		DisableLogging: true,
	})
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	return resp
}

func TestLifecycleUpdateAdvancesTime(t *testing.T) {
	ts := httptest.NewServer(newTestRouter(t))
	defer ts.Close()

	postJSON(t, ts, "/lifecycle/initialize", map[string]interface{}{"seed": 1, "startWeapon": 0}).Body.Close()
	postJSON(t, ts, "/lifecycle/update", map[string]interface{}{"deltaSeconds": 0.1}).Body.Close()

	resp, err := http.Get(ts.URL + "/query/time")
	if err != nil {
		t.Fatalf("get time: %v", err)
	}
	defer resp.Body.Close()

	var got struct {
		GameTime  float64 `json:"gameTime"`
		TickCount int64   `json:"tickCount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.TickCount != 1 {
		t.Errorf("expected tick count 1, got %d", got.TickCount)
	}
	if got.GameTime <= 0 {
		t.Errorf("expected game time to advance, got %v", got.GameTime)
	}
}

func TestSpawnAndQueryWolf(t *testing.T) {
	ts := httptest.NewServer(newTestRouter(t))
	defer ts.Close()

	resp := postJSON(t, ts, "/commands/spawn_wolf", map[string]interface{}{"x": 5, "y": 5, "type": 0})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	queryResp, err := http.Get(ts.URL + "/query/wolf?index=0")
	if err != nil {
		t.Fatalf("query wolf: %v", err)
	}
	defer queryResp.Body.Close()
	if queryResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", queryResp.StatusCode)
	}

	var got wolfPayload
	if err := json.NewDecoder(queryResp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Position.X != 5 || got.Position.Z != 5 {
		t.Errorf("expected spawn position (5,5), got (%v,%v)", got.Position.X, got.Position.Z)
	}
}

func TestQueryWolfOutOfRangeReturnsNotFound(t *testing.T) {
	ts := httptest.NewServer(newTestRouter(t))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/query/wolf?index=0")
	if err != nil {
		t.Fatalf("query wolf: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for an empty roster, got %d", resp.StatusCode)
	}
}

func TestProgressionPurchaseFlow(t *testing.T) {
	ts := httptest.NewServer(newTestRouter(t))
	defer ts.Close()

	defs := map[string]progressionDefinitionPayload{
		"vigor": {
			CostPerLevel:   []int32{10},
			EffectPerLevel: []float64{0.1},
		},
	}
	postJSON(t, ts, "/progression/set_tree", defs).Body.Close()
	postJSON(t, ts, "/progression/add_essence", map[string]int32{"amount": 10}).Body.Close()

	resp := postJSON(t, ts, "/progression/purchase", map[string]string{"nodeId": "vigor"})
	defer resp.Body.Close()
	var purchaseResult struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&purchaseResult); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !purchaseResult.Success {
		t.Fatalf("expected purchase to succeed")
	}

	scalarResp, err := http.Get(ts.URL + "/progression/effect_scalar?nodeId=vigor")
	if err != nil {
		t.Fatalf("get effect scalar: %v", err)
	}
	defer scalarResp.Body.Close()
	var scalar struct {
		EffectScalar float64 `json:"effectScalar"`
	}
	if err := json.NewDecoder(scalarResp.Body).Decode(&scalar); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if scalar.EffectScalar < 0.099 || scalar.EffectScalar > 0.101 {
		t.Errorf("expected effect scalar ~0.1, got %v", scalar.EffectScalar)
	}
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	coord := coordinator.New(coordinator.DefaultResourceLimits())
	prog := progression.New()
	router := NewRouter(RouterConfig{
		Coordinator: coord,
		Progression: prog,
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             1,
		},
		DisableLogging: true,
	})
	ts := httptest.NewServer(router)
	defer ts.Close()

	first, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	first.Body.Close()

	second, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	defer second.Body.Close()
	if second.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected the burst to be rejected, got %d", second.StatusCode)
	}
}
