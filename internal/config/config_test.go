package config

import "testing"

func TestDefaultTickIs60Hz(t *testing.T) {
	cfg := DefaultTick()
	if cfg.RateHz != 60 {
		t.Errorf("expected default tick rate 60, got %d", cfg.RateHz)
	}
	if got, want := cfg.DeltaSeconds(), 1.0/60.0; got != want {
		t.Errorf("expected delta seconds %v, got %v", want, got)
	}
}

func TestZeroRateYieldsZeroDelta(t *testing.T) {
	cfg := TickConfig{RateHz: 0}
	if got := cfg.DeltaSeconds(); got != 0 {
		t.Errorf("expected zero delta for a zero rate, got %v", got)
	}
}

func TestTickFromEnvOverridesRate(t *testing.T) {
	t.Setenv("WOLFDEN_TICK_RATE", "120")
	cfg := TickFromEnv()
	if cfg.RateHz != 120 {
		t.Errorf("expected overridden tick rate 120, got %d", cfg.RateHz)
	}
}

func TestLimitsFromEnvOverridesIndividualFields(t *testing.T) {
	t.Setenv("WOLFDEN_MAX_WOLVES", "8")
	limits := LimitsFromEnv()
	if limits.MaxWolves != 8 {
		t.Errorf("expected overridden max wolves 8, got %d", limits.MaxWolves)
	}
	if limits.MaxPacks != DefaultLimits().MaxPacks {
		t.Errorf("expected untouched fields to keep their defaults")
	}
}

func TestRateLimitFromEnvOverridesBurst(t *testing.T) {
	t.Setenv("WOLFDEN_RATE_LIMIT_BURST", "50")
	cfg := RateLimitFromEnv()
	if cfg.Burst != 50 {
		t.Errorf("expected overridden burst 50, got %d", cfg.Burst)
	}
	if cfg.RequestsPerSecond != DefaultRateLimit().RequestsPerSecond {
		t.Errorf("expected untouched fields to keep their defaults")
	}
}

func TestServerFromEnvReadsPort(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg := ServerFromEnv()
	if cfg.Port != 9090 {
		t.Errorf("expected overridden port 9090, got %d", cfg.Port)
	}
}

func TestLoadComposesAllSections(t *testing.T) {
	app := Load()
	if app.Tick.RateHz == 0 {
		t.Errorf("expected a non-zero default tick rate")
	}
	if app.Server.Port == 0 {
		t.Errorf("expected a non-zero default server port")
	}
}
