package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.FaceMaxDistance != 1.0 {
		t.Errorf("expected default max distance 1.0, got %v", cfg.FaceMaxDistance)
	}
	if cfg.FaceMatchThreshold != 0.8 {
		t.Errorf("expected default threshold 0.8, got %v", cfg.FaceMatchThreshold)
	}
	if cfg.EarlyAllowance != 15*time.Minute {
		t.Errorf("expected 15m early allowance, got %v", cfg.EarlyAllowance)
	}
	if cfg.LocationDefaultRadiusM != 50 {
		t.Errorf("expected 50m default radius, got %v", cfg.LocationDefaultRadiusM)
	}
	if cfg.LocationRequireEvidence {
		t.Error("evidence requirement should default off")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("FACE_MAX_DISTANCE", "0.6")
	t.Setenv("CHECKIN_EARLY_ALLOWANCE", "10m")
	t.Setenv("LOCATION_REQUIRE_EVIDENCE", "true")
	t.Setenv("RATE_LIMIT_PER_MIN", "30")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()
	if cfg.FaceMaxDistance != 0.6 {
		t.Errorf("expected 0.6, got %v", cfg.FaceMaxDistance)
	}
	if cfg.EarlyAllowance != 10*time.Minute {
		t.Errorf("expected 10m, got %v", cfg.EarlyAllowance)
	}
	if !cfg.LocationRequireEvidence {
		t.Error("expected evidence requirement on")
	}
	if cfg.RateLimitPerMin != 30 {
		t.Errorf("expected 30, got %d", cfg.RateLimitPerMin)
	}
	if len(cfg.CORSAllowOrigins) != 2 || cfg.CORSAllowOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.CORSAllowOrigins)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("ACCESS_TTL", "not-a-duration")
	t.Setenv("FACE_MATCH_THRESHOLD", "high")
	cfg := Load()
	if cfg.AccessTTL != 15*time.Minute {
		t.Errorf("expected fallback 15m, got %v", cfg.AccessTTL)
	}
	if cfg.FaceMatchThreshold != 0.8 {
		t.Errorf("expected fallback 0.8, got %v", cfg.FaceMatchThreshold)
	}
}
