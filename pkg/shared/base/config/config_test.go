// 指示: miu200521358
package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level mismatch: got=%s want=%s", cfg.LogLevel, "info")
	}
	if cfg.Fps != 0 {
		t.Fatalf("fps mismatch: got=%v want=%v", cfg.Fps, 0)
	}
	if cfg.MaxIterations != 25 {
		t.Fatalf("max iterations mismatch: got=%d want=%d", cfg.MaxIterations, 25)
	}
	if cfg.Tolerance != 0.001 {
		t.Fatalf("tolerance mismatch: got=%v want=%v", cfg.Tolerance, 0.001)
	}
	if !cfg.KeyframeAll {
		t.Fatalf("keyframe all should default to true")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MU_RETARGET_FPS", "60")
	t.Setenv("MU_RETARGET_ROOT_MOTION", "true")
	t.Setenv("MU_RETARGET_MAX_ITERATIONS", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Fps != 60 || !cfg.RootMotion || cfg.MaxIterations != 8 {
		t.Fatalf("env override mismatch: %+v", cfg)
	}
}

func TestLoadRejectsInvalidFps(t *testing.T) {
	t.Setenv("MU_RETARGET_FPS", "-1")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative fps")
	}
}
