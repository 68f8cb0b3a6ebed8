package observ_test

import (
	"testing"

	"github.com/reelbase/reelbase/internal/observ"
	"go.uber.org/zap"
)

func TestNewLoggerBuildsForBothEnvs(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		logger, err := observ.NewLogger(env, "debug")
		if err != nil {
			t.Fatalf("NewLogger(%q) failed: %v", env, err)
		}
		logger.Sync()
	}
}

func TestNewLoggerDefaultsBadLevelToInfo(t *testing.T) {
	logger, err := observ.NewLogger("development", "chatty")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	if logger.Core().Enabled(zap.DebugLevel) {
		t.Error("expected debug to be off after level fallback")
	}
	if !logger.Core().Enabled(zap.InfoLevel) {
		t.Error("expected info to be on after level fallback")
	}
}
