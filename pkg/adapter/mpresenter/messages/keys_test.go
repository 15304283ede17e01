// 指示: miu200521358
package messages

import (
	"strings"
	"testing"
)

func TestBakeKeysAreDefined(t *testing.T) {
	keys := []string{
		HelpUsage,
		LabelProfile,
		LabelClip,
		LabelOutput,
		MessageConfigFailed,
		MessageProfileRequired,
		MessageProfileExtNeeded,
		MessageTooManyArgs,
		MessageBakeFailed,
		LogBakeStart,
		LogProfileLoaded,
		LogClipLoaded,
		LogSessionInitialized,
		LogFrameBaked,
		LogBakeSuccess,
		LogInvalidFeature,
		LogDiagnosticWarning,
	}

	seen := map[string]struct{}{}
	for _, key := range keys {
		if key == "" {
			t.Fatalf("key should not be empty")
		}
		if _, exists := seen[key]; exists {
			t.Fatalf("key should be unique: %s", key)
		}
		seen[key] = struct{}{}
	}
}

func TestLogKeysCarryPrefix(t *testing.T) {
	keys := []string{LogBakeStart, LogProfileLoaded, LogFrameBaked, LogBakeSuccess}
	for _, key := range keys {
		if !strings.HasPrefix(key, "[mu_retarget] ") {
			t.Fatalf("prefix mismatch: got=%s", key)
		}
	}
}
