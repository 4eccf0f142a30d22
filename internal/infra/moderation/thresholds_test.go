package moderation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultThresholds_Valid(t *testing.T) {
	if err := DefaultThresholds().Validate(); err != nil {
		t.Errorf("DefaultThresholds() should validate, got error: %v", err)
	}
}

func TestLoadThresholds_NoFile(t *testing.T) {
	t.Setenv("MODERATION_THRESHOLDS_FILE", "")

	got, err := LoadThresholds()
	if err != nil {
		t.Fatalf("LoadThresholds() error: %v", err)
	}
	if got != DefaultThresholds() {
		t.Errorf("LoadThresholds() without file = %+v, want defaults", got)
	}
}

func TestLoadThresholds_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	content := "harassment: 0.5\nviolence: 0.6\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	t.Setenv("MODERATION_THRESHOLDS_FILE", path)

	got, err := LoadThresholds()
	if err != nil {
		t.Fatalf("LoadThresholds() error: %v", err)
	}

	if got.Harassment != 0.5 {
		t.Errorf("Harassment = %v, want 0.5", got.Harassment)
	}
	if got.Violence != 0.6 {
		t.Errorf("Violence = %v, want 0.6", got.Violence)
	}

	// Omitted keys keep their defaults.
	defaults := DefaultThresholds()
	if got.Hate != defaults.Hate {
		t.Errorf("Hate = %v, want default %v", got.Hate, defaults.Hate)
	}
	if got.SexualMinors != defaults.SexualMinors {
		t.Errorf("SexualMinors = %v, want default %v", got.SexualMinors, defaults.SexualMinors)
	}
}

func TestLoadThresholds_MissingFile(t *testing.T) {
	t.Setenv("MODERATION_THRESHOLDS_FILE", "/nonexistent/thresholds.yaml")

	if _, err := LoadThresholds(); err == nil {
		t.Error("Expected error for missing thresholds file, got nil")
	}
}

func TestLoadThresholds_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	if err := os.WriteFile(path, []byte("harassment: [broken"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	t.Setenv("MODERATION_THRESHOLDS_FILE", path)

	if _, err := LoadThresholds(); err == nil {
		t.Error("Expected error for malformed YAML, got nil")
	}
}

func TestLoadThresholds_OutOfRangeValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	if err := os.WriteFile(path, []byte("hate: 1.5\n"), 0o600); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	t.Setenv("MODERATION_THRESHOLDS_FILE", path)

	_, err := LoadThresholds()
	if err == nil {
		t.Fatal("Expected error for out-of-range threshold, got nil")
	}
	if !strings.Contains(err.Error(), "hate") {
		t.Errorf("Error should name the offending category, got: %v", err)
	}
}

func TestThresholds_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Thresholds)
		wantErr bool
	}{
		{"defaults", func(*Thresholds) {}, false},
		{"zero threshold", func(th *Thresholds) { th.Violence = 0 }, true},
		{"negative threshold", func(th *Thresholds) { th.Sexual = -0.1 }, true},
		{"above one", func(th *Thresholds) { th.Harassment = 1.01 }, true},
		{"exactly one is allowed", func(th *Thresholds) { th.Violence = 1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := DefaultThresholds()
			tt.mutate(&th)

			err := th.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
