package moderation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Thresholds holds per-category score cutoffs for the OpenAI Moderations
// API. A submission is rejected when any category score meets or exceeds
// its threshold. Values are in (0, 1]; lower is stricter.
//
// The defaults are deliberately looser than OpenAI's own flagging for the
// discussion categories: a university forum tolerates heated but civil
// argument, so only high-confidence scores reject.
type Thresholds struct {
	Hate                  float32 `yaml:"hate"`
	HateThreatening       float32 `yaml:"hate_threatening"`
	Harassment            float32 `yaml:"harassment"`
	HarassmentThreatening float32 `yaml:"harassment_threatening"`
	SelfHarm              float32 `yaml:"self_harm"`
	SelfHarmIntent        float32 `yaml:"self_harm_intent"`
	SelfHarmInstructions  float32 `yaml:"self_harm_instructions"`
	Sexual                float32 `yaml:"sexual"`
	SexualMinors          float32 `yaml:"sexual_minors"`
	Violence              float32 `yaml:"violence"`
	ViolenceGraphic       float32 `yaml:"violence_graphic"`
}

// DefaultThresholds returns the built-in cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Hate:                  0.75,
		HateThreatening:       0.80,
		Harassment:            0.85,
		HarassmentThreatening: 0.80,
		SelfHarm:              0.80,
		SelfHarmIntent:        0.75,
		SelfHarmInstructions:  0.70,
		Sexual:                0.90,
		SexualMinors:          0.30,
		Violence:              0.95,
		ViolenceGraphic:       0.90,
	}
}

// LoadThresholds returns the moderation thresholds, reading an override
// file when MODERATION_THRESHOLDS_FILE is set. The file is YAML with one
// key per category; omitted keys keep their defaults.
func LoadThresholds() (Thresholds, error) {
	thresholds := DefaultThresholds()

	path := os.Getenv("MODERATION_THRESHOLDS_FILE")
	if path == "" {
		return thresholds, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from deployment config
	if err != nil {
		return thresholds, fmt.Errorf("read thresholds file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &thresholds); err != nil {
		return thresholds, fmt.Errorf("parse thresholds file %s: %w", path, err)
	}

	if err := thresholds.Validate(); err != nil {
		return thresholds, fmt.Errorf("thresholds file %s: %w", path, err)
	}

	return thresholds, nil
}

// Validate checks that every threshold is in (0, 1].
func (t Thresholds) Validate() error {
	checks := []struct {
		name  string
		value float32
	}{
		{"hate", t.Hate},
		{"hate_threatening", t.HateThreatening},
		{"harassment", t.Harassment},
		{"harassment_threatening", t.HarassmentThreatening},
		{"self_harm", t.SelfHarm},
		{"self_harm_intent", t.SelfHarmIntent},
		{"self_harm_instructions", t.SelfHarmInstructions},
		{"sexual", t.Sexual},
		{"sexual_minors", t.SexualMinors},
		{"violence", t.Violence},
		{"violence_graphic", t.ViolenceGraphic},
	}

	for _, c := range checks {
		if c.value <= 0 || c.value > 1 {
			return fmt.Errorf("threshold %s must be in (0, 1], got %v", c.name, c.value)
		}
	}
	return nil
}
