package advisory

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Config holds the rule thresholds for the advisory engine. Values live in a
// TOML file so agronomists can tune them without a rebuild; DefaultConfig is
// used when no file is deployed.
type Config struct {
	Thresholds  ThresholdConfig  `toml:"thresholds"`
	Pollination PollinationConfig `toml:"pollination"`
	Risk        RiskConfig       `toml:"risk"`
	Retrieval   RetrievalConfig  `toml:"retrieval"`
}

// ThresholdConfig holds the rule trigger levels.
type ThresholdConfig struct {
	WaterStress   float64 `toml:"water_stress"`   // water component above this fires the irrigation rule
	YieldMargin   float64 `toml:"yield_margin"`   // relative shortfall vs baseline that fires the yield rule
	HeatComponent float64 `toml:"heat_component"` // heat component at or above this is "high"
	LSTCritical   float64 `toml:"lst_critical"`   // °C; mean LST above this is critical during pollination
}

// PollinationConfig bounds the pollination window in weeks of season.
type PollinationConfig struct {
	StartWeek int `toml:"start_week"`
	EndWeek   int `toml:"end_week"`
}

// RiskConfig maps forecast uncertainty to risk level bumps.
type RiskConfig struct {
	ModerateUncertainty float64 `toml:"moderate_uncertainty"` // bu/acre
	HighUncertainty     float64 `toml:"high_uncertainty"`     // bu/acre
}

// RetrievalConfig bounds knowledge snippet inclusion in the context.
type RetrievalConfig struct {
	MaxSnippets  int `toml:"max_snippets"`
	SnippetChars int `toml:"snippet_chars"`
}

// DefaultConfig returns the shipped rule thresholds.
func DefaultConfig() Config {
	return Config{
		Thresholds: ThresholdConfig{
			WaterStress:   40.0,
			YieldMargin:   0.02,
			HeatComponent: 70.0,
			LSTCritical:   35.0,
		},
		Pollination: PollinationConfig{
			StartWeek: 27,
			EndWeek:   31,
		},
		Risk: RiskConfig{
			ModerateUncertainty: 5.0,
			HighUncertainty:     15.0,
		},
		Retrieval: RetrievalConfig{
			MaxSnippets:  3,
			SnippetChars: 500,
		},
	}
}

// InPollinationWindow reports whether a week falls inside the configured
// pollination window.
func (c *Config) InPollinationWindow(week int) bool {
	return week >= c.Pollination.StartWeek && week <= c.Pollination.EndWeek
}

// LoadConfig loads advisory thresholds from a TOML file, falling back to the
// defaults when the file does not exist.
func LoadConfig(path string, log zerolog.Logger) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Warn().Str("path", path).Msg("Advisory config not found, using defaults")
		return DefaultConfig(), nil
	}

	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse advisory config: %w", err)
	}

	log.Info().
		Str("path", path).
		Float64("water_threshold", cfg.Thresholds.WaterStress).
		Int("pollination_start", cfg.Pollination.StartWeek).
		Int("pollination_end", cfg.Pollination.EndWeek).
		Msg("Advisory configuration loaded")

	return cfg, nil
}
