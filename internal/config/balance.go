package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML balance files can say "5m".
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Balance holds the gameplay tuning knobs for verification and rewards.
// Defaults match the shipped balance; a YAML file can override any field.
type Balance struct {
	// Photo verification
	PhotoValidityWindow Duration `yaml:"photo_validity_window" json:"photo_validity_window"`
	ClockSkewTolerance  Duration `yaml:"clock_skew_tolerance" json:"clock_skew_tolerance"`

	// Motion heuristic
	MotionMinSamples        int     `yaml:"motion_min_samples" json:"motion_min_samples"`
	MotionVarianceThreshold float64 `yaml:"motion_variance_threshold" json:"motion_variance_threshold"`
	MotionBonusRate         float64 `yaml:"motion_bonus_rate" json:"motion_bonus_rate"`

	// Verification tier multipliers (applied to EXP)
	TierPhotoMult       float64 `yaml:"tier_photo_mult" json:"tier_photo_mult"`
	TierLocationMult    float64 `yaml:"tier_location_mult" json:"tier_location_mult"`
	TierLocationOutMult float64 `yaml:"tier_location_out_mult" json:"tier_location_out_mult"`
	TierBothMult        float64 `yaml:"tier_both_mult" json:"tier_both_mult"`
	TierBothOutMult     float64 `yaml:"tier_both_out_mult" json:"tier_both_out_mult"`

	// Bonus pipeline
	AffinityBonusRate float64 `yaml:"affinity_bonus_rate" json:"affinity_bonus_rate"`
	RoutineBonusExp   int     `yaml:"routine_bonus_exp" json:"routine_bonus_exp"`
	RoutineBonusGold  int     `yaml:"routine_bonus_gold" json:"routine_bonus_gold"`
	CoopMult          float64 `yaml:"coop_mult" json:"coop_mult"`
	CoopBondExp       int     `yaml:"coop_bond_exp" json:"coop_bond_exp"`
	StatGainPerTask   int     `yaml:"stat_gain_per_task" json:"stat_gain_per_task"`

	// Loot
	LootDropChance float64 `yaml:"loot_drop_chance" json:"loot_drop_chance"`

	// Duty board
	DutyBoardSize      int `yaml:"duty_board_size" json:"duty_board_size"`
	DutyClaimsPerDay   int `yaml:"duty_claims_per_day" json:"duty_claims_per_day"`
	DutyShufflesPerDay int `yaml:"duty_shuffles_per_day" json:"duty_shuffles_per_day"`

	// Level-ups and confirmations
	StatPointsPerLevel int `yaml:"stat_points_per_level" json:"stat_points_per_level"`
	ActivityConfirmExp int `yaml:"activity_confirm_exp" json:"activity_confirm_exp"`
}

// Default returns the shipped balance configuration.
func Default() Balance {
	return Balance{
		PhotoValidityWindow: Duration(5 * time.Minute),
		ClockSkewTolerance:  Duration(30 * time.Second),

		MotionMinSamples:        3,
		MotionVarianceThreshold: 0.15,
		MotionBonusRate:         0.05,

		TierPhotoMult:       1.5,
		TierLocationMult:    1.75,
		TierLocationOutMult: 1.25,
		TierBothMult:        2.0,
		TierBothOutMult:     1.5,

		AffinityBonusRate: 0.20,
		RoutineBonusExp:   15,
		RoutineBonusGold:  5,
		CoopMult:          1.25,
		CoopBondExp:       10,
		StatGainPerTask:   1,

		LootDropChance: 0.15,

		DutyBoardSize:      4,
		DutyClaimsPerDay:   1,
		DutyShufflesPerDay: 1,

		StatPointsPerLevel: 2,
		ActivityConfirmExp: 5,
	}
}

// Load reads balance overrides from a YAML file on top of the defaults.
func Load(path string) (Balance, error) {
	b := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return b, fmt.Errorf("read balance file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return b, fmt.Errorf("parse balance file: %w", err)
	}
	return b, nil
}

// FromEnv returns the default balance unless CQ_BALANCE points at an
// override file.
func FromEnv() (Balance, error) {
	if path := os.Getenv("CQ_BALANCE"); path != "" {
		return Load(path)
	}
	return Default(), nil
}
