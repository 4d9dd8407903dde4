// Package config provides Viper-based configuration loading for the battle engine.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/turnbattle/internal/game/combat"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// BattleConfig holds the tunable combat constants and escape odds.
type BattleConfig struct {
	MinHitRate         float64 `mapstructure:"min_hit_rate"`
	BaseHitRate        float64 `mapstructure:"base_hit_rate"`
	AccuracyFactor     float64 `mapstructure:"accuracy_factor"`
	BaseCriticalRate   float64 `mapstructure:"base_critical_rate"`
	LuckCriticalFactor float64 `mapstructure:"luck_critical_factor"`
	CriticalMultiplier float64 `mapstructure:"critical_multiplier"`
	Variance           float64 `mapstructure:"variance"`
	DefenseFactor      float64 `mapstructure:"defense_factor"`
	MinimumDamage      int     `mapstructure:"minimum_damage"`
	DefendReduction    float64 `mapstructure:"defend_reduction"`
	// EscapeBaseRate is the chance of the first escape attempt succeeding.
	EscapeBaseRate float64 `mapstructure:"escape_base_rate"`
	// EscapeIncrement is added to the chance for each earlier failed attempt.
	EscapeIncrement float64 `mapstructure:"escape_increment"`
	// MaxIdleRounds ends a battle as a stalemate after this many rounds with
	// no player turn and no change to any combatant. 0 selects the battle default.
	MaxIdleRounds int `mapstructure:"max_idle_rounds"`
}

// Balance converts the combat constants to a combat.Balance.
//
// Postcondition: every field of the result is copied from b.
func (b BattleConfig) Balance() combat.Balance {
	return combat.Balance{
		MinHitRate:         b.MinHitRate,
		BaseHitRate:        b.BaseHitRate,
		AccuracyFactor:     b.AccuracyFactor,
		BaseCriticalRate:   b.BaseCriticalRate,
		LuckCriticalFactor: b.LuckCriticalFactor,
		CriticalMultiplier: b.CriticalMultiplier,
		Variance:           b.Variance,
		DefenseFactor:      b.DefenseFactor,
		MinimumDamage:      b.MinimumDamage,
		DefendReduction:    b.DefendReduction,
	}
}

// ContentConfig names the directories content is loaded from.
// An empty directory setting skips that kind of content.
type ContentConfig struct {
	SkillsDir     string `mapstructure:"skills_dir"`
	ConditionsDir string `mapstructure:"conditions_dir"`
	NPCsDir       string `mapstructure:"npcs_dir"`
	ItemsDir      string `mapstructure:"items_dir"`
	AIDir         string `mapstructure:"ai_dir"`
	// ScriptsDir holds the global Lua scripts; each subdirectory is loaded
	// as the VM of the AI domain with the same ID.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// InstructionLimit bounds the Lua instructions of a single hook call.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Battle  BattleConfig  `mapstructure:"battle"`
	Content ContentConfig `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBattle(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Content.InstructionLimit < 1 {
		errs = append(errs, fmt.Sprintf("content.instruction_limit must be >= 1, got %d", c.Content.InstructionLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	if err := b.Balance().Validate(); err != nil {
		errs = append(errs, "battle: "+err.Error())
	}
	if b.EscapeBaseRate < 0 || b.EscapeBaseRate > 1 {
		errs = append(errs, fmt.Sprintf("battle.escape_base_rate must be in [0, 1], got %v", b.EscapeBaseRate))
	}
	if b.EscapeIncrement < 0 {
		errs = append(errs, fmt.Sprintf("battle.escape_increment must be >= 0, got %v", b.EscapeIncrement))
	}
	if b.MaxIdleRounds < 0 {
		errs = append(errs, fmt.Sprintf("battle.max_idle_rounds must be >= 0, got %d", b.MaxIdleRounds))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with BATTLE_ prefix
	v.SetEnvPrefix("BATTLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
// Unset keys take their defaults.
//
// Precondition: v must be non-nil.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration produced by the defaults alone.
//
// Postcondition: the result passes Validate.
func Default() Config {
	cfg, err := LoadFromViper(viper.New())
	if err != nil {
		panic("config: defaults are invalid: " + err.Error())
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	b := combat.DefaultBalance()
	v.SetDefault("battle.min_hit_rate", b.MinHitRate)
	v.SetDefault("battle.base_hit_rate", b.BaseHitRate)
	v.SetDefault("battle.accuracy_factor", b.AccuracyFactor)
	v.SetDefault("battle.base_critical_rate", b.BaseCriticalRate)
	v.SetDefault("battle.luck_critical_factor", b.LuckCriticalFactor)
	v.SetDefault("battle.critical_multiplier", b.CriticalMultiplier)
	v.SetDefault("battle.variance", b.Variance)
	v.SetDefault("battle.defense_factor", b.DefenseFactor)
	v.SetDefault("battle.minimum_damage", b.MinimumDamage)
	v.SetDefault("battle.defend_reduction", b.DefendReduction)
	v.SetDefault("battle.escape_base_rate", 0.5)
	v.SetDefault("battle.escape_increment", 0.1)
	v.SetDefault("battle.max_idle_rounds", 10)

	v.SetDefault("content.skills_dir", "content/skills")
	v.SetDefault("content.conditions_dir", "content/conditions")
	v.SetDefault("content.npcs_dir", "content/npcs")
	v.SetDefault("content.items_dir", "content/items")
	v.SetDefault("content.ai_dir", "content/ai")
	v.SetDefault("content.scripts_dir", "content/scripts")
	v.SetDefault("content.instruction_limit", 100_000)
}
