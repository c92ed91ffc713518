// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all simulation tuning values.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// SIMULATION CLOCK
// =============================================================================

// SimConfig holds the fixed-timestep simulation settings.
type SimConfig struct {
	TickRate int   // Simulation ticks per second
	MaxTicks int   // Headless run budget (0 = unbounded)
	Seed     int64 // Deterministic rng seed (0 = derive from clock)
}

// DefaultSim returns the default simulation configuration.
func DefaultSim() SimConfig {
	return SimConfig{
		TickRate: 30,
		MaxTicks: 0,
		Seed:     0,
	}
}

// SimFromEnv returns simulation configuration with environment variable overrides.
func SimFromEnv() SimConfig {
	cfg := DefaultSim()

	if tr := getEnvInt("SIM_TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if mt := getEnvInt("SIM_MAX_TICKS", 0); mt > 0 {
		cfg.MaxTicks = mt
	}
	if s := getEnvInt("SIM_SEED", 0); s != 0 {
		cfg.Seed = int64(s)
	}

	return cfg
}

// =============================================================================
// RUN SCALING
// =============================================================================

// RunConfig holds the per-run difficulty inputs fed to enemy spawns.
type RunConfig struct {
	Segment        int     // Run segment index, 1-based
	DifficultyMult float64 // Global enemy health/damage multiplier
}

// DefaultRun returns the default run scaling.
func DefaultRun() RunConfig {
	return RunConfig{
		Segment:        1,
		DifficultyMult: 1.0,
	}
}

// RunFromEnv returns run scaling with environment variable overrides.
func RunFromEnv() RunConfig {
	cfg := DefaultRun()

	if s := getEnvInt("RUN_SEGMENT", 0); s > 0 {
		cfg.Segment = s
	}
	if m := getEnvFloat("RUN_DIFFICULTY_MULT", 0); m > 0 {
		cfg.DifficultyMult = m
	}

	return cfg
}

// =============================================================================
// COMBAT TUNING
// =============================================================================

// CombatConfig holds hit reaction and attack-chaining timings.
// All durations are in ticks at SimConfig.TickRate.
type CombatConfig struct {
	HitStaggerTicks  int // Short hit-stun applied on taking health damage
	IFrameTicks      int // Invulnerability window granted on taking a hit
	ChainWindowTicks int // Trailing window of Recovery that accepts a combo input
	KnockbackMax     float64 // Velocity cap for computed knockback requests

	PlayerHealth float64 // Player health baseline
	PlayerStance float64 // Player guard meter baseline
}

// DefaultCombat returns the default combat configuration (30 TPS baseline).
func DefaultCombat() CombatConfig {
	return CombatConfig{
		HitStaggerTicks:  6,  // 0.2s
		IFrameTicks:      15, // 0.5s
		ChainWindowTicks: 8,
		KnockbackMax:     800,
		PlayerHealth:     100,
		PlayerStance:     28,
	}
}

// CombatFromEnv returns combat configuration with environment variable overrides.
func CombatFromEnv() CombatConfig {
	cfg := DefaultCombat()

	if v := getEnvInt("COMBAT_HIT_STAGGER_TICKS", 0); v > 0 {
		cfg.HitStaggerTicks = v
	}
	if v := getEnvInt("COMBAT_IFRAME_TICKS", 0); v > 0 {
		cfg.IFrameTicks = v
	}
	if v := getEnvInt("COMBAT_CHAIN_WINDOW_TICKS", 0); v > 0 {
		cfg.ChainWindowTicks = v
	}
	if v := getEnvFloat("COMBAT_PLAYER_HEALTH", 0); v > 0 {
		cfg.PlayerHealth = v
	}
	if v := getEnvFloat("COMBAT_PLAYER_STANCE", 0); v > 0 {
		cfg.PlayerStance = v
	}

	return cfg
}

// =============================================================================
// STANCE / GUARD-BREAK TUNING
// =============================================================================

// StanceConfig holds the guard-integrity meter settings.
type StanceConfig struct {
	// RegenSecondsPerLight is how many seconds of passive regeneration
	// restore one light-hit-equivalent of stance (default: 10s).
	RegenSecondsPerLight float64
	// RegenGraceTicks is how long after taking stance damage regeneration
	// stays suppressed.
	RegenGraceTicks int
	// BreakStaggerTicks is the vulnerable duration forced by a guard break.
	BreakStaggerTicks int
	// BreakRefillMultiplier scales Stance.Max on refill after a break.
	// 1.0 restores the full meter.
	BreakRefillMultiplier float64
	// ParryHeavyEquivalent is how many heavy-hits worth of stance damage a
	// successful parry inflicts on the attacker. Always breaks.
	ParryHeavyEquivalent float64
	// ParryStunTicks is the stun applied to a parried attacker. Distinct
	// from ordinary stagger.
	ParryStunTicks int
	// InvulnBlocksStance controls whether invulnerability suppresses stance
	// damage in addition to health damage.
	InvulnBlocksStance bool
}

// DefaultStance returns the default stance configuration (30 TPS baseline).
func DefaultStance() StanceConfig {
	return StanceConfig{
		RegenSecondsPerLight:  10.0,
		RegenGraceTicks:       30, // 1s
		BreakStaggerTicks:     60, // 2s vulnerability window
		BreakRefillMultiplier: 1.0,
		ParryHeavyEquivalent:  8,
		ParryStunTicks:        36, // 1.2s
		InvulnBlocksStance:    true,
	}
}

// StanceFromEnv returns stance configuration with environment variable overrides.
func StanceFromEnv() StanceConfig {
	cfg := DefaultStance()

	if v := getEnvFloat("STANCE_REGEN_SECONDS_PER_LIGHT", -1); v > 0 {
		cfg.RegenSecondsPerLight = v
	}
	if v := getEnvInt("STANCE_BREAK_STAGGER_TICKS", 0); v > 0 {
		cfg.BreakStaggerTicks = v
	}
	if v := getEnvFloat("STANCE_BREAK_REFILL_MULT", -1); v >= 0 {
		cfg.BreakRefillMultiplier = v
	}
	if v := getEnvFloat("STANCE_PARRY_HEAVY_EQUIV", -1); v > 0 {
		cfg.ParryHeavyEquivalent = v
	}
	if v := getEnvInt("STANCE_PARRY_STUN_TICKS", 0); v > 0 {
		cfg.ParryStunTicks = v
	}
	if os.Getenv("STANCE_INVULN_BLOCKS_STANCE") == "false" {
		cfg.InvulnBlocksStance = false
	}

	return cfg
}

// =============================================================================
// BOSS TUNING
// =============================================================================

// BossConfig holds boss phase-transition settings.
type BossConfig struct {
	PhaseShiftInvulnTicks   int // Invulnerability during a phase transition
	PhaseShiftRecoveryTicks int // Pause before the new phase's script resumes
}

// DefaultBoss returns the default boss configuration.
func DefaultBoss() BossConfig {
	return BossConfig{
		PhaseShiftInvulnTicks:   60, // 2s
		PhaseShiftRecoveryTicks: 45, // 1.5s
	}
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls hard caps on simulation resources.
type ResourceLimits struct {
	MaxActors   int // Hard cap on live combat actors
	MaxHitboxes int // Hard cap on live hitboxes
	MaxEvents   int // Per-tick event queue cap
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxActors:   256,
		MaxHitboxes: 512,
		MaxEvents:   1024,
	}
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sim    SimConfig
	Combat CombatConfig
	Stance StanceConfig
	Boss   BossConfig
	Run    RunConfig
	Limits ResourceLimits

	ContentDir  string // Catalog directory ("" = compiled-in defaults)
	JournalPath string // Event journal output file ("" = disabled)
	MetricsAddr string // Prometheus listen address ("" = disabled)
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Sim:         SimFromEnv(),
		Combat:      CombatFromEnv(),
		Stance:      StanceFromEnv(),
		Boss:        DefaultBoss(),
		Run:         RunFromEnv(),
		Limits:      DefaultLimits(),
		ContentDir:  os.Getenv("CONTENT_DIR"),
		JournalPath: os.Getenv("JOURNAL_PATH"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
