package config

import (
	"testing"
)

// TestDefaults verifies the tuning baselines the rest of the simulation
// is balanced around.
func TestDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Sim.TickRate != 30 {
		t.Errorf("tick rate = %d, want 30", cfg.Sim.TickRate)
	}
	if cfg.Combat.PlayerStance != 28 {
		t.Errorf("player stance = %v, want 28", cfg.Combat.PlayerStance)
	}
	if cfg.Stance.RegenSecondsPerLight != 10.0 {
		t.Errorf("regen pace = %v, want 10s per light hit", cfg.Stance.RegenSecondsPerLight)
	}
	if cfg.Stance.ParryHeavyEquivalent != 8 {
		t.Errorf("parry magnitude = %v heavies, want 8", cfg.Stance.ParryHeavyEquivalent)
	}
	if !cfg.Stance.InvulnBlocksStance {
		t.Error("invulnerability should suppress stance damage by default")
	}
	if cfg.Stance.BreakRefillMultiplier != 1.0 {
		t.Errorf("break refill = %v, want 1.0", cfg.Stance.BreakRefillMultiplier)
	}
	if cfg.Run.DifficultyMult != 1.0 {
		t.Errorf("difficulty = %v, want 1.0", cfg.Run.DifficultyMult)
	}
}

// TestEnvOverrides verifies environment variables override defaults and
// malformed values fall back silently.
func TestEnvOverrides(t *testing.T) {
	t.Setenv("SIM_TICK_RATE", "60")
	t.Setenv("SIM_MAX_TICKS", "9000")
	t.Setenv("STANCE_BREAK_REFILL_MULT", "0.5")
	t.Setenv("RUN_DIFFICULTY_MULT", "2.5")
	t.Setenv("COMBAT_PLAYER_HEALTH", "not-a-number")

	cfg := Load()

	if cfg.Sim.TickRate != 60 {
		t.Errorf("tick rate = %d, want 60", cfg.Sim.TickRate)
	}
	if cfg.Sim.MaxTicks != 9000 {
		t.Errorf("max ticks = %d, want 9000", cfg.Sim.MaxTicks)
	}
	if cfg.Stance.BreakRefillMultiplier != 0.5 {
		t.Errorf("refill mult = %v, want 0.5", cfg.Stance.BreakRefillMultiplier)
	}
	if cfg.Run.DifficultyMult != 2.5 {
		t.Errorf("difficulty = %v, want 2.5", cfg.Run.DifficultyMult)
	}
	if cfg.Combat.PlayerHealth != 100 {
		t.Errorf("malformed env leaked through: %v", cfg.Combat.PlayerHealth)
	}
}

// TestInvulnStancePolicyToggle verifies the policy flag only flips on the
// exact string "false".
func TestInvulnStancePolicyToggle(t *testing.T) {
	t.Setenv("STANCE_INVULN_BLOCKS_STANCE", "false")
	if Load().Stance.InvulnBlocksStance {
		t.Error("policy flag did not flip off")
	}

	t.Setenv("STANCE_INVULN_BLOCKS_STANCE", "no")
	if !Load().Stance.InvulnBlocksStance {
		t.Error("non-false value flipped the policy off")
	}
}
