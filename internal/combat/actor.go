package combat

import (
	"github.com/jakecoffman/cp"

	"ashfall/internal/content"
)

// ActorID identifies a combatant for the lifetime of an engine.
type ActorID uint64

// Team determines hit eligibility: a hitbox never touches its own team.
type Team uint8

const (
	TeamPlayer Team = iota
	TeamEnemy
)

// String returns a human-readable team name
func (t Team) String() string {
	if t == TeamPlayer {
		return "player"
	}
	return "enemy"
}

// RunContext carries the per-run scaling inputs. It is passed explicitly at
// spawn time; nothing in the package reads run state from a global.
type RunContext struct {
	Segment        int
	DifficultyMult float64
}

// Multiplier flattens the run context into a single scaling factor.
func (rc RunContext) Multiplier() float64 {
	if rc.DifficultyMult <= 0 {
		return 1.0
	}
	return rc.DifficultyMult
}

// Health is a clamped meter. Current never leaves [0, Max].
type Health struct {
	Current float64
	Max     float64
}

// Damage subtracts amount and reports whether the meter just reached zero.
// A meter already at zero reports false, so death triggers exactly once.
func (h *Health) Damage(amount float64) bool {
	if h.Current <= 0 {
		return false
	}
	h.Current -= amount
	if h.Current <= 0 {
		h.Current = 0
		return true
	}
	return false
}

// Heal adds amount, clamped to Max.
func (h *Health) Heal(amount float64) {
	h.Current += amount
	if h.Current > h.Max {
		h.Current = h.Max
	}
}

// Fraction returns current health as a 0..1 fraction.
func (h *Health) Fraction() float64 {
	if h.Max <= 0 {
		return 0
	}
	return h.Current / h.Max
}

// Dead reports whether the meter is empty.
func (h *Health) Dead() bool {
	return h.Current <= 0
}

// Actor is a single combatant. All mutation happens inside the engine tick;
// readers outside the tick go through snapshots.
type Actor struct {
	ID    ActorID
	Name  string
	Team  Team
	Tier  content.Tier
	DefID string

	Position cp.Vector
	Facing   float64 // +1 right, -1 left
	Hurtbox  cp.BB   // local space, centered on Position

	Health Health
	Stance Stance
	Attack AttackState

	WeaponID   string
	MoveSpeed  float64
	DamageMult float64 // tier and difficulty, folded in at spawn

	// timers, in ticks
	StaggerTicks int // hit-stun or break-stagger; blocks all actions
	StunTicks    int // parry-stun; blocks all actions, distinct cause
	InvulnTicks  int // suppresses health damage

	AI   *EnemyAI
	Boss *BossAI
}

// Acting reports whether the actor can start or continue voluntary actions.
func (a *Actor) Acting() bool {
	return a.StaggerTicks == 0 && a.StunTicks == 0 && !a.Health.Dead()
}

// HurtboxWorld returns the hurtbox translated to world space.
func (a *Actor) HurtboxWorld() cp.BB {
	return cp.BB{
		L: a.Hurtbox.L + a.Position.X,
		B: a.Hurtbox.B + a.Position.Y,
		R: a.Hurtbox.R + a.Position.X,
		T: a.Hurtbox.T + a.Position.Y,
	}
}

// defaultHurtbox is a humanoid-ish box; content may grow it by tier later.
func defaultHurtbox(tier content.Tier) cp.BB {
	half := 14.0
	tall := 24.0
	if tier == content.TierBoss {
		half = 22.0
		tall = 38.0
	}
	return cp.BB{L: -half, B: -tall, R: half, T: tall}
}
