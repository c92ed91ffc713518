// Package content holds the read-only combat catalogs: movesets, weapons,
// enemy baselines, and boss phase scripts. Catalogs are loaded and validated
// before any actor spawns; simulation code only ever reads them.
package content

// StrikeKind identifies one of the three strike slots of a moveset.
type StrikeKind string

const (
	StrikeLight   StrikeKind = "light"
	StrikeHeavy   StrikeKind = "heavy"
	StrikeSpecial StrikeKind = "special"
)

// Tier classifies an enemy and determines its stat scaling.
type Tier string

const (
	TierMinor   Tier = "minor"
	TierMajor   Tier = "major"
	TierSpecial Tier = "special"
	TierBoss    Tier = "boss"
)

// Multipliers returns the (health, damage, speed) stat multipliers for a
// tier. Unknown tiers scale like Minor.
func (t Tier) Multipliers() (health, damage, speed float64) {
	switch t {
	case TierMajor:
		return 2.5, 1.5, 1.1
	case TierSpecial:
		return 4.0, 2.0, 1.2
	case TierBoss:
		return 10.0, 2.5, 0.9
	default:
		return 1.0, 1.0, 1.0
	}
}

// HitboxDef describes a strike's hitbox as an axis-aligned box relative to
// the attacker, elongated in the facing direction.
type HitboxDef struct {
	OffsetX float64 `yaml:"offset_x"` // Center offset along facing
	OffsetY float64 `yaml:"offset_y"`
	Length  float64 `yaml:"length"` // Extent along facing
	Width   float64 `yaml:"width"`  // Extent perpendicular to facing
}

// StrikeDef is one strike in a combo chain: damage numbers plus the four
// phase durations in ticks.
type StrikeDef struct {
	ID            string    `yaml:"id"`
	Damage        float64   `yaml:"damage"`
	StaveDamage   float64   `yaml:"stave_damage"` // Applied to stance, not health
	Knockback     float64   `yaml:"knockback"`
	StartupTicks  int       `yaml:"startup_ticks"`
	ActiveTicks   int       `yaml:"active_ticks"`
	RecoveryTicks int       `yaml:"recovery_ticks"`
	CooldownTicks int       `yaml:"cooldown_ticks"`
	Hitbox        HitboxDef `yaml:"hitbox"`

	// Parry: if CanParry, an opposing hit landing while the strike's Active
	// phase tick is inside [ParryOpenTick, ParryCloseTick) is reclassified
	// as a parry instead of damage.
	CanParry       bool `yaml:"can_parry"`
	ParryOpenTick  int  `yaml:"parry_open_tick"`
	ParryCloseTick int  `yaml:"parry_close_tick"`
}

// MovesetDef is a weapon category's full strike table. Slice position is the
// combo tier: Light[1] is the chained follow-up to Light[0].
type MovesetDef struct {
	ID       string      `yaml:"id"`
	Category string      `yaml:"category"`
	Light    []StrikeDef `yaml:"light"`
	Heavy    []StrikeDef `yaml:"heavy"`
	Special  []StrikeDef `yaml:"special"`
}

// Strikes returns the combo chain for a strike kind.
func (m *MovesetDef) Strikes(kind StrikeKind) []StrikeDef {
	switch kind {
	case StrikeLight:
		return m.Light
	case StrikeHeavy:
		return m.Heavy
	case StrikeSpecial:
		return m.Special
	}
	return nil
}

// WeaponDef is a weapon instance: a moveset baseline plus optional
// per-strike-kind overrides and damage multipliers.
type WeaponDef struct {
	ID            string                     `yaml:"id"`
	Moveset       string                     `yaml:"moveset"`
	DamageMult    float64                    `yaml:"damage_mult"`
	KnockbackMult float64                    `yaml:"knockback_mult"`
	Overrides     map[StrikeKind][]StrikeDef `yaml:"overrides"`
}

// EnemyDef is an enemy archetype baseline. Effective stats are
// base × tier multiplier × run difficulty.
type EnemyDef struct {
	ID          string  `yaml:"id"`
	Tier        Tier    `yaml:"tier"`
	BaseHealth  float64 `yaml:"base_health"`
	BaseStance  float64 `yaml:"base_stance"`
	MoveSpeed   float64 `yaml:"move_speed"`
	AggroRange  float64 `yaml:"aggro_range"`
	AttackRange float64 `yaml:"attack_range"`
	PatrolRange float64 `yaml:"patrol_range"`
	Weapon      string  `yaml:"weapon"`
	Script      string  `yaml:"script"` // Boss tier only
}

// StepKind identifies one step of a boss attack sequence.
type StepKind string

const (
	StepTelegraph StepKind = "telegraph"
	StepStrike    StepKind = "strike"
	StepWait      StepKind = "wait"
	StepRecover   StepKind = "recover"
)

// StepDef is a single scripted step. Telegraph/wait/recover use Ticks;
// strike feeds the named strike kind into the boss's attack state machine.
type StepDef struct {
	Kind   StepKind   `yaml:"kind"`
	Ticks  int        `yaml:"ticks"`
	Strike StrikeKind `yaml:"strike"`
}

// SequenceDef is an ordered list of steps with a per-sequence cooldown.
type SequenceDef struct {
	Name          string    `yaml:"name"`
	Weight        int       `yaml:"weight"` // Weighted mode only
	CooldownTicks int       `yaml:"cooldown_ticks"`
	Steps         []StepDef `yaml:"steps"`
}

// Sequence selection modes for a boss phase.
const (
	PhaseModeOrdered  = "ordered"
	PhaseModeWeighted = "weighted"
)

/// PhaseDef is one boss phase: entry thresholds plus the attack sequences the
// phase executor interprets. The phase index is monotonic; a phase is
// entered when health fraction drops below HealthBelow or the boss has
// suffered StanceBreaks guard breaks, whichever comes first.
type PhaseDef struct {
	HealthBelow  float64       `yaml:"health_below"`
	StanceBreaks int           `yaml:"stance_breaks"`
	Mode         string        `yaml:"mode"`
	Sequences    []SequenceDef `yaml:"sequences"`
}

// BossScriptDef is a boss's full multi-phase script.
type BossScriptDef struct {
	ID     string     `yaml:"id"`
	Phases []PhaseDef `yaml:"phases"`
}

// Defaults are the gameplay baselines shared across catalogs.
type Defaults struct {
	// LightStaveDamage is the stance cost of one light hit; it anchors the
	// "one light-hit-equivalent per 10 seconds" regeneration rate.
	LightStaveDamage float64 `yaml:"light_stave_damage"`
	// HeavyStaveDamage anchors the parry break magnitude
	// (ParryHeavyEquivalent × HeavyStaveDamage).
	HeavyStaveDamage float64 `yaml:"heavy_stave_damage"`
}

// Registry is the complete validated catalog set consumed by the simulation.
type Registry struct {
	Movesets map[string]*MovesetDef      `yaml:"-"`
	Weapons  map[string]*WeaponDef       `yaml:"-"`
	Enemies  map[string]*EnemyDef        `yaml:"-"`
	Scripts  map[string]*BossScriptDef   `yaml:"-"`
	Defaults Defaults                    `yaml:"-"`
}

// ResolveStrike returns the effective strike definition for a weapon, strike
// kind, and combo tier: the moveset baseline with any per-weapon override
// layered on top and the weapon's multipliers applied. ok is false when the
// combo tier is not defined (end of chain) or the weapon is unknown.
func (r *Registry) ResolveStrike(weaponID string, kind StrikeKind, comboIndex int) (StrikeDef, bool) {
	w, ok := r.Weapons[weaponID]
	if !ok {
		return StrikeDef{}, false
	}

	chain := w.Overrides[kind]
	if chain == nil {
		ms, ok := r.Movesets[w.Moveset]
		if !ok {
			return StrikeDef{}, false
		}
		chain = ms.Strikes(kind)
	}
	if comboIndex < 0 || comboIndex >= len(chain) {
		return StrikeDef{}, false
	}

	def := chain[comboIndex]
	def.Damage *= w.DamageMult
	def.Knockback *= w.KnockbackMult
	return def, true
}

// ComboLength returns the number of combo tiers a weapon defines for a
// strike kind.
func (r *Registry) ComboLength(weaponID string, kind StrikeKind) int {
	w, ok := r.Weapons[weaponID]
	if !ok {
		return 0
	}
	if chain := w.Overrides[kind]; chain != nil {
		return len(chain)
	}
	if ms, ok := r.Movesets[w.Moveset]; ok {
		return len(ms.Strikes(kind))
	}
	return 0
}
