package combat

import (
	"github.com/jakecoffman/cp"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick
	EventTypeSpawn
	EventTypeDamage
	EventTypeParry
	EventTypeStanceBreak
	EventTypeDeath
	EventTypeBossPhase
)

// String returns a human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeSpawn:
		return "spawn"
	case EventTypeDamage:
		return "damage"
	case EventTypeParry:
		return "parry"
	case EventTypeStanceBreak:
		return "stance_break"
	case EventTypeDeath:
		return "death"
	case EventTypeBossPhase:
		return "boss_phase"
	default:
		return "unknown"
	}
}

// DamageEvent reports a hit that connected. Damage may be zero when the
// target was invulnerable but stance damage still applied (policy flag).
type DamageEvent struct {
	Tick      uint64    `json:"tick"`
	SourceID  ActorID   `json:"sourceId"`
	TargetID  ActorID   `json:"targetId"`
	HitboxID  uint64    `json:"hitboxId"`
	Damage    float64   `json:"damage"`
	Stave     float64   `json:"stave"`
	Knockback cp.Vector `json:"knockback"`
}

// ParryEvent reports a hit that landed inside the defender's parry window.
// The roles invert: the attacker eats the guard break.
type ParryEvent struct {
	Tick       uint64  `json:"tick"`
	AttackerID ActorID `json:"attackerId"`
	DefenderID ActorID `json:"defenderId"`
}

// StanceBreakEvent reports a guard meter hitting zero.
type StanceBreakEvent struct {
	Tick      uint64  `json:"tick"`
	ActorID   ActorID `json:"actorId"`
	BreakerID ActorID `json:"breakerId"`
}

// DeathEvent is the terminal event for an actor; it fires exactly once and
// the actor is removed from simulation afterwards.
type DeathEvent struct {
	Tick     uint64  `json:"tick"`
	ActorID  ActorID `json:"actorId"`
	KillerID ActorID `json:"killerId"`
	Team     Team    `json:"team"`
	Tier     string  `json:"tier"`
}

// BossPhaseEvent reports a boss advancing to a new (monotonic) phase index.
type BossPhaseEvent struct {
	Tick    uint64  `json:"tick"`
	ActorID ActorID `json:"actorId"`
	Phase   int     `json:"phase"`
}

// SpawnEvent reports an actor entering the simulation.
type SpawnEvent struct {
	Tick    uint64  `json:"tick"`
	ActorID ActorID `json:"actorId"`
	Team    Team    `json:"team"`
	Tier    string  `json:"tier"`
	DefID   string  `json:"defId"`
}

// KnockbackRequest is a velocity request computed by the resolver and
// handed to the physics collaborator; this core never integrates it.
type KnockbackRequest struct {
	ActorID  ActorID
	Velocity cp.Vector
}

// MoveRequest is a movement target produced by the AI layer, applied by the
// movement collaborator.
type MoveRequest struct {
	ActorID ActorID
	Target  cp.Vector
	Speed   float64
}

// Bus fans combat events out to subscribers. Subscribing happens before the
// simulation starts; publishing happens inside the tick, so handlers must
// not call back into the engine. The bus is what keeps AI, rewards, and UI
// concerns decoupled from combat state.
type Bus struct {
	damage      []func(DamageEvent)
	parry       []func(ParryEvent)
	stanceBreak []func(StanceBreakEvent)
	death       []func(DeathEvent)
	bossPhase   []func(BossPhaseEvent)
	spawn       []func(SpawnEvent)
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// OnDamage subscribes to damage events.
func (b *Bus) OnDamage(fn func(DamageEvent)) { b.damage = append(b.damage, fn) }

// OnParry subscribes to parry events.
func (b *Bus) OnParry(fn func(ParryEvent)) { b.parry = append(b.parry, fn) }

// OnStanceBreak subscribes to guard-break events.
func (b *Bus) OnStanceBreak(fn func(StanceBreakEvent)) {
	b.stanceBreak = append(b.stanceBreak, fn)
}

// OnDeath subscribes to death events.
func (b *Bus) OnDeath(fn func(DeathEvent)) { b.death = append(b.death, fn) }

// OnBossPhase subscribes to boss phase-change events.
func (b *Bus) OnBossPhase(fn func(BossPhaseEvent)) {
	b.bossPhase = append(b.bossPhase, fn)
}

// OnSpawn subscribes to spawn events.
func (b *Bus) OnSpawn(fn func(SpawnEvent)) { b.spawn = append(b.spawn, fn) }

func (b *Bus) publishDamage(ev DamageEvent) {
	for _, fn := range b.damage {
		fn(ev)
	}
}

func (b *Bus) publishParry(ev ParryEvent) {
	for _, fn := range b.parry {
		fn(ev)
	}
}

func (b *Bus) publishStanceBreak(ev StanceBreakEvent) {
	for _, fn := range b.stanceBreak {
		fn(ev)
	}
}

func (b *Bus) publishDeath(ev DeathEvent) {
	for _, fn := range b.death {
		fn(ev)
	}
}

func (b *Bus) publishBossPhase(ev BossPhaseEvent) {
	for _, fn := range b.bossPhase {
		fn(ev)
	}
}

func (b *Bus) publishSpawn(ev SpawnEvent) {
	for _, fn := range b.spawn {
		fn(ev)
	}
}
