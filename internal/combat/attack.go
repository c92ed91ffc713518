package combat

import (
	"ashfall/internal/content"
)

// AttackPhase is where the state machine currently sits.
type AttackPhase uint8

const (
	PhaseIdle AttackPhase = iota
	PhaseStartup
	PhaseActive
	PhaseRecovery
	PhaseCooldown
)

// String returns a human-readable phase name
func (p AttackPhase) String() string {
	switch p {
	case PhaseStartup:
		return "startup"
	case PhaseActive:
		return "active"
	case PhaseRecovery:
		return "recovery"
	case PhaseCooldown:
		return "cooldown"
	default:
		return "idle"
	}
}

// AttackState is one actor's attack machine. Exactly one strike can be in
// flight at a time; chaining replaces the cooldown with the next combo tier.
type AttackState struct {
	Kind       content.StrikeKind
	Phase      AttackPhase
	ComboIndex int

	ticksLeft int
	strike    content.StrikeDef
	hitboxID  uint64
	queued    bool
	cooldowns map[content.StrikeKind]int
}

// Strike returns the resolved definition of the strike in flight.
func (st *AttackState) Strike() content.StrikeDef {
	return st.strike
}

// Idle reports whether no strike is in flight and no cooldown phase runs.
func (st *AttackState) Idle() bool {
	return st.Phase == PhaseIdle
}

// CooldownReady reports whether a strike kind is off cooldown.
func (st *AttackState) CooldownReady(kind content.StrikeKind) bool {
	return st.cooldowns[kind] == 0
}

func (st *AttackState) tickCooldowns() {
	for k, v := range st.cooldowns {
		if v > 0 {
			st.cooldowns[k] = v - 1
		}
	}
}

func (st *AttackState) setCooldown(kind content.StrikeKind, ticks int) {
	if st.cooldowns == nil {
		st.cooldowns = make(map[content.StrikeKind]int, 3)
	}
	st.cooldowns[kind] = ticks
}

// activeTick is the tick index inside the Active phase, 0 on the spawn tick.
func (st *AttackState) activeTick() int {
	return st.strike.ActiveTicks - st.ticksLeft
}

// InParryWindow reports whether an incoming hit this tick should be
// reclassified as a parry. Only a sub-interval of Active on a parry-capable
// strike qualifies.
func (st *AttackState) InParryWindow() bool {
	if st.Phase != PhaseActive || !st.strike.CanParry {
		return false
	}
	t := st.activeTick()
	return t >= st.strike.ParryOpenTick && t < st.strike.ParryCloseTick
}

// TryStrike queues or starts a strike for the actor. Returns false when the
// actor cannot act, the kind is on cooldown, or the machine is in a phase
// that accepts no input. During Recovery a matching input inside the chain
// window buffers the next combo tier instead.
func (e *Engine) tryStrike(a *Actor, kind content.StrikeKind) bool {
	if !a.Acting() {
		return false
	}
	st := &a.Attack
	switch st.Phase {
	case PhaseIdle, PhaseCooldown:
		if st.cooldowns[kind] > 0 {
			return false
		}
		return e.startStrike(a, kind, 0)
	case PhaseRecovery:
		if kind != st.Kind || st.queued {
			return false
		}
		if st.ticksLeft > e.cfg.Combat.ChainWindowTicks {
			return false
		}
		if st.ComboIndex+1 >= e.registry.ComboLength(a.WeaponID, kind) {
			return false
		}
		st.queued = true
		return true
	default:
		return false
	}
}

func (e *Engine) startStrike(a *Actor, kind content.StrikeKind, comboIndex int) bool {
	def, ok := e.registry.ResolveStrike(a.WeaponID, kind, comboIndex)
	if !ok {
		return false
	}
	st := &a.Attack
	st.Kind = kind
	st.ComboIndex = comboIndex
	st.strike = def
	st.queued = false
	st.Phase = PhaseStartup
	st.ticksLeft = def.StartupTicks
	e.advancePhases(a)
	return true
}

// advanceAttack moves one actor's machine forward a tick.
func (e *Engine) advanceAttack(a *Actor) {
	st := &a.Attack
	st.tickCooldowns()
	if st.Phase == PhaseIdle {
		return
	}
	if st.ticksLeft > 0 {
		st.ticksLeft--
	}
	e.advancePhases(a)
}

// advancePhases drains zero-length phase boundaries so a strike with no
// startup goes active on the same tick it was started.
func (e *Engine) advancePhases(a *Actor) {
	st := &a.Attack
	for st.Phase != PhaseIdle && st.ticksLeft == 0 {
		switch st.Phase {
		case PhaseStartup:
			st.Phase = PhaseActive
			st.ticksLeft = st.strike.ActiveTicks
			st.hitboxID = e.spawnHitbox(a, st.strike)
		case PhaseActive:
			e.despawnHitbox(st.hitboxID)
			st.hitboxID = 0
			st.Phase = PhaseRecovery
			st.ticksLeft = st.strike.RecoveryTicks
		case PhaseRecovery:
			if st.queued {
				next := st.ComboIndex + 1
				kind := st.Kind
				if e.startStrike(a, kind, next) {
					return
				}
			}
			st.setCooldown(st.Kind, st.strike.CooldownTicks)
			st.Phase = PhaseCooldown
			st.ticksLeft = st.strike.CooldownTicks
		case PhaseCooldown:
			st.Phase = PhaseIdle
			st.Kind = ""
			st.ComboIndex = 0
		}
	}
}

// interruptAttack hard-stops whatever is in flight: the hitbox dies with
// the attack and the combo resets. Cooldowns already banked stay.
func (e *Engine) interruptAttack(a *Actor) {
	st := &a.Attack
	if st.hitboxID != 0 {
		e.despawnHitbox(st.hitboxID)
		st.hitboxID = 0
	}
	st.Phase = PhaseIdle
	st.Kind = ""
	st.ComboIndex = 0
	st.ticksLeft = 0
	st.queued = false
}
