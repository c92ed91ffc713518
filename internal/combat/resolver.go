package combat

import (
	"github.com/jakecoffman/cp"

	"ashfall/internal/observability"
)

// hitOutcome is one classified contact, collected before any state changes.
// Collecting everything first means two actors trading on the same tick
// both land; the stagger only bites from the next tick onward.
type hitOutcome struct {
	parry      bool
	hitboxID   uint64
	attackerID ActorID
	targetID   ActorID
	damage     float64
	stave      float64
	knockback  cp.Vector
	suppressed bool // invulnerable target, health damage withheld
}

// resolveCollisions walks hitboxes in creation order and targets in spawn
// order, classifying each fresh overlap. Friendly fire is excluded by team,
// and each hitbox activation touches a target at most once.
func (e *Engine) resolveCollisions() []hitOutcome {
	var outcomes []hitOutcome
	for _, hb := range e.hitboxes {
		if len(outcomes) >= e.cfg.Limits.MaxEvents {
			e.diag.eventOverflow.Add(1)
			observability.CountInvariantViolation("event_cap")
			break
		}
		for _, id := range e.order {
			target := e.actors[id]
			if target == nil || target.Team == hb.Team || target.Health.Dead() {
				continue
			}
			if hb.AlreadyHit(target.ID) {
				continue
			}
			if !hb.Box.Intersects(target.HurtboxWorld()) {
				continue
			}
			if target.Attack.InParryWindow() {
				hb.markHit(target.ID)
				outcomes = append(outcomes, hitOutcome{
					parry:      true,
					hitboxID:   hb.ID,
					attackerID: hb.OwnerID,
					targetID:   target.ID,
				})
				continue
			}
			suppressed := target.InvulnTicks > 0
			if suppressed && e.cfg.Stance.InvulnBlocksStance {
				// nothing lands at all; the overlap may connect later
				continue
			}
			hb.markHit(target.ID)
			outcomes = append(outcomes, hitOutcome{
				hitboxID:   hb.ID,
				attackerID: hb.OwnerID,
				targetID:   target.ID,
				damage:     hb.Damage,
				stave:      hb.Stave,
				knockback:  e.knockbackVector(hb, target),
				suppressed: suppressed,
			})
		}
	}
	return outcomes
}

// knockbackVector points from the striker toward the target, scaled by the
// strike's knockback and clamped to the configured ceiling.
func (e *Engine) knockbackVector(hb *Hitbox, target *Actor) cp.Vector {
	mag := hb.Knockback
	if mag > e.cfg.Combat.KnockbackMax {
		mag = e.cfg.Combat.KnockbackMax
	}
	if mag <= 0 {
		return cp.Vector{}
	}
	dir := cp.Vector{X: 1, Y: 0}
	if owner, ok := e.actors[hb.OwnerID]; ok {
		delta := target.Position.Sub(owner.Position)
		if delta.Length() > 1e-6 {
			dir = delta.Normalize()
		} else if owner.Facing < 0 {
			dir = cp.Vector{X: -1, Y: 0}
		}
	}
	return dir.Mult(mag)
}

// applyOutcomes mutates health, stance, and timers in the order the
// contacts were collected, emitting events as it goes.
func (e *Engine) applyOutcomes(outcomes []hitOutcome) {
	for _, out := range outcomes {
		if out.parry {
			e.applyParry(out)
			continue
		}
		e.applyDamage(out)
	}
}

func (e *Engine) applyParry(out hitOutcome) {
	attacker := e.actors[out.attackerID]
	if attacker == nil || attacker.Health.Dead() {
		return
	}
	e.emitParry(ParryEvent{
		Tick:       e.tickCount,
		AttackerID: out.attackerID,
		DefenderID: out.targetID,
	})
	attacker.StunTicks = max(attacker.StunTicks, e.cfg.Stance.ParryStunTicks)
	e.interruptAttack(attacker)
	stave := e.cfg.Stance.ParryHeavyEquivalent * e.registry.Defaults.HeavyStaveDamage
	broke := attacker.Stance.Stave(stave, e.cfg.Stance.RegenGraceTicks)
	if !broke {
		// a parried attacker never keeps their guard
		broke = attacker.Stance.ForceBreak(e.cfg.Stance.RegenGraceTicks)
	}
	if broke {
		e.breakActor(attacker, out.targetID)
	}
}

func (e *Engine) applyDamage(out hitOutcome) {
	target := e.actors[out.targetID]
	if target == nil || target.Health.Dead() {
		return
	}
	damage := out.damage
	if out.suppressed {
		damage = 0
	}
	died := false
	if !out.suppressed {
		died = target.Health.Damage(out.damage)
	}
	e.emitDamage(DamageEvent{
		Tick:      e.tickCount,
		SourceID:  out.attackerID,
		TargetID:  out.targetID,
		HitboxID:  out.hitboxID,
		Damage:    damage,
		Stave:     out.stave,
		Knockback: out.knockback,
	})
	if died {
		e.killActor(target, out.attackerID)
		return
	}
	if !out.suppressed {
		target.InvulnTicks = max(target.InvulnTicks, e.cfg.Combat.IFrameTicks)
	}
	target.StaggerTicks = max(target.StaggerTicks, e.cfg.Combat.HitStaggerTicks)
	e.interruptAttack(target)
	if target.Stance.Stave(out.stave, e.cfg.Stance.RegenGraceTicks) {
		e.breakActor(target, out.attackerID)
	}
	if target.Stance.Current < 0 {
		target.Stance.Current = 0
		observability.CountInvariantViolation("stance_negative")
	}
	if out.knockback.Length() > 0 {
		e.knockbacks = append(e.knockbacks, KnockbackRequest{
			ActorID:  target.ID,
			Velocity: out.knockback,
		})
	}
}

// breakActor runs the guard-break consequence chain: event, stagger,
// attack interrupt, refill. Boss break counters feed phase thresholds.
func (e *Engine) breakActor(a *Actor, breaker ActorID) {
	e.emitStanceBreak(StanceBreakEvent{
		Tick:      e.tickCount,
		ActorID:   a.ID,
		BreakerID: breaker,
	})
	a.StaggerTicks = max(a.StaggerTicks, e.cfg.Stance.BreakStaggerTicks)
	e.interruptAttack(a)
	a.Stance.Refill(e.cfg.Stance.BreakRefillMultiplier)
	if a.Boss != nil {
		a.Boss.StanceBreaks++
	}
}
