package combat

import (
	"github.com/jakecoffman/cp"

	"ashfall/internal/content"
)

// AIState enum for the enemy brain
type AIState uint8

const (
	AIPatrol AIState = iota
	AIChase
	AIAttack
	AIStaggered
)

// String returns a human-readable AI state
func (s AIState) String() string {
	switch s {
	case AIChase:
		return "chase"
	case AIAttack:
		return "attack"
	case AIStaggered:
		return "staggered"
	default:
		return "patrol"
	}
}

// deAggroFactor widens the chase leash past the aggro radius so enemies do
// not flicker between Patrol and Chase at the boundary.
const deAggroFactor = 1.5

// EnemyAI is the brain for regular enemies. It only produces intents:
// movement targets for the movement collaborator and strike attempts for
// the attack machine. It never touches health or stance directly.
type EnemyAI struct {
	State AIState

	AggroRange  float64
	AttackRange float64
	PatrolRange float64

	anchor    cp.Vector // patrol center, set at spawn
	patrolDir float64
}

// NewEnemyAI builds a patrol brain anchored where the enemy spawned.
func NewEnemyAI(def content.EnemyDef, anchor cp.Vector) *EnemyAI {
	return &EnemyAI{
		State:       AIPatrol,
		AggroRange:  def.AggroRange,
		AttackRange: def.AttackRange,
		PatrolRange: def.PatrolRange,
		anchor:      anchor,
		patrolDir:   1,
	}
}

// updateEnemyAI steps one enemy brain. Stagger and stun override every
// state; recovery always lands in Chase so a freshly broken enemy presses
// the player rather than wandering home.
func (e *Engine) updateEnemyAI(a *Actor) {
	ai := a.AI
	if a.StaggerTicks > 0 || a.StunTicks > 0 {
		ai.State = AIStaggered
		return
	}
	if ai.State == AIStaggered {
		ai.State = AIChase
	}

	player := e.nearestOpponent(a)
	if player == nil {
		ai.State = AIPatrol
		e.patrolMove(a)
		return
	}
	dist := player.Position.Sub(a.Position).Length()

	switch ai.State {
	case AIPatrol:
		if dist <= ai.AggroRange && e.lineOfSight(a.Position, player.Position) {
			ai.State = AIChase
			break
		}
		e.patrolMove(a)
	case AIChase:
		if dist > ai.AggroRange*deAggroFactor {
			ai.State = AIPatrol
			break
		}
		if dist <= ai.AttackRange && a.Attack.Idle() && a.Attack.CooldownReady(e.pickStrikeKind(a)) {
			ai.State = AIAttack
			break
		}
		e.faceToward(a, player.Position)
		e.requestMove(a, player.Position)
	case AIAttack:
		if !a.Attack.Idle() {
			break
		}
		if dist > ai.AttackRange {
			if dist > ai.AggroRange*deAggroFactor {
				ai.State = AIPatrol
			} else {
				ai.State = AIChase
			}
			break
		}
		e.faceToward(a, player.Position)
		kind := e.pickStrikeKind(a)
		e.tryStrike(a, kind)
	}
}

// pickStrikeKind leans on light strikes with an occasional heavy when the
// moveset has one. Deterministic under the engine's seeded rng.
func (e *Engine) pickStrikeKind(a *Actor) content.StrikeKind {
	if e.registry.ComboLength(a.WeaponID, content.StrikeHeavy) > 0 && e.rng.Float64() < 0.25 {
		return content.StrikeHeavy
	}
	return content.StrikeLight
}

// patrolMove walks the anchor line, turning around at the patrol edges.
func (e *Engine) patrolMove(a *Actor) {
	ai := a.AI
	if ai.PatrolRange <= 0 {
		return
	}
	offset := a.Position.X - ai.anchor.X
	if offset >= ai.PatrolRange {
		ai.patrolDir = -1
	} else if offset <= -ai.PatrolRange {
		ai.patrolDir = 1
	}
	a.Facing = ai.patrolDir
	target := cp.Vector{X: ai.anchor.X + ai.patrolDir*ai.PatrolRange, Y: a.Position.Y}
	e.requestMove(a, target)
}

func (e *Engine) faceToward(a *Actor, target cp.Vector) {
	if target.X >= a.Position.X {
		a.Facing = 1
	} else {
		a.Facing = -1
	}
}

func (e *Engine) requestMove(a *Actor, target cp.Vector) {
	e.moves = append(e.moves, MoveRequest{
		ActorID: a.ID,
		Target:  target,
		Speed:   a.MoveSpeed,
	})
}

// nearestOpponent finds the closest living actor on the other team, in
// spawn order for determinism on ties.
func (e *Engine) nearestOpponent(a *Actor) *Actor {
	var best *Actor
	bestDist := 0.0
	for _, id := range e.order {
		other := e.actors[id]
		if other == nil || other.Team == a.Team || other.Health.Dead() {
			continue
		}
		d := other.Position.Sub(a.Position).Length()
		if best == nil || d < bestDist {
			best = other
			bestDist = d
		}
	}
	return best
}
