package combat

import (
	"github.com/jakecoffman/cp"

	"ashfall/internal/content"
	"ashfall/internal/observability"
)

// Hitbox is a live damage volume tied to one strike activation. It carries
// its own hit set so a single activation hits any given target at most once,
// no matter how many ticks they stay overlapped.
type Hitbox struct {
	ID      uint64
	OwnerID ActorID
	Team    Team
	Box     cp.BB

	Damage    float64
	Stave     float64
	Knockback float64

	hitSet map[ActorID]struct{}
}

// AlreadyHit reports whether this activation has touched the target before.
func (hb *Hitbox) AlreadyHit(id ActorID) bool {
	_, ok := hb.hitSet[id]
	return ok
}

func (hb *Hitbox) markHit(id ActorID) {
	if _, ok := hb.hitSet[id]; ok {
		observability.CountInvariantViolation("hit_reregister")
		return
	}
	hb.hitSet[id] = struct{}{}
}

// strikeBox places a strike's hitbox in world space in front of the owner.
// Offsets flip with facing; the box is centered on the offset point.
func strikeBox(a *Actor, def content.HitboxDef) cp.BB {
	cx := a.Position.X + a.Facing*def.OffsetX
	cy := a.Position.Y + def.OffsetY
	halfL := def.Length / 2
	halfW := def.Width / 2
	return cp.BB{L: cx - halfL, B: cy - halfW, R: cx + halfL, T: cy + halfW}
}

// spawnHitbox registers a new hitbox for the actor's current strike. The
// box is placed once at spawn; strikes commit to their position.
func (e *Engine) spawnHitbox(a *Actor, def content.StrikeDef) uint64 {
	if len(e.hitboxes) >= e.cfg.Limits.MaxHitboxes {
		e.diag.hitboxOverflow.Add(1)
		observability.CountInvariantViolation("hitbox_cap")
		return 0
	}
	damage := def.Damage * a.DamageMult
	e.nextHitboxID++
	hb := &Hitbox{
		ID:        e.nextHitboxID,
		OwnerID:   a.ID,
		Team:      a.Team,
		Box:       strikeBox(a, def.Hitbox),
		Damage:    damage,
		Stave:     def.StaveDamage,
		Knockback: def.Knockback,
		hitSet:    make(map[ActorID]struct{}, 4),
	}
	e.hitboxes = append(e.hitboxes, hb)
	return hb.ID
}

// despawnHitbox removes a hitbox by id, preserving creation order of the
// rest. A zero or stale id is a no-op.
func (e *Engine) despawnHitbox(id uint64) {
	if id == 0 {
		return
	}
	kept := e.hitboxes[:0]
	for _, hb := range e.hitboxes {
		if hb.ID != id {
			kept = append(kept, hb)
		}
	}
	e.hitboxes = kept
}

// despawnOwnedHitboxes clears every hitbox belonging to an actor. Used on
// death so a corpse never keeps dealing damage.
func (e *Engine) despawnOwnedHitboxes(owner ActorID) {
	kept := e.hitboxes[:0]
	for _, hb := range e.hitboxes {
		if hb.OwnerID != owner {
			kept = append(kept, hb)
		}
	}
	e.hitboxes = kept
}
