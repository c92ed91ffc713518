package combat

import (
	"sync"
)

// ActorSnapshot is the read-only view of one actor for HUD and debug
// overlays. Plain values only; nothing here aliases engine state.
type ActorSnapshot struct {
	ID     ActorID `json:"id"`
	Name   string  `json:"name"`
	Team   Team    `json:"team"`
	Tier   string  `json:"tier"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Facing float64 `json:"facing"`

	Health    float64 `json:"health"`
	MaxHealth float64 `json:"maxHealth"`
	Stance    float64 `json:"stance"`
	MaxStance float64 `json:"maxStance"`

	AttackKind  string `json:"attackKind,omitempty"`
	AttackPhase string `json:"attackPhase"`
	ComboIndex  int    `json:"comboIndex"`

	AIState   string `json:"aiState,omitempty"`
	BossState string `json:"bossState,omitempty"`
	BossPhase int    `json:"bossPhase"`

	Staggered    bool `json:"staggered"`
	Stunned      bool `json:"stunned"`
	Invulnerable bool `json:"invulnerable"`
}

// Snapshot is one published frame of simulation state.
type Snapshot struct {
	Tick        uint64          `json:"tick"`
	Actors      []ActorSnapshot `json:"actors"`
	HitboxCount int             `json:"hitboxCount"`
}

// SnapshotPool triple-buffers snapshots so the single writer (the tick)
// and any reader never block each other on a frame. The writer fills one
// buffer, publishes it, and moves on; readers always get the freshest
// published frame.
type SnapshotPool struct {
	mu    sync.Mutex
	bufs  [3]Snapshot
	write int
	ready int
	read  int
	fresh bool
}

// NewSnapshotPool builds an empty pool.
func NewSnapshotPool() *SnapshotPool {
	return &SnapshotPool{write: 0, ready: 1, read: 2}
}

// acquireWrite returns the writer's buffer. Single writer only.
func (p *SnapshotPool) acquireWrite() *Snapshot {
	return &p.bufs[p.write]
}

// publishWrite swaps the written buffer into the ready slot.
func (p *SnapshotPool) publishWrite() {
	p.mu.Lock()
	p.write, p.ready = p.ready, p.write
	p.fresh = true
	p.mu.Unlock()
}

// AcquireRead returns the freshest published snapshot. The returned
// pointer stays valid and untouched by the writer until the next call.
func (p *SnapshotPool) AcquireRead() *Snapshot {
	p.mu.Lock()
	if p.fresh {
		p.read, p.ready = p.ready, p.read
		p.fresh = false
	}
	s := &p.bufs[p.read]
	p.mu.Unlock()
	return s
}

// publishSnapshot fills the write buffer from live state and flips it in.
// Called at the end of every tick with the engine lock held.
func (e *Engine) publishSnapshot() {
	snap := e.snapshots.acquireWrite()
	snap.Tick = e.tickCount
	snap.HitboxCount = len(e.hitboxes)
	snap.Actors = snap.Actors[:0]
	for _, id := range e.order {
		a := e.actors[id]
		as := ActorSnapshot{
			ID:           a.ID,
			Name:         a.Name,
			Team:         a.Team,
			Tier:         string(a.Tier),
			X:            a.Position.X,
			Y:            a.Position.Y,
			Facing:       a.Facing,
			Health:       a.Health.Current,
			MaxHealth:    a.Health.Max,
			Stance:       a.Stance.Current,
			MaxStance:    a.Stance.Max,
			AttackKind:   string(a.Attack.Kind),
			AttackPhase:  a.Attack.Phase.String(),
			ComboIndex:   a.Attack.ComboIndex,
			Staggered:    a.StaggerTicks > 0,
			Stunned:      a.StunTicks > 0,
			Invulnerable: a.InvulnTicks > 0,
		}
		if a.AI != nil {
			as.AIState = a.AI.State.String()
		}
		if a.Boss != nil {
			as.BossState = a.Boss.State.String()
			as.BossPhase = a.Boss.Phase
		}
		snap.Actors = append(snap.Actors, as)
	}
	e.snapshots.publishWrite()
}

// Snapshot returns the most recent published frame.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshots.AcquireRead()
}
