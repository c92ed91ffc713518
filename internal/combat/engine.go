package combat

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jakecoffman/cp"

	"ashfall/internal/config"
	"ashfall/internal/content"
	"ashfall/internal/observability"
)

// Engine owns all combat state and advances it on a fixed tick. Every tick
// runs the same order: timers, intents and AI, attack machines, collision
// resolution, damage and stance application, death sweep, stance regen,
// snapshot. Same seed and same inputs replay the same fight.
type Engine struct {
	mu sync.Mutex

	cfg      config.AppConfig
	registry *content.Registry
	run      RunContext

	actors map[ActorID]*Actor
	order  []ActorID // spawn order, the deterministic iteration order

	hitboxes     []*Hitbox
	nextActorID  ActorID
	nextHitboxID uint64

	tickCount uint64
	rng       *rand.Rand

	bus     *Bus
	journal *Journal

	intents    []strikeIntent
	knockbacks []KnockbackRequest
	moves      []MoveRequest

	snapshots *SnapshotPool

	lineOfSight func(from, to cp.Vector) bool

	diag diagCounters
}

type strikeIntent struct {
	id   ActorID
	kind content.StrikeKind
}

type diagCounters struct {
	hitboxOverflow atomic.Uint64
	eventOverflow  atomic.Uint64
	actorOverflow  atomic.Uint64
}

// Diagnostics is a point-in-time copy of the engine's internal counters.
type Diagnostics struct {
	HitboxOverflow uint64
	EventOverflow  uint64
	ActorOverflow  uint64
	JournalTotal   uint64
	JournalDropped uint64
}

// NewEngine builds an engine around a validated content registry. The run
// context is fixed for the engine's lifetime; scaling happens at spawn.
func NewEngine(cfg config.AppConfig, reg *content.Registry, run RunContext, seed int64) *Engine {
	return &Engine{
		cfg:         cfg,
		registry:    reg,
		run:         run,
		actors:      make(map[ActorID]*Actor),
		rng:         rand.New(rand.NewSource(seed)),
		bus:         NewBus(),
		snapshots:   NewSnapshotPool(),
		lineOfSight: func(from, to cp.Vector) bool { return true },
	}
}

// Bus exposes the event bus for subscribers. Subscribe before the first
// tick; handlers run inside the tick and must not call back into the engine.
func (e *Engine) Bus() *Bus {
	return e.bus
}

// SetJournal attaches an event journal. Pass nil to disable.
func (e *Engine) SetJournal(j *Journal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.journal = j
}

// SetLineOfSight installs the visibility test used by enemy aggro. The
// default sees everything; the level geometry owner supplies a real one.
func (e *Engine) SetLineOfSight(fn func(from, to cp.Vector) bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if fn != nil {
		e.lineOfSight = fn
	}
}

// SpawnPlayer adds the player-controlled combatant.
func (e *Engine) SpawnPlayer(name, weaponID string, pos cp.Vector) (ActorID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.registry.Weapons[weaponID]; !ok {
		return 0, fmt.Errorf("spawn player %s: unknown weapon %q", name, weaponID)
	}
	a := &Actor{
		Name:       name,
		Team:       TeamPlayer,
		Tier:       content.TierMinor,
		Position:   pos,
		Facing:     1,
		Hurtbox:    defaultHurtbox(content.TierMinor),
		Health:     Health{Current: e.cfg.Combat.PlayerHealth, Max: e.cfg.Combat.PlayerHealth},
		Stance:     NewStance(e.cfg.Combat.PlayerStance, e.regenPerTick()),
		WeaponID:   weaponID,
		DamageMult: 1,
	}
	if err := e.addActor(a); err != nil {
		return 0, err
	}
	return a.ID, nil
}

// SpawnEnemy adds an enemy from the catalog, scaled by tier and by the run
// context. Boss-tier enemies get the phase executor instead of the patrol
// brain.
func (e *Engine) SpawnEnemy(defID string, pos cp.Vector) (ActorID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	def, ok := e.registry.Enemies[defID]
	if !ok {
		return 0, fmt.Errorf("spawn enemy: unknown def %q", defID)
	}
	healthMult, damageMult, speedMult := def.Tier.Multipliers()
	runMult := e.run.Multiplier()

	a := &Actor{
		Name:       def.ID,
		Team:       TeamEnemy,
		Tier:       def.Tier,
		DefID:      def.ID,
		Position:   pos,
		Facing:     -1,
		Hurtbox:    defaultHurtbox(def.Tier),
		Health:     newScaledHealth(def.BaseHealth * healthMult * runMult),
		Stance:     NewStance(def.BaseStance, e.regenPerTick()),
		WeaponID:   def.Weapon,
		MoveSpeed:  def.MoveSpeed * speedMult,
		DamageMult: damageMult * runMult,
	}
	if def.Tier == content.TierBoss {
		script := e.registry.Scripts[def.Script]
		a.Boss = NewBossAI(script, *def)
	} else {
		a.AI = NewEnemyAI(*def, pos)
	}
	if err := e.addActor(a); err != nil {
		return 0, err
	}
	return a.ID, nil
}

func newScaledHealth(max float64) Health {
	return Health{Current: max, Max: max}
}

func (e *Engine) regenPerTick() float64 {
	perSecond := e.registry.Defaults.LightStaveDamage / e.cfg.Stance.RegenSecondsPerLight
	return perSecond / float64(e.cfg.Sim.TickRate)
}

func (e *Engine) addActor(a *Actor) error {
	if len(e.actors) >= e.cfg.Limits.MaxActors {
		e.diag.actorOverflow.Add(1)
		observability.CountInvariantViolation("actor_cap")
		return fmt.Errorf("actor cap reached (%d)", e.cfg.Limits.MaxActors)
	}
	e.nextActorID++
	a.ID = e.nextActorID
	e.actors[a.ID] = a
	e.order = append(e.order, a.ID)
	e.emitSpawn(SpawnEvent{
		Tick:    e.tickCount,
		ActorID: a.ID,
		Team:    a.Team,
		Tier:    string(a.Tier),
		DefID:   a.DefID,
	})
	return nil
}

// QueueIntent buffers a strike input for the next tick. Inputs resolve in
// arrival order during the intent step.
func (e *Engine) QueueIntent(id ActorID, kind content.StrikeKind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.intents = append(e.intents, strikeIntent{id: id, kind: kind})
}

// SetActorPosition is how the movement collaborator writes positions back.
func (e *Engine) SetActorPosition(id ActorID, pos cp.Vector) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if a, ok := e.actors[id]; ok {
		a.Position = pos
	}
}

// SetActorHurtbox swaps the actor-relative hurtbox, for hosts that shape
// hurtboxes per animation frame.
func (e *Engine) SetActorHurtbox(id ActorID, box cp.BB) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if a, ok := e.actors[id]; ok {
		a.Hurtbox = box
	}
}

// SetActorFacing flips which way an actor's strikes come out.
func (e *Engine) SetActorFacing(id ActorID, facing float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if a, ok := e.actors[id]; ok {
		if facing < 0 {
			a.Facing = -1
		} else {
			a.Facing = 1
		}
	}
}

// Tick advances the simulation exactly one step.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	start := time.Now()

	e.tickCount++
	e.knockbacks = e.knockbacks[:0]
	e.moves = e.moves[:0]

	// timers
	for _, id := range e.order {
		a := e.actors[id]
		if a.StaggerTicks > 0 {
			a.StaggerTicks--
		}
		if a.StunTicks > 0 {
			a.StunTicks--
		}
		if a.InvulnTicks > 0 {
			a.InvulnTicks--
		}
	}

	// intents and AI
	for _, in := range e.intents {
		if a, ok := e.actors[in.id]; ok && !a.Health.Dead() {
			e.tryStrike(a, in.kind)
		}
	}
	e.intents = e.intents[:0]
	for _, id := range e.order {
		a := e.actors[id]
		if a.Health.Dead() {
			continue
		}
		switch {
		case a.Boss != nil:
			e.updateBossAI(a)
		case a.AI != nil:
			e.updateEnemyAI(a)
		}
	}

	// attack machines
	for _, id := range e.order {
		e.advanceAttack(e.actors[id])
	}

	// collisions, then state application in collection order
	outcomes := e.resolveCollisions()
	e.applyOutcomes(outcomes)

	e.sweepDead()

	// passive guard recovery
	for _, id := range e.order {
		e.actors[id].Stance.Regen()
	}

	e.publishSnapshot()
	observability.SetActorCount(len(e.actors))
	observability.SetHitboxCount(len(e.hitboxes))
	observability.ObserveTick(time.Since(start))
}

// killActor handles the moment health reaches zero: the corpse stops
// attacking, its hitboxes vanish, and the terminal event fires once.
func (e *Engine) killActor(a *Actor, killer ActorID) {
	e.interruptAttack(a)
	e.despawnOwnedHitboxes(a.ID)
	e.emitDeath(DeathEvent{
		Tick:     e.tickCount,
		ActorID:  a.ID,
		KillerID: killer,
		Team:     a.Team,
		Tier:     string(a.Tier),
	})
}

func (e *Engine) sweepDead() {
	kept := e.order[:0]
	for _, id := range e.order {
		if e.actors[id].Health.Dead() {
			delete(e.actors, id)
			continue
		}
		kept = append(kept, id)
	}
	e.order = kept
}

// Run drives the tick loop at the configured rate until the context ends
// or the tick budget is spent. onTick, when set, runs between ticks and is
// where the caller drains movement and knockback requests.
func (e *Engine) Run(ctx context.Context, onTick func()) error {
	interval := time.Second / time.Duration(e.cfg.Sim.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("⚔️ combat engine running at %d tps", e.cfg.Sim.TickRate)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Tick()
			if onTick != nil {
				onTick()
			}
			if e.cfg.Sim.MaxTicks > 0 && e.TickCount() >= uint64(e.cfg.Sim.MaxTicks) {
				return nil
			}
		}
	}
}

// DrainKnockbacks hands the tick's knockback requests to the physics
// collaborator and clears the queue.
func (e *Engine) DrainKnockbacks() []KnockbackRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]KnockbackRequest, len(e.knockbacks))
	copy(out, e.knockbacks)
	e.knockbacks = e.knockbacks[:0]
	return out
}

// DrainMoves hands the tick's AI movement targets to the movement
// collaborator and clears the queue.
func (e *Engine) DrainMoves() []MoveRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]MoveRequest, len(e.moves))
	copy(out, e.moves)
	e.moves = e.moves[:0]
	return out
}

// TickCount returns the number of completed ticks.
func (e *Engine) TickCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tickCount
}

// ActorCount returns the number of live actors.
func (e *Engine) ActorCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.actors)
}

// TeamAlive reports whether any actor on the team still lives.
func (e *Engine) TeamAlive(team Team) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, id := range e.order {
		if e.actors[id].Team == team {
			return true
		}
	}
	return false
}

// Diagnostics returns the internal counter snapshot.
func (e *Engine) Diagnostics() Diagnostics {
	d := Diagnostics{
		HitboxOverflow: e.diag.hitboxOverflow.Load(),
		EventOverflow:  e.diag.eventOverflow.Load(),
		ActorOverflow:  e.diag.actorOverflow.Load(),
	}
	e.mu.Lock()
	j := e.journal
	e.mu.Unlock()
	if j != nil {
		d.JournalTotal, d.JournalDropped = j.Stats()
	}
	return d
}

// event emission: bus first, then journal, then metrics

func (e *Engine) emitSpawn(ev SpawnEvent) {
	e.bus.publishSpawn(ev)
	e.journalRecord(EventTypeSpawn, ev.Tick, ev)
	observability.CountEvent(EventTypeSpawn.String())
}

func (e *Engine) emitDamage(ev DamageEvent) {
	e.bus.publishDamage(ev)
	e.journalRecord(EventTypeDamage, ev.Tick, ev)
	observability.CountEvent(EventTypeDamage.String())
}

func (e *Engine) emitParry(ev ParryEvent) {
	e.bus.publishParry(ev)
	e.journalRecord(EventTypeParry, ev.Tick, ev)
	observability.CountEvent(EventTypeParry.String())
}

func (e *Engine) emitStanceBreak(ev StanceBreakEvent) {
	e.bus.publishStanceBreak(ev)
	e.journalRecord(EventTypeStanceBreak, ev.Tick, ev)
	observability.CountEvent(EventTypeStanceBreak.String())
}

func (e *Engine) emitDeath(ev DeathEvent) {
	e.bus.publishDeath(ev)
	e.journalRecord(EventTypeDeath, ev.Tick, ev)
	observability.CountEvent(EventTypeDeath.String())
}

func (e *Engine) emitBossPhase(ev BossPhaseEvent) {
	log.Printf("👑 boss %d entered phase %d at tick %d", ev.ActorID, ev.Phase, ev.Tick)
	e.bus.publishBossPhase(ev)
	e.journalRecord(EventTypeBossPhase, ev.Tick, ev)
	observability.CountEvent(EventTypeBossPhase.String())
}

func (e *Engine) journalRecord(t EventType, tick uint64, payload any) {
	if e.journal != nil {
		e.journal.Record(t, tick, payload)
	}
}
