package combat

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/jakecoffman/cp"

	"ashfall/internal/config"
	"ashfall/internal/content"
)

func testConfig() config.AppConfig {
	return config.AppConfig{
		Sim:    config.DefaultSim(),
		Combat: config.DefaultCombat(),
		Stance: config.DefaultStance(),
		Boss:   config.DefaultBoss(),
		Run:    config.DefaultRun(),
		Limits: config.DefaultLimits(),
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(testConfig(), content.DefaultRegistry(), RunContext{Segment: 1, DifficultyMult: 1}, 7)
}

// addFighter inserts a plain combatant with no brain attached, so tests
// control every action explicitly.
func addFighter(t *testing.T, e *Engine, team Team, x float64) *Actor {
	t.Helper()
	facing := 1.0
	if team == TeamEnemy {
		facing = -1
	}
	a := &Actor{
		Name:       "fighter",
		Team:       team,
		Tier:       content.TierMinor,
		Position:   cp.Vector{X: x},
		Facing:     facing,
		Hurtbox:    defaultHurtbox(content.TierMinor),
		Health:     Health{Current: 100, Max: 100},
		Stance:     NewStance(28, 0),
		WeaponID:   "rusted_sword",
		DamageMult: 1,
	}
	if err := e.addActor(a); err != nil {
		t.Fatalf("addActor: %v", err)
	}
	return a
}

// TestHitboxHitsTargetOnce verifies a single strike activation damages an
// overlapping target exactly once even though the active phase spans
// several ticks.
func TestHitboxHitsTargetOnce(t *testing.T) {
	e := newTestEngine(t)
	atk := addFighter(t, e, TeamPlayer, 0)
	def := addFighter(t, e, TeamEnemy, 30)

	hits := 0
	e.Bus().OnDamage(func(ev DamageEvent) {
		if ev.TargetID == def.ID {
			hits++
		}
	})

	if !e.tryStrike(atk, content.StrikeLight) {
		t.Fatal("strike rejected")
	}
	for i := 0; i < 30; i++ {
		e.Tick()
	}
	if hits != 1 {
		t.Errorf("expected 1 hit, got %d", hits)
	}
	if def.Health.Current != 92 {
		t.Errorf("expected 92 health, got %.2f", def.Health.Current)
	}
	if def.Stance.Current >= 28 {
		t.Errorf("stance not staved: %.2f", def.Stance.Current)
	}
}

// TestTwoHitboxesHitSeparately verifies hit sets are per activation: two
// different hitboxes overlapping the same target produce one event each.
func TestTwoHitboxesHitSeparately(t *testing.T) {
	e := newTestEngine(t)
	atk := addFighter(t, e, TeamPlayer, 0)
	def := addFighter(t, e, TeamEnemy, 30)

	hits := 0
	e.Bus().OnDamage(func(ev DamageEvent) {
		if ev.TargetID == def.ID {
			hits++
		}
	})

	light, _ := e.registry.ResolveStrike("rusted_sword", content.StrikeLight, 0)
	e.spawnHitbox(atk, light)
	e.spawnHitbox(atk, light)

	// both contacts are collected before any state mutates, so the first
	// hit's invulnerability does not eat the second activation
	e.applyOutcomes(e.resolveCollisions())

	if hits != 2 {
		t.Errorf("expected 2 hits from 2 activations, got %d", hits)
	}

	// but neither activation ever hits the same target again
	def.InvulnTicks = 0
	if outcomes := e.resolveCollisions(); len(outcomes) != 0 {
		t.Errorf("spent activations produced %d more outcomes", len(outcomes))
	}
}

// TestComboChainProgression verifies light strikes chain through all three
// tiers via the recovery window and the combo resets afterwards.
func TestComboChainProgression(t *testing.T) {
	e := newTestEngine(t)
	atk := addFighter(t, e, TeamPlayer, 0)

	if !e.tryStrike(atk, content.StrikeLight) {
		t.Fatal("opening strike rejected")
	}

	for want := 1; want <= 2; want++ {
		guard := 0
		for atk.Attack.Phase != PhaseRecovery {
			e.Tick()
			if guard++; guard > 100 {
				t.Fatal("never reached recovery")
			}
		}
		if !e.tryStrike(atk, content.StrikeLight) {
			t.Fatalf("chain input rejected before tier %d", want)
		}
		guard = 0
		for atk.Attack.Phase == PhaseRecovery {
			e.Tick()
			if guard++; guard > 100 {
				t.Fatal("stuck in recovery")
			}
		}
		if atk.Attack.ComboIndex != want {
			t.Fatalf("expected combo tier %d, got %d", want, atk.Attack.ComboIndex)
		}
	}

	// a fourth input has no tier to chain into
	guard := 0
	for atk.Attack.Phase != PhaseRecovery {
		e.Tick()
		if guard++; guard > 100 {
			t.Fatal("never reached final recovery")
		}
	}
	if e.tryStrike(atk, content.StrikeLight) {
		t.Error("chain past the last combo tier accepted")
	}

	for !atk.Attack.Idle() {
		e.Tick()
		if guard++; guard > 200 {
			t.Fatal("attack never finished")
		}
	}
	if atk.Attack.ComboIndex != 0 {
		t.Errorf("combo index not reset, got %d", atk.Attack.ComboIndex)
	}
}

// TestParryReclassifiesHit verifies a hit landing inside the defender's
// parry window becomes a parry: the defender takes nothing, the attacker
// eats an instant guard break plus parry stun, and the attack dies.
func TestParryReclassifiesHit(t *testing.T) {
	e := newTestEngine(t)
	atk := addFighter(t, e, TeamPlayer, 0)
	def := addFighter(t, e, TeamEnemy, 30)

	parryDef, ok := e.registry.ResolveStrike("rusted_sword", content.StrikeSpecial, 0)
	if !ok {
		t.Fatal("no special strike in catalog")
	}
	def.Attack.Kind = content.StrikeSpecial
	def.Attack.Phase = PhaseActive
	def.Attack.strike = parryDef
	def.Attack.ticksLeft = parryDef.ActiveTicks

	light, _ := e.registry.ResolveStrike("rusted_sword", content.StrikeLight, 0)
	atk.Attack.Kind = content.StrikeLight
	atk.Attack.Phase = PhaseActive
	atk.Attack.strike = light
	atk.Attack.ticksLeft = light.ActiveTicks
	atk.Attack.hitboxID = e.spawnHitbox(atk, light)

	parries, breaks := 0, 0
	e.Bus().OnParry(func(ev ParryEvent) { parries++ })
	e.Bus().OnStanceBreak(func(ev StanceBreakEvent) {
		if ev.ActorID == atk.ID {
			breaks++
		}
	})

	e.applyOutcomes(e.resolveCollisions())

	if parries != 1 {
		t.Fatalf("expected 1 parry, got %d", parries)
	}
	if def.Health.Current != 100 {
		t.Errorf("defender took damage through a parry: %.2f", def.Health.Current)
	}
	if breaks != 1 {
		t.Errorf("attacker's full meter should always break on parry, got %d breaks", breaks)
	}
	if atk.StunTicks != e.cfg.Stance.ParryStunTicks {
		t.Errorf("expected parry stun %d, got %d", e.cfg.Stance.ParryStunTicks, atk.StunTicks)
	}
	if atk.StaggerTicks != e.cfg.Stance.BreakStaggerTicks {
		t.Errorf("expected break stagger %d, got %d", e.cfg.Stance.BreakStaggerTicks, atk.StaggerTicks)
	}
	if !atk.Attack.Idle() {
		t.Error("attacker's strike survived the parry")
	}
	if len(e.hitboxes) != 0 {
		t.Errorf("attacker's hitbox survived the parry: %d live", len(e.hitboxes))
	}
}

// TestDeathEventFiresOnce verifies overkill and repeat damage produce a
// single terminal event, and the sweep removes the corpse.
func TestDeathEventFiresOnce(t *testing.T) {
	e := newTestEngine(t)
	atk := addFighter(t, e, TeamPlayer, 0)
	def := addFighter(t, e, TeamEnemy, 30)

	deaths := 0
	e.Bus().OnDeath(func(ev DeathEvent) {
		if ev.ActorID == def.ID {
			deaths++
		}
	})

	e.applyOutcomes([]hitOutcome{
		{attackerID: atk.ID, targetID: def.ID, damage: 500},
		{attackerID: atk.ID, targetID: def.ID, damage: 500},
	})

	if deaths != 1 {
		t.Fatalf("expected 1 death event, got %d", deaths)
	}
	if def.Health.Current != 0 {
		t.Errorf("health did not clamp at zero: %.2f", def.Health.Current)
	}

	e.sweepDead()
	if _, alive := e.actors[def.ID]; alive {
		t.Error("corpse survived the death sweep")
	}
}

// TestInvulnerabilitySuppression covers both sides of the stance policy
// flag for hits on an invulnerable target.
func TestInvulnerabilitySuppression(t *testing.T) {
	t.Run("blocks everything", func(t *testing.T) {
		e := newTestEngine(t)
		atk := addFighter(t, e, TeamPlayer, 0)
		def := addFighter(t, e, TeamEnemy, 30)
		def.InvulnTicks = 10

		light, _ := e.registry.ResolveStrike("rusted_sword", content.StrikeLight, 0)
		e.spawnHitbox(atk, light)

		outcomes := e.resolveCollisions()
		if len(outcomes) != 0 {
			t.Fatalf("expected no outcomes, got %d", len(outcomes))
		}
	})

	t.Run("stance still applies", func(t *testing.T) {
		cfg := testConfig()
		cfg.Stance.InvulnBlocksStance = false
		e := NewEngine(cfg, content.DefaultRegistry(), RunContext{DifficultyMult: 1}, 7)
		atk := addFighter(t, e, TeamPlayer, 0)
		def := addFighter(t, e, TeamEnemy, 30)
		def.InvulnTicks = 10

		var got DamageEvent
		e.Bus().OnDamage(func(ev DamageEvent) { got = ev })

		light, _ := e.registry.ResolveStrike("rusted_sword", content.StrikeLight, 0)
		e.spawnHitbox(atk, light)
		e.applyOutcomes(e.resolveCollisions())

		if got.TargetID != def.ID {
			t.Fatal("no damage event emitted")
		}
		if got.Damage != 0 {
			t.Errorf("health damage leaked through invulnerability: %.2f", got.Damage)
		}
		if def.Health.Current != 100 {
			t.Errorf("health changed: %.2f", def.Health.Current)
		}
		if def.Stance.Current != 24 {
			t.Errorf("expected stance 24, got %.2f", def.Stance.Current)
		}
	})
}

// TestFriendlyFireExcluded verifies same-team hitboxes never connect.
func TestFriendlyFireExcluded(t *testing.T) {
	e := newTestEngine(t)
	atk := addFighter(t, e, TeamEnemy, 0)
	addFighter(t, e, TeamEnemy, 30)

	light, _ := e.registry.ResolveStrike("rusted_sword", content.StrikeLight, 0)
	atk.Facing = 1
	e.spawnHitbox(atk, light)

	if outcomes := e.resolveCollisions(); len(outcomes) != 0 {
		t.Errorf("friendly fire produced %d outcomes", len(outcomes))
	}
}

// TestTierAndDifficultyScaling verifies spawn-time scaling multiplies tier
// and run difficulty into health, damage, and speed.
func TestTierAndDifficultyScaling(t *testing.T) {
	e := NewEngine(testConfig(), content.DefaultRegistry(), RunContext{Segment: 3, DifficultyMult: 2}, 7)

	id, err := e.SpawnEnemy("husk_warden", cp.Vector{X: 100})
	if err != nil {
		t.Fatalf("SpawnEnemy: %v", err)
	}
	a := e.actors[id]

	// major tier: health x2.5, damage x1.5, speed x1.1
	if a.Health.Max != 60*2.5*2 {
		t.Errorf("expected health %v, got %v", 60*2.5*2, a.Health.Max)
	}
	if a.DamageMult != 1.5*2 {
		t.Errorf("expected damage mult 3, got %v", a.DamageMult)
	}
	if math.Abs(a.MoveSpeed-70*1.1) > 1e-9 {
		t.Errorf("expected speed 77, got %v", a.MoveSpeed)
	}
	if a.Stance.Max != 56 {
		t.Errorf("stance should come from content unscaled, got %v", a.Stance.Max)
	}
}

// TestStaggerBlocksActions verifies a staggered actor cannot start a strike
// and an in-flight strike dies when stagger lands.
func TestStaggerBlocksActions(t *testing.T) {
	e := newTestEngine(t)
	a := addFighter(t, e, TeamPlayer, 0)

	a.StaggerTicks = 10
	if e.tryStrike(a, content.StrikeLight) {
		t.Error("staggered actor started a strike")
	}

	a.StaggerTicks = 0
	if !e.tryStrike(a, content.StrikeLight) {
		t.Fatal("recovered actor could not strike")
	}
	guard := 0
	for a.Attack.Phase != PhaseActive {
		e.Tick()
		if guard++; guard > 50 {
			t.Fatal("strike never went active")
		}
	}
	if len(e.hitboxes) != 1 {
		t.Fatalf("expected live hitbox, have %d", len(e.hitboxes))
	}

	a.StaggerTicks = 10
	e.interruptAttack(a)
	if !a.Attack.Idle() || len(e.hitboxes) != 0 {
		t.Error("interrupt did not clear the strike and its hitbox")
	}
}

// TestEnemyAIStateTransitions walks the patrol brain through its states.
func TestEnemyAIStateTransitions(t *testing.T) {
	e := newTestEngine(t)
	addFighter(t, e, TeamPlayer, 0)

	id, err := e.SpawnEnemy("husk", cp.Vector{X: 1000})
	if err != nil {
		t.Fatalf("SpawnEnemy: %v", err)
	}
	a := e.actors[id]

	e.updateEnemyAI(a)
	if a.AI.State != AIPatrol {
		t.Fatalf("expected patrol far from player, got %s", a.AI.State)
	}

	a.Position = cp.Vector{X: 100}
	e.updateEnemyAI(a)
	if a.AI.State != AIChase {
		t.Fatalf("expected chase inside aggro range, got %s", a.AI.State)
	}

	a.Position = cp.Vector{X: 30}
	e.updateEnemyAI(a)
	if a.AI.State != AIAttack {
		t.Fatalf("expected attack inside strike range, got %s", a.AI.State)
	}
	e.updateEnemyAI(a)
	if a.Attack.Idle() {
		t.Error("attack state did not start a strike")
	}

	a.StaggerTicks = 5
	e.updateEnemyAI(a)
	if a.AI.State != AIStaggered {
		t.Fatalf("expected staggered, got %s", a.AI.State)
	}

	a.StaggerTicks = 0
	e.updateEnemyAI(a)
	if a.AI.State == AIStaggered {
		t.Error("brain stuck in staggered after recovery")
	}
}

// TestDeterministicReplay verifies two engines with the same seed and the
// same spawns produce identical state tick for tick.
func TestDeterministicReplay(t *testing.T) {
	build := func() *Engine {
		e := NewEngine(testConfig(), content.DefaultRegistry(), RunContext{Segment: 1, DifficultyMult: 1}, 99)
		if _, err := e.SpawnPlayer("p", "rusted_sword", cp.Vector{X: 0}); err != nil {
			t.Fatalf("SpawnPlayer: %v", err)
		}
		if _, err := e.SpawnEnemy("husk", cp.Vector{X: 30}); err != nil {
			t.Fatalf("SpawnEnemy: %v", err)
		}
		return e
	}

	a, b := build(), build()
	for i := 0; i < 600; i++ {
		a.Tick()
		b.Tick()
	}

	aj, _ := json.Marshal(a.Snapshot())
	bj, _ := json.Marshal(b.Snapshot())
	if string(aj) != string(bj) {
		t.Errorf("same seed diverged:\n%s\n%s", aj, bj)
	}
}
