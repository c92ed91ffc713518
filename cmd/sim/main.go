package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/joho/godotenv"

	"ashfall/internal/combat"
	"ashfall/internal/config"
	"ashfall/internal/content"
	"ashfall/internal/observability"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	}

	log.Println("⚔️ ================================")
	log.Println("⚔️  ASHFALL - COMBAT CORE")
	log.Println("⚔️ ================================")

	cfg := config.Load()
	if cfg.Sim.MaxTicks == 0 {
		cfg.Sim.MaxTicks = cfg.Sim.TickRate * 120 // two minute budget by default
	}

	registry, err := loadRegistry(cfg.ContentDir)
	if err != nil {
		log.Fatalf("❌ Content load failed: %v", err)
	}
	log.Printf("📚 Content: %d movesets, %d weapons, %d enemies, %d boss scripts",
		len(registry.Movesets), len(registry.Weapons), len(registry.Enemies), len(registry.Scripts))

	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	run := combat.RunContext{
		Segment:        cfg.Run.Segment,
		DifficultyMult: cfg.Run.DifficultyMult,
	}
	log.Printf("🎲 Seed %d, segment %d, difficulty x%.2f", seed, run.Segment, run.DifficultyMult)

	engine := combat.NewEngine(cfg, registry, run, seed)

	if cfg.JournalPath != "" {
		journal, err := combat.OpenJournal(cfg.JournalPath, 200, 50)
		if err != nil {
			log.Printf("⚠️ Journal disabled: %v", err)
		} else {
			engine.SetJournal(journal)
			defer journal.Close()
			log.Printf("📝 Journal: %s", cfg.JournalPath)
		}
	}

	// narration via the event bus
	bus := engine.Bus()
	bus.OnParry(func(ev combat.ParryEvent) {
		log.Printf("🛡️ tick %d: actor %d parried actor %d", ev.Tick, ev.DefenderID, ev.AttackerID)
	})
	bus.OnStanceBreak(func(ev combat.StanceBreakEvent) {
		log.Printf("💥 tick %d: actor %d guard broken by %d", ev.Tick, ev.ActorID, ev.BreakerID)
	})
	bus.OnDeath(func(ev combat.DeathEvent) {
		log.Printf("☠️ tick %d: %s actor %d slain by %d", ev.Tick, ev.Team, ev.ActorID, ev.KillerID)
	})

	playerID, err := engine.SpawnPlayer("wanderer", "ember_sword", cp.Vector{X: 0, Y: 0})
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	mustSpawn(engine, "husk", cp.Vector{X: 220, Y: 0})
	mustSpawn(engine, "husk", cp.Vector{X: 340, Y: 0})
	mustSpawn(engine, "husk_warden", cp.Vector{X: 520, Y: 0})
	mustSpawn(engine, "ashen_king", cp.Vector{X: 900, Y: 0})

	if cfg.MetricsAddr != "" {
		debugCfg := observability.DefaultDebugConfig()
		debugCfg.ListenAddr = cfg.MetricsAddr
		if err := observability.StartDebugServer(debugCfg, snapshotHandler(engine)); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pilot := &autopilot{engine: engine, playerID: playerID, tickRate: cfg.Sim.TickRate}
	err = engine.Run(ctx, pilot.step)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("❌ Engine stopped: %v", err)
	}

	printSummary(engine)
	log.Println("👋 Done")
}

func loadRegistry(dir string) (*content.Registry, error) {
	if dir == "" {
		return content.DefaultRegistry(), nil
	}
	return content.Load(dir)
}

func mustSpawn(engine *combat.Engine, defID string, pos cp.Vector) {
	if _, err := engine.SpawnEnemy(defID, pos); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

// autopilot plays movement collaborator and a naive player policy: close
// on the nearest enemy and swing light strikes. Knockback is applied as a
// one-tick displacement.
type autopilot struct {
	engine   *combat.Engine
	playerID combat.ActorID
	tickRate int
}

func (p *autopilot) step() {
	dt := 1.0 / float64(p.tickRate)

	for _, m := range p.engine.DrainMoves() {
		p.integrate(m, dt)
	}
	for _, k := range p.engine.DrainKnockbacks() {
		p.shove(k, dt)
	}
	p.drivePlayer(dt)
}

func (p *autopilot) integrate(m combat.MoveRequest, dt float64) {
	snap := p.engine.Snapshot()
	for _, a := range snap.Actors {
		if a.ID != m.ActorID {
			continue
		}
		pos := cp.Vector{X: a.X, Y: a.Y}
		delta := m.Target.Sub(pos)
		stepLen := m.Speed * dt
		if delta.Length() <= stepLen {
			pos = m.Target
		} else {
			pos = pos.Add(delta.Normalize().Mult(stepLen))
		}
		p.engine.SetActorPosition(m.ActorID, pos)
		return
	}
}

func (p *autopilot) shove(k combat.KnockbackRequest, dt float64) {
	snap := p.engine.Snapshot()
	for _, a := range snap.Actors {
		if a.ID != k.ActorID {
			continue
		}
		pos := cp.Vector{X: a.X, Y: a.Y}.Add(k.Velocity.Mult(dt))
		p.engine.SetActorPosition(k.ActorID, pos)
		return
	}
}

func (p *autopilot) drivePlayer(dt float64) {
	snap := p.engine.Snapshot()
	var me *combat.ActorSnapshot
	for i := range snap.Actors {
		if snap.Actors[i].ID == p.playerID {
			me = &snap.Actors[i]
			break
		}
	}
	if me == nil {
		return
	}
	myPos := cp.Vector{X: me.X, Y: me.Y}

	var nearest *combat.ActorSnapshot
	bestDist := 0.0
	for i := range snap.Actors {
		a := &snap.Actors[i]
		if a.Team != combat.TeamEnemy {
			continue
		}
		d := (cp.Vector{X: a.X, Y: a.Y}).Sub(myPos).Length()
		if nearest == nil || d < bestDist {
			nearest = a
			bestDist = d
		}
	}
	if nearest == nil {
		return
	}

	target := cp.Vector{X: nearest.X, Y: nearest.Y}
	if target.X >= myPos.X {
		p.engine.SetActorFacing(p.playerID, 1)
	} else {
		p.engine.SetActorFacing(p.playerID, -1)
	}

	const reach = 70.0
	const walkSpeed = 180.0
	if bestDist > reach {
		delta := target.Sub(myPos)
		step := walkSpeed * dt
		p.engine.SetActorPosition(p.playerID, myPos.Add(delta.Normalize().Mult(step)))
		return
	}
	p.engine.QueueIntent(p.playerID, content.StrikeLight)
}

func snapshotHandler(engine *combat.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(engine.Snapshot())
	}
}

func printSummary(engine *combat.Engine) {
	snap := engine.Snapshot()
	diag := engine.Diagnostics()

	log.Printf("🏁 Encounter over at tick %d: %d actors standing", snap.Tick, len(snap.Actors))
	if !engine.TeamAlive(combat.TeamEnemy) {
		log.Println("🏆 All enemies down")
	} else if !engine.TeamAlive(combat.TeamPlayer) {
		log.Println("☠️ Player fell")
	} else {
		log.Println("⏱️ Tick budget spent")
	}
	log.Printf("📊 Journal: %d recorded, %d dropped", diag.JournalTotal, diag.JournalDropped)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(snap)
}
