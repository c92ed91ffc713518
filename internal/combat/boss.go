package combat

import (
	"ashfall/internal/content"
)

// BossState enum for the boss brain
type BossState uint8

const (
	BossIdle BossState = iota
	BossScripting
	BossStaggered
	BossPhaseShift
)

// String returns a human-readable boss state
func (s BossState) String() string {
	switch s {
	case BossScripting:
		return "scripting"
	case BossStaggered:
		return "staggered"
	case BossPhaseShift:
		return "phase_shift"
	default:
		return "idle"
	}
}

// BossAI interprets a multi-phase script. The phase index only ever moves
// forward; crossing a health or guard-break threshold cancels anything in
// flight, grants brief invulnerability, and restarts sequence selection in
// the new phase.
type BossAI struct {
	Script       *content.BossScriptDef
	Phase        int
	State        BossState
	StanceBreaks int

	AggroRange  float64
	AttackRange float64

	seqIndex  int // -1 when no sequence is running
	lastSeq   int
	stepIndex int
	stepTicks int
	striking  bool
	cooldowns []int // one per sequence in the current phase
	recovery  int
}

// NewBossAI builds a phase executor starting in the script's first phase.
func NewBossAI(script *content.BossScriptDef, def content.EnemyDef) *BossAI {
	return &BossAI{
		Script:      script,
		AggroRange:  def.AggroRange,
		AttackRange: def.AttackRange,
		seqIndex:    -1,
		lastSeq:     -1,
		cooldowns:   make([]int, len(script.Phases[0].Sequences)),
	}
}

// expectedPhase is the highest phase index whose entry condition the boss
// currently satisfies.
func (b *BossAI) expectedPhase(healthFrac float64) int {
	expected := b.Phase
	for i := b.Phase + 1; i < len(b.Script.Phases); i++ {
		p := b.Script.Phases[i]
		entered := healthFrac <= p.HealthBelow
		if !entered && p.StanceBreaks > 0 && b.StanceBreaks >= p.StanceBreaks {
			entered = true
		}
		if entered {
			expected = i
		}
	}
	return expected
}

// updateBossAI steps one boss brain for a tick.
func (e *Engine) updateBossAI(a *Actor) {
	b := a.Boss

	if expected := b.expectedPhase(a.Health.Fraction()); expected > b.Phase {
		e.shiftBossPhase(a, expected)
		return
	}
	if a.StaggerTicks > 0 || a.StunTicks > 0 {
		b.State = BossStaggered
		b.striking = false
		return
	}
	if b.recovery > 0 {
		b.recovery--
		b.State = BossPhaseShift
		return
	}
	if b.State == BossStaggered || b.State == BossPhaseShift {
		b.State = BossIdle
	}
	for i, v := range b.cooldowns {
		if v > 0 {
			b.cooldowns[i] = v - 1
		}
	}

	if b.seqIndex >= 0 {
		e.runBossStep(a)
		return
	}

	player := e.nearestOpponent(a)
	if player == nil {
		return
	}
	dist := player.Position.Sub(a.Position).Length()
	if dist > b.AggroRange {
		return
	}
	e.faceToward(a, player.Position)
	if dist > b.AttackRange {
		e.requestMove(a, player.Position)
		return
	}
	if seq := e.pickBossSequence(b); seq >= 0 {
		b.seqIndex = seq
		b.stepIndex = 0
		b.striking = false
		b.State = BossScripting
		e.loadBossStep(a)
	}
}

// shiftBossPhase performs the transition: cancel the attack, flash
// invulnerable, pause for the recovery window, and reset sequence state
// for the new phase. Interim phases crossed in one burst are skipped.
func (e *Engine) shiftBossPhase(a *Actor, phase int) {
	b := a.Boss
	b.Phase = phase
	b.State = BossPhaseShift
	b.seqIndex = -1
	b.lastSeq = -1
	b.stepIndex = 0
	b.striking = false
	b.cooldowns = make([]int, len(b.Script.Phases[phase].Sequences))
	b.recovery = e.cfg.Boss.PhaseShiftRecoveryTicks
	e.interruptAttack(a)
	a.InvulnTicks = max(a.InvulnTicks, e.cfg.Boss.PhaseShiftInvulnTicks)
	e.emitBossPhase(BossPhaseEvent{
		Tick:    e.tickCount,
		ActorID: a.ID,
		Phase:   phase,
	})
}

// pickBossSequence chooses the next ready sequence per the phase's mode.
// Ordered mode cycles; weighted mode rolls the engine rng across ready
// weights. Returns -1 when every sequence is cooling down.
func (e *Engine) pickBossSequence(b *BossAI) int {
	phase := b.Script.Phases[b.Phase]
	switch phase.Mode {
	case content.PhaseModeWeighted:
		total := 0
		for i, seq := range phase.Sequences {
			if b.cooldowns[i] == 0 {
				total += seq.Weight
			}
		}
		if total == 0 {
			return -1
		}
		roll := e.rng.Intn(total)
		for i, seq := range phase.Sequences {
			if b.cooldowns[i] > 0 {
				continue
			}
			roll -= seq.Weight
			if roll < 0 {
				return i
			}
		}
		return -1
	default:
		for off := 0; off < len(phase.Sequences); off++ {
			i := (b.stepCursor() + off) % len(phase.Sequences)
			if b.cooldowns[i] == 0 {
				return i
			}
		}
		return -1
	}
}

// stepCursor tracks where ordered selection resumes; sequences already on
// cooldown were the most recently used ones, so starting after the last
// used index keeps the rotation.
func (b *BossAI) stepCursor() int {
	return b.lastSeq + 1
}

// loadBossStep primes the timer for the step at stepIndex.
func (e *Engine) loadBossStep(a *Actor) {
	b := a.Boss
	seq := b.Script.Phases[b.Phase].Sequences[b.seqIndex]
	if b.stepIndex >= len(seq.Steps) {
		return
	}
	step := seq.Steps[b.stepIndex]
	if step.Kind != content.StepStrike {
		b.stepTicks = step.Ticks
	}
}

// runBossStep executes the current step of the running sequence. Telegraph,
// wait, and recover steps burn their tick budget; a strike step drives the
// attack machine and completes when the machine returns to idle.
func (e *Engine) runBossStep(a *Actor) {
	b := a.Boss
	seq := b.Script.Phases[b.Phase].Sequences[b.seqIndex]
	if b.stepIndex >= len(seq.Steps) {
		e.finishBossSequence(b, seq.CooldownTicks)
		return
	}
	step := seq.Steps[b.stepIndex]
	switch step.Kind {
	case content.StepStrike:
		if b.striking {
			if a.Attack.Idle() {
				b.striking = false
				e.advanceBossStep(a, seq)
			}
			return
		}
		if player := e.nearestOpponent(a); player != nil {
			e.faceToward(a, player.Position)
		}
		if e.tryStrike(a, step.Strike) {
			b.striking = true
		}
	default:
		if b.stepTicks > 0 {
			b.stepTicks--
		}
		if b.stepTicks == 0 {
			e.advanceBossStep(a, seq)
		}
	}
}

func (e *Engine) advanceBossStep(a *Actor, seq content.SequenceDef) {
	b := a.Boss
	b.stepIndex++
	if b.stepIndex >= len(seq.Steps) {
		e.finishBossSequence(b, seq.CooldownTicks)
		return
	}
	e.loadBossStep(a)
}

func (e *Engine) finishBossSequence(b *BossAI, cooldown int) {
	b.cooldowns[b.seqIndex] = cooldown
	b.lastSeq = b.seqIndex
	b.seqIndex = -1
	b.State = BossIdle
}
