package combat

// Stance is the guard meter. Strikes stave it down; it refills slowly once
// the owner has gone unhit for a grace window. Hitting zero is a break:
// the owner staggers and the meter refills to Max scaled by the configured
// break multiplier.
type Stance struct {
	Current float64
	Max     float64

	graceTicks   int     // ticks left before regen resumes
	regenPerTick float64 // meter points restored per tick once regenerating
}

// NewStance builds a full meter. regenPerTick and the grace window come
// from config via the engine; max comes from content scaled by tier.
func NewStance(max, regenPerTick float64) Stance {
	return Stance{Current: max, Max: max, regenPerTick: regenPerTick}
}

// Stave applies guard damage and reports whether the meter broke on this
// application. Current clamps at zero; a meter already at zero cannot break
// again until it has been refilled.
func (s *Stance) Stave(amount float64, graceTicks int) bool {
	if s.Max <= 0 {
		return false
	}
	s.graceTicks = graceTicks
	if s.Current <= 0 {
		return false
	}
	s.Current -= amount
	if s.Current <= 0 {
		s.Current = 0
		return true
	}
	return false
}

// ForceBreak drops the meter straight to zero regardless of how much was
// left, and always reports a break unless the meter was already empty.
// Parry punishes use this path.
func (s *Stance) ForceBreak(graceTicks int) bool {
	if s.Max <= 0 {
		return false
	}
	s.graceTicks = graceTicks
	if s.Current <= 0 {
		return false
	}
	s.Current = 0
	return true
}

// Refill restores the meter after a break. mult scales against Max and is
// clamped to [0, 1].
func (s *Stance) Refill(mult float64) {
	if mult < 0 {
		mult = 0
	}
	if mult > 1 {
		mult = 1
	}
	s.Current = s.Max * mult
}

// Regen advances passive recovery by one tick. No recovery happens while
// the grace window is still counting down.
func (s *Stance) Regen() {
	if s.graceTicks > 0 {
		s.graceTicks--
		return
	}
	if s.Current >= s.Max {
		return
	}
	s.Current += s.regenPerTick
	if s.Current > s.Max {
		s.Current = s.Max
	}
}

// Fraction returns current stance as a 0..1 fraction.
func (s *Stance) Fraction() float64 {
	if s.Max <= 0 {
		return 0
	}
	return s.Current / s.Max
}
