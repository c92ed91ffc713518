package content

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File layout of a content directory. Each catalog lives in its own file;
// boss_scripts.yaml and defaults.yaml are optional.
const (
	movesetsFile = "movesets.yaml"
	weaponsFile  = "weapons.yaml"
	enemiesFile  = "enemies.yaml"
	scriptsFile  = "boss_scripts.yaml"
	defaultsFile = "defaults.yaml"
)

type movesetListFile struct {
	Movesets []*MovesetDef `yaml:"movesets"`
}

type weaponListFile struct {
	Weapons []*WeaponDef `yaml:"weapons"`
}

type enemyListFile struct {
	Enemies []*EnemyDef `yaml:"enemies"`
}

type scriptListFile struct {
	Scripts []*BossScriptDef `yaml:"scripts"`
}

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// Load reads a content directory and returns a validated Registry. Any
// unresolved reference or malformed definition is an error naming the
// offending identifier; callers treat it as fatal before simulation starts.
func Load(dir string) (*Registry, error) {
	r := &Registry{
		Movesets: map[string]*MovesetDef{},
		Weapons:  map[string]*WeaponDef{},
		Enemies:  map[string]*EnemyDef{},
		Scripts:  map[string]*BossScriptDef{},
		Defaults: Defaults{LightStaveDamage: 4, HeavyStaveDamage: 7},
	}

	var mf movesetListFile
	if err := loadYAML(filepath.Join(dir, movesetsFile), &mf); err != nil {
		return nil, err
	}
	for _, m := range mf.Movesets {
		if _, dup := r.Movesets[m.ID]; dup {
			return nil, fmt.Errorf("moveset %q: duplicate id", m.ID)
		}
		r.Movesets[m.ID] = m
	}

	var wf weaponListFile
	if err := loadYAML(filepath.Join(dir, weaponsFile), &wf); err != nil {
		return nil, err
	}
	for _, w := range wf.Weapons {
		if _, dup := r.Weapons[w.ID]; dup {
			return nil, fmt.Errorf("weapon %q: duplicate id", w.ID)
		}
		// Multipliers default to identity when omitted.
		if w.DamageMult == 0 {
			w.DamageMult = 1.0
		}
		if w.KnockbackMult == 0 {
			w.KnockbackMult = 1.0
		}
		r.Weapons[w.ID] = w
	}

	var ef enemyListFile
	if err := loadYAML(filepath.Join(dir, enemiesFile), &ef); err != nil {
		return nil, err
	}
	for _, e := range ef.Enemies {
		if _, dup := r.Enemies[e.ID]; dup {
			return nil, fmt.Errorf("enemy %q: duplicate id", e.ID)
		}
		r.Enemies[e.ID] = e
	}

	var sf scriptListFile
	if err := loadYAML(filepath.Join(dir, scriptsFile), &sf); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	for _, s := range sf.Scripts {
		if _, dup := r.Scripts[s.ID]; dup {
			return nil, fmt.Errorf("boss script %q: duplicate id", s.ID)
		}
		r.Scripts[s.ID] = s
	}

	var df Defaults
	if err := loadYAML(filepath.Join(dir, defaultsFile), &df); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		r.Defaults = df
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks every cross-reference and structural rule in the
// registry. It returns the first problem found, always naming the offending
// identifier so content authors can fix the file.
func (r *Registry) Validate() error {
	if r.Defaults.LightStaveDamage <= 0 || r.Defaults.HeavyStaveDamage <= 0 {
		return fmt.Errorf("defaults: stave damage anchors must be positive")
	}

	for id, m := range r.Movesets {
		if len(m.Light) == 0 && len(m.Heavy) == 0 && len(m.Special) == 0 {
			return fmt.Errorf("moveset %q: no strikes defined", id)
		}
		for _, kind := range []StrikeKind{StrikeLight, StrikeHeavy, StrikeSpecial} {
			for i, s := range m.Strikes(kind) {
				if err := validateStrike(s); err != nil {
					return fmt.Errorf("moveset %q: %s[%d]: %w", id, kind, i, err)
				}
			}
		}
	}

	for id, w := range r.Weapons {
		if _, ok := r.Movesets[w.Moveset]; !ok {
			return fmt.Errorf("weapon %q: unknown moveset %q", id, w.Moveset)
		}
		if w.DamageMult <= 0 || w.KnockbackMult <= 0 {
			return fmt.Errorf("weapon %q: multipliers must be positive", id)
		}
		for kind, chain := range w.Overrides {
			if kind != StrikeLight && kind != StrikeHeavy && kind != StrikeSpecial {
				return fmt.Errorf("weapon %q: unknown strike kind %q in overrides", id, kind)
			}
			for i, s := range chain {
				if err := validateStrike(s); err != nil {
					return fmt.Errorf("weapon %q: override %s[%d]: %w", id, kind, i, err)
				}
			}
		}
	}

	for id, e := range r.Enemies {
		switch e.Tier {
		case TierMinor, TierMajor, TierSpecial, TierBoss:
		default:
			return fmt.Errorf("enemy %q: unknown tier %q", id, e.Tier)
		}
		if e.BaseHealth <= 0 {
			return fmt.Errorf("enemy %q: base_health must be positive", id)
		}
		if e.BaseStance < 0 {
			return fmt.Errorf("enemy %q: base_stance must not be negative", id)
		}
		if _, ok := r.Weapons[e.Weapon]; !ok {
			return fmt.Errorf("enemy %q: unknown weapon %q", id, e.Weapon)
		}
		if e.Tier == TierBoss {
			if e.Script == "" {
				return fmt.Errorf("enemy %q: boss tier requires a script", id)
			}
			script, ok := r.Scripts[e.Script]
			if !ok {
				return fmt.Errorf("enemy %q: unknown boss script %q", id, e.Script)
			}
			if err := r.validateScript(script, e); err != nil {
				return err
			}
		} else if e.Script != "" {
			return fmt.Errorf("enemy %q: script %q set on non-boss tier", id, e.Script)
		}
	}

	return nil
}

func validateStrike(s StrikeDef) error {
	if s.ID == "" {
		return fmt.Errorf("strike has no id")
	}
	if s.Damage < 0 || s.StaveDamage < 0 {
		return fmt.Errorf("strike %q: damage values must not be negative", s.ID)
	}
	if s.StartupTicks < 0 || s.ActiveTicks < 1 || s.RecoveryTicks < 0 || s.CooldownTicks < 0 {
		return fmt.Errorf("strike %q: bad phase durations", s.ID)
	}
	if s.Hitbox.Length <= 0 || s.Hitbox.Width <= 0 {
		return fmt.Errorf("strike %q: hitbox must have positive extent", s.ID)
	}
	if s.CanParry {
		if s.ParryOpenTick < 0 || s.ParryCloseTick <= s.ParryOpenTick || s.ParryCloseTick > s.ActiveTicks {
			return fmt.Errorf("strike %q: parry window outside active phase", s.ID)
		}
	}
	return nil
}

func (r *Registry) validateScript(script *BossScriptDef, boss *EnemyDef) error {
	if len(script.Phases) == 0 {
		return fmt.Errorf("boss script %q: no phases", script.ID)
	}
	prev := 1.1
	for i, p := range script.Phases {
		if p.HealthBelow <= 0 || p.HealthBelow > 1.0 {
			return fmt.Errorf("boss script %q: phase %d: health_below out of (0,1]", script.ID, i)
		}
		if p.HealthBelow >= prev && i > 0 {
			return fmt.Errorf("boss script %q: phase %d: health_below must decrease", script.ID, i)
		}
		prev = p.HealthBelow
		if p.Mode != PhaseModeOrdered && p.Mode != PhaseModeWeighted {
			return fmt.Errorf("boss script %q: phase %d: unknown mode %q", script.ID, i, p.Mode)
		}
		if len(p.Sequences) == 0 {
			return fmt.Errorf("boss script %q: phase %d: no sequences", script.ID, i)
		}
		for _, seq := range p.Sequences {
			if len(seq.Steps) == 0 {
				return fmt.Errorf("boss script %q: sequence %q: no steps", script.ID, seq.Name)
			}
			if p.Mode == PhaseModeWeighted && seq.Weight <= 0 {
				return fmt.Errorf("boss script %q: sequence %q: weighted mode requires a positive weight", script.ID, seq.Name)
			}
			for _, step := range seq.Steps {
				switch step.Kind {
				case StepTelegraph, StepWait, StepRecover:
					if step.Ticks <= 0 {
						return fmt.Errorf("boss script %q: sequence %q: %s step needs positive ticks", script.ID, seq.Name, step.Kind)
					}
				case StepStrike:
					if _, ok := r.ResolveStrike(boss.Weapon, step.Strike, 0); !ok {
						return fmt.Errorf("boss script %q: sequence %q: weapon %q has no %q strike", script.ID, seq.Name, boss.Weapon, step.Strike)
					}
				default:
					return fmt.Errorf("boss script %q: sequence %q: unknown step kind %q", script.ID, seq.Name, step.Kind)
				}
			}
		}
	}
	return nil
}
