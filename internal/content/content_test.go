package content

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefaultRegistryValidates verifies the compiled-in catalogs pass the
// same validation external content goes through.
func TestDefaultRegistryValidates(t *testing.T) {
	if err := DefaultRegistry().Validate(); err != nil {
		t.Fatalf("default registry invalid: %v", err)
	}
}

// TestResolveStrikeBaseline verifies resolution against a plain weapon.
func TestResolveStrikeBaseline(t *testing.T) {
	r := DefaultRegistry()

	def, ok := r.ResolveStrike("rusted_sword", StrikeLight, 0)
	if !ok {
		t.Fatal("rusted_sword has no light strike")
	}
	if def.ID != "sword_light_1" {
		t.Errorf("expected sword_light_1, got %s", def.ID)
	}
	if def.Damage != 8 {
		t.Errorf("expected damage 8, got %v", def.Damage)
	}

	if _, ok := r.ResolveStrike("rusted_sword", StrikeLight, 3); ok {
		t.Error("combo tier past the chain resolved")
	}
	if _, ok := r.ResolveStrike("no_such_weapon", StrikeLight, 0); ok {
		t.Error("unknown weapon resolved")
	}
}

// TestResolveStrikeOverride verifies per-weapon overrides replace the
// moveset chain and the weapon multipliers still apply.
func TestResolveStrikeOverride(t *testing.T) {
	r := DefaultRegistry()

	def, ok := r.ResolveStrike("ember_sword", StrikeLight, 2)
	if !ok {
		t.Fatal("ember_sword has no third light tier")
	}
	if def.ID != "ember_light_3" {
		t.Errorf("expected ember_light_3, got %s", def.ID)
	}
	if math.Abs(def.Damage-16*1.3) > 1e-9 {
		t.Errorf("expected damage %.2f, got %v", 16*1.3, def.Damage)
	}
	if math.Abs(def.Knockback-260*1.1) > 1e-9 {
		t.Errorf("expected knockback %.2f, got %v", 260*1.1, def.Knockback)
	}
}

// TestComboLength verifies chain lengths for baseline and override paths.
func TestComboLength(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		weapon string
		kind   StrikeKind
		want   int
	}{
		{"rusted_sword", StrikeLight, 3},
		{"rusted_sword", StrikeHeavy, 2},
		{"ember_sword", StrikeLight, 3},
		{"husk_claws", StrikeSpecial, 0},
		{"no_such_weapon", StrikeLight, 0},
	}
	for _, tt := range tests {
		if got := r.ComboLength(tt.weapon, tt.kind); got != tt.want {
			t.Errorf("ComboLength(%s, %s) = %d, want %d", tt.weapon, tt.kind, got, tt.want)
		}
	}
}

// TestValidateNamesOffender verifies every validation failure names the
// broken identifier so content authors can find it.
func TestValidateNamesOffender(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Registry)
		wantSub string
	}{
		{
			"weapon with unknown moveset",
			func(r *Registry) { r.Weapons["rusted_sword"].Moveset = "gone" },
			"rusted_sword",
		},
		{
			"enemy with unknown weapon",
			func(r *Registry) { r.Enemies["husk"].Weapon = "gone" },
			"husk",
		},
		{
			"boss without script",
			func(r *Registry) { r.Enemies["ashen_king"].Script = "" },
			"ashen_king",
		},
		{
			"script on a regular enemy",
			func(r *Registry) { r.Enemies["husk"].Script = "script_ashen_king" },
			"husk",
		},
		{
			"parry window past active phase",
			func(r *Registry) {
				ms := r.Movesets["moveset_sword_basic"]
				ms.Special[0].ParryCloseTick = ms.Special[0].ActiveTicks + 5
			},
			"sword_riposte",
		},
		{
			"phase thresholds not decreasing",
			func(r *Registry) { r.Scripts["script_ashen_king"].Phases[2].HealthBelow = 0.9 },
			"script_ashen_king",
		},
		{
			"weighted sequence without weight",
			func(r *Registry) { r.Scripts["script_ashen_king"].Phases[1].Sequences[0].Weight = 0 },
			"sweep",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRegistry()
			tt.mutate(r)
			err := r.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not name %q", err, tt.wantSub)
			}
		})
	}
}

// TestLoadFromDirectory round-trips a minimal content directory through
// the YAML loader.
func TestLoadFromDirectory(t *testing.T) {
	dir := t.TempDir()

	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	write("movesets.yaml", `
movesets:
  - id: jab_set
    category: fists
    light:
      - id: jab
        damage: 5
        stave_damage: 2
        knockback: 80
        startup_ticks: 2
        active_ticks: 3
        recovery_ticks: 4
        cooldown_ticks: 3
        hitbox: {offset_x: 20, length: 30, width: 25}
`)
	write("weapons.yaml", `
weapons:
  - id: bare_fists
    moveset: jab_set
`)
	write("enemies.yaml", `
enemies:
  - id: drifter
    tier: minor
    base_health: 25
    base_stance: 28
    move_speed: 90
    aggro_range: 180
    attack_range: 35
    patrol_range: 80
    weapon: bare_fists
`)

	r, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// omitted multipliers default to identity
	if r.Weapons["bare_fists"].DamageMult != 1.0 {
		t.Errorf("damage mult default = %v, want 1", r.Weapons["bare_fists"].DamageMult)
	}
	def, ok := r.ResolveStrike("bare_fists", StrikeLight, 0)
	if !ok || def.ID != "jab" {
		t.Fatalf("jab did not resolve: ok=%v def=%+v", ok, def)
	}
	if r.Enemies["drifter"].Tier != TierMinor {
		t.Errorf("tier = %q", r.Enemies["drifter"].Tier)
	}

	// a dangling reference fails the whole load
	write("enemies.yaml", `
enemies:
  - id: drifter
    tier: minor
    base_health: 25
    base_stance: 28
    weapon: missing_weapon
`)
	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "drifter") {
		t.Errorf("expected error naming drifter, got %v", err)
	}
}
