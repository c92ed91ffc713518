package content

// DefaultRegistry returns the compiled-in baseline catalogs. The simulation
// runs against these when no content directory is configured; external
// YAML catalogs replace them wholesale.
//
// Baseline stance arithmetic: stance pools are multiples of 28, light hits
// stave 4 and heavy hits stave 7, so a fresh 28-point meter breaks after
// exactly 7 lights or 4 heavies.
func DefaultRegistry() *Registry {
	r := &Registry{
		Movesets: map[string]*MovesetDef{},
		Weapons:  map[string]*WeaponDef{},
		Enemies:  map[string]*EnemyDef{},
		Scripts:  map[string]*BossScriptDef{},
		Defaults: Defaults{
			LightStaveDamage: 4,
			HeavyStaveDamage: 7,
		},
	}

	swordBasic := &MovesetDef{
		ID:       "moveset_sword_basic",
		Category: "sword",
		Light: []StrikeDef{
			{
				ID: "sword_light_1", Damage: 8, StaveDamage: 4, Knockback: 150,
				StartupTicks: 3, ActiveTicks: 4, RecoveryTicks: 6, CooldownTicks: 4,
				Hitbox: HitboxDef{OffsetX: 28, Length: 45, Width: 35},
			},
			{
				ID: "sword_light_2", Damage: 9, StaveDamage: 4, Knockback: 150,
				StartupTicks: 3, ActiveTicks: 4, RecoveryTicks: 6, CooldownTicks: 4,
				Hitbox: HitboxDef{OffsetX: 28, Length: 45, Width: 35},
			},
			{
				ID: "sword_light_3", Damage: 12, StaveDamage: 5, Knockback: 220,
				StartupTicks: 4, ActiveTicks: 4, RecoveryTicks: 8, CooldownTicks: 6,
				Hitbox: HitboxDef{OffsetX: 32, Length: 50, Width: 35},
			},
		},
		Heavy: []StrikeDef{
			{
				ID: "sword_heavy_1", Damage: 25, StaveDamage: 7, Knockback: 400,
				StartupTicks: 8, ActiveTicks: 5, RecoveryTicks: 12, CooldownTicks: 12,
				Hitbox: HitboxDef{OffsetX: 32, Length: 50, Width: 45},
			},
			{
				ID: "sword_heavy_2", Damage: 32, StaveDamage: 9, Knockback: 520,
				StartupTicks: 10, ActiveTicks: 5, RecoveryTicks: 14, CooldownTicks: 16,
				Hitbox: HitboxDef{OffsetX: 35, Length: 55, Width: 45},
			},
		},
		Special: []StrikeDef{
			{
				// Riposte stance: the parry window spans the whole active phase.
				ID: "sword_riposte", Damage: 6, StaveDamage: 2, Knockback: 100,
				StartupTicks: 2, ActiveTicks: 10, RecoveryTicks: 10, CooldownTicks: 18,
				Hitbox:   HitboxDef{OffsetX: 24, Length: 40, Width: 35},
				CanParry: true, ParryOpenTick: 0, ParryCloseTick: 10,
			},
		},
	}

	claw := &MovesetDef{
		ID:       "moveset_claw",
		Category: "claw",
		Light: []StrikeDef{
			{
				ID: "claw_swipe", Damage: 15, StaveDamage: 0, Knockback: 300,
				StartupTicks: 6, ActiveTicks: 4, RecoveryTicks: 8, CooldownTicks: 30,
				Hitbox: HitboxDef{OffsetX: 25, Length: 35, Width: 35},
			},
		},
		Heavy: []StrikeDef{
			{
				ID: "claw_lunge", Damage: 22, StaveDamage: 0, Knockback: 450,
				StartupTicks: 12, ActiveTicks: 5, RecoveryTicks: 14, CooldownTicks: 60,
				Hitbox: HitboxDef{OffsetX: 40, Length: 55, Width: 40},
			},
		},
	}

	maul := &MovesetDef{
		ID:       "moveset_maul",
		Category: "maul",
		Light: []StrikeDef{
			{
				ID: "maul_swing", Damage: 15, StaveDamage: 0, Knockback: 300,
				StartupTicks: 9, ActiveTicks: 6, RecoveryTicks: 12, CooldownTicks: 40,
				Hitbox: HitboxDef{OffsetX: 40, Length: 50, Width: 50},
			},
		},
		Heavy: []StrikeDef{
			{
				ID: "maul_sweep", Damage: 20, StaveDamage: 0, Knockback: 400,
				StartupTicks: 12, ActiveTicks: 9, RecoveryTicks: 15, CooldownTicks: 75,
				Hitbox: HitboxDef{OffsetX: 0, Length: 120, Width: 60},
			},
		},
		Special: []StrikeDef{
			{
				ID: "maul_slam", Damage: 40, StaveDamage: 0, Knockback: 600,
				StartupTicks: 24, ActiveTicks: 6, RecoveryTicks: 30, CooldownTicks: 150,
				Hitbox: HitboxDef{OffsetX: 0, OffsetY: -30, Length: 200, Width: 40},
			},
		},
	}

	r.Movesets[swordBasic.ID] = swordBasic
	r.Movesets[claw.ID] = claw
	r.Movesets[maul.ID] = maul

	for _, w := range []*WeaponDef{
		{ID: "rusted_sword", Moveset: "moveset_sword_basic", DamageMult: 1.0, KnockbackMult: 1.0},
		{
			ID: "ember_sword", Moveset: "moveset_sword_basic", DamageMult: 1.3, KnockbackMult: 1.1,
			// The ember finisher replaces the third light tier with a burn swipe.
			Overrides: map[StrikeKind][]StrikeDef{
				StrikeLight: {
					swordBasic.Light[0],
					swordBasic.Light[1],
					{
						ID: "ember_light_3", Damage: 16, StaveDamage: 6, Knockback: 260,
						StartupTicks: 4, ActiveTicks: 5, RecoveryTicks: 8, CooldownTicks: 8,
						Hitbox: HitboxDef{OffsetX: 34, Length: 55, Width: 38},
					},
				},
			},
		},
		{ID: "husk_claws", Moveset: "moveset_claw", DamageMult: 1.0, KnockbackMult: 1.0},
		{ID: "warden_maul", Moveset: "moveset_maul", DamageMult: 1.0, KnockbackMult: 1.0},
	} {
		r.Weapons[w.ID] = w
	}

	for _, e := range []*EnemyDef{
		{
			ID: "husk", Tier: TierMinor, BaseHealth: 40, BaseStance: 28,
			MoveSpeed: 80, AggroRange: 200, AttackRange: 40, PatrolRange: 100,
			Weapon: "husk_claws",
		},
		{
			ID: "husk_warden", Tier: TierMajor, BaseHealth: 60, BaseStance: 56,
			MoveSpeed: 70, AggroRange: 240, AttackRange: 55, PatrolRange: 120,
			Weapon: "husk_claws",
		},
		{
			ID: "gravebound", Tier: TierSpecial, BaseHealth: 75, BaseStance: 84,
			MoveSpeed: 90, AggroRange: 280, AttackRange: 60, PatrolRange: 140,
			Weapon: "warden_maul",
		},
		{
			ID: "ashen_king", Tier: TierBoss, BaseHealth: 100, BaseStance: 112,
			MoveSpeed: 60, AggroRange: 600, AttackRange: 90, PatrolRange: 0,
			Weapon: "warden_maul", Script: "script_ashen_king",
		},
	} {
		r.Enemies[e.ID] = e
	}

	r.Scripts["script_ashen_king"] = &BossScriptDef{
		ID: "script_ashen_king",
		Phases: []PhaseDef{
			{
				HealthBelow: 1.0, Mode: PhaseModeOrdered,
				Sequences: []SequenceDef{
					{
						Name: "probe", CooldownTicks: 45,
						Steps: []StepDef{
							{Kind: StepTelegraph, Ticks: 12},
							{Kind: StepStrike, Strike: StrikeLight},
							{Kind: StepRecover, Ticks: 15},
						},
					},
					{
						Name: "sweep", CooldownTicks: 75,
						Steps: []StepDef{
							{Kind: StepTelegraph, Ticks: 12},
							{Kind: StepStrike, Strike: StrikeHeavy},
							{Kind: StepRecover, Ticks: 15},
						},
					},
				},
			},
			{
				HealthBelow: 0.5, Mode: PhaseModeWeighted,
				Sequences: []SequenceDef{
					{
						Name: "sweep", Weight: 3, CooldownTicks: 60,
						Steps: []StepDef{
							{Kind: StepTelegraph, Ticks: 10},
							{Kind: StepStrike, Strike: StrikeHeavy},
							{Kind: StepRecover, Ticks: 12},
						},
					},
					{
						Name: "slam", Weight: 1, CooldownTicks: 150,
						Steps: []StepDef{
							{Kind: StepTelegraph, Ticks: 24},
							{Kind: StepStrike, Strike: StrikeSpecial},
							{Kind: StepRecover, Ticks: 30},
						},
					},
				},
			},
			{
				HealthBelow: 0.25, StanceBreaks: 3, Mode: PhaseModeWeighted,
				Sequences: []SequenceDef{
					{
						Name: "flurry", Weight: 2, CooldownTicks: 60,
						Steps: []StepDef{
							{Kind: StepTelegraph, Ticks: 8},
							{Kind: StepStrike, Strike: StrikeLight},
							{Kind: StepWait, Ticks: 6},
							{Kind: StepStrike, Strike: StrikeHeavy},
							{Kind: StepRecover, Ticks: 12},
						},
					},
					{
						Name: "slam", Weight: 1, CooldownTicks: 120,
						Steps: []StepDef{
							{Kind: StepTelegraph, Ticks: 20},
							{Kind: StepStrike, Strike: StrikeSpecial},
							{Kind: StepRecover, Ticks: 24},
						},
					},
				},
			},
		},
	}

	return r
}
