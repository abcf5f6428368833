package sim

// Gameplay balance constants. Carried over unchanged from
// original_source/comn/src/game/run.rs so that the determinism and
// test-vector requirements of spec.md §4.1/§8 hold exactly.
const (
	PlayerMoveSpeed         = 300.0
	PlayerSitW              = 40.0
	PlayerSitL              = 40.0
	PlayerMoveW             = 56.6
	PlayerMoveL             = 28.2
	PlayerShootPeriod       = 0.3
	PlayerAccelFactor       = 30.0
	PlayerDashCooldown      = 2.5
	PlayerDashDuration      = 0.6
	PlayerDashAccelFactor   = 40.0
	PlayerDashSpeed         = 850.0
	PlayerMaxLoseFood       = 5
	PlayerMinLoseFood       = 1
	PlayerTurnFactor        = 0.35
	PlayerDashTurnFactor    = 0.8
	PlayerSizeSkewFactor    = 20.0
	PlayerSizeSkew          = 0.5
	PlayerTurnDuration      = 0.5
	PlayerCatcherSizeScale  = 1.5
	PlayerSizeScaleFactor   = 10.0
	PlayerCatchFood         = 10
	PlayerTakeFoodSizeBump  = 25.0
	PlayerSizeBumpFactor    = 20.0
	PlayerTargetSizeBumpFac = 30.0
	PlayerMaxSizeBump       = 50.0

	HookShootSpeed         = 1200.0
	HookMaxShootDuration   = 0.6
	HookMinDistance        = 40.0
	HookPullSpeed          = 700.0
	HookMaxContractDurn    = 0.2
	HookContractSpeed      = 2000.0
	HookCooldown           = 0.5

	BulletMoveSpeed = 300.0
	BulletRadius    = 8.0
	// MagazineSize/ReloadDuration are carried over from the original
	// PlayerEntity layout but the shooting/reload state machine they fed
	// is explicitly out of contract (spec.md §9(b)); no phase writes them.
	MagazineSize    = 15
	ReloadDuration  = 2.0

	RocketRadius = 10.0

	TurretRadius       = 30.0
	TurretRange        = 400.0
	TurretShootPeriod  = 1.3
	TurretShootAngle   = 0.3
	TurretMaxTurnSpeed = 2.0
	TurretTurnFactor   = 0.1
	TurretSpawnOffset  = 12.0

	FoodSize            = 20.0
	FoodRotationSpeed   = 3.0
	FoodRespawnDuration = 5.0
	FoodMaxLifetime     = 10.0
	FoodMinSpeed        = 300.0
	FoodMaxSpeed        = 700.0
	FoodSpeedMinFactor  = 5.0
	FoodSpeedMaxFactor  = 10.0
)
