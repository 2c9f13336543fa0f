package game

// Course-scale constants for the flat-surface golf model.
// These MUST match the TypeScript constants in frontend/src/game/golf/constants.ts exactly.

const (
	MaxShotDistance  = 800.0 // full-power carry in course units
	SpinCoefficient  = 0.3   // degrees of bend per unit of spin
	WindCoefficient  = 2.0   // distance units per unit of wind speed
	SlopeCoefficient = 0.1   // fraction of distance per unit of slope
	CaptureRadius    = 25.0  // ball is in the hole inside this distance
	TrajectoryPoints = 20    // interpolated samples sent for animation
	ArcHeight        = 120.0 // peak of the cosmetic parabolic arc

	// Default hole layout (screen coordinates, Y grows downward)
	TeeX  = 100.0
	TeeY  = 500.0
	HoleX = 700.0
	HoleY = 200.0
)
