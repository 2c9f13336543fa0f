package game

import "math"

// ShotInput is the normalized swing a client submits. Power is clamped
// server-side to [0,100]; angle is in degrees and spin is a unitless factor
// that bends the shot.
type ShotInput struct {
	Power float64 `json:"power"`
	Angle float64 `json:"angle"`
	Spin  float64 `json:"spin"`
}

// Environment describes course conditions for a single shot. The zero value
// is a calm course: no wind, no slope.
type Environment struct {
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection float64 `json:"wind_direction"` // degrees
	Slope         float64 `json:"slope"`
}

// ShotResult is the outcome of one resolved shot.
type ShotResult struct {
	NewPosition    Vec2    `json:"new_position"`
	IsInHole       bool    `json:"is_in_hole"`
	DistanceToHole float64 `json:"distance_to_hole"`
	Trajectory     []Vec2  `json:"trajectory"`
}

// ResolveShot computes where a ball ends up. Pure function: same inputs
// always produce the same result, and nothing outside the return value is
// touched.
//
// The model is a flat-surface approximation:
//   - carry = power/100 * MaxShotDistance
//   - spin bends the launch angle by spin*SpinCoefficient degrees
//   - wind adds windSpeed*WindCoefficient*cos(windDir) to the carry
//   - slope scales the carry by (1 + slope*SlopeCoefficient)
//
// Y grows downward to match screen coordinates, so the displacement along
// the launch angle inverts the vertical axis.
func ResolveShot(shot ShotInput, origin, hole Vec2, env Environment) ShotResult {
	power := shot.Power
	if power < 0 {
		power = 0
	}
	if power > 100 {
		power = 100
	}

	distance := (power / 100) * MaxShotDistance

	effectiveAngle := shot.Angle + shot.Spin*SpinCoefficient

	windRad := env.WindDirection * math.Pi / 180
	distance += env.WindSpeed * WindCoefficient * math.Cos(windRad)

	distance *= 1 + env.Slope*SlopeCoefficient

	rad := effectiveAngle * math.Pi / 180
	newPos := NewVec2(
		origin.X+math.Cos(rad)*distance,
		origin.Y-math.Sin(rad)*distance,
	)

	distToHole := newPos.DistanceTo(hole)

	return ShotResult{
		NewPosition:    newPos,
		IsInHole:       distToHole < CaptureRadius,
		DistanceToHole: distToHole,
		Trajectory:     buildTrajectory(origin, newPos),
	}
}

// buildTrajectory samples a straight origin->landing line with a parabolic
// vertical offset for the client-side arc animation. Cosmetic only: the
// server never reads these points back.
func buildTrajectory(origin, landing Vec2) []Vec2 {
	points := make([]Vec2, 0, TrajectoryPoints)
	for i := 1; i <= TrajectoryPoints; i++ {
		t := float64(i) / TrajectoryPoints
		p := origin.Lerp(landing, t)
		p.Y = fix(p.Y - ArcHeight*t*(1-t))
		points = append(points, p)
	}
	return points
}
