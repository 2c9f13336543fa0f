package game

import (
	"math"
	"testing"
)

func calm() Environment {
	return Environment{}
}

func TestStraightShotMovesAlongAngle(t *testing.T) {
	// Power 50, angle 0: half of max carry, due east
	origin := NewVec2(100, 500)
	hole := NewVec2(700, 200)

	result := ResolveShot(ShotInput{Power: 50, Angle: 0, Spin: 0}, origin, hole, calm())

	if result.NewPosition.X != 500 || result.NewPosition.Y != 500 {
		t.Errorf("Expected landing at (500,500), got (%.4f,%.4f)", result.NewPosition.X, result.NewPosition.Y)
	}
	if result.IsInHole {
		t.Error("Ball should not be in the hole from mid-fairway")
	}

	wantDist := math.Sqrt(200*200 + 300*300)
	if math.Abs(result.DistanceToHole-wantDist) > 0.001 {
		t.Errorf("Expected distance to hole %.4f, got %.4f", wantDist, result.DistanceToHole)
	}
}

func TestPowerIsClamped(t *testing.T) {
	origin := NewVec2(100, 500)
	hole := NewVec2(700, 200)

	over := ResolveShot(ShotInput{Power: 250, Angle: 0}, origin, hole, calm())
	full := ResolveShot(ShotInput{Power: 100, Angle: 0}, origin, hole, calm())
	if !over.NewPosition.IsEqualTo(full.NewPosition) {
		t.Errorf("Power above 100 should clamp to full carry: got (%.4f,%.4f) vs (%.4f,%.4f)",
			over.NewPosition.X, over.NewPosition.Y, full.NewPosition.X, full.NewPosition.Y)
	}

	under := ResolveShot(ShotInput{Power: -10, Angle: 0}, origin, hole, calm())
	if !under.NewPosition.IsEqualTo(origin) {
		t.Errorf("Negative power should clamp to zero carry: got (%.4f,%.4f)", under.NewPosition.X, under.NewPosition.Y)
	}
}

func TestVerticalAxisIsInverted(t *testing.T) {
	// Positive angle aims "up" on screen, which is decreasing Y
	origin := NewVec2(100, 500)
	hole := NewVec2(700, 200)

	result := ResolveShot(ShotInput{Power: 50, Angle: 90}, origin, hole, calm())

	if result.NewPosition.Y >= origin.Y {
		t.Errorf("Angle 90 should move the ball up the screen: y=%.4f (origin y=%.4f)", result.NewPosition.Y, origin.Y)
	}
	if math.Abs(result.NewPosition.X-origin.X) > 0.001 {
		t.Errorf("Angle 90 should not move the ball horizontally: x=%.4f", result.NewPosition.X)
	}
}

func TestSpinBendsShot(t *testing.T) {
	origin := NewVec2(100, 500)
	hole := NewVec2(700, 200)

	flat := ResolveShot(ShotInput{Power: 80, Angle: 0, Spin: 0}, origin, hole, calm())
	drawn := ResolveShot(ShotInput{Power: 80, Angle: 0, Spin: 10}, origin, hole, calm())

	if drawn.NewPosition.Y >= flat.NewPosition.Y {
		t.Errorf("Positive spin should bend the shot upward: flat y=%.4f drawn y=%.4f", flat.NewPosition.Y, drawn.NewPosition.Y)
	}
}

func TestWindIsAdditive(t *testing.T) {
	origin := NewVec2(100, 500)
	hole := NewVec2(700, 200)

	calmShot := ResolveShot(ShotInput{Power: 50, Angle: 0}, origin, hole, calm())
	tailwind := ResolveShot(ShotInput{Power: 50, Angle: 0}, origin, hole, Environment{WindSpeed: 10, WindDirection: 0})

	gained := tailwind.NewPosition.X - calmShot.NewPosition.X
	want := 10 * WindCoefficient
	if math.Abs(gained-want) > 0.001 {
		t.Errorf("Tailwind should add %.1f units of carry, added %.4f", want, gained)
	}

	// Wind blowing at 180 degrees subtracts the same amount
	headwind := ResolveShot(ShotInput{Power: 50, Angle: 0}, origin, hole, Environment{WindSpeed: 10, WindDirection: 180})
	lost := calmShot.NewPosition.X - headwind.NewPosition.X
	if math.Abs(lost-want) > 0.001 {
		t.Errorf("Headwind should remove %.1f units of carry, removed %.4f", want, lost)
	}
}

func TestSlopeScalesCarry(t *testing.T) {
	origin := NewVec2(100, 500)
	hole := NewVec2(700, 200)

	flat := ResolveShot(ShotInput{Power: 50, Angle: 0}, origin, hole, calm())
	downhill := ResolveShot(ShotInput{Power: 50, Angle: 0}, origin, hole, Environment{Slope: 1})

	flatCarry := flat.NewPosition.X - origin.X
	downhillCarry := downhill.NewPosition.X - origin.X
	want := flatCarry * (1 + SlopeCoefficient)
	if math.Abs(downhillCarry-want) > 0.001 {
		t.Errorf("Slope 1 should scale carry to %.4f, got %.4f", want, downhillCarry)
	}
}

func TestCaptureRadiusBoundary(t *testing.T) {
	// Straight east toward the hole: landing distance is origin.X + carry
	origin := NewVec2(100, 200)
	hole := NewVec2(700, 200)

	// Carry 575 lands at x=675, exactly 25 units short: on the boundary is out
	onBoundary := ResolveShot(ShotInput{Power: 71.875, Angle: 0}, origin, hole, calm())
	if onBoundary.IsInHole {
		t.Errorf("Landing exactly on the capture radius should be out (dist=%.4f)", onBoundary.DistanceToHole)
	}

	// Carry 575.2 lands at 24.8 units: inside
	justInside := ResolveShot(ShotInput{Power: 71.9, Angle: 0}, origin, hole, calm())
	if !justInside.IsInHole {
		t.Errorf("Landing inside the capture radius should be in (dist=%.4f)", justInside.DistanceToHole)
	}
}

func TestTrajectoryShape(t *testing.T) {
	origin := NewVec2(100, 500)
	hole := NewVec2(700, 200)

	result := ResolveShot(ShotInput{Power: 75, Angle: 10}, origin, hole, calm())

	if len(result.Trajectory) != TrajectoryPoints {
		t.Fatalf("Expected %d trajectory points, got %d", TrajectoryPoints, len(result.Trajectory))
	}

	// The final sample is the landing point itself
	last := result.Trajectory[len(result.Trajectory)-1]
	if !last.IsEqualTo(result.NewPosition) {
		t.Errorf("Last trajectory point (%.4f,%.4f) should equal landing (%.4f,%.4f)",
			last.X, last.Y, result.NewPosition.X, result.NewPosition.Y)
	}

	// Mid-flight samples sit above the straight line (arc offset pulls Y up)
	mid := result.Trajectory[TrajectoryPoints/2-1]
	lineMid := origin.Lerp(result.NewPosition, 0.5)
	if mid.Y >= lineMid.Y {
		t.Errorf("Mid-flight sample should arc above the straight line: y=%.4f line y=%.4f", mid.Y, lineMid.Y)
	}
}

func TestDeterminism(t *testing.T) {
	// Same input should always produce the same output
	shot := ShotInput{Power: 63.5, Angle: 17.25, Spin: -4}
	origin := NewVec2(100, 500)
	hole := NewVec2(700, 200)
	env := Environment{WindSpeed: 6, WindDirection: 45, Slope: -0.5}

	r1 := ResolveShot(shot, origin, hole, env)
	r2 := ResolveShot(shot, origin, hole, env)

	if !r1.NewPosition.IsEqualTo(r2.NewPosition) || r1.IsInHole != r2.IsInHole {
		t.Errorf("Non-deterministic result: (%.4f,%.4f,%v) vs (%.4f,%.4f,%v)",
			r1.NewPosition.X, r1.NewPosition.Y, r1.IsInHole,
			r2.NewPosition.X, r2.NewPosition.Y, r2.IsInHole)
	}
	for i := range r1.Trajectory {
		if !r1.Trajectory[i].IsEqualTo(r2.Trajectory[i]) {
			t.Errorf("Non-deterministic trajectory at point %d", i)
		}
	}
}

func TestNeutralEnvironmentIsDefault(t *testing.T) {
	origin := NewVec2(100, 500)
	hole := NewVec2(700, 200)

	zeroed := ResolveShot(ShotInput{Power: 40, Angle: 30}, origin, hole, Environment{WindSpeed: 0, WindDirection: 0, Slope: 0})
	missing := ResolveShot(ShotInput{Power: 40, Angle: 30}, origin, hole, calm())

	if !zeroed.NewPosition.IsEqualTo(missing.NewPosition) {
		t.Error("Zero-valued environment should behave identically to an absent one")
	}
}
