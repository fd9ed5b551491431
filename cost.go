package bikeroute

// Package-level constant tables for the bicycle cost model (§4.3). The
// cost function built from them is pure and deterministic (property P3):
// it reads only its edge and profile arguments, never package state.

// kGradeBasedSpeedFactor is indexed by weighted grade 0..15 (§4.3).
var kGradeBasedSpeedFactor = [16]float64{
	2.2, 2.0, 1.9, 1.7, 1.4, 1.2, 1.0, 0.95,
	0.85, 0.75, 0.65, 0.55, 0.5, 0.45, 0.4, 0.3,
}

// kSurfaceSpeedFactor[bicycleType][surfaceClass 0..7] (§4.3).
var kSurfaceSpeedFactor = [4][8]float64{
	{1.0, 1.0, 0.9, 0.6, 0.5, 0.3, 0.2, 0.0},
	{1.0, 1.0, 1.0, 0.8, 0.7, 0.5, 0.4, 0.0},
	{1.0, 1.0, 1.0, 0.8, 0.6, 0.4, 0.25, 0.0},
	{1.0, 1.0, 1.0, 1.0, 0.9, 0.75, 0.55, 0.0},
}

// effectiveGrade applies the "0 means flat (7)" default from §3.
func effectiveGrade(e DirectedEdge) int {
	g := int(e.WeightedGrade())
	if g == 0 {
		g = 7
	}
	if g > 15 {
		g = 15
	}
	return g
}

// effectiveDefaultSpeed applies the "0 means 15 km/h" default from §3.
func effectiveDefaultSpeed(e DirectedEdge) float64 {
	s := e.DefaultSpeedKMH()
	if s == 0 {
		return 15
	}
	return float64(s)
}

// effectiveLaneCount applies the "0 means 1" default from §3.
func effectiveLaneCount(e DirectedEdge) int {
	n := int(e.LaneCount())
	if n == 0 {
		return 1
	}
	return n
}

// cyclingSpeedKMH derives the rider's travel speed over an edge (§4.3):
// kBaseSpeed[b] * kSurfaceSpeedFactor[b][min(surface,7)] *
// kGradeBasedSpeedFactor[grade], clamped to [4,40], with a flat 5.1 km/h
// override when the edge is flagged dismount.
func cyclingSpeedKMH(e DirectedEdge, bicycleType int) float64 {
	if e.Dismount() {
		return 5.1
	}

	b := normalizeBicycleType(bicycleType)
	surface := int(e.SurfaceClass())
	if surface > 7 {
		surface = 7
	}

	speed := kBaseSpeed[b] * kSurfaceSpeedFactor[b][surface] * kGradeBasedSpeedFactor[effectiveGrade(e)]

	if speed < 4 {
		speed = 4
	}
	if speed > 40 {
		speed = 40
	}
	return speed
}

// surfaceAllowed reports whether the edge's surface class is within the
// rider's worst-tolerated surface (§4.3, §4.6 step 3).
func surfaceAllowed(e DirectedEdge, bicycleType int) bool {
	return e.SurfaceClass() <= worstAllowedSurface(bicycleType)
}

// pedestrianMultiplier returns the §4.3 pedestrian-only-edge multiplier
// (has-ped without has-bike), 1.0 for any other edge.
func pedestrianMultiplier(e DirectedEdge, avoidPushing bool) float64 {
	if e.HasPed() && !e.HasBike() {
		if avoidPushing {
			return 5.0
		}
		return 2.0
	}
	return 1.0
}

// edgeCost computes the time cost, in seconds, of traversing e under
// profile (§4.3). It is the core of property P3: calling it repeatedly
// with the same arguments, in any order, always returns the same value.
//
// This is the §4.3 preference-multiplier cost only. The search driver
// (§4.6 step 4) applies a second, independent pedestrian multiplier on top
// of this value — a deliberate doubling carried over unchanged from the
// source engine's behaviour, not a bug to paper over.
func edgeCost(e DirectedEdge, profile RiderProfile) float64 {
	length := float64(e.LengthMeters())
	useClass := e.UseClass()

	if useClass == UseSteps {
		return length * (3.6 / 4) * 3
	}

	speed := cyclingSpeedKMH(e, profile.BicycleType)

	if useClass == UseFerry {
		return length * (3.6 / speed) * 1.2
	}

	time := length / (speed / 3.6)
	mult := 1.0

	switch useClass {
	case UseCycleway, UseTrack:
		mult *= 0.90
	case UseMountainBike:
		if normalizeBicycleType(profile.BicycleType) == BicycleMountain {
			mult *= 0.85
		}
	case UsePath, UseFootway:
		mult *= 0.95
	case UseLivingStreet:
		mult *= 0.95
	case UseRoad:
		roadFactor := 1 + (1-clamp01(profile.UseRoads))*0.15
		if e.CycleLane() >= 2 {
			roadFactor -= 0.10
		}
		mult *= roadFactor
	}

	if e.BikeNetwork() {
		mult *= 0.95
	}

	mult *= pedestrianMultiplier(e, profile.AvoidPushing)

	if profile.AvoidCars && e.HasCar() {
		switch useClass {
		case UseTrack, UseLivingStreet, UseServiceRoad:
			mult *= 1.05
		default:
			mult *= 1 + carStress(e)*0.5
		}
	}

	return time * mult
}

// carStress implements the §4.3 avoid_cars stress heuristic, clamped to
// [0.1, 1.0]. It reads the edge's legal/default speed (posted limit
// context for car traffic), not the rider's derived cycling speed.
func carStress(e DirectedEdge) float64 {
	defaultSpeed := effectiveDefaultSpeed(e)

	stress := 0.2
	if defaultSpeed > 50 {
		stress += 0.3
	}
	if defaultSpeed > 70 {
		stress += 0.3
	}
	if e.Classification() <= 2 {
		stress += 0.2
	}
	if effectiveLaneCount(e) >= 2 {
		stress += 0.1
	}
	if e.CycleLane() >= 2 {
		stress -= 0.3
	}

	if stress < 0.1 {
		stress = 0.1
	}
	if stress > 1.0 {
		stress = 1.0
	}
	return stress
}
