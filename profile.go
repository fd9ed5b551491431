package bikeroute

// Bicycle type codes (§3).
const (
	BicycleRoad     = 0
	BicycleCross    = 1
	BicycleHybrid   = 2
	BicycleMountain = 3
)

// RiderProfile carries the five recognised rider options (§3). All fields
// have safe zero-value-compatible meanings except BicycleType, which must
// be one of the four codes above; use DefaultProfile to get the
// documented defaults (§6) before overriding individual fields.
type RiderProfile struct {
	BicycleType int
	UseRoads    float64 // [0,1]
	// UseHills is accepted and defaulted per §6 but does not feed into
	// cost.go: the grade penalty there follows the pinned exact
	// kGradeBasedSpeedFactor table, which has no use_hills term.
	UseHills     float64 // [0,1]
	AvoidPushing bool
	AvoidCars    bool
}

// DefaultProfile returns the documented default rider profile (§6):
// use_roads = 0.25, use_hills = 0.25, bicycle_type = mountain,
// avoid_pushing = false, avoid_cars = false.
func DefaultProfile() RiderProfile {
	return RiderProfile{
		BicycleType: BicycleMountain,
		UseRoads:    0.25,
		UseHills:    0.25,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// normalizeBicycleType maps any unrecognised code to mountain (index 3),
// the most permissive row of every per-type table, so a bad profile value
// degrades to the least restrictive behaviour rather than panicking.
func normalizeBicycleType(bicycleType int) int {
	if bicycleType < BicycleRoad || bicycleType > BicycleMountain {
		return BicycleMountain
	}
	return bicycleType
}

// kBaseSpeed, km/h, indexed by bicycle type (§4.3).
var kBaseSpeed = [4]float64{25, 20, 18, 16}

// baseSpeedKMH returns kBaseSpeed[bicycle_type] (§4.3).
func baseSpeedKMH(bicycleType int) float64 {
	return kBaseSpeed[normalizeBicycleType(bicycleType)]
}

// kWorstAllowedSurface, indexed by bicycle type (§4.3): edges with a
// surface class above this are rejected during expansion.
var kWorstAllowedSurface = [4]uint8{2, 3, 4, 6}

func worstAllowedSurface(bicycleType int) uint8 {
	return kWorstAllowedSurface[normalizeBicycleType(bicycleType)]
}
