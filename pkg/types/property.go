package types

// StatFields are the PlayerPlane properties a caller may override. When no
// override is given, an added plane takes the value of the reference plane.
var StatFields = []string{
	"GunLoadCount",
	"MainWeaponLoadCount",
	"SpWeaponLoadCount1",
	"SpWeaponLoadCount2",
	"SpWeaponLoadCount3",
	"GraphAirToAir",
	"GraphAirToGround",
	"GraphSpeed",
	"GraphMobirity",
	"GraphStability",
	"GraphDefense",
	"PartsSlotBody",
	"PartsSlotArms",
	"PartsSlotMisc",
	"StealthLevel",
	"AircraftCost",
	"MaxHealth",
}

// GraphFields are the six stats drawn on the in-game hexagon chart.
var GraphFields = []string{
	"GraphAirToAir",
	"GraphAirToGround",
	"GraphSpeed",
	"GraphMobirity",
	"GraphStability",
	"GraphDefense",
}

// Graph stats are plotted on a 0..100 scale.
const (
	GraphMin = 0
	GraphMax = 100
)

// Plane categories understood by the game's EPlaneCategory enum.
const (
	CategoryFighter   = "Fighter"
	CategoryAttacker  = "Attacker"
	CategoryMultirole = "Multirole"
)

// DefaultCategory is used when the caller leaves the category empty.
const DefaultCategory = CategoryFighter

var statFieldSet = func() map[string]bool {
	m := make(map[string]bool, len(StatFields))
	for _, f := range StatFields {
		m[f] = true
	}
	return m
}()

var graphFieldSet = func() map[string]bool {
	m := make(map[string]bool, len(GraphFields))
	for _, f := range GraphFields {
		m[f] = true
	}
	return m
}()

// IsStatField reports whether name is one of StatFields.
func IsStatField(name string) bool {
	return statFieldSet[name]
}

// IsGraphField reports whether name is one of GraphFields.
func IsGraphField(name string) bool {
	return graphFieldSet[name]
}
