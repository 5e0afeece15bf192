package biome

import "github.com/go-gl/mathgl/mgl64"

// RaceZones returns the five-zone layout of the 5km survival race course:
// three main biomes and two transition belts between them.
func RaceZones() []Zone {
	zone := func(t Type, x, y, r, burn, speed float64) Zone {
		return Zone{
			Type:   t,
			Center: mgl64.Vec2{x, y},
			Radius: r,
			Attributes: map[Attribute]float64{
				BurnMultiplier:  burn,
				SpeedMultiplier: speed,
			},
		}
	}
	return []Zone{
		zone(Alpine, 2500, 1250, 1500, 1.6, 0.7),
		zone(Forest, 1500, 750, 1200, 1.2, 0.85),
		zone(River, 4000, 1000, 800, 1.8, 0.6),
		zone(Transition, 2000, 1000, 600, 1.4, 0.8),
		zone(Transition, 3500, 1250, 600, 1.5, 0.75),
	}
}

// RaceRoute returns the course checkpoints from the forest start to the river
// finish, in world units.
func RaceRoute() []mgl64.Vec2 {
	return []mgl64.Vec2{
		{0, 0},
		{1000, 500},
		{1500, 750},
		{2000, 1000},
		{2500, 1250},
		{3000, 1500},
		{3500, 1250},
		{4000, 1000},
		{4500, 750},
		{5000, 0},
	}
}
