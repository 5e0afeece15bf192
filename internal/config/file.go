// Package config loads generation settings from TOML and holds the
// process-wide knobs shared by the generators.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"biome-terrain/internal/noise"
	"biome-terrain/pkg/biome"
	"biome-terrain/pkg/terrain"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrUnknownKey = errors.New("unknown config key")

// File is the on-disk generation config.
type File struct {
	World     World     `toml:"world"`
	Heightmap Heightmap `toml:"heightmap"`
	Noise     Noise     `toml:"noise"`
	Rules     Rules     `toml:"rules"`
	Weightmap Weightmap `toml:"weightmap"`
	Defaults  Defaults  `toml:"defaults"`
	Zones     []Zone    `toml:"zone"`
}

// World is the grid size and the world rectangle it covers.
type World struct {
	Width  int        `toml:"width"`
	Height int        `toml:"height"`
	Min    [2]float64 `toml:"min"`
	Max    [2]float64 `toml:"max"`
}

type Heightmap struct {
	MaxElevation     float64 `toml:"max_elevation"`
	DefaultElevation float64 `toml:"default_elevation"`
	UseIndex         bool    `toml:"use_index"`
	IndexCell        float64 `toml:"index_cell"`
}

type Noise struct {
	Kind      string  `toml:"kind"`
	Seed      int64   `toml:"seed"`
	Octaves   int     `toml:"octaves"`
	Scale     float64 `toml:"scale"`
	Amplitude float64 `toml:"amplitude"`
}

type Rules struct {
	AlpineBase      float64      `toml:"alpine_base"`
	AlpineBoost     float64      `toml:"alpine_boost"`
	AlpineInner     float64      `toml:"alpine_inner"`
	ForestBase      float64      `toml:"forest_base"`
	ForestRange     float64      `toml:"forest_range"`
	ForestScale     float64      `toml:"forest_scale"`
	TransitionBase  float64      `toml:"transition_base"`
	TransitionRange float64      `toml:"transition_range"`
	TransitionScale float64      `toml:"transition_scale"`
	RiverBase       float64      `toml:"river_base"`
	RiverDepth      float64      `toml:"river_depth"`
	RiverFalloff    float64      `toml:"river_falloff"`
	RiverPath       [][2]float64 `toml:"river_path"`
}

type Weightmap struct {
	AltitudeBias    bool     `toml:"altitude_bias"`
	AlpineThreshold float64  `toml:"alpine_threshold"`
	AlpineRamp      float64  `toml:"alpine_ramp"`
	RiverThreshold  float64  `toml:"river_threshold"`
	RiverBoost      float64  `toml:"river_boost"`
	Kernel          int      `toml:"kernel"`
	Smoothness      float64  `toml:"smoothness"`
	Types           []string `toml:"types,omitempty"`
}

// Defaults apply where no zone reaches a point.
type Defaults struct {
	Biome      string             `toml:"biome"`
	Attributes map[string]float64 `toml:"attributes"`
}

// Zone is one [[zone]] table.
type Zone struct {
	Type       string             `toml:"type"`
	Center     [2]float64         `toml:"center"`
	Radius     float64            `toml:"radius"`
	Rule       string             `toml:"rule,omitempty"`
	Attributes map[string]float64 `toml:"attributes,omitempty"`
}

// Default returns the race course configuration.
func Default() File {
	hp := terrain.DefaultHeightmapParams()
	wp := terrain.DefaultWeightmapParams()
	r := hp.Rules

	f := File{
		World: World{
			Width:  hp.Width,
			Height: hp.Height,
			Min:    vec(hp.Extent.Min),
			Max:    vec(hp.Extent.Max),
		},
		Heightmap: Heightmap{
			MaxElevation:     hp.MaxElevation,
			DefaultElevation: hp.DefaultElevation,
			UseIndex:         hp.UseIndex,
			IndexCell:        hp.IndexCell,
		},
		Noise: Noise{
			Kind:      string(hp.Noise.Kind),
			Seed:      hp.Noise.Seed,
			Octaves:   hp.Noise.Octaves,
			Scale:     hp.Noise.Scale,
			Amplitude: hp.Noise.Amplitude,
		},
		Rules: Rules{
			AlpineBase:      r.AlpineBase,
			AlpineBoost:     r.AlpineBoost,
			AlpineInner:     r.AlpineInner,
			ForestBase:      r.ForestBase,
			ForestRange:     r.ForestRange,
			ForestScale:     r.ForestScale,
			TransitionBase:  r.TransitionBase,
			TransitionRange: r.TransitionRange,
			TransitionScale: r.TransitionScale,
			RiverBase:       r.RiverBase,
			RiverDepth:      r.RiverDepth,
			RiverFalloff:    r.RiverFalloff,
		},
		Weightmap: Weightmap{
			AltitudeBias:    wp.AltitudeBias,
			AlpineThreshold: wp.AlpineThreshold,
			AlpineRamp:      wp.AlpineRamp,
			RiverThreshold:  wp.RiverThreshold,
			RiverBoost:      wp.RiverBoost,
			Kernel:          wp.KernelHalfWidth,
			Smoothness:      wp.Smoothness,
		},
		Defaults: Defaults{
			Biome: biome.Forest.String(),
			Attributes: map[string]float64{
				string(biome.SpeedMultiplier): 1,
				string(biome.BurnMultiplier):  1,
			},
		},
	}
	for _, p := range r.RiverPath {
		f.Rules.RiverPath = append(f.Rules.RiverPath, vec(p))
	}
	for _, z := range biome.RaceZones() {
		fz := Zone{
			Type:       z.Type.String(),
			Center:     vec(z.Center),
			Radius:     z.Radius,
			Attributes: make(map[string]float64, len(z.Attributes)),
		}
		for k, v := range z.Attributes {
			fz.Attributes[string(k)] = v
		}
		f.Zones = append(f.Zones, fz)
	}
	return f
}

// Load reads path over the defaults. Keys absent from the file keep their
// default; a file with any [[zone]] replaces the whole default layout.
func Load(path string) (File, error) {
	f := Default()
	zones, riverPath := f.Zones, f.Rules.RiverPath
	f.Zones, f.Rules.RiverPath = nil, nil

	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return File{}, fmt.Errorf("config: %s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	if !md.IsDefined("zone") {
		f.Zones = zones
	}
	if !md.IsDefined("rules", "river_path") {
		f.Rules.RiverPath = riverPath
	}
	return f, nil
}

// Write encodes f as TOML.
func (f File) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(f)
}

// Catalog builds the zone catalog.
func (f File) Catalog() (*biome.Catalog, error) {
	var opts []biome.Option
	if f.Defaults.Biome != "" {
		t, err := biome.ParseType(f.Defaults.Biome)
		if err != nil {
			return nil, fmt.Errorf("config: defaults: %w", err)
		}
		opts = append(opts, biome.WithDefaultType(t))
	}
	for k, v := range f.Defaults.Attributes {
		opts = append(opts, biome.WithAttributeDefault(biome.Attribute(k), v))
	}

	zones := make([]biome.Zone, 0, len(f.Zones))
	for i, fz := range f.Zones {
		t, err := biome.ParseType(fz.Type)
		if err != nil {
			return nil, fmt.Errorf("config: zone %d: %w", i, err)
		}
		rule, err := biome.ParseRule(fz.Rule)
		if err != nil {
			return nil, fmt.Errorf("config: zone %d: %w", i, err)
		}
		z := biome.Zone{
			Type:   t,
			Center: mgl64.Vec2(fz.Center),
			Radius: fz.Radius,
			Rule:   rule,
		}
		if len(fz.Attributes) > 0 {
			z.Attributes = make(map[biome.Attribute]float64, len(fz.Attributes))
			for k, v := range fz.Attributes {
				z.Attributes[biome.Attribute(k)] = v
			}
		}
		zones = append(zones, z)
	}

	cat, err := biome.NewCatalog(zones, opts...)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cat, nil
}

// HeightmapParams converts the file into generator parameters. Workers come
// from the process-wide setting.
func (f File) HeightmapParams() (terrain.HeightmapParams, error) {
	kind, err := noise.ParseKind(f.Noise.Kind)
	if err != nil {
		return terrain.HeightmapParams{}, fmt.Errorf("config: noise: %w", err)
	}
	r := f.Rules
	p := terrain.HeightmapParams{
		Width:            f.World.Width,
		Height:           f.World.Height,
		Extent:           f.extent(),
		MaxElevation:     f.Heightmap.MaxElevation,
		DefaultElevation: f.Heightmap.DefaultElevation,
		Noise: terrain.NoiseParams{
			Kind:      kind,
			Seed:      f.Noise.Seed,
			Octaves:   f.Noise.Octaves,
			Scale:     f.Noise.Scale,
			Amplitude: f.Noise.Amplitude,
		},
		Rules: terrain.Rules{
			AlpineBase:      r.AlpineBase,
			AlpineBoost:     r.AlpineBoost,
			AlpineInner:     r.AlpineInner,
			ForestBase:      r.ForestBase,
			ForestRange:     r.ForestRange,
			ForestScale:     r.ForestScale,
			TransitionBase:  r.TransitionBase,
			TransitionRange: r.TransitionRange,
			TransitionScale: r.TransitionScale,
			RiverBase:       r.RiverBase,
			RiverDepth:      r.RiverDepth,
			RiverFalloff:    r.RiverFalloff,
		},
		UseIndex:  f.Heightmap.UseIndex,
		IndexCell: f.Heightmap.IndexCell,
		Workers:   GetWorkers(),
	}
	for _, v := range r.RiverPath {
		p.Rules.RiverPath = append(p.Rules.RiverPath, mgl64.Vec2(v))
	}
	return p, nil
}

// WeightmapParams converts the file into blend parameters. Dimensions and
// extent are left to follow the heightmap.
func (f File) WeightmapParams() (terrain.WeightmapParams, error) {
	w := f.Weightmap
	p := terrain.WeightmapParams{
		AltitudeBias:    w.AltitudeBias,
		AlpineThreshold: w.AlpineThreshold,
		AlpineRamp:      w.AlpineRamp,
		RiverThreshold:  w.RiverThreshold,
		RiverBoost:      w.RiverBoost,
		KernelHalfWidth: w.Kernel,
		Smoothness:      w.Smoothness,
		UseIndex:        f.Heightmap.UseIndex,
		IndexCell:       f.Heightmap.IndexCell,
		Workers:         GetWorkers(),
	}
	for _, name := range w.Types {
		t, err := biome.ParseType(name)
		if err != nil {
			return terrain.WeightmapParams{}, fmt.Errorf("config: weightmap: %w", err)
		}
		p.Types = append(p.Types, t)
	}
	return p, nil
}

func (f File) extent() terrain.Extent {
	return terrain.Extent{Min: mgl64.Vec2(f.World.Min), Max: mgl64.Vec2(f.World.Max)}
}

func vec(v mgl64.Vec2) [2]float64 { return [2]float64(v) }
