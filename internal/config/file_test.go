package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"biome-terrain/internal/noise"
	"biome-terrain/pkg/biome"
	"biome-terrain/pkg/terrain"

	"github.com/go-gl/mathgl/mgl64"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terrain.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultMatchesGenerators(t *testing.T) {
	f := Default()
	hp, err := f.HeightmapParams()
	if err != nil {
		t.Fatal(err)
	}
	want := terrain.DefaultHeightmapParams()
	if hp.Width != want.Width || hp.Height != want.Height || hp.Extent != want.Extent {
		t.Errorf("grid %dx%d %v, want %dx%d %v", hp.Width, hp.Height, hp.Extent, want.Width, want.Height, want.Extent)
	}
	if hp.Noise != want.Noise || hp.MaxElevation != want.MaxElevation {
		t.Errorf("noise %+v max %v", hp.Noise, hp.MaxElevation)
	}
	if len(hp.Rules.RiverPath) != len(want.Rules.RiverPath) {
		t.Errorf("river path %v", hp.Rules.RiverPath)
	}

	cat, err := f.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	race := biome.RaceZones()
	if cat.Len() != len(race) {
		t.Fatalf("catalog has %d zones, want %d", cat.Len(), len(race))
	}
	for i, z := range race {
		got := cat.Zone(i)
		if got.Type != z.Type || got.Center != z.Center || got.Radius != z.Radius {
			t.Errorf("zone %d = %+v, want %+v", i, got, z)
		}
		if v, _ := got.Attribute(biome.BurnMultiplier); v != z.Attributes[biome.BurnMultiplier] {
			t.Errorf("zone %d burn = %v", i, v)
		}
	}
	if cat.DefaultType() != biome.Forest {
		t.Errorf("default type %v", cat.DefaultType())
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[world]
width = 65
height = 33

[noise]
kind = "simplex"
seed = 7

[weightmap]
smoothness = 0.25
types = ["alpine", "River"]

[defaults]
biome = "river"
`)
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	hp, err := f.HeightmapParams()
	if err != nil {
		t.Fatal(err)
	}
	if hp.Width != 65 || hp.Height != 33 {
		t.Errorf("size %dx%d", hp.Width, hp.Height)
	}
	if hp.Noise.Kind != noise.KindSimplex || hp.Noise.Seed != 7 {
		t.Errorf("noise %+v", hp.Noise)
	}
	if hp.Noise.Amplitude != 100 || hp.MaxElevation != 2000 {
		t.Errorf("defaults lost: %+v", hp)
	}
	if len(f.Zones) != 5 || len(f.Rules.RiverPath) != 3 {
		t.Errorf("default zones or river path dropped: %d zones, path %v", len(f.Zones), f.Rules.RiverPath)
	}

	wp, err := f.WeightmapParams()
	if err != nil {
		t.Fatal(err)
	}
	if wp.Smoothness != 0.25 || wp.KernelHalfWidth != 3 || !wp.AltitudeBias {
		t.Errorf("weightmap params %+v", wp)
	}
	if len(wp.Types) != 2 || wp.Types[0] != biome.Alpine || wp.Types[1] != biome.River {
		t.Errorf("types %v", wp.Types)
	}

	cat, err := f.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	if cat.DefaultType() != biome.River {
		t.Errorf("default type %v", cat.DefaultType())
	}
}

func TestLoadZonesReplaceLayout(t *testing.T) {
	path := writeConfig(t, `
[rules]
river_path = [[0.0, 0.0], [100.0, 0.0]]

[[zone]]
type = "alpine"
center = [50.0, 50.0]
radius = 40.0
rule = "hills"

[zone.attributes]
movement_speed = 0.5
`)
	f, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	cat, err := f.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	if cat.Len() != 1 {
		t.Fatalf("catalog has %d zones", cat.Len())
	}
	z := cat.Zone(0)
	if z.Type != biome.Alpine || z.Center != (mgl64.Vec2{50, 50}) || z.EffectiveRule() != biome.RuleRollingHills {
		t.Errorf("zone %+v", z)
	}
	if v, ok := z.Attribute(biome.SpeedMultiplier); !ok || v != 0.5 {
		t.Errorf("speed = %v, %v", v, ok)
	}
	if got := cat.BlendedAttribute(mgl64.Vec2{50, 50}, biome.BurnMultiplier); got != 1 {
		t.Errorf("missing burn attribute = %v, want catalog default 1", got)
	}

	hp, err := f.HeightmapParams()
	if err != nil {
		t.Fatal(err)
	}
	if len(hp.Rules.RiverPath) != 2 || hp.Rules.RiverPath[1] != (mgl64.Vec2{100, 0}) {
		t.Errorf("river path %v", hp.Rules.RiverPath)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		load bool // error surfaces from Load rather than a builder
		is   error
	}{
		{"unknown key", "[world]\ndepth = 3\n", true, ErrUnknownKey},
		{"bad type", "[[zone]]\ntype = \"desert\"\ncenter = [0.0, 0.0]\nradius = 1.0\n", false, biome.ErrUnknownType},
		{"bad rule", "[[zone]]\ntype = \"forest\"\ncenter = [0.0, 0.0]\nradius = 1.0\nrule = \"cliff\"\n", false, biome.ErrUnknownRule},
		{"bad radius", "[[zone]]\ntype = \"forest\"\ncenter = [0.0, 0.0]\nradius = 0.0\n", false, biome.ErrInvalidRadius},
		{"bad noise", "[noise]\nkind = \"worley\"\n", false, noise.ErrUnknownKind},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := Load(writeConfig(t, tc.body))
			if tc.load {
				if !errors.Is(err, tc.is) {
					t.Fatalf("Load err = %v, want %v", err, tc.is)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			_, cerr := f.Catalog()
			_, herr := f.HeightmapParams()
			if !errors.Is(cerr, tc.is) && !errors.Is(herr, tc.is) {
				t.Errorf("catalog err = %v, heightmap err = %v, want %v", cerr, herr, tc.is)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Write(&buf); err != nil {
		t.Fatal(err)
	}
	f, err := Load(writeConfig(t, buf.String()))
	if err != nil {
		t.Fatalf("reload: %v\n%s", err, buf.String())
	}
	if len(f.Zones) != 5 || f.Zones[2].Type != "river" || f.Noise.Kind != "perlin" {
		t.Errorf("reloaded %+v", f)
	}
}
