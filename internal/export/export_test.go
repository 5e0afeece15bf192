package export

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"biome-terrain/pkg/biome"
	"biome-terrain/pkg/terrain"

	"golang.org/x/image/tiff"
)

func generate(t *testing.T) (*terrain.Heightmap, map[biome.Type]*terrain.Weightmap) {
	t.Helper()
	cat := biome.MustCatalog(biome.RaceZones())
	hp := terrain.DefaultHeightmapParams()
	hp.Width, hp.Height = 40, 20
	hm, err := terrain.GenerateHeightmap(context.Background(), cat, hp)
	if err != nil {
		t.Fatal(err)
	}
	wms, err := terrain.GenerateWeightmaps(context.Background(), cat, hm, terrain.DefaultWeightmapParams())
	if err != nil {
		t.Fatal(err)
	}
	return hm, wms
}

func TestHeightmapTIFFRoundTrip(t *testing.T) {
	hm, _ := generate(t)
	var buf bytes.Buffer
	if err := WriteHeightmap(&buf, hm, FormatTIFF); err != nil {
		t.Fatal(err)
	}
	img, err := tiff.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	gray, ok := img.(*image.Gray16)
	if !ok {
		t.Fatalf("decoded %T, want *image.Gray16", img)
	}
	if b := gray.Bounds(); b.Dx() != hm.Width || b.Dy() != hm.Height {
		t.Fatalf("bounds %v", b)
	}
	for y := 0; y < hm.Height; y++ {
		for x := 0; x < hm.Width; x++ {
			if got := gray.Gray16At(x, y).Y; got != hm.At(x, y) {
				t.Fatalf("(%d,%d) = %d, want %d", x, y, got, hm.At(x, y))
			}
		}
	}
}

func TestWeightmapTIFFRoundTrip(t *testing.T) {
	_, wms := generate(t)
	wm := wms[biome.Alpine]
	var buf bytes.Buffer
	if err := WriteWeightmap(&buf, wm, FormatTIFF); err != nil {
		t.Fatal(err)
	}
	img, err := tiff.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("decoded %T, want *image.Gray", img)
	}
	for y := 0; y < wm.Height; y++ {
		for x := 0; x < wm.Width; x++ {
			if got := gray.GrayAt(x, y).Y; got != wm.At(x, y) {
				t.Fatalf("(%d,%d) = %d, want %d", x, y, got, wm.At(x, y))
			}
		}
	}
}

func TestRawLayout(t *testing.T) {
	hm, wms := generate(t)
	var buf bytes.Buffer
	if err := WriteHeightmap(&buf, hm, FormatRaw); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 2*hm.Width*hm.Height {
		t.Fatalf("raw heightmap is %d bytes", buf.Len())
	}
	raw := buf.Bytes()
	i := hm.Index(7, 3)
	if got := binary.LittleEndian.Uint16(raw[2*i:]); got != hm.At(7, 3) {
		t.Errorf("sample (7,3) = %d, want %d", got, hm.At(7, 3))
	}

	buf.Reset()
	wm := wms[biome.River]
	if err := WriteWeightmap(&buf, wm, FormatRaw); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), wm.Data()) {
		t.Error("raw weightmap differs from grid data")
	}
}

func TestSaveAll(t *testing.T) {
	hm, wms := generate(t)
	dir := filepath.Join(t.TempDir(), "out")
	for _, format := range []Format{FormatTIFF, FormatRaw} {
		paths, err := SaveAll(dir, format, hm, wms)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{HeightmapName(format)}
		for _, typ := range biome.Types() {
			want = append(want, WeightmapName(typ, format))
		}
		if len(paths) != len(want) {
			t.Fatalf("%s: wrote %v", format, paths)
		}
		for i, p := range paths {
			if filepath.Base(p) != want[i] {
				t.Errorf("%s: path %d = %s, want %s", format, i, p, want[i])
			}
			if _, err := os.Stat(p); err != nil {
				t.Error(err)
			}
		}
	}
	if _, err := SaveAll(dir, Format("exr"), hm, wms); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"tiff": FormatTIFF, "TIF": FormatTIFF, "raw": FormatRaw} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("png"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("png: %v", err)
	}
}
