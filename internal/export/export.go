// Package export writes generated grids to disk as 16-bit heightmaps and
// 8-bit weightmaps.
package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"biome-terrain/pkg/biome"
	"biome-terrain/pkg/terrain"

	"golang.org/x/image/tiff"
)

// Format selects the on-disk encoding.
type Format string

const (
	// FormatTIFF writes deflate-compressed grayscale TIFF: Gray16 for
	// heightmaps, Gray for weightmaps.
	FormatTIFF Format = "tiff"
	// FormatRaw writes headerless row-major samples, little-endian uint16
	// heightmaps (.r16) and byte weightmaps (.r8).
	FormatRaw Format = "raw"
)

var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat maps a name to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTIFF, FormatRaw:
		return f, nil
	case "tif":
		return FormatTIFF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) heightExt() string {
	if f == FormatRaw {
		return ".r16"
	}
	return ".tif"
}

func (f Format) weightExt() string {
	if f == FormatRaw {
		return ".r8"
	}
	return ".tif"
}

// HeightmapImage wraps the heightmap samples in a Gray16 image.
func HeightmapImage(hm *terrain.Heightmap) *image.Gray16 {
	img := image.NewGray16(image.Rect(0, 0, hm.Width, hm.Height))
	for y := 0; y < hm.Height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < hm.Width; x++ {
			q := hm.At(x, y)
			row[2*x] = uint8(q >> 8)
			row[2*x+1] = uint8(q)
		}
	}
	return img
}

// WeightmapImage wraps the weights in a Gray image.
func WeightmapImage(wm *terrain.Weightmap) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, wm.Width, wm.Height))
	data := wm.Data()
	for y := 0; y < wm.Height; y++ {
		copy(img.Pix[y*img.Stride:], data[y*wm.Width:(y+1)*wm.Width])
	}
	return img
}

// WriteHeightmap encodes hm to w in the given format.
func WriteHeightmap(w io.Writer, hm *terrain.Heightmap, format Format) error {
	switch format {
	case FormatTIFF:
		return tiff.Encode(w, HeightmapImage(hm), &tiff.Options{Compression: tiff.Deflate})
	case FormatRaw:
		bw := bufio.NewWriter(w)
		if err := binary.Write(bw, binary.LittleEndian, hm.Data()); err != nil {
			return err
		}
		return bw.Flush()
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}

// WriteWeightmap encodes wm to w in the given format.
func WriteWeightmap(w io.Writer, wm *terrain.Weightmap, format Format) error {
	switch format {
	case FormatTIFF:
		return tiff.Encode(w, WeightmapImage(wm), &tiff.Options{Compression: tiff.Deflate})
	case FormatRaw:
		_, err := w.Write(wm.Data())
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}

// HeightmapName is the file name used for the heightmap.
func HeightmapName(format Format) string { return "heightmap" + format.heightExt() }

// WeightmapName is the file name used for a type's weightmap.
func WeightmapName(t biome.Type, format Format) string {
	return "weight_" + t.String() + format.weightExt()
}

// SaveAll writes the heightmap and every weightmap into dir, creating it if
// needed, and returns the written paths. Weightmaps are written in type order.
func SaveAll(dir string, format Format, hm *terrain.Heightmap, wms map[biome.Type]*terrain.Weightmap) ([]string, error) {
	if _, err := ParseFormat(string(format)); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	var paths []string
	if hm != nil {
		path := filepath.Join(dir, HeightmapName(format))
		if err := writeFile(path, func(w io.Writer) error { return WriteHeightmap(w, hm, format) }); err != nil {
			return paths, err
		}
		log.Printf("wrote %s (%dx%d)", path, hm.Width, hm.Height)
		paths = append(paths, path)
	}
	for _, t := range biome.Types() {
		wm, ok := wms[t]
		if !ok {
			continue
		}
		path := filepath.Join(dir, WeightmapName(t, format))
		if err := writeFile(path, func(w io.Writer) error { return WriteWeightmap(w, wm, format) }); err != nil {
			return paths, err
		}
		c := terrain.CoverageOf(wm)
		log.Printf("wrote %s (coverage %.1f%%, mean %.1f)", path, c.Fraction*100, c.Mean)
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
