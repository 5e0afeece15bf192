package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"biome-terrain/pkg/biome"
	"biome-terrain/pkg/terrain"

	"github.com/go-gl/mathgl/mgl64"
)

func printQuery(w io.Writer, cat *biome.Catalog, p mgl64.Vec2, hp terrain.HeightmapParams) error {
	e, err := terrain.ElevationAt(cat, p, hp)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "point      %.1f,%.1f\n", p.X(), p.Y())
	fmt.Fprintf(w, "biome      %s\n", terrain.QueryBiomeAt(cat, p))
	fmt.Fprintf(w, "elevation  %.1f\n", e)
	fmt.Fprintf(w, "speed      %.3f\n", terrain.QueryBlendedAttribute(cat, p, biome.SpeedMultiplier))
	fmt.Fprintf(w, "burn       %.3f\n", terrain.QueryBlendedAttribute(cat, p, biome.BurnMultiplier))
	return nil
}

// printRoute reports each race checkpoint as a table row.
func printRoute(w io.Writer, cat *biome.Catalog, hp terrain.HeightmapParams) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tx\ty\tbiome\televation\tspeed\tburn")
	for i, p := range biome.RaceRoute() {
		e, err := terrain.ElevationAt(cat, p, hp)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%d\t%.0f\t%.0f\t%s\t%.1f\t%.3f\t%.3f\n", i, p.X(), p.Y(),
			terrain.QueryBiomeAt(cat, p), e,
			terrain.QueryBlendedAttribute(cat, p, biome.SpeedMultiplier),
			terrain.QueryBlendedAttribute(cat, p, biome.BurnMultiplier))
	}
	return tw.Flush()
}
