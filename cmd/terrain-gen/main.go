package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"biome-terrain/internal/config"
	"biome-terrain/internal/export"
	"biome-terrain/internal/noise"
	"biome-terrain/internal/profiling"
	"biome-terrain/pkg/terrain"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/xlab/closer"
)

type options struct {
	configPath  string
	out         string
	format      string
	width       int
	height      int
	seed        int64
	noiseKind   string
	octaves     int
	workers     int
	noBias      bool
	smooth      float64
	kernel      int
	route       bool
	query       string
	printConfig bool
	verbose     bool

	set map[string]bool
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "TOML config file (defaults to the race course)")
	flag.StringVar(&o.out, "out", "out", "output directory")
	flag.StringVar(&o.format, "format", "tiff", "output format (tiff, raw)")
	flag.IntVar(&o.width, "w", 0, "grid width in cells")
	flag.IntVar(&o.height, "h", 0, "grid height in cells")
	flag.Int64Var(&o.seed, "seed", 0, "noise seed")
	flag.StringVar(&o.noiseKind, "noise", "", "noise backend ("+noiseKinds()+")")
	flag.IntVar(&o.octaves, "octaves", 0, "noise octaves")
	flag.IntVar(&o.workers, "workers", 0, "worker goroutines (0 = one per CPU)")
	flag.BoolVar(&o.noBias, "no-bias", false, "disable altitude bias on weightmaps")
	flag.Float64Var(&o.smooth, "smooth", 0, "weightmap smoothness in [0,1]")
	flag.IntVar(&o.kernel, "kernel", 0, "weightmap box filter half-width")
	flag.BoolVar(&o.route, "route", false, "print biome and attributes along the race route")
	flag.StringVar(&o.query, "query", "", "print biome and attributes at x,y and exit")
	flag.BoolVar(&o.printConfig, "print-config", false, "print the effective config as TOML and exit")
	flag.BoolVar(&o.verbose, "v", false, "log generation progress")
	flag.Parse()

	o.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	ctx, cancel := context.WithCancel(context.Background())
	closer.Bind(cancel)

	go func() {
		if err := run(ctx, o); err != nil {
			closer.Fatalln(err)
		}
		closer.Close()
	}()
	closer.Hold()
}

func run(ctx context.Context, o options) error {
	f, err := loadConfig(o)
	if err != nil {
		return err
	}
	config.SetWorkers(o.workers)
	config.SetVerbose(o.verbose)

	if o.printConfig {
		return f.Write(os.Stdout)
	}

	cat, err := f.Catalog()
	if err != nil {
		return err
	}
	hp, err := f.HeightmapParams()
	if err != nil {
		return err
	}
	wp, err := f.WeightmapParams()
	if err != nil {
		return err
	}

	if o.query != "" {
		p, err := parsePoint(o.query)
		if err != nil {
			return err
		}
		return printQuery(os.Stdout, cat, p, hp)
	}
	if o.route {
		if err := printRoute(os.Stdout, cat, hp); err != nil {
			return err
		}
	}

	format, err := export.ParseFormat(o.format)
	if err != nil {
		return err
	}

	if config.GetVerbose() {
		hp.Progress = progressLogger("heightmap")
		wp.Progress = progressLogger("weightmaps")
	}

	log.Printf("Generating %dx%d heightmap from %d zones (%s noise, %d workers)",
		hp.Width, hp.Height, cat.Len(), hp.Noise.Kind, config.GetWorkers())

	profiling.Reset()
	stop := profiling.Track("terrain.Heightmap")
	hm, err := terrain.GenerateHeightmap(ctx, cat, hp)
	stop()
	if err != nil {
		return err
	}
	st := terrain.StatsOf(hm)
	log.Printf("Elevation min %.1f max %.1f mean %.1f", st.Min, st.Max, st.Mean)

	stop = profiling.Track("terrain.Weightmaps")
	wms, err := terrain.GenerateWeightmaps(ctx, cat, hm, wp)
	stop()
	if err != nil {
		return err
	}

	stop = profiling.Track("export.SaveAll")
	_, err = export.SaveAll(o.out, format, hm, wms)
	stop()
	if err != nil {
		return err
	}
	log.Printf("Done. Top stages: %s", profiling.TopN(3))
	return nil
}

// loadConfig reads the config file, if any, and applies flags that were set
// explicitly on top of it.
func loadConfig(o options) (config.File, error) {
	f := config.Default()
	if o.configPath != "" {
		var err error
		if f, err = config.Load(o.configPath); err != nil {
			return config.File{}, err
		}
	}
	if o.set["w"] {
		f.World.Width = o.width
	}
	if o.set["h"] {
		f.World.Height = o.height
	}
	if o.set["seed"] {
		f.Noise.Seed = o.seed
	}
	if o.set["noise"] {
		f.Noise.Kind = o.noiseKind
	}
	if o.set["octaves"] {
		f.Noise.Octaves = o.octaves
	}
	if o.noBias {
		f.Weightmap.AltitudeBias = false
	}
	if o.set["smooth"] {
		f.Weightmap.Smoothness = o.smooth
	}
	if o.set["kernel"] {
		f.Weightmap.Kernel = o.kernel
	}
	return f, nil
}

func noiseKinds() string {
	names := make([]string, 0, len(noise.Kinds()))
	for _, k := range noise.Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

func parsePoint(s string) (mgl64.Vec2, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return mgl64.Vec2{}, fmt.Errorf("query %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return mgl64.Vec2{}, fmt.Errorf("query %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return mgl64.Vec2{}, fmt.Errorf("query %q: %w", s, err)
	}
	return mgl64.Vec2{x, y}, nil
}

// progressLogger logs roughly every tenth of the rows.
func progressLogger(stage string) terrain.ProgressFunc {
	start := time.Now()
	next := 0
	return func(done, total int) {
		if done*10 < next*total && done != total {
			return
		}
		next = done*10/total + 1
		log.Printf("%s: %d/%d rows (%s)", stage, done, total, time.Since(start).Round(time.Millisecond))
	}
}
