// Command gradbench drives the gradcompress facade against synthetic
// gradients over runtime/simengine, reporting the wire size and compression
// ratio a given compressor scheme produces. It exists to exercise the
// facade end-to-end the way a training loop would, without needing a real
// tensor runtime or accelerator.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/flowmesh/gradcompress/compressor"
	"github.com/flowmesh/gradcompress/gradcompress"
	"github.com/flowmesh/gradcompress/kernel"
	"github.com/flowmesh/gradcompress/runtime"
	"github.com/flowmesh/gradcompress/runtime/simengine"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

func compressorNames() []string {
	names := compressor.Registered()
	sort.Strings(names)
	return names
}

func main() {
	cmd := &cli.Command{
		Name:  "gradbench",
		Usage: "benchmark a gradient compressor scheme over synthetic tensors",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a YAML benchConfig file"},
			&cli.StringFlag{Name: "compressor", Value: "OneBitCompressorV2Fused,threshold,0,ef_alpha,1", Usage: "wire-form compressor spec"},
			&cli.IntFlag{Name: "elements", Aliases: []string{"n"}, Value: 1 << 20, Usage: "gradient length per step"},
			&cli.IntFlag{Name: "steps", Value: 20, Usage: "number of compress/decompress rounds"},
			&cli.BoolFlag{Name: "accel", Usage: "dispatch to the block-parallel accelerator simulator"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "gradient RNG seed"},
			&cli.BoolFlag{Name: "list", Usage: "print registered compressor names and exit"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "gradbench:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("list") {
		for _, name := range compressorNames() {
			fmt.Println(name)
		}
		return nil
	}

	cfg := benchConfig{
		Compressor: cmd.String("compressor"),
		Elements:   cmd.Int("elements"),
		Steps:      cmd.Int("steps"),
		Accel:      cmd.Bool("accel"),
		Seed:       int64(cmd.Int("seed")),
	}
	if path := cmd.String("config"); path != "" {
		loaded, err := loadConfig(path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		mergeConfig(&cfg, loaded)
	}

	if err := gradcompress.Init(cfg.Compressor); err != nil {
		return fmt.Errorf("init %q: %w", cfg.Compressor, err)
	}

	device := "host"
	if cfg.Accel {
		device = "accel"
	}
	fmt.Printf("compressor=%s elements=%s steps=%d device=%s\n",
		gradcompress.GetTypeStr(), humanize.Comma(int64(cfg.Elements)), cfg.Steps, device)

	eng := simengine.New()
	rng := rand.New(rand.NewSource(cfg.Seed))
	residual := runtime.NewHostTensor(make([]float32, cfg.Elements))
	if cfg.Accel {
		residual = runtime.NewAccelTensor(make([]float32, cfg.Elements))
	}

	compressedLen := gradcompress.GetCompressedSize(cfg.Elements)
	bar := progressbar.Default(int64(cfg.Steps), "compressing")

	var totalOriginalBytes, totalCompressedBytes int64
	for step := 0; step < cfg.Steps; step++ {
		grad := syntheticGradient(rng, cfg.Elements)
		var original, compressed, decoded runtime.Tensor
		if cfg.Accel {
			original = runtime.NewAccelTensor(grad)
			compressed = runtime.NewAccelTensor(make([]float32, compressedLen))
			decoded = runtime.NewAccelTensor(make([]float32, cfg.Elements))
		} else {
			original = runtime.NewHostTensor(grad)
			compressed = runtime.NewHostTensor(make([]float32, compressedLen))
			decoded = runtime.NewHostTensor(make([]float32, cfg.Elements))
		}

		gradcompress.CompressEx(eng, original, residual, compressed, runtime.PriorityNormal)
		gradcompress.DecompressEx(eng, compressed, decoded, runtime.PriorityNormal)
		if err := eng.Drain(); err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}

		totalOriginalBytes += int64(cfg.Elements) * 4
		totalCompressedBytes += int64(kernel.CompressedByteLen(cfg.Elements, gradcompress.GetCompressionFactor()))
		_ = bar.Add(1)
	}
	fmt.Println()
	fmt.Printf("original=%s compressed=%s ratio=%.1fx\n",
		humanize.Bytes(uint64(totalOriginalBytes)),
		humanize.Bytes(uint64(totalCompressedBytes)),
		float64(totalOriginalBytes)/float64(totalCompressedBytes))
	return nil
}

func mergeConfig(dst *benchConfig, loaded benchConfig) {
	if loaded.Compressor != "" {
		dst.Compressor = loaded.Compressor
	}
	if loaded.Elements != 0 {
		dst.Elements = loaded.Elements
	}
	if loaded.Steps != 0 {
		dst.Steps = loaded.Steps
	}
	if loaded.Seed != 0 {
		dst.Seed = loaded.Seed
	}
	dst.Accel = dst.Accel || loaded.Accel
}

func syntheticGradient(rng *rand.Rand, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(rng.NormFloat64())
	}
	return out
}
