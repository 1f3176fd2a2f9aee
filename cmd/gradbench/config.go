package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// benchConfig is the on-disk shape of a --config file: everything a run
// needs beyond what a one-off flag override is worth typing. A loaded file
// overrides the command-line flags field-by-field (zero value in the file
// means "use the flag/default"; Accel is on if either side sets it).
type benchConfig struct {
	// Compressor is the wire-form parameter string from spec §4.2, e.g.
	// "OneBitCompressorV2Fused,threshold,0,ef_alpha,1".
	Compressor string `yaml:"compressor"`
	// Elements is N, the gradient length to synthesize per step.
	Elements int `yaml:"elements"`
	// Steps is how many compress/decompress rounds to run.
	Steps int `yaml:"steps"`
	// Accel runs the benchmark against internal/accelsim's block-parallel
	// path instead of the scalar host kernels.
	Accel bool `yaml:"accel"`
	// Seed seeds the synthetic gradient generator for reproducibility.
	Seed int64 `yaml:"seed"`
}

func loadConfig(path string) (benchConfig, error) {
	var cfg benchConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
