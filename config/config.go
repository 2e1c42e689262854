// Package config loads the orchestrator configuration. The config file is a
// key-value file whose entries are sourced into the process environment and
// then decoded into a typed struct, so every key can also be overridden from
// the caller's environment.
package config

import (
	"bufio"
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every externally-configured value the pipeline needs. Missing
// required keys surface as an error from Load before any job is submitted.
type Config struct {
	// PanelOfNormals is the path of the reference sample set used for
	// exclusion filtering.
	PanelOfNormals string `envconfig:"MOSAIC_PON_PATH" required:"true"`
	// GermlineConfig names the germline-calling sub-configuration passed to
	// the scatter jobs.
	GermlineConfig string `envconfig:"MOSAIC_GERMLINE_CONFIG" required:"true"`
	// ReferenceFasta is the genome reference handed to every calling tool.
	ReferenceFasta string `envconfig:"MOSAIC_REFERENCE_FASTA" required:"true"`

	Sbatch         string        `envconfig:"MOSAIC_SBATCH_PATH" default:"sbatch"`
	Squeue         string        `envconfig:"MOSAIC_SQUEUE_PATH" default:"squeue"`
	GATK           string        `envconfig:"MOSAIC_GATK_PATH" default:"gatk"`
	MosaicHunter   string        `envconfig:"MOSAIC_MOSAICHUNTER_PATH" default:"MosaicHunter.jar"`
	MosaicForecast string        `envconfig:"MOSAIC_MOSAICFORECAST_PATH" default:"MosaicForecast"`
	Partition      string        `envconfig:"MOSAIC_PARTITION" default:"normal"`
	WaitTimeout    time.Duration `envconfig:"MOSAIC_WAIT_TIMEOUT" default:"12h"`
}

// Load sources the key-value file at path into the environment and decodes
// the result. Keys already set in the environment win over the file, so a
// caller can override single values without editing it.
func Load(ctx context.Context, path string) (Config, error) {
	var cfg Config
	if path != "" {
		in, err := file.Open(ctx, path)
		if err != nil {
			return cfg, errors.E("opening config", path, err)
		}
		err = sourceEnv(in.Reader(ctx))
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
		if err != nil {
			return cfg, errors.E("reading config", path, err)
		}
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, errors.E("config", err)
	}
	return cfg, nil
}

// sourceEnv applies KEY=VALUE lines to the process environment. Blank lines
// and '#' comments are skipped, a leading "export " is tolerated, and
// single/double quotes around the value are stripped. Keys already present in
// the environment are left alone.
func sourceEnv(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		eq := strings.IndexByte(line, '=')
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		val = strings.Trim(val, `"'`)
		if _, present := os.LookupEnv(key); present {
			continue
		}
		if err := os.Setenv(key, val); err != nil {
			return err
		}
	}
	return sc.Err()
}
