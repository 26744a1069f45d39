package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kedarbellare/lore/pkg/lore/annotation/corenlp"
	"github.com/kedarbellare/lore/pkg/lore/depgraph"
	"github.com/kedarbellare/lore/pkg/lore/internalerr"
	"github.com/kedarbellare/lore/pkg/lore/mention"
	"github.com/kedarbellare/lore/pkg/lore/pattern"
)

// Config is the YAML configuration of an extraction run.
type Config struct {
	Extract Extract `yaml:"extract"`
	CoreNLP CoreNLP `yaml:"corenlp"`
	Batch   Batch   `yaml:"batch"`
}

// Extract configures the pattern assembler.
type Extract struct {
	AllowedDepTags []string `yaml:"allowed_dep_tags"`
	IgnoredNERs    []string `yaml:"ignored_ners"`
	MaxPathLength  int      `yaml:"max_path_length"`
	Labeled        bool     `yaml:"labeled"`
	RelationMode   string   `yaml:"relation_mode"`
	EntityMode     string   `yaml:"entity_mode"`
}

// CoreNLP configures the annotation server client.
type CoreNLP struct {
	URL               string        `yaml:"url"`
	Annotators        string        `yaml:"annotators"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	// Precomputed treats inputs as CoreNLP JSON instead of raw text.
	Precomputed bool `yaml:"precomputed"`
}

// Batch configures the batch driver.
type Batch struct {
	Workers  int  `yaml:"workers"`
	Progress bool `yaml:"progress"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		Extract: Extract{
			AllowedDepTags: append([]string(nil), depgraph.DefaultAllowedTags...),
			IgnoredNERs:    append([]string(nil), mention.DefaultIgnoredNERs...),
			MaxPathLength:  depgraph.DefaultMaxPathLength,
			Labeled:        true,
			RelationMode:   string(pattern.ModeAggregated),
			EntityMode:     string(pattern.ModeAggregated),
		},
		CoreNLP: CoreNLP{
			URL:        "http://localhost:9000",
			Annotators: corenlp.DefaultAnnotators,
			Timeout:    60 * time.Second,
		},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values. An empty path yields Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %v", path, internalerr.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Extract.MaxPathLength < 0 {
		return fmt.Errorf("extract.max_path_length %d: %w", c.Extract.MaxPathLength, internalerr.ErrInvalidConfig)
	}
	if _, err := pattern.ParseMode(c.Extract.RelationMode); err != nil {
		return fmt.Errorf("extract.relation_mode: %w: %v", internalerr.ErrInvalidConfig, err)
	}
	if _, err := pattern.ParseMode(c.Extract.EntityMode); err != nil {
		return fmt.Errorf("extract.entity_mode: %w: %v", internalerr.ErrInvalidConfig, err)
	}
	if c.CoreNLP.Timeout < 0 {
		return fmt.Errorf("corenlp.timeout %s: %w", c.CoreNLP.Timeout, internalerr.ErrInvalidConfig)
	}
	if c.CoreNLP.RequestsPerSecond < 0 {
		return fmt.Errorf("corenlp.requests_per_second %v: %w", c.CoreNLP.RequestsPerSecond, internalerr.ErrInvalidConfig)
	}
	if !c.CoreNLP.Precomputed && c.CoreNLP.URL == "" {
		return fmt.Errorf("corenlp.url required unless precomputed: %w", internalerr.ErrInvalidConfig)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers %d: %w", c.Batch.Workers, internalerr.ErrInvalidConfig)
	}
	return nil
}
