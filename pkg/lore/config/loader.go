// Package config loads run configuration and builds the extraction
// components from it.
package config

import (
	"fmt"
	"net/http"

	"github.com/kedarbellare/lore/pkg/lore/annotation"
	"github.com/kedarbellare/lore/pkg/lore/annotation/corenlp"
	"github.com/kedarbellare/lore/pkg/lore/depgraph"
	"github.com/kedarbellare/lore/pkg/lore/mention"
	"github.com/kedarbellare/lore/pkg/lore/pattern"
	"github.com/kedarbellare/lore/pkg/lore/tagset"
)

// Loader loads the configuration file and constructs components
type Loader struct {
	ConfigPath string
}

// Components holds the components built from a configuration
type Components struct {
	Config    *Config
	Filter    *mention.Filter
	Walker    *depgraph.Walker
	Assembler *pattern.Assembler
	Annotator annotation.Annotator
}

// Load reads the configuration file and returns initialized components
func (l *Loader) Load() (*Components, error) {
	cfg, err := Load(l.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return Build(cfg)
}

// Build validates cfg and constructs the components it describes.
func Build(cfg *Config) (*Components, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	entityMode, _ := pattern.ParseMode(cfg.Extract.EntityMode)
	relationMode, _ := pattern.ParseMode(cfg.Extract.RelationMode)

	comp := &Components{
		Config: cfg,
		Filter: mention.NewFilter(tagset.New(cfg.Extract.IgnoredNERs...)),
		Walker: depgraph.NewWalker(cfg.Extract.MaxPathLength),
	}
	comp.Assembler = pattern.New(pattern.Options{
		Filter:       comp.Filter,
		Walker:       comp.Walker,
		AllowedTags:  tagset.New(cfg.Extract.AllowedDepTags...),
		Unlabeled:    !cfg.Extract.Labeled,
		EntityMode:   entityMode,
		RelationMode: relationMode,
	})

	if cfg.CoreNLP.Precomputed {
		comp.Annotator = corenlp.Precomputed{}
	} else {
		comp.Annotator = &corenlp.Client{
			BaseURL:    cfg.CoreNLP.URL,
			Annotators: cfg.CoreNLP.Annotators,
			HTTPClient: &http.Client{Timeout: cfg.CoreNLP.Timeout},
			Limiter:    corenlp.NewLimiter(cfg.CoreNLP.RequestsPerSecond),
		}
	}
	return comp, nil
}
