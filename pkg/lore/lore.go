// Package lore turns raw documents into relation-extraction patterns: it
// annotates text, then assembles entity and relation patterns from the
// coreference clusters and dependency parses.
package lore

import (
	"context"
	"fmt"

	"github.com/kedarbellare/lore/pkg/lore/annotation"
	"github.com/kedarbellare/lore/pkg/lore/internalerr"
	"github.com/kedarbellare/lore/pkg/lore/pattern"
)

// Lore is the extraction facade
type Lore struct {
	annotator annotation.Annotator
	assembler *pattern.Assembler
}

// Options configures a Lore instance
type Options struct {
	Annotator annotation.Annotator
	Assembler *pattern.Assembler
}

// New creates a Lore instance. A nil Assembler uses the defaults.
func New(opts Options) *Lore {
	l := &Lore{annotator: opts.Annotator, assembler: opts.Assembler}
	if l.assembler == nil {
		l.assembler = pattern.New(pattern.Options{})
	}
	return l
}

// Input is one document to process. ID names it in every record.
type Input struct {
	ID   string
	Text string
}

// Annotate runs the annotator over a document.
func (l *Lore) Annotate(ctx context.Context, in Input) (*annotation.Document, error) {
	if l.annotator == nil {
		return nil, fmt.Errorf("no annotator configured: %w", internalerr.ErrInvalidConfig)
	}
	doc, err := l.annotator.Annotate(ctx, in.Text)
	if err != nil {
		return nil, fmt.Errorf("annotate %s: %w", in.ID, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("annotate %s: nil document: %w", in.ID, internalerr.ErrMalformedAnnotation)
	}
	return doc, nil
}

// Process annotates a document and extracts its records of the given kind.
func (l *Lore) Process(ctx context.Context, in Input, kind pattern.Kind) ([]string, error) {
	doc, err := l.Annotate(ctx, in)
	if err != nil {
		return nil, err
	}
	records, err := l.assembler.Extract(in.ID, doc, kind)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", in.ID, err)
	}
	return records, nil
}

// Describe annotates a document and describes every clustered mention.
// With walks set, the unlabeled walks between eligible mentions follow.
func (l *Lore) Describe(ctx context.Context, in Input, walks bool) ([]string, error) {
	doc, err := l.Annotate(ctx, in)
	if err != nil {
		return nil, err
	}
	lines, err := pattern.DescribeDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", in.ID, err)
	}
	if !walks {
		return lines, nil
	}
	previews, err := l.assembler.WalkPreviews(doc)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", in.ID, err)
	}
	return append(lines, previews...), nil
}
