// Package pattern assembles relation-extraction training patterns from an
// annotated document: per-entity dependency contexts and the dependency
// walks linking entities that are mentioned in the same sentence.
package pattern

import (
	"fmt"
	"strings"

	"github.com/kedarbellare/lore/pkg/lore/annotation"
	"github.com/kedarbellare/lore/pkg/lore/depgraph"
	"github.com/kedarbellare/lore/pkg/lore/mention"
	"github.com/kedarbellare/lore/pkg/lore/tagset"
)

// Kind selects which record family to extract.
type Kind string

const (
	KindEntities  Kind = "entities"
	KindRelations Kind = "relations"
)

// Mode selects one record per entity (or entity pair), or one record per
// concrete mention (or mention pair).
type Mode string

const (
	ModeAggregated Mode = "aggregated"
	ModeExploded   Mode = "exploded"
)

// ParseMode validates a mode name; empty means aggregated.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAggregated:
		return ModeAggregated, nil
	case ModeExploded:
		return ModeExploded, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Assembler extracts patterns. It holds no per-document state and is safe
// for concurrent use.
type Assembler struct {
	filter       *mention.Filter
	walker       *depgraph.Walker
	allowed      *tagset.Set
	labeled      bool
	entityMode   Mode
	relationMode Mode
}

// Options configures an Assembler. Zero values select the defaults.
type Options struct {
	Filter       *mention.Filter
	Walker       *depgraph.Walker
	AllowedTags  *tagset.Set
	Unlabeled    bool
	EntityMode   Mode
	RelationMode Mode
}

// New creates an Assembler.
func New(opts Options) *Assembler {
	a := &Assembler{
		filter:       opts.Filter,
		walker:       opts.Walker,
		allowed:      opts.AllowedTags,
		labeled:      !opts.Unlabeled,
		entityMode:   opts.EntityMode,
		relationMode: opts.RelationMode,
	}
	if a.filter == nil {
		a.filter = mention.DefaultFilter()
	}
	if a.walker == nil {
		a.walker = depgraph.NewWalker(depgraph.DefaultMaxPathLength)
	}
	if a.allowed == nil {
		a.allowed = tagset.New(depgraph.DefaultAllowedTags...)
	}
	if a.entityMode == "" {
		a.entityMode = ModeAggregated
	}
	if a.relationMode == "" {
		a.relationMode = ModeAggregated
	}
	return a
}

// Extract renders the records of the requested kind in the configured mode.
func (a *Assembler) Extract(fileID string, doc *annotation.Document, kind Kind) ([]string, error) {
	switch kind {
	case KindEntities:
		if a.entityMode == ModeExploded {
			ps, err := a.EntityMentions(fileID, doc)
			if err != nil {
				return nil, err
			}
			return lines(ps), nil
		}
		return a.EntityPatterns(fileID, doc)
	case KindRelations:
		if a.relationMode == ModeExploded {
			ps, err := a.RelationMentions(fileID, doc)
			if err != nil {
				return nil, err
			}
			return lines(ps), nil
		}
		return a.RelationPatterns(fileID, doc)
	}
	return nil, fmt.Errorf("unknown pattern kind %q", kind)
}

// EntityPatterns renders Entities as TSV lines.
func (a *Assembler) EntityPatterns(fileID string, doc *annotation.Document) ([]string, error) {
	ps, err := a.Entities(fileID, doc)
	if err != nil {
		return nil, err
	}
	return lines(ps), nil
}

// RelationPatterns renders Relations as TSV lines.
func (a *Assembler) RelationPatterns(fileID string, doc *annotation.Document) ([]string, error) {
	ps, err := a.Relations(fileID, doc)
	if err != nil {
		return nil, err
	}
	return lines(ps), nil
}

func lines[T fmt.Stringer](records []T) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.String()
	}
	return out
}

// cluster is a coreference cluster prepared for extraction.
type cluster struct {
	annotation.Cluster
	entity Entity
}

// eligible validates doc and returns its clusters whose representative
// passes the filter, in document order.
func (a *Assembler) eligible(fileID string, doc *annotation.Document) ([]cluster, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	var out []cluster
	for _, c := range doc.Clusters {
		rep := c.Representative
		s, err := doc.SentenceOf(rep)
		if err != nil {
			return nil, err
		}
		ok, err := a.filter.Eligible(rep, s)
		if err != nil {
			return nil, fmt.Errorf("cluster %d: %w", c.ID, err)
		}
		if !ok {
			continue
		}
		entity, err := describeEntity(fileID, rep, s)
		if err != nil {
			return nil, fmt.Errorf("cluster %d: %w", c.ID, err)
		}
		out = append(out, cluster{Cluster: c, entity: entity})
	}
	return out, nil
}

func describeEntity(fileID string, rep annotation.Mention, s *annotation.Sentence) (Entity, error) {
	phrase, err := mention.SurfaceSpan(rep, s)
	if err != nil {
		return Entity{}, err
	}
	ner, err := mention.HeadNER(rep, s)
	if err != nil {
		return Entity{}, err
	}
	return Entity{
		Phrase: phrase,
		ID:     mention.EntityID(fileID, phrase, rep),
		NER:    ner,
	}, nil
}

// Entities returns one pattern per eligible cluster whose mentions have at
// least one admitted head dependency.
func (a *Assembler) Entities(fileID string, doc *annotation.Document) ([]EntityPattern, error) {
	clusters, err := a.eligible(fileID, doc)
	if err != nil {
		return nil, err
	}

	var patterns []EntityPattern
	for _, c := range clusters {
		var deps []string
		for _, m := range c.Mentions {
			s, err := doc.SentenceOf(m)
			if err != nil {
				return nil, err
			}
			md, err := depgraph.HeadDependencies(m, s, a.allowed, a.labeled)
			if err != nil {
				return nil, fmt.Errorf("cluster %d mention %v: %w", c.ID, m, err)
			}
			deps = append(deps, md...)
		}
		if len(deps) == 0 {
			continue
		}
		patterns = append(patterns, EntityPattern{FileID: fileID, Entity: c.entity, Dependencies: deps})
	}
	return patterns, nil
}

// EntityMentions returns one pattern per admitted head dependency of every
// mention of every eligible cluster.
func (a *Assembler) EntityMentions(fileID string, doc *annotation.Document) ([]EntityMentionPattern, error) {
	clusters, err := a.eligible(fileID, doc)
	if err != nil {
		return nil, err
	}

	var patterns []EntityMentionPattern
	for _, c := range clusters {
		for _, m := range c.Mentions {
			s, err := doc.SentenceOf(m)
			if err != nil {
				return nil, err
			}
			deps, err := depgraph.HeadDependencies(m, s, a.allowed, a.labeled)
			if err != nil {
				return nil, fmt.Errorf("cluster %d mention %v: %w", c.ID, m, err)
			}
			if len(deps) == 0 {
				continue
			}
			phrase, err := mention.SurfaceSpan(m, s)
			if err != nil {
				return nil, err
			}
			for _, dep := range deps {
				patterns = append(patterns, EntityMentionPattern{
					FileID:        fileID,
					Entity:        c.entity,
					MentionPhrase: phrase,
					MentionID:     mention.UniqueID(fileID, m),
					Dependency:    dep,
				})
			}
		}
	}
	return patterns, nil
}

// Relations returns one pattern per ordered pair of distinct eligible
// clusters with at least one mention pair joined by a walk. Both (A, B) and
// (B, A) are reported.
func (a *Assembler) Relations(fileID string, doc *annotation.Document) ([]RelationPattern, error) {
	clusters, err := a.eligible(fileID, doc)
	if err != nil {
		return nil, err
	}

	var patterns []RelationPattern
	for _, src := range clusters {
		for _, dest := range clusters {
			if src.ID == dest.ID {
				continue
			}
			var walks []string
			for _, sm := range src.Mentions {
				for _, dm := range dest.Mentions {
					walk, err := a.walk(doc, sm, dm)
					if err != nil {
						return nil, err
					}
					if walk != "" {
						walks = append(walks, walk)
					}
				}
			}
			if len(walks) == 0 {
				continue
			}
			patterns = append(patterns, RelationPattern{
				FileID: fileID,
				Source: src.entity,
				Walks:  walks,
				Dest:   dest.entity,
			})
		}
	}
	return patterns, nil
}

// RelationMentions returns one pattern per concrete mention pair of distinct
// eligible clusters joined by a walk.
func (a *Assembler) RelationMentions(fileID string, doc *annotation.Document) ([]RelationMentionPattern, error) {
	clusters, err := a.eligible(fileID, doc)
	if err != nil {
		return nil, err
	}

	var patterns []RelationMentionPattern
	for _, src := range clusters {
		for _, sm := range src.Mentions {
			for _, dest := range clusters {
				if src.ID == dest.ID {
					continue
				}
				for _, dm := range dest.Mentions {
					walk, err := a.walk(doc, sm, dm)
					if err != nil {
						return nil, err
					}
					if walk == "" {
						continue
					}
					p := RelationMentionPattern{
						FileID:          fileID,
						Source:          src.entity,
						SourceMentionID: mention.UniqueID(fileID, sm),
						Walk:            walk,
						Dest:            dest.entity,
						DestMentionID:   mention.UniqueID(fileID, dm),
					}
					if p.SourcePhrase, err = a.phrase(doc, sm); err != nil {
						return nil, err
					}
					if p.DestPhrase, err = a.phrase(doc, dm); err != nil {
						return nil, err
					}
					patterns = append(patterns, p)
				}
			}
		}
	}
	return patterns, nil
}

// walk returns the labeled edge walk from src to dest concatenated into one
// string, or "" when there is none.
func (a *Assembler) walk(doc *annotation.Document, src, dest annotation.Mention) (string, error) {
	if src.SentNum != dest.SentNum {
		return "", nil
	}
	s, err := doc.SentenceOf(src)
	if err != nil {
		return "", err
	}
	arcs, err := a.walker.EdgeWalk(src, dest, s, true)
	if err != nil {
		return "", fmt.Errorf("walk %v -> %v: %w", src, dest, err)
	}
	return strings.Join(arcs, ""), nil
}

func (a *Assembler) phrase(doc *annotation.Document, m annotation.Mention) (string, error) {
	s, err := doc.SentenceOf(m)
	if err != nil {
		return "", err
	}
	return mention.SurfaceSpan(m, s)
}
