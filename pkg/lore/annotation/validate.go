package annotation

import (
	"fmt"

	"github.com/kedarbellare/lore/pkg/lore/internalerr"
)

// Validate checks the structural contract an Annotator must honour:
// every sentence has a dependency graph whose edges stay inside the
// sentence, clusters are non-empty and partition the mentions, and every
// mention range is consistent with its sentence. Cluster ids are unique and
// each representative is one of its cluster's mentions.
//
// Token fields are not checked here; they are required lazily by the code
// that builds strings from them.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("nil document: %w", internalerr.ErrMalformedAnnotation)
	}
	for i := range d.Sentences {
		if err := d.Sentences[i].validate(); err != nil {
			return fmt.Errorf("sentence %d: %w", i+1, err)
		}
	}

	seen := make(map[Mention]int)
	ids := make(map[int]bool, len(d.Clusters))
	for _, c := range d.Clusters {
		if ids[c.ID] {
			return fmt.Errorf("duplicate cluster id %d: %w", c.ID, internalerr.ErrMalformedAnnotation)
		}
		ids[c.ID] = true
		if len(c.Mentions) == 0 {
			return fmt.Errorf("cluster %d has no mentions: %w", c.ID, internalerr.ErrMalformedAnnotation)
		}
		if !containsMention(c.Mentions, c.Representative) {
			return fmt.Errorf("cluster %d representative %v is not one of its mentions: %w",
				c.ID, c.Representative, internalerr.ErrMalformedAnnotation)
		}
		if c.Representative.ClusterID != c.ID {
			return fmt.Errorf("cluster %d representative %v belongs to cluster %d: %w",
				c.ID, c.Representative, c.Representative.ClusterID, internalerr.ErrMalformedAnnotation)
		}
		if err := d.validateMention(c.Representative); err != nil {
			return fmt.Errorf("cluster %d representative: %w", c.ID, err)
		}
		for _, m := range c.Mentions {
			if m.ClusterID != c.ID {
				return fmt.Errorf("cluster %d mention %v belongs to cluster %d: %w",
					c.ID, m, m.ClusterID, internalerr.ErrMalformedAnnotation)
			}
			key := m
			key.ClusterID = 0
			if other, ok := seen[key]; ok && other != c.ID {
				return fmt.Errorf("mention %v in clusters %d and %d: %w", m, other, c.ID, internalerr.ErrMalformedAnnotation)
			}
			seen[key] = c.ID
			if err := d.validateMention(m); err != nil {
				return fmt.Errorf("cluster %d: %w", c.ID, err)
			}
		}
	}
	return nil
}

func (s *Sentence) validate() error {
	if s.Graph == nil {
		return fmt.Errorf("missing dependency graph: %w", internalerr.ErrMalformedAnnotation)
	}
	n := len(s.Tokens)
	for i, tok := range s.Tokens {
		if tok.Index != i+1 {
			return fmt.Errorf("token at position %d has index %d: %w", i+1, tok.Index, internalerr.ErrMalformedAnnotation)
		}
	}
	if s.Graph.Root < 0 || s.Graph.Root > n {
		return fmt.Errorf("graph root %d: %w", s.Graph.Root, internalerr.ErrIndexOutOfRange)
	}
	for _, e := range s.Graph.Edges {
		if e.Governor < 1 || e.Governor > n || e.Dependent < 1 || e.Dependent > n {
			return fmt.Errorf("edge %d -%s-> %d outside %d tokens: %w",
				e.Governor, e.Label, e.Dependent, n, internalerr.ErrIndexOutOfRange)
		}
	}
	return nil
}

func (d *Document) validateMention(m Mention) error {
	s, err := d.Sentence(m.SentNum)
	if err != nil {
		return fmt.Errorf("mention %v: %w", m, err)
	}
	n := len(s.Tokens)
	if m.Start < 1 || m.Start > m.Head || m.Head >= m.End || m.End > n+1 {
		return fmt.Errorf("mention %v in sentence of %d tokens: %w", m, n, internalerr.ErrIndexOutOfRange)
	}
	return nil
}

func containsMention(ms []Mention, m Mention) bool {
	for _, x := range ms {
		if x == m {
			return true
		}
	}
	return false
}
