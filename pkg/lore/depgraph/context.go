// Package depgraph reads mention context out of a sentence's dependency
// graph: the arcs incident to a mention's head, and the shortest arc walk
// between the heads of two mentions.
//
// Arcs are rendered as directional strings. Following an arc from governor
// to dependent reads "-label->lemma"; following it backwards reads
// "<-label-lemma". Unlabeled rendering drops the label but keeps the dashes.
package depgraph

import (
	"github.com/kedarbellare/lore/pkg/lore/annotation"
	"github.com/kedarbellare/lore/pkg/lore/mention"
	"github.com/kedarbellare/lore/pkg/lore/tagset"
)

// DefaultAllowedTags are the POS tags a head's neighbour must carry for the
// arc to count as context: common nouns, adjectives and verbs.
var DefaultAllowedTags = []string{"NN", "NNS", "JJ", "VB", "VBD", "VBG", "VBN", "VBZ", "ADJ"}

func forward(label string, labeled bool) string {
	if !labeled {
		label = ""
	}
	return "-" + label + "->"
}

func backward(label string, labeled bool) string {
	if !labeled {
		label = ""
	}
	return "<-" + label + "-"
}

// HeadDependencies returns one string per arc incident to the head of m
// whose other endpoint has a POS tag admitted by allowed. A nil allowed
// admits every arc. Results follow the graph's edge order.
func HeadDependencies(m annotation.Mention, s *annotation.Sentence, allowed *tagset.Set, labeled bool) ([]string, error) {
	head, err := mention.HeadToken(m, s)
	if err != nil {
		return nil, err
	}

	var deps []string
	for _, e := range s.Graph.Edges {
		if e.Dependent == head.Index {
			lemma, ok, err := admitted(s, e.Governor, allowed)
			if err != nil {
				return nil, err
			}
			if ok {
				deps = append(deps, backward(e.Label, labeled)+lemma)
			}
		}
		if e.Governor == head.Index {
			lemma, ok, err := admitted(s, e.Dependent, allowed)
			if err != nil {
				return nil, err
			}
			if ok {
				deps = append(deps, forward(e.Label, labeled)+lemma)
			}
		}
	}
	return deps, nil
}

// admitted returns the lemma of the token at index if its POS tag passes
// allowed. POS is only required when there is a filter to apply.
func admitted(s *annotation.Sentence, index int, allowed *tagset.Set) (string, bool, error) {
	tok, err := s.Token(index)
	if err != nil {
		return "", false, err
	}
	if allowed != nil {
		pos, err := tok.RequirePOS()
		if err != nil {
			return "", false, err
		}
		if !allowed.Admits(pos) {
			return "", false, nil
		}
	}
	lemma, err := tok.RequireLemma()
	if err != nil {
		return "", false, err
	}
	return lemma, true, nil
}
