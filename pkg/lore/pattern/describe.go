package pattern

import (
	"fmt"
	"strings"

	"github.com/kedarbellare/lore/pkg/lore/annotation"
	"github.com/kedarbellare/lore/pkg/lore/depgraph"
	"github.com/kedarbellare/lore/pkg/lore/mention"
)

// Describe renders a mention for inspection:
//
//	Jacques Chirac @1[1,4) headWord=Chirac headTag=NNP headNer=PERSON relns=[-->President, -->Jacques, <--say]
//
// Dependencies are unfiltered and unlabeled.
func Describe(m annotation.Mention, s *annotation.Sentence) (string, error) {
	head, err := mention.HeadToken(m, s)
	if err != nil {
		return "", err
	}
	span, err := mention.SurfaceSpan(m, s)
	if err != nil {
		return "", err
	}
	deps, err := depgraph.HeadDependencies(m, s, nil, false)
	if err != nil {
		return "", err
	}
	word, err := head.RequireText()
	if err != nil {
		return "", err
	}
	pos, err := head.RequirePOS()
	if err != nil {
		return "", err
	}
	ner, err := head.RequireNER()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s @%d[%d,%d) headWord=%s headTag=%s headNer=%s relns=[%s]",
		span, m.SentNum, m.Start, m.End, word, pos, ner, strings.Join(deps, ", ")), nil
}

// DescribeDocument describes every mention of every cluster, one line each,
// grouped by cluster with the representative first.
func DescribeDocument(doc *annotation.Document) ([]string, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	var out []string
	for _, c := range doc.Clusters {
		ordered := append([]annotation.Mention{c.Representative}, without(c.Mentions, c.Representative)...)
		for i, m := range ordered {
			s, err := doc.SentenceOf(m)
			if err != nil {
				return nil, err
			}
			d, err := Describe(m, s)
			if err != nil {
				return nil, fmt.Errorf("cluster %d: %w", c.ID, err)
			}
			marker := " "
			if i == 0 {
				marker = "*"
			}
			out = append(out, fmt.Sprintf("%d%s %s", c.ID, marker, d))
		}
	}
	return out, nil
}

// WalkPreviews lists the unlabeled walk between every pair of mentions of
// eligible clusters, one line per walk:
//
//	Jacques Chirac[<--say, -->sign, -->]Bush
//
// Lines follow source cluster, source mention, destination cluster and
// destination mention order.
func (a *Assembler) WalkPreviews(doc *annotation.Document) ([]string, error) {
	clusters, err := a.eligible("", doc)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, src := range clusters {
		for _, sm := range src.Mentions {
			for _, dest := range clusters {
				for _, dm := range dest.Mentions {
					if sm.SentNum != dm.SentNum {
						continue
					}
					s, err := doc.SentenceOf(sm)
					if err != nil {
						return nil, err
					}
					arcs, err := a.walker.EdgeWalk(sm, dm, s, false)
					if err != nil {
						return nil, fmt.Errorf("walk %v -> %v: %w", sm, dm, err)
					}
					if len(arcs) == 0 {
						continue
					}
					out = append(out, src.entity.Phrase+"["+strings.Join(arcs, ", ")+"]"+dest.entity.Phrase)
				}
			}
		}
	}
	return out, nil
}

func without(ms []annotation.Mention, drop annotation.Mention) []annotation.Mention {
	out := make([]annotation.Mention, 0, len(ms))
	for _, m := range ms {
		if m != drop {
			out = append(out, m)
		}
	}
	return out
}
