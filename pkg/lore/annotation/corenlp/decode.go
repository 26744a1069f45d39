// Package corenlp adapts Stanford CoreNLP server output to the annotation
// model: a JSON decoder, an HTTP client that implements annotation.Annotator,
// and an annotator for documents that were annotated ahead of time.
package corenlp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/kedarbellare/lore/pkg/lore/annotation"
	"github.com/kedarbellare/lore/pkg/lore/internalerr"
)

type document struct {
	Sentences []sentence           `json:"sentences"`
	Corefs    map[string][]mention `json:"corefs"`
}

type sentence struct {
	Tokens    []token      `json:"tokens"`
	Collapsed []dependency `json:"collapsed-ccprocessed-dependencies"`
	Enhanced  []dependency `json:"enhancedPlusPlusDependencies"`
	Basic     []dependency `json:"basicDependencies"`
}

type token struct {
	Index int    `json:"index"`
	Word  string `json:"word"`
	POS   string `json:"pos"`
	NER   string `json:"ner"`
	Lemma string `json:"lemma"`
}

type dependency struct {
	Dep       string `json:"dep"`
	Governor  int    `json:"governor"`
	Dependent int    `json:"dependent"`
}

type mention struct {
	SentNum          int  `json:"sentNum"`
	StartIndex       int  `json:"startIndex"`
	EndIndex         int  `json:"endIndex"`
	HeadIndex        int  `json:"headIndex"`
	IsRepresentative bool `json:"isRepresentativeMention"`
}

// Decode reads one CoreNLP JSON document.
//
// The collapsed, cc-processed dependencies are preferred, then the
// enhanced++ and finally the basic ones. Clusters are ordered by ascending
// numeric id.
func Decode(r io.Reader) (*annotation.Document, error) {
	var raw document
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode corenlp json: %w: %v", internalerr.ErrMalformedAnnotation, err)
	}

	doc := &annotation.Document{Sentences: make([]annotation.Sentence, 0, len(raw.Sentences))}
	for i, s := range raw.Sentences {
		sent, err := convertSentence(s)
		if err != nil {
			return nil, fmt.Errorf("sentence %d: %w", i+1, err)
		}
		doc.Sentences = append(doc.Sentences, sent)
	}

	clusters, err := convertCorefs(raw.Corefs)
	if err != nil {
		return nil, err
	}
	doc.Clusters = clusters
	return doc, nil
}

// DecodeString is Decode over an in-memory document.
func DecodeString(s string) (*annotation.Document, error) {
	return Decode(strings.NewReader(s))
}

func convertSentence(s sentence) (annotation.Sentence, error) {
	out := annotation.Sentence{Tokens: make([]annotation.Token, 0, len(s.Tokens))}
	for _, t := range s.Tokens {
		out.Tokens = append(out.Tokens, annotation.Token{
			Index: t.Index,
			Text:  t.Word,
			POS:   t.POS,
			NER:   t.NER,
			Lemma: t.Lemma,
		})
	}

	deps := s.Collapsed
	if deps == nil {
		deps = s.Enhanced
	}
	if deps == nil {
		deps = s.Basic
	}
	if deps == nil {
		return out, fmt.Errorf("no dependency parse: %w", internalerr.ErrMalformedAnnotation)
	}

	g := &annotation.Graph{}
	for _, d := range deps {
		if d.Governor == 0 {
			if g.Root == 0 {
				g.Root = d.Dependent
			}
			continue
		}
		g.Edges = append(g.Edges, annotation.Edge{Governor: d.Governor, Dependent: d.Dependent, Label: d.Dep})
	}
	out.Graph = g
	return out, nil
}

func convertCorefs(corefs map[string][]mention) ([]annotation.Cluster, error) {
	ids := make([]int, 0, len(corefs))
	byID := make(map[int][]mention, len(corefs))
	for key, ms := range corefs {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("coref cluster id %q: %w", key, internalerr.ErrMalformedAnnotation)
		}
		ids = append(ids, id)
		byID[id] = ms
	}
	sort.Ints(ids)

	clusters := make([]annotation.Cluster, 0, len(ids))
	for _, id := range ids {
		c := annotation.Cluster{ID: id}
		var haveRep bool
		for _, m := range byID[id] {
			am := annotation.Mention{
				SentNum:   m.SentNum,
				Start:     m.StartIndex,
				End:       m.EndIndex,
				Head:      m.HeadIndex,
				ClusterID: id,
			}
			c.Mentions = append(c.Mentions, am)
			if m.IsRepresentative && !haveRep {
				c.Representative = am
				haveRep = true
			}
		}
		if !haveRep {
			return nil, fmt.Errorf("coref cluster %d has no representative mention: %w", id, internalerr.ErrMalformedAnnotation)
		}
		clusters = append(clusters, c)
	}
	return clusters, nil
}

// Precomputed is an Annotator for text that already is CoreNLP JSON, as
// produced by running the server ahead of time.
type Precomputed struct{}

// Annotate decodes text as a CoreNLP JSON document.
func (Precomputed) Annotate(_ context.Context, text string) (*annotation.Document, error) {
	return DecodeString(text)
}
