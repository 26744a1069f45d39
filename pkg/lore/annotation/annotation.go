// Package annotation defines the linguistic annotation a document must carry
// before patterns can be extracted from it: sentences of tagged tokens, one
// dependency graph per sentence, and coreference clusters of mentions.
//
// Sentence numbers and token indexes are 1-based throughout.
package annotation

import (
	"context"
	"fmt"

	"github.com/kedarbellare/lore/pkg/lore/internalerr"
)

// Annotator turns raw document text into an annotated Document.
// Implementations are constructed once and shared by concurrent workers.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*Document, error)
}

// Token is a single annotated word of a sentence.
type Token struct {
	Index int // 1-based, sentence-local
	Text  string
	POS   string
	NER   string
	Lemma string
}

// RequireText returns the token text or ErrMissingField.
func (t Token) RequireText() (string, error) {
	return require(t.Index, "text", t.Text)
}

// RequirePOS returns the part-of-speech tag or ErrMissingField.
func (t Token) RequirePOS() (string, error) {
	return require(t.Index, "pos", t.POS)
}

// RequireNER returns the named-entity tag or ErrMissingField.
func (t Token) RequireNER() (string, error) {
	return require(t.Index, "ner", t.NER)
}

// RequireLemma returns the lemma or ErrMissingField.
func (t Token) RequireLemma() (string, error) {
	return require(t.Index, "lemma", t.Lemma)
}

func require(index int, field, value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("token %d %s: %w", index, field, internalerr.ErrMissingField)
	}
	return value, nil
}

// Edge is a labeled governor → dependent arc of a dependency graph.
type Edge struct {
	Governor  int
	Dependent int
	Label     string
}

// Graph is a directed, edge-labeled dependency graph over token indexes.
// Its vertices are the tokens touched by at least one edge plus the root.
// Root is 0 when the graph has no designated root.
type Graph struct {
	Edges []Edge
	Root  int
}

// HasVertex reports whether index is a vertex of the graph.
func (g *Graph) HasVertex(index int) bool {
	if index == 0 {
		return false
	}
	if g.Root == index {
		return true
	}
	for _, e := range g.Edges {
		if e.Governor == index || e.Dependent == index {
			return true
		}
	}
	return false
}

// Sentence is an ordered token sequence and its dependency graph.
type Sentence struct {
	Tokens []Token
	Graph  *Graph
}

// Token returns the token at the 1-based index.
func (s *Sentence) Token(index int) (Token, error) {
	if index < 1 || index > len(s.Tokens) {
		return Token{}, fmt.Errorf("token %d of %d: %w", index, len(s.Tokens), internalerr.ErrIndexOutOfRange)
	}
	return s.Tokens[index-1], nil
}

// Mention is a token span [Start, End) in one sentence with a syntactic head.
type Mention struct {
	SentNum   int
	Start     int
	End       int
	Head      int
	ClusterID int
}

func (m Mention) String() string {
	return fmt.Sprintf("%d[%d,%d)@%d", m.SentNum, m.Start, m.End, m.Head)
}

// Cluster is a set of co-referring mentions with a representative.
type Cluster struct {
	ID             int
	Mentions       []Mention
	Representative Mention
}

// Document is the annotation of one input text.
type Document struct {
	Sentences []Sentence
	Clusters  []Cluster
}

// Sentence returns the sentence with the given 1-based number.
func (d *Document) Sentence(num int) (*Sentence, error) {
	if num < 1 || num > len(d.Sentences) {
		return nil, fmt.Errorf("sentence %d of %d: %w", num, len(d.Sentences), internalerr.ErrIndexOutOfRange)
	}
	return &d.Sentences[num-1], nil
}

// SentenceOf returns the sentence a mention lives in.
func (d *Document) SentenceOf(m Mention) (*Sentence, error) {
	return d.Sentence(m.SentNum)
}
