// Package annotationtest provides small hand-annotated documents for tests.
package annotationtest

import (
	"strconv"

	"github.com/kedarbellare/lore/pkg/lore/annotation"
)

// FileID is the identifier the fixtures are extracted under in tests.
const FileID = "doc1"

// Cluster ids used by Chirac.
const (
	ClusterChirac    = 1
	ClusterBush      = 2
	ClusterStates    = 3
	ClusterAgreement = 4
	ClusterYear      = 5
)

// Tok builds a token.
func Tok(index int, text, pos, ner, lemma string) annotation.Token {
	return annotation.Token{Index: index, Text: text, POS: pos, NER: ner, Lemma: lemma}
}

// Chirac returns a two-sentence document:
//
//	1: President Jacques Chirac said that Bush signed the agreement .
//	2: He said the United States will sign it in 2012 .
//
// with clusters {Jacques Chirac, He}, {Bush}, {the United States},
// {the agreement, it} and {2012}.
func Chirac() *annotation.Document {
	s1 := annotation.Sentence{
		Tokens: []annotation.Token{
			Tok(1, "President", "NNP", "O", "President"),
			Tok(2, "Jacques", "NNP", "PERSON", "Jacques"),
			Tok(3, "Chirac", "NNP", "PERSON", "Chirac"),
			Tok(4, "said", "VBD", "O", "say"),
			Tok(5, "that", "IN", "O", "that"),
			Tok(6, "Bush", "NNP", "PERSON", "Bush"),
			Tok(7, "signed", "VBD", "O", "sign"),
			Tok(8, "the", "DT", "O", "the"),
			Tok(9, "agreement", "NN", "O", "agreement"),
			Tok(10, ".", ".", "O", "."),
		},
		Graph: &annotation.Graph{
			Root: 4,
			Edges: []annotation.Edge{
				{Governor: 3, Dependent: 1, Label: "nn"},
				{Governor: 3, Dependent: 2, Label: "nn"},
				{Governor: 4, Dependent: 3, Label: "nsubj"},
				{Governor: 7, Dependent: 5, Label: "complm"},
				{Governor: 7, Dependent: 6, Label: "nsubj"},
				{Governor: 4, Dependent: 7, Label: "ccomp"},
				{Governor: 9, Dependent: 8, Label: "det"},
				{Governor: 7, Dependent: 9, Label: "dobj"},
				{Governor: 4, Dependent: 10, Label: "punct"},
			},
		},
	}
	s2 := annotation.Sentence{
		Tokens: []annotation.Token{
			Tok(1, "He", "PRP", "O", "he"),
			Tok(2, "said", "VBD", "O", "say"),
			Tok(3, "the", "DT", "O", "the"),
			Tok(4, "United", "NNP", "LOCATION", "United"),
			Tok(5, "States", "NNPS", "LOCATION", "States"),
			Tok(6, "will", "MD", "O", "will"),
			Tok(7, "sign", "VB", "O", "sign"),
			Tok(8, "it", "PRP", "O", "it"),
			Tok(9, "in", "IN", "O", "in"),
			Tok(10, "2012", "CD", "DATE", "2012"),
			Tok(11, ".", ".", "O", "."),
		},
		Graph: &annotation.Graph{
			Root: 2,
			Edges: []annotation.Edge{
				{Governor: 2, Dependent: 1, Label: "nsubj"},
				{Governor: 5, Dependent: 3, Label: "det"},
				{Governor: 5, Dependent: 4, Label: "nn"},
				{Governor: 7, Dependent: 5, Label: "nsubj"},
				{Governor: 7, Dependent: 6, Label: "aux"},
				{Governor: 2, Dependent: 7, Label: "ccomp"},
				{Governor: 7, Dependent: 8, Label: "dobj"},
				{Governor: 7, Dependent: 10, Label: "prep_in"},
				{Governor: 2, Dependent: 11, Label: "punct"},
			},
		},
	}

	chirac := annotation.Mention{SentNum: 1, Start: 1, End: 4, Head: 3, ClusterID: ClusterChirac}
	he := annotation.Mention{SentNum: 2, Start: 1, End: 2, Head: 1, ClusterID: ClusterChirac}
	bush := annotation.Mention{SentNum: 1, Start: 6, End: 7, Head: 6, ClusterID: ClusterBush}
	states := annotation.Mention{SentNum: 2, Start: 3, End: 6, Head: 5, ClusterID: ClusterStates}
	agreement := annotation.Mention{SentNum: 1, Start: 8, End: 10, Head: 9, ClusterID: ClusterAgreement}
	it := annotation.Mention{SentNum: 2, Start: 8, End: 9, Head: 8, ClusterID: ClusterAgreement}
	year := annotation.Mention{SentNum: 2, Start: 10, End: 11, Head: 10, ClusterID: ClusterYear}

	return &annotation.Document{
		Sentences: []annotation.Sentence{s1, s2},
		Clusters: []annotation.Cluster{
			{ID: ClusterChirac, Mentions: []annotation.Mention{chirac, he}, Representative: chirac},
			{ID: ClusterBush, Mentions: []annotation.Mention{bush}, Representative: bush},
			{ID: ClusterStates, Mentions: []annotation.Mention{states}, Representative: states},
			{ID: ClusterAgreement, Mentions: []annotation.Mention{agreement, it}, Representative: agreement},
			{ID: ClusterYear, Mentions: []annotation.Mention{year}, Representative: year},
		},
	}
}

// Chain returns a single sentence whose n tokens form the dependency chain
// 1 -dep-> 2 -dep-> ... -dep-> n, rooted at 1. Token i has text "wi",
// lemma "li", POS "NN" and NER "PERSON".
func Chain(n int) annotation.Sentence {
	s := annotation.Sentence{Graph: &annotation.Graph{Root: 1}}
	for i := 1; i <= n; i++ {
		s.Tokens = append(s.Tokens, Tok(i, "w"+strconv.Itoa(i), "NN", "PERSON", "l"+strconv.Itoa(i)))
		if i > 1 {
			s.Graph.Edges = append(s.Graph.Edges, annotation.Edge{Governor: i - 1, Dependent: i, Label: "dep"})
		}
	}
	return s
}
