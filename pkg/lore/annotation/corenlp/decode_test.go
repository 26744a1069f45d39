package corenlp

import (
	"context"
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/kedarbellare/lore/pkg/lore/annotation/annotationtest"
	"github.com/kedarbellare/lore/pkg/lore/internalerr"
)

func TestDecodeMatchesFixture(t *testing.T) {
	f, err := os.Open("testdata/chirac.json")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := annotationtest.Chirac()
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("decoded document differs from fixture\n got: %+v\nwant: %+v", doc, want)
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestDecodeDependencyPreference(t *testing.T) {
	doc, err := DecodeString(`{"sentences":[{
		"tokens":[{"index":1,"word":"a","pos":"NN","ner":"O","lemma":"a"},{"index":2,"word":"b","pos":"NN","ner":"O","lemma":"b"}],
		"basicDependencies":[{"dep":"ROOT","governor":0,"dependent":1},{"dep":"basic","governor":1,"dependent":2}],
		"enhancedPlusPlusDependencies":[{"dep":"ROOT","governor":0,"dependent":1},{"dep":"enhanced","governor":1,"dependent":2}]
	}]}`)
	if err != nil {
		t.Fatal(err)
	}
	g := doc.Sentences[0].Graph
	if g.Root != 1 || len(g.Edges) != 1 || g.Edges[0].Label != "enhanced" {
		t.Errorf("expected enhanced graph rooted at 1, got %+v", g)
	}
	if len(doc.Clusters) != 0 {
		t.Errorf("expected no clusters, got %d", len(doc.Clusters))
	}
}

func TestDecodeClusterOrder(t *testing.T) {
	doc, err := DecodeString(`{"sentences":[{
		"tokens":[{"index":1,"word":"a","pos":"NN","ner":"O","lemma":"a"}],
		"basicDependencies":[{"dep":"ROOT","governor":0,"dependent":1}]
	}],"corefs":{
		"10":[{"sentNum":1,"startIndex":1,"endIndex":2,"headIndex":1,"isRepresentativeMention":true}],
		"9":[{"sentNum":1,"startIndex":1,"endIndex":2,"headIndex":1,"isRepresentativeMention":true}],
		"2":[{"sentNum":1,"startIndex":1,"endIndex":2,"headIndex":1,"isRepresentativeMention":true}]
	}}`)
	if err != nil {
		t.Fatal(err)
	}
	var ids []int
	for _, c := range doc.Clusters {
		ids = append(ids, c.ID)
	}
	if !reflect.DeepEqual(ids, []int{2, 9, 10}) {
		t.Errorf("cluster order = %v", ids)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":          `{"sentences":`,
		"no parse":          `{"sentences":[{"tokens":[{"index":1,"word":"a"}]}]}`,
		"non-numeric id":    `{"sentences":[],"corefs":{"x":[{"sentNum":1,"startIndex":1,"endIndex":2,"headIndex":1,"isRepresentativeMention":true}]}}`,
		"no representative": `{"sentences":[],"corefs":{"1":[{"sentNum":1,"startIndex":1,"endIndex":2,"headIndex":1}]}}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeString(in); !errors.Is(err, internalerr.ErrMalformedAnnotation) {
				t.Errorf("expected ErrMalformedAnnotation, got %v", err)
			}
		})
	}
}

func TestPrecomputed(t *testing.T) {
	raw, err := os.ReadFile("testdata/chirac.json")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := Precomputed{}.Annotate(context.Background(), string(raw))
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Sentences) != 2 || len(doc.Clusters) != 5 {
		t.Errorf("unexpected document shape: %d sentences, %d clusters", len(doc.Sentences), len(doc.Clusters))
	}
}
