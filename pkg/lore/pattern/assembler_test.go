package pattern

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/kedarbellare/lore/pkg/lore/annotation/annotationtest"
	"github.com/kedarbellare/lore/pkg/lore/internalerr"
	"github.com/kedarbellare/lore/pkg/lore/mention"
	"github.com/kedarbellare/lore/pkg/lore/tagset"
)

const (
	chiracID = "Jacques Chirac##doc1##1[1,4)##head@3"
	bushID   = "Bush##doc1##1[6,7)##head@6"
	statesID = "United States##doc1##2[3,6)##head@5"
)

func tsv(fields ...string) string { return strings.Join(fields, "\t") }

func TestEntityPatterns(t *testing.T) {
	a := New(Options{})
	got, err := a.EntityPatterns(annotationtest.FileID, annotationtest.Chirac())
	if err != nil {
		t.Fatalf("EntityPatterns: %v", err)
	}
	want := []string{
		tsv("doc1", "Jacques Chirac", chiracID, "PERSON", "<-nsubj-say|||<-nsubj-say"),
		tsv("doc1", "Bush", bushID, "PERSON", "<-nsubj-sign"),
		tsv("doc1", "United States", statesID, "LOCATION", "<-nsubj-sign"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EntityPatterns =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestRelationPatterns(t *testing.T) {
	a := New(Options{})
	got, err := a.RelationPatterns(annotationtest.FileID, annotationtest.Chirac())
	if err != nil {
		t.Fatalf("RelationPatterns: %v", err)
	}
	want := []string{
		tsv("doc1", "Jacques Chirac", chiracID, "PERSON", "<-nsubj-say-ccomp->sign-nsubj->", "Bush", bushID, "PERSON"),
		tsv("doc1", "Jacques Chirac", chiracID, "PERSON", "<-nsubj-say-ccomp->sign-nsubj->", "United States", statesID, "LOCATION"),
		tsv("doc1", "Bush", bushID, "PERSON", "<-nsubj-sign<-ccomp-say-nsubj->", "Jacques Chirac", chiracID, "PERSON"),
		tsv("doc1", "United States", statesID, "LOCATION", "<-nsubj-sign<-ccomp-say-nsubj->", "Jacques Chirac", chiracID, "PERSON"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RelationPatterns =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestRelationWalksAggregatePerClusterPair(t *testing.T) {
	doc := annotationtest.Chirac()
	// Fold "the United States" into the Bush cluster so that both sentences
	// contribute a Chirac -> Bush walk.
	states := doc.Clusters[2].Mentions[0]
	states.ClusterID = annotationtest.ClusterBush
	doc.Clusters[1].Mentions = append(doc.Clusters[1].Mentions, states)
	doc.Clusters = append(doc.Clusters[:2], doc.Clusters[3:]...)

	rels, err := New(Options{}).Relations(annotationtest.FileID, doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(rels) != 2 {
		t.Fatalf("expected 2 relations, got %d: %+v", len(rels), rels)
	}
	if rels[0].Source.ID != chiracID || rels[0].Dest.ID != bushID {
		t.Fatalf("unexpected first relation %+v", rels[0])
	}
	want := []string{"<-nsubj-say-ccomp->sign-nsubj->", "<-nsubj-say-ccomp->sign-nsubj->"}
	if !reflect.DeepEqual(rels[0].Walks, want) {
		t.Errorf("walks = %v, want %v", rels[0].Walks, want)
	}
}

func TestExplodedModes(t *testing.T) {
	a := New(Options{EntityMode: ModeExploded, RelationMode: ModeExploded})
	doc := annotationtest.Chirac()

	ents, err := a.Extract(annotationtest.FileID, doc, KindEntities)
	if err != nil {
		t.Fatal(err)
	}
	wantEnts := []string{
		tsv("doc1", "Jacques Chirac", chiracID, "PERSON", "Jacques Chirac", "doc1##1[1,4)##head@3", "<-nsubj-say"),
		tsv("doc1", "Jacques Chirac", chiracID, "PERSON", "He", "doc1##2[1,2)##head@1", "<-nsubj-say"),
		tsv("doc1", "Bush", bushID, "PERSON", "Bush", "doc1##1[6,7)##head@6", "<-nsubj-sign"),
		tsv("doc1", "United States", statesID, "LOCATION", "United States", "doc1##2[3,6)##head@5", "<-nsubj-sign"),
	}
	if !reflect.DeepEqual(ents, wantEnts) {
		t.Errorf("exploded entities =\n%s\nwant\n%s", strings.Join(ents, "\n"), strings.Join(wantEnts, "\n"))
	}

	rels, err := a.Extract(annotationtest.FileID, doc, KindRelations)
	if err != nil {
		t.Fatal(err)
	}
	wantRels := []string{
		tsv("doc1", "Jacques Chirac", chiracID, "PERSON", "Jacques Chirac", "doc1##1[1,4)##head@3",
			"<-nsubj-say-ccomp->sign-nsubj->",
			"Bush", bushID, "PERSON", "Bush", "doc1##1[6,7)##head@6"),
		tsv("doc1", "Jacques Chirac", chiracID, "PERSON", "He", "doc1##2[1,2)##head@1",
			"<-nsubj-say-ccomp->sign-nsubj->",
			"United States", statesID, "LOCATION", "United States", "doc1##2[3,6)##head@5"),
		tsv("doc1", "Bush", bushID, "PERSON", "Bush", "doc1##1[6,7)##head@6",
			"<-nsubj-sign<-ccomp-say-nsubj->",
			"Jacques Chirac", chiracID, "PERSON", "Jacques Chirac", "doc1##1[1,4)##head@3"),
		tsv("doc1", "United States", statesID, "LOCATION", "United States", "doc1##2[3,6)##head@5",
			"<-nsubj-sign<-ccomp-say-nsubj->",
			"Jacques Chirac", chiracID, "PERSON", "He", "doc1##2[1,2)##head@1"),
	}
	if !reflect.DeepEqual(rels, wantRels) {
		t.Errorf("exploded relations =\n%s\nwant\n%s", strings.Join(rels, "\n"), strings.Join(wantRels, "\n"))
	}
}

func TestExtractDeterministic(t *testing.T) {
	a := New(Options{})
	for _, kind := range []Kind{KindEntities, KindRelations} {
		first, err := a.Extract(annotationtest.FileID, annotationtest.Chirac(), kind)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 5; i++ {
			again, err := a.Extract(annotationtest.FileID, annotationtest.Chirac(), kind)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(first, again) {
				t.Fatalf("%s run %d differs", kind, i)
			}
		}
	}
}

func TestIgnoredNERsNeverEmitted(t *testing.T) {
	a := New(Options{EntityMode: ModeExploded, RelationMode: ModeExploded})
	doc := annotationtest.Chirac()
	for _, kind := range []Kind{KindEntities, KindRelations} {
		for _, agg := range []*Assembler{New(Options{}), a} {
			records, err := agg.Extract(annotationtest.FileID, doc, kind)
			if err != nil {
				t.Fatal(err)
			}
			for _, r := range records {
				if strings.Contains(r, "2012") || strings.Contains(r, "\tDATE") {
					t.Errorf("DATE entity leaked into %q", r)
				}
				if strings.Contains(r, "agreement##") {
					t.Errorf("non-entity cluster leaked into %q", r)
				}
			}
		}
	}
}

func TestEntityWithoutDependenciesSuppressed(t *testing.T) {
	a := New(Options{AllowedTags: tagset.New("JJ")})
	got, err := a.EntityPatterns(annotationtest.FileID, annotationtest.Chirac())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("expected no entity patterns, got %v", got)
	}
}

func TestCustomFilterAdmitsNonEntities(t *testing.T) {
	a := New(Options{Filter: mention.NewFilter(tagset.New("DATE"))})
	ents, err := a.Entities(annotationtest.FileID, annotationtest.Chirac())
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, e := range ents {
		if e.Entity.Phrase == "agreement" && e.Entity.NER == "O" {
			found = true
			if want := []string{"<-dobj-sign", "<-dobj-sign"}; !reflect.DeepEqual(e.Dependencies, want) {
				t.Errorf("agreement dependencies = %v, want %v", e.Dependencies, want)
			}
		}
	}
	if !found {
		t.Errorf("agreement cluster should pass a filter that only ignores DATE: %+v", ents)
	}
}

func TestMalformedDocumentFails(t *testing.T) {
	a := New(Options{})

	doc := annotationtest.Chirac()
	doc.Sentences[0].Graph = nil
	if _, err := a.RelationPatterns("f", doc); !errors.Is(err, internalerr.ErrMalformedAnnotation) {
		t.Errorf("missing graph: got %v", err)
	}

	doc = annotationtest.Chirac()
	doc.Sentences[0].Tokens[3].Lemma = ""
	if _, err := a.RelationPatterns("f", doc); !errors.Is(err, internalerr.ErrMissingField) {
		t.Errorf("missing lemma on walk: got %v", err)
	}

	doc = annotationtest.Chirac()
	doc.Sentences[1].Tokens[4].NER = ""
	if _, err := a.EntityPatterns("f", doc); !errors.Is(err, internalerr.ErrMissingField) {
		t.Errorf("missing NER on representative head: got %v", err)
	}
}

func TestExtractUnknownKind(t *testing.T) {
	if _, err := New(Options{}).Extract("f", annotationtest.Chirac(), Kind("bogus")); err == nil {
		t.Error("expected an error for an unknown kind")
	}
}

func TestRecordFieldsAreSanitized(t *testing.T) {
	p := EntityPattern{
		FileID:       "dir/with\ttab.txt",
		Entity:       Entity{Phrase: "New\nYork", ID: "x", NER: "LOCATION"},
		Dependencies: []string{"<-nsubj-say"},
	}
	if got := strings.Count(p.String(), "\t"); got != 4 {
		t.Errorf("expected 5 columns, got %d tabs in %q", got, p.String())
	}
	if strings.Contains(p.String(), "\n") {
		t.Errorf("newline leaked into %q", p.String())
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeAggregated, "aggregated": ModeAggregated, "exploded": ModeExploded} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("flat"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
