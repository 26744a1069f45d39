package pattern

import "strings"

// ListSep joins multi-valued fields inside one TSV column.
const ListSep = "|||"

// Entity describes a coreference cluster by its representative mention.
//
// ID is an entity id, not the bare mention id: the representative's phrase,
// "##", then its mention.UniqueID. Mention columns of exploded records carry
// bare unique ids.
type Entity struct {
	Phrase string // surface span of the representative
	ID     string // phrase##uniqueId of the representative
	NER    string // head NER tag of the representative
}

// EntityPattern is the dependency context of every mention of one entity.
type EntityPattern struct {
	FileID       string
	Entity       Entity
	Dependencies []string
}

// String renders the record as
// fileId, phrase, id, ner, dep|||dep|||...
func (p EntityPattern) String() string {
	return join(p.FileID, p.Entity.Phrase, p.Entity.ID, p.Entity.NER, strings.Join(p.Dependencies, ListSep))
}

// EntityMentionPattern is one dependency of one member mention.
type EntityMentionPattern struct {
	FileID        string
	Entity        Entity
	MentionPhrase string
	MentionID     string
	Dependency    string
}

// String renders the record as
// fileId, phrase, id, ner, mentionPhrase, mentionId, dep
func (p EntityMentionPattern) String() string {
	return join(p.FileID, p.Entity.Phrase, p.Entity.ID, p.Entity.NER, p.MentionPhrase, p.MentionID, p.Dependency)
}

// RelationPattern collects every walk between the mentions of two entities.
// Each walk is its arcs concatenated.
type RelationPattern struct {
	FileID string
	Source Entity
	Walks  []string
	Dest   Entity
}

// String renders the record as
// fileId, srcPhrase, srcId, srcNER, walk|||walk|||..., destPhrase, destId, destNER
func (p RelationPattern) String() string {
	return join(p.FileID,
		p.Source.Phrase, p.Source.ID, p.Source.NER,
		strings.Join(p.Walks, ListSep),
		p.Dest.Phrase, p.Dest.ID, p.Dest.NER)
}

// RelationMentionPattern is the walk between one concrete mention pair.
type RelationMentionPattern struct {
	FileID          string
	Source          Entity
	SourcePhrase    string
	SourceMentionID string
	Walk            string
	Dest            Entity
	DestPhrase      string
	DestMentionID   string
}

// String renders the record as
// fileId, srcPhrase, srcId, srcNER, srcMentionPhrase, srcMentionId, walk,
// destPhrase, destId, destNER, destMentionPhrase, destMentionId
func (p RelationMentionPattern) String() string {
	return join(p.FileID,
		p.Source.Phrase, p.Source.ID, p.Source.NER, p.SourcePhrase, p.SourceMentionID,
		p.Walk,
		p.Dest.Phrase, p.Dest.ID, p.Dest.NER, p.DestPhrase, p.DestMentionID)
}

var fieldCleaner = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

// join builds one TSV line; tabs and newlines inside fields become spaces.
func join(fields ...string) string {
	for i, f := range fields {
		fields[i] = fieldCleaner.Replace(f)
	}
	return strings.Join(fields, "\t")
}
