package mention

import (
	"github.com/kedarbellare/lore/pkg/lore/annotation"
	"github.com/kedarbellare/lore/pkg/lore/tagset"
)

// DefaultIgnoredNERs are head NER tags that never take part in patterns:
// non-entities and temporal or numeric expressions.
var DefaultIgnoredNERs = []string{OutsideNER, "TIME", "DURATION", "DATE", "NUMBER", "MONEY", "ORDINAL"}

// Filter gates mentions by the NER tag of their head token.
type Filter struct {
	ignored *tagset.Set
}

// NewFilter creates a filter that rejects the given head NER tags.
func NewFilter(ignored *tagset.Set) *Filter {
	return &Filter{ignored: ignored}
}

// DefaultFilter rejects DefaultIgnoredNERs.
func DefaultFilter() *Filter {
	return NewFilter(tagset.New(DefaultIgnoredNERs...))
}

// Eligible reports whether m may take part in pattern extraction.
func (f *Filter) Eligible(m annotation.Mention, s *annotation.Sentence) (bool, error) {
	ner, err := HeadNER(m, s)
	if err != nil {
		return false, err
	}
	return !f.ignored.Contains(ner), nil
}

// Ignored returns the rejected tags in sorted order.
func (f *Filter) Ignored() []string {
	return f.ignored.All()
}
