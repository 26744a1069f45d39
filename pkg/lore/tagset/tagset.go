// Package tagset holds immutable sets of POS or NER tags.
package tagset

import "sort"

// Set is a read-only set of tags, safe for concurrent use.
// A nil *Set is valid: it contains nothing and admits everything.
type Set struct {
	tags map[string]struct{}
}

// New creates a set from the given tags. Empty strings are dropped.
func New(tags ...string) *Set {
	s := &Set{tags: make(map[string]struct{}, len(tags))}
	for _, t := range tags {
		if t == "" {
			continue
		}
		s.tags[t] = struct{}{}
	}
	return s
}

// Contains checks whether tag is a member of the set.
func (s *Set) Contains(tag string) bool {
	if s == nil {
		return false
	}
	_, ok := s.tags[tag]
	return ok
}

// Admits treats the set as an allow-list: nil admits every tag.
func (s *Set) Admits(tag string) bool {
	if s == nil {
		return true
	}
	return s.Contains(tag)
}

// All returns the tags in sorted order.
func (s *Set) All() []string {
	if s == nil {
		return nil
	}
	result := make([]string, 0, len(s.tags))
	for t := range s.tags {
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}
