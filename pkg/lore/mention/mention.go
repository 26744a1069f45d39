// Package mention resolves coreference mentions against their sentence:
// head token, NER-aware surface span, identifiers, and eligibility.
package mention

import (
	"fmt"
	"strings"

	"github.com/kedarbellare/lore/pkg/lore/annotation"
)

// OutsideNER is the NER tag of tokens that are not part of any entity.
const OutsideNER = "O"

// HeadToken returns the syntactic head token of m.
func HeadToken(m annotation.Mention, s *annotation.Sentence) (annotation.Token, error) {
	tok, err := s.Token(m.Head)
	if err != nil {
		return annotation.Token{}, fmt.Errorf("head of mention %v: %w", m, err)
	}
	return tok, nil
}

// HeadNER returns the NER tag of the head token of m.
func HeadNER(m annotation.Mention, s *annotation.Sentence) (string, error) {
	head, err := HeadToken(m, s)
	if err != nil {
		return "", err
	}
	return head.RequireNER()
}

// SurfaceSpan returns the text a mention is known by.
//
// A head outside any entity stands for itself. Otherwise the span grows
// from the head over neighbouring tokens carrying the head's NER tag,
// leftwards no further than m.Start and rightwards no further than m.End-1,
// so multi-token names are kept whole even when the mention boundaries
// say otherwise.
func SurfaceSpan(m annotation.Mention, s *annotation.Sentence) (string, error) {
	head, err := HeadToken(m, s)
	if err != nil {
		return "", err
	}
	headNER, err := head.RequireNER()
	if err != nil {
		return "", err
	}
	if headNER == OutsideNER {
		return head.RequireText()
	}

	sameNER := func(index int) (bool, error) {
		tok, err := s.Token(index)
		if err != nil {
			return false, err
		}
		ner, err := tok.RequireNER()
		if err != nil {
			return false, err
		}
		return ner == headNER, nil
	}

	begin := m.Head
	for begin-1 >= m.Start {
		ok, err := sameNER(begin - 1)
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		begin--
	}
	end := m.Head + 1
	for end < m.End {
		ok, err := sameNER(end)
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		end++
	}

	words := make([]string, 0, end-begin)
	for i := begin; i < end; i++ {
		tok, err := s.Token(i)
		if err != nil {
			return "", err
		}
		text, err := tok.RequireText()
		if err != nil {
			return "", err
		}
		words = append(words, text)
	}
	return strings.Join(words, " "), nil
}

// UniqueID returns a key for m that is unique across a corpus as long as
// file identifiers are.
func UniqueID(fileID string, m annotation.Mention) string {
	return fmt.Sprintf("%s##%d[%d,%d)##head@%d", fileID, m.SentNum, m.Start, m.End, m.Head)
}

// EntityID identifies an entity by its representative mention and the
// surface span of that mention.
func EntityID(fileID, span string, representative annotation.Mention) string {
	return span + "##" + UniqueID(fileID, representative)
}
