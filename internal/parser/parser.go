// Package parser extracts question/answer pairs from document text.
// Questions are wrapped in <qN>...</qN>, answers in <aN>...</aN>; the
// numeric suffix pairs a question with its answer regardless of where the
// two spans sit in the document.
package parser

import (
	"errors"
	"fmt"
	"log"
	"regexp"

	"github.com/Simple2B/bidhive-ml-api/internal/dataset"
)

var (
	questionSpanRe = regexp.MustCompile(`(?s)<q([0-9]*)>(.*?)</q[0-9]*>`)
	answerSpanRe   = regexp.MustCompile(`(?s)<a([0-9]*)>(.*?)</a[0-9]*>`)

	questionMarkerRe = regexp.MustCompile(`<q[0-9]*>`)
	answerMarkerRe   = regexp.MustCompile(`<a[0-9]*>`)
)

var (
	// ErrMalformedMarker reports an opening marker with no matching closing
	// marker (or a nested marker swallowed by an enclosing span).
	ErrMalformedMarker = errors.New("malformed tag marker")
	// ErrDuplicateSuffix reports a suffix used by more than one question or
	// more than one answer in a single document.
	ErrDuplicateSuffix = errors.New("duplicate tag suffix")
)

// Parser turns raw document text into dataset rows.
type Parser struct {
	// AllowDuplicateSuffix switches a reused suffix from a parse error to
	// last-write-wins on the pending entry.
	AllowDuplicateSuffix bool
}

type pendingEntry struct {
	question  string
	answer    string
	hasAnswer bool
}

// Parse scans the text and returns one row per question suffix that has an
// answer, ordered by first-seen question marker. Answers with no matching
// question are logged and dropped; questions with no answer are dropped
// from the result after the full scan.
func (p *Parser) Parse(fileInfoID uint, text string) ([]dataset.Row, error) {
	questions := questionSpanRe.FindAllStringSubmatch(text, -1)
	answers := answerSpanRe.FindAllStringSubmatch(text, -1)

	// Every opening marker must belong to a matched span, otherwise the
	// document has an unclosed or nested marker and the parse is rejected
	// instead of silently truncating.
	if open := len(questionMarkerRe.FindAllString(text, -1)); open != len(questions) {
		return nil, fmt.Errorf("%w: %d question markers but %d complete question spans", ErrMalformedMarker, open, len(questions))
	}
	if open := len(answerMarkerRe.FindAllString(text, -1)); open != len(answers) {
		return nil, fmt.Errorf("%w: %d answer markers but %d complete answer spans", ErrMalformedMarker, open, len(answers))
	}

	entries := make(map[string]*pendingEntry)
	var order []string

	for _, match := range questions {
		suffix, body := match[1], match[2]
		if _, exists := entries[suffix]; exists {
			if !p.AllowDuplicateSuffix {
				return nil, fmt.Errorf("%w: question suffix %q used twice", ErrDuplicateSuffix, suffix)
			}
			entries[suffix].question = body
			continue
		}
		entries[suffix] = &pendingEntry{question: body}
		order = append(order, suffix)
	}

	for _, match := range answers {
		suffix, body := match[1], match[2]
		entry, exists := entries[suffix]
		if !exists {
			// Non-fatal: the answer has nothing to attach to.
			log.Printf("Answer marker <a%s> has no matching question, dropped", suffix)
			continue
		}
		if entry.hasAnswer && !p.AllowDuplicateSuffix {
			return nil, fmt.Errorf("%w: answer suffix %q used twice", ErrDuplicateSuffix, suffix)
		}
		entry.answer = body
		entry.hasAnswer = true
	}

	var rows []dataset.Row
	for _, suffix := range order {
		entry := entries[suffix]
		if !entry.hasAnswer {
			continue
		}
		rows = append(rows, dataset.Row{
			Question:   entry.question,
			Answer:     entry.answer,
			FileInfoID: fileInfoID,
		})
	}

	return rows, nil
}
