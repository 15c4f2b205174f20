// Package lookup turns a chat utterance into one of the fixed pension
// enrollment answers.
package lookup

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"pension-webhook/internal/common/config"
)

var (
	ErrInvalidFormat      = errors.New("FORMAT_ERROR")
	ErrInvalidNamePattern = errors.New("INVALID_NAME_PATTERN")
)

// nameProbes must never be accepted as a name: every ASCII digit and
// whitespace, alone or between letters.
var nameProbes = []string{
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	" ", "\t", "\n", "a b", "가 나",
}

// ParsedQuery is an utterance split at its first digit.
type ParsedQuery struct {
	Name       string
	EmployeeID string
}

// Normalizer validates and splits "<name><digits>" utterances.
type Normalizer struct {
	re      *regexp.Regexp
	nameIdx int
	idIdx   int
}

// NewNormalizer compiles namePattern as the name part of the utterance. An
// empty pattern selects config.DefaultNamePattern. The pattern may not match
// digits or whitespace.
func NewNormalizer(namePattern string) (*Normalizer, error) {
	if namePattern == "" {
		namePattern = config.DefaultNamePattern
	}

	nameOnly, err := regexp.Compile(`^(?:` + namePattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNamePattern, err)
	}
	for _, s := range nameProbes {
		if nameOnly.MatchString(s) {
			return nil, fmt.Errorf("%w: %q matches %q", ErrInvalidNamePattern, namePattern, s)
		}
	}

	re := regexp.MustCompile(`^(?P<name>` + namePattern + `)(?P<id>[0-9]+)$`)
	return &Normalizer{
		re:      re,
		nameIdx: re.SubexpIndex("name"),
		idIdx:   re.SubexpIndex("id"),
	}, nil
}

// Parse trims raw and splits it into name and employee id. For every
// successful parse Name+EmployeeID equals the trimmed input.
func (n *Normalizer) Parse(raw string) (ParsedQuery, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ParsedQuery{}, fmt.Errorf("%w: empty utterance", ErrInvalidFormat)
	}

	m := n.re.FindStringSubmatch(trimmed)
	if m == nil {
		return ParsedQuery{}, fmt.Errorf("%w: %q", ErrInvalidFormat, trimmed)
	}
	return ParsedQuery{Name: m[n.nameIdx], EmployeeID: m[n.idIdx]}, nil
}
