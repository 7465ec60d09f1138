// Package rangeexpr parses compact bracketed set expressions such as
// "[142872, 142879:142894]" into explicit job-id lists. Each element is
// either an integer literal or an inclusive b:c range; descending ranges
// (b > c) expand high-to-low. Duplicate ids are removed, keeping the
// first occurrence's position.
package rangeexpr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmptyInput reports an expression with no elements between the brackets.
	ErrEmptyInput = errors.New("empty job-id expression")

	// ErrMalformedRange reports a range element with more than one colon.
	ErrMalformedRange = errors.New("malformed range")

	// ErrInvalidInteger reports an element that is not a valid integer.
	ErrInvalidInteger = errors.New("invalid integer")
)

// Parse expands a bracketed expression into a de-duplicated id list.
// Surrounding whitespace and brackets are optional; empty elements
// (stray commas) are ignored.
func Parse(input string) ([]int, error) {
	cleaned := strings.Trim(strings.TrimSpace(input), "[]")

	var elements []string
	for _, e := range strings.Split(cleaned, ",") {
		if e = strings.TrimSpace(e); e != "" {
			elements = append(elements, e)
		}
	}
	if len(elements) == 0 {
		return nil, ErrEmptyInput
	}

	var combined []int
	for _, element := range elements {
		if strings.Contains(element, ":") {
			expanded, err := parseRange(element)
			if err != nil {
				return nil, err
			}
			combined = append(combined, expanded...)
			continue
		}
		n, err := strconv.Atoi(element)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidInteger, element)
		}
		combined = append(combined, n)
	}

	return dedupe(combined), nil
}

// parseRange expands a single b:c element, inclusive on both ends.
func parseRange(element string) ([]int, error) {
	parts := strings.Split(element, ":")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: %q must contain exactly one colon", ErrMalformedRange, element)
	}

	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInteger, element)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInteger, element)
	}

	step := 1
	if start > end {
		step = -1
	}
	var out []int
	for n := start; n != end+step; n += step {
		out = append(out, n)
	}
	return out, nil
}

func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
