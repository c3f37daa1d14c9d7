package xmltree

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/cyrhla/loader/internal/valueutil"
)

// Processor converts a raw attribute or text value into a typed value.
// Processors are chained: each one receives the previous one's output.
type Processor func(value any) (any, error)

// embeddedJSON matches trimmed values that look like a JSON object or array.
var embeddedJSON = regexp.MustCompile(`(?s)^\{.*\}$|^\[.*\]$`)

// DefaultProcessors returns the default coercion chain: numbers, then
// booleans, then null and embedded JSON.
func DefaultProcessors() []Processor {
	return []Processor{ParseNumbers, ParseBooleans, ParseNullAndJSON}
}

// ParseNumbers converts strings holding a decimal number (surrounding
// whitespace allowed) to int or float64.
func ParseNumbers(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	if n, ok := valueutil.ParseNumber(strings.TrimSpace(s)); ok {
		return n, nil
	}
	return value, nil
}

// ParseBooleans converts "true" and "false", in any letter case, to bool.
func ParseBooleans(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return value, nil
}

// ParseNullAndJSON converts the literal "null" to nil and decodes values
// delimited by braces or brackets, surrounding whitespace ignored, as JSON.
func ParseNullAndJSON(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	if s == "null" {
		return nil, nil
	}
	trimmed := strings.TrimSpace(s)
	if !embeddedJSON.MatchString(trimmed) {
		return value, nil
	}
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("invalid embedded JSON %q: %w", s, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid embedded JSON %q: trailing data", s)
	}
	return valueutil.Canonical(decoded), nil
}

func process(processors []Processor, value any) (any, error) {
	var err error
	for _, p := range processors {
		if value, err = p(value); err != nil {
			return nil, err
		}
	}
	return value, nil
}
