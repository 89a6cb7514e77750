package scoreboard

import (
	"encoding/json"
	"fmt"
	"sort"
)

// PlayerRecord holds the statistics parsed for a single player.
type PlayerRecord struct {
	// KDA is up to three numeric tokens joined by single spaces, e.g. "6 2 0".
	KDA string `json:"kda"`

	// Credits is the raw last token of the line, thousands separators kept
	// (e.g. "2,650").
	Credits string `json:"credits"`
}

// Result maps player name to record. A fresh Result is built per parse.
type Result map[string]PlayerRecord

// Names returns the player names in sorted order.
func (r Result) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge copies every record of other into r, overwriting existing names.
func (r Result) Merge(other Result) {
	for name, rec := range other {
		r[name] = rec
	}
}

// MarshalJSON encodes the result as a flat object keyed by player name.
// A nil result encodes as {} rather than null.
func (r Result) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]PlayerRecord(r))
}

// DecodeResult parses the flat JSON form produced by MarshalJSON.
func DecodeResult(data []byte) (Result, error) {
	var m map[string]PlayerRecord
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode scoreboard result: %w", err)
	}
	if m == nil {
		m = map[string]PlayerRecord{}
	}
	return Result(m), nil
}
