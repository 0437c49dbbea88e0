// Cocktail Maestro - Cocktail Recipe Store and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cocktailmaestro

package recommend

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// NumberKind identifies which encoding a numeric statistic field used.
type NumberKind int

const (
	// NumberKindMissing means the field was absent, null or unparseable.
	NumberKindMissing NumberKind = iota

	// NumberKindInteger is a Firestore {"integerValue": "3"} wrapper.
	NumberKindInteger

	// NumberKindDouble is a Firestore {"doubleValue": 12.5} wrapper.
	NumberKindDouble

	// NumberKindPlain is a bare JSON number.
	NumberKindPlain
)

// String returns the kind name.
func (k NumberKind) String() string {
	switch k {
	case NumberKindInteger:
		return "integer"
	case NumberKindDouble:
		return "double"
	case NumberKindPlain:
		return "plain"
	default:
		return "missing"
	}
}

// NumberValue is a numeric statistic field resolved from either encoding.
type NumberValue struct {
	Kind  NumberKind
	value float64
}

// Float returns the value, or 0 when the field is missing.
func (n NumberValue) Float() float64 {
	if n.Kind == NumberKindMissing {
		return 0
	}
	return n.value
}

// TagStatRecord is one historical rating statistic for a tag.
type TagStatRecord struct {
	Count     NumberValue
	RatingSum NumberValue
	RatingAvg NumberValue
}

// TagStatsInput maps a tag to every statistic record recorded for it.
type TagStatsInput map[string][]TagStatRecord

var jsonNull = []byte("null")

// parseNumber resolves a statistic field in any accepted encoding.
// It is the only place that distinguishes typed wrappers from plain numbers.
// When a wrapper carries both doubleValue and integerValue, doubleValue wins.
func parseNumber(raw json.RawMessage) NumberValue {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return NumberValue{}
	}

	if raw[0] != '{' {
		if f, ok := scalarFloat(raw); ok {
			return NumberValue{Kind: NumberKindPlain, value: f}
		}
		return NumberValue{}
	}

	var typed struct {
		IntegerValue json.RawMessage `json:"integerValue"`
		DoubleValue  json.RawMessage `json:"doubleValue"`
	}
	if err := json.Unmarshal(raw, &typed); err != nil {
		return NumberValue{}
	}
	if f, ok := scalarFloat(typed.DoubleValue); ok {
		return NumberValue{Kind: NumberKindDouble, value: f}
	}
	if f, ok := scalarFloat(typed.IntegerValue); ok {
		return NumberValue{Kind: NumberKindInteger, value: f}
	}
	return NumberValue{}
}

// scalarFloat reads a JSON number or a JSON string holding a number.
// Non-finite values are rejected.
func scalarFloat(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return 0, false
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(s)
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// DecodeTagStats parses a tag statistics payload.
//
// The payload must be a JSON object keyed by tag. A Firestore map wrapper
// ({"mapValue": {"fields": {...}}}) around the whole object is unwrapped.
// Each tag holds a single record, a JSON array of records, or a Firestore
// {"arrayValue": {"values": [...]}}. Records that cannot be read decode as
// all-missing and contribute nothing.
func DecodeTagStats(raw []byte) (TagStatsInput, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, ErrInvalidInput
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if inner, ok := unwrapMapValue(fields); ok && len(fields) == 1 {
		fields = inner
	}

	out := make(TagStatsInput, len(fields))
	for tag, value := range fields {
		if tag == "" {
			continue
		}
		out[tag] = decodeRecords(value)
	}
	return out, nil
}

// unwrapMapValue returns the fields of a Firestore map wrapper.
func unwrapMapValue(fields map[string]json.RawMessage) (map[string]json.RawMessage, bool) {
	wrapped, ok := fields["mapValue"]
	if !ok {
		return nil, false
	}
	var mv struct {
		Fields map[string]json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(wrapped, &mv); err != nil {
		return nil, false
	}
	if mv.Fields == nil {
		mv.Fields = map[string]json.RawMessage{}
	}
	return mv.Fields, true
}

func decodeRecords(raw json.RawMessage) []TagStatRecord {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		records := make([]TagStatRecord, 0, len(items))
		for _, item := range items {
			records = append(records, decodeRecord(item))
		}
		return records
	case '{':
		var probe struct {
			ArrayValue *struct {
				Values []json.RawMessage `json:"values"`
			} `json:"arrayValue"`
		}
		if err := json.Unmarshal(raw, &probe); err == nil && probe.ArrayValue != nil {
			records := make([]TagStatRecord, 0, len(probe.ArrayValue.Values))
			for _, item := range probe.ArrayValue.Values {
				records = append(records, decodeRecord(item))
			}
			return records
		}
		return []TagStatRecord{decodeRecord(raw)}
	default:
		return []TagStatRecord{{}}
	}
}

func decodeRecord(raw json.RawMessage) TagStatRecord {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return TagStatRecord{}
	}
	if inner, ok := unwrapMapValue(fields); ok {
		fields = inner
	}

	return TagStatRecord{
		Count:     parseNumber(fields["count"]),
		RatingSum: parseNumber(fields["ratingSum"]),
		RatingAvg: parseNumber(fields["ratingAvg"]),
	}
}

// AggregateTagWeights sums ratingSum per tag. Tags whose total is not
// positive are omitted.
func AggregateTagWeights(stats TagStatsInput) TagWeights {
	weights := make(TagWeights, len(stats))
	for tag, records := range stats {
		var sum float64
		for _, rec := range records {
			sum += rec.RatingSum.Float()
		}
		if sum > 0 {
			weights[tag] = sum
		}
	}
	return weights
}

// MergeTagStats concatenates the records of several inputs, tag by tag.
func MergeTagStats(inputs ...TagStatsInput) TagStatsInput {
	out := make(TagStatsInput)
	for _, in := range inputs {
		for tag, records := range in {
			out[tag] = append(out[tag], records...)
		}
	}
	return out
}
