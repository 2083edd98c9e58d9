package position

import (
	"encoding/json"
	"fmt"

	"github.com/hollisb/marginalia/internal/errors"
)

// Wire versions. Version 1 is implicit: legacy records carry no version key
// at all, so decoding must branch on key presence before any field access.
const (
	versionStructural = 2
	versionTokenSpan  = 3
)

// wireRecord is the superset JSON shape of all versions. Pointer fields
// distinguish "absent" from zero for the legacy format.
type wireRecord struct {
	Version        *int     `json:"version,omitempty"`
	TokenIDs       []string `json:"tokenIds,omitempty"`
	StartAnchor    *string  `json:"startAnchor,omitempty"`
	StartOffset    *int     `json:"startOffset,omitempty"`
	EndAnchor      *string  `json:"endAnchor,omitempty"`
	EndOffset      *int     `json:"endOffset,omitempty"`
	ContainerXPath *string  `json:"containerXPath,omitempty"`
	XPath          *string  `json:"xpath,omitempty"`
	Text           string   `json:"text"`
}

// Decode parses a persisted position string. The version discriminant is
// inspected first; an absent version key means the legacy format.
func Decode(s string) (*Record, error) {
	var w wireRecord
	if err := json.Unmarshal([]byte(s), &w); err != nil {
		return nil, fmt.Errorf("malformed position record: %w", err)
	}

	if w.Version == nil {
		r := NewLegacy(deref(w.XPath), w.Text)
		if w.StartOffset != nil {
			r.StartOffset = *w.StartOffset
		}
		if w.EndOffset != nil {
			r.EndOffset = *w.EndOffset
		}
		return r, nil
	}

	switch *w.Version {
	case versionTokenSpan:
		if len(w.TokenIDs) == 0 {
			return nil, fmt.Errorf("version 3 position record has no tokenIds")
		}
		return NewTokenSpan(w.TokenIDs, w.Text), nil
	case versionStructural:
		if w.StartAnchor == nil || w.EndAnchor == nil {
			return nil, fmt.Errorf("version 2 position record is missing anchors")
		}
		return NewStructural(
			*w.StartAnchor, derefInt(w.StartOffset),
			*w.EndAnchor, derefInt(w.EndOffset),
			deref(w.ContainerXPath), w.Text,
		), nil
	default:
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown position record version %d", *w.Version))
	}
}

// Encode serializes a record to its versioned wire form. Legacy records are
// written without a version key, matching what historic readers expect.
func Encode(r *Record) (string, error) {
	if r == nil {
		return "", fmt.Errorf("nil position record")
	}

	var w wireRecord
	w.Text = r.Text

	switch r.Kind {
	case KindTokenSpan:
		v := versionTokenSpan
		w.Version = &v
		w.TokenIDs = r.TokenIDs
	case KindStructural:
		v := versionStructural
		w.Version = &v
		w.StartAnchor = ptr(r.StartAnchor)
		w.StartOffset = ptrInt(r.StartOffset)
		w.EndAnchor = ptr(r.EndAnchor)
		w.EndOffset = ptrInt(r.EndOffset)
		w.ContainerXPath = ptr(r.ContainerXPath)
	case KindLegacy:
		if r.XPath != "" {
			w.XPath = ptr(r.XPath)
		}
		if r.StartOffset != 0 || r.EndOffset != 0 {
			w.StartOffset = ptrInt(r.StartOffset)
			w.EndOffset = ptrInt(r.EndOffset)
		}
	default:
		return "", fmt.Errorf("unknown position record kind %d", r.Kind)
	}

	data, err := json.Marshal(&w)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func ptr(s string) *string  { return &s }
func ptrInt(n int) *int     { return &n }
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
