// Package preset serializes scenes and master settings to versioned JSON documents and applies them back onto a
// state.Store.
//
// Every field of a preset document is optional: a field that is absent leaves the current value untouched. The
// exported documents always carry every field of the latest version.
package preset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Yeicor/fractal-ui/internal/logging"
)

// Latest versions emitted by the exporters.
const (
	SceneVersion  = 2
	MasterVersion = 1
)

var (
	// ErrMalformedPreset is returned for text that is not JSON, or JSON whose structure does not match a preset
	// (wrong array lengths, objects where numbers belong, ...). The store is left untouched.
	ErrMalformedPreset = errors.New("malformed preset")
	// ErrUnrecognizedVersion is returned when the version field is missing or unknown. The import is a no-op, and
	// callers are expected to treat it as such: it exists so they can tell the two outcomes apart.
	ErrUnrecognizedVersion = errors.New("unrecognized preset version")
)

func logger() *slog.Logger { return logging.For("preset") }

// Marshal encodes a preset. Pretty output (two-space indent, trailing newline) is used for files, compact for the
// clipboard.
func Marshal(v any, pretty bool) ([]byte, error) {
	if !pretty {
		return json.Marshal(v)
	}
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(bs, '\n'), nil
}

// versionPeek reads only the version of a document. Version is decoded loosely so that `"version": "2"` counts
// as unrecognized rather than malformed.
type versionPeek struct {
	Version any `json:"version"`
}

// peekVersion checks that text is a JSON object and returns its version (0 when missing or not an integer).
func peekVersion(text []byte) (int, error) {
	trimmed := bytes.TrimSpace(text)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return 0, fmt.Errorf("%w: not a JSON object", ErrMalformedPreset)
	}
	var p versionPeek
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedPreset, err)
	}
	f, ok := p.Version.(float64)
	if !ok || f != float64(int(f)) {
		return 0, nil
	}
	return int(f), nil
}

// decode unmarshals text into dst and checks its structure.
func decode(text []byte, dst any) error {
	if err := json.Unmarshal(text, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPreset, err)
	}
	if err := validate(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedPreset, err)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }
