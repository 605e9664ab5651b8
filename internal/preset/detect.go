package preset

import (
	"encoding/json"
	"fmt"

	"github.com/Yeicor/fractal-ui/internal/state"
)

// Kind tells scene documents from master documents.
type Kind int

const (
	KindScene Kind = iota
	KindMaster
)

func (k Kind) String() string {
	if k == KindMaster {
		return "master"
	}
	return "scene"
}

// Detect classifies a document: one with a top-level "master" key is a master preset, anything else a scene.
func Detect(text []byte) (Kind, error) {
	if _, err := peekVersion(text); err != nil {
		return KindScene, err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(text, &keys); err != nil {
		return KindScene, fmt.Errorf("%w: %w", ErrMalformedPreset, err)
	}
	if _, ok := keys["master"]; ok {
		return KindMaster, nil
	}
	return KindScene, nil
}

// Import detects the kind of text and imports it accordingly.
func Import(st *state.Store, text []byte) (Kind, error) {
	kind, err := Detect(text)
	if err != nil {
		return kind, err
	}
	if kind == KindMaster {
		return kind, ImportMaster(st, text)
	}
	return kind, ImportScene(st, text)
}
