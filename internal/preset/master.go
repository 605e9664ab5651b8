package preset

import (
	"fmt"

	"github.com/Yeicor/fractal-ui/internal/state"
)

// MasterPreset is the post-processing document.
type MasterPreset struct {
	Version int            `json:"version"`
	Master  MasterSettings `json:"master"`
}

// MasterSettings mirrors state.Master with optional fields.
type MasterSettings struct {
	Exposure         *float64 `json:"exposure,omitempty"`
	Gamma            *float64 `json:"gamma,omitempty"`
	Contrast         *float64 `json:"contrast,omitempty"`
	Saturation       *float64 `json:"saturation,omitempty"`
	Hue              *float64 `json:"hue,omitempty"`
	Vibrance         *float64 `json:"vibrance,omitempty"`
	Vignette         *float64 `json:"vignette,omitempty"`
	VignetteSoftness *float64 `json:"vignetteSoftness,omitempty"`
	CAStrength       *float64 `json:"caStrength,omitempty"`
	Grain            *float64 `json:"grain,omitempty"`
	Posterize        *float64 `json:"posterize,omitempty"`
	PixelizeEnabled  *bool    `json:"pixelizeEnabled,omitempty"`
	PixelSize        *float64 `json:"pixelSize,omitempty"`
	RainbowEnabled   *bool    `json:"rainbowEnabled,omitempty"`
	RainbowStrength  *float64 `json:"rainbowStrength,omitempty"`
	RainbowSpeed     *float64 `json:"rainbowSpeed,omitempty"`
	RainbowScale     *float64 `json:"rainbowScale,omitempty"`
	WarpEnabled      *bool    `json:"warpEnabled,omitempty"`
	WarpAmount       *float64 `json:"warpAmount,omitempty"`
	WarpFreq         *float64 `json:"warpFreq,omitempty"`
	GlitchEnabled    *bool    `json:"glitchEnabled,omitempty"`
	GlitchStrength   *float64 `json:"glitchStrength,omitempty"`
	GlitchBlock      *float64 `json:"glitchBlock,omitempty"`
	GlitchSpeed      *float64 `json:"glitchSpeed,omitempty"`
	GlitchRGBSplit   *float64 `json:"glitchRGBSplit,omitempty"`
}

// masterField pairs a preset field with the state field it maps to.
type masterField[T any] struct {
	preset **T
	model  *T
}

func bind[T any](preset **T, model *T) masterField[T] { return masterField[T]{preset, model} }

// fields lists every (preset, model) pair. Export and apply both go through it, so a field cannot be added to one
// direction only.
func (ms *MasterSettings) fields(m *state.Master) ([]masterField[float64], []masterField[bool]) {
	return []masterField[float64]{
			bind(&ms.Exposure, &m.Exposure),
			bind(&ms.Gamma, &m.Gamma),
			bind(&ms.Contrast, &m.Contrast),
			bind(&ms.Saturation, &m.Saturation),
			bind(&ms.Hue, &m.Hue),
			bind(&ms.Vibrance, &m.Vibrance),
			bind(&ms.Vignette, &m.Vignette),
			bind(&ms.VignetteSoftness, &m.VignetteSoftness),
			bind(&ms.CAStrength, &m.CAStrength),
			bind(&ms.Grain, &m.Grain),
			bind(&ms.Posterize, &m.Posterize),
			bind(&ms.PixelSize, &m.PixelSize),
			bind(&ms.RainbowStrength, &m.RainbowStrength),
			bind(&ms.RainbowSpeed, &m.RainbowSpeed),
			bind(&ms.RainbowScale, &m.RainbowScale),
			bind(&ms.WarpAmount, &m.WarpAmount),
			bind(&ms.WarpFreq, &m.WarpFreq),
			bind(&ms.GlitchStrength, &m.GlitchStrength),
			bind(&ms.GlitchBlock, &m.GlitchBlock),
			bind(&ms.GlitchSpeed, &m.GlitchSpeed),
			bind(&ms.GlitchRGBSplit, &m.GlitchRGBSplit),
		}, []masterField[bool]{
			bind(&ms.PixelizeEnabled, &m.PixelizeEnabled),
			bind(&ms.RainbowEnabled, &m.RainbowEnabled),
			bind(&ms.WarpEnabled, &m.WarpEnabled),
			bind(&ms.GlitchEnabled, &m.GlitchEnabled),
		}
}

func exportFields[T any](fs []masterField[T]) {
	for _, f := range fs {
		*f.preset = ptr(*f.model)
	}
}

func applyFields[T any](fs []masterField[T]) {
	for _, f := range fs {
		if *f.preset != nil {
			*f.model = **f.preset
		}
	}
}

// ExportMaster captures the master settings at the latest version.
func ExportMaster(m state.Master) MasterPreset {
	p := MasterPreset{Version: MasterVersion}
	floats, bools := p.Master.fields(&m)
	exportFields(floats)
	exportFields(bools)
	return p
}

// ApplyMaster merges the fields present in p over the current master settings.
func ApplyMaster(st *state.Store, p *MasterPreset) error {
	if p.Version != MasterVersion {
		return fmt.Errorf("%w: master version %d", ErrUnrecognizedVersion, p.Version)
	}
	st.SetMaster(func(m *state.Master) {
		floats, bools := p.Master.fields(m)
		applyFields(floats)
		applyFields(bools)
	})
	return nil
}

// DecodeMaster parses and validates a master document without applying it.
func DecodeMaster(text []byte) (*MasterPreset, error) {
	version, err := peekVersion(text)
	if err != nil {
		return nil, err
	}
	if version != MasterVersion {
		return nil, fmt.Errorf("%w: master version %d", ErrUnrecognizedVersion, version)
	}
	p := &MasterPreset{}
	if err = decode(text, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ImportMaster decodes text and applies it. On any error the store is left as it was.
func ImportMaster(st *state.Store, text []byte) error {
	p, err := DecodeMaster(text)
	if err != nil {
		return err
	}
	if err = ApplyMaster(st, p); err != nil {
		return err
	}
	logger().Info("master preset applied")
	return nil
}
