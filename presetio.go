package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Yeicor/fractal-ui/internal/preset"
	"github.com/Yeicor/fractal-ui/internal/state"
	"github.com/atotto/clipboard"
	backoffv4 "github.com/cenkalti/backoff/v4"
)

// Default file names used by the save/load shortcuts.
const (
	sceneFile  = "scene-preset.json"
	masterFile = "master-preset.json"
)

// ErrClipboardUnavailable is returned when the system clipboard cannot be read or written.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

func (r *Renderer) presetPath(name string) string {
	return filepath.Join(r.presetDir, name)
}

// ExportSceneFile writes the current scene as a pretty-printed preset.
func (r *Renderer) ExportSceneFile(path string) error {
	return writePreset(path, preset.ExportScene(r.store.Snapshot().Scene))
}

// ExportMasterFile writes the current master settings as a pretty-printed preset.
func (r *Renderer) ExportMasterFile(path string) error {
	return writePreset(path, preset.ExportMaster(r.store.Snapshot().Master))
}

func writePreset(path string, v any) error {
	bs, err := preset.Marshal(v, true)
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err = os.WriteFile(path, bs, 0o644); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	logger().Info("preset exported", "path", path)
	return nil
}

// ImportSceneFile applies the scene preset at path. A document of an unknown version changes nothing and returns
// an error wrapping preset.ErrUnrecognizedVersion.
func (r *Renderer) ImportSceneFile(path string) error {
	return r.importFile(path, preset.ImportScene)
}

// ImportMasterFile applies the master preset at path.
func (r *Renderer) ImportMasterFile(path string) error {
	return r.importFile(path, preset.ImportMaster)
}

func (r *Renderer) importFile(path string, apply func(*state.Store, []byte) error) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	if err = apply(r.store, bs); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	return nil
}

// CopyScene puts the current scene on the clipboard as compact JSON.
func (r *Renderer) CopyScene() error {
	return r.copyPreset(preset.ExportScene(r.store.Snapshot().Scene))
}

// CopyMaster puts the current master settings on the clipboard as compact JSON.
func (r *Renderer) CopyMaster() error {
	return r.copyPreset(preset.ExportMaster(r.store.Snapshot().Master))
}

// PasteScene applies a scene preset read from the clipboard.
func (r *Renderer) PasteScene() error {
	return r.pastePreset(preset.ImportScene)
}

// PasteMaster applies a master preset read from the clipboard.
func (r *Renderer) PasteMaster() error {
	return r.pastePreset(preset.ImportMaster)
}

func (r *Renderer) copyPreset(v any) error {
	bs, err := preset.Marshal(v, false)
	if err != nil {
		return err
	}
	return retryClipboard(func() error { return r.clip.WriteAll(string(bs)) })
}

func (r *Renderer) pastePreset(apply func(*state.Store, []byte) error) error {
	var text string
	err := retryClipboard(func() (err error) {
		text, err = r.clip.ReadAll()
		return err
	})
	if err != nil {
		return err
	}
	return apply(r.store, []byte(text))
}

//-----------------------------------------------------------------------------
// Clipboard
//-----------------------------------------------------------------------------

type clipboardBackend interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// systemClipboard is the OS clipboard. On platforms without one every call fails permanently.
type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", backoffv4.Permanent(errors.New("no clipboard utility found"))
	}
	return clipboard.ReadAll()
}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return backoffv4.Permanent(errors.New("no clipboard utility found"))
	}
	return clipboard.WriteAll(text)
}

// clipboardRetries bounds the attempts made while another application holds the clipboard.
const clipboardRetries = 3

var clipboardRetryInterval = 50 * time.Millisecond

func retryClipboard(op func() error) error {
	b := backoffv4.NewExponentialBackOff()
	b.InitialInterval = clipboardRetryInterval
	if err := backoffv4.Retry(op, backoffv4.WithMaxRetries(b, clipboardRetries)); err != nil {
		return fmt.Errorf("%w: %w", ErrClipboardUnavailable, err)
	}
	return nil
}
