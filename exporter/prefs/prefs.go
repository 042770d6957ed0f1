package prefs

import (
	"errors"
	"fmt"
	stdmath "math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/meshport/exporter/core"
)

const (
	// DefaultLinearDeflection is the maximum surface deviation in model
	// units.
	DefaultLinearDeflection float32 = 0.1
	// DefaultAngularDeflection is the maximum normal deviation between
	// adjacent facets, in radians (30 degrees).
	DefaultAngularDeflection float32 = 0.5236
)

// Preferences are the four persisted export settings.
type Preferences struct {
	// OutputDir overrides the export directory. Empty means "next to
	// the document".
	OutputDir string `toml:"output_dir"`
	// PostCommand runs after a successful export. Occurrences of the
	// token STLFILE are replaced with the output path.
	PostCommand string `toml:"post_command"`

	LinearDeflection  float32 `toml:"linear_deflection"`
	AngularDeflection float32 `toml:"angular_deflection"`
}

func Defaults() *Preferences {
	return &Preferences{
		LinearDeflection:  DefaultLinearDeflection,
		AngularDeflection: DefaultAngularDeflection,
	}
}

// DefaultPath returns the per-user preference file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, "meshport", "prefs.toml"), nil
}

// Load reads the preference file, applies defaults for missing or
// out-of-range values and writes the normalized result back so the
// stored state always reflects what will be used. A missing file is not
// an error; it is created with defaults.
func Load(path string) (*Preferences, error) {
	p := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		core.LogDebug("preference file %s does not exist, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read preferences %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("failed to parse preferences %s: %w", path, err)
		}
	}

	p.Normalize()

	if err := p.Save(path); err != nil {
		return nil, err
	}
	return p, nil
}

// Normalize clamps the stored values into usable ranges: non-finite or
// non-positive deflections reset to defaults, OutputDir becomes a
// cleaned absolute path when set.
func (p *Preferences) Normalize() {
	if !finitePositive(p.LinearDeflection) {
		core.LogWarn("linear deflection %v out of range, resetting to %v", p.LinearDeflection, DefaultLinearDeflection)
		p.LinearDeflection = DefaultLinearDeflection
	}
	if !finitePositive(p.AngularDeflection) {
		core.LogWarn("angular deflection %v out of range, resetting to %v", p.AngularDeflection, DefaultAngularDeflection)
		p.AngularDeflection = DefaultAngularDeflection
	}
	if p.OutputDir != "" {
		if abs, err := filepath.Abs(filepath.Clean(p.OutputDir)); err == nil {
			p.OutputDir = abs
		}
	}
}

// Save writes the preferences atomically: serialize to a temp file in
// the destination directory, then rename over the target.
func (p *Preferences) Save(path string) error {
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to serialize preferences: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create preference directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temporary preference file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temporary preference file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace preferences %s: %w", path, err)
	}
	return nil
}

// Get returns the value of a preference key as a string. Used by the
// prefs CLI subcommand.
func (p *Preferences) Get(key string) (string, error) {
	switch key {
	case "output_dir":
		return p.OutputDir, nil
	case "post_command":
		return p.PostCommand, nil
	case "linear_deflection":
		return strconv.FormatFloat(float64(p.LinearDeflection), 'g', -1, 32), nil
	case "angular_deflection":
		return strconv.FormatFloat(float64(p.AngularDeflection), 'g', -1, 32), nil
	}
	return "", fmt.Errorf("unknown preference key %q", key)
}

// Set updates a preference key from its string form and re-normalizes.
func (p *Preferences) Set(key, value string) error {
	switch key {
	case "output_dir":
		p.OutputDir = value
	case "post_command":
		p.PostCommand = value
	case "linear_deflection", "angular_deflection":
		f, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return fmt.Errorf("invalid value %q for %s: %w", value, key, err)
		}
		if key == "linear_deflection" {
			p.LinearDeflection = float32(f)
		} else {
			p.AngularDeflection = float32(f)
		}
	default:
		return fmt.Errorf("unknown preference key %q", key)
	}
	p.Normalize()
	return nil
}

func finitePositive(f float32) bool {
	f64 := float64(f)
	return !stdmath.IsNaN(f64) && !stdmath.IsInf(f64, 0) && f > 0
}
