// Package config loads marionette settings from a TOML file and merges them
// with command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/phanxgames/marionette"
)

// Config holds every setting the CLI and the window frontend read.
type Config struct {
	Window      Window      `toml:"window"`
	Camera      Camera      `toml:"camera"`
	Interaction Interaction `toml:"interaction"`
	Selection   Selection   `toml:"selection"`
	Snapshot    Snapshot    `toml:"snapshot"`
	Log         Log         `toml:"log"`
	Digits      []Digit     `toml:"digits"`
}

// Window sizes the viewport.
type Window struct {
	Title   string `toml:"title"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	ShowFPS bool   `toml:"show_fps"`
}

// Camera sets the initial orbit. Zoom scales the framed distance.
type Camera struct {
	FovY  float64 `toml:"fov"`
	Yaw   float64 `toml:"yaw"`
	Pitch float64 `toml:"pitch"`
	Zoom  float64 `toml:"zoom"`
	// ResetSeconds is the duration of the animated camera reset.
	ResetSeconds float64 `toml:"reset_seconds"`
}

// Interaction configures the rotation policy.
type Interaction struct {
	StepDegrees float64 `toml:"step_degrees"`
	SweepLimit  float64 `toml:"sweep_limit"`
	// ThumbSecondary is the thumb's spread-per-flex scale. Nil takes the
	// default; 0 disables the coupling.
	ThumbSecondary *float64 `toml:"thumb_secondary"`
}

// Selection configures picking and the highlight.
type Selection struct {
	// Highlight is an RGB triple in [0, 1].
	Highlight  []float64 `toml:"highlight"`
	JointsOnly bool      `toml:"joints_only"`
}

// Snapshot configures headless rendering.
type Snapshot struct {
	Dir         string `toml:"dir"`
	Format      string `toml:"format"`
	Supersample int    `toml:"supersample"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"`
}

// Digit overrides the proportions of one finger of the default hand.
type Digit struct {
	Name        string    `toml:"name"`
	Lengths     []float64 `toml:"lengths"`
	KnuckleRest *float64  `toml:"knuckle_rest"`
	MidRest     *float64  `toml:"mid_rest"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Width   int
	Height  int
	Verbose bool
	Format  string
	OutDir  string
}

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Default returns the settings used when no file is given.
func Default() Config {
	var c Config
	c.Resolve(Flags{})
	return c
}

// Load reads a TOML config file. Fields not set in the file keep their zero
// values until Resolve. Unknown keys are an error.
func Load(path string) (Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config: %s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Resolve applies flag overrides, then fills any empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.Width > 0 {
		c.Window.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Window.Height = flags.Height
	}
	if flags.Verbose {
		c.Log.Level = "debug"
	}
	if flags.Format != "" {
		c.Snapshot.Format = flags.Format
	}
	if flags.OutDir != "" {
		c.Snapshot.Dir = flags.OutDir
	}

	if c.Window.Title == "" {
		c.Window.Title = "marionette"
	}
	if c.Window.Width <= 0 {
		c.Window.Width = marionette.DefaultWidth
	}
	if c.Window.Height <= 0 {
		c.Window.Height = marionette.DefaultHeight
	}
	if c.Camera.FovY <= 0 {
		c.Camera.FovY = 30
	}
	if c.Camera.Zoom <= 0 {
		c.Camera.Zoom = 1
	}
	if c.Camera.ResetSeconds <= 0 {
		c.Camera.ResetSeconds = 0.4
	}
	def := marionette.DefaultRotationPolicy()
	if c.Interaction.StepDegrees <= 0 {
		c.Interaction.StepDegrees = def.StepDegrees
	}
	if c.Interaction.SweepLimit <= 0 {
		c.Interaction.SweepLimit = def.SweepLimit
	}
	if c.Interaction.ThumbSecondary == nil {
		scale := def.ThumbSecondaryScale
		c.Interaction.ThumbSecondary = &scale
	}
	if len(c.Selection.Highlight) == 0 {
		h := marionette.HighlightMaterial.Color
		c.Selection.Highlight = []float64{h.R, h.G, h.B}
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = "snapshots"
	}
	if c.Snapshot.Format == "" {
		c.Snapshot.Format = "png"
	}
	if c.Snapshot.Supersample <= 0 {
		c.Snapshot.Supersample = 2
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// LogLevel parses the configured level.
func (c *Config) LogLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return 0, fmt.Errorf("config: %w: log level %q", ErrInvalid, c.Log.Level)
	}
	return lvl, nil
}

// Policy returns the configured rotation policy. An unset thumb scale takes
// the default.
func (c *Config) Policy() marionette.RotationPolicy {
	p := marionette.RotationPolicy{
		StepDegrees:         c.Interaction.StepDegrees,
		SweepLimit:          c.Interaction.SweepLimit,
		ThumbSecondaryScale: marionette.DefaultRotationPolicy().ThumbSecondaryScale,
	}
	if c.Interaction.ThumbSecondary != nil {
		p.ThumbSecondaryScale = *c.Interaction.ThumbSecondary
	}
	return p
}

// Hand returns the default hand with the configured digit overrides.
func (c *Config) Hand() (marionette.HandSpec, error) {
	hand := marionette.DefaultHand()
	for _, o := range c.Digits {
		d, ok := marionette.ParseDigit(o.Name)
		if !ok || d == marionette.DigitNone {
			return hand, fmt.Errorf("config: %w: unknown digit %q", ErrInvalid, o.Name)
		}
		i := digitIndex(hand, d)
		if i < 0 {
			return hand, fmt.Errorf("config: %w: digit %q not in hand", ErrInvalid, o.Name)
		}
		if o.Lengths != nil {
			if len(o.Lengths) != 3 {
				return hand, fmt.Errorf("config: %w: digit %q needs 3 lengths, got %d", ErrInvalid, o.Name, len(o.Lengths))
			}
			for k, l := range o.Lengths {
				if l <= 0 {
					return hand, fmt.Errorf("config: %w: digit %q length %d must be positive", ErrInvalid, o.Name, k+1)
				}
				hand.Digits[i].Lengths[k] = l
			}
		}
		if o.KnuckleRest != nil {
			hand.Digits[i].KnuckleRest = *o.KnuckleRest
		}
		if o.MidRest != nil {
			hand.Digits[i].MidRest = *o.MidRest
		}
	}
	return hand, nil
}

func digitIndex(h marionette.HandSpec, d marionette.Digit) int {
	for i := range h.Digits {
		if h.Digits[i].Digit == d {
			return i
		}
	}
	return -1
}

// SceneConfig converts the settings into a marionette.SceneConfig using
// logger for scene logs.
func (c *Config) SceneConfig(logger *log.Logger) (marionette.SceneConfig, error) {
	hand, err := c.Hand()
	if err != nil {
		return marionette.SceneConfig{}, err
	}
	if len(c.Selection.Highlight) != 3 {
		return marionette.SceneConfig{}, fmt.Errorf("config: %w: highlight needs 3 components", ErrInvalid)
	}
	top := hand.Topology()
	policy := c.Policy()
	if err := policy.Validate(); err != nil {
		return marionette.SceneConfig{}, fmt.Errorf("config: %w: interaction: %w", ErrInvalid, err)
	}
	highlight := marionette.HighlightMaterial
	highlight.Color = marionette.Color{
		R: c.Selection.Highlight[0],
		G: c.Selection.Highlight[1],
		B: c.Selection.Highlight[2],
		A: 1,
	}
	return marionette.SceneConfig{
		Topology:   &top,
		Width:      c.Window.Width,
		Height:     c.Window.Height,
		Policy:     &policy,
		Highlight:  &highlight,
		JointsOnly: c.Selection.JointsOnly,
		Logger:     logger,
	}, nil
}

// ApplyCamera sets the field of view, re-frames the hand and applies the
// configured orbit and zoom.
func (c *Config) ApplyCamera(s *marionette.Scene) {
	cam := s.Camera()
	cam.FovY = c.Camera.FovY
	cam.Frame(s.Chain())
	cam.Orbit(c.Camera.Yaw, c.Camera.Pitch)
	cam.Dolly(c.Camera.Zoom)
}

// NewScene builds a scene from the settings.
func (c *Config) NewScene(logger *log.Logger) (*marionette.Scene, error) {
	sc, err := c.SceneConfig(logger)
	if err != nil {
		return nil, err
	}
	s, err := marionette.NewScene(sc)
	if err != nil {
		return nil, err
	}
	c.ApplyCamera(s)
	return s, nil
}
