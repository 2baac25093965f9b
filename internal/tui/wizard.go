package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/dextop/internal/config"
)

// Wizard collects the settings `dextop config init` writes. Values are bound
// to the form as strings and converted by Apply.
type Wizard struct {
	cfg *config.Config

	fLogLevel      string
	fListen        string
	fWidth         string
	fHeight        string
	fBorder        string
	fToolbarHeight string
	fResizerSize   string
	fAutohide      bool
	fStopOnLeave   bool
	fJournal       bool
	fFirstWindow   string
}

// NewWizard seeds the form from cfg, or from the defaults when cfg is nil.
func NewWizard(cfg *config.Config) *Wizard {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	d := cfg.WindowDefaults
	w := &Wizard{
		cfg:            cfg,
		fLogLevel:      cfg.LogLevel,
		fListen:        cfg.Listen,
		fWidth:         strconv.Itoa(d.Width),
		fHeight:        strconv.Itoa(d.Height),
		fBorder:        strconv.Itoa(d.Border),
		fToolbarHeight: strconv.Itoa(d.ToolbarHeight),
		fResizerSize:   strconv.Itoa(d.ResizerSize),
		fAutohide:      d.Autohide,
		fStopOnLeave:   cfg.StopOnLeave,
		fJournal:       cfg.Journal.Enabled,
	}
	if len(cfg.Windows) == 0 {
		w.fFirstWindow = "main"
	}
	return w
}

// Form builds the huh form bound to the wizard fields.
func (w *Wizard) Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(huh.NewOptions("debug", "info", "warning", "error")...).
				Value(&w.fLogLevel),
			huh.NewInput().
				Key("listen").
				Title("Listen Address").
				Description("host:port for the browser surface").
				Value(&w.fListen),
			huh.NewConfirm().
				Key("stop_on_leave").
				Title("Stop gestures when the pointer leaves a window?").
				Value(&w.fStopOnLeave),
			huh.NewConfirm().
				Key("journal").
				Title("Record completed gestures to the journal?").
				Value(&w.fJournal),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("width").
				Title("Window Width").
				Description("Initial content width in pixels").
				Validate(positiveInt).
				Value(&w.fWidth),
			huh.NewInput().
				Key("height").
				Title("Window Height").
				Description("Initial content height in pixels").
				Validate(positiveInt).
				Value(&w.fHeight),
			huh.NewInput().
				Key("border").
				Title("Border").
				Validate(nonNegativeInt).
				Value(&w.fBorder),
			huh.NewInput().
				Key("toolbar_height").
				Title("Toolbar Height").
				Validate(positiveInt).
				Value(&w.fToolbarHeight),
			huh.NewInput().
				Key("resizer_size").
				Title("Resizer Size").
				Validate(positiveInt).
				Value(&w.fResizerSize),
			huh.NewConfirm().
				Key("autohide").
				Title("Hide chrome while the pointer is away?").
				Value(&w.fAutohide),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("first_window").
				Title("First Window").
				Description("Id of a window to open at startup (blank for none)").
				Value(&w.fFirstWindow),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

// Run shows the form on the terminal and applies the answers.
func (w *Wizard) Run() (*config.Config, error) {
	if err := w.Form().Run(); err != nil {
		return nil, err
	}
	return w.Apply()
}

// Apply converts the bound values into the config and validates it.
func (w *Wizard) Apply() (*config.Config, error) {
	cfg := w.cfg
	d := &cfg.WindowDefaults

	ints := []struct {
		name string
		raw  string
		dst  *int
	}{
		{"width", w.fWidth, &d.Width},
		{"height", w.fHeight, &d.Height},
		{"border", w.fBorder, &d.Border},
		{"toolbar_height", w.fToolbarHeight, &d.ToolbarHeight},
		{"resizer_size", w.fResizerSize, &d.ResizerSize},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(strings.TrimSpace(f.raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", f.name, f.raw)
		}
		*f.dst = v
	}

	cfg.LogLevel = w.fLogLevel
	cfg.Listen = strings.TrimSpace(w.fListen)
	cfg.StopOnLeave = w.fStopOnLeave
	cfg.Journal.Enabled = w.fJournal
	d.Autohide = w.fAutohide

	if id := strings.TrimSpace(w.fFirstWindow); id != "" {
		cfg.Windows = append(cfg.Windows, config.WindowSpec{
			ID:             id,
			Title:          id,
			WindowDefaults: *d,
		})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func positiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if v <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}

func nonNegativeInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if v < 0 {
		return fmt.Errorf("must be >= 0")
	}
	return nil
}
