package forms

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/xyston/caseload/internal/config"
	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/source"
	"github.com/xyston/caseload/internal/tui/theme"
)

// Setup holds the first-run answers.
type Setup struct {
	APIKey      string
	Model       string
	Theme       string
	Level       string
	Hours       string
	AutoRefresh bool
}

// SetupFrom seeds the answers from an existing config. The API key is left
// blank so an existing key survives an empty answer.
func SetupFrom(cfg config.Config) Setup {
	return Setup{
		Model:       cfg.AI.Model,
		Theme:       cfg.Appearance.Theme,
		Level:       string(model.ParseSupportLevel(cfg.Plan.Level)),
		Hours:       formatAmount(cfg.Plan.Hours),
		AutoRefresh: cfg.TUI.AutoRefresh,
	}
}

// Apply writes the answers into cfg.
func (s Setup) Apply(cfg *config.Config) {
	if key := strings.TrimSpace(s.APIKey); key != "" {
		cfg.AI.APIKey = key
	}
	if m := strings.TrimSpace(s.Model); m != "" {
		cfg.AI.Model = m
	}
	if s.Theme != "" {
		cfg.Appearance.Theme = theme.ByName(s.Theme).Name
	}
	if s.Level != "" {
		cfg.Plan.Level = s.Level
	}
	if h := strings.TrimSpace(s.Hours); ValidateAmount(h) == nil {
		cfg.Plan.Hours = source.CleanNumber(h)
	}
	cfg.TUI.AutoRefresh = s.AutoRefresh
}

func themeOptions() []huh.Option[string] {
	labels := map[string]string{
		"flexoki-dark":     "Flexoki Dark",
		"catppuccin-mocha": "Catppuccin Mocha",
		"tokyo-night":      "Tokyo Night",
		"terminal":         "Terminal (ANSI 16)",
	}
	opts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		label := labels[name]
		if label == "" {
			label = name
		}
		opts = append(opts, huh.NewOption(label, name))
	}
	return opts
}

// NewSetup builds the first-run wizard. participants is the current roster
// size, shown on the welcome screen.
func NewSetup(participants int, dbPath string, s *Setup) *huh.Form {
	welcome := "No roster yet. Add participants with `a` or `caseload import`."
	if participants > 0 {
		welcome = fmt.Sprintf("Found %d participants in %s.", participants, dbPath)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to caseload").
				Description(welcome+"\n\nA few settings and you're done."),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini API key").
				Description("Used to draft strategy notes. Leave blank to skip or keep the current key.").
				EchoMode(huh.EchoModePassword).
				Value(&s.APIKey),
			huh.NewInput().
				Title("Gemini model").
				Placeholder("gemini-2.0-flash").
				Value(&s.Model),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default support level for new participants").
				Options(levelOptions()...).
				Value(&s.Level),
			huh.NewInput().
				Title("Default hours per week").
				Value(&s.Hours).
				Validate(ValidateAmount),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Colour theme").
				Options(themeOptions()...).
				Value(&s.Theme),
			huh.NewConfirm().
				Title("Refresh the dashboard automatically?").
				Value(&s.AutoRefresh),
		),
	).WithShowHelp(true)
}
