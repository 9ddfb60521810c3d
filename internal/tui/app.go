// Package tui provides the interactive Bubble Tea dashboard for caseload.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/config"
	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/pipeline"
	"github.com/xyston/caseload/internal/store"
	"github.com/xyston/caseload/internal/tui/components"
	"github.com/xyston/caseload/internal/tui/forms"
	"github.com/xyston/caseload/internal/tui/theme"
)

// Tab indexes, matching components.Tabs.
const (
	tabDashboard = iota
	tabParticipants
	tabRevenue
	tabSettings
)

// DataLoadedMsg is sent when the roster has been read and recomputed.
type DataLoadedMsg struct {
	Result   *pipeline.LoadResult
	Revision int64
	LoadTime time.Duration
	Err      error
	Refresh  bool // background refresh rather than the initial load
}

// revisionMsg reports the store revision seen by an auto-refresh poll.
type revisionMsg struct {
	rev int64
	err error
}

// mutationMsg reports the outcome of a write to the roster.
type mutationMsg struct {
	message string
	err     error
}

// noteMsg carries a drafted strategy note.
type noteMsg struct {
	id   string
	name string
	text string
	err  error
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	result   *pipeline.LoadResult
	levels   []model.LevelStats
	forecast []model.ForecastPoint
	revision int64
	loaded   bool
	loadErr  error
	loadTime time.Duration

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool
	polling         bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Feedback in the status bar
	flash    string
	flashErr bool
	flashAt  time.Time

	// Per-tab state
	parts    participantsState
	settings settingsState

	// Modal huh form (add participant, delete confirm)
	form       *huh.Form
	formKind   formKind
	formTarget string // participant ID for confirms
	addVals    *forms.Participant
	confirmed  *bool

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *forms.Setup
	needSetup bool

	spinner spinner.Model

	dbPath    string
	fixedDate time.Time // zero means follow the wall clock
	forecastW int
}

type formKind int

const (
	formNone formKind = iota
	formAdd
	formDelete
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minRefreshInterval = 10 * time.Second
	flashDuration      = 4 * time.Second
	forecastWeeks      = 26

	scrollOverhead    = 10 // approximate header + status bar height for half-page calc
	minHalfPageScroll = 1
	minContentHeight  = 5
)

// loadConfigOrDefault loads config, returning defaults on error.
// The TUI must start even if the config file is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates the dashboard for the roster at dbPath. A non-zero today
// pins the reference date; otherwise the wall clock is followed so the
// figures roll over at midnight.
func NewApp(dbPath string, today time.Time) App {
	cfg := loadConfigOrDefault()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	interval := time.Duration(cfg.TUI.RefreshIntervalSec) * time.Second
	if interval < minRefreshInterval {
		interval = 30 * time.Second
	}

	return App{
		dbPath:          dbPath,
		fixedDate:       today,
		needSetup:       !config.Exists(),
		autoRefresh:     cfg.TUI.AutoRefresh,
		refreshInterval: interval,
		spinner:         sp,
		forecastW:       forecastWeeks,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.dbPath, a.referenceDate(), false),
		a.spinner.Tick,
		tickCmd(),
	)
}

func (a App) referenceDate() time.Time {
	if !a.fixedDate.IsZero() {
		return a.fixedDate
	}
	return time.Now()
}

// metrics returns the computed metrics, or nil before the first load.
func (a App) metrics() []model.Metrics {
	if a.result == nil {
		return nil
	}
	return a.result.Metrics
}

func (a App) today() time.Time {
	if a.result == nil {
		return a.referenceDate()
	}
	return a.result.Today
}

func (a *App) recompute() {
	ms := a.metrics()
	a.levels = pipeline.AggregateLevels(ms)
	a.forecast = pipeline.ProjectPortfolio(ms, a.today(), a.forecastW)
	a.parts.clamp(len(a.visibleParticipants()))
}

func (a *App) setFlash(msg string, isErr bool) {
	a.flash = msg
	a.flashErr = isErr
	a.flashAt = time.Now()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.form != nil {
			a.form = a.form.WithWidth(a.formWidth())
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil || a.form != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a.updateKey(msg)

	case DataLoadedMsg:
		return a.applyLoad(msg)

	case revisionMsg:
		a.polling = false
		if msg.err != nil || msg.rev == a.revision || a.refreshing {
			return a, nil
		}
		a.refreshing = true
		return a, loadDataCmd(a.dbPath, a.referenceDate(), true)

	case mutationMsg:
		if msg.err != nil {
			a.setFlash(msg.err.Error(), true)
			return a, nil
		}
		a.setFlash(msg.message, false)
		a.refreshing = true
		return a, loadDataCmd(a.dbPath, a.referenceDate(), true)

	case noteMsg:
		a.parts.drafting = ""
		if msg.err != nil {
			a.setFlash(noteErrorText(msg.err), true)
			return a, nil
		}
		a.setFlash("Strategy note saved for "+msg.name, false)
		a.refreshing = true
		return a, loadDataCmd(a.dbPath, a.referenceDate(), true)

	case spinner.TickMsg:
		if !a.loaded || a.parts.drafting != "" {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		return a.onTick()
	}

	// Forward unhandled messages (cursor blinks etc.) to an open form.
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.form != nil {
		return a.updateForm(msg)
	}
	if a.parts.editing || a.parts.searching || a.settings.editing {
		return a.forwardInput(msg)
	}
	return a, nil
}

func (a App) applyLoad(msg DataLoadedMsg) (tea.Model, tea.Cmd) {
	a.refreshing = false
	a.lastRefresh = time.Now()
	if msg.Err != nil {
		if !msg.Refresh {
			a.loaded = true
			a.loadErr = msg.Err
		} else {
			a.setFlash("Refresh failed: "+msg.Err.Error(), true)
		}
		return a, nil
	}

	firstLoad := !a.loaded
	a.result = msg.Result
	a.revision = msg.Revision
	a.loadTime = msg.LoadTime
	a.loaded = true
	a.loadErr = nil
	a.recompute()

	if firstLoad && a.needSetup {
		cfg := loadConfigOrDefault()
		vals := forms.SetupFrom(cfg)
		a.setupVals = &vals
		a.setupForm = forms.NewSetup(len(a.metrics()), a.dbPath, a.setupVals)
		if a.width > 0 {
			a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
		}
		return a, a.setupForm.Init()
	}
	return a, nil
}

func (a App) onTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd()}

	if a.flash != "" && time.Since(a.flashAt) > flashDuration {
		a.flash = ""
	}

	if !a.loaded || a.refreshing || a.polling {
		return a, tea.Batch(cmds...)
	}

	// A new calendar day changes every figure even with an unchanged roster.
	if a.fixedDate.IsZero() && a.result != nil && !sameDay(time.Now(), a.result.Today) {
		a.refreshing = true
		cmds = append(cmds, loadDataCmd(a.dbPath, a.referenceDate(), true))
		return a, tea.Batch(cmds...)
	}

	if a.autoRefresh && time.Since(a.lastRefresh) >= a.refreshInterval {
		a.polling = true
		a.lastRefresh = time.Now()
		cmds = append(cmds, revisionCmd(a.dbPath))
	}
	return a, tea.Batch(cmds...)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabParticipants && !a.parts.searching {
			a.parts.move(-1, len(a.visibleParticipants()))
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabParticipants && !a.parts.searching {
			a.parts.move(1, len(a.visibleParticipants()))
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Text inputs own the keyboard while active.
	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}
	if a.activeTab == tabParticipants && a.parts.searching {
		return a.updateParticipantSearch(msg)
	}
	if a.activeTab == tabParticipants && a.parts.editing {
		return a.updateBalanceInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.activeTab == tabParticipants {
		if next, cmd, handled := a.updateParticipantsKey(key); handled {
			return next, cmd
		}
	}
	if a.activeTab == tabSettings {
		if next, cmd, handled := a.updateSettingsKey(key); handled {
			return next, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, loadDataCmd(a.dbPath, a.referenceDate(), true)
		}
		return a, nil
	case "R":
		a.autoRefresh = !a.autoRefresh
		cfg := loadConfigOrDefault()
		cfg.TUI.AutoRefresh = a.autoRefresh
		if err := config.Save(cfg); err != nil {
			a.setFlash("Could not save config: "+err.Error(), true)
		}
		return a, nil
	case "a":
		return a.openAddForm()
	case "left", "h":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "l", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

// forwardInput passes non-key messages (cursor blink) to the focused input.
func (a App) forwardInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case a.parts.searching:
		a.parts.search, cmd = a.parts.search.Update(msg)
	case a.parts.editing:
		a.parts.balance, cmd = a.parts.balance.Update(msg)
	case a.settings.editing:
		a.settings.input, cmd = a.settings.input.Update(msg)
	}
	return a, cmd
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg := loadConfigOrDefault()
		a.setupVals.Apply(&cfg)
		if err := config.Save(cfg); err != nil {
			a.setFlash("Could not save config: "+err.Error(), true)
		} else {
			a.setFlash("Saved "+config.ConfigPath(), false)
		}
		theme.SetActive(cfg.Appearance.Theme)
		a.autoRefresh = cfg.TUI.AutoRefresh
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) formWidth() int {
	return min(max(a.width-8, 40), 72)
}

func (a App) openAddForm() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	vals := forms.Participant{}.WithDefaults(cfg.Plan, a.today())
	a.addVals = &vals
	a.formKind = formAdd
	a.form = forms.NewParticipant("New Participant", a.addVals).WithWidth(a.formWidth())
	return a, a.form.Init()
}

func (a App) openDeleteConfirm(m model.Metrics) (tea.Model, tea.Cmd) {
	ok := false
	a.confirmed = &ok
	a.formKind = formDelete
	a.formTarget = m.ID
	a.form = forms.NewConfirm(
		fmt.Sprintf("Delete %s?", m.Name),
		"Their balance history is removed too.",
		a.confirmed,
	).WithWidth(a.formWidth())
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.closeForm()
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateAborted:
		a.closeForm()
		return a, nil
	case huh.StateCompleted:
		kind, target := a.formKind, a.formTarget
		addVals, confirmed := a.addVals, a.confirmed
		a.closeForm()
		switch kind {
		case formAdd:
			cfg := loadConfigOrDefault()
			return a, addParticipantCmd(a.dbPath, *addVals, cfg, a.today())
		case formDelete:
			if *confirmed {
				return a, deleteParticipantCmd(a.dbPath, target)
			}
		}
		return a, nil
	}
	return a, cmd
}

func (a *App) closeForm() {
	a.form = nil
	a.formKind = formNone
	a.formTarget = ""
	a.addVals = nil
	a.confirmed = nil
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.loadErr != nil {
		return a.viewLoadError()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	if a.form != nil {
		return a.viewForm()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  caseload needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) overlay(body string, border lipgloss.Color) string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Background(t.Surface).
		Padding(1, 3).
		Render(body)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoading() string {
	t := theme.Active
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logo.Render("◈ caseload"))
	b.WriteString(sub.Render(" · Support Coordination Viability"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(sub.Render(" Reading roster…"))
	return a.overlay(b.String(), t.BorderAccent)
}

func (a App) viewLoadError() string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	body := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(title.Render("Could not open the roster"))
	b.WriteString("\n\n")
	b.WriteString(body.Render(a.dbPath))
	b.WriteString("\n")
	b.WriteString(body.Render(a.loadErr.Error()))
	b.WriteString("\n\n")
	b.WriteString(body.Render("Press ctrl+c to quit."))
	return a.overlay(b.String(), t.Red)
}

func (a App) viewForm() string {
	return a.overlay(a.form.View(), theme.Active.BorderAccent)
}

func (a App) viewHelp() string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	section := func(b *strings.Builder, name string, binds [][2]string) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind[0])),
				descStyle.Render(bind[1]))
		}
		b.WriteString("\n")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	section(&b, "Navigation", [][2]string{
		{"d p v x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Move through participants"},
		{"J K", "Scroll detail pane"},
		{"^d ^u", "Half-page scroll"},
	})
	section(&b, "Participants", [][2]string{
		{"a", "Add participant"},
		{"e", "Update balance"},
		{"n", "Draft strategy note (AI)"},
		{"D", "Delete participant"},
		{"/", "Search by name"},
		{"s", "Cycle sort order"},
		{"f", "Cycle status filter"},
		{"Enter", "Expand detail"},
	})
	section(&b, "General", [][2]string{
		{"r", "Reload roster"},
		{"R", "Toggle auto-refresh"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})
	b.WriteString(dimStyle.Render("Press any key to close"))

	return a.overlay(b.String(), t.BorderAccent)
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	info := components.StatusInfo{
		Today:       cli.FormatDate(a.today()),
		Message:     a.flash,
		IsError:     a.flashErr,
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
	}
	if !a.lastRefresh.IsZero() {
		info.DataAge = cli.FormatRelative(a.lastRefresh, time.Now())
	}
	if a.parts.drafting != "" {
		info.Message = a.spinner.View() + " Drafting note…"
		info.IsError = false
	}
	statusBar := components.RenderStatusBar(w, info)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabParticipants:
		content = a.renderParticipantsTab(cw, contentH)
	case tabRevenue:
		content = a.renderRevenueTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadDataCmd reads the roster and recomputes every metric as of today.
func loadDataCmd(dbPath string, today time.Time, refresh bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		r, err := store.Open(dbPath)
		if err != nil {
			return DataLoadedMsg{Err: err, Refresh: refresh}
		}
		defer r.Close()

		rev, err := r.Revision()
		if err != nil {
			return DataLoadedMsg{Err: err, Refresh: refresh}
		}
		res, err := pipeline.Load(r, today)
		if err != nil {
			return DataLoadedMsg{Err: err, Refresh: refresh}
		}
		return DataLoadedMsg{
			Result:   res,
			Revision: rev,
			LoadTime: time.Since(start),
			Refresh:  refresh,
		}
	}
}

// revisionCmd reads the store revision so a reload only happens when
// another process has changed the roster.
func revisionCmd(dbPath string) tea.Cmd {
	return func() tea.Msg {
		r, err := store.Open(dbPath)
		if err != nil {
			return revisionMsg{err: err}
		}
		defer r.Close()
		rev, err := r.Revision()
		return revisionMsg{rev: rev, err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background
// colour so gaps between cards are not left unstyled.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // separator
	}
	return -1
}
