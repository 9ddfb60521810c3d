package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/xyston/caseload/internal/casenote"
	"github.com/xyston/caseload/internal/cli"
	"github.com/xyston/caseload/internal/config"
	"github.com/xyston/caseload/internal/logger"
	"github.com/xyston/caseload/internal/model"
	"github.com/xyston/caseload/internal/pipeline"
	"github.com/xyston/caseload/internal/source"
	"github.com/xyston/caseload/internal/store"
	"github.com/xyston/caseload/internal/tui/components"
	"github.com/xyston/caseload/internal/tui/forms"
	"github.com/xyston/caseload/internal/tui/theme"
	"github.com/xyston/caseload/internal/viability"
)

// Participants view modes. Split is the zero value so it is the default.
const (
	partViewSplit  = iota // list + detail side by side
	partViewDetail        // full-width detail
)

// participantsState holds the participants tab state.
type participantsState struct {
	cursor       int
	offset       int
	detailScroll int
	viewMode     int

	sortIdx   int // index into pipeline.SortKeys
	statusIdx int // 0 = all, otherwise 1 + index into model.Statuses

	searching bool
	search    textinput.Model
	query     string

	editing bool
	balance textinput.Model
	editID  string

	drafting string // participant ID with a note in flight
}

func (s *participantsState) clamp(n int) {
	s.cursor = max(0, min(s.cursor, n-1))
	s.offset = max(0, min(s.offset, s.cursor))
}

func (s *participantsState) move(delta, n int) {
	s.cursor += delta
	s.clamp(n)
	s.detailScroll = 0
}

func (s participantsState) sortKey() pipeline.SortKey {
	return pipeline.SortKeys[s.sortIdx%len(pipeline.SortKeys)]
}

// statusFilter returns the selected status, or false when showing all.
func (s participantsState) statusFilter() (model.Status, bool) {
	if s.statusIdx <= 0 || s.statusIdx > len(model.Statuses) {
		return 0, false
	}
	return model.Statuses[s.statusIdx-1], true
}

// visibleParticipants applies the status filter, search and sort order.
func (a App) visibleParticipants() []model.Metrics {
	ms := a.metrics()
	if st, ok := a.parts.statusFilter(); ok {
		ms = pipeline.FilterByStatus(ms, st)
	}
	ms = pipeline.FilterByName(ms, a.parts.query)
	return pipeline.SortMetrics(ms, a.parts.sortKey())
}

func (a App) selectedParticipant() (model.Metrics, bool) {
	vis := a.visibleParticipants()
	if a.parts.cursor < 0 || a.parts.cursor >= len(vis) {
		return model.Metrics{}, false
	}
	return vis[a.parts.cursor], true
}

func (a App) halfPage() int {
	return max((a.height-scrollOverhead)/2, minHalfPageScroll)
}

// updateParticipantsKey handles list navigation and the row actions.
// handled is false for keys that fall through to the global bindings.
func (a App) updateParticipantsKey(key string) (tea.Model, tea.Cmd, bool) {
	n := len(a.visibleParticipants())
	ps := &a.parts

	switch key {
	case "j", "down":
		ps.move(1, n)
	case "k", "up":
		ps.move(-1, n)
	case "g":
		ps.move(-n, n)
	case "G":
		ps.move(n, n)
	case "J":
		ps.detailScroll++
	case "K":
		ps.detailScroll = max(0, ps.detailScroll-1)
	case "ctrl+d":
		ps.detailScroll += a.halfPage()
	case "ctrl+u":
		ps.detailScroll = max(0, ps.detailScroll-a.halfPage())
	case "enter":
		ps.viewMode = partViewDetail
	case "esc":
		switch {
		case ps.query != "":
			ps.query = ""
			ps.clamp(len(a.visibleParticipants()))
		case ps.statusIdx != 0:
			ps.statusIdx = 0
			ps.clamp(len(a.visibleParticipants()))
		default:
			ps.viewMode = partViewSplit
		}
	case "q":
		if ps.viewMode == partViewDetail {
			ps.viewMode = partViewSplit
			return a, nil, true
		}
		return a, nil, false
	case "s":
		ps.sortIdx = (ps.sortIdx + 1) % len(pipeline.SortKeys)
		ps.cursor = 0
	case "f":
		ps.statusIdx = (ps.statusIdx + 1) % (len(model.Statuses) + 1)
		ps.clamp(len(a.visibleParticipants()))
	case "/":
		ps.searching = true
		ps.search = newSearchInput(ps.query)
		return a, ps.search.Focus(), true
	case "e":
		m, ok := a.selectedParticipant()
		if !ok {
			return a, nil, true
		}
		ps.editing = true
		ps.editID = m.ID
		ps.balance = newBalanceInput(m.Balance)
		return a, ps.balance.Focus(), true
	case "n":
		m, ok := a.selectedParticipant()
		if !ok || ps.drafting != "" {
			return a, nil, true
		}
		ps.drafting = m.ID
		return a, tea.Batch(a.spinner.Tick, draftNoteCmd(a.dbPath, loadConfigOrDefault(), m)), true
	case "D":
		m, ok := a.selectedParticipant()
		if !ok {
			return a, nil, true
		}
		next, cmd := a.openDeleteConfirm(m)
		return next, cmd, true
	default:
		return a, nil, false
	}
	return a, nil, true
}

func newSearchInput(value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "name or NDIS number"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 30
	ti.SetValue(value)
	return ti
}

func newBalanceInput(current float64) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "e.g. 12,450.00"
	ti.Prompt = "$ "
	ti.CharLimit = 20
	ti.Width = 16
	ti.SetValue(fmt.Sprintf("%.2f", current))
	ti.Validate = func(s string) error {
		if s == "" {
			return nil
		}
		return forms.ValidateAmount(s)
	}
	return ti
}

// updateParticipantSearch edits the query; enter applies it, esc keeps the
// previous one.
func (a App) updateParticipantSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.parts.query = strings.TrimSpace(a.parts.search.Value())
		a.parts.searching = false
		a.parts.cursor = 0
		a.parts.offset = 0
		return a, nil
	case "esc":
		a.parts.searching = false
		return a, nil
	}
	var cmd tea.Cmd
	a.parts.search, cmd = a.parts.search.Update(msg)
	return a, cmd
}

func (a App) updateBalanceInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		val := a.parts.balance.Value()
		if err := forms.ValidateAmount(val); err != nil {
			a.setFlash("Balance: "+err.Error(), true)
			return a, nil
		}
		id := a.parts.editID
		a.parts.editing = false
		a.parts.editID = ""
		return a, updateBalanceCmd(a.dbPath, id, source.CleanNumber(val))
	case "esc":
		a.parts.editing = false
		a.parts.editID = ""
		return a, nil
	}
	var cmd tea.Cmd
	a.parts.balance, cmd = a.parts.balance.Update(msg)
	return a, cmd
}

// ─── Roster writes ──────────────────────────────────────────────

func withRoster(dbPath string, fn func(r *store.Roster) (string, error)) tea.Cmd {
	return func() tea.Msg {
		r, err := store.Open(dbPath)
		if err != nil {
			return mutationMsg{err: err}
		}
		defer r.Close()
		msg, err := fn(r)
		return mutationMsg{message: msg, err: err}
	}
}

func addParticipantCmd(dbPath string, f forms.Participant, cfg config.Config, today time.Time) tea.Cmd {
	return withRoster(dbPath, func(r *store.Roster) (string, error) {
		p := model.Participant{ID: uuid.NewString()}
		if err := f.Apply(&p); err != nil {
			return "", err
		}
		p.Rate = config.ResolveRate(cfg, p.Level, today)
		if err := r.Insert(p); err != nil {
			return "", fmt.Errorf("adding participant: %w", err)
		}
		m := viability.Compute(p, today)
		return fmt.Sprintf("Added %s (%s)", p.Name, m.Status), nil
	})
}

func updateBalanceCmd(dbPath, id string, balance float64) tea.Cmd {
	return withRoster(dbPath, func(r *store.Roster) (string, error) {
		p, err := r.Get(id)
		if err != nil {
			return "", err
		}
		p.Balance = balance
		if err := r.Update(p); err != nil {
			return "", fmt.Errorf("updating balance: %w", err)
		}
		return fmt.Sprintf("%s balance set to %s", p.Name, cli.FormatCurrency(balance)), nil
	})
}

func deleteParticipantCmd(dbPath, id string) tea.Cmd {
	return withRoster(dbPath, func(r *store.Roster) (string, error) {
		p, err := r.Get(id)
		if err != nil {
			return "", err
		}
		if err := r.Delete(id); err != nil {
			return "", fmt.Errorf("deleting participant: %w", err)
		}
		return "Deleted " + p.Name, nil
	})
}

// draftNoteCmd asks Gemini for a strategy note and saves it on success.
func draftNoteCmd(dbPath string, cfg config.Config, m model.Metrics) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.AITimeout(cfg)+5*time.Second)
		defer cancel()

		client, err := casenote.NewClient(ctx, casenote.Config{
			APIKey:  config.GetGeminiAPIKey(cfg),
			Model:   cfg.AI.Model,
			BaseURL: cfg.AI.BaseURL,
			Timeout: config.AITimeout(cfg),
		}, logger.Nop())
		if err != nil {
			return noteMsg{id: m.ID, name: m.Name, err: err}
		}

		r, err := store.Open(dbPath)
		if err != nil {
			return noteMsg{id: m.ID, name: m.Name, err: err}
		}
		defer r.Close()

		text, err := casenote.Write(ctx, client, r, m)
		return noteMsg{id: m.ID, name: m.Name, text: text, err: err}
	}
}

func noteErrorText(err error) string {
	switch {
	case errors.Is(err, casenote.ErrMissingAPIKey):
		return "No Gemini API key: set one in Settings or GEMINI_API_KEY"
	case errors.Is(err, casenote.ErrUnauthorized):
		return "Gemini rejected the API key"
	case errors.Is(err, casenote.ErrRateLimited):
		return "Gemini rate limit hit, try again shortly"
	}
	return "Note failed: " + err.Error()
}

// ─── Rendering ──────────────────────────────────────────────────

func (a App) renderParticipantsTab(cw, h int) string {
	t := theme.Active
	vis := a.visibleParticipants()

	if len(vis) == 0 {
		msg := "No participants on the roster. Press [a] to add one."
		if len(a.metrics()) > 0 {
			msg = "No participants match. Press [Esc] to clear the filter."
		}
		body := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(msg)
		if a.parts.searching {
			body = a.parts.search.View() + "\n\n" + body
		}
		return components.ContentCard("Participants", body, cw)
	}

	sel := vis[min(a.parts.cursor, len(vis)-1)]
	if a.parts.viewMode == partViewDetail {
		return a.scrolledDetail(sel, cw, h)
	}
	if a.isCompactLayout() {
		return a.renderParticipantList(vis, cw, h)
	}

	leftW := max(cw*2/5, 40)
	rightW := cw - leftW
	return components.CardRow([]string{
		a.renderParticipantList(vis, leftW, h),
		a.scrolledDetail(sel, rightW, h),
	})
}

func (a App) renderParticipantList(vis []model.Metrics, w, h int) string {
	t := theme.Active
	ps := a.parts
	innerW := components.CardInnerWidth(w)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	const runwayW, statusW = 9, 11
	nameW := max(innerW-runwayW-statusW-2, 8)

	var b strings.Builder
	if ps.searching {
		b.WriteString(ps.search.View())
		b.WriteString("\n")
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %-*s", nameW, "Name", runwayW, "Runway", statusW, "Status")))
	b.WriteString("\n")

	visible := max(h-7, 3)
	offset := ps.offset
	if ps.cursor < offset {
		offset = ps.cursor
	}
	if ps.cursor >= offset+visible {
		offset = ps.cursor - visible + 1
	}
	end := min(offset+visible, len(vis))

	for i := offset; i < end; i++ {
		m := vis[i]
		style := rowStyle
		if i == ps.cursor {
			style = selStyle
		}
		dot := lipgloss.NewStyle().Foreground(t.StatusColor(m.Status)).Background(style.GetBackground()).Render("●")
		name := style.Render(fmt.Sprintf("%-*s %*s ", nameW, truncStr(m.Name, nameW), runwayW, cli.FormatRunway(m)))
		label := style.Render(fmt.Sprintf(" %-*s", statusW-2, truncStr(m.Status.Short(), statusW-2)))
		b.WriteString(name + dot + label)
		b.WriteString("\n")
	}

	filter := "all"
	if st, ok := ps.statusFilter(); ok {
		filter = st.Short()
	}
	hint := fmt.Sprintf("%d of %d · sort %s · filter %s", len(vis), len(a.metrics()), ps.sortKey(), filter)
	if ps.query != "" {
		hint += fmt.Sprintf(" · %q", ps.query)
	}
	b.WriteString(mutedStyle.Render(truncStr(hint, innerW)))

	return components.ContentCard("Participants", b.String(), w)
}

// scrolledDetail renders the detail card with the body scrolled by
// detailScroll lines.
func (a App) scrolledDetail(m model.Metrics, w, h int) string {
	body := a.renderDetailBody(m, w)
	lines := strings.Split(body, "\n")
	maxScroll := max(0, len(lines)-(h-3))
	scroll := min(a.parts.detailScroll, maxScroll)
	body = strings.Join(lines[scroll:], "\n")

	title := m.Name
	if m.NDISNumber != "" {
		title += "  #" + m.NDISNumber
	}
	return components.FocusCard(title, body, w)
}

// renderDetailBody is shared by the split pane and the full-width view.
func (a App) renderDetailBody(m model.Metrics, w int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(w)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	statusStyle := lipgloss.NewStyle().Foreground(t.StatusColor(m.Status)).Background(t.Surface).Bold(true)
	surplusStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	if m.Surplus < 0 {
		surplusStyle = surplusStyle.Foreground(t.Red)
	}

	var b strings.Builder
	b.WriteString(statusStyle.Render(m.Status.String()))
	b.WriteString(mutedStyle.Render("  " + m.Level.Short()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", innerW)))
	b.WriteString("\n")

	row := func(l1, v1, l2, v2 string) {
		fmt.Fprintf(&b, "%s %s   %s %s\n",
			labelStyle.Render(fmt.Sprintf("%-10s", l1)), valueStyle.Render(fmt.Sprintf("%-14s", v1)),
			labelStyle.Render(fmt.Sprintf("%-11s", l2)), valueStyle.Render(v2))
	}
	row("Balance", cli.FormatCurrency(m.Balance), "Budget", cli.FormatCurrency(m.Budget))
	row("Rate", cli.FormatCurrency(m.Rate)+"/h", "Hours", cli.FormatHours(m.Hours))
	row("Weekly", cli.FormatCurrency(m.WeeklyCost), "Plan end", cli.FormatDate(m.PlanEndDate))
	row("Runway", cli.FormatRunway(m), "Remaining", cli.FormatWeeks(m.WeeksRemaining))
	depletion := "never"
	if !m.Unbounded() {
		depletion = cli.FormatDate(m.DepletionDate)
	}
	fmt.Fprintf(&b, "%s %s   %s %s\n",
		labelStyle.Render(fmt.Sprintf("%-10s", "Outcome")),
		surplusStyle.Render(fmt.Sprintf("%-14s", cli.FormatSignedCurrency(m.Surplus))),
		labelStyle.Render(fmt.Sprintf("%-11s", "Depletes")),
		valueStyle.Render(depletion))

	if a.parts.editing && a.parts.editID == m.ID {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("NEW BALANCE "))
		b.WriteString(a.parts.balance.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(components.BudgetBar("Spent", m, 6, max(innerW-18, 10)))
	b.WriteString("\n\n")

	pts := viability.Trajectory(m, a.today())
	actual := make([]float64, len(pts))
	ideal := make([]float64, len(pts))
	labels := make([]string, len(pts))
	for i, p := range pts {
		actual[i] = p.Actual
		ideal[i] = p.Ideal
		labels[i] = cli.FormatShortDate(p.Date)
	}
	b.WriteString(headerStyle.Render("TRAJECTORY"))
	b.WriteString(mutedStyle.Render("  bars: projected balance  · : ideal spend"))
	b.WriteString("\n")
	chartH := 8
	if a.isCompactLayout() {
		chartH = 6
	}
	b.WriteString(components.TrajectoryChart(actual, ideal, labels, innerW, chartH))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("STRATEGY NOTES"))
	b.WriteString("\n")
	switch {
	case a.parts.drafting == m.ID:
		b.WriteString(a.spinner.View())
		b.WriteString(mutedStyle.Render(" drafting…"))
	case strings.TrimSpace(m.Notes) == "":
		b.WriteString(mutedStyle.Render("No notes yet. Press [n] to draft one."))
	default:
		b.WriteString(valueStyle.Width(innerW).Render(m.Notes))
	}
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("[e] balance  [n] note  [D] delete  [/] search  [s] sort  [f] filter"))

	return b.String()
}
