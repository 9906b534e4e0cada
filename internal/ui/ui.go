package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/courtside/internal/favorites"
	"github.com/desertthunder/courtside/internal/formatter"
	"github.com/desertthunder/courtside/internal/models"
	"github.com/desertthunder/courtside/internal/shared"
	"github.com/desertthunder/courtside/internal/tasks"
	"github.com/desertthunder/courtside/internal/theme"
)

// Tab identifies one of the top-level screens.
type Tab int

const (
	FixturesTab Tab = iota
	StandingsTab
	FavoritesTab
)

var tabs = []Tab{FixturesTab, StandingsTab, FavoritesTab}

func (t Tab) String() string {
	switch t {
	case FixturesTab:
		return "Fixtures"
	case StandingsTab:
		return "Standings"
	case FavoritesTab:
		return "Favorites"
	default:
		return "Unknown"
	}
}

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	DetailView
)

// Options carries the dependencies the TUI shares with the CLI.
type Options struct {
	Refresher *tasks.Refresher
	Favorites *favorites.Store
	Theme     *theme.Provider
	Logger    *log.Logger
	Season    string
	Matches   []models.Match // Shown until the first refresh completes
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	refresher *tasks.Refresher
	favorites *favorites.Store
	theme     *theme.Provider
	logger    *log.Logger
	season    string

	tab      Tab
	view     ViewState
	width    int
	height   int
	lists    map[Tab]*list.Model
	selected *models.Match

	matches   []models.Match
	standings []models.RankedTeam
	simulated bool

	loading      bool
	progressChan chan tasks.ProgressUpdate
	doneChan     chan Msg
	progress     tasks.ProgressUpdate
	err          error

	palette *Palette
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	m := &Model{
		ctx:       ctx,
		refresher: opts.Refresher,
		favorites: opts.Favorites,
		theme:     opts.Theme,
		logger:    shared.WithLogger(logger, "component", "tui"),
		season:    opts.Season,
		tab:       FixturesTab,
		view:      ListView,
		lists:     make(map[Tab]*list.Model, len(tabs)),
		matches:   opts.Matches,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:      help.New(),
		keys:      newKeyMap(),
	}
	m.palette = NewPalette(m.colors())

	for _, t := range tabs {
		l := list.New(nil, m.palette.delegate(), 0, 0)
		l.Title = t.String()
		l.Styles.Title = m.palette.title
		l.SetShowHelp(false)
		l.DisableQuitKeybindings()
		m.lists[t] = &l
	}
	m.syncLists()
	return m
}

// Init starts the first refresh.
func (m *Model) Init() tea.Cmd {
	return m.startRefresh()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range m.lists {
			l.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil

	case tea.KeyMsg:
		if m.view == DetailView {
			return m.handleDetailKeys(msg)
		}
		return m.handleListKeys(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgProgressUpdate:
			m.progress = msg.data.(tasks.ProgressUpdate)
			return m, m.waitForProgress()
		case MsgRefreshComplete:
			m.applyRefresh(msg.data.(refreshOutcome))
			return m, nil
		}
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.palette.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	if m.loading {
		fmt.Fprintf(&b, "%s %s\n", m.spinner.View(), m.palette.muted.Render(m.progressMessage()))
	}
	b.WriteString("\n")

	switch m.view {
	case DetailView:
		b.WriteString(m.renderDetails())
	default:
		b.WriteString(m.renderList())
	}
	return b.String()
}

// Tab returns the active tab.
func (m *Model) Tab() Tab { return m.tab }

func (m *Model) activeList() *list.Model { return m.lists[m.tab] }

func (m *Model) colors() theme.Colors {
	if m.theme == nil {
		return theme.LightColors
	}
	return m.theme.Colors()
}

func (m *Model) isFavorite(id string) bool {
	return m.favorites != nil && m.favorites.IsFavorite(id)
}

func (m *Model) favoriteMatches() []models.Match {
	if m.favorites == nil {
		return nil
	}
	return m.favorites.FilterFavorites(m.matches)
}

// syncLists rebuilds every list's items from the model's data.
func (m *Model) syncLists() {
	m.lists[FixturesTab].SetItems(matchItems(m.matches, m.isFavorite))
	m.lists[StandingsTab].SetItems(teamItems(m.standings))
	m.lists[FavoritesTab].SetItems(matchItems(m.favoriteMatches(), m.isFavorite))
}

func (m *Model) applyPalette() {
	m.palette = NewPalette(m.colors())
	for _, l := range m.lists {
		l.SetDelegate(m.palette.delegate())
		l.Styles.Title = m.palette.title
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.activeList().SettingFilter() {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.nextTab):
		m.tab = tabs[(int(m.tab)+1)%len(tabs)]
		return m, nil
	case key.Matches(msg, m.keys.prevTab):
		m.tab = tabs[(int(m.tab)+len(tabs)-1)%len(tabs)]
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.startRefresh()
	case key.Matches(msg, m.keys.theme):
		m.toggleTheme()
		return m, nil
	case key.Matches(msg, m.keys.favorite):
		if match, ok := m.selectedMatch(); ok {
			m.toggleFavorite(match.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if match, ok := m.selectedMatch(); ok {
			m.selected = &match
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.back) && m.err != nil:
		m.err = nil
		return m, nil
	}
	return m.updateList(msg)
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = ListView
		m.selected = nil
	case key.Matches(msg, m.keys.favorite):
		m.toggleFavorite(m.selected.ID)
	case key.Matches(msg, m.keys.theme):
		m.toggleTheme()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	l, cmd := m.activeList().Update(msg)
	*m.lists[m.tab] = l
	return m, cmd
}

// selectedMatch returns the highlighted match on a fixture-bearing tab.
func (m *Model) selectedMatch() (models.Match, bool) {
	if m.tab == StandingsTab {
		return models.Match{}, false
	}
	item, ok := m.activeList().SelectedItem().(matchItem)
	if !ok {
		return models.Match{}, false
	}
	return item.match, true
}

func (m *Model) toggleFavorite(id string) {
	if m.favorites == nil || id == "" {
		return
	}
	added := m.favorites.Toggle(id)
	m.logger.Debug("toggled favorite", "match", id, "favorite", added)
	m.syncLists()
}

func (m *Model) toggleTheme() {
	if m.theme == nil {
		return
	}
	name, err := m.theme.Toggle()
	if err != nil {
		m.logger.Warn("failed to persist theme", "theme", name, "err", err)
	}
	m.applyPalette()
}

func (m *Model) startRefresh() tea.Cmd {
	if m.loading {
		return nil
	}
	if m.refresher == nil {
		m.err = fmt.Errorf("%w: no data source configured", shared.ErrServiceUnavailable)
		return nil
	}

	progress := make(chan tasks.ProgressUpdate, 16)
	done := make(chan Msg, 1)
	m.progressChan = progress
	m.doneChan = done
	m.loading = true
	m.progress = tasks.ProgressUpdate{}

	go func() {
		result, err := m.refresher.Refresh(m.ctx, m.season, progress)
		close(progress)
		done <- refreshCompleteMsg(result, err)
	}()

	return tea.Batch(m.spinner.Tick, m.waitForProgress())
}

// waitForProgress relays progress updates until the channel closes, then delivers the outcome.
func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	if progress == nil {
		return nil
	}
	return func() tea.Msg {
		if update, ok := <-progress; ok {
			return progressUpdateMsg(update)
		}
		return <-done
	}
}

func (m *Model) applyRefresh(out refreshOutcome) {
	m.loading = false
	m.progressChan = nil
	m.doneChan = nil
	m.err = out.err

	if res := out.result; res != nil {
		if res.MatchesErr == nil {
			m.matches = res.Matches
		}
		if res.StandingsErr == nil {
			m.standings = res.Standings
			m.simulated = res.Simulated
		}
	}
	m.syncLists()
}

func (m *Model) progressMessage() string {
	if m.progress.Message == "" {
		return "Loading..."
	}
	return m.progress.Message
}

func (m *Model) renderTabs() string {
	rendered := make([]string, len(tabs))
	for i, t := range tabs {
		label := t.String()
		if t == FavoritesTab && m.favorites != nil {
			label = fmt.Sprintf("%s (%d)", label, m.favorites.Len())
		}
		if t == m.tab {
			rendered[i] = m.palette.activeTab.Render(label)
		} else {
			rendered[i] = m.palette.tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) renderList() string {
	var b strings.Builder
	if m.tab == StandingsTab && m.simulated {
		b.WriteString(m.palette.warn.Render(formatter.SimulatedNotice))
		b.WriteString("\n")
	}

	l := m.activeList()
	if len(l.Items()) == 0 && !m.loading {
		b.WriteString(m.palette.muted.Render(m.emptyMessage()))
	} else {
		b.WriteString(l.View())
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) emptyMessage() string {
	switch m.tab {
	case StandingsTab:
		return "No standings available"
	case FavoritesTab:
		return "No favorites yet. Press f on a fixture to add it."
	default:
		return "No upcoming matches"
	}
}

func (m *Model) renderDetails() string {
	if m.selected == nil {
		return ""
	}

	favorite := m.isFavorite(m.selected.ID)
	title := m.palette.title.Render(fmt.Sprintf("%s vs %s", m.selected.HomeTeam, m.selected.AwayTeam))
	body := m.palette.card.Render(strings.TrimRight(string(formatter.MatchDetails(*m.selected, favorite)), "\n"))

	status := m.palette.muted.Render("☆ Not a favorite")
	if favorite {
		status = m.palette.ok.Render("★ Favorite")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.favorite, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, body, status, helpView)
}
