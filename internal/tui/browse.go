package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/openfoods/openfoods/internal/cli"
	"github.com/openfoods/openfoods/internal/domain"
	"github.com/openfoods/openfoods/internal/usecase"
)

// Options tune the browser.
type Options struct {
	NoColor bool
}

// foodItem adapts domain.Food to bubbles/list.Item
type foodItem struct {
	food domain.Food
}

func (i foodItem) Title() string       { return i.food.Name }
func (i foodItem) Description() string { return i.food.CountryOfOrigin }
func (i foodItem) FilterValue() string { return i.food.Name + " " + i.food.CountryOfOrigin }

// foodsMsg carries the outcome of a fetch or a like toggle.
type foodsMsg struct {
	foods  []domain.Food
	err    error
	action string
}

// Single line delegate
type itemDelegate struct {
	theme cli.Theme
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(foodItem)
	if !ok {
		return
	}
	t := d.theme

	sym := t.Muted.Render(t.SymUnliked)
	if it.food.IsLiked {
		sym = t.Liked.Render(t.SymLiked)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = t.Accent.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s %s", prefix, sym, it.food.Name, t.Muted.Render("("+it.food.CountryOfOrigin+")"))
}

var (
	refreshKey = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
	toggleKey  = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "like/unlike"))
	detailKey  = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details"))
	backKey    = key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back"))
	quitKey    = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
)

type model struct {
	ctx   context.Context
	svc   *usecase.FoodListService
	theme cli.Theme
	list  list.Model

	detail *domain.Food // non-nil while the detail view is open
	busy   bool         // a request is in flight
	status string
	err    error
}

func newModel(ctx context.Context, svc *usecase.FoodListService, theme cli.Theme) model {
	l := list.New(nil, itemDelegate{theme: theme}, 0, 0)
	l.Title = "Foods"
	l.Styles.Title = theme.Title
	l.SetShowHelp(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("food", "foods")
	l.FilterInput.Prompt = "/ "
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{toggleKey, detailKey, refreshKey} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{toggleKey, detailKey, refreshKey} }

	return model{
		ctx:    ctx,
		svc:    svc,
		theme:  theme,
		list:   l,
		busy:   true,
		status: "loading...",
	}
}

// Run starts the interactive food list and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, svc *usecase.FoodListService, opt Options) error {
	m := newModel(ctx, svc, cli.NewTheme(opt.NoColor))

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}

func (m model) Init() tea.Cmd { return m.fetch() }

func (m model) fetch() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		foods, err := svc.Refresh(ctx)
		return foodsMsg{foods: foods, err: err, action: "refresh"}
	}
}

func (m model) toggle(food domain.Food) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	action := "like"
	if food.IsLiked {
		action = "unlike"
	}
	return func() tea.Msg {
		foods, err := svc.ToggleLike(ctx, food)
		return foodsMsg{foods: foods, err: err, action: action}
	}
}

func (m model) selected() (domain.Food, bool) {
	if m.detail != nil {
		return *m.detail, true
	}
	it, ok := m.list.SelectedItem().(foodItem)
	return it.food, ok
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-5)
		return m, nil

	case foodsMsg:
		m.busy = false
		if msg.err != nil {
			// keep showing the last good list
			m.err = msg.err
			m.status = msg.action + " failed"
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("%d foods, %d liked", len(msg.foods), countLiked(msg.foods))
		if m.detail != nil {
			if f, ok := domain.FindByID(msg.foods, m.detail.ID); ok {
				m.detail = &f
			} else {
				m.detail = nil
			}
		}
		items := make([]list.Item, 0, len(msg.foods))
		for _, f := range msg.foods {
			items = append(items, foodItem{food: f})
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, quitKey):
			return m, tea.Quit
		case key.Matches(msg, backKey) && m.detail != nil:
			m.detail = nil
			return m, nil
		case key.Matches(msg, refreshKey):
			if m.busy {
				return m, nil
			}
			m.busy, m.status = true, "refreshing..."
			return m, m.fetch()
		case key.Matches(msg, toggleKey):
			food, ok := m.selected()
			if !ok || m.busy {
				return m, nil
			}
			m.busy, m.status = true, "updating "+food.Name+"..."
			return m, m.toggle(food)
		case key.Matches(msg, detailKey):
			if food, ok := m.selected(); ok {
				m.detail = &food
			}
			return m, nil
		}
		if m.detail != nil {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var content string
	if m.detail != nil {
		content = m.detailView(*m.detail)
	} else {
		content = m.list.View()
	}
	return m.theme.Panel.Render(content + "\n" + m.statusLine())
}

func (m model) statusLine() string {
	if m.err != nil {
		return m.theme.Error.Render(m.theme.SymFail+" "+m.status+": ") + m.err.Error()
	}
	return m.theme.Muted.Render(m.status)
}

func (m model) detailView(f domain.Food) string {
	t := m.theme
	state := t.Muted.Render(t.SymUnliked + " not liked")
	if f.IsLiked {
		state = t.Liked.Render(t.SymLiked + " liked")
	}
	desc := lipgloss.NewStyle().Width(max(m.list.Width(), 40)).Render(f.Description)

	return strings.Join([]string{
		t.Title.Render(f.Name) + "  " + t.Muted.Render(fmt.Sprintf("#%d", f.ID)),
		state,
		"",
		desc,
		"",
		t.Accent.Render("Country") + "       " + f.CountryOfOrigin,
		t.Accent.Render("Photo") + "         " + f.PhotoURL,
		t.Accent.Render("Last updated") + "  " + cli.FormatUpdated(f.LastUpdatedDate),
		"",
		t.Muted.Render("space like/unlike • esc back • q quit"),
	}, "\n")
}

func countLiked(foods []domain.Food) int {
	n := 0
	for _, f := range foods {
		if f.IsLiked {
			n++
		}
	}
	return n
}
