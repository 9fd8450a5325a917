// Package tui is the terminal front end: it turns key presses into engine
// commands and renders the state each command returns.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/deck"
)

// Game is the command surface the TUI drives. *blackjack.Engine satisfies it.
type Game interface {
	State() blackjack.State
	PlaceBet(ctx context.Context, amount int) (blackjack.State, error)
	Hit(ctx context.Context) (blackjack.State, error)
	Stand(ctx context.Context) (blackjack.State, error)
	NewRound() (blackjack.State, error)
}

// Model represents the Bubble Tea model for a blackjack table
type Model struct {
	ctx    context.Context
	game   Game
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	betInput    textinput.Model
	help        help.Model
	keys        keyMap

	// State
	state    blackjack.State
	gameLog  []string
	status   string
	lastBet  int
	tally    map[blackjack.Outcome]int
	quitting bool

	// Dimensions
	width       int
	height      int
	initialized bool
}

// New creates a TUI model for the game, starting from its current state
func New(ctx context.Context, game Game, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Enter your bet"
	ti.CharLimit = 9
	ti.Width = 20
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "Bet > "

	m := &Model{
		ctx:         ctx,
		game:        game,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		betInput:    ti,
		help:        help.New(),
		keys:        newKeyMap(),
		tally:       make(map[blackjack.Outcome]int),
	}
	m.apply(game.State())
	m.AddLogEntry(fmt.Sprintf("Welcome to the table. Bankroll: $%d", m.state.Bankroll))
	return m
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case key.Matches(msg, m.keys.ScrollUp):
			m.logViewport.HalfPageUp()
			return m, nil
		case key.Matches(msg, m.keys.ScrollDown):
			m.logViewport.HalfPageDown()
			return m, nil
		case key.Matches(msg, m.keys.Deal):
			m.deal()
			return m, nil
		case key.Matches(msg, m.keys.Hit):
			m.run(m.game.Hit(m.ctx))
			return m, nil
		case key.Matches(msg, m.keys.Stand):
			m.run(m.game.Stand(m.ctx))
			return m, nil
		case key.Matches(msg, m.keys.NewRound):
			m.run(m.game.NewRound())
			return m, nil
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.betInput.Focused() {
		var cmd tea.Cmd
		m.betInput, cmd = m.betInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// deal places the typed bet, or repeats the last one when the input is empty
func (m *Model) deal() {
	input := strings.TrimSpace(m.betInput.Value())
	amount := m.lastBet
	if input != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(input, "$"))
		if err != nil {
			m.status = ErrorStyle.Render(fmt.Sprintf("%q is not a number", input))
			return
		}
		amount = n
	}
	if amount == 0 {
		m.status = WarningStyle.Render("Enter a bet first")
		return
	}

	m.betInput.SetValue("")
	st, err := m.game.PlaceBet(m.ctx, amount)
	m.run(st, err)
	if !errors.Is(err, blackjack.ErrInvalidBet) {
		m.lastBet = amount
	}
}

// run applies the result of an engine command
func (m *Model) run(st blackjack.State, err error) {
	prev := m.state
	m.apply(st)
	m.status = ""

	switch {
	case errors.Is(err, blackjack.ErrInvalidBet):
		m.status = ErrorStyle.Render(fmt.Sprintf("Bets must be between $1 and $%d", st.Bankroll))
		return
	case errors.Is(err, blackjack.ErrDeckExhausted):
		m.AddLogEntry(ErrorStyle.Render("The deck ran out; the round was called off and your bet returned"))
		return
	case errors.Is(err, blackjack.ErrInvalidTransition):
		m.logger.Error("Command rejected", "error", err)
		m.status = ErrorStyle.Render(err.Error())
		return
	case err != nil && st.Phase != blackjack.Settled:
		m.status = ErrorStyle.Render(err.Error())
		return
	}

	m.describe(prev, st)

	// settled but the bankroll could not be saved
	if err != nil {
		m.status = WarningStyle.Render("Bankroll not saved: " + err.Error())
	}
}

// describe logs what changed between two states
func (m *Model) describe(prev, st blackjack.State) {
	switch {
	case prev.Phase == blackjack.Betting && st.Phase != blackjack.Betting:
		m.AddLogEntry(RoundBannerStyle.Render(fmt.Sprintf(" Round %s ", shortID(st.RoundID))))
		m.AddLogEntry(fmt.Sprintf("You bet $%d", st.Bet))
		m.AddLogEntry(fmt.Sprintf("You: %s", m.formatHand(st.Player, st.PlayerValue, st.PlayerSoft)))
		if st.Phase == blackjack.PlayerTurn {
			m.AddLogEntry(fmt.Sprintf("Dealer shows: %s %s", m.formatCard(st.Dealer[0]), HiddenCardStyle.Render("??")))
		}
	case prev.Phase == blackjack.PlayerTurn && len(st.Player) > len(prev.Player):
		c := st.Player[len(st.Player)-1]
		m.AddLogEntry(fmt.Sprintf("You draw %s: %s", m.formatCard(c), m.formatHand(st.Player, st.PlayerValue, st.PlayerSoft)))
	case prev.Phase == blackjack.PlayerTurn && st.Phase == blackjack.Settled && len(st.Player) == len(prev.Player):
		m.AddLogEntry(fmt.Sprintf("You stand on %d", st.PlayerValue))
	case st.Phase == blackjack.Betting && prev.Phase == blackjack.Settled:
		m.AddLogEntry(MutedStyle.Render("Place your bet"))
	}

	if st.Phase == blackjack.Settled && st.Outcome != nil {
		if st.Outcome.Outcome != blackjack.PlayerBust {
			m.AddLogEntry(fmt.Sprintf("Dealer: %s", m.formatHand(st.Dealer, st.DealerValue, st.DealerSoft)))
		}
		m.tally[st.Outcome.Outcome]++
		m.AddLogEntry(m.renderOutcome(st.Outcome))
		m.AddLogEntry(fmt.Sprintf("Bankroll: $%d", st.Bankroll))
	}
}

// apply stores a new state and enables the keys that make sense for it
func (m *Model) apply(st blackjack.State) {
	m.state = st

	betting := st.Phase == blackjack.Betting
	m.keys.Deal.SetEnabled(betting)
	m.keys.Hit.SetEnabled(st.Phase == blackjack.PlayerTurn)
	m.keys.Stand.SetEnabled(st.Phase == blackjack.PlayerTurn)
	m.keys.NewRound.SetEnabled(st.Phase == blackjack.Settled)

	if betting {
		m.betInput.Focus()
	} else {
		m.betInput.Blur()
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Table pane (bottom, full width)
	tableContent := m.renderTablePane()
	tableHeight := lipgloss.Height(tableContent)
	tablePane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(focusedBorder).
		Width(max(m.width-2, 1)).
		Height(max(tableHeight, 1)).
		Render(tableContent)

	// Sidebar pane (right side of the log pane)
	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-tableHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mutedBorder).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	// Log pane (top, fills what is left)
	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mutedBorder).
		Width(logWidth).
		Height(paneHeight).
		Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, tablePane)
}

// renderSidebarPane shows the bankroll and session totals
func (m *Model) renderSidebarPane() string {
	var content strings.Builder

	content.WriteString(ChipsStyle.Render(fmt.Sprintf("Bankroll: $%d", m.state.Bankroll)))
	content.WriteString("\n")
	if m.state.Phase != blackjack.Betting {
		content.WriteString(ChipsStyle.Render(fmt.Sprintf("Bet: $%d", m.state.Bet)))
		content.WriteString("\n")
		content.WriteString(MutedStyle.Render(fmt.Sprintf("Cards left: %d", m.state.CardsRemaining)))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	content.WriteString(MutedStyle.Render("This session:"))
	content.WriteString("\n")
	for o := blackjack.PlayerBlackjack; o <= blackjack.PlayerBust; o++ {
		content.WriteString(fmt.Sprintf("  %-17s %d\n", o, m.tally[o]))
	}

	return content.String()
}

// renderTablePane shows both hands and the controls for the current phase
func (m *Model) renderTablePane() string {
	var content strings.Builder
	st := m.state

	switch st.Phase {
	case blackjack.Betting:
		content.WriteString(HandLabelStyle.Render("Place your bet"))
		if m.lastBet > 0 {
			content.WriteString(MutedStyle.Render(fmt.Sprintf(" (enter repeats $%d)", m.lastBet)))
		}
		content.WriteString("\n")
		content.WriteString(m.betInput.View())
		content.WriteString("\n")
	case blackjack.PlayerTurn:
		content.WriteString(HandLabelStyle.Render("Dealer: "))
		content.WriteString(m.formatCard(st.Dealer[0]) + " " + HiddenCardStyle.Render("??"))
		content.WriteString("\n")
		content.WriteString(HandLabelStyle.Render("You:    "))
		content.WriteString(m.formatHand(st.Player, st.PlayerValue, st.PlayerSoft))
		content.WriteString("\n")
	default:
		content.WriteString(HandLabelStyle.Render("Dealer: "))
		content.WriteString(m.formatHand(st.Dealer, st.DealerValue, st.DealerSoft))
		content.WriteString("\n")
		content.WriteString(HandLabelStyle.Render("You:    "))
		content.WriteString(m.formatHand(st.Player, st.PlayerValue, st.PlayerSoft))
		content.WriteString("\n")
		if st.Outcome != nil {
			content.WriteString(m.renderOutcome(st.Outcome))
			content.WriteString("\n")
		}
	}

	if m.status != "" {
		content.WriteString(m.status)
		content.WriteString("\n")
	}

	content.WriteString(m.help.View(m.keys))
	return content.String()
}

// renderOutcome describes a settled round
func (m *Model) renderOutcome(o *blackjack.RoundOutcome) string {
	switch o.Outcome {
	case blackjack.PlayerBlackjack:
		return WinStyle.Render(fmt.Sprintf("Blackjack! You win $%d", o.Delta))
	case blackjack.PlayerWin:
		return WinStyle.Render(fmt.Sprintf("You win $%d", o.Delta))
	case blackjack.Push:
		return PushStyle.Render("Push, your bet is returned")
	case blackjack.PlayerBust:
		return LossStyle.Render(fmt.Sprintf("Bust! You lose $%d", -o.Delta))
	default:
		return LossStyle.Render(fmt.Sprintf("Dealer wins, you lose $%d", -o.Delta))
	}
}

// formatHand formats cards with colors followed by the hand value
func (m *Model) formatHand(h blackjack.Hand, value int, soft bool) string {
	if len(h) == 0 {
		return ""
	}

	var formatted []string
	for _, card := range h {
		formatted = append(formatted, m.formatCard(card))
	}

	label := strconv.Itoa(value)
	switch {
	case h.IsBlackjack():
		label = "blackjack"
	case value > blackjack.Target:
		label = fmt.Sprintf("%d, bust", value)
	case soft:
		label = "soft " + label
	}
	return "[" + strings.Join(formatted, " ") + "] " + MutedStyle.Render("("+label+")")
}

func (m *Model) formatCard(card deck.Card) string {
	if card.IsRed() {
		return RedCardStyle.Render(card.String())
	}
	return BlackCardStyle.Render(card.String())
}

// AddLogEntry adds an entry to the game log and scrolls to it
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns a copy of the game log
func (m *Model) Log() []string {
	out := make([]string, len(m.gameLog))
	copy(out, m.gameLog)
	return out
}

// State returns the last state received from the game
func (m *Model) State() blackjack.State {
	return m.state
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
