// ABOUTME: Interactive TUI wizard for logging a meal from a free-text description.
// ABOUTME: Bubbletea model that describes, recognises, picks a match, and asks for a quantity.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/munch/internal/models"
)

// Step represents the current wizard step.
type Step int

const (
	StepDescribe Step = iota
	StepRecognising
	StepPick
	StepQuantity
	StepDone
	StepNoMatch
)

// matchesMsg carries the result of an async recognition.
type matchesMsg struct {
	matches []models.RecognisedFood
}

// RecogniseFn returns ranked catalog matches for a description.
type RecogniseFn func(description string) []models.RecognisedFood

// LogModel is the bubbletea model for the log wizard.
type LogModel struct {
	step        Step
	description textinput.Model
	quantity    textinput.Model
	spinner     spinner.Model
	recognise   RecogniseFn
	matches     []models.RecognisedFood
	cursor      int
	quantityErr string
	quitting    bool
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

// NewLogModel creates a log wizard, pre-filling the description if one is given.
func NewLogModel(description string, recognise RecogniseFn) LogModel {
	descInput := textinput.New()
	descInput.Placeholder = "what did you eat?"
	descInput.Focus()
	descInput.Width = 50
	if description != "" {
		descInput.SetValue(description)
	}

	qtyInput := textinput.New()
	qtyInput.Placeholder = "1"
	qtyInput.Width = 10

	s := spinner.New()
	s.Spinner = spinner.Dot

	return LogModel{
		step:        StepDescribe,
		description: descInput,
		quantity:    qtyInput,
		spinner:     s,
		recognise:   recognise,
	}
}

// Init implements tea.Model.
func (m LogModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m LogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			return m, tea.Quit
		}

		switch m.step {
		case StepDescribe:
			return m.updateDescribe(msg)
		case StepPick:
			return m.updatePick(msg)
		case StepQuantity:
			return m.updateQuantity(msg)
		case StepNoMatch:
			return m.updateNoMatch(msg)
		}

	case matchesMsg:
		m.matches = usableMatches(msg.matches)
		m.cursor = 0
		if len(m.matches) == 0 {
			m.step = StepNoMatch
			return m, nil
		}
		m.step = StepPick
		return m, nil

	case spinner.TickMsg:
		if m.step == StepRecognising {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m LogModel) updateDescribe(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if strings.TrimSpace(m.description.Value()) == "" {
			return m, nil
		}
		m.description.Blur()
		m.step = StepRecognising
		return m, tea.Batch(m.startRecognition(), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.description, cmd = m.description.Update(msg)
	return m, cmd
}

func (m LogModel) updatePick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		m.moveCursor(-1)
	case tea.KeyDown, tea.KeyTab:
		m.moveCursor(1)
	case tea.KeyEnter:
		m.step = StepQuantity
		m.quantity.Focus()
		return m, textinput.Blink
	case tea.KeyRunes:
		switch msg.Runes[0] {
		case 'k':
			m.moveCursor(-1)
		case 'j':
			m.moveCursor(1)
		case 'b':
			return m.backToDescribe()
		}
	}
	return m, nil
}

func (m LogModel) updateQuantity(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if _, err := m.parsedQuantity(); err != nil {
			m.quantityErr = err.Error()
			return m, nil
		}
		m.quantityErr = ""
		m.quantity.Blur()
		m.step = StepDone
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.quantity, cmd = m.quantity.Update(msg)
	return m, cmd
}

func (m LogModel) updateNoMatch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyRunes {
		switch msg.Runes[0] {
		case 'r':
			return m.backToDescribe()
		case 'q':
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m LogModel) backToDescribe() (tea.Model, tea.Cmd) {
	m.step = StepDescribe
	m.matches = nil
	m.cursor = 0
	m.description.Focus()
	return m, textinput.Blink
}

func (m *LogModel) moveCursor(delta int) {
	if len(m.matches) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.matches)) % len(m.matches)
}

func (m LogModel) startRecognition() tea.Cmd {
	description := m.description.Value()
	fn := m.recognise
	return func() tea.Msg {
		return matchesMsg{matches: fn(description)}
	}
}

// parsedQuantity reads the quantity input. Empty means one serving.
func (m LogModel) parsedQuantity() (float64, error) {
	raw := strings.TrimSpace(m.quantity.Value())
	if raw == "" {
		return 1, nil
	}
	q, err := strconv.ParseFloat(raw, 64)
	if err != nil || models.ValidateQuantity(q) != nil {
		return 0, fmt.Errorf("quantity must be a positive number, got %q", raw)
	}
	return q, nil
}

// usableMatches drops zero-confidence matches, which carry no signal.
func usableMatches(matches []models.RecognisedFood) []models.RecognisedFood {
	var out []models.RecognisedFood
	for _, m := range matches {
		if m.Confidence > 0 {
			out = append(out, m)
		}
	}
	return out
}

// View implements tea.Model.
func (m LogModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   MUNCH"))
	b.WriteString(titleStyle.Render(" - Log a meal"))
	b.WriteString("\n\n")

	switch m.step {
	case StepDescribe:
		b.WriteString(stepStyle.Render("Step 1 of 3: Describe it"))
		b.WriteString("\n")
		b.WriteString(m.description.View())
		b.WriteString("\n")

	case StepRecognising:
		b.WriteString(fmt.Sprintf("  Meal: %s\n\n", m.description.Value()))
		b.WriteString(m.spinner.View())
		b.WriteString(" Looking it up...")
		b.WriteString("\n")

	case StepPick:
		b.WriteString(fmt.Sprintf("  Meal: %s\n\n", m.description.Value()))
		b.WriteString(stepStyle.Render("Step 2 of 3: Pick a match"))
		b.WriteString("\n")
		for i, match := range m.matches {
			line := fmt.Sprintf("%s (%s) %.0f kcal  [%.2f]",
				match.Item.Name, match.Item.ServingSize, match.Item.Calories, match.Confidence)
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString(promptStyle.Render("↑/↓ to move, Enter to choose, [b]ack"))
		b.WriteString("\n")

	case StepQuantity:
		item := m.matches[m.cursor].Item
		b.WriteString(fmt.Sprintf("  Food: %s (%s)\n\n", item.Name, item.ServingSize))
		b.WriteString(stepStyle.Render("Step 3 of 3: How many servings?"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(press Enter for 1)"))
		b.WriteString("\n")
		b.WriteString(m.quantity.View())
		b.WriteString("\n")
		if m.quantityErr != "" {
			b.WriteString(errorStyle.Render(m.quantityErr))
			b.WriteString("\n")
		}

	case StepDone:
		item, qty, _ := m.Result()
		b.WriteString(successStyle.Render(fmt.Sprintf("✓ %g × %s", qty, item.Name)))
		b.WriteString("\n")

	case StepNoMatch:
		b.WriteString(errorStyle.Render(fmt.Sprintf("✗ Nothing in the catalog matches %q", m.description.Value())))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [q]uit"))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the chosen food and quantity. ok is false unless the wizard
// completed without being cancelled.
func (m LogModel) Result() (item models.FoodItem, quantity float64, ok bool) {
	if m.step != StepDone || m.quitting || len(m.matches) == 0 {
		return models.FoodItem{}, 0, false
	}
	q, err := m.parsedQuantity()
	if err != nil {
		return models.FoodItem{}, 0, false
	}
	return m.matches[m.cursor].Item, q, true
}
