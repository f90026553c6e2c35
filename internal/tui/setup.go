// ABOUTME: Interactive TUI wizard for choosing a storage backend and optional remote backup.
// ABOUTME: Bubbletea state machine that validates remote credentials before saving them.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/moodlog/internal/config"
)

// Step represents the current wizard step.
type Step int

const (
	StepBackend Step = iota
	StepAPIURL
	StepTeamID
	StepAPIKey
	StepValidating
	StepDone
	StepFailed
)

const (
	inputURL = iota
	inputTeam
	inputKey
)

// SetupValues is what the wizard reads in and hands back.
type SetupValues struct {
	Backend string
	APIURL  string
	TeamID  string
	APIKey  string
}

// HasRemote reports whether the values describe a remote backup.
func (v SetupValues) HasRemote() bool {
	return v.APIURL != "" && v.TeamID != "" && v.APIKey != ""
}

// validationResultMsg carries the result of an async validation attempt.
type validationResultMsg struct {
	err error
}

// ValidateFn checks remote credentials.
type ValidateFn func(ctx context.Context, apiURL, apiKey, teamID string) error

// cancelHolder shares the validation cancel func across copies of the value-receiver model.
type cancelHolder struct {
	cancel context.CancelFunc
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	backend       int
	inputs        [3]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	cancelCtx     *cancelHolder
	validationErr error
	quitting      bool
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

// NewSetupModel creates the wizard, pre-filled from existing settings.
func NewSetupModel(current SetupValues) SetupModel {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://backup.example.com (leave empty for local only)"
	urlInput.Width = 50
	urlInput.SetValue(current.APIURL)

	teamInput := textinput.New()
	teamInput.Placeholder = "your-team-id"
	teamInput.Width = 50
	teamInput.SetValue(current.TeamID)

	keyInput := textinput.New()
	keyInput.Placeholder = "your-api-key"
	keyInput.EchoMode = textinput.EchoPassword
	keyInput.Width = 50
	keyInput.SetValue(current.APIKey)

	s := spinner.New()
	s.Spinner = spinner.Dot

	backend := 0
	for i, b := range config.Backends {
		if strings.EqualFold(b, current.Backend) {
			backend = i
		}
	}

	return SetupModel{
		step:       StepBackend,
		backend:    backend,
		inputs:     [3]textinput.Model{urlInput, teamInput, keyInput},
		spinner:    s,
		validateFn: ValidateConnection,
		cancelCtx:  &cancelHolder{},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			if m.cancelCtx.cancel != nil {
				m.cancelCtx.cancel()
			}
			return m, tea.Quit
		}

		switch m.step {
		case StepBackend:
			return m.updateBackend(msg)
		case StepAPIURL, StepTeamID, StepAPIKey:
			return m.updateInput(msg)
		case StepFailed:
			return m.updateFailed(msg)
		}

	case validationResultMsg:
		m.cancelCtx.cancel = nil
		if msg.err == nil {
			m.step = StepDone
			return m, tea.Quit
		}
		m.validationErr = msg.err
		m.step = StepFailed
		return m, nil

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateBackend(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "left", "h":
		m.backend = (m.backend + len(config.Backends) - 1) % len(config.Backends)
	case "down", "j", "right", "l", "tab":
		m.backend = (m.backend + 1) % len(config.Backends)
	case "enter":
		m.step = StepAPIURL
		m.inputs[inputURL].Focus()
		return m, textinput.Blink
	}
	return m, nil
}

// inputFor maps an input step to its text field.
func inputFor(step Step) int {
	return int(step - StepAPIURL)
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	idx := inputFor(m.step)

	if msg.Type == tea.KeyEnter {
		switch m.step {
		case StepAPIURL:
			val := normalizeAPIURL(m.inputs[inputURL].Value())
			m.inputs[inputURL].SetValue(val)
			if val == "" {
				// Local only: drop any stale credentials.
				m.inputs[inputTeam].SetValue("")
				m.inputs[inputKey].SetValue("")
				m.inputs[inputURL].Blur()
				m.step = StepDone
				return m, tea.Quit
			}
		case StepTeamID, StepAPIKey:
			if strings.TrimSpace(m.inputs[idx].Value()) == "" {
				return m, nil
			}
		}

		m.inputs[idx].Blur()

		switch m.step {
		case StepAPIURL:
			m.step = StepTeamID
			m.inputs[inputTeam].Focus()
			return m, textinput.Blink
		case StepTeamID:
			m.step = StepAPIKey
			m.inputs[inputKey].Focus()
			return m, textinput.Blink
		case StepAPIKey:
			m.step = StepValidating
			return m, tea.Batch(m.startValidation(), m.spinner.Tick)
		}
	}

	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		return m, nil
	}
	switch msg.Runes[0] {
	case 'r':
		m.step = StepValidating
		m.validationErr = nil
		return m, tea.Batch(m.startValidation(), m.spinner.Tick)
	case 'e':
		m.validationErr = nil
		m.step = StepAPIURL
		m.inputs[inputURL].Focus()
		return m, textinput.Blink
	case 's':
		m.step = StepDone
		return m, tea.Quit
	case 'q':
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SetupModel) startValidation() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCtx.cancel = cancel
	values := m.Result()
	fn := m.validateFn
	return func() tea.Msg {
		return validationResultMsg{err: fn(ctx, values.APIURL, values.APIKey, values.TeamID)}
	}
}

func normalizeAPIURL(raw string) string {
	val := strings.TrimSpace(raw)
	val = strings.TrimRight(val, "/")
	return strings.TrimSuffix(val, "/v1")
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   MOODLOG"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")

	switch m.step {
	case StepBackend:
		b.WriteString(stepStyle.Render("Step 1 of 4: Storage backend"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(↑/↓ to choose, Enter to confirm)"))
		b.WriteString("\n")
		for i, backend := range config.Backends {
			if i == m.backend {
				b.WriteString(selectedStyle.Render("> " + backend))
			} else {
				b.WriteString("  " + backend)
			}
			b.WriteString("\n")
		}

	case StepAPIURL:
		fmt.Fprintf(&b, "  Backend: %s\n\n", m.Backend())
		b.WriteString(stepStyle.Render("Step 2 of 4: Remote backup URL"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(leave empty to keep moods on this machine only)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[inputURL].View())
		b.WriteString("\n")

	case StepTeamID:
		fmt.Fprintf(&b, "  Backend: %s\n", m.Backend())
		fmt.Fprintf(&b, "  API URL: %s\n\n", m.inputs[inputURL].Value())
		b.WriteString(stepStyle.Render("Step 3 of 4: Team ID"))
		b.WriteString("\n")
		b.WriteString(m.inputs[inputTeam].View())
		b.WriteString("\n")

	case StepAPIKey:
		fmt.Fprintf(&b, "  Backend: %s\n", m.Backend())
		fmt.Fprintf(&b, "  API URL: %s\n", m.inputs[inputURL].Value())
		fmt.Fprintf(&b, "  Team ID: %s\n\n", m.inputs[inputTeam].Value())
		b.WriteString(stepStyle.Render("Step 4 of 4: API Key"))
		b.WriteString("\n")
		b.WriteString(m.inputs[inputKey].View())
		b.WriteString("\n")

	case StepValidating:
		fmt.Fprintf(&b, "  API URL: %s\n", m.inputs[inputURL].Value())
		fmt.Fprintf(&b, "  Team ID: %s\n", m.inputs[inputTeam].Value())
		fmt.Fprintf(&b, "  API Key: %s\n\n", strings.Repeat("*", len(m.inputs[inputKey].Value())))
		b.WriteString(m.spinner.View())
		b.WriteString(" Checking remote backup...")
		b.WriteString("\n")

	case StepDone:
		if m.Result().HasRemote() {
			b.WriteString(successStyle.Render("✓ Saved, with remote backup"))
		} else {
			b.WriteString(successStyle.Render("✓ Saved, local only"))
		}
		b.WriteString("\n")

	case StepFailed:
		errMsg := "unknown error"
		if m.validationErr != nil {
			errMsg = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render("✗ Remote check failed: " + errMsg))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render("[r]etry  [e]dit  [s]ave anyway  [q]uit"))
		b.WriteString("\n")
	}

	return b.String()
}

// Backend returns the highlighted storage backend.
func (m SetupModel) Backend() string {
	return config.Backends[m.backend]
}

// Result returns the entered values.
func (m SetupModel) Result() SetupValues {
	return SetupValues{
		Backend: m.Backend(),
		APIURL:  m.inputs[inputURL].Value(),
		TeamID:  strings.TrimSpace(m.inputs[inputTeam].Value()),
		APIKey:  strings.TrimSpace(m.inputs[inputKey].Value()),
	}
}

// ShouldSave reports whether the wizard finished without being cancelled.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
