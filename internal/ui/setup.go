package ui

import (
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rotisserie/eris"
	"golang.org/x/term"

	"github.com/cybre/profile-card-fx/internal/utils"
)

var (
	ErrSelectionAborted = eris.New("selection aborted")
	ErrNoInteractiveTTY = eris.New("no interactive terminal available")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213")).
			Bold(true)
	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246"))
	pointerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213"))
	inactivePointerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("219")).
				Bold(true)
	instructionKeyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("213")).
				Bold(true)
	instructionTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))
	instructionDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))
	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("246"))
	summaryValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Bold(true)
	emptyStateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Option struct {
	Label string
}

type SetupConfig struct {
	RequireDevice bool
	RequirePolicy bool
	InitialDevice int
	InitialPolicy int
}

type SetupResult struct {
	DeviceIndex int
	PolicyIndex int
}

// RunSetup lets the user pick an audio input and a theme transition policy.
// It returns ErrNoInteractiveTTY when stdin/stdout are not terminals.
func RunSetup(devices []Option, policies []Option, cfg SetupConfig) (SetupResult, error) {
	if !cfg.RequireDevice && !cfg.RequirePolicy {
		return SetupResult{
			DeviceIndex: utils.ClampIndex(cfg.InitialDevice, len(devices)),
			PolicyIndex: utils.ClampIndex(cfg.InitialPolicy, len(policies)),
		}, nil
	}

	if !isInteractiveTerminal() {
		return SetupResult{}, ErrNoInteractiveTTY
	}

	program := tea.NewProgram(newSetupModel(devices, policies, cfg))
	finalModel, err := program.Run()
	if err != nil {
		return SetupResult{}, eris.Wrap(err, "run setup")
	}

	result := finalModel.(setupModel)
	if result.err != nil {
		return SetupResult{}, result.err
	}

	return SetupResult{
		DeviceIndex: utils.ClampIndex(result.deviceIndex, len(devices)),
		PolicyIndex: utils.ClampIndex(result.policyIndex, len(policies)),
	}, nil
}

type setupStep int

const (
	stepSelectDevice setupStep = iota
	stepSelectPolicy
	stepConfirm
	stepDone
)

type setupModel struct {
	step     setupStep
	cfg      SetupConfig
	devices  []Option
	policies []Option

	cursor      int
	deviceIndex int
	policyIndex int
	err         error
}

func newSetupModel(devices []Option, policies []Option, cfg SetupConfig) setupModel {
	m := setupModel{
		devices:     devices,
		policies:    policies,
		cfg:         cfg,
		deviceIndex: utils.ClampIndex(cfg.InitialDevice, len(devices)),
		policyIndex: utils.ClampIndex(cfg.InitialPolicy, len(policies)),
	}

	switch {
	case cfg.RequireDevice && len(devices) > 0:
		m.step = stepSelectDevice
		m.cursor = m.deviceIndex
	case cfg.RequirePolicy && len(policies) > 0:
		m.step = stepSelectPolicy
		m.cursor = m.policyIndex
	default:
		m.step = stepConfirm
	}

	return m
}

func (m setupModel) Init() tea.Cmd {
	return nil
}

func (m setupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.step == stepDone {
		return m, tea.Quit
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.err = ErrSelectionAborted
		return m, tea.Quit
	case "up", "k":
		if items := m.currentItems(); len(items) > 0 {
			m.cursor = utils.WrapIndex(m.cursor-1, len(items))
		}
	case "down", "j":
		if items := m.currentItems(); len(items) > 0 {
			m.cursor = utils.WrapIndex(m.cursor+1, len(items))
		}
	case "tab", "right", "l", "enter":
		switch m.step {
		case stepSelectDevice:
			m.deviceIndex = m.cursor
			m.forwardFromDevice()
		case stepSelectPolicy:
			m.policyIndex = m.cursor
			m.step = stepConfirm
			m.cursor = 0
		case stepConfirm:
			if key.String() == "enter" {
				m.step = stepDone
				return m, tea.Quit
			}
		}
	case "shift+tab", "left", "h", "backspace", "b":
		m.back()
	}

	return m, nil
}

func (m *setupModel) forwardFromDevice() {
	if m.cfg.RequirePolicy && len(m.policies) > 0 {
		m.step = stepSelectPolicy
		m.cursor = utils.ClampIndex(m.policyIndex, len(m.policies))
		return
	}
	m.step = stepConfirm
	m.cursor = 0
}

func (m *setupModel) back() {
	switch m.step {
	case stepSelectPolicy:
		if m.cfg.RequireDevice && len(m.devices) > 0 {
			m.policyIndex = m.cursor
			m.step = stepSelectDevice
			m.cursor = utils.ClampIndex(m.deviceIndex, len(m.devices))
		}
	case stepConfirm:
		if m.cfg.RequirePolicy && len(m.policies) > 0 {
			m.step = stepSelectPolicy
			m.cursor = utils.ClampIndex(m.policyIndex, len(m.policies))
		} else if m.cfg.RequireDevice && len(m.devices) > 0 {
			m.step = stepSelectDevice
			m.cursor = utils.ClampIndex(m.deviceIndex, len(m.devices))
		}
	}
}

func (m setupModel) View() string {
	switch m.step {
	case stepSelectDevice:
		return renderSelectView(m, "Select an audio input device", m.devices, m.cfg.RequirePolicy, false)
	case stepSelectPolicy:
		return renderSelectView(m, "Select how themes change", m.policies, true, m.cfg.RequireDevice)
	case stepConfirm:
		return renderSummaryView(m)
	default:
		return ""
	}
}

func (m setupModel) currentItems() []Option {
	switch m.step {
	case stepSelectDevice:
		return m.devices
	case stepSelectPolicy:
		return m.policies
	default:
		return nil
	}
}

func renderSelectView(m setupModel, title string, items []Option, hasNext, hasBack bool) string {
	instructions := []string{"↑/k ↓/j move", "enter confirm"}
	if hasBack {
		instructions = append(instructions, "shift+tab/left back")
	}
	if hasNext {
		instructions = append(instructions, "tab/right continue")
	}
	instructions = append(instructions, "esc cancel")

	lines := []string{"", titleStyle.Render(title)}
	if m.step == stepSelectPolicy && m.cfg.RequireDevice {
		lines = append(lines, "", renderSummaryRow("Device", m.selectedLabel(m.devices, m.deviceIndex)))
	}
	lines = append(lines,
		"",
		renderOptionList(items, m.cursor),
		"",
		renderInstructions(instructions),
		"",
	)
	return strings.Join(lines, "\n")
}

func renderSummaryView(m setupModel) string {
	instructions := []string{"enter start", "←/h/b/backspace edit", "esc cancel"}

	lines := []string{
		"",
		titleStyle.Render("Ready to start"),
		"",
		renderSummaryRow("Device", m.selectedLabel(m.devices, m.deviceIndex)),
		renderSummaryRow("Themes", m.selectedLabel(m.policies, m.policyIndex)),
		"",
		renderInstructions(instructions),
		"",
	}
	return strings.Join(lines, "\n")
}

func (m setupModel) selectedLabel(items []Option, idx int) string {
	if idx >= 0 && idx < len(items) {
		return items[idx].Label
	}
	return "not selected"
}

func renderPointer(active bool) string {
	if active {
		return pointerStyle.Render("›")
	}
	return inactivePointerStyle.Render(" ")
}

func renderOptionLabel(text string, active bool) string {
	if active {
		return selectedItemStyle.Render(text)
	}
	return itemStyle.Render(text)
}

func renderOptionList(items []Option, cursor int) string {
	if len(items) == 0 {
		return emptyStateStyle.Render("No options detected")
	}

	rows := make([]string, len(items))
	for i, item := range items {
		rows[i] = lipgloss.JoinHorizontal(lipgloss.Left,
			renderPointer(cursor == i),
			" ",
			renderOptionLabel(item.Label, cursor == i),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderInstructions(parts []string) string {
	if len(parts) == 0 {
		return ""
	}

	if len(parts) == 1 {
		return renderInstruction(parts[0])
	}

	var segments []string
	for i, part := range parts {
		if i > 0 {
			segments = append(segments, instructionDividerStyle.Render(" · "))
		}
		segments = append(segments, renderInstruction(part))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, segments...)
}

func renderInstruction(part string) string {
	tokens := strings.Fields(part)
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) == 1 {
		return instructionTextStyle.Render(tokens[0])
	}

	var segments []string
	keyTokens := tokens[:len(tokens)-1]
	for i, token := range keyTokens {
		if i > 0 {
			segments = append(segments, instructionTextStyle.Render(" "))
		}
		segments = append(segments, instructionKeyStyle.Render(token))
	}
	segments = append(segments, instructionTextStyle.Render(" "))
	segments = append(segments, instructionTextStyle.Render(tokens[len(tokens)-1]))
	return lipgloss.JoinHorizontal(lipgloss.Left, segments...)
}

func renderSummaryRow(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Left,
		summaryLabelStyle.Render(label+": "),
		summaryValueStyle.Render(value),
	)
}

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
