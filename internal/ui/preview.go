package ui

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/crazy3lf/colorconv"

	"github.com/cybre/profile-card-fx/internal/colorspace"
	"github.com/cybre/profile-card-fx/internal/dsp"
	"github.com/cybre/profile-card-fx/internal/engine"
	"github.com/cybre/profile-card-fx/internal/utils"
	"github.com/cybre/profile-card-fx/internal/visual"
)

// Preview renders engine output in the terminal. It is a stand-in for the
// browser surface and shows the same parameters the web hub streams.
type Preview struct {
	program   *tea.Program
	mu        sync.Mutex
	lastSend  time.Time
	throttle  time.Duration
	closeOnce sync.Once
}

type frameMsg struct {
	frame      engine.Output
	receivedAt time.Time
}

type previewModel struct {
	frame       engine.Output
	lastUpdated time.Time
	ready       bool
	width       int
	height      int
	onExit      func()
	exitOnce    sync.Once
}

var (
	vizContainerStyle   = lipgloss.NewStyle().Padding(0, 2)
	vizTimestampStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	vizMetricLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	vizMetricValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	vizWaitingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	vizHintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	vizSilentStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

const (
	vizBarWidth     = 32
	swatchBlocks    = 18
	spectrumRows    = 8
	renderLatency   = 45 * time.Millisecond
	spectrumGlyph   = "█"
	spectrumEmpty   = " "
	spectrumSilence = "·"
)

// NewPreview starts the terminal program. onExit runs once when the user quits.
func NewPreview(onExit func()) *Preview {
	model := &previewModel{onExit: onExit}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithoutSignalHandler())

	p := &Preview{
		program:  program,
		throttle: renderLatency,
	}

	go program.Run()

	return p
}

// Publish forwards a frame, dropping frames that arrive faster than the
// terminal can redraw.
func (p *Preview) Publish(frame engine.Output) {
	p.mu.Lock()
	if time.Since(p.lastSend) < p.throttle {
		p.mu.Unlock()
		return
	}
	p.lastSend = time.Now()
	p.mu.Unlock()

	p.program.Send(frameMsg{
		frame:      frame,
		receivedAt: time.Now(),
	})
}

// Close stops the terminal program and restores the screen. It is safe to
// call more than once.
func (p *Preview) Close() {
	p.closeOnce.Do(func() {
		p.program.Quit()
	})
}

func (m *previewModel) Init() tea.Cmd {
	return nil
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case frameMsg:
		m.frame = msg.frame
		m.lastUpdated = msg.receivedAt
		m.ready = true
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC:
			m.invokeExit()
			return m, tea.Quit
		case msg.String() == "q", msg.String() == "esc":
			m.invokeExit()
			return m, tea.Quit
		}
	case tea.QuitMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *previewModel) View() string {
	body := ""
	if !m.ready {
		header := titleStyle.Render("Profile Card")
		waiting := vizWaitingStyle.Render("Waiting for frames…")
		body = lipgloss.JoinVertical(lipgloss.Left, header, "", waiting)
	} else {
		body = renderPreviewView(m.frame, m.lastUpdated)
	}
	return vizContainerStyle.Render(body)
}

func renderPreviewView(frame engine.Output, updatedAt time.Time) string {
	header := renderHeader(frame, updatedAt)
	metrics := renderMetrics(frame)
	swatch := renderThemeSwatch(frame)
	spectrum := strings.Join(renderSpectrum(frame.Visualizer, spectrumRows), "\n")
	bars := renderBands(frame)
	controls := vizHintStyle.Render("Press q / esc / ctrl+c to stop")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		metrics,
		"",
		swatch,
		"",
		spectrum,
		"",
		bars,
		"",
		controls,
	)
}

func renderHeader(frame engine.Output, updatedAt time.Time) string {
	title := titleStyle.
		Foreground(lipgloss.Color(frame.Glow.Color.Hex())).
		Render(frame.Title)
	timestamp := vizTimestampStyle.Render(updatedAt.Format("15:04:05.000"))

	return lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", timestamp)
}

func renderMetrics(frame engine.Output) string {
	cycle := renderMetric("Theme", fmt.Sprintf("%s → %s %3.0f%% (%s)",
		frame.Cycle.From,
		frame.Cycle.To,
		utils.Clamp(frame.Cycle.Progress, 0.0, 1.0)*100,
		frame.Cycle.Phase,
	))
	glow := renderMetric("Glow", fmt.Sprintf("%5.1fpx α%4.2f", frame.Glow.Radius, frame.Glow.Alpha))
	scale := renderMetric("Scale", fmt.Sprintf("%5.3f", frame.CardScale))
	border := renderMetric("Border", fmt.Sprintf("%4.1fpx", frame.Border.Width))
	tilt := renderMetric("Tilt", fmt.Sprintf("%+5.1f°/%+5.1f°", frame.Tilt.RotateX, frame.Tilt.RotateY))
	mist := renderMetric("Mist", fmt.Sprintf("%+5.1fpx ×%4.2f", frame.Mist.DriftX, frame.Mist.Scale))

	top := lipgloss.JoinHorizontal(lipgloss.Left, cycle, "   ", glow, "   ", scale)
	bottom := lipgloss.JoinHorizontal(lipgloss.Left, border, "   ", tilt, "   ", mist)

	return lipgloss.JoinVertical(lipgloss.Left, top, bottom)
}

func renderMetric(label, value string) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		vizMetricLabelStyle.Render(label+":"),
		" ",
		vizMetricValueStyle.Render(value),
	)
}

func renderThemeSwatch(frame engine.Output) string {
	blocks := make([]string, swatchBlocks)
	for i := 0; i < swatchBlocks; i++ {
		progress := float64(i) / float64(swatchBlocks-1)
		color := colorspace.Lerp(frame.Border.From, frame.Border.To, progress)
		blocks[i] = lipgloss.NewStyle().Background(lipgloss.Color(color.Hex())).Render("  ")
	}

	fog := lipgloss.NewStyle().Background(lipgloss.Color(frame.FogColor.Hex())).Render("    ")
	info := vizMetricValueStyle.Render(fmt.Sprintf("mist %s / %s", frame.Mist.A, frame.Mist.B))

	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		subtitleStyle.Render("Border"),
		"  ",
		strings.Join(blocks, ""),
		"  ",
		subtitleStyle.Render("Fog"),
		" ",
		fog,
		"  ",
		info,
	)
}

// renderSpectrum draws the visualizer mirrored about the center line. rows
// is rounded up to an even count; the top half is the bottom half reversed.
func renderSpectrum(v visual.Visualizer, rows int) []string {
	half := max(1, (rows+1)/2)
	if !v.Visible {
		line := vizSilentStyle.Render(strings.Repeat(spectrumSilence, len(v.Bars)))
		return []string{line}
	}

	cells := make([]string, len(v.Bars))
	levels := make([]int, len(v.Bars))
	for i, bar := range v.Bars {
		level := bar.Height / visual.BarHeightFraction * float64(half)
		levels[i] = int(math.Round(utils.Clamp(level, 0.0, float64(half))))
		cells[i] = lipgloss.NewStyle().
			Foreground(lipgloss.Color(shadeHex(v.Color, bar.Alpha))).
			Render(spectrumGlyph)
	}

	lower := make([]string, half)
	for r := 0; r < half; r++ {
		var line strings.Builder
		for i := range v.Bars {
			if levels[i] > r {
				line.WriteString(cells[i])
			} else {
				line.WriteString(spectrumEmpty)
			}
		}
		lower[r] = line.String()
	}

	out := make([]string, 0, 2*half)
	for r := half - 1; r >= 0; r-- {
		out = append(out, lower[r])
	}
	return append(out, lower...)
}

func renderBands(frame engine.Output) string {
	c := dsp.Ceilings()
	lines := []string{
		renderBar("Bass", frame.Bands.Bass/c.Bass, vizThemes["Bass"]),
		renderBar("Mid", frame.Bands.Mid/c.Mid, vizThemes["Mid"]),
		renderBar("High", frame.Bands.High/c.High, vizThemes["High"]),
		renderBar("Blend", frame.Cycle.Progress, vizThemes["Blend"]),
	}
	return strings.Join(lines, "\n")
}

func renderBar(label string, value float64, theme barTheme) string {
	theme = normalizeBarTheme(theme)

	clamped := utils.Clamp(value, 0.0, 1.0)
	filled := int(math.Round(clamped * vizBarWidth))
	if clamped > 0 && filled == 0 {
		filled = 1
	}
	if filled > vizBarWidth {
		filled = vizBarWidth
	}

	builder := strings.Builder{}
	builder.Grow(128)
	builder.WriteString(theme.LabelStyle.Render(fmt.Sprintf("%-8s", label)))
	builder.WriteString(" [")

	if filled > 0 {
		steps := filled - 1
		if steps <= 0 {
			steps = 1
		}
		for i := 0; i < filled; i++ {
			progress := float64(i) / float64(steps)
			hue := theme.HueStart + (theme.HueEnd-theme.HueStart)*progress
			value := utils.Clamp(theme.ValueBase+theme.ValueSpan*progress, 0.0, 1.0)
			color := lipgloss.Color(hexColorFromHSV(hue, theme.Saturation, value))
			builder.WriteString(lipgloss.NewStyle().
				Foreground(color).
				Render(theme.FilledChar))
		}
	}

	empty := vizBarWidth - filled
	if empty > 0 {
		emptyBlock := theme.EmptyStyle.Render(theme.EmptyChar)
		for i := 0; i < empty; i++ {
			builder.WriteString(emptyBlock)
		}
	}

	builder.WriteString("] ")
	builder.WriteString(theme.ValueStyle.Render(fmt.Sprintf("%3.0f%%", clamped*100)))

	return builder.String()
}

type barTheme struct {
	LabelStyle lipgloss.Style
	ValueStyle lipgloss.Style
	EmptyStyle lipgloss.Style

	HueStart   float64
	HueEnd     float64
	Saturation float64
	ValueBase  float64
	ValueSpan  float64

	FilledChar string
	EmptyChar  string
}

var defaultBarTheme = barTheme{
	LabelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	ValueStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	EmptyStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
	HueStart:   210,
	HueEnd:     210,
	Saturation: 0.8,
	ValueBase:  0.35,
	ValueSpan:  0.45,
	FilledChar: "█",
	EmptyChar:  "░",
}

var vizThemes = map[string]barTheme{
	"Bass": {
		LabelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		ValueStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("215")),
		EmptyStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
		HueStart:   25,
		HueEnd:     45,
		Saturation: 0.92,
		ValueBase:  0.4,
		ValueSpan:  0.5,
	},
	"Mid": {
		LabelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		ValueStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
		EmptyStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		HueStart:   55,
		HueEnd:     75,
		Saturation: 0.9,
		ValueBase:  0.35,
		ValueSpan:  0.55,
	},
	"High": {
		LabelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("123")).Bold(true),
		ValueStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		EmptyStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		HueStart:   180,
		HueEnd:     300,
		Saturation: 0.85,
		ValueBase:  0.35,
		ValueSpan:  0.5,
	},
	"Blend": {
		LabelStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("177")).Bold(true),
		ValueStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		EmptyStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		HueStart:   285,
		HueEnd:     315,
		Saturation: 0.95,
		ValueBase:  0.4,
		ValueSpan:  0.5,
	},
}

func normalizeBarTheme(theme barTheme) barTheme {
	if theme.FilledChar == "" {
		theme.FilledChar = defaultBarTheme.FilledChar
	}
	if theme.EmptyChar == "" {
		theme.EmptyChar = defaultBarTheme.EmptyChar
	}
	if theme.Saturation <= 0 {
		theme.Saturation = defaultBarTheme.Saturation
	}
	if theme.ValueSpan <= 0 {
		theme.ValueSpan = defaultBarTheme.ValueSpan
	}
	if theme.ValueBase <= 0 {
		theme.ValueBase = defaultBarTheme.ValueBase
	}
	return theme
}

func hexColorFromHSV(h, s, v float64) string {
	s = utils.Clamp(s, 0.0, 1.0)
	v = utils.Clamp(v, 0.0, 1.0)
	r, g, b, err := colorconv.HSVToRGB(h, s, v)
	if err != nil {
		return "#FFFFFF"
	}
	return colorspace.RGB{R: r, G: g, B: b}.Hex()
}

// shadeHex darkens c by alpha in HSV space, standing in for translucency on
// a terminal that cannot blend.
func shadeHex(c colorspace.RGB, alpha float64) string {
	h, s, v := colorconv.RGBToHSV(c.R, c.G, c.B)
	return hexColorFromHSV(h, s, v*utils.Clamp(alpha, 0.0, 1.0))
}

func (m *previewModel) invokeExit() {
	m.exitOnce.Do(func() {
		if m.onExit != nil {
			m.onExit()
		}
	})
}
