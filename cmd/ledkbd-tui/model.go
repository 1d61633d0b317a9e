package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	psutil "github.com/shirou/gopsutil/v3/cpu"
	psmem "github.com/shirou/gopsutil/v3/mem"

	"ledkbd/internal/driver/keys"
	"ledkbd/internal/driver/parser"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFFF00")).
			Bold(true).Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4B5563")).Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#2563EB")).
			Foreground(lipgloss.Color("#FFFFFF"))

	copyNoticeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#10B981")).
			Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 1)
)

var gradient = [6][3]uint8{
	{0, 0, 0},
	{0, 0, 255},
	{0, 255, 255},
	{0, 255, 0},
	{255, 255, 0},
	{255, 0, 0},
}

type tickMsg time.Time

type model struct {
	events chan keyEventMsg

	grid     []keys.Key
	counts   map[keys.Key]uint64
	cursor   int
	copiedAt time.Time

	cpuPercent float64
	memPercent float64

	width, height int
	quitting      bool
}

func runProgram(events chan keyEventMsg) error {
	m := newModel(events)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(events chan keyEventMsg) model {
	grid := keys.StandardKeys()
	counts := make(map[keys.Key]uint64, len(grid))
	for _, k := range grid {
		counts[k] = 0
	}
	return model{events: events, grid: grid, counts: counts}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), tickCmd())
}

func waitForEvent(events chan keyEventMsg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "up", "left":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "right":
			if m.cursor < len(m.grid)-1 {
				m.cursor++
			}
			return m, nil
		case "c":
			hex := colorHex(m.counts[m.grid[m.cursor]], m.maxCount())
			_ = clipboard.WriteAll(hex)
			m.copiedAt = time.Now()
			return m, nil
		}
		return m, nil

	case keyEventMsg:
		if msg.Kind == parser.Pressed {
			if _, tracked := m.counts[msg.Key]; tracked {
				m.counts[msg.Key]++
			}
		}
		return m, waitForEvent(m.events)

	case tickMsg:
		if cpu, err := psutil.Percent(0, false); err == nil && len(cpu) > 0 {
			m.cpuPercent = cpu[0]
		}
		if mem, err := psmem.VirtualMemory(); err == nil && mem != nil {
			m.memPercent = mem.UsedPercent
		}
		return m, tickCmd()
	}
	return m, nil
}

func (m model) maxCount() uint64 {
	var max uint64
	for _, n := range m.counts {
		if n > max {
			max = n
		}
	}
	return max
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("ledkbd — live key heatmap") + "\n\n")

	max := m.maxCount()
	for i, k := range m.grid {
		count := m.counts[k]
		cell := fmt.Sprintf(" %-12s %6d ", keyLabel(k), count)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(colorHex(count, max)))
		if i == m.cursor {
			style = cursorStyle
		}
		b.WriteString(style.Render(cell))
		if (i+1)%4 == 0 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\n")

	if !m.copiedAt.IsZero() && time.Since(m.copiedAt) < 2*time.Second {
		b.WriteString(copyNoticeStyle.Render("copied hex color to clipboard") + "\n")
	}

	footer := fmt.Sprintf("cpu %.1f%%  mem %.1f%%  — arrows move, c copies hex, q quits", m.cpuPercent, m.memPercent)
	b.WriteString(footerStyle.Render(footer))
	return b.String()
}

func keyLabel(k keys.Key) string {
	return fmt.Sprintf("code=0x%02x", k.Code)
}

func colorHex(count, max uint64) string {
	if max == 0 {
		return rgbHex(gradient[0])
	}
	scaled := float64(count) / float64(max)
	if scaled <= 0 {
		return rgbHex(gradient[0])
	}
	if scaled >= 1 {
		return rgbHex(gradient[len(gradient)-1])
	}
	steps := float64(len(gradient) - 1)
	pos := scaled * steps
	idx := int(pos)
	frac := pos - float64(idx)

	a, b := gradient[idx], gradient[idx+1]
	return rgbHex([3]uint8{
		lerp(a[0], b[0], frac),
		lerp(a[1], b[1], frac),
		lerp(a[2], b[2], frac),
	})
}

func lerp(a, b uint8, frac float64) uint8 {
	return uint8(float64(int16(b)-int16(a))*frac) + a
}

func rgbHex(c [3]uint8) string {
	return fmt.Sprintf("#%02X%02X%02X", c[0], c[1], c[2])
}
