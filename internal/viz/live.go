package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/chromasim/internal/frames"
	"github.com/san-kum/chromasim/internal/render"
	"github.com/san-kum/chromasim/internal/tlc"
)

const (
	width  = 60
	height = 20

	tickRate       = time.Second / 25
	DefaultGIFPath = "plate_preview.gif"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model animates the display frames of one run.
type Model struct {
	entries    []tlc.Entry
	labels     []string
	frameCount int
	frames     []frames.Frame
	plate      *Plate
	theme      Theme
	index      int
	running    bool
	loop       bool
	showHelp   bool
	recording  bool
	captured   []*image.Paletted
	gifPath    string
	message    string
}

// NewModel prepares every display frame of entries up front. labels name
// the lanes; nil uses render.DefaultTicks.
func NewModel(entries []tlc.Entry, frameCount int, labels []string) Model {
	if labels == nil {
		labels = render.DefaultTicks
	}
	m := Model{
		entries:    entries,
		labels:     labels,
		frameCount: frameCount,
		frames:     frames.Sequence(entries, frameCount, frames.Trail),
		plate:      NewPlate(width, height, len(entries), frameCount),
		theme:      CurrentTheme,
		running:    true,
		loop:       true,
		gifPath:    DefaultGIFPath,
	}
	m.draw()
	return m
}

// SetGIFPath changes where a preview recording is written.
func (m *Model) SetGIFPath(path string) { m.gifPath = path }

// Frame returns the 1-based display frame currently shown.
func (m Model) Frame() int {
	if len(m.frames) == 0 {
		return 0
	}
	return m.frames[m.index].Index
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and advances the animation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.index = 0
			m.running = true
		case "[":
			m.step(-1)
		case "]":
			m.step(1)
		case "l":
			m.loop = !m.loop
		case "t":
			m.theme = NextTheme(m.theme)
		case "g":
			if m.recording {
				m.message = m.saveGIF()
				m.recording = false
				m.captured = nil
			} else {
				m.recording = true
				m.captured = make([]*image.Paletted, 0, len(m.frames))
				m.message = ""
			}
		case "?":
			m.showHelp = !m.showHelp
		}
		m.draw()
	case TickMsg:
		if m.running {
			m.advance()
			if m.recording {
				m.captureFrame()
			}
		}
		m.draw()
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	if len(m.frames) == 0 {
		return
	}
	if m.index+1 < len(m.frames) {
		m.index++
		return
	}
	if m.loop {
		m.index = 0
		return
	}
	m.running = false
}

func (m *Model) step(dir int) {
	m.running = false
	m.index += dir
	if m.index < 0 {
		m.index = 0
	}
	if m.index >= len(m.frames) {
		m.index = len(m.frames) - 1
	}
}

func (m *Model) draw() {
	if len(m.frames) == 0 {
		m.plate.Canvas.Clear()
		return
	}
	m.plate.Draw(m.frames[m.index])
}

// View renders the TUI interface.
func (m Model) View() string {
	styles := LaneStyles(m.theme)
	canvasView := canvasStyle.Render(m.plate.Canvas.Render(styles) + m.laneRow())

	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	if m.recording {
		status += " " + StatusRecording.Render("● REC")
	}

	var s strings.Builder
	s.WriteString(HeaderStyle.Foreground(m.theme.Text).Render(strings.ToUpper(render.DefaultTitle)) + "\n")
	s.WriteString(status + "\n\n")

	total := len(m.frames)
	s.WriteString(MetricLabel.Render("Frame") + MetricValue.Render(fmt.Sprintf("%d/%d", m.Frame(), total)) + "\n")
	if total > 0 {
		s.WriteString(ProgressBar(float64(m.Frame())/float64(total), 30) + "\n")
	}
	loop := "off"
	if m.loop {
		loop = "on"
	}
	s.WriteString(MetricLabel.Render("Loop") + MetricValue.Render(loop) + "\n")
	s.WriteString(MetricLabel.Render("Theme") + MetricValue.Render(m.theme.Name) + "\n\n")

	s.WriteString("COMPOUNDS\n")
	for i, e := range m.entries {
		y := 0.0
		if pts := m.visible(i); !pts.Empty() {
			y = pts.Y[len(pts.Y)-1]
		}
		swatch := styles[i%len(styles)].Render("●")
		s.WriteString(fmt.Sprintf("%s %s %s\n", swatch, MetricLabel.Render(e.Name), MetricValue.Render(fmt.Sprintf("%6.2f", y))))
	}

	if chart := Trajectories(m.entries, m.Frame(), 36, 6, "distance"); chart != "" {
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if m.message != "" {
		s.WriteString(KeyHint.Render(m.message) + "\n")
	}
	s.WriteString(KeyHint.Render("\n─────────────────────\nSP:Pause R:Restart Q:Quit\n[ ]:Step L:Loop T:Theme\nG:Record ?:Help"))

	statsView := statsStyle.BorderForeground(m.theme.Border).Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Restart from frame 1     ║
║  [        - Step back one frame      ║
║  ]        - Step forward one frame   ║
║  L        - Toggle looping           ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m Model) visible(i int) frames.Points {
	if len(m.frames) == 0 || i >= len(m.frames[m.index].Points) {
		return frames.Points{}
	}
	return m.frames[m.index].Points[i]
}

// laneRow writes the lane labels under the canvas, each starting at its
// lane's column.
func (m Model) laneRow() string {
	row := []rune(strings.Repeat(" ", m.plate.Canvas.Width+16))
	for lane := 0; lane < len(m.entries) && lane < len(m.labels); lane++ {
		x, _ := m.plate.Project(float64(lane), 0)
		col := x / 2
		for k, r := range []rune(shorten(m.labels[lane], 8)) {
			if col+k < len(row) {
				row[col+k] = r
			}
		}
	}
	return strings.TrimRight(string(row), " ")
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// gifPalette holds the background, the guide color and one color per
// render.Palette entry, in that order.
func gifPalette() color.Palette {
	p := color.Palette{color.Black, color.White}
	for i, c := range render.Palette {
		if i == 0 {
			p = append(p, color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff})
			continue
		}
		p = append(p, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
	}
	return p
}

func (m *Model) captureFrame() {
	const charW, charH = 8, 16
	c := m.plate.Canvas
	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), gifPalette())

	dotW, dotH := charW/2, charH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			idx := uint8(1)
			if ci := c.Colors[row][col]; ci >= 0 {
				idx = uint8(2 + ci%len(render.Palette))
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if c.Grid[row][col]&pixelMap[dy][dx] == 0 {
						continue
					}
					baseX, baseY := col*charW+dx*dotW, row*charH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+px, baseY+py, idx)
						}
					}
				}
			}
		}
	}
	m.captured = append(m.captured, img)
}

// saveGIF writes the captured frames and returns a status line.
func (m *Model) saveGIF() string {
	if len(m.captured) == 0 {
		return "nothing recorded"
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.captured {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, render.DefaultDelay)
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		return ErrorStyle.Render(err.Error())
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return ErrorStyle.Render(err.Error())
	}
	return fmt.Sprintf("saved %d frames to %s", len(m.captured), m.gifPath)
}

// Run starts the live preview in the alternate screen.
func Run(entries []tlc.Entry, frameCount int, labels []string) error {
	_, err := tea.NewProgram(NewModel(entries, frameCount, labels), tea.WithAltScreen()).Run()
	return err
}
