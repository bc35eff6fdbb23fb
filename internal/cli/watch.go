package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/forcegraph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/sim"
)

// Watch styles
var (
	watchLabelStyle = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	watchBarStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	watchTrackStyle = lipgloss.NewStyle().Foreground(colorDim)
	watchHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	alphaBarWidth   = 30
	defaultInterval = 16 * time.Millisecond
)

// =============================================================================
// watchModel - live simulation view
// =============================================================================

// frameMsg drives one animation frame.
type frameMsg time.Time

// watchModel is the bubbletea model for `forcegraph watch`. Each frame
// message advances the simulation by one frame, like a display refresh.
type watchModel struct {
	scene    *forcegraph.ForceGraph
	interval time.Duration
	frames   int
}

func newWatchModel(scene *forcegraph.ForceGraph, interval time.Duration) watchModel {
	if interval <= 0 {
		interval = defaultInterval
	}
	return watchModel{scene: scene, interval: interval}
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	m.scene.Update()
	return m.tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if m.scene.State() == sim.Running {
			m.scene.TickFrame()
			m.frames++
		}
		return m, m.tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.scene.Reheat()
		case "c":
			m.scene.ResetCountdown()
		case "d":
			m.scene.SetDAGMode(nextMode(m.scene.DAGMode()))
			m.scene.Update()
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("forcegraph watch"))
	b.WriteString("\n\n")

	alpha := m.scene.Engine().Alpha()
	row := func(label, value string) {
		b.WriteString(watchLabelStyle.Render(label) + " " + value + "\n")
	}
	row("state", stateStyle(m.scene.State()).Render(m.scene.State().String()))
	row("alpha", alphaBar(alpha)+" "+StyleNumber.Render(fmt.Sprintf("%.4f", alpha)))
	row("frames", StyleNumber.Render(fmt.Sprint(m.frames)))
	row("dag", StyleValue.Render(m.scene.DAGMode().String()))
	row("graph", StyleDim.Render(fmt.Sprintf("%d nodes · %d links", len(m.scene.GraphData().Nodes), len(m.scene.Links()))))
	if m.scene.DAGMode().Enabled() {
		row("depth", StyleDim.Render(fmt.Sprintf("max %d · level %.1f", m.scene.Depths().Max(), m.scene.LevelDistance())))
	}

	b.WriteString("\n")
	b.WriteString(watchHelpStyle.Render("r reheat  c reset cooldown  d next dag mode  q quit"))
	return b.String()
}

func stateStyle(s sim.State) lipgloss.Style {
	switch s {
	case sim.Running:
		return StyleSuccess
	case sim.Stopped:
		return StyleWarning
	}
	return StyleDim
}

// alphaBar draws alpha in [0, 1] as a fixed-width bar.
func alphaBar(alpha float64) string {
	filled := int(alpha*alphaBarWidth + 0.5)
	filled = min(max(filled, 0), alphaBarWidth)
	return watchBarStyle.Render(strings.Repeat("█", filled)) +
		watchTrackStyle.Render(strings.Repeat("░", alphaBarWidth-filled))
}

// nextMode cycles through the DAG modes in help-text order.
func nextMode(m layout.Mode) layout.Mode {
	i := slices.Index(layout.Modes, m.String())
	next, _ := layout.ParseMode(layout.Modes[(i+1)%len(layout.Modes)])
	return next
}

// =============================================================================
// Command
// =============================================================================

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		scene    sceneFlags
		fps      int
		snapshot string
	)

	cmd := &cobra.Command{
		Use:   "watch [graph.json]",
		Short: "Run the simulation live in the terminal",
		Long: `Watch runs the simulation frame by frame and shows its energy, state
and DAG constraints. Reheat, reset the cooldown or switch DAG modes while it
runs; with --snapshot the frame on screen at exit is written to a file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, cfg, err := scene.load(args[0])
			if err != nil {
				return err
			}
			if snapshot != "" {
				if _, err := snapshotFormat(snapshot); err != nil {
					return err
				}
			}

			// The alternate screen owns the terminal while watching.
			opts := append(cfg.Options(), forcegraph.WithGraphData(data), forcegraph.WithLogger(log.New(io.Discard)))
			sceneGraph := forcegraph.New(nil, opts...)

			interval := time.Second / time.Duration(max(fps, 1))
			p := tea.NewProgram(newWatchModel(sceneGraph, interval), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return err
			}

			if snapshot != "" {
				return writeSnapshot(cmd, sceneGraph, cfg, snapshot)
			}
			return nil
		},
	}

	scene.register(cmd)
	cmd.Flags().IntVar(&fps, "fps", 60, "frames per second")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "write the final frame to this .svg, .png or .json file")
	return cmd
}

func snapshotFormat(path string) (string, error) {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	return format, pipeline.ValidateFormat(format)
}

func writeSnapshot(cmd *cobra.Command, scene *forcegraph.ForceGraph, cfg *config.Config, path string) error {
	format, _ := snapshotFormat(path)
	data, err := pipeline.Render(scene, cfg.Canvas, format)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd.Context(), path, data); err != nil {
		return err
	}
	printSuccess("Saved snapshot")
	printFile(path)
	return nil
}
