package cli

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
)

// depthRow is one line of `forcegraph depths` output.
type depthRow struct {
	ID    string `json:"id"`
	Depth int    `json:"depth"` // -1 when the node is filtered out
}

// depthReport is the result of resolving depths for a scene.
type depthReport struct {
	Rows          []depthRow `json:"nodes"`
	MaxDepth      int        `json:"max_depth"`
	LevelDistance float64    `json:"level_distance"`
	Loops         [][]string `json:"loops,omitempty"`
	Dropped       int        `json:"dropped_links,omitempty"`
}

// depthsCommand creates the depths command.
func (c *CLI) depthsCommand() *cobra.Command {
	var (
		scene  sceneFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "depths [graph.json]",
		Short: "Print the DAG depth of every node",
		Long: `Depths resolves the topological depth used by the DAG layout modes:
roots sit at depth 0 and every other node one level below its deepest
parent. Cycles are reported and broken; nodes excluded by [dag] filter_attr
are listed with depth -1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, cfg, err := scene.load(args[0])
			if err != nil {
				return err
			}
			report := computeDepths(data, cfg)
			if report.Dropped > 0 {
				printWarning("Dropped %d links with unknown endpoints", report.Dropped)
			}
			for _, loop := range report.Loops {
				loggerFromContext(cmd.Context()).Warn("cycle in dag", "path", strings.Join(loop, " -> "))
			}
			if asJSON {
				return writeDepthsJSON(os.Stdout, report)
			}
			fmt.Println(renderDepthTable(report))
			printKeyValue("max depth", strconv.Itoa(report.MaxDepth))
			printKeyValue("level dist", strconv.FormatFloat(report.LevelDistance, 'g', 4, 64))
			return nil
		},
	}

	scene.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// computeDepths resolves links and depths the way the layout does.
func computeDepths(data *graph.Data, cfg *config.Config) depthReport {
	links, dropped := data.Resolve()
	report := depthReport{Dropped: dropped}

	depths := layout.ComputeDepths(data.Nodes, links, cfg.NodeFilter(), func(loop []string) {
		report.Loops = append(report.Loops, loop)
	})

	report.Rows = make([]depthRow, len(data.Nodes))
	for i, n := range data.Nodes {
		d, ok := depths.Depth(n.ID)
		if !ok {
			d = -1
		}
		report.Rows[i] = depthRow{ID: n.ID, Depth: d}
	}
	slices.SortStableFunc(report.Rows, func(a, b depthRow) int {
		return cmp.Or(cmp.Compare(a.Depth, b.Depth), cmp.Compare(a.ID, b.ID))
	})

	report.MaxDepth = depths.Max()
	report.LevelDistance = cfg.DAG.LevelDistance
	if report.LevelDistance == 0 {
		report.LevelDistance = layout.LevelDistance(len(data.Nodes), report.MaxDepth, cfg.DAG.Mode)
	}
	return report
}

func writeDepthsJSON(w io.Writer, report depthReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func renderDepthTable(report depthReport) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(report.Rows))
	for i, r := range report.Rows {
		depth := strconv.Itoa(r.Depth)
		if r.Depth < 0 {
			depth = "—"
		}
		rows[i] = []string{r.ID, depth, strings.Repeat("·", max(r.Depth, 0))}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Depth", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(report.Rows) {
				return lipgloss.NewStyle()
			}
			if report.Rows[row].Depth < 0 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			if col == 1 {
				return StyleNumber
			}
			return StyleValue
		})
	return t.Render()
}
