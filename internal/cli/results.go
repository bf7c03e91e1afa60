package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/vytor/mathflash/internal/db"
	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/repository/sqlite"
	"github.com/vytor/mathflash/internal/services"
	"gopkg.in/yaml.v3"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List archived practice results",
	Example: `
# Latest results of every player
mathflash results

# A player's best accuracy per final difficulty, as YAML
mathflash results --player ana --best --format yaml
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		player, _ := cmd.Flags().GetString("player")
		limit, _ := cmd.Flags().GetInt("limit")
		best, _ := cmd.Flags().GetBool("best")
		format, _ := cmd.Flags().GetString("format")

		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer database.Close()

		svc := services.NewResultService(sqlite.NewResultRepository(database.DB))
		return runResults(cmd.Context(), cmd.OutOrStdout(), svc, resultsQuery{Player: player, Limit: limit, Best: best, Format: format})
	},
}

func init() {
	resultsCmd.Flags().StringP("player", "p", "", "Only show this player's results")
	resultsCmd.Flags().IntP("limit", "l", 20, "Maximum number of results")
	resultsCmd.Flags().Bool("best", false, "Show best accuracy per final difficulty (requires --player)")
	resultsCmd.Flags().StringP("format", "f", "table", "Output format: table, json or yaml")
}

type resultsQuery struct {
	Player string
	Limit  int
	Best   bool
	Format string
}

// resultRow is the flat shape used for json and yaml output.
type resultRow struct {
	ID          int64   `json:"id" yaml:"id"`
	Player      string  `json:"player" yaml:"player"`
	Started     string  `json:"started" yaml:"started"`
	Final       string  `json:"final" yaml:"final"`
	Score       string  `json:"score" yaml:"score"`
	Accuracy    float64 `json:"accuracy" yaml:"accuracy"`
	AverageTime float64 `json:"average_time" yaml:"average_time"`
	CompletedAt string  `json:"completed_at" yaml:"completed_at"`
}

type bestRow struct {
	Final      string  `json:"final" yaml:"final"`
	Accuracy   float64 `json:"accuracy" yaml:"accuracy"`
	Sessions   int     `json:"sessions" yaml:"sessions"`
	LastPlayed string  `json:"last_played" yaml:"last_played"`
}

const timeLayout = "2006-01-02 15:04"

func runResults(ctx context.Context, out io.Writer, svc services.ResultService, q resultsQuery) error {
	switch q.Format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q", q.Format)
	}

	if q.Best {
		bests, err := svc.PlayerBests(ctx, q.Player)
		if err != nil {
			return err
		}
		rows := make([]bestRow, 0, len(bests))
		for _, b := range bests {
			rows = append(rows, bestRow{Final: b.FinalDifficulty.String(), Accuracy: b.Accuracy, Sessions: b.Sessions, LastPlayed: b.LastPlayedAt.Local().Format(timeLayout)})
		}
		return render(out, q.Format, rows, []string{"Final", "Best accuracy", "Sessions", "Last played"}, func(r bestRow) []string {
			return []string{r.Final, fmt.Sprintf("%.1f%%", r.Accuracy), strconv.Itoa(r.Sessions), r.LastPlayed}
		})
	}

	results, total, err := svc.ListResults(ctx, models.ResultFilter{PlayerName: q.Player, Limit: q.Limit})
	if err != nil {
		return err
	}
	rows := make([]resultRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, resultRow{
			ID:          r.ID,
			Player:      r.PlayerName,
			Started:     r.StartingDifficulty.String(),
			Final:       r.FinalDifficulty.String(),
			Score:       fmt.Sprintf("%d/%d", r.CorrectCount, r.TotalAttempts),
			Accuracy:    r.Accuracy,
			AverageTime: r.AverageTimeSeconds,
			CompletedAt: r.CompletedAt.Local().Format(timeLayout),
		})
	}
	err = render(out, q.Format, rows, []string{"ID", "Player", "Start", "Final", "Score", "Accuracy", "Avg time", "Completed"}, func(r resultRow) []string {
		return []string{strconv.FormatInt(r.ID, 10), r.Player, r.Started, r.Final, r.Score, fmt.Sprintf("%.1f%%", r.Accuracy), fmt.Sprintf("%.1fs", r.AverageTime), r.CompletedAt}
	})
	if err == nil && q.Format == "table" {
		fmt.Fprintf(out, "%d of %d results\n", len(rows), total)
	}
	return err
}

func render[T any](out io.Writer, format string, rows []T, headers []string, cells func(T) []string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "No results yet.")
		return err
	}
	r := lipgloss.NewRenderer(out)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.NewStyle().Foreground(lipgloss.Color("241"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.NewStyle().Bold(true).Padding(0, 1)
			}
			return r.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
	for _, row := range rows {
		t.Row(cells(row)...)
	}
	_, err := fmt.Fprintln(out, t.Render())
	return err
}
