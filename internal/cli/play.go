package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/vytor/mathflash/internal/db"
	"github.com/vytor/mathflash/internal/logger"
	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/puzzle"
	"github.com/vytor/mathflash/internal/repository/sqlite"
	"github.com/vytor/mathflash/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Practice in the terminal",
	Long: `Play a practice session. Type the answer and press enter, "s" to skip
a puzzle or "q" to stop early. The difficulty moves up or down after every
answer based on your last three attempts.`,
	Example: `
# Ten puzzles starting at Medium
mathflash play --name ana

# A short easy warm-up that is not archived
mathflash play --name ana --difficulty easy --count 5 --no-save
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		count, _ := cmd.Flags().GetInt("count")
		noSave, _ := cmd.Flags().GetBool("no-save")
		seed, _ := cmd.Flags().GetUint64("seed")

		opts := session.Options{PlayerName: strings.TrimSpace(name), StartingDifficulty: cfg.Difficulty(), PuzzleCount: cfg.DefaultPuzzleCount}
		if difficulty != "" {
			d, err := models.ParseDifficulty(difficulty)
			if err != nil {
				return err
			}
			opts.StartingDifficulty = d
		}
		if count != 0 {
			opts.PuzzleCount = count
		}

		genOpts := []puzzle.Option{}
		if seed != 0 {
			genOpts = append(genOpts, puzzle.WithRand(rand.New(rand.NewPCG(seed, seed))))
		}

		var save saveFunc
		if !noSave {
			save = archiveSummary
		}
		_, err := runPlay(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts, puzzle.NewGenerator(genOpts...), save)
		return err
	},
}

func init() {
	playCmd.Flags().StringP("name", "n", "", "Player name")
	playCmd.Flags().StringP("difficulty", "d", "", "Starting difficulty (easy, medium, hard); defaults to DEFAULT_DIFFICULTY")
	playCmd.Flags().IntP("count", "c", 0, "Number of puzzles (5-20); defaults to DEFAULT_PUZZLE_COUNT")
	playCmd.Flags().Bool("no-save", false, "Do not archive the result")
	playCmd.Flags().Uint64("seed", 0, "Seed for reproducible puzzles")
	_ = playCmd.MarkFlagRequired("name")
}

type saveFunc func(ctx context.Context, summary models.SessionSummary) error

func archiveSummary(ctx context.Context, summary models.SessionSummary) error {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	id, err := sqlite.NewResultRepository(database.DB).Insert(ctx, models.ResultFromSummary(summary))
	if err != nil {
		return fmt.Errorf("archive result: %w", err)
	}
	logger.FromContext(ctx).Info("result archived with id %d", id)
	return nil
}

type styles struct {
	title, good, bad, notice, dim lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		title:  r.NewStyle().Bold(true),
		good:   r.NewStyle().Foreground(lipgloss.Color("42")),
		bad:    r.NewStyle().Foreground(lipgloss.Color("196")),
		notice: r.NewStyle().Foreground(lipgloss.Color("214")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// runPlay drives one session over a line-oriented terminal. save may be nil.
func runPlay(ctx context.Context, in io.Reader, out io.Writer, opts session.Options, gen *puzzle.Generator, save saveFunc) (models.SessionSummary, error) {
	sess, err := session.New(uuid.NewString(), opts, session.WithGenerator(gen))
	if err != nil {
		return models.SessionSummary{}, err
	}
	st := newStyles(out)
	lines := bufio.NewScanner(in)

	fmt.Fprintln(out, st.title.Render(fmt.Sprintf("Welcome, %s! %d puzzles, starting at %s.", opts.PlayerName, opts.PuzzleCount, opts.StartingDifficulty)))
	fmt.Fprintln(out, st.dim.Render(`Type your answer, "s" to skip, "q" to quit.`))

play:
	for !sess.Finished() {
		snap := sess.Snapshot()
		fmt.Fprintf(out, "\n%s %s\n", st.title.Render(fmt.Sprintf("Puzzle %d/%d", snap.Round, snap.PuzzleCount)), st.dim.Render(fmt.Sprintf("[%s: %s]", snap.Difficulty, snap.Description)))

		var res session.RoundResult
		for {
			fmt.Fprintf(out, "%s = ", snap.Puzzle.Question)
			if !lines.Scan() {
				sess.End()
				break play
			}
			input := strings.TrimSpace(lines.Text())
			switch strings.ToLower(input) {
			case "q", "quit":
				sess.End()
				break play
			case "s", "skip":
				res, err = sess.Skip()
			default:
				answer, convErr := strconv.Atoi(input)
				if convErr != nil {
					fmt.Fprintln(out, st.notice.Render("Please enter a whole number."))
					continue
				}
				res, err = sess.Submit(answer)
			}
			break
		}
		if err != nil {
			return models.SessionSummary{}, err
		}

		a := res.Attempt
		if a.IsCorrect {
			fmt.Fprintln(out, st.good.Render(fmt.Sprintf("Correct! (%.1fs)", a.TimeSpentSeconds)))
		} else {
			fmt.Fprintln(out, st.bad.Render(fmt.Sprintf("Not quite, %s = %d (%.1fs)", a.Question, a.CorrectAnswer, a.TimeSpentSeconds)))
		}
		if res.Adjusted {
			fmt.Fprintln(out, st.notice.Render(res.Decision.Reason))
		}
	}
	if err := lines.Err(); err != nil {
		return models.SessionSummary{}, fmt.Errorf("read input: %w", err)
	}

	summary := sess.Summary()
	printSummary(out, st, summary)

	if save != nil && summary.Stats.TotalAttempts > 0 {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := save(ctx, summary); err != nil {
			fmt.Fprintln(out, st.bad.Render("Could not save your result: "+err.Error()))
			return summary, err
		}
		fmt.Fprintln(out, st.dim.Render("Result saved."))
	}
	return summary, nil
}

func printSummary(out io.Writer, st styles, s models.SessionSummary) {
	fmt.Fprintf(out, "\n%s\n", st.title.Render("Session complete"))
	if s.Stats.TotalAttempts == 0 {
		fmt.Fprintln(out, "No puzzles answered.")
		return
	}
	fmt.Fprintf(out, "Score:         %d/%d (%.1f%%)\n", s.Stats.CorrectCount, s.Stats.TotalAttempts, s.Stats.Accuracy)
	fmt.Fprintf(out, "Average time:  %.1fs (fastest %.1fs, slowest %.1fs)\n", s.Stats.AverageTimeSeconds, s.Stats.FastestTimeSeconds, s.Stats.SlowestTimeSeconds)
	fmt.Fprintf(out, "Difficulty:    %s -> %s\n", s.StartingDifficulty, s.FinalDifficulty)

	fmt.Fprintln(out, "\nPuzzles per difficulty:")
	for _, d := range models.Difficulties {
		if n := s.DifficultyDistribution[d]; n > 0 {
			fmt.Fprintf(out, "  %-7s %d\n", d, n)
		}
	}

	fmt.Fprintln(out, "\nBy operation:")
	for _, op := range models.Operations {
		if p, ok := s.OperationPerformance[op]; ok {
			fmt.Fprintf(out, "  %-15s %d/%d (%.1f%%, avg %.1fs)\n", op.Name(), p.Correct, p.Total, p.Accuracy, p.AverageTimeSeconds)
		}
	}

	if len(s.Changes) > 0 {
		fmt.Fprintln(out, "\nDifficulty changes:")
		for _, c := range s.Changes {
			fmt.Fprintf(out, "  %s -> %s: %s\n", c.From, c.To, c.Reason)
		}
	}
	fmt.Fprintf(out, "\n%s\n", s.Explanation)
}
