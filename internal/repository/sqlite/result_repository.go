package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
	"github.com/vytor/mathflash/internal/logger"
	"github.com/vytor/mathflash/internal/models"
	"github.com/vytor/mathflash/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var resultColumns = []string{
	"id", "session_id", "player_name", "starting_difficulty", "final_difficulty",
	"puzzle_count", "total_attempts", "correct_count", "accuracy",
	"average_time_seconds", "total_time_seconds", "started_at", "completed_at",
}

type resultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new ResultRepository implementation
func NewResultRepository(db *sql.DB) repository.ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Insert(ctx context.Context, res models.PracticeResult) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("inserting result: session=%s, player=%s", res.SessionID, res.PlayerName)

	var id int64
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		query, args, err := sqlBuilder.Insert("practice_results").
			Columns(resultColumns[1:]...).
			Values(
				res.SessionID, res.PlayerName, res.StartingDifficulty.String(), res.FinalDifficulty.String(),
				res.PuzzleCount, res.TotalAttempts, res.CorrectCount, res.Accuracy,
				res.AverageTimeSeconds, res.TotalTimeSeconds, res.StartedAt.UTC(), res.CompletedAt.UTC(),
			).ToSql()
		if err != nil {
			return err
		}
		out, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			var sqliteErr sqlite3.Error
			if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
				return fmt.Errorf("%w: %s", repository.ErrDuplicateSession, res.SessionID)
			}
			return err
		}
		if id, err = out.LastInsertId(); err != nil {
			return err
		}

		if len(res.Operations) > 0 {
			ops := sqlBuilder.Insert("result_operations").
				Columns("result_id", "operation", "total", "correct", "accuracy", "average_time_seconds")
			for _, op := range sortedOperations(res.Operations) {
				st := res.Operations[op]
				ops = ops.Values(id, op.Name(), st.Total, st.Correct, st.Accuracy, st.AverageTimeSeconds)
			}
			if _, err := ops.RunWith(tx).ExecContext(ctx); err != nil {
				return fmt.Errorf("insert operations: %w", err)
			}
		}

		if len(res.Changes) > 0 {
			changes := sqlBuilder.Insert("result_difficulty_changes").
				Columns("result_id", "seq", "from_difficulty", "to_difficulty", "reason", "correct_count", "total_attempts", "average_time_seconds")
			for i, c := range res.Changes {
				changes = changes.Values(id, i, c.From.String(), c.To.String(), c.Reason, c.CorrectCount, c.TotalAttempts, c.AverageTimeSeconds)
			}
			if _, err := changes.RunWith(tx).ExecContext(ctx); err != nil {
				return fmt.Errorf("insert difficulty changes: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSession) {
			log.Warn("result already archived: session=%s", res.SessionID)
		} else {
			log.Error("failed to insert result: %v", err)
		}
		return 0, err
	}
	log.Debug("result inserted: id=%d", id)
	return id, nil
}

func (r *resultRepository) Get(ctx context.Context, id int64) (*models.PracticeResult, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("getting result: id=%d", id)

	query, args, err := sqlBuilder.Select(resultColumns...).From("practice_results").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	res, err := scanResult(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("result not found: id=%d", id)
		} else {
			log.Error("failed to get result: %v", err)
		}
		return nil, err
	}

	if res.Operations, err = r.operations(ctx, id); err != nil {
		log.Error("failed to load operations: %v", err)
		return nil, err
	}
	if res.Changes, err = r.changes(ctx, id); err != nil {
		log.Error("failed to load difficulty changes: %v", err)
		return nil, err
	}
	return res, nil
}

func (r *resultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.PracticeResult, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("listing results: player=%s, limit=%d, offset=%d", filter.PlayerName, filter.Limit, filter.Offset)

	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := max(filter.Offset, 0)

	query, args, err := applyFilter(sqlBuilder.Select(resultColumns...).From("practice_results"), filter).
		OrderBy("completed_at "+orderDir, "id "+orderDir).
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list results: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.PracticeResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			log.Error("failed to scan result: %v", err)
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	log.Debug("listed %d results", len(out))
	return out, nil
}

func (r *resultRepository) Count(ctx context.Context, filter models.ResultFilter) (int, error) {
	query, args, err := applyFilter(sqlBuilder.Select("COUNT(*)").From("practice_results"), filter).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		logger.FromContext(ctx).WithPrefix("result_repo").Error("failed to count results: %v", err)
		return 0, err
	}
	return n, nil
}

func (r *resultRepository) BestByDifficulty(ctx context.Context, playerName string) ([]models.BestResult, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("getting best results: player=%s", playerName)

	query, args, err := sqlBuilder.
		Select("final_difficulty", "MAX(accuracy)", "COUNT(*)", "MAX(completed_at)").
		From("practice_results").
		Where(squirrel.Eq{"player_name": playerName}).
		GroupBy("final_difficulty").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query best results: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.BestResult
	for rows.Next() {
		var (
			b          models.BestResult
			difficulty string
			lastPlayed string
		)
		if err := rows.Scan(&difficulty, &b.Accuracy, &b.Sessions, &lastPlayed); err != nil {
			return nil, err
		}
		if b.FinalDifficulty, err = models.ParseDifficulty(difficulty); err != nil {
			return nil, err
		}
		if b.LastPlayedAt, err = parseTimestamp(lastPlayed); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	slices.SortFunc(out, func(a, b models.BestResult) int { return int(a.FinalDifficulty) - int(b.FinalDifficulty) })
	return out, nil
}

func (r *resultRepository) operations(ctx context.Context, resultID int64) (map[models.Operation]models.OperationStat, error) {
	query, args, err := sqlBuilder.
		Select("operation", "total", "correct", "accuracy", "average_time_seconds").
		From("result_operations").
		Where(squirrel.Eq{"result_id": resultID}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[models.Operation]models.OperationStat)
	for rows.Next() {
		var (
			name string
			st   models.OperationStat
		)
		if err := rows.Scan(&name, &st.Total, &st.Correct, &st.Accuracy, &st.AverageTimeSeconds); err != nil {
			return nil, err
		}
		op, err := models.ParseOperation(name)
		if err != nil {
			return nil, err
		}
		out[op] = st
	}
	return out, rows.Err()
}

func (r *resultRepository) changes(ctx context.Context, resultID int64) ([]models.DifficultyChangeEvent, error) {
	query, args, err := sqlBuilder.
		Select("from_difficulty", "to_difficulty", "reason", "correct_count", "total_attempts", "average_time_seconds").
		From("result_difficulty_changes").
		Where(squirrel.Eq{"result_id": resultID}).
		OrderBy("seq").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DifficultyChangeEvent
	for rows.Next() {
		var (
			from, to string
			c        models.DifficultyChangeEvent
		)
		if err := rows.Scan(&from, &to, &c.Reason, &c.CorrectCount, &c.TotalAttempts, &c.AverageTimeSeconds); err != nil {
			return nil, err
		}
		if c.From, err = models.ParseDifficulty(from); err != nil {
			return nil, err
		}
		if c.To, err = models.ParseDifficulty(to); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func applyFilter(q squirrel.SelectBuilder, filter models.ResultFilter) squirrel.SelectBuilder {
	if filter.PlayerName != "" {
		q = q.Where(squirrel.Eq{"player_name": filter.PlayerName})
	}
	if filter.FinalDifficulty != nil {
		q = q.Where(squirrel.Eq{"final_difficulty": filter.FinalDifficulty.String()})
	}
	return q
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*models.PracticeResult, error) {
	var (
		res            models.PracticeResult
		starting, last string
	)
	err := row.Scan(
		&res.ID, &res.SessionID, &res.PlayerName, &starting, &last,
		&res.PuzzleCount, &res.TotalAttempts, &res.CorrectCount, &res.Accuracy,
		&res.AverageTimeSeconds, &res.TotalTimeSeconds, &res.StartedAt, &res.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	if res.StartingDifficulty, err = models.ParseDifficulty(starting); err != nil {
		return nil, err
	}
	if res.FinalDifficulty, err = models.ParseDifficulty(last); err != nil {
		return nil, err
	}
	return &res, nil
}

// parseTimestamp reads a DATETIME produced by an aggregate, which the driver
// returns as text rather than time.Time.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSuffix(s, "Z")
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

func sortedOperations(ops map[models.Operation]models.OperationStat) []models.Operation {
	out := make([]models.Operation, 0, len(ops))
	for _, op := range models.Operations {
		if _, ok := ops[op]; ok {
			out = append(out, op)
		}
	}
	return out
}
