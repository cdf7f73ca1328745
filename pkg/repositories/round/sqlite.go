package round

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/driftgames/arcade/pkg/entities"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const createRoundsTableSQL = `
	CREATE TABLE IF NOT EXISTS rounds (
		id TEXT PRIMARY KEY,
		game TEXT NOT NULL,
		bet INTEGER NOT NULL,
		payout INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		detail TEXT,
		completed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_rounds_game ON rounds(game);
	CREATE INDEX IF NOT EXISTS idx_rounds_completed_at ON rounds(completed_at DESC)`

// SQLiteRepository implements Repository using SQLite
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite round repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if _, err := db.Exec(createRoundsTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating rounds table: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// SaveRound records one settled round
func (r *SQLiteRepository) SaveRound(ctx context.Context, result *entities.RoundResult) error {
	if result.ID == "" {
		result.ID = uuid.New().String()
	}
	if result.CompletedAt.IsZero() {
		result.CompletedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rounds (id, game, bet, payout, outcome, detail, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		result.Game,
		result.Bet,
		result.Payout,
		string(result.Outcome),
		result.Detail,
		result.CompletedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("error inserting round: %w", err)
	}
	return nil
}

// GetRounds retrieves the most recent rounds for a game
func (r *SQLiteRepository) GetRounds(ctx context.Context, game string, limit int) ([]*entities.RoundResult, error) {
	query := `SELECT id, game, bet, payout, outcome, detail, completed_at
		FROM rounds WHERE (? = '' OR game = ?) ORDER BY completed_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, game, game, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying rounds: %w", err)
	}
	defer rows.Close()

	var result []*entities.RoundResult
	for rows.Next() {
		var rr entities.RoundResult
		var outcome, completedAt string
		if err := rows.Scan(&rr.ID, &rr.Game, &rr.Bet, &rr.Payout, &outcome, &rr.Detail, &completedAt); err != nil {
			return nil, fmt.Errorf("error scanning round: %w", err)
		}
		rr.Outcome = entities.Outcome(outcome)
		if parsed, err := time.Parse(time.RFC3339, completedAt); err == nil {
			rr.CompletedAt = parsed
		}
		result = append(result, &rr)
	}
	return result, rows.Err()
}

// Close closes the underlying database.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
