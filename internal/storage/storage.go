package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/lotto-analyzer/internal/draw"
	"github.com/pfrederiksen/lotto-analyzer/internal/logger"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// 0 - initial schema
// 1 - unique (draw_date, numbers) so rows without a draw number dedupe on re-scrape
const currentSchemaVersion = 1

// ErrUnknownLottery is returned for lottery ids without a results table
var ErrUnknownLottery = errors.New("unknown lottery")

var tables = map[string]string{
	draw.Lotto649: "lotto649_results",
	draw.LottoMax: "lottomax_results",
}

// Store reads and writes draw history
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path, applying the schema
func Open(path string) (*Store, error) {
	path, err := expandPath(path)
	if err != nil {
		return nil, err
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps :memory: alive
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ListDraws returns every stored draw for a lottery, oldest first.
// A lottery with no stored draws yields an empty slice, not an error.
func (s *Store) ListDraws(ctx context.Context, lotteryID string) ([]draw.Draw, error) {
	table, err := tableFor(lotteryID)
	if err != nil {
		return nil, err
	}

	maxMillions := "0"
	if lotteryID == draw.LottoMax {
		maxMillions = "maxmillions_count"
	}

	query := fmt.Sprintf(`SELECT draw_date, draw_number, numbers, bonus_number, jackpot_amount, %s
		FROM %s ORDER BY draw_date, id`, maxMillions, table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	draws := make([]draw.Draw, 0)
	for rows.Next() {
		var (
			date        string
			drawNumber  sql.NullInt64
			numbers     string
			bonus       sql.NullInt64
			jackpot     sql.NullInt64
			maxmillions sql.NullInt64
		)
		if err := rows.Scan(&date, &drawNumber, &numbers, &bonus, &jackpot, &maxmillions); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		if strings.TrimSpace(numbers) == "" {
			continue
		}

		d := draw.New(lotteryID, normalizeDate(date), draw.ParseNumbers(numbers))
		d.DrawNumber = int(drawNumber.Int64)
		d.Bonus = int(bonus.Int64)
		d.Jackpot = jackpot.Int64
		d.MaxMillions = int(maxmillions.Int64)
		draws = append(draws, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", table, err)
	}

	return draws, nil
}

// SaveDraws inserts draws, ignoring ones already stored, and reports how many were new
func (s *Store) SaveDraws(ctx context.Context, lotteryID string, draws []draw.Draw) (int, error) {
	table, err := tableFor(lotteryID)
	if err != nil {
		return 0, err
	}

	columns := "draw_date, draw_number, numbers, bonus_number, jackpot_amount"
	placeholders := "?, ?, ?, ?, ?"
	if lotteryID == draw.LottoMax {
		columns += ", maxmillions_count"
		placeholders += ", ?"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT OR IGNORE INTO %s (%s) VALUES (%s)", table, columns, placeholders))
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, d := range draws {
		args := []any{
			d.Date,
			nullInt(int64(d.DrawNumber)),
			draw.FormatNumbers(d.Numbers),
			nullInt(int64(d.Bonus)),
			nullInt(d.Jackpot),
		}
		if lotteryID == draw.LottoMax {
			args = append(args, d.MaxMillions)
		}

		res, err := stmt.ExecContext(ctx, args...)
		if err != nil {
			return 0, fmt.Errorf("inserting draw %s: %w", d.Date, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("inserting draw %s: %w", d.Date, err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing draws: %w", err)
	}

	return inserted, nil
}

// CountDraws returns how many draws are stored for a lottery
func (s *Store) CountDraws(ctx context.Context, lotteryID string) (int, error) {
	table, err := tableFor(lotteryID)
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return count, nil
}

// Lotteries returns the lottery ids the store has tables for
func Lotteries() []string {
	return []string{draw.Lotto649, draw.LottoMax}
}

// tableNames returns the results table names in a fixed order
func tableNames() []string {
	out := make([]string, 0, len(tables))
	for _, id := range Lotteries() {
		out = append(out, tables[id])
	}
	return out
}

func tableFor(lotteryID string) (string, error) {
	table, ok := tables[lotteryID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownLottery, lotteryID)
	}
	return table, nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return path, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("executing %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("reading user_version: %w", err)
	}

	if version < 1 {
		if err := migrateV1(db); err != nil {
			return fmt.Errorf("migrating to v1: %w", err)
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("setting user_version: %w", err)
	}
	return nil
}

// migrateV1 drops repeated (draw_date, numbers) rows, keeping the oldest, and
// then adds the unique index. Older databases hold such rows because NULL draw
// numbers never collide under UNIQUE(draw_date, draw_number).
func migrateV1(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	for _, table := range tableNames() {
		dedupe := fmt.Sprintf(
			"DELETE FROM %s WHERE id NOT IN (SELECT MIN(id) FROM %s GROUP BY draw_date, numbers)",
			table, table)
		res, err := tx.Exec(dedupe)
		if err != nil {
			return fmt.Errorf("removing duplicates from %s: %w", table, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			logger.Info("Removed duplicate draws", logger.Fields{"table": table, "rows": n})
		}

		index := fmt.Sprintf(
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_%s_date_numbers ON %s(draw_date, numbers)",
			table, table)
		if _, err := tx.Exec(index); err != nil {
			return fmt.Errorf("indexing %s: %w", table, err)
		}
	}

	return tx.Commit()
}

// normalizeDate trims a time component some drivers attach to DATE columns
func normalizeDate(s string) string {
	if len(s) > 10 && s[4] == '-' && s[7] == '-' {
		return s[:10]
	}
	return s
}

func nullInt(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}
