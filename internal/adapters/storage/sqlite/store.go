// Package sqlite provides the SQLite-backed quote record store. One
// database file holds every user's quotes and favorite markers; rows
// are keyed by (user_id, quote_id) so users never see each other's
// records.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/quotify-desktop/quotify/internal/domain"
	"github.com/quotify-desktop/quotify/internal/ports"
)

// Store persists quotes and favorite markers in SQLite.
type Store struct {
	db *sql.DB
}

var _ ports.RecordStore = (*Store)(nil)

// Open opens the store at path and applies embedded migrations. The
// file and its parent directory must be writable; WAL mode keeps
// concurrent readers from blocking writes.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, domain.NewStorageError("open", errors.New("storage path is required"))
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, domain.NewStorageError("open", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, domain.NewStorageError("open", err)
	}

	if err := applyMigrations(db); err != nil {
		_ = db.Close()
		return nil, domain.NewStorageError("migrate", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "sqlite" }

// Check implements ports.HealthChecker by pinging the database.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Put(ctx context.Context, userID string, quote *domain.Quote) error {
	tags, err := json.Marshal(quoteTags(quote))
	if err != nil {
		return domain.NewStorageError("put quote", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO quotes (user_id, id, text, author, tags) VALUES (?, ?, ?, ?, ?)`,
		userID, quote.ID, quote.Text, quote.Author, string(tags),
	)
	if err != nil {
		return domain.NewStorageError("put quote", err)
	}

	return nil
}

func (s *Store) PutMany(ctx context.Context, userID string, quotes []domain.Quote) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewStorageError("put quotes", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO quotes (user_id, id, text, author, tags) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return domain.NewStorageError("put quotes", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, q := range quotes {
		tags, err := json.Marshal(quoteTags(&q))
		if err != nil {
			return domain.NewStorageError("put quotes", err)
		}

		if _, err := stmt.ExecContext(ctx, userID, q.ID, q.Text, q.Author, string(tags)); err != nil {
			return domain.NewStorageError("put quotes", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStorageError("put quotes", err)
	}

	return nil
}

func (s *Store) GetByID(ctx context.Context, userID string, id int64) (*domain.Quote, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, text, author, tags FROM quotes WHERE user_id = ? AND id = ?`,
		userID, id,
	)

	quote, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("quote", strconv.FormatInt(id, 10))
		}

		return nil, domain.NewStorageError("get quote", err)
	}

	return quote, nil
}

func (s *Store) GetAll(ctx context.Context, userID string) ([]domain.Quote, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, author, tags FROM quotes WHERE user_id = ? ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, domain.NewStorageError("list quotes", err)
	}
	defer func() { _ = rows.Close() }()

	quotes := make([]domain.Quote, 0)

	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, domain.NewStorageError("list quotes", err)
		}

		quotes = append(quotes, *q)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list quotes", err)
	}

	return quotes, nil
}

func (s *Store) Count(ctx context.Context, userID string) (int, error) {
	var count int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM quotes WHERE user_id = ?`, userID,
	).Scan(&count)
	if err != nil {
		return 0, domain.NewStorageError("count quotes", err)
	}

	return count, nil
}

func (s *Store) GetRandom(ctx context.Context, userID string) (*domain.Quote, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, text, author, tags FROM quotes WHERE user_id = ? ORDER BY RANDOM() LIMIT 1`,
		userID,
	)

	quote, err := scanQuote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("quote", "")
		}

		return nil, domain.NewStorageError("pick random quote", err)
	}

	return quote, nil
}

func (s *Store) AddFavorite(ctx context.Context, userID string, quoteID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO favorites (user_id, quote_id, added_at) VALUES (?, ?, unixepoch('subsec') * 1000)`,
		userID, quoteID,
	)
	if err != nil {
		return domain.NewStorageError("add favorite", err)
	}

	return nil
}

func (s *Store) RemoveFavorite(ctx context.Context, userID string, quoteID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND quote_id = ?`,
		userID, quoteID,
	)
	if err != nil {
		return domain.NewStorageError("remove favorite", err)
	}

	return nil
}

func (s *Store) FavoriteIDs(ctx context.Context, userID string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT quote_id FROM favorites WHERE user_id = ? ORDER BY rowid`,
		userID,
	)
	if err != nil {
		return nil, domain.NewStorageError("list favorites", err)
	}
	defer func() { _ = rows.Close() }()

	ids := make([]int64, 0)

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, domain.NewStorageError("list favorites", err)
		}

		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list favorites", err)
	}

	return ids, nil
}

func (s *Store) IsFavorite(ctx context.Context, userID string, quoteID int64) (bool, error) {
	var found int

	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM favorites WHERE user_id = ? AND quote_id = ?`,
		userID, quoteID,
	).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, domain.NewStorageError("check favorite", err)
	}

	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row rowScanner) (*domain.Quote, error) {
	var (
		q       domain.Quote
		rawTags string
	)

	if err := row.Scan(&q.ID, &q.Text, &q.Author, &rawTags); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(rawTags), &q.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}

	if len(q.Tags) == 0 {
		q.Tags = nil
	}

	return &q, nil
}

func quoteTags(q *domain.Quote) []string {
	if q.Tags == nil {
		return []string{}
	}

	return q.Tags
}
