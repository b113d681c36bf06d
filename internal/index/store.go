// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index maintains a local SQLite full-text index over converted
// conversation transcripts, so large exports can be searched without
// re-reading the JSON.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/convomd/internal/sequence"
	"github.com/pdiddy/convomd/pkg/types"
)

// Store manages the transcript index database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the SQLite index at cfg.DBPath, creating the
// schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			title TEXT,
			created_at TEXT,
			updated_at TEXT,
			turn_count INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS turns (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id TEXT NOT NULL REFERENCES conversations(id),
			position INTEGER NOT NULL,
			role TEXT,
			content TEXT NOT NULL,
			UNIQUE(conversation_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_turns_conversation ON turns(conversation_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='turns_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE turns_fts USING fts5(content, content=turns, content_rowid=rowid)`,
			`CREATE TRIGGER turns_ai AFTER INSERT ON turns BEGIN
				INSERT INTO turns_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
			`CREATE TRIGGER turns_ad AFTER DELETE ON turns BEGIN
				INSERT INTO turns_fts(turns_fts, rowid, content) VALUES('delete', old.rowid, old.content);
			END`,
			`CREATE TRIGGER turns_au AFTER UPDATE ON turns BEGIN
				INSERT INTO turns_fts(turns_fts, rowid, content) VALUES('delete', old.rowid, old.content);
				INSERT INTO turns_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of conversations processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest writes the linearized transcript of each conversation into the
// index. A conversation whose updated-at stamp matches the stored one is
// skipped, so re-indexing an unchanged export is cheap.
func (s *Store) Ingest(ctx context.Context, convs []types.Conversation, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, conv := range convs {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		var storedUpdatedAt string
		err := s.db.QueryRowContext(ctx,
			`SELECT updated_at FROM conversations WHERE id = ?`, conv.ID,
		).Scan(&storedUpdatedAt)

		if err == nil && conv.UpdatedAt != "" && storedUpdatedAt == conv.UpdatedAt {
			fmt.Fprintf(w, "skipped %s\n", conv.ID)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		turns := sequence.Linearize(conv.Messages)
		if err := s.ingestConversation(ctx, conv, turns, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", conv.ID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d turns)\n", conv.ID, len(turns))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d turns)\n", conv.ID, len(turns))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}

func (s *Store) ingestConversation(ctx context.Context, conv types.Conversation, turns []types.Message, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM turns WHERE conversation_id = ?`, conv.ID); err != nil {
			return fmt.Errorf("deleting old turns: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO conversations (id, title, created_at, updated_at, turn_count)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, created_at=excluded.created_at,
			updated_at=excluded.updated_at, turn_count=excluded.turn_count`,
		conv.ID, conv.Title, conv.CreatedAt, conv.UpdatedAt, len(turns),
	)
	if err != nil {
		return fmt.Errorf("upserting conversation: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO turns (conversation_id, position, role, content) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, turn := range turns {
		if _, err := stmt.ExecContext(ctx, conv.ID, i, string(turn.Role), turn.Text); err != nil {
			return fmt.Errorf("inserting turn %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// QueryOptions holds parameters for transcript searches.
type QueryOptions struct {
	// Query is the FTS5 match expression.
	Query string

	// ConversationID restricts results to one conversation.
	ConversationID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// SearchResult is one matching turn with its conversation context.
type SearchResult struct {
	ConversationID string `json:"conversation_id"`
	Title          string `json:"title"`
	Role           string `json:"role"`
	Position       int    `json:"position"`
	Snippet        string `json:"snippet"`
}

// Search runs an FTS5 query over indexed turns, ranked by relevance.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]SearchResult, error) {
	if opts.Query == "" {
		return nil, fmt.Errorf("search query is required")
	}

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	query := `SELECT t.conversation_id, c.title, t.role, t.position,
			snippet(turns_fts, 0, '', '', '…', 16)
		FROM turns_fts
		JOIN turns t ON t.rowid = turns_fts.rowid
		LEFT JOIN conversations c ON t.conversation_id = c.id
		WHERE turns_fts MATCH ?`
	args := []any{opts.Query}

	if opts.ConversationID != "" {
		query += ` AND t.conversation_id = ?`
		args = append(args, opts.ConversationID)
	}

	query += ` ORDER BY turns_fts.rank LIMIT ?`
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var title sql.NullString
		if err := rows.Scan(&r.ConversationID, &title, &r.Role, &r.Position, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.Title = title.String
		results = append(results, r)
	}
	return results, rows.Err()
}
