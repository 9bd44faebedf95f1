// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package knowledge persists extracted rules in a SQLite knowledge base and
// serves search, conflict detection, statistics, and export.
// Implements: prd004-knowledge-base (R1-R6);
//
//	docs/ARCHITECTURE § Knowledge Base.
package knowledge

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Veg-briyani/vediq/pkg/types"
)

// Store manages the knowledge base SQLite database. One long-lived handle;
// database/sql serializes individual calls, and concurrent processes rely on
// SQLite's own WAL isolation (last write wins per id).
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the knowledge base database at path. It creates
// the parent directory and the schema if they do not exist (R1.2, R1.3).
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
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
		`CREATE TABLE IF NOT EXISTS rules (
			id TEXT PRIMARY KEY,
			original_text TEXT NOT NULL,
			planet TEXT,
			house INTEGER,
			sign TEXT,
			nakshatra TEXT,
			conditions_json TEXT,
			effects_json TEXT NOT NULL,
			source_title TEXT NOT NULL,
			source_author TEXT,
			source_page INTEGER,
			authority_level INTEGER,
			tags_json TEXT,
			confidence_score REAL DEFAULT 0.5,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rules_planet ON rules(planet)`,
		`CREATE INDEX IF NOT EXISTS idx_rules_house ON rules(house)`,
		`CREATE INDEX IF NOT EXISTS idx_rules_sign ON rules(sign)`,
		`CREATE INDEX IF NOT EXISTS idx_rules_source ON rules(source_title)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// stableID derives a rule ID from its source title and original sentence.
// Deterministic so that re-extracting the same sentence upserts the same row.
func stableID(sourceTitle, originalText string) string {
	sum := sha256.Sum256([]byte(sourceTitle + "\n" + originalText))
	return hex.EncodeToString(sum[:])[:12]
}

// execer is satisfied by both *sql.DB and *sql.Tx so the single write path
// serves individual stores and batch transactions alike.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// StoreRule validates and upserts one rule (R2.1, R2.2). It assigns the
// deterministic ID when the rule has none, stamps CreatedAt on first write,
// and sets UpdatedAt when an existing row is overwritten. The write is
// durable on return.
func (s *Store) StoreRule(ctx context.Context, rule *types.Rule) error {
	return storeRule(ctx, s.db, rule)
}

func storeRule(ctx context.Context, db execer, rule *types.Rule) error {
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("validating rule: %w", err)
	}

	if rule.ID == "" {
		rule.ID = stableID(rule.Source.Title, rule.OriginalText)
	}

	var exists int
	err := db.QueryRowContext(ctx,
		`SELECT count(*) FROM rules WHERE id = ?`, rule.ID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking existing rule: %w", err)
	}

	now := time.Now().UTC()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	if exists > 0 {
		rule.UpdatedAt = now
	}

	// The scalar planet/house/sign/nakshatra columns are derived from the
	// condition here, on the single write path, so they always agree with
	// conditions_json (R2.4).
	conditionsJSON, err := json.Marshal(rule.Conditions)
	if err != nil {
		return fmt.Errorf("marshaling conditions: %w", err)
	}
	effectsJSON, err := json.Marshal(rule.Effects)
	if err != nil {
		return fmt.Errorf("marshaling effects: %w", err)
	}
	tagsJSON, err := json.Marshal(rule.Tags)
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT OR REPLACE INTO rules (
			id, original_text, planet, house, sign, nakshatra,
			conditions_json, effects_json,
			source_title, source_author, source_page, authority_level,
			tags_json, confidence_score, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.ID, rule.OriginalText,
		nullString(rule.Conditions.Planet), nullInt(rule.Conditions.House),
		nullString(rule.Conditions.Sign), nullString(rule.Conditions.Nakshatra),
		string(conditionsJSON), string(effectsJSON),
		rule.Source.Title, nullString(rule.Source.Author),
		nullInt(rule.Source.PageNumber), int(rule.Source.Authority),
		string(tagsJSON), rule.Confidence,
		rule.CreatedAt.Format(time.RFC3339Nano), nullTime(rule.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting rule %s: %w", rule.ID, err)
	}
	return nil
}

// StoreSummary holds counts from a batch store run (R2.3).
type StoreSummary struct {
	Stored int
	Failed int
}

// Total returns the number of rules processed.
func (s StoreSummary) Total() int {
	return s.Stored + s.Failed
}

// HasFailures reports whether any rule failed to store.
func (s StoreSummary) HasFailures() bool {
	return s.Failed > 0
}

// StoreBatch upserts rules inside one transaction, printing per-rule
// failures to w. A single rule's failure is counted and skipped; the
// remainder still commit (R2.3). The returned error covers transaction-level
// failures only.
func (s *Store) StoreBatch(ctx context.Context, rules []types.Rule, w io.Writer) (StoreSummary, error) {
	var summary StoreSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i := range rules {
		if err := storeRule(ctx, tx, &rules[i]); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", snippet(rules[i].OriginalText), err)
			summary.Failed++
			continue
		}
		summary.Stored++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing batch: %w", err)
	}

	fmt.Fprintf(w, "\nBatch summary: %d stored, %d failed (total: %d)\n",
		summary.Stored, summary.Failed, summary.Total())
	return summary, nil
}

// GetRule returns the rule with the given id, or (nil, nil) when absent.
func (s *Store) GetRule(ctx context.Context, id string) (*types.Rule, error) {
	row := s.db.QueryRowContext(ctx, selectRules+` WHERE id = ?`, id)
	rule, err := scanRule(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading rule %s: %w", id, err)
	}
	return rule, nil
}

// selectRules is the shared column list for every rule read path, in the
// order scanRule expects.
const selectRules = `SELECT id, original_text,
	conditions_json, effects_json,
	source_title, source_author, source_page, authority_level,
	tags_json, confidence_score, created_at, updated_at
FROM rules`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRule decodes one rules row. The structured condition comes from
// conditions_json; the denormalized scalar columns exist only for search.
func scanRule(sc scanner) (*types.Rule, error) {
	var (
		rule                        types.Rule
		conditionsJSON, effectsJSON string
		author                      sql.NullString
		page                        sql.NullInt64
		authority                   int
		tagsJSON                    sql.NullString
		createdAt, updatedAt        sql.NullString
	)

	err := sc.Scan(
		&rule.ID, &rule.OriginalText,
		&conditionsJSON, &effectsJSON,
		&rule.Source.Title, &author, &page, &authority,
		&tagsJSON, &rule.Confidence, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(conditionsJSON), &rule.Conditions); err != nil {
		return nil, fmt.Errorf("decoding conditions for %s: %w", rule.ID, err)
	}
	if err := json.Unmarshal([]byte(effectsJSON), &rule.Effects); err != nil {
		return nil, fmt.Errorf("decoding effects for %s: %w", rule.ID, err)
	}
	if tagsJSON.Valid {
		if err := json.Unmarshal([]byte(tagsJSON.String), &rule.Tags); err != nil {
			return nil, fmt.Errorf("decoding tags for %s: %w", rule.ID, err)
		}
	}

	if author.Valid {
		rule.Source.Author = author.String
	}
	if page.Valid {
		rule.Source.PageNumber = int(page.Int64)
	}
	rule.Source.Authority = types.AuthorityLevel(authority)

	if createdAt.Valid {
		rule.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt.String)
	}
	if updatedAt.Valid {
		rule.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt.String)
	}

	return &rule, nil
}

// --- nullable column helpers ---

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

// snippet shortens rule text for log lines.
func snippet(s string) string {
	if len(s) > 40 {
		return s[:37] + "..."
	}
	return s
}
