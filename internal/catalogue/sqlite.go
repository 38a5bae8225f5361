package catalogue

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	skyerr "github.com/msto63/skymodel/pkg/core/error"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteStore writes catalogue tables into a SQLite database. Each write
// is tagged with a run id so several exports can share one table.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, skyerr.Wrap(err, "failed to open database").WithCode(skyerr.CodeIO).WithDetail("path", path)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, skyerr.Wrap(err, "failed to open database").WithCode(skyerr.CodeIO).WithDetail("path", path)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// initSchema creates the table for t if it does not exist yet
func (s *SQLiteStore) initSchema(ctx context.Context, name string, t *Table) error {
	defs := []string{`run_id TEXT NOT NULL`}
	for _, c := range t.Columns {
		defs = append(defs, quoteIdent(c.Name)+" "+sqliteType(c.Kind))
	}

	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		%s
	);
	CREATE INDEX IF NOT EXISTS %s ON %s(run_id);
	`, quoteIdent(name), strings.Join(defs, ",\n\t\t"), quoteIdent("idx_"+name+"_run_id"), quoteIdent(name))

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Insert stores every row of t in the named table under runID and returns
// the number of rows written. An empty runID gets a fresh UUID.
func (s *SQLiteStore) Insert(ctx context.Context, name, runID string, t *Table) (int, error) {
	if !identifier.MatchString(name) {
		return 0, skyerr.Newf("invalid table name %q", name).WithCode(skyerr.CodeInvalidConfig)
	}
	for _, c := range t.Columns {
		if c.Kind == KindArray {
			return 0, skyerr.Newf("column %q: array columns cannot be stored in SQLite", c.Name).
				WithCode(skyerr.CodeUnsupportedFormat)
		}
	}
	if runID == "" {
		runID = uuid.New().String()
	}

	if err := s.initSchema(ctx, name, t); err != nil {
		return 0, skyerr.Wrap(err, "failed to initialize schema").WithCode(skyerr.CodeIO)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, skyerr.Wrap(err, "failed to begin transaction").WithCode(skyerr.CodeIO)
	}
	defer tx.Rollback()

	cols := []string{"run_id"}
	marks := []string{"?"}
	for _, c := range t.Columns {
		cols = append(cols, quoteIdent(c.Name))
		marks = append(marks, "?")
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteIdent(name), strings.Join(cols, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return 0, skyerr.Wrap(err, "failed to prepare statement").WithCode(skyerr.CodeIO)
	}
	defer stmt.Close()

	for r, row := range t.Rows {
		args := append([]any{runID}, row...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, skyerr.Wrapf(err, "failed to insert row %d", r).WithCode(skyerr.CodeIO).WithDetail("row", r)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, skyerr.Wrap(err, "failed to commit transaction").WithCode(skyerr.CodeIO)
	}
	return len(t.Rows), nil
}

func sqliteType(k Kind) string {
	switch k {
	case KindFloat:
		return "REAL"
	case KindInt, KindBool:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func writeSQLite(ctx context.Context, path string, t *Table, opts WriteOptions) error {
	store, err := OpenSQLite(path)
	if err != nil {
		return err
	}

	n, err := store.Insert(ctx, opts.TableName, opts.RunID, t)
	if cerr := store.Close(); err == nil && cerr != nil {
		err = skyerr.Wrap(cerr, "failed to close database").WithCode(skyerr.CodeIO)
	}
	if err != nil {
		return err
	}
	opts.Logger.Debug("catalogue rows stored", "table", opts.TableName, "rows", n)
	return nil
}
