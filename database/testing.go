package database

import (
	"embed"
	"io/fs"
	"path/filepath"
	"sort"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// OpenTestDB opens a fresh SQLite database in a temp dir with the schema
// applied. The handle is closed when the test ends.
func OpenTestDB(t testing.TB) *sqlx.DB {
	t.Helper()

	conn, err := sqlx.Open("sqlite3", DSN(filepath.Join(t.TempDir(), "test.db")))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		t.Fatalf("list migrations: %v", err)
	}
	sort.Strings(names)
	for _, name := range names {
		stmt, err := migrationFiles.ReadFile(name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if _, err := conn.Exec(string(stmt)); err != nil {
			t.Fatalf("apply %s: %v", name, err)
		}
	}
	return conn
}
