package migration

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRun(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"migrations/000002_add_index.up.sql": {Data: []byte("CREATE INDEX idx_posts_title ON posts(title);")},
		"migrations/000001_create.up.sql":    {Data: []byte("CREATE TABLE posts (id INTEGER PRIMARY KEY, title TEXT);")},
		"migrations/000001_create.down.sql":  {Data: []byte("DROP TABLE posts;")},
		"migrations/README.md":               {Data: []byte("not a migration")},
		"migrations/notversioned_x.up.sql":   {Data: []byte("SELECT broken")},
	}

	t.Run("applies pending migrations in version order", func(t *testing.T) {
		t.Parallel()
		db := openMemoryDB(t)

		if err := Run(db, fsys, "migrations"); err != nil {
			t.Fatalf("Run() error: %v", err)
		}

		var versions int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions); err != nil {
			t.Fatalf("failed to count versions: %v", err)
		}
		if versions != 2 {
			t.Errorf("applied versions = %d, want 2", versions)
		}

		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'index' AND name = 'idx_posts_title'").Scan(&name)
		if err != nil {
			t.Errorf("index was not created: %v", err)
		}
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		t.Parallel()
		db := openMemoryDB(t)

		for range 2 {
			if err := Run(db, fsys, "migrations"); err != nil {
				t.Fatalf("Run() error: %v", err)
			}
		}
	})

	t.Run("failing migration is rolled back", func(t *testing.T) {
		t.Parallel()
		db := openMemoryDB(t)
		broken := fstest.MapFS{
			"m/000001_broken.up.sql": {Data: []byte("CREATE TABLE ok (id INTEGER); SELECT * FROM missing_table;")},
		}

		if err := Run(db, broken, "m"); err == nil {
			t.Fatal("Run() succeeded, want error")
		}

		var versions int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions); err != nil {
			t.Fatalf("failed to count versions: %v", err)
		}
		if versions != 0 {
			t.Errorf("applied versions = %d, want 0", versions)
		}
	})
}
