package syncer

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const ledgerSchemaSQL = `
CREATE TABLE IF NOT EXISTS sync_state (
	path      TEXT PRIMARY KEY,
	checksum  TEXT NOT NULL DEFAULT '',
	pushed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Ledger records which local files have been pushed to the remote
// index and with what content checksum. It is client-side sync state,
// not a cache of backend data: index membership is never inferred from
// it, only push decisions.
type Ledger struct {
	conn *sql.DB
}

// OpenLedger opens (or creates) the SQLite ledger and applies the schema.
func OpenLedger(dsn string) (*Ledger, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("syncer: open ledger: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("syncer: ping ledger: %w", err)
	}
	if _, err := conn.Exec(ledgerSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("syncer: apply ledger schema: %w", err)
	}
	return &Ledger{conn: conn}, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.conn.Close()
}

// Checksum returns the recorded checksum for path, or "" when the path
// has never been pushed.
func (l *Ledger) Checksum(path string) (string, error) {
	var cs string
	err := l.conn.QueryRow(`SELECT checksum FROM sync_state WHERE path = ?`, path).Scan(&cs)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("syncer: get checksum: %w", err)
	}
	return cs, nil
}

// Record upserts the checksum for a pushed path.
func (l *Ledger) Record(path, cs string) error {
	_, err := l.conn.Exec(`
		INSERT INTO sync_state (path, checksum, pushed_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET checksum = excluded.checksum, pushed_at = CURRENT_TIMESTAMP`,
		path, cs)
	if err != nil {
		return fmt.Errorf("syncer: record: %w", err)
	}
	return nil
}

// Forget removes a path from the ledger.
func (l *Ledger) Forget(path string) error {
	if _, err := l.conn.Exec(`DELETE FROM sync_state WHERE path = ?`, path); err != nil {
		return fmt.Errorf("syncer: forget: %w", err)
	}
	return nil
}

// All returns every recorded path with its checksum.
func (l *Ledger) All() (map[string]string, error) {
	rows, err := l.conn.Query(`SELECT path, checksum FROM sync_state`)
	if err != nil {
		return nil, fmt.Errorf("syncer: list ledger: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var path, cs string
		if err := rows.Scan(&path, &cs); err != nil {
			return nil, fmt.Errorf("syncer: scan ledger row: %w", err)
		}
		out[path] = cs
	}
	return out, rows.Err()
}
