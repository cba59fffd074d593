// Package catalog implements the embedded SQL catalog: the files table
// (currently-tracked state) and the history table (append-only audit log),
// grouped under per-invocation action identifiers. Schema migrations are
// embedded and applied at open time.
package catalog

import (
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/dineshdb/ddrive/pkg/errtaxonomy"
	"github.com/dineshdb/ddrive/pkg/logging"
)

// Catalog wraps the repository's metadata database, providing transactional
// batch mutation and a read-only query surface over the files and history
// tables.
type Catalog struct {
	db     *sql.DB
	logger *logging.Logger
}

// Open opens (creating if absent) the SQLite database at path, applying any
// migrations not yet recorded as applied.
func Open(path string, logger *logging.Logger) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to open catalog database")
	}

	// The catalog is a single-writer-per-process resource (see the
	// concurrency model); a single connection avoids SQLITE_BUSY from
	// the driver pooling concurrent writers against one file.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to configure catalog database")
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to migrate catalog database")
	}

	return &Catalog{db: db, logger: logger.Sublogger("catalog")}, nil
}

// Close releases the underlying database handle.
func (c *Catalog) Close() error {
	if err := c.db.Close(); err != nil {
		return errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to close catalog database")
	}
	return nil
}

// scanFileRecord scans a single files-table row, handling the nullable
// last_checked column.
func scanFileRecord(row interface {
	Scan(dest ...interface{}) error
}) (FileRecord, error) {
	var record FileRecord
	var lastChecked sql.NullInt64
	if err := row.Scan(&record.ID, &record.Path, &record.Fingerprint, &record.Size, &record.CreatedAt, &record.UpdatedAt, &lastChecked); err != nil {
		return FileRecord{}, err
	}
	if lastChecked.Valid {
		value := lastChecked.Int64
		record.LastChecked = &value
	}
	return record, nil
}

const fileColumns = "id, path, fingerprint, size, created_at, updated_at, last_checked"

// wrapQueryError categorizes a query failure, special-casing sql.ErrNoRows
// so callers can distinguish "not found" from a genuine database failure.
func wrapQueryError(err error, message string) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return err
	}
	return errtaxonomy.Wrap(errtaxonomy.Database, err, message)
}
