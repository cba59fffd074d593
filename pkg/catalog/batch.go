package catalog

import (
	"database/sql"
	"fmt"

	"github.com/dineshdb/ddrive/pkg/errtaxonomy"
)

// NewRecord is the input to BatchInsert: a scanned-and-fingerprinted file
// not yet tracked.
type NewRecord struct {
	Path        string
	Fingerprint string
	Size        int64
	Timestamp   int64
}

// ChangedRecord is the input to BatchUpdate: a tracked file whose content
// changed.
type ChangedRecord struct {
	Path        string
	Fingerprint string
	Size        int64
	Timestamp   int64
}

// DeletedRecord is the input to BatchDelete: a tracked file no longer
// present on disk.
type DeletedRecord struct {
	Path string
}

// BatchInsert records a batch of new files under actionID: one Add history
// row and one files-table row per record, all in a single transaction. Any
// failure rolls back the whole batch.
func (c *Catalog) BatchInsert(actionID int64, records []NewRecord) error {
	return c.withTransaction(func(tx *sql.Tx) error {
		for _, record := range records {
			if _, err := tx.Exec(
				`INSERT INTO history (action_id, action_type, path, fingerprint, size, metadata, created_at) VALUES (?, ?, ?, ?, ?, NULL, ?)`,
				actionID, string(ActionAdd), record.Path, record.Fingerprint, record.Size, record.Timestamp,
			); err != nil {
				return fmt.Errorf("unable to insert history row for %q: %w", record.Path, err)
			}

			if _, err := tx.Exec(
				`INSERT INTO files (path, fingerprint, size, created_at, updated_at, last_checked) VALUES (?, ?, ?, ?, ?, NULL)`,
				record.Path, record.Fingerprint, record.Size, record.Timestamp, record.Timestamp,
			); err != nil {
				return fmt.Errorf("unable to insert file row for %q: %w", record.Path, err)
			}
		}
		return nil
	})
}

// BatchUpdate records a batch of content changes under actionID: one Update
// history row and a files-table row update (new fingerprint, size,
// updated_at; last_checked cleared) per record.
func (c *Catalog) BatchUpdate(actionID int64, records []ChangedRecord) error {
	return c.withTransaction(func(tx *sql.Tx) error {
		for _, record := range records {
			if _, err := tx.Exec(
				`INSERT INTO history (action_id, action_type, path, fingerprint, size, metadata, created_at) VALUES (?, ?, ?, ?, ?, NULL, ?)`,
				actionID, string(ActionUpdate), record.Path, record.Fingerprint, record.Size, record.Timestamp,
			); err != nil {
				return fmt.Errorf("unable to insert history row for %q: %w", record.Path, err)
			}

			result, err := tx.Exec(
				`UPDATE files SET fingerprint = ?, size = ?, updated_at = ?, last_checked = NULL WHERE path = ?`,
				record.Fingerprint, record.Size, record.Timestamp, record.Path,
			)
			if err != nil {
				return fmt.Errorf("unable to update file row for %q: %w", record.Path, err)
			}
			if affected, err := result.RowsAffected(); err != nil {
				return fmt.Errorf("unable to determine rows affected updating %q: %w", record.Path, err)
			} else if affected == 0 {
				return fmt.Errorf("no tracked file at %q to update", record.Path)
			}
		}
		return nil
	})
}

// BatchDelete records a batch of removals under actionID: one Delete
// history row per record (carrying the file's last-known fingerprint and
// size) and deletion of the files-table row. Records for paths that aren't
// tracked are skipped.
func (c *Catalog) BatchDelete(actionID int64, records []DeletedRecord, timestamp int64) error {
	return c.withTransaction(func(tx *sql.Tx) error {
		for _, record := range records {
			row := tx.QueryRow(`SELECT `+fileColumns+` FROM files WHERE path = ?`, record.Path)
			existing, err := scanFileRecord(row)
			if err == sql.ErrNoRows {
				continue
			} else if err != nil {
				return fmt.Errorf("unable to look up file row for %q: %w", record.Path, err)
			}

			if _, err := tx.Exec(
				`INSERT INTO history (action_id, action_type, path, fingerprint, size, metadata, created_at) VALUES (?, ?, ?, ?, ?, NULL, ?)`,
				actionID, string(ActionDelete), existing.Path, existing.Fingerprint, existing.Size, timestamp,
			); err != nil {
				return fmt.Errorf("unable to insert history row for %q: %w", record.Path, err)
			}

			if _, err := tx.Exec(`DELETE FROM files WHERE path = ?`, record.Path); err != nil {
				return fmt.Errorf("unable to delete file row for %q: %w", record.Path, err)
			}
		}
		return nil
	})
}

// BatchRename records a batch of renames under actionID: for each pair,
// looks up the old path's record, inserts a Rename history row (path =
// new path, metadata = {"old_path": ...}, fingerprint/size unchanged), and
// updates the files-table row's path. Pairs whose old path isn't tracked
// are skipped.
func (c *Catalog) BatchRename(actionID int64, pairs []RenamePair, timestamp int64) error {
	return c.withTransaction(func(tx *sql.Tx) error {
		for _, pair := range pairs {
			row := tx.QueryRow(`SELECT `+fileColumns+` FROM files WHERE path = ?`, pair.OldPath)
			existing, err := scanFileRecord(row)
			if err == sql.ErrNoRows {
				continue
			} else if err != nil {
				return fmt.Errorf("unable to look up file row for %q: %w", pair.OldPath, err)
			}

			metadata := fmt.Sprintf(`{"old_path":%q}`, pair.OldPath)
			if _, err := tx.Exec(
				`INSERT INTO history (action_id, action_type, path, fingerprint, size, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
				actionID, string(ActionRename), pair.NewPath, existing.Fingerprint, existing.Size, metadata, timestamp,
			); err != nil {
				return fmt.Errorf("unable to insert history row for rename %q -> %q: %w", pair.OldPath, pair.NewPath, err)
			}

			if _, err := tx.Exec(`UPDATE files SET path = ? WHERE path = ?`, pair.NewPath, pair.OldPath); err != nil {
				return fmt.Errorf("unable to update file row for rename %q -> %q: %w", pair.OldPath, pair.NewPath, err)
			}
		}
		return nil
	})
}

// UpdateLastChecked stamps last_checked on the file at path, the mutation
// the verifier performs on a pass (whether via metadata short-circuit or a
// fingerprint match). It is not part of the history log: verification is a
// result, not a mutation requiring an audit trail.
func (c *Catalog) UpdateLastChecked(path string, timestamp int64) error {
	result, err := c.db.Exec(`UPDATE files SET last_checked = ? WHERE path = ?`, timestamp, path)
	if err != nil {
		return errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to update last_checked")
	}
	if affected, err := result.RowsAffected(); err != nil {
		return errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to determine rows affected updating last_checked")
	} else if affected == 0 {
		return errtaxonomy.New(errtaxonomy.Database, fmt.Sprintf("no tracked file at %q", path))
	}
	return nil
}

// withTransaction runs fn inside a transaction, committing on success and
// rolling back (and categorizing the error as Database) on any failure.
func (c *Catalog) withTransaction(fn func(tx *sql.Tx) error) error {
	tx, err := c.db.Begin()
	if err != nil {
		return errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to begin transaction")
	}

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			c.logger.Warnf("rollback failed after transaction error: %s", rollbackErr.Error())
		}
		return errtaxonomy.Wrap(errtaxonomy.Database, err, "catalog transaction failed")
	}

	if err := tx.Commit(); err != nil {
		return errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to commit transaction")
	}

	return nil
}
