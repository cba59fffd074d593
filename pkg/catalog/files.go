package catalog

import (
	"database/sql"
	"strings"

	"github.com/dineshdb/ddrive/pkg/errtaxonomy"
)

// ByPath returns the FileRecord for path, or sql.ErrNoRows if untracked.
func (c *Catalog) ByPath(path string) (FileRecord, error) {
	row := c.db.QueryRow(`SELECT `+fileColumns+` FROM files WHERE path = ?`, path)
	record, err := scanFileRecord(row)
	if err != nil {
		return FileRecord{}, wrapQueryError(err, "unable to query file record")
	}
	return record, nil
}

// ByPaths returns the FileRecords for every path in paths that is tracked;
// missing paths are silently omitted.
func (c *Catalog) ByPaths(paths []string) ([]FileRecord, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(paths)), ",")
	args := make([]interface{}, len(paths))
	for i, path := range paths {
		args[i] = path
	}

	rows, err := c.db.Query(`SELECT `+fileColumns+` FROM files WHERE path IN (`+placeholders+`) ORDER BY path`, args...)
	if err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to query file records")
	}
	defer rows.Close()

	return collectFileRecords(rows)
}

// ByPathPrefix returns every tracked record whose path begins with prefix,
// ordered by path. It's used to scope change detection to the subtree
// passed to `add`.
func (c *Catalog) ByPathPrefix(prefix string) ([]FileRecord, error) {
	rows, err := c.db.Query(`SELECT `+fileColumns+` FROM files WHERE path = ? OR path LIKE ? ESCAPE '\' ORDER BY path`,
		prefix, escapeLike(prefix)+`/%`)
	if err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to query file records by prefix")
	}
	defer rows.Close()

	return collectFileRecords(rows)
}

// All returns every tracked record, ordered by path.
func (c *Catalog) All() ([]FileRecord, error) {
	rows, err := c.db.Query(`SELECT ` + fileColumns + ` FROM files ORDER BY path`)
	if err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to query all file records")
	}
	defer rows.Close()

	return collectFileRecords(rows)
}

// DueForVerify returns every record whose last_checked is unset or older
// than cutoff (a Unix-seconds timestamp), the verifier's normal-mode
// candidate set.
func (c *Catalog) DueForVerify(cutoff int64) ([]FileRecord, error) {
	rows, err := c.db.Query(`SELECT `+fileColumns+` FROM files WHERE last_checked IS NULL OR last_checked < ? ORDER BY path`, cutoff)
	if err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to query verify candidates")
	}
	defer rows.Close()

	return collectFileRecords(rows)
}

// Lightweight returns the (path, size, created_at) projection of every
// tracked record, used for lightweight (status-mode) rename-key bucketing
// without reading fingerprints.
func (c *Catalog) Lightweight() ([]LightweightRecord, error) {
	rows, err := c.db.Query(`SELECT path, size, created_at FROM files ORDER BY path`)
	if err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to query lightweight file records")
	}
	defer rows.Close()

	var records []LightweightRecord
	for rows.Next() {
		var record LightweightRecord
		if err := rows.Scan(&record.Path, &record.Size, &record.CreatedAt); err != nil {
			return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to scan lightweight file record")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to iterate lightweight file records")
	}

	return records, nil
}

func collectFileRecords(rows *sql.Rows) ([]FileRecord, error) {
	var records []FileRecord
	for rows.Next() {
		record, err := scanFileRecord(rows)
		if err != nil {
			return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to scan file record")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to iterate file records")
	}
	return records, nil
}

// escapeLike escapes the LIKE wildcard characters in s so it can be used as
// a literal prefix with ESCAPE '\'.
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
