package catalog

import (
	"database/sql"

	"github.com/dineshdb/ddrive/pkg/errtaxonomy"
)

const historyColumns = "id, action_id, action_type, path, fingerprint, size, metadata, created_at"

func scanHistoryRecord(row interface {
	Scan(dest ...interface{}) error
}) (HistoryRecord, error) {
	var record HistoryRecord
	var actionType string
	var metadata sql.NullString
	if err := row.Scan(&record.ID, &record.ActionID, &actionType, &record.Path, &record.Fingerprint, &record.Size, &metadata, &record.CreatedAt); err != nil {
		return HistoryRecord{}, err
	}
	record.ActionType = ActionType(actionType)
	if metadata.Valid {
		value := metadata.String
		record.Metadata = &value
	}
	return record, nil
}

// HistoryFilter narrows a history listing. Zero values mean "no filter":
// Limit <= 0 returns every matching row; an empty ActionType matches every
// action type.
type HistoryFilter struct {
	Limit      int
	ActionType ActionType
}

// History returns history rows newest-first, optionally limited and
// filtered by action type.
func (c *Catalog) History(filter HistoryFilter) ([]HistoryRecord, error) {
	query := `SELECT ` + historyColumns + ` FROM history`
	var args []interface{}

	if filter.ActionType != "" {
		query += ` WHERE action_type = ?`
		args = append(args, string(filter.ActionType))
	}

	query += ` ORDER BY id DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to query history")
	}
	defer rows.Close()

	var records []HistoryRecord
	for rows.Next() {
		record, err := scanHistoryRecord(rows)
		if err != nil {
			return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to scan history record")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to iterate history")
	}

	return records, nil
}

// HistoryByActionID returns every history row sharing actionID, the rows
// produced by a single command invocation, ordered by insertion.
func (c *Catalog) HistoryByActionID(actionID int64) ([]HistoryRecord, error) {
	rows, err := c.db.Query(`SELECT `+historyColumns+` FROM history WHERE action_id = ? ORDER BY id`, actionID)
	if err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to query history by action id")
	}
	defer rows.Close()

	var records []HistoryRecord
	for rows.Next() {
		record, err := scanHistoryRecord(rows)
		if err != nil {
			return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to scan history record")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to iterate history by action id")
	}

	return records, nil
}

// CleanupHistory deletes history rows of the given action type whose
// action_id is older than cutoff. In practice only Delete rows are pruned:
// Add/Update/Rename rows are retained indefinitely so their objects stay
// reachable.
func (c *Catalog) CleanupHistory(actionType ActionType, cutoff int64) (int64, error) {
	result, err := c.db.Exec(`DELETE FROM history WHERE action_type = ? AND action_id < ?`, string(actionType), cutoff)
	if err != nil {
		return 0, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to clean up history")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to determine rows affected by history cleanup")
	}
	return affected, nil
}

// ForgetDeletedPath removes every Delete history row for path. It's the
// backing operation for `rm deleted`, an explicit unconditional purge
// requested by the user rather than a time-based retention sweep.
func (c *Catalog) ForgetDeletedPath(path string) (int64, error) {
	result, err := c.db.Exec(`DELETE FROM history WHERE action_type = ? AND path = ?`, string(ActionDelete), path)
	if err != nil {
		return 0, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to forget deleted path")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, errtaxonomy.Wrap(errtaxonomy.Database, err, "unable to determine rows affected by forgetting deleted path")
	}
	return affected, nil
}
