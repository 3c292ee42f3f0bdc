package database

import (
	"database/sql"
	"time"
)

const recordColumns = `
	SELECT id, timestamp, action, path, object_type,
	       files_removed, dirs_removed, retries, repairs,
	       code, error_message
	FROM removals
`

// GetRecentRemovals returns the N most recent removal events
func (d *RemovalDB) GetRecentRemovals(limit int) ([]RemovalRecord, error) {
	return d.queryRemovals(recordColumns+`ORDER BY timestamp DESC LIMIT ?`, limit)
}

// GetRemovalsByAction returns removals filtered by action type
func (d *RemovalDB) GetRemovalsByAction(action string) ([]RemovalRecord, error) {
	return d.queryRemovals(recordColumns+`WHERE action = ? ORDER BY timestamp DESC`, action)
}

// GetRemovalsByCode returns removals filtered by platform error code
func (d *RemovalDB) GetRemovalsByCode(code string) ([]RemovalRecord, error) {
	return d.queryRemovals(recordColumns+`WHERE code = ? ORDER BY timestamp DESC`, code)
}

// GetRemovalsByPath returns removals matching a path pattern (SQL LIKE)
func (d *RemovalDB) GetRemovalsByPath(pathPattern string) ([]RemovalRecord, error) {
	return d.queryRemovals(recordColumns+`WHERE path LIKE ? ORDER BY timestamp DESC`, pathPattern)
}

// RemovalStats aggregates history over a date range
type RemovalStats struct {
	StartDate     time.Time        `json:"start_date"`
	EndDate       time.Time        `json:"end_date"`
	TotalRemovals int64            `json:"total_removals"`
	TotalSkipped  int64            `json:"total_skipped"`
	TotalErrors   int64            `json:"total_errors"`
	FilesRemoved  int64            `json:"files_removed"`
	DirsRemoved   int64            `json:"dirs_removed"`
	TotalRetries  int64            `json:"total_retries"`
	TotalRepairs  int64            `json:"total_repairs"`
	ByAction      map[string]int64 `json:"by_action"`
	ByCode        map[string]int64 `json:"by_code"`
}

// GetRemovalStats aggregates the last N days of history
func (d *RemovalDB) GetRemovalStats(days int) (*RemovalStats, error) {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	stats := &RemovalStats{
		StartDate: start,
		EndDate:   end,
		ByAction:  make(map[string]int64),
		ByCode:    make(map[string]int64),
	}

	row := d.db.QueryRow(`
	SELECT
		COALESCE(SUM(CASE WHEN action = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN action = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN action = ? THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(files_removed), 0),
		COALESCE(SUM(dirs_removed), 0),
		COALESCE(SUM(retries), 0),
		COALESCE(SUM(repairs), 0)
	FROM removals
	WHERE timestamp BETWEEN ? AND ?
	`, ActionRemove, ActionSkip, ActionError, start, end)
	if err := row.Scan(
		&stats.TotalRemovals,
		&stats.TotalSkipped,
		&stats.TotalErrors,
		&stats.FilesRemoved,
		&stats.DirsRemoved,
		&stats.TotalRetries,
		&stats.TotalRepairs,
	); err != nil {
		return nil, err
	}

	if err := d.countInto(stats.ByAction, `
	SELECT action, COUNT(*) FROM removals
	WHERE timestamp BETWEEN ? AND ?
	GROUP BY action`, start, end); err != nil {
		return nil, err
	}

	if err := d.countInto(stats.ByCode, `
	SELECT code, COUNT(*) FROM removals
	WHERE timestamp BETWEEN ? AND ? AND code != ''
	GROUP BY code`, start, end); err != nil {
		return nil, err
	}

	return stats, nil
}

func (d *RemovalDB) countInto(dst map[string]int64, query string, args ...interface{}) error {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key sql.NullString
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		if key.Valid {
			dst[key.String] = count
		}
	}
	return rows.Err()
}

func (d *RemovalDB) queryRemovals(query string, args ...interface{}) ([]RemovalRecord, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []RemovalRecord
	for rows.Next() {
		var rec RemovalRecord
		var code, errMsg sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.Timestamp,
			&rec.Action,
			&rec.Path,
			&rec.ObjectType,
			&rec.FilesRemoved,
			&rec.DirsRemoved,
			&rec.Retries,
			&rec.Repairs,
			&code,
			&errMsg,
		); err != nil {
			return nil, err
		}
		rec.Code = code.String
		rec.ErrorMessage = errMsg.String
		records = append(records, rec)
	}
	return records, rows.Err()
}
