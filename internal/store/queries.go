package store

import (
	"fmt"
	"time"

	"github.com/blackwell-systems/snapback/internal/backup"
)

// Totals summarizes the whole index.
type Totals struct {
	Count      int
	TotalBytes int64
	Since      *time.Time // earliest record, nil when the index is empty
}

// InsertBackup records one backup in the index.
func (s *Store) InsertBackup(rec *backup.Record) error {
	query := `
		INSERT INTO backups (rel_path, dest_name, size_bytes, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		rec.RelPath,
		rec.DestName,
		rec.SizeBytes,
		rec.Timestamp.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert backup record for %s: %w", rec.RelPath, err)
	}

	return nil
}

// RecentBackups returns up to limit records, most recent first.
func (s *Store) RecentBackups(limit int) ([]*backup.Record, error) {
	query := `
		SELECT rel_path, dest_name, size_bytes, created_at
		FROM backups
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent backups: %w", err)
	}
	defer rows.Close()

	var records []*backup.Record
	for rows.Next() {
		var rec backup.Record
		var createdAt string

		if err := rows.Scan(&rec.RelPath, &rec.DestName, &rec.SizeBytes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan backup row: %w", err)
		}

		rec.Timestamp, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for %s: %w", rec.RelPath, err)
		}

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating backups: %w", err)
	}

	return records, nil
}

// BackupsForPath returns every record for one source file, most recent
// first. Used by the reporting tools to reconstruct a file's history.
func (s *Store) BackupsForPath(relPath string) ([]*backup.Record, error) {
	query := `
		SELECT rel_path, dest_name, size_bytes, created_at
		FROM backups
		WHERE rel_path = ?
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.Query(query, relPath)
	if err != nil {
		return nil, fmt.Errorf("failed to query backups for %s: %w", relPath, err)
	}
	defer rows.Close()

	var records []*backup.Record
	for rows.Next() {
		var rec backup.Record
		var createdAt string

		if err := rows.Scan(&rec.RelPath, &rec.DestName, &rec.SizeBytes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan backup row: %w", err)
		}

		rec.Timestamp, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for %s: %w", rec.RelPath, err)
		}

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating backups: %w", err)
	}

	return records, nil
}

// BackupTotals returns index-wide totals for the status display.
func (s *Store) BackupTotals() (*Totals, error) {
	var t Totals

	row := s.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM backups")
	if err := row.Scan(&t.Count, &t.TotalBytes); err != nil {
		return nil, fmt.Errorf("failed to query backup totals: %w", err)
	}

	if t.Count > 0 {
		var earliest string
		row = s.db.QueryRow("SELECT created_at FROM backups ORDER BY created_at ASC LIMIT 1")
		if err := row.Scan(&earliest); err == nil {
			if ts, err := time.Parse(time.RFC3339, earliest); err == nil {
				t.Since = &ts
			}
		}
	}

	return &t, nil
}
