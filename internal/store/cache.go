// Package store provides a SQLite-backed snapshot cache for parsed datasets.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/churnboard/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed dataset caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a dataset file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
	RowCount  int
}

// GetTrackedFile returns the tracking info for filePath, and whether it exists.
func (c *Cache) GetTrackedFile(filePath string) (FileInfo, bool, error) {
	var fi FileInfo
	err := c.db.QueryRow("SELECT mtime_ns, size_bytes, row_count FROM datasets WHERE file_path = ?", filePath).
		Scan(&fi.MtimeNs, &fi.SizeBytes, &fi.RowCount)
	if err == sql.ErrNoRows {
		return FileInfo{}, false, nil
	}
	if err != nil {
		return FileInfo{}, false, err
	}
	return fi, true, nil
}

const dateLayout = time.RFC3339

// SaveDataset replaces the snapshot for filePath with records.
func (c *Cache) SaveDataset(filePath string, mtimeNs, sizeBytes int64, records []model.CustomerRecord) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM customers WHERE file_path = ?", filePath); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = tx.Exec(`INSERT OR REPLACE INTO datasets (file_path, mtime_ns, size_bytes, row_count, parsed_at)
		VALUES (?, ?, ?, ?, ?)`, filePath, mtimeNs, sizeBytes, len(records), now)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO customers
		(file_path, row_idx, customer_id, has_gas, churn, nb_prod_act, origin_up,
		 cons_12m, margin_net_pow_ele, pow_max,
		 date_activ, date_end, date_modif_prod, date_renewal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range records {
		churn := 0
		if r.Churn {
			churn = 1
		}
		_, err = stmt.Exec(
			filePath, i, r.ID, string(r.HasGas), churn, r.NbProdAct, r.OriginUp,
			r.Cons12m, r.MarginNetPowEle, r.PowMax,
			r.DateActiv.UTC().Format(dateLayout),
			r.DateEnd.UTC().Format(dateLayout),
			r.DateModifProd.UTC().Format(dateLayout),
			r.DateRenewal.UTC().Format(dateLayout),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadCustomers reads the cached records for filePath in their original order.
func (c *Cache) LoadCustomers(filePath string) ([]model.CustomerRecord, error) {
	rows, err := c.db.Query(`SELECT
		customer_id, has_gas, churn, nb_prod_act, origin_up,
		cons_12m, margin_net_pow_ele, pow_max,
		date_activ, date_end, date_modif_prod, date_renewal
		FROM customers WHERE file_path = ? ORDER BY row_idx`, filePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []model.CustomerRecord
	for rows.Next() {
		var r model.CustomerRecord
		var id sql.NullString
		var gas string
		var churn int
		var activ, end, modif, renewal string

		err := rows.Scan(&id, &gas, &churn, &r.NbProdAct, &r.OriginUp,
			&r.Cons12m, &r.MarginNetPowEle, &r.PowMax,
			&activ, &end, &modif, &renewal)
		if err != nil {
			return nil, err
		}

		if id.Valid {
			r.ID = id.String
		}
		r.HasGas = model.GasFlag(gas)
		if !model.ValidGasFlag(r.HasGas) {
			return nil, fmt.Errorf("cached row %d: bad has_gas %q", len(records), gas)
		}
		r.Churn = churn != 0

		dates := []struct {
			raw string
			dst *time.Time
		}{
			{activ, &r.DateActiv}, {end, &r.DateEnd}, {modif, &r.DateModifProd}, {renewal, &r.DateRenewal},
		}
		for _, d := range dates {
			if *d.dst, err = time.Parse(dateLayout, d.raw); err != nil {
				return nil, fmt.Errorf("cached row %d: %w", len(records), err)
			}
		}

		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteDataset removes a dataset snapshot and its rows.
func (c *Cache) DeleteDataset(filePath string) error {
	_, err := c.db.Exec("DELETE FROM datasets WHERE file_path = ?", filePath)
	return err
}

// DatasetCount returns the number of cached dataset snapshots.
func (c *Cache) DatasetCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM datasets").Scan(&count)
	return count, err
}
