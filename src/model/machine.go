package model

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateReading = errors.New("reading already stored for this user")
)

// Reading sources.
const (
	SourceUpload = "upload"
	SourceManual = "manual"
)

// Machine is a vending machine owned by a user, keyed by asset number or serial number.
type Machine struct {
	UserID        string    `json:"-"`
	MachineID     string    `json:"machine_id"`
	SerialNumber  string    `json:"serial_number"`
	AssetNumber   string    `json:"asset_number,omitempty"`
	Location      string    `json:"location,omitempty"`
	LastUpdate    time.Time `json:"last_update"`
	TotalReadings int       `json:"total_readings"`
	CreatedAt     time.Time `json:"created_at"`
}

// Reading is one stored audit of a machine. ReportJSON is only loaded by GetReadingByID.
type Reading struct {
	ID              string    `json:"id"`
	UserID          string    `json:"-"`
	MachineID       string    `json:"machine_id"`
	TakenAt         time.Time `json:"taken_at"`
	Source          string    `json:"source"`
	PaidValue       float64   `json:"paid_value"`
	PaidCount       int       `json:"paid_count"`
	CashValue       float64   `json:"cash_value"`
	ChangeValue     float64   `json:"change_value"`
	CommunicationID string    `json:"communication_id,omitempty"`
	Filename        string    `json:"filename,omitempty"`
	Fingerprint     string    `json:"fingerprint,omitempty"`
	ProductCount    int       `json:"product_count"`
	EventCount      int       `json:"event_count"`
	ReportJSON      string    `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// SaveReading upserts the owning machine and inserts the reading in one transaction.
// A new machine starts with one reading; an existing one gets its last update and total bumped.
func SaveReading(db *sql.DB, machine Machine, r *Reading) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert := `
	INSERT INTO machines (user_id, machine_id, serial_number, asset_number, location, last_update, total_readings, created_at)
	VALUES (?, ?, ?, ?, ?, ?, 1, ?)
	ON CONFLICT(user_id, machine_id) DO UPDATE SET
		last_update = excluded.last_update,
		total_readings = machines.total_readings + 1,
		serial_number = CASE WHEN excluded.serial_number <> '' THEN excluded.serial_number ELSE machines.serial_number END,
		asset_number = COALESCE(excluded.asset_number, machines.asset_number),
		location = COALESCE(excluded.location, machines.location)`
	if _, err := tx.Exec(upsert,
		r.UserID, r.MachineID, machine.SerialNumber,
		nullIfEmpty(machine.AssetNumber), nullIfEmpty(machine.Location),
		r.TakenAt, r.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to upsert machine %s: %w", r.MachineID, err)
	}

	insert := `
	INSERT INTO readings (id, user_id, machine_id, taken_at, source, paid_value, paid_count, cash_value, change_value,
	                      communication_id, filename, fingerprint, product_count, event_count, report_json, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.Exec(insert,
		r.ID, r.UserID, r.MachineID, r.TakenAt, r.Source, r.PaidValue, r.PaidCount, r.CashValue, r.ChangeValue,
		r.CommunicationID, r.Filename, nullIfEmpty(r.Fingerprint), r.ProductCount, r.EventCount,
		nullIfEmpty(r.ReportJSON), r.CreatedAt,
	); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
			return ErrDuplicateReading
		}
		return fmt.Errorf("failed to insert reading: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reading: %w", err)
	}
	return nil
}

const machineColumns = `machine_id, serial_number, asset_number, location, last_update, total_readings, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMachine(row rowScanner, userID string) (Machine, error) {
	m := Machine{UserID: userID}
	var asset, location sql.NullString
	err := row.Scan(&m.MachineID, &m.SerialNumber, &asset, &location, &m.LastUpdate, &m.TotalReadings, &m.CreatedAt)
	m.AssetNumber = asset.String
	m.Location = location.String
	return m, err
}

// GetMachinesByUser lists the user's machines, most recently updated first.
func GetMachinesByUser(db *sql.DB, userID string) ([]Machine, error) {
	query := `SELECT ` + machineColumns + ` FROM machines WHERE user_id = ? ORDER BY last_update DESC, machine_id ASC`
	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query machines: %w", err)
	}
	defer rows.Close()

	machines := []Machine{}
	for rows.Next() {
		m, err := scanMachine(rows, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan machine row: %w", err)
		}
		machines = append(machines, m)
	}
	return machines, rows.Err()
}

func GetMachine(db *sql.DB, userID, machineID string) (*Machine, error) {
	query := `SELECT ` + machineColumns + ` FROM machines WHERE user_id = ? AND machine_id = ?`
	m, err := scanMachine(db.QueryRow(query, userID, machineID), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get machine %s: %w", machineID, err)
	}
	return &m, nil
}

const readingColumns = `id, machine_id, taken_at, source, paid_value, paid_count, cash_value, change_value,
	communication_id, filename, fingerprint, product_count, event_count, created_at`

func scanReading(row rowScanner, userID string, extra ...interface{}) (Reading, error) {
	r := Reading{UserID: userID}
	var fingerprint sql.NullString
	dest := []interface{}{
		&r.ID, &r.MachineID, &r.TakenAt, &r.Source, &r.PaidValue, &r.PaidCount, &r.CashValue, &r.ChangeValue,
		&r.CommunicationID, &r.Filename, &fingerprint, &r.ProductCount, &r.EventCount, &r.CreatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	r.Fingerprint = fingerprint.String
	return r, err
}

// GetReadingsByMachine lists a machine's readings newest first, without the stored report.
func GetReadingsByMachine(db *sql.DB, userID, machineID string) ([]Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings WHERE user_id = ? AND machine_id = ? ORDER BY taken_at DESC, created_at DESC`
	rows, err := db.Query(query, userID, machineID)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	readings := []Reading{}
	for rows.Next() {
		r, err := scanReading(rows, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading row: %w", err)
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// GetReadingByID loads one reading including its report JSON.
func GetReadingByID(db *sql.DB, userID, readingID string) (*Reading, error) {
	query := `SELECT ` + readingColumns + `, report_json FROM readings WHERE user_id = ? AND id = ?`
	var report sql.NullString
	r, err := scanReading(db.QueryRow(query, userID, readingID), userID, &report)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get reading %s: %w", readingID, err)
	}
	r.ReportJSON = report.String
	return &r, nil
}

// DeleteMachine removes the machine and every reading stored under it.
func DeleteMachine(db *sql.DB, userID, machineID string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM readings WHERE user_id = ? AND machine_id = ?`, userID, machineID); err != nil {
		return fmt.Errorf("failed to delete readings of machine %s: %w", machineID, err)
	}
	res, err := tx.Exec(`DELETE FROM machines WHERE user_id = ? AND machine_id = ?`, userID, machineID)
	if err != nil {
		return fmt.Errorf("failed to delete machine %s: %w", machineID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// DeleteReading removes one reading and decrements its machine's total.
func DeleteReading(db *sql.DB, userID, readingID string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var machineID string
	err = tx.QueryRow(`SELECT machine_id FROM readings WHERE user_id = ? AND id = ?`, userID, readingID).Scan(&machineID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to look up reading %s: %w", readingID, err)
	}

	if _, err := tx.Exec(`DELETE FROM readings WHERE user_id = ? AND id = ?`, userID, readingID); err != nil {
		return fmt.Errorf("failed to delete reading %s: %w", readingID, err)
	}
	if _, err := tx.Exec(`UPDATE machines SET total_readings = MAX(total_readings - 1, 0) WHERE user_id = ? AND machine_id = ?`, userID, machineID); err != nil {
		return fmt.Errorf("failed to update machine %s: %w", machineID, err)
	}
	return tx.Commit()
}
