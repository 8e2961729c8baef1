package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/paydaypal/internal/model"
)

// PreferenceStore holds device-scoped key/value pairs such as the active
// member of a household and the theme.
type PreferenceStore struct {
	db *sql.DB
}

func NewPreferenceStore(db *sql.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

func (s *PreferenceStore) Get(deviceID, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM preferences WHERE device_id = ? AND key = ?`,
		deviceID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %q: %w", key, err)
	}
	return value, true, nil
}

func (s *PreferenceStore) GetAll(deviceID string) (map[string]string, error) {
	rows, err := s.db.Query(
		`SELECT key, value FROM preferences WHERE device_id = ? ORDER BY key`,
		deviceID,
	)
	if err != nil {
		return nil, fmt.Errorf("get all preferences: %w", err)
	}
	defer rows.Close()

	prefs := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		prefs[key] = value
	}
	return prefs, rows.Err()
}

func (s *PreferenceStore) Set(deviceID, key, value string) (*model.Preference, error) {
	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO preferences (device_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(device_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		deviceID, key, value, now,
	)
	if err != nil {
		return nil, fmt.Errorf("set preference %q: %w", key, err)
	}
	return &model.Preference{DeviceID: deviceID, Key: key, Value: value, UpdatedAt: now}, nil
}

func (s *PreferenceStore) Delete(deviceID, key string) error {
	_, err := s.db.Exec(`DELETE FROM preferences WHERE device_id = ? AND key = ?`, deviceID, key)
	if err != nil {
		return fmt.Errorf("delete preference %q: %w", key, err)
	}
	return nil
}
