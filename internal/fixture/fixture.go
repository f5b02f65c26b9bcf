// Package fixture defines the scored-sample file shared by the genmock and
// validate commands.
package fixture

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/disaster-risk-service/internal/domain"
)

// Record is one synthetic assessment tagged with the state it was drawn from.
type Record struct {
	State      string    `json:"state"`
	AssessedAt time.Time `json:"assessed_at"`
	domain.Assessment
}

// Load reads a fixture file.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Write stores records as indented JSON, creating parent directories.
func Write(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
