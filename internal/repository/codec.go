package repository

import (
	"encoding/json"
	"fmt"

	"github.com/arafatrahman/Property-Rental-Management/internal/models"
)

// Encode serializes a dataset into the snapshot document format.
// Dates are RFC 3339 strings and amounts are decimal strings.
func Encode(data *models.AppData) ([]byte, error) {
	d := data.Clone()
	b, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return b, nil
}

// Decode parses a snapshot document
func Decode(b []byte) (*models.AppData, error) {
	var d models.AppData
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	d.Normalize()
	return &d, nil
}
