package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NdeyeSokhna722/loumshoes/internal/model"
)

var errIncompleteRecord = errors.New("incomplete record")

// encodeRecord serialises msg in the indented layout used on disk.
func encodeRecord(msg *model.ContactMessage) ([]byte, error) {
	data, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode record %d: %w", msg.ID, err)
	}
	return data, nil
}

// decodeRecord parses data and rejects records missing any required field.
func decodeRecord(data []byte) (*model.ContactMessage, error) {
	var m model.ContactMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.ID <= 0 || m.Timestamp.IsZero() ||
		m.FirstName == "" || m.LastName == "" || m.Email == "" ||
		m.Subject == "" || m.Message == "" {
		return nil, errIncompleteRecord
	}
	return &m, nil
}
