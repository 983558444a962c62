package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// OutcomeStorage defines the interface for loading and saving attempt outcomes.
type OutcomeStorage interface {
	// LoadAll loads every recorded outcome.
	LoadAll() ([]OutcomeEntry, error)
	// Append records one more outcome.
	Append(entry OutcomeEntry) error
}

// JSONFileStorage stores outcomes as a stream of JSON objects, one per line.
type JSONFileStorage struct {
	path string
}

// NewJSONFileStorage stores outcomes under the user's config directory.
func NewJSONFileStorage() (*JSONFileStorage, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not get user home directory: %w", err)
	}
	return NewJSONFileStorageAt(filepath.Join(homeDir, ".config", "twinclash", "outcomes.json")), nil
}

func NewJSONFileStorageAt(path string) *JSONFileStorage {
	return &JSONFileStorage{path: path}
}

// LoadAll reads and decodes all entries. A missing file is an empty history.
func (jfs *JSONFileStorage) LoadAll() ([]OutcomeEntry, error) {
	file, err := os.Open(jfs.path)
	if os.IsNotExist(err) {
		return []OutcomeEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening outcomes file for reading: %w", err)
	}
	defer file.Close()

	entries := make([]OutcomeEntry, 0)
	decoder := json.NewDecoder(file)
	for decoder.More() {
		var entry OutcomeEntry
		if err := decoder.Decode(&entry); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("error decoding JSON entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Append writes one entry to the end of the file.
func (jfs *JSONFileStorage) Append(entry OutcomeEntry) error {
	dir := filepath.Dir(jfs.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating outcomes directory: %w", err)
	}

	file, err := os.OpenFile(jfs.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("error opening outcomes file for writing: %w", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(entry); err != nil {
		return fmt.Errorf("error encoding JSON entry: %w", err)
	}
	return nil
}
