package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// cacheFileSuffix keeps observation caches distinguishable from anything else
// a caller drops into the data directory.
const cacheFileSuffix = "-cycles.jsonl"

func cachePath(cacheDir, accountID string) string {
	return filepath.Join(cacheDir, fmt.Sprintf("%s%s", accountID, cacheFileSuffix))
}

// Load reads an account's observations from its JSONL cache file. A missing
// file is not an error; invalid lines are skipped with a warning.
func (s *Store) Load(cacheDir, accountID string) error {
	path := cachePath(cacheDir, accountID)
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer file.Close()

	var observations []Observation
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var o Observation
		if err := json.Unmarshal(scanner.Bytes(), &o); err != nil {
			log.Warn().Err(err).Str("account", accountID).Msg("Skipping invalid JSON line in cache")
			continue
		}
		observations = append(observations, o)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading cache: %w", err)
	}

	log.Debug().Str("account", accountID).Int("count", len(observations)).Msg("Loaded observations from cache")
	s.Append(accountID, observations)
	return nil
}

// LoadAll hydrates the store from every observation cache in cacheDir.
func (s *Store) LoadAll(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to list cache dir: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, cacheFileSuffix) {
			continue
		}
		accountID := strings.TrimSuffix(name, cacheFileSuffix)
		if err := s.Load(cacheDir, accountID); err != nil {
			log.Warn().Err(err).Str("account", accountID).Msg("Failed to load observation cache")
		}
	}
	return nil
}

// Save persists an account's observations to its JSONL cache file, writing to
// a temp file first and renaming into place.
func (s *Store) Save(cacheDir, accountID string) error {
	s.mu.RLock()
	observations := s.logs[accountID]
	s.mu.RUnlock()

	if len(observations) == 0 {
		return nil
	}

	path := cachePath(cacheDir, accountID)
	tmpPath := path + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)

	for _, o := range observations {
		if err := encoder.Encode(o); err != nil {
			file.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("failed to encode observation: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename cache file: %w", err)
	}

	log.Debug().Str("account", accountID).Int("count", len(observations)).Msg("Observations saved to cache")
	return nil
}
