// Package store provides the data the statistics engine aggregates over: a
// YAML snapshot source and the shared session store.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/trakli/webui/internal/fileutils"
	"github.com/trakli/webui/internal/logging"
	"github.com/trakli/webui/internal/models"
)

// DataSource supplies transactions, wallets and the user's default currency.
// An empty currency means the user has not configured one.
type DataSource interface {
	Transactions(ctx context.Context) ([]models.Transaction, error)
	Wallets(ctx context.Context) ([]models.Wallet, error)
	DefaultCurrency(ctx context.Context) (string, error)
}

// Snapshot is the on-disk layout read by SnapshotStore.
type Snapshot struct {
	DefaultCurrency string               `yaml:"default_currency"`
	Wallets         []models.Wallet      `yaml:"wallets"`
	Transactions    []models.Transaction `yaml:"transactions"`
}

// SnapshotStore serves a read-only YAML snapshot of the user's data.
type SnapshotStore struct {
	File   string
	logger logging.Logger
}

// NewSnapshotStore creates a store reading file.
func NewSnapshotStore(file string, logger logging.Logger) *SnapshotStore {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SnapshotStore{
		File:   file,
		logger: logger.WithField(logging.FieldComponent, "snapshot"),
	}
}

// FindDataFile looks for a data file in standard locations
func (s *SnapshotStore) FindDataFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("data", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".trakli", filename))
	}

	if found := fileutils.FirstExisting(locations...); found != "" {
		return found, nil
	}
	return "", os.ErrNotExist
}

// Load reads and decodes the snapshot file.
func (s *SnapshotStore) Load() (*Snapshot, error) {
	if s.File == "" {
		return nil, fmt.Errorf("no snapshot file configured")
	}

	path, err := s.FindDataFile(s.File)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("snapshot file not found: %s", s.File)
		}
		return nil, fmt.Errorf("error resolving snapshot file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading snapshot file: %w", err)
	}

	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("error parsing snapshot file %s: %w", path, err)
	}

	for i := range snapshot.Transactions {
		tx := &snapshot.Transactions[i]
		tx.Type = models.TransactionType(strings.ToUpper(string(tx.Type)))
	}

	s.logger.Debug("Loaded snapshot",
		logging.F(logging.FieldFile, path),
		logging.F("transactions", len(snapshot.Transactions)),
		logging.F("wallets", len(snapshot.Wallets)))
	return &snapshot, nil
}

// Transactions implements DataSource.
func (s *SnapshotStore) Transactions(ctx context.Context) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snapshot, err := s.Load()
	if err != nil {
		return nil, err
	}
	return snapshot.Transactions, nil
}

// Wallets implements DataSource.
func (s *SnapshotStore) Wallets(ctx context.Context) ([]models.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snapshot, err := s.Load()
	if err != nil {
		return nil, err
	}
	return snapshot.Wallets, nil
}

// DefaultCurrency implements DataSource.
func (s *SnapshotStore) DefaultCurrency(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	snapshot, err := s.Load()
	if err != nil {
		return "", err
	}
	return strings.ToUpper(strings.TrimSpace(snapshot.DefaultCurrency)), nil
}
