package kv

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalSlot keeps one file per key under basePath.
type LocalSlot struct {
	basePath string
}

func NewLocalSlot(basePath string) (*LocalSlot, error) {
	// Create base directory if not exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create slot directory: %w", err)
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve slot directory: %w", err)
	}

	return &LocalSlot{basePath: abs}, nil
}

func (s *LocalSlot) Get(ctx context.Context, key string) (string, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to read slot %s: %w", key, err)
	}
	return string(data), nil
}

// Set writes to a temp file and renames it so readers never see a partial document.
func (s *LocalSlot) Set(ctx context.Context, key string, value string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.basePath, ".slot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write slot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close slot %s: %w", key, err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace slot %s: %w", key, err)
	}
	return nil
}

func (s *LocalSlot) Delete(ctx context.Context, key string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

func (s *LocalSlot) path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("invalid slot key: empty")
	}
	// Escaping keeps '/' in keys from producing nested paths
	name := url.PathEscape(key) + ".json"
	fullPath := filepath.Join(s.basePath, name)

	// Ensure file is within basePath
	if !strings.HasPrefix(fullPath, s.basePath+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid slot key: %s", key)
	}
	return fullPath, nil
}
