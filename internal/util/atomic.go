// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// WriteMode selects what WriteFileAtomic does when the target exists.
type WriteMode int

const (
	// Replace swaps the new contents in over any existing file.
	Replace WriteMode = iota
	// NoClobber leaves an existing file alone and reports os.ErrExist.
	NoClobber
)

// WriteFileAtomic publishes data at path in one step, so a reader or a crash
// sees either the previous state or the complete new file. Missing parent
// directories are created 0700.
func WriteFileAtomic(path string, data []byte, perm os.FileMode, mode WriteMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	staged, err := stage(dir, data, perm)
	if err != nil {
		return err
	}
	// The staged file is gone after a rename; removing it again is harmless.
	defer os.Remove(staged)

	if mode == NoClobber {
		// A hard link fails instead of replacing, unlike rename.
		if err := os.Link(staged, path); err != nil {
			if errors.Is(err, os.ErrExist) {
				return fmt.Errorf("%s: %w", path, os.ErrExist)
			}
			return fmt.Errorf("failed to publish %s: %w", path, err)
		}
		return nil
	}
	if err := os.Rename(staged, path); err != nil {
		return fmt.Errorf("failed to publish %s: %w", path, err)
	}
	return nil
}

// stage writes data to a synced, closed temp file in dir and returns its path.
func stage(dir string, data []byte, perm os.FileMode) (string, error) {
	f, err := os.CreateTemp(dir, ".partner-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	name := f.Name()

	_, werr := f.Write(data)
	if werr == nil {
		werr = f.Sync()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Chmod(name, perm)
	}
	if werr != nil {
		os.Remove(name)
		return "", fmt.Errorf("failed to stage %s: %w", filepath.Base(name), werr)
	}
	return name, nil
}
