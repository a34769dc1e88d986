// Package datastore owns the two external files the application mutates: the
// shared Excel workbook (source of truth, also opened by humans) and the CSV
// pending log. Every workbook mutation must serialize through the store's
// write lock because the file has no concurrency control of its own.
package datastore

import (
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// Store is the process-wide handle to the external files. Construct it once
// in main and inject it; there is no lazy global instance.
type Store struct {
	excelPath   string
	pendingPath string

	// writeMu guards every mutation of the workbook. The pending log has
	// its own synchronization inside the pending repository.
	writeMu sync.Mutex
}

// New creates a Store for the given workbook and pending log paths.
func New(excelPath, pendingPath string) *Store {
	return &Store{
		excelPath:   excelPath,
		pendingPath: pendingPath,
	}
}

// ExcelPath returns the workbook path.
func (s *Store) ExcelPath() string { return s.excelPath }

// PendingPath returns the pending log path.
func (s *Store) PendingPath() string { return s.pendingPath }

// LockWrites acquires the workbook write lock.
func (s *Store) LockWrites() { s.writeMu.Lock() }

// UnlockWrites releases the workbook write lock.
func (s *Store) UnlockWrites() { s.writeMu.Unlock() }

// ExcelAccessible reports whether the workbook exists on disk. It says
// nothing about write locks held by other programs; those only surface when
// a save is attempted.
func (s *Store) ExcelAccessible() bool {
	info, err := os.Stat(s.excelPath)
	return err == nil && !info.IsDir()
}

// OpenWorkbook opens the workbook for reading or editing. Callers must Close
// the returned file.
func (s *Store) OpenWorkbook() (*excelize.File, error) {
	if !s.ExcelAccessible() {
		return nil, fmt.Errorf("%w: %s", ErrExcelNotFound, s.excelPath)
	}
	f, err := excelize.OpenFile(s.excelPath)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.excelPath, err)
	}
	return f, nil
}

// SaveWorkbook persists the workbook back to its path. A failed save leaves
// the on-disk file in an unknown state; callers treat it as "must be
// re-attempted or inspected manually".
func (s *Store) SaveWorkbook(f *excelize.File) error {
	if err := f.Save(); err != nil {
		return fmt.Errorf("%w: %v", ErrExcelLocked, err)
	}
	return nil
}
