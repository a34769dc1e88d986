package datastore

import "errors"

var (
	// ErrExcelNotFound is returned when the workbook does not exist on disk.
	ErrExcelNotFound = errors.New("excel workbook not found")

	// ErrExcelLocked is returned when the workbook cannot be saved, which in
	// practice means another process (usually Excel itself) holds it open.
	ErrExcelLocked = errors.New("excel workbook locked or not writable")
)
