package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound     = errors.New("entity not found")
	ErrStartup      = errors.New("database not ready within connect budget")
	ErrInvalidTable = errors.New("invalid table name")
)
