package config

// Config represents the complete application configuration that
// gur supports.
type Config struct {
	// StoreDir is the package store root.  Master repositories
	// are kept below it as <owner>/<repo>.
	StoreDir string

	// MirrorsFile lists the mirrors to sync, one
	// <branch>,<url> per line.
	MirrorsFile string

	// Database is the storage key of the package database.
	Database string

	// Storage selects the backend the package database is kept
	// in, "file" or "bitcask".
	Storage string

	LogLevel string
	Listen   string
}
