// Package constants provides centralized constant values used throughout taskflow.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by taskflow for organizing data.
const (
	// AppHome is the hidden directory name where taskflow stores all its data.
	// This directory is created in the user's home directory.
	AppHome = ".taskflow"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// HomeEnvVar overrides the location of AppHome.
	HomeEnvVar = "TASKFLOW_HOME"
)

// Field limits enforced by task validation.
const (
	// MaxTitleLength is the maximum number of characters allowed in a task title.
	MaxTitleLength = 255

	// DefaultMaxAncestorDepth is the hard upper bound on ancestor walks when the
	// project task count is unknown or larger.
	DefaultMaxAncestorDepth = 10000
)

// Workflow cache defaults.
const (
	// DefaultCacheTTL is how long a resolved project workflow stays cached.
	DefaultCacheTTL = 10 * time.Minute

	// CacheKeyPrefix namespaces every key taskflow writes to Redis.
	CacheKeyPrefix = "taskflow:workflow:"
)

// Store defaults.
const (
	// StoreDriverSQLite selects the SQLite-backed store.
	StoreDriverSQLite = "sqlite"

	// StoreDriverMemory selects the in-process memory store.
	StoreDriverMemory = "memory"

	// DBFileName is the default SQLite database file inside AppHome.
	DBFileName = "taskflow.db"

	// TxTimeout bounds a single store transaction.
	TxTimeout = 5 * time.Second
)

// SchemaVersion is the current version of the persisted schema.
const SchemaVersion = 1
