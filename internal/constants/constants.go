// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort           = "8080"
	DefaultDBDriver       = "sqlite"
	DefaultDBPath         = "mapcat.db"
	DefaultDepthOneParent = "."
	DefaultWorkers        = 1
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultEnvFile        = ".env"
	ShutdownTimeout       = 5 * time.Second
)

// Environment variables
const (
	EnvDBDriver       = "MAPCAT_DB_DRIVER"
	EnvDBDSN          = "MAPCAT_DB_DSN"
	EnvDepthOneParent = "MAPCAT_DEPTH_ONE_PARENT"
	EnvPort           = "MAPCAT_PORT"
	EnvWorkers        = "MAPCAT_WORKERS"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
)

// Map file suffixes produced by the depth-1 mapmaker
const (
	SuffixMap  = "_map.fits"
	SuffixIvar = "_ivar.fits"
	SuffixTime = "_time.fits"
)

// Query limits
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)
