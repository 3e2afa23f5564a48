// Package constants provides shared constants for the ad-spend optimizer.
package constants

// Numerical tolerances. The bisection iteration count and the 1e-6 bracket
// tolerance are a reproducibility contract; do not tune them.
const (
	// SpendEpsilon is the spacing below which two curve spends are the same point
	SpendEpsilon = 1e-9

	// BoundsTolerance is the tolerance for comparing and validating spend bounds
	BoundsTolerance = 1e-6

	// BisectionIterations is the fixed iteration budget for the ROAS-floor search
	BisectionIterations = 60

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100
)

// Allocation defaults
const (
	// DefaultExpectedROAS is assumed for items that do not declare one
	DefaultExpectedROAS = 1.0

	// DefaultInventoryMultiplier applies when a low-stock item omits a multiplier
	DefaultInventoryMultiplier = 1.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the optimize API
	DefaultServerAddress = ":8080"

	// DefaultCacheTTLSeconds is the default lifetime of cached optimize responses
	DefaultCacheTTLSeconds = 300
)
