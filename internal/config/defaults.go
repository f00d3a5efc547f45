package config

const (
	DefaultPort = 8080
	DefaultHost = "localhost"

	DefaultSQLiteDSN = "file:./data/apihub.db"

	// DefaultUsageLimit is the per-key call quota assigned at creation.
	DefaultUsageLimit = 100

	DefaultSessionMinutes = 60 * 24

	DefaultSummaryModel = "gpt-4o"
)
