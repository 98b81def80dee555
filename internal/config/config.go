package config

const (
	DefaultTimeZone = "Asia/Kolkata"

	// Dataset retention: uploads are ephemeral working copies, swept by
	// the janitor once they go stale.
	DefaultRetentionMinutes = 60
	DefaultMaxDatasets      = 16
	DefaultSweepSchedule    = "*/5 * * * *"

	// Ports
	DefaultGatewayPort = 8081
	DefaultSalesPort   = 7143
)
