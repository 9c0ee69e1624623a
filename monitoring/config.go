package monitoring

// Config is the config for metrics reporting.
type Config struct {
	// File receives the metrics in the Prometheus text format once a
	// command has finished. Empty disables the dump.
	File string `toml:",omitempty"`
}

// DefaultConfig is the default config for metrics reporting.
var DefaultConfig = Config{}
