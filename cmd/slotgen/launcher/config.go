package launcher

import (
	"fmt"
	"os"

	"gopkg.in/urfave/cli.v1"

	"github.com/unicornultrafoundation/go-slotinit/monitoring"
	"github.com/unicornultrafoundation/go-slotinit/monitoring/prometheus"
	"github.com/unicornultrafoundation/go-slotinit/storage"
	"github.com/unicornultrafoundation/go-slotinit/utils/toml"
)

var (
	dumpConfigCommand = cli.Command{
		Action:      dumpConfig,
		Name:        "dumpconfig",
		Usage:       "Show configuration values",
		ArgsUsage:   "[file]",
		Category:    "MISCELLANEOUS COMMANDS",
		Description: `The dumpconfig command shows configuration values.`,
	}
	checkConfigCommand = cli.Command{
		Action:      checkConfig,
		Name:        "checkconfig",
		Usage:       "Checks configuration file",
		ArgsUsage:   "",
		Category:    "MISCELLANEOUS COMMANDS",
		Description: `The checkconfig checks configuration file.`,
	}

	configFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	keySchemeFlag = cli.StringFlag{
		Name:  "key.scheme",
		Usage: `Hash storage keys are derived with ("sha256" or "keccak256")`,
		Value: storage.DefaultConfig().KeyScheme,
	}
	keyCacheFlag = cli.IntFlag{
		Name:  "key.cache",
		Usage: "Number of derived storage keys to cache (0=disabled)",
		Value: storage.DefaultConfig().KeyCacheSize,
	}
	strictFlag = cli.BoolFlag{
		Name:  "strict",
		Usage: "Fail on constants that don't match their type instead of skipping them",
	}
	workersFlag = cli.IntFlag{
		Name:  "workers",
		Usage: "Number of storage variables laid out in parallel (0=unlimited)",
		Value: DefaultManifestConfig().Workers,
	}
	metricsFlag = cli.StringFlag{
		Name:  "metrics",
		Usage: "File to write the storage metrics to after the command has finished",
	}
)

// ManifestConfig controls how storage manifests are assembled.
type ManifestConfig struct {
	// Workers bounds the storage variables laid out at once, 0 means no bound.
	Workers int
	// Sorted orders the slots by key instead of declaration order.
	Sorted bool
}

// DefaultManifestConfig returns the default manifest settings.
func DefaultManifestConfig() ManifestConfig {
	return ManifestConfig{
		Workers: 4,
	}
}

type config struct {
	Storage    storage.Config
	Manifest   ManifestConfig
	Monitoring monitoring.Config
}

func defaultConfig() config {
	return config{
		Storage:    storage.DefaultConfig(),
		Manifest:   DefaultManifestConfig(),
		Monitoring: monitoring.DefaultConfig,
	}
}

func loadAllConfigs(file string, cfg *config) error {
	err := toml.DecodeFile(file, cfg)
	if err != nil {
		return fmt.Errorf("TOML config file error: %v.\n"+
			"Use 'dumpconfig' command to get an example config file.", err)
	}
	return nil
}

func setStorageConfig(ctx *cli.Context, cfg *storage.Config) {
	if ctx.GlobalIsSet(keySchemeFlag.Name) {
		cfg.KeyScheme = ctx.GlobalString(keySchemeFlag.Name)
	}
	if ctx.GlobalIsSet(keyCacheFlag.Name) {
		cfg.KeyCacheSize = ctx.GlobalInt(keyCacheFlag.Name)
	}
	if ctx.GlobalIsSet(strictFlag.Name) {
		cfg.Strict = ctx.GlobalBool(strictFlag.Name)
	}
}

func setManifestConfig(ctx *cli.Context, cfg *ManifestConfig) {
	if ctx.GlobalIsSet(workersFlag.Name) {
		cfg.Workers = ctx.GlobalInt(workersFlag.Name)
	}
}

func setMonitoringConfig(ctx *cli.Context, cfg *monitoring.Config) {
	if ctx.GlobalIsSet(metricsFlag.Name) {
		cfg.File = ctx.GlobalString(metricsFlag.Name)
	}
}

func mayMakeAllConfigs(ctx *cli.Context) (*config, error) {
	cfg := defaultConfig()

	// Load config file (medium priority)
	if file := ctx.GlobalString(configFileFlag.Name); file != "" {
		if err := loadAllConfigs(file, &cfg); err != nil {
			return &cfg, err
		}
	}
	// Apply flags (high priority)
	setStorageConfig(ctx, &cfg.Storage)
	setManifestConfig(ctx, &cfg.Manifest)
	setMonitoringConfig(ctx, &cfg.Monitoring)

	if err := cfg.Storage.Validate(); err != nil {
		return &cfg, err
	}
	if cfg.Manifest.Workers < 0 {
		return &cfg, fmt.Errorf("negative number of workers %d", cfg.Manifest.Workers)
	}
	return &cfg, nil
}

func dumpMetrics(cfg *config) error {
	if cfg.Monitoring.File == "" {
		return nil
	}
	return prometheus.DumpFile(cfg.Monitoring.File, storage.Registry)
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := mayMakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	comment := "# slotgen configuration\n\n"

	out, err := toml.Encode(cfg)
	if err != nil {
		return err
	}

	dump := ctx.App.Writer
	if ctx.NArg() > 0 {
		f, err := os.OpenFile(ctx.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		dump = f
	}
	if _, err := dump.Write([]byte(comment)); err != nil {
		return err
	}
	_, err = dump.Write(out)
	return err
}

func checkConfig(ctx *cli.Context) error {
	_, err := mayMakeAllConfigs(ctx)
	return err
}
