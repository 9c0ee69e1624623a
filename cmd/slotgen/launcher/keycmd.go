package launcher

import (
	"fmt"
	"strconv"

	"gopkg.in/urfave/cli.v1"

	"github.com/unicornultrafoundation/go-slotinit/storage"
)

var (
	offsetFlag = cli.Uint64Flag{
		Name:  "offset",
		Usage: "Number of slots past the derived key",
	}

	keyCommand = cli.Command{
		Action:    printStorageKey,
		Name:      "key",
		Usage:     "Print the storage key of a storage variable or one of its fields",
		ArgsUsage: "<state index> [field index...]",
		Flags: []cli.Flag{
			offsetFlag,
		},
		Category: "STORAGE COMMANDS",
		Description: `
The key command derives the slot key of the leaf reached from the storage
variable with the given state index through the given field indices.
With --offset, the key of a later slot of a packed value is printed.`,
	}
)

func printStorageKey(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return fmt.Errorf("missing state index")
	}
	cfg, err := mayMakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	hash, err := storage.SchemeByName(cfg.Storage.KeyScheme)
	if err != nil {
		return err
	}
	keys, err := storage.NewKeyDeriver(hash, cfg.Storage.KeyCacheSize)
	if err != nil {
		return err
	}

	args := ctx.Args()
	ix, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid state index %q: %v", args[0], err)
	}
	var path storage.Path
	for _, arg := range args[1:] {
		i, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid field index %q: %v", arg, err)
		}
		path = path.Extend(i)
	}

	key := keys.StorageKey(storage.StateIndex(ix), path)
	if offset := ctx.Uint64(offsetFlag.Name); offset > 0 {
		key = storage.AddToSlotKey(key, offset)
	}
	fmt.Fprintln(ctx.App.Writer, key.Hex())
	return dumpMetrics(cfg)
}
