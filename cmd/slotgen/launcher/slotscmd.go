package launcher

import (
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/unicornultrafoundation/go-slotinit/ir"
	"github.com/unicornultrafoundation/go-slotinit/manifest"
	"github.com/unicornultrafoundation/go-slotinit/storage"
)

var (
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "File to write the storage manifest to (default: stdout)",
	}
	tableFlag = cli.BoolFlag{
		Name:  "table",
		Usage: "Print the slots as a table instead of JSON",
	}
	sortedFlag = cli.BoolFlag{
		Name:  "sorted",
		Usage: "Order the slots by key",
	}

	slotsCommand = cli.Command{
		Action:    generateSlots,
		Name:      "slots",
		Usage:     "Generate the storage manifest of a declarations file",
		ArgsUsage: "<decls.toml>",
		Flags: []cli.Flag{
			outFlag,
			tableFlag,
			sortedFlag,
		},
		Category: "STORAGE COMMANDS",
		Description: `
The slots command lays out the initial values of all storage variables in the
given declarations file and writes the slots to be set at deployment:

    [[Var]]
    Name = "counter"
    Type = "u64"
    Value = "7"

Variables are assigned state indices in declaration order.`,
	}
)

func generateSlots(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("expected one declarations file, got %d arguments", ctx.NArg())
	}
	cfg, err := mayMakeAllConfigs(ctx)
	if err != nil {
		return err
	}

	file := ctx.Args().First()
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	irCtx := ir.NewContext()
	decls, err := manifest.LoadDeclarations(irCtx, file, f)
	if err != nil {
		return err
	}
	enc, err := storage.NewEncoder(irCtx, cfg.Storage)
	if err != nil {
		return err
	}
	m, err := manifest.Build(enc, decls, cfg.Manifest.Workers)
	if err != nil {
		return err
	}
	if cfg.Manifest.Sorted || ctx.Bool(sortedFlag.Name) {
		m.Sort()
	}
	enc.Log.WithField("slots", len(m)).WithField("vars", len(decls)).Info("Storage manifest generated")

	out := ctx.App.Writer
	if path := ctx.String(outFlag.Name); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if ctx.Bool(tableFlag.Name) {
		writeTable(out, m)
	} else if err := m.WriteJSON(out); err != nil {
		return err
	}
	return dumpMetrics(cfg)
}

func writeTable(w io.Writer, m manifest.Manifest) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Slot", "Value"})
	table.SetAutoWrapText(false)
	for i, init := range m {
		table.Append([]string{fmt.Sprint(i), init.Slot.Hex(), init.Value.Hex()})
	}
	table.Render()
}
