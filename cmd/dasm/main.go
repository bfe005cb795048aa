// Command dasm renders gc-vm bytecode as a human-readable listing.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/cg-jl/gc-vm/dasm"
)

func main() {
	app := cli.NewApp()
	app.Name = "dasm"
	app.Usage = "disassemble gc-vm bytecode"
	app.ArgsUsage = "<file>"
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("dasm: missing input file", 1)
	}
	name := c.Args().Get(0)
	f, err := os.Open(name)
	if err != nil {
		return errors.Wrapf(err, "dasm: open %s", name)
	}
	defer f.Close()

	rows, err := dasm.Disassemble(f)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	out := os.Stdout
	mnemonicColor := color.New(color.FgBlue)
	operandColor := color.New(color.FgMagenta)
	if !isatty.IsTerminal(out.Fd()) {
		mnemonicColor.DisableColor()
		operandColor.DisableColor()
	}
	w := colorable.NewColorable(out)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"offset", "instruction", "operand"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	for _, row := range rows {
		table.Append([]string{
			offsetColumn(row.Offset),
			mnemonicColor.Sprint(row.Mnemonic),
			operandColor.Sprint(row.Operand),
		})
	}
	table.Render()
	return nil
}

func offsetColumn(offset int64) string {
	return fmt.Sprintf("%06x", offset)
}
