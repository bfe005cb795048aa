// Command vm runs gc-vm bytecode.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/cg-jl/gc-vm/internal/gcio"
	"github.com/cg-jl/gc-vm/vm"
)

func main() {
	app := cli.NewApp()
	app.Name = "vm"
	app.Usage = "run gc-vm bytecode"
	app.ArgsUsage = "[<file>]"
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "debug", Usage: "dump the heap to stderr on a fatal error"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %s\n", err.Error())
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	var program *os.File
	if c.NArg() > 0 {
		f, err := os.Open(c.Args().Get(0))
		if err != nil {
			return errors.Wrapf(err, "vm: open %s", c.Args().Get(0))
		}
		defer f.Close()
		program = f
	} else {
		program = os.Stdin
	}

	// PRINT writes one byte at a time, so stdout goes through a sticky-error
	// writer instead of being checked after every instruction.
	stdout := gcio.NewErrWriter(os.Stdout)
	machine, err := vm.New(vm.Output(stdout), vm.Input(os.Stdin))
	if err != nil {
		return errors.Wrap(err, "vm: initialize")
	}
	defer machine.Close()

	if err := machine.Run(program); err != nil {
		if c.Bool("debug") {
			machine.DumpHeap(os.Stderr)
		}
		return cli.NewExitError(err.Error(), 1)
	}
	if stdout.Err != nil {
		return errors.Wrap(stdout.Err, "vm: write output")
	}
	return nil
}
