// Command asm compiles gc-vm assembly source into bytecode.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/cg-jl/gc-vm/asm"
)

func main() {
	app := cli.NewApp()
	app.Name = "asm"
	app.Usage = "assemble gc-vm source into bytecode"
	app.ArgsUsage = "<input> [<output>]"
	app.Action = run
	app.Version = "0.1.0"

	if err := app.Run(os.Args); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.NewExitError("asm: missing input file", 1)
	}
	inName := c.Args().Get(0)
	outName := c.Args().Get(1)
	if outName == "" {
		outName = "a.out"
	}

	in, err := os.Open(inName)
	if err != nil {
		return errors.Wrapf(err, "asm: open %s", inName)
	}
	defer in.Close()

	code, err := asm.Assemble(inName, in)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	out, err := os.Create(outName)
	if err != nil {
		return errors.Wrapf(err, "asm: create %s", outName)
	}
	defer out.Close()

	if _, err := out.Write(code); err != nil {
		return errors.Wrapf(err, "asm: write %s", outName)
	}
	return nil
}

// printError prints a single-line diagnostic per failure, colorized when
// stderr is a terminal; an asm.ErrList is unpacked into one line per
// entry rather than joined with cli's default newline-squashing.
func printError(err error) {
	red := color.New(color.FgRed)
	if list, ok := err.(asm.ErrList); ok {
		for _, e := range list {
			red.Fprintf(os.Stderr, "error: %s\n", e.Error())
		}
		return
	}
	red.Fprintf(os.Stderr, "error: %s\n", err.Error())
}
