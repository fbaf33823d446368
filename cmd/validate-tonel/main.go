// Command validate-tonel validates a Tonel source file against the
// structural grammar and, unless told otherwise, against the embedded
// Smalltalk method-body grammar too. It is the CLI front-end the core
// parsers explicitly leave as an external collaborator (spec.md §1) —
// grounded on the teacher's cli/main.go cobra wiring, generalized from
// opal's execute-a-script shape to a single validate-one-file shape.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/opal-lang/tonel"
	"github.com/spf13/cobra"
)

// version is overridden at release build time via -ldflags; "dev"
// covers local builds.
var version = "dev"

func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout, os.Stderr))
}

// runMain builds and executes the cobra command, returning the process
// exit code instead of calling os.Exit directly so it stays testable —
// the same separation the teacher's main()/runCommand() split makes.
func runMain(args []string, stdout, stderr io.Writer) int {
	var (
		withoutMethodBody bool
		noColor           bool
		showVersion       bool
	)

	exitCode := 0

	rootCmd := &cobra.Command{
		Use:           "validate-tonel PATH",
		Short:         "Validate a Tonel source file",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, cmdArgs []string) error {
			if showVersion {
				fmt.Fprintf(stdout, "validate-tonel %s\n", version)
				return nil
			}
			if len(cmdArgs) != 1 {
				exitCode = 2
				return fmt.Errorf("expected exactly one PATH argument")
			}
			useColor := shouldUseColor(noColor)
			code := validate(stdout, stderr, cmdArgs[0], withoutMethodBody, useColor)
			exitCode = code
			if code != 0 {
				// Output has already been written by validate; cobra
				// must not also print this error.
				return errSilent
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&withoutMethodBody, "without-method-body", false, "validate structure only, skip Smalltalk method-body parsing")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print the version and exit")
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		if err != errSilent {
			fmt.Fprintln(stderr, err.Error())
			if exitCode == 0 {
				exitCode = 2
			}
		}
	}
	return exitCode
}

// errSilent marks a RunE failure whose message has already been
// printed by validate, so runMain doesn't print it twice.
var errSilent = fmt.Errorf("")

// validate runs the chosen parser facade against path and prints the
// spec.md §6 CLI surface's success/failure line, returning the exit
// code (0 valid, 1 invalid content or missing file).
func validate(stdout, stderr io.Writer, path string, withoutMethodBody bool, useColor bool) int {
	var ok bool
	var info *tonel.ErrorInfo

	if withoutMethodBody {
		ok, info = tonel.TonelParser{}.ValidateFromFile(path)
	} else {
		ok, info = tonel.TonelFullParser{}.ValidateFromFile(path)
	}

	if ok {
		fmt.Fprintf(stdout, "%s '%s' is valid\n", colorize("✓", colorGreen, useColor), path)
		return 0
	}

	fmt.Fprintf(stderr, "%s %s\n", colorize("✗", colorRed, useColor), info.Reason)
	fmt.Fprintf(stderr, "  %s\n", colorize(fmt.Sprintf("line %d", info.Line), colorCyan, useColor))
	if info.ErrorText != "" {
		fmt.Fprintf(stderr, "  %s\n", colorize(info.ErrorText, colorGray, useColor))
	}
	return 1
}
