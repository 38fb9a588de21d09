// Package cli — decode.go implements the "dbup decode" command.
//
// The decode command runs an external binlog decoding tool against a
// binary log file and streams its output. The tool is an opaque
// collaborator — dbup only handles invocation, argument plumbing, and
// exit status reporting.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/dbup/internal/model"
	"github.com/mmr-tortoise/dbup/internal/process"
)

// defaultDecoder is the binlog decoding tool invoked when --decoder is
// not given.
const defaultDecoder = "mybinlog"

// decodeFlags holds the flag values for the decode command.
type decodeFlags struct {
	// decoder is the decoder binary name or path.
	decoder string
}

// NewDecodeCommand creates the "decode" cobra command.
//
// The runner parameter allows tests to substitute a recording fake; a
// nil runner selects the real os/exec-backed implementation.
func NewDecodeCommand(runner process.Runner) *cobra.Command {
	if runner == nil {
		runner = process.NewRunner()
	}
	flags := &decodeFlags{}

	cmd := &cobra.Command{
		Use:   "decode <binlog-file>",
		Short: "Decode a binary log file with an external tool",
		Long: `Run the binlog decoding tool against a binary log file and print its
output.

The decoder is invoked as an external command; by default "mybinlog" is
looked up on PATH. Use --decoder to select a different tool or an
absolute path.

Examples:
  dbup decode ./data/mysql-bin.000001
  dbup decode --decoder mysqlbinlog ./data/mysql-bin.000001`,

		// Exactly one positional argument (the binlog file) is required.
		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd.Context(), runner, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.decoder, "decoder", defaultDecoder,
		"Binlog decoder binary to invoke")

	return cmd
}

// runDecode invokes the decoder and reports its output and exit status.
func runDecode(ctx context.Context, runner process.Runner, binlogFile string, flags *decodeFlags) error {
	VerboseLog("Invoking decoder %q on %s", flags.decoder, binlogFile)

	result, err := runner.Run(ctx, flags.decoder, binlogFile)
	if err != nil {
		if process.LookupError(err) {
			return model.WrapCLIError(model.ExitGeneralError,
				fmt.Sprintf("decoder %q not found — install it or pass --decoder", flags.decoder), err)
		}
		return model.WrapCLIError(model.ExitGeneralError,
			fmt.Sprintf("failed to run decoder %q", flags.decoder), err)
	}

	// The decoder's output is the command's product; print it verbatim
	// regardless of exit status so partial decodes remain visible.
	if result.Output != "" {
		fmt.Print(result.Output)
	}

	if result.ExitCode != 0 {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("decoder %q exited with status %d", flags.decoder, result.ExitCode))
	}

	return nil
}
