package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treedoc/reconcile/operational"
	"github.com/treedoc/reconcile/semantic"
	"github.com/treedoc/reconcile/structural"
)

// PatchOptions holds flags for the patch command.
type PatchOptions struct {
	Engine   string
	Validate bool
}

// NewPatchCommand creates the patch command.
func NewPatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PatchOptions{}

	cmd := &cobra.Command{
		Use:   "patch <doc.json> <delta.json>",
		Short: "Apply a delta to a document",
		Long: `Apply a previously computed delta to a JSON document and print the
result. The delta file must match the selected engine's wire form. With
--validate the patch is only dry-run and the command reports whether it
would apply cleanly.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatch(rootOpts, opts, cmd, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.Engine, "engine", EngineStructural, "patch engine (structural|operational|semantic)")
	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "dry-run only, report whether the patch applies")

	return cmd
}

func runPatch(rootOpts *RootOptions, opts *PatchOptions, cmd *cobra.Command, docPath, deltaPath string) error {
	formatter := newFormatter(rootOpts, cmd)

	doc, err := loadDocument(cmd, docPath)
	if err != nil {
		return err
	}

	var result any
	switch opts.Engine {
	case EngineStructural:
		var delta structural.Delta
		if err := loadInto(cmd, deltaPath, &delta); err != nil {
			return err
		}
		if opts.Validate {
			return reportValidation(formatter, structural.Validate(doc, delta))
		}
		out, err := structural.Patch(doc, delta)
		if err != nil {
			return WrapExitError(ExitFailure, "structural patch", err)
		}
		result = out
	case EngineOperational:
		var cs operational.Changeset
		if err := loadInto(cmd, deltaPath, &cs); err != nil {
			return err
		}
		if opts.Validate {
			return reportValidation(formatter, operational.Validate(doc, &cs))
		}
		out, err := operational.Patch(doc, &cs)
		if err != nil {
			return WrapExitError(ExitFailure, "operational patch", err)
		}
		result = out
	case EngineSemantic:
		var delta semantic.Delta
		if err := loadInto(cmd, deltaPath, &delta); err != nil {
			return err
		}
		if opts.Validate {
			return WrapExitError(ExitCommandError, "--validate is not supported for the semantic engine", nil)
		}
		out, err := semantic.Patch(doc, &delta)
		if err != nil {
			return WrapExitError(ExitFailure, "semantic patch", err)
		}
		result = out
	default:
		return WrapExitError(ExitCommandError, fmt.Sprintf("unknown engine %q", opts.Engine), nil)
	}

	return formatter.Success(result)
}

func reportValidation(formatter *OutputFormatter, ok bool) error {
	if err := formatter.Success(map[string]any{"valid": ok}); err != nil {
		return err
	}
	if !ok {
		return WrapExitError(ExitFailure, "patch would not apply cleanly", nil)
	}
	return nil
}
