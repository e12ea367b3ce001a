package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treedoc/reconcile/canonical"
)

// HashOptions holds flags for the hash command.
type HashOptions struct {
	Form        string
	CanonConfig string
}

// NewHashCommand creates the hash command.
func NewHashCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HashOptions{}

	cmd := &cobra.Command{
		Use:   "hash <doc.json>",
		Short: "Compute a canonical hash of a document",
		Long: `Compute a content hash over the canonical form of a JSON document.
The stable_json form hashes the key-sorted JSON encoding; the
urdna2015_nquads form hashes canonicalized RDF quads when a
canonicalization provider is configured.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(rootOpts, opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Form, "form", string(canonical.FormStableJSON), "canonical form (stable_json|urdna2015_nquads)")
	cmd.Flags().StringVar(&opts.CanonConfig, "canon-config", "", "path to canonicalizer config file")

	return cmd
}

func runHash(rootOpts *RootOptions, opts *HashOptions, cmd *cobra.Command, docPath string) error {
	formatter := newFormatter(rootOpts, cmd)

	doc, err := loadDocument(cmd, docPath)
	if err != nil {
		return err
	}

	form := canonical.Form(opts.Form)
	switch form {
	case canonical.FormStableJSON, canonical.FormURDNA2015NQuads:
	default:
		return WrapExitError(ExitCommandError, fmt.Sprintf("unknown form %q", opts.Form), nil)
	}

	var canonOpts []canonical.Option
	if opts.CanonConfig != "" {
		canonOpts = append(canonOpts, canonical.WithConfigPath(opts.CanonConfig))
	}

	h, err := canonical.ComputeHash(doc, form, canonOpts...)
	if err != nil {
		return WrapExitError(ExitFailure, "hash", err)
	}

	return formatter.Success(h)
}
