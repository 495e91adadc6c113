// Package cli contains the gomodel command definitions.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	gomodel "github.com/reoring/gomodel"
	"github.com/reoring/gomodel/internal/logging"
	"github.com/reoring/gomodel/schemafile"
)

// app carries state shared by every subcommand.
type app struct {
	verbose bool
	defs    string
	model   string
	log     *slog.Logger
	stdin   io.Reader
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdin)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		var ve *gomodel.ValidationError
		if errors.As(err, &ve) {
			fmt.Fprintln(stderr, ve)
		} else {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}

// NewRootCmd creates the root command. stdin backs the "-" input argument.
func NewRootCmd(stdin io.Reader) *cobra.Command {
	a := &app{log: logging.NewNop(), stdin: stdin}
	root := &cobra.Command{
		Use:           "gomodel",
		Short:         "Validate data against declarative model definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.log = logging.New(cmd.ErrOrStderr(), level)
		},
	}
	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVarP(&a.defs, "schema", "s", "", "model definition file (YAML or JSON)")
	pf.StringVarP(&a.model, "model", "m", "", "model name (optional when the file defines one model)")

	registerValidateCmd(root, a)
	registerSchemaCmd(root, a)
	registerFieldsCmd(root, a)
	return root
}

// loadModel reads the definition file and selects the requested model.
func (a *app) loadModel() (*gomodel.Schema, error) {
	if a.defs == "" {
		return nil, errors.New("--schema is required")
	}
	reg, err := schemafile.LoadFile(a.defs)
	if err != nil {
		return nil, err
	}
	names := reg.Names()
	a.log.Debug("loaded definitions", "path", a.defs, "models", names)
	name := a.model
	if name == "" {
		if len(names) != 1 {
			return nil, fmt.Errorf("--model is required, choose one of %v", names)
		}
		name = names[0]
	}
	s, ok := reg.Get(name)
	if !ok {
		return nil, fmt.Errorf("model %q not defined in %s (have %v)", name, a.defs, names)
	}
	return s, nil
}
