package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	gomodel "github.com/reoring/gomodel"
)

type validateOptions struct {
	format       string
	output       string
	strict       bool
	failFast     bool
	dupKeys      string
	byAlias      bool
	excludeUnset bool
	excludeNone  bool
	indent       int
}

func registerValidateCmd(parent *cobra.Command, a *app) {
	var o validateOptions
	cmd := &cobra.Command{
		Use:   "validate [file|-]",
		Short: "Validate a JSON or YAML document and print the dump",
		Long: `Validate a document against a model and print the validated dump.
On failure the validation errors are written to stderr.`,
		Example: `  gomodel validate -s defs.yaml -m Person person.json
  cat person.yaml | gomodel validate -s defs.yaml -m Person --format yaml -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runValidate(cmd, args, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.format, "format", "auto", "input format: auto, json or yaml")
	f.StringVarP(&o.output, "output", "o", "json", "output format: json or yaml")
	f.BoolVar(&o.strict, "strict", false, "disable lax coercion for the model's own fields")
	f.BoolVar(&o.failFast, "fail-fast", false, "stop at the first issue")
	f.StringVar(&o.dupKeys, "dup-keys", "ignore", "duplicate JSON keys: ignore, warn or error")
	f.BoolVar(&o.byAlias, "by-alias", false, "dump aliases instead of field names")
	f.BoolVar(&o.excludeUnset, "exclude-unset", false, "omit fields that were not supplied")
	f.BoolVar(&o.excludeNone, "exclude-none", false, "omit null fields")
	f.IntVar(&o.indent, "indent", 2, "indentation width (0 for compact JSON)")
	parent.AddCommand(cmd)
}

func (a *app) runValidate(cmd *cobra.Command, args []string, o validateOptions) error {
	s, err := a.loadModel()
	if err != nil {
		return err
	}
	if o.strict {
		if s, err = strictCopy(s); err != nil {
			return err
		}
	}
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	data, err := a.readInput(path)
	if err != nil {
		return err
	}
	opt := gomodel.DecodeOpt{
		FailFast: o.failFast,
		Warnings: func(it gomodel.Issue) {
			a.log.Warn("decode warning", "path", it.Path, "code", it.Code, "msg", it.Message)
		},
	}
	switch o.dupKeys {
	case "ignore":
	case "warn":
		opt.OnDuplicateKey = gomodel.Warn
	case "error":
		opt.OnDuplicateKey = gomodel.Error
	default:
		return fmt.Errorf("unknown --dup-keys value %q", o.dupKeys)
	}

	var inst *gomodel.Instance
	switch inputFormat(o.format, path) {
	case "yaml":
		inst, err = s.ValidateYAML(cmd.Context(), data, opt)
	case "json":
		inst, err = s.ValidateJSON(cmd.Context(), data, opt)
	default:
		return fmt.Errorf("unknown --format value %q", o.format)
	}
	if err != nil {
		a.log.Debug("validation failed", "model", s.Name(), "error", err)
		return err
	}
	a.log.Debug("validated", "model", s.Name(), "fields_set", inst.FieldsSet())

	dumpOpts := []gomodel.DumpOption{gomodel.Indent(o.indent)}
	if o.byAlias {
		dumpOpts = append(dumpOpts, gomodel.ByAlias())
	}
	if o.excludeUnset {
		dumpOpts = append(dumpOpts, gomodel.ExcludeUnset())
	}
	if o.excludeNone {
		dumpOpts = append(dumpOpts, gomodel.ExcludeNone())
	}
	var out []byte
	switch o.output {
	case "json":
		out, err = inst.DumpJSON(dumpOpts...)
		out = append(out, '\n')
	case "yaml":
		out, err = inst.DumpYAML(dumpOpts...)
	default:
		return fmt.Errorf("unknown --output value %q", o.output)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func (a *app) readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(a.stdin)
	}
	return os.ReadFile(path)
}

func inputFormat(flag, path string) string {
	if flag != "auto" {
		return flag
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}

// strictCopy rebuilds s with strict coercion for its own fields. Nested
// models keep their configuration.
func strictCopy(s *gomodel.Schema) (*gomodel.Schema, error) {
	cfg := s.Config()
	cfg.Strict = true
	return gomodel.NewSchema(s.Name(), cfg, s.Fields()...)
}
