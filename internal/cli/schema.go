package cli

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/gomodel/openapi"
)

func registerSchemaCmd(parent *cobra.Command, a *app) {
	var (
		format string
		indent int
	)
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema or OpenAPI components of a model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadModel()
			if err != nil {
				return err
			}
			var doc any
			switch format {
			case "jsonschema":
				if doc, err = s.JSONSchema(); err != nil {
					return err
				}
			case "openapi":
				doc = openapi.Components(s)
			default:
				return fmt.Errorf("unknown --format value %q", format)
			}
			var out []byte
			if indent > 0 {
				out, err = json.MarshalIndent(doc, "", strings.Repeat(" ", indent))
			} else {
				out, err = json.Marshal(doc)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "jsonschema", "output format: jsonschema or openapi")
	cmd.Flags().IntVar(&indent, "indent", 2, "indentation width (0 for compact)")
	parent.AddCommand(cmd)
}

func registerFieldsCmd(parent *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the field descriptors of a model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadModel()
			if err != nil {
				return err
			}
			for _, f := range s.Fields() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", f.Name, f); err != nil {
					return err
				}
			}
			return nil
		},
	}
	parent.AddCommand(cmd)
}
