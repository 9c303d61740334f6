package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/schema"
)

const loadTimeout = 30 * time.Second

func newFieldsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <openapi> <schema>",
		Short: "Print the field set translated from an OpenAPI component schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := loadFields(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			a.logger.Debug("fields translated", "schema", args[1], "count", fields.Len())
			printFields(cmd.OutOrStdout(), fields, 0)
			return nil
		},
	}
}

func loadFields(ctx context.Context, location, name string) (form.FieldSet, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := schema.ParseSource(location)
	if err != nil {
		return form.FieldSet{}, err
	}
	loader := schema.NewLoader(
		schema.WithHTTPClient(&http.Client{Timeout: loadTimeout}),
		schema.WithTimeout(loadTimeout),
	)
	data, err := loader.Read(ctx, src)
	if err != nil {
		return form.FieldSet{}, fmt.Errorf("read %s: %w", location, err)
	}
	return schema.LoadComponent(ctx, data, name)
}

func printFields(w io.Writer, fields form.FieldSet, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, field := range fields.All() {
		var flags []string
		if field.Required() {
			flags = append(flags, "required")
		}
		if field.Readonly() {
			flags = append(flags, "readonly")
		}
		line := fmt.Sprintf("%s%s\t%s\t%s", indent, field.Identifier(), field.Kind(), field.Title())
		if len(flags) > 0 {
			line += "\t[" + strings.Join(flags, ",") + "]"
		}
		fmt.Fprintln(w, line)
		if object, ok := field.(*form.Object); ok {
			printFields(w, object.Fields, depth+1)
		}
	}
}
