package main

import (
	"errors"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/internal/prompt"
	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/schema"
	"github.com/goliatone/go-formbind/pkg/vocabulary"
	"github.com/goliatone/go-formbind/pkg/widget"
)

var errInvalidSubmission = errors.New("submission has errors")

func newFillCmd(a *app) *cobra.Command {
	var vocabDir string
	cmd := &cobra.Command{
		Use:   "fill <openapi> <schema>",
		Short: "Prompt for every field of a schema and print the extracted data",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fields, err := loadFields(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			vocabularies := vocabulary.NewRegistry()
			if vocabDir != "" {
				if err := vocabulary.LoadFS(os.DirFS(vocabDir), vocabularies); err != nil {
					return err
				}
			}
			factories := form.NewFactories()
			for _, name := range schema.FactoryNames(fields) {
				if err := factories.Register(name, form.MapFactory); err != nil {
					return err
				}
			}
			opts := []form.Option{
				form.WithPrefix(""),
				form.WithExtractors(widget.NewRegistry()),
				form.WithVocabularies(vocabularies),
				form.WithFactories(factories),
			}

			input, err := prompt.Fill(ctx, a.driver, form.New(fields, opts...))
			if err != nil {
				return err
			}
			bound := form.New(fields, append(opts, form.WithInput(input))...)
			data, errs, err := bound.ExtractData(ctx, form.FieldSet{})
			if err != nil {
				return err
			}
			a.logger.Debug("submission extracted", "schema", args[1], "values", data.Len(), "errors", errs.Len())

			out := cmd.OutOrStdout()
			if len(errs) > 0 {
				flat := errs.Flatten()
				for _, path := range errs.Paths() {
					for _, msg := range flat[path] {
						fmt.Fprintf(out, "%s: %s\n", path, msg)
					}
				}
				return errInvalidSubmission
			}

			encoded, err := json.MarshalIndent(data.Values(), "", "  ")
			if err != nil {
				return fmt.Errorf("encode data: %w", err)
			}
			fmt.Fprintln(out, string(encoded))
			return nil
		},
	}
	cmd.Flags().StringVar(&vocabDir, "vocabularies", "", "directory of YAML vocabulary files")
	return cmd
}
