package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kagzat/kagzat-india-sub000/pkg/builder"
	"github.com/Kagzat/kagzat-india-sub000/pkg/export"
	"github.com/Kagzat/kagzat-india-sub000/pkg/render"
	"github.com/Kagzat/kagzat-india-sub000/pkg/renderers/tui"
)

// readDocument loads an exported form.json. "-" reads stdin.
func readDocument(cmd *cobra.Command, path string) (builder.Document, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return builder.Document{}, fmt.Errorf("read form: %w", err)
	}
	var doc builder.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return builder.Document{}, fmt.Errorf("parse form %s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return builder.Document{}, err
	}
	return doc, nil
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "written to %s\n", path)
	return nil
}

func newFillCmd() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "fill <form.json>",
		Short: "Fill an exported form in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			r, err := tui.New(
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.ErrOrStderr())),
				tui.WithOutputFormat(tui.OutputFormat(format)),
				tui.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			out, err := r.Render(cmd.Context(), doc, render.RenderOptions{Mode: render.ModePreview})
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, append(out, '\n'))
		},
	}
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "answer format: json, form or pretty")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		opts   export.Options
		asYAML bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "export-openapi <form.json>",
		Short: "Describe a form's submission as an OpenAPI document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			encode := export.OpenAPIJSON
			if asYAML {
				encode = export.OpenAPIYAML
			}
			data, err := encode(cmd.Context(), doc, opts)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVar(&opts.Title, "title", "", "API title (defaults to the form title)")
	cmd.Flags().StringVar(&opts.Path, "path", "", "submission path")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "emit YAML instead of JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var (
		operation string
		output    string
	)
	cmd := &cobra.Command{
		Use:   "import-openapi <openapi.yaml|json>",
		Short: "Build a form.json from an OpenAPI operation's request body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read openapi: %w", err)
			}
			doc, err := export.FromOpenAPI(cmd.Context(), raw, export.ImportOptions{OperationID: operation})
			if err != nil {
				return err
			}
			data, err := export.JSON(doc)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, append(data, '\n'))
		},
	}
	cmd.Flags().StringVar(&operation, "operation", "", "operation id (first operation with a body if empty)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
