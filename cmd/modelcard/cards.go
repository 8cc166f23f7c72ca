package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	modelcard "github.com/goliatone/go-modelcard"
	"github.com/goliatone/go-modelcard/pkg/card"
	"github.com/goliatone/go-modelcard/pkg/cardpb"
	"github.com/goliatone/go-modelcard/pkg/schema"
	"github.com/goliatone/go-modelcard/pkg/validation"
)

type fileReport struct {
	File string `json:"file"`
	validation.Report
	Error string `json:"error,omitempty"`
}

func newValidateCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check payloads against the schema, migrating older versions first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := a.toolkit()
			if err != nil {
				return err
			}

			invalid := 0
			for _, path := range args {
				report := fileReport{File: path, Report: validation.NewReport(schema.Current, nil)}
				raw, err := readInput(cmd, path)
				if err == nil {
					_, err = tk.Decode(raw)
				}
				if err != nil {
					invalid++
					report.Valid = false
					var verr *validation.ValidationError
					if errors.As(err, &verr) {
						report.Violations = verr.Violations
					} else {
						report.Error = err.Error()
					}
				}

				if asJSON {
					line, err := json.Marshal(report)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(line))
					continue
				}
				printReport(cmd, report)
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d payloads invalid", invalid, len(args))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON report per file")
	return cmd
}

func printReport(cmd *cobra.Command, r fileReport) {
	out := cmd.OutOrStdout()
	if r.Valid {
		fmt.Fprintf(out, "%s: ok\n", r.File)
		return
	}
	if r.Error != "" {
		fmt.Fprintf(out, "%s: %s\n", r.File, r.Error)
		return
	}
	for _, v := range r.Violations {
		fmt.Fprintf(out, "%s: %s\n", r.File, v)
	}
}

func newMigrateCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "migrate FILE",
		Short: "Rewrite a payload in the current schema version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := a.toolkit()
			if err != nil {
				return err
			}
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			c, err := tk.Decode(raw)
			if err != nil {
				return err
			}
			out, err := tk.Encode(c)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, append(out, '\n'))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout when empty)")
	return cmd
}

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Convert between JSON/YAML payloads and the proto forms (.pb, .txtpb)",
		Long: `Convert reads IN and writes OUT, choosing the form by extension: ".pb" is
the binary proto form, ".txtpb" the protobuf text form, anything else is JSON
(YAML is accepted on input).`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := a.toolkit()
			if err != nil {
				return err
			}
			c, err := readCard(cmd, tk, args[0])
			if err != nil {
				return err
			}

			var out []byte
			switch {
			case isProto(args[1]):
				out, err = c.ToProto().Marshal()
			case isProtoText(args[1]):
				out, err = c.ToProto().MarshalPrototext()
			default:
				out, err = tk.Encode(c)
				out = append(out, '\n')
			}
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, args[1], out); err != nil {
				return err
			}
			a.logger.Info("converted model card", "from", args[0], "to", args[1])
			return nil
		},
	}
}

func isProto(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pb")
}

func isProtoText(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txtpb")
}

// readCard decodes a binary or text proto file, or a JSON/YAML payload of any
// known version.
func readCard(cmd *cobra.Command, tk *modelcard.Toolkit, path string) (*card.ModelCard, error) {
	raw, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	pb := &cardpb.ModelCard{}
	switch {
	case isProto(path):
		err = pb.Unmarshal(raw)
	case isProtoText(path):
		err = pb.UnmarshalPrototext(raw)
	default:
		return tk.Decode(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return card.FromProto(pb)
}
