package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/claim-pilot/internal/model"
)

var runFile string

var runCmd = &cobra.Command{
	Use:   "run [free text...]",
	Short: "Process a single claim from a JSON file or free text",
	Example: `  claim-pilot run --file claim.json
  claim-pilot run "John Doe, born 1/1/75, MRI of the knee, no insurance on file"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var input json.RawMessage
		switch {
		case runFile != "":
			data, err := os.ReadFile(runFile)
			if err != nil {
				return eris.Wrap(err, "run: read claim file")
			}
			if !json.Valid(data) {
				return eris.New("run: claim file is not valid JSON")
			}
			input = data
		case len(args) > 0:
			text, err := json.Marshal(strings.Join(args, " "))
			if err != nil {
				return eris.Wrap(err, "run: encode input text")
			}
			input = text
		default:
			return eris.New("run: provide --file or free text arguments")
		}

		p, err := buildPipeline()
		if err != nil {
			return err
		}

		resp, err := p.Run(cmd.Context(), input)
		if err != nil {
			return eris.Wrap(err, "run: claim pipeline")
		}

		return printResponse(cmd, resp)
	},
}

func init() {
	runCmd.Flags().StringVar(&runFile, "file", "", "path to a claim JSON file")
	rootCmd.AddCommand(runCmd)
}

func printResponse(cmd *cobra.Command, resp *model.WorkflowResponse) error {
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return eris.Wrap(err, "run: encode response")
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
