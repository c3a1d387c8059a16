package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"infacat/internal/schema"
	"infacat/internal/xmltree"
)

func newSchemaCmd(logger loggerFunc) *cobra.Command {
	var (
		input  string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Derive element and attribute statistics from a PowerMart export",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger(cmd)
			root, err := xmltree.ParseFile(input)
			if err != nil {
				return fmt.Errorf("parse %s: %w", input, err)
			}

			stats := schema.Extract(root)
			body, err := marshalJSON(stats)
			if err != nil {
				return fmt.Errorf("marshal schema: %w", err)
			}
			if err := writeArtifact(outDir, fileXMLSchema, body); err != nil {
				return err
			}

			log.Info("schema derived", "input", input, "elements", len(stats), "out", outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", envOr("INPUT_PATH", "input.xml"), "Path to the PowerMart XML export")
	cmd.Flags().StringVar(&outDir, "out", envOr("OUTPUT_DIR", "output"), "Directory for the generated artifacts")

	return cmd
}
