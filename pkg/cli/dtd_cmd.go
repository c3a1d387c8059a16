package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"infacat/internal/schema"
	"infacat/internal/xmltree"
)

func newDTDCmd(logger loggerFunc) *cobra.Command {
	var (
		input  string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "dtd",
		Short: "Generate a DTD describing the export's observed structure",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger(cmd)
			root, err := xmltree.ParseFile(input)
			if err != nil {
				return fmt.Errorf("parse %s: %w", input, err)
			}

			stats := schema.Extract(root)
			dtd := schema.GenerateDTD(stats)
			if err := writeArtifact(outDir, fileDTD, []byte(dtd)); err != nil {
				return err
			}

			log.Info("dtd generated", "input", input, "elements", len(stats), "out", outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", envOr("INPUT_PATH", "input.xml"), "Path to the PowerMart XML export")
	cmd.Flags().StringVar(&outDir, "out", envOr("OUTPUT_DIR", "output"), "Directory for the generated artifacts")

	return cmd
}
