package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"infacat/internal/extract"
)

func newExtractCmd(logger loggerFunc) *cobra.Command {
	var (
		input  string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract objects and column lineage from a PowerMart export",
		Long:  "Parses the export, assigns field identities, and writes db_objects.json, informatica_objects.json, and column_lineage.json.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger(cmd)
			result := extract.New(log).ExtractFile(input)

			files := []struct {
				name string
				body any
			}{
				{fileDBObjects, result.DBObjects},
				{fileInformaticaObjects, result.InformaticaObjects},
				{fileColumnLineage, result.Lineage},
			}
			for _, f := range files {
				body, err := marshalJSON(f.body)
				if err != nil {
					return fmt.Errorf("marshal %s: %w", f.name, err)
				}
				if err := writeArtifact(outDir, f.name, body); err != nil {
					return err
				}
			}

			log.Info("extraction complete",
				"input", input,
				"repository", result.RepositoryName,
				"lineage_edges", len(result.Lineage),
				"out", outDir,
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", envOr("INPUT_PATH", "input.xml"), "Path to the PowerMart XML export")
	cmd.Flags().StringVar(&outDir, "out", envOr("OUTPUT_DIR", "output"), "Directory for the generated artifacts")

	return cmd
}
