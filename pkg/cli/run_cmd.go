package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"infacat/internal/extract"
	"infacat/internal/schema"
	"infacat/internal/service/extraction"
	"infacat/internal/store"
	"infacat/internal/xmltree"
)

// jobFile is the YAML document the run command consumes.
type jobFile struct {
	Jobs []runJob `yaml:"jobs"`
}

// runJob is one extraction job.
type runJob struct {
	Name      string   `yaml:"name"`
	Input     string   `yaml:"input"`
	Out       string   `yaml:"out"`
	Artifacts []string `yaml:"artifacts"` // empty means all
}

var kindToFile = map[string]string{
	store.ArtifactDBObjects:          fileDBObjects,
	store.ArtifactInformaticaObjects: fileInformaticaObjects,
	store.ArtifactColumnLineage:      fileColumnLineage,
	store.ArtifactXMLSchema:          fileXMLSchema,
	store.ArtifactDTD:                fileDTD,
}

var allKinds = []string{
	store.ArtifactDBObjects,
	store.ArtifactInformaticaObjects,
	store.ArtifactColumnLineage,
	store.ArtifactXMLSchema,
	store.ArtifactDTD,
}

func newRunCmd(logger loggerFunc) *cobra.Command {
	var jobPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run extraction jobs described by a YAML file",
		Long:  "Runs extraction, schema derivation, and DTD generation for each job in the file and writes the artifacts the job selects.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger(cmd)

			jobs, err := loadJobs(jobPath)
			if err != nil {
				return err
			}

			for _, job := range jobs {
				if err := runJobOnce(job, log.With("job", job.Name)); err != nil {
					return fmt.Errorf("job %s: %w", job.Name, err)
				}
			}

			log.Info("all jobs complete", "jobs", len(jobs))
			return nil
		},
	}

	cmd.Flags().StringVarP(&jobPath, "job", "j", "job.yaml", "Path to the YAML job file")

	return cmd
}

func runJobOnce(job runJob, log *slog.Logger) error {
	result := extract.New(log).ExtractFile(job.Input)
	stats := schema.Stats{}
	if root, err := xmltree.ParseFile(job.Input); err == nil {
		stats = schema.Extract(root)
	}

	artifacts, err := extraction.MarshalArtifacts(result, stats)
	if err != nil {
		return err
	}

	kinds := job.Artifacts
	if len(kinds) == 0 {
		kinds = allKinds
	}
	for _, kind := range kinds {
		name, ok := kindToFile[kind]
		if !ok {
			return fmt.Errorf("unknown artifact kind %q", kind)
		}
		if err := writeArtifact(job.Out, name, artifacts[kind]); err != nil {
			return err
		}
	}

	log.Info("job complete",
		"input", job.Input,
		"repository", result.RepositoryName,
		"artifacts", len(kinds),
		"out", job.Out,
	)
	return nil
}

func loadJobs(path string) ([]runJob, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	var file jobFile
	if err := yaml.Unmarshal(body, &file); err != nil {
		return nil, fmt.Errorf("parse job file %s: %w", path, err)
	}
	if len(file.Jobs) == 0 {
		return nil, fmt.Errorf("job file %s: no jobs defined", path)
	}
	for i := range file.Jobs {
		job := &file.Jobs[i]
		if job.Name == "" {
			job.Name = fmt.Sprintf("job-%d", i+1)
		}
		if job.Input == "" {
			return nil, fmt.Errorf("job file %s: job %s: input is required", path, job.Name)
		}
		if job.Out == "" {
			job.Out = "output"
		}
	}
	return file.Jobs, nil
}
