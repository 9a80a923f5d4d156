// Package nextflow renders Nextflow configuration and the Nextflow head job
// definition from values published by the infrastructure stack.
package nextflow

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/nextflow-aws-config/pkg/awsclient"
	"github.com/go-go-golems/nextflow-aws-config/pkg/extract"
	"github.com/go-go-golems/nextflow-aws-config/pkg/jobdef"
)

// Export keys published by the infrastructure stack.
const (
	ExportWorkDir        = "NextflowWorkDir"
	ExportJobQueue       = "DefaultJobQueue"
	ExportContainerImage = "NextflowContainerImage"
	ExportJobRoleARN     = "NextflowJobRoleArn"
	ExportLogsDir        = "NextflowLogsDir"
)

// Kind names an artifact this package can generate.
type Kind string

const (
	KindConfig                  Kind = "config"
	KindJobDefinition           Kind = "job-definition"
	KindConfigFromJobDefinition Kind = "config-from-job-definition"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindConfig, KindJobDefinition, KindConfigFromJobDefinition}

type ExportLister interface {
	ListExports(ctx context.Context) ([]awsclient.Export, error)
}

type JobDefinitionDescriber interface {
	DescribeJobDefinitions(ctx context.Context, name string, status string) ([]jobdef.JobDefinition, error)
}

var (
	_ ExportLister           = (*awsclient.Client)(nil)
	_ JobDefinitionDescriber = (*awsclient.Client)(nil)
)

// Sources are the APIs artifacts are generated from. Only the source needed
// by the requested kind has to be set.
type Sources struct {
	Exports        ExportLister
	JobDefinitions JobDefinitionDescriber
}

// Request describes one artifact to generate.
type Request struct {
	Kind Kind
	// TemplateFile replaces the built-in config template (config kinds).
	TemplateFile string
	// Format is json or yaml (job-definition kind).
	Format string
	// JobDefinitionName defaults to jobdef.DefaultName.
	JobDefinitionName string
	// Status filters job definition revisions; empty means any.
	Status string
}

// Generate fetches from the matching source, resolves the required values and
// renders the artifact. Nothing is rendered unless every value resolved.
func Generate(ctx context.Context, src Sources, req Request) (string, error) {
	switch req.Kind {
	case KindConfig:
		records, err := fetchExports(ctx, src)
		if err != nil {
			return "", err
		}
		cfg, err := ConfigFromExports(records)
		if err != nil {
			return "", err
		}
		return cfg.RenderFile(req.TemplateFile)

	case KindJobDefinition:
		records, err := fetchExports(ctx, src)
		if err != nil {
			return "", err
		}
		jd, err := JobDefinitionFromExports(records)
		if err != nil {
			return "", err
		}
		return jd.Render(req.Format)

	case KindConfigFromJobDefinition:
		if src.JobDefinitions == nil {
			return "", fmt.Errorf("no job definition source configured")
		}
		name := req.JobDefinitionName
		if name == "" {
			name = jobdef.DefaultName
		}
		defs, err := src.JobDefinitions.DescribeJobDefinitions(ctx, name, req.Status)
		if err != nil {
			return "", err
		}
		cfg, err := ConfigFromJobDefinitions(name, defs)
		if err != nil {
			return "", err
		}
		return cfg.RenderFile(req.TemplateFile)
	}

	return "", fmt.Errorf("unknown artifact kind %q", req.Kind)
}

func fetchExports(ctx context.Context, src Sources) ([]extract.Record, error) {
	if src.Exports == nil {
		return nil, fmt.Errorf("no export source configured")
	}
	exports, err := src.Exports.ListExports(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("exports", len(exports)).Msg("fetched exports")
	return awsclient.ExportRecords(exports), nil
}

// ConfigFromExports resolves the work directory and job queue exports.
func ConfigFromExports(records []extract.Record) (Config, error) {
	values, err := extract.Resolve("CloudFormation exports", records,
		extract.Target{Key: ExportWorkDir, Rule: extract.ExportName},
		extract.Target{Key: ExportJobQueue, Rule: extract.ExportName},
	)
	if err != nil {
		return Config{}, err
	}
	return Config{
		WorkDir: values[ExportWorkDir],
		Queue:   values[ExportJobQueue],
	}, nil
}

// JobDefinitionFromExports resolves the five exports the head job needs.
func JobDefinitionFromExports(records []extract.Record) (JobDefinition, error) {
	values, err := extract.Resolve("CloudFormation exports", records,
		extract.Target{Key: ExportContainerImage, Rule: extract.ExportName},
		extract.Target{Key: ExportJobRoleARN, Rule: extract.ExportName},
		extract.Target{Key: ExportLogsDir, Rule: extract.ExportName},
		extract.Target{Key: ExportJobQueue, Rule: extract.ExportName},
		extract.Target{Key: ExportWorkDir, Rule: extract.ExportName},
	)
	if err != nil {
		return JobDefinition{}, err
	}
	return NewJobDefinition(JobDefinitionValues{
		Image:      values[ExportContainerImage],
		JobRoleARN: values[ExportJobRoleARN],
		LogsDir:    values[ExportLogsDir],
		JobQueue:   values[ExportJobQueue],
		WorkDir:    values[ExportWorkDir],
	}), nil
}

// ConfigFromJobDefinitions picks the latest revision and resolves the work
// directory and job queue from its container environment.
func ConfigFromJobDefinitions(name string, defs []jobdef.JobDefinition) (Config, error) {
	latest, err := jobdef.Latest(defs)
	if err != nil {
		return Config{}, fmt.Errorf("job definition %s: %w", name, err)
	}
	log.Debug().Str("name", name).Int("revision", latest.Revision).Msg("selected job definition revision")

	source := fmt.Sprintf("environment of job definition %s:%d", name, latest.Revision)
	values, err := extract.Resolve(source, latest.Environment,
		extract.Target{Key: "nf_workdir", Rule: extract.EnvironmentName},
		extract.Target{Key: "nf_job_queue", Rule: extract.EnvironmentName},
	)
	if err != nil {
		return Config{}, err
	}
	return Config{
		WorkDir: values["nf_workdir"],
		Queue:   values["nf_job_queue"],
	}, nil
}
