package cmds

import (
	"context"

	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
	"github.com/go-go-golems/glazed/pkg/cmds/values"

	"github.com/go-go-golems/nextflow-aws-config/pkg/awslayer"
	"github.com/go-go-golems/nextflow-aws-config/pkg/jobdef"
	"github.com/go-go-golems/nextflow-aws-config/pkg/nextflow"
	"github.com/go-go-golems/nextflow-aws-config/pkg/output"
)

type ConfigFromJobDefinitionCommand struct{ *gcmds.CommandDescription }

type ConfigFromJobDefinitionSettings struct {
	JobDefinitionName string `glazed:"job-definition-name"`
	Status            string `glazed:"status"`
	TemplateFile      string `glazed:"template"`
	Output            string `glazed:"output"`
}

func NewConfigFromJobDefinitionCommand() (*ConfigFromJobDefinitionCommand, error) {
	cd := gcmds.NewCommandDescription(
		"config-from-job-definition",
		gcmds.WithShort("Generate a Nextflow config from the latest Batch job definition"),
		gcmds.WithLong(`Looks up every revision of the Nextflow head job definition, selects the
highest revision and reads NF_WORKDIR and NF_JOB_QUEUE (case-insensitive) from
its container environment. Used where CloudFormation exports are not readable,
e.g. from a SageMaker notebook.`),
		gcmds.WithFlags(
			fields.New("job-definition-name", fields.TypeString, fields.WithDefault(jobdef.DefaultName), fields.WithHelp("Job definition name")),
			fields.New("status", fields.TypeString, fields.WithDefault(""), fields.WithHelp("Only consider revisions with this status (ACTIVE|INACTIVE); default any")),
			fields.New("template", fields.TypeString, fields.WithHelp("Custom config template file (Go template)")),
			fields.New("output", fields.TypeString, fields.WithDefault("-"), fields.WithShortFlag("o"), fields.WithHelp("Output path or '-' for stdout")),
		),
	)
	_, err := awslayer.AddAWSLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &ConfigFromJobDefinitionCommand{cd}, nil
}

func (c *ConfigFromJobDefinitionCommand) Run(ctx context.Context, parsed *values.Values) error {
	s := &ConfigFromJobDefinitionSettings{}
	if err := parsed.DecodeSectionInto(schema.DefaultSlug, s); err != nil {
		return err
	}
	if err := jobdef.ValidateStatus(s.Status); err != nil {
		return err
	}

	ctx2, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	client, err := awslayer.NewClientFromValues(ctx2, parsed)
	if err != nil {
		return err
	}

	content, err := nextflow.Generate(ctx2, nextflow.Sources{JobDefinitions: client}, nextflow.Request{
		Kind:              nextflow.KindConfigFromJobDefinition,
		JobDefinitionName: s.JobDefinitionName,
		Status:            s.Status,
		TemplateFile:      s.TemplateFile,
	})
	if err != nil {
		return err
	}
	return output.Write(s.Output, []byte(content), output.WriteOptions{})
}

var _ gcmds.BareCommand = &ConfigFromJobDefinitionCommand{}
