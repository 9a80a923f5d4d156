package cmds

import (
	"context"

	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
	"github.com/go-go-golems/glazed/pkg/cmds/values"

	"github.com/go-go-golems/nextflow-aws-config/pkg/awslayer"
	"github.com/go-go-golems/nextflow-aws-config/pkg/nextflow"
	"github.com/go-go-golems/nextflow-aws-config/pkg/output"
)

type JobDefinitionCommand struct{ *gcmds.CommandDescription }

type JobDefinitionSettings struct {
	Format string `glazed:"format"`
	Output string `glazed:"output"`
}

func NewJobDefinitionCommand() (*JobDefinitionCommand, error) {
	cd := gcmds.NewCommandDescription(
		"job-definition",
		gcmds.WithShort("Generate the Nextflow head job definition from CloudFormation exports"),
		gcmds.WithLong(`Reads the NextflowContainerImage, NextflowJobRoleArn, NextflowLogsDir,
DefaultJobQueue and NextflowWorkDir exports and prints a Batch container job
definition named "nextflow", ready for 'aws batch register-job-definition --cli-input-json'.`),
		gcmds.WithFlags(
			fields.New("format", fields.TypeChoice, fields.WithChoices("json", "yaml"), fields.WithDefault("json"), fields.WithHelp("Output format")),
			fields.New("output", fields.TypeString, fields.WithDefault("-"), fields.WithShortFlag("o"), fields.WithHelp("Output path or '-' for stdout")),
		),
	)
	_, err := awslayer.AddAWSLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &JobDefinitionCommand{cd}, nil
}

func (c *JobDefinitionCommand) Run(ctx context.Context, parsed *values.Values) error {
	s := &JobDefinitionSettings{}
	if err := parsed.DecodeSectionInto(schema.DefaultSlug, s); err != nil {
		return err
	}

	ctx2, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	client, err := awslayer.NewClientFromValues(ctx2, parsed)
	if err != nil {
		return err
	}

	content, err := nextflow.Generate(ctx2, nextflow.Sources{Exports: client}, nextflow.Request{
		Kind:   nextflow.KindJobDefinition,
		Format: s.Format,
	})
	if err != nil {
		return err
	}
	return output.Write(s.Output, []byte(content), output.WriteOptions{})
}

var _ gcmds.BareCommand = &JobDefinitionCommand{}
