package cmds

import (
	"context"
	"time"

	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
	"github.com/go-go-golems/glazed/pkg/cmds/values"

	"github.com/go-go-golems/nextflow-aws-config/pkg/awslayer"
	"github.com/go-go-golems/nextflow-aws-config/pkg/nextflow"
	"github.com/go-go-golems/nextflow-aws-config/pkg/output"
)

// fetchTimeout bounds the AWS calls of a single command.
const fetchTimeout = 30 * time.Second

type ConfigCommand struct{ *gcmds.CommandDescription }

type ConfigSettings struct {
	TemplateFile string `glazed:"template"`
	Output       string `glazed:"output"`
}

func NewConfigCommand() (*ConfigCommand, error) {
	cd := gcmds.NewCommandDescription(
		"config",
		gcmds.WithShort("Generate a Nextflow config from CloudFormation exports"),
		gcmds.WithLong(`Reads the NextflowWorkDir and DefaultJobQueue exports of the
current account and region and prints a Nextflow config for the awsbatch executor.

An export matches a key when its name contains "-<key>".`),
		gcmds.WithFlags(
			fields.New("template", fields.TypeString, fields.WithHelp("Custom config template file (Go template)")),
			fields.New("output", fields.TypeString, fields.WithDefault("-"), fields.WithShortFlag("o"), fields.WithHelp("Output path or '-' for stdout")),
		),
	)
	_, err := awslayer.AddAWSLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &ConfigCommand{cd}, nil
}

func (c *ConfigCommand) Run(ctx context.Context, parsed *values.Values) error {
	s := &ConfigSettings{}
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
		Kind:         nextflow.KindConfig,
		TemplateFile: s.TemplateFile,
	})
	if err != nil {
		return err
	}
	return output.Write(s.Output, []byte(content), output.WriteOptions{})
}

var _ gcmds.BareCommand = &ConfigCommand{}
