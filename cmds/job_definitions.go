package cmds

import (
	"context"

	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/types"

	"github.com/go-go-golems/nextflow-aws-config/pkg/awslayer"
	"github.com/go-go-golems/nextflow-aws-config/pkg/jobdef"
)

type JobDefinitionsCommand struct{ *gcmds.CommandDescription }

type JobDefinitionsSettings struct {
	JobDefinitionName string `glazed:"job-definition-name"`
	Status            string `glazed:"status"`
	ShowEnvironment   bool   `glazed:"show-environment"`
}

func NewJobDefinitionsCommand() (*JobDefinitionsCommand, error) {
	cd := gcmds.NewCommandDescription(
		"job-definitions",
		gcmds.WithShort("List the revisions of a Batch job definition"),
		gcmds.WithFlags(
			fields.New("job-definition-name", fields.TypeString, fields.WithDefault(jobdef.DefaultName), fields.WithHelp("Job definition name")),
			fields.New("status", fields.TypeString, fields.WithDefault(""), fields.WithHelp("Only list revisions with this status (ACTIVE|INACTIVE)")),
			fields.New("show-environment", fields.TypeBool, fields.WithDefault(false), fields.WithHelp("Include the container environment")),
		),
	)
	_, err := awslayer.AddAWSLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &JobDefinitionsCommand{cd}, nil
}

// Glaze-style command producing structured rows
func (c *JobDefinitionsCommand) RunIntoGlazeProcessor(ctx context.Context, parsed *values.Values, gp middlewares.Processor) error {
	s := &JobDefinitionsSettings{}
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

	defs, err := client.DescribeJobDefinitions(ctx2, s.JobDefinitionName, s.Status)
	if err != nil {
		return err
	}

	for _, row := range jobDefinitionRows(defs, s.ShowEnvironment) {
		if err := gp.AddRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

// jobDefinitionRows builds one row per revision. Exactly one row is marked
// latest: the revision config-from-job-definition would read.
func jobDefinitionRows(defs []jobdef.JobDefinition, showEnvironment bool) []types.Row {
	// an empty listing is not an error here, only for config generation
	latest, _ := jobdef.LatestIndex(defs)

	rows := make([]types.Row, 0, len(defs))
	for i, d := range defs {
		pairs := []types.MapRowPair{
			types.MRP("name", d.Name),
			types.MRP("revision", d.Revision),
			types.MRP("status", d.Status),
			types.MRP("image", d.Image),
			types.MRP("job_role_arn", d.JobRoleARN),
			types.MRP("latest", i == latest),
		}
		if showEnvironment {
			env := make(map[string]string, len(d.Environment))
			for _, kv := range d.Environment {
				env[kv.Name] = kv.Value
			}
			pairs = append(pairs, types.MRP("environment", env))
		}
		rows = append(rows, types.NewRow(pairs...))
	}
	return rows
}

var _ gcmds.GlazeCommand = &JobDefinitionsCommand{}
