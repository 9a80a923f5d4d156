package cmds

import (
	"context"

	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/types"

	"github.com/go-go-golems/nextflow-aws-config/pkg/awsclient"
	"github.com/go-go-golems/nextflow-aws-config/pkg/awslayer"
	"github.com/go-go-golems/nextflow-aws-config/pkg/extract"
)

type ExportsCommand struct{ *gcmds.CommandDescription }

type ExportsSettings struct {
	Key string `glazed:"key"`
}

func NewExportsCommand() (*ExportsCommand, error) {
	cd := gcmds.NewCommandDescription(
		"exports",
		gcmds.WithShort("List CloudFormation exports, optionally only those matching a key"),
		gcmds.WithFlags(
			fields.New("key", fields.TypeString, fields.WithShortFlag("k"), fields.WithHelp("Only show exports whose name contains '-<key>'")),
		),
	)
	_, err := awslayer.AddAWSLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &ExportsCommand{cd}, nil
}

// GlazeCommand: output structured rows
func (c *ExportsCommand) RunIntoGlazeProcessor(ctx context.Context, parsed *values.Values, gp middlewares.Processor) error {
	s := &ExportsSettings{}
	if err := parsed.DecodeSectionInto(schema.DefaultSlug, s); err != nil {
		return err
	}

	ctx2, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	client, err := awslayer.NewClientFromValues(ctx2, parsed)
	if err != nil {
		return err
	}

	exports, err := client.ListExports(ctx2)
	if err != nil {
		return err
	}

	for _, row := range exportRows(exports, s.Key) {
		if err := gp.AddRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

// exportRows builds one row per export matching key. With a key, rows carry a
// selected column marking the export the generation commands would use.
func exportRows(exports []awsclient.Export, key string) []types.Row {
	matches := matchingExports(exports, key)
	rows := make([]types.Row, 0, len(matches))
	for i, e := range matches {
		pairs := []types.MapRowPair{
			types.MRP("name", e.Name),
			types.MRP("value", e.Value),
			types.MRP("exporting_stack_id", e.ExportingStackID),
		}
		if key != "" {
			// the first match is the one generation commands use
			pairs = append(pairs, types.MRP("selected", i == 0))
		}
		rows = append(rows, types.NewRow(pairs...))
	}
	return rows
}

// matchingExports returns all exports when key is empty, otherwise the exports
// the export rule matches for key, in API order.
func matchingExports(exports []awsclient.Export, key string) []awsclient.Export {
	if key == "" {
		return exports
	}
	var ret []awsclient.Export
	for _, e := range exports {
		if extract.ExportName(e.Name, key) {
			ret = append(ret, e)
		}
	}
	return ret
}

var _ gcmds.GlazeCommand = &ExportsCommand{}
