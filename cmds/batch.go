package cmds

import (
	"context"
	"fmt"
	"strings"

	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
	"github.com/go-go-golems/glazed/pkg/cmds/values"

	"github.com/go-go-golems/nextflow-aws-config/pkg/awslayer"
	"github.com/go-go-golems/nextflow-aws-config/pkg/batch"
	"github.com/go-go-golems/nextflow-aws-config/pkg/cmdutil"
	"github.com/go-go-golems/nextflow-aws-config/pkg/nextflow"
	"github.com/go-go-golems/nextflow-aws-config/pkg/output"
)

type BatchCommand struct{ *gcmds.CommandDescription }

type BatchSettings struct {
	Config          string   `glazed:"config"`
	OutputDir       string   `glazed:"output-dir"`
	OutputOverride  string   `glazed:"output"`
	Format          string   `glazed:"format"`
	ContinueOnError bool     `glazed:"continue-on-error"`
	DryRun          bool     `glazed:"dry-run"`
	Jobs            []string `glazed:"jobs"`
	NoColor         bool     `glazed:"no-color"`
}

func NewBatchCommand() (*BatchCommand, error) {
	cd := gcmds.NewCommandDescription(
		"batch",
		gcmds.WithShort("Generate several configs and job definitions from a YAML file"),
		gcmds.WithFlags(
			fields.New("config", fields.TypeString, fields.WithRequired(true), fields.WithHelp("Batch YAML file"), fields.WithShortFlag("c")),
			fields.New("output-dir", fields.TypeString, fields.WithHelp("Directory relative outputs are written to (overrides output_dir)")),
			fields.New("output", fields.TypeString, fields.WithHelp("Override output for all jobs; '-' for stdout")),
			fields.New("format", fields.TypeString, fields.WithHelp("Override job definition format: json|yaml")),
			fields.New("continue-on-error", fields.TypeBool, fields.WithDefault(false), fields.WithHelp("Continue processing on errors")),
			fields.New("dry-run", fields.TypeBool, fields.WithDefault(false), fields.WithHelp("Print outputs to stdout without writing files")),
			fields.New("jobs", fields.TypeStringList, fields.WithHelp("Only process jobs with these names; default all")),
			fields.New("no-color", fields.TypeBool, fields.WithDefault(false), fields.WithHelp("Disable colored progress output")),
		),
	)
	// attach aws layer
	_, err := awslayer.AddAWSLayerToCommand(cd)
	if err != nil {
		return nil, err
	}
	return &BatchCommand{cd}, nil
}

func (c *BatchCommand) Run(ctx context.Context, parsed *values.Values) error {
	s := &BatchSettings{}
	if err := parsed.DecodeSectionInto(schema.DefaultSlug, s); err != nil {
		return err
	}
	switch s.Format {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("invalid format %q: expected json or yaml", s.Format)
	}
	output.InitConsole(s.NoColor)

	cfg, err := batch.LoadConfig(s.Config)
	if err != nil {
		return err
	}
	// Apply job filtering if requested (ignore empty selectors)
	jobs, unknown := cmdutil.FilterItems(cfg.Jobs, s.Jobs, func(j batch.Job) string { return j.Name })
	if len(unknown) > 0 {
		return fmt.Errorf("unknown jobs: %s", strings.Join(unknown, ", "))
	}
	cfg.Jobs = jobs

	ctx2, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	client, err := awslayer.NewClientFromValues(ctx2, parsed)
	if err != nil {
		return err
	}

	proc := batch.Processor{Sources: nextflow.Sources{Exports: client, JobDefinitions: client}}
	return proc.Process(ctx2, cfg, batch.ProcessorOptions{
		OutputDir:       s.OutputDir,
		OutputOverride:  s.OutputOverride,
		FormatOverride:  s.Format,
		ContinueOnError: s.ContinueOnError,
		DryRun:          s.DryRun,
	})
}

var _ gcmds.BareCommand = &BatchCommand{}
