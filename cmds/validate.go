package cmds

import (
	"context"
	"fmt"
	"os"

	gcmds "github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
	"github.com/go-go-golems/glazed/pkg/cmds/values"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/types"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/nextflow-aws-config/pkg/batch"
)

type ValidateCommand struct{ *gcmds.CommandDescription }

type ValidateSettings struct {
	BatchConfig string `glazed:"batch-config"`
}

func NewValidateCommand() (*ValidateCommand, error) {
	cd := gcmds.NewCommandDescription(
		"validate",
		gcmds.WithShort("Check a batch YAML file without calling AWS"),
		gcmds.WithFlags(
			fields.New("batch-config", fields.TypeString, fields.WithRequired(true), fields.WithShortFlag("b"), fields.WithHelp("Path to batch YAML config")),
		),
	)
	return &ValidateCommand{cd}, nil
}

func (c *ValidateCommand) RunIntoGlazeProcessor(ctx context.Context, parsed *values.Values, gp middlewares.Processor) error {
	s := &ValidateSettings{}
	if err := parsed.DecodeSectionInto(schema.DefaultSlug, s); err != nil {
		return err
	}

	data, err := os.ReadFile(s.BatchConfig)
	if err != nil {
		return fmt.Errorf("failed to read batch config: %w", err)
	}
	var cfg batch.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse batch YAML: %w", err)
	}

	for _, r := range validateJobs(cfg.Jobs) {
		row := types.NewRow(
			types.MRP("job", r.Name),
			types.MRP("kind", r.Kind),
			types.MRP("output", r.Output),
			types.MRP("status", r.Status),
			types.MRP("error", r.Error),
		)
		if err := gp.AddRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}

type jobCheck struct {
	Name   string
	Kind   string
	Output string
	Status string
	Error  string
}

// validateJobs reports every job rather than stopping at the first problem.
func validateJobs(jobs []batch.Job) []jobCheck {
	seen := map[string]int{}
	ret := make([]jobCheck, 0, len(jobs))
	for i, job := range jobs {
		r := jobCheck{Name: job.Name, Kind: job.Kind, Output: job.Output, Status: "ok"}
		if err := job.Validate(); err != nil {
			r.Status, r.Error = "error", err.Error()
		} else if first, ok := seen[job.Name]; ok {
			r.Status, r.Error = "error", fmt.Sprintf("duplicate name, first used by job %d", first)
		}
		if _, ok := seen[job.Name]; !ok {
			seen[job.Name] = i + 1
		}
		ret = append(ret, r)
	}
	return ret
}

var _ gcmds.GlazeCommand = &ValidateCommand{}
