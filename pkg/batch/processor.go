package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/nextflow-aws-config/pkg/awsclient"
	"github.com/go-go-golems/nextflow-aws-config/pkg/jobdef"
	"github.com/go-go-golems/nextflow-aws-config/pkg/nextflow"
	"github.com/go-go-golems/nextflow-aws-config/pkg/output"
)

type Processor struct {
	Sources nextflow.Sources
	// Stdout receives artifacts written to "-"; Stderr receives progress.
	Stdout io.Writer
	Stderr io.Writer
}

type ProcessorOptions struct {
	OutputDir       string
	OutputOverride  string
	FormatOverride  string
	ContinueOnError bool
	DryRun          bool
}

// LoadConfig reads and validates a batch YAML file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks every job and rejects duplicate job names.
func (c *Config) Validate() error {
	seen := map[string]struct{}{}
	for i, job := range c.Jobs {
		if err := job.Validate(); err != nil {
			return fmt.Errorf("job %d: %w", i+1, err)
		}
		if _, ok := seen[job.Name]; ok {
			return fmt.Errorf("job %d: duplicate name '%s'", i+1, job.Name)
		}
		seen[job.Name] = struct{}{}
	}
	return nil
}

// Validate checks that the job has a name, a known kind and an output, and
// that format, status and template are valid when set.
func (j Job) Validate() error {
	if strings.TrimSpace(j.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !slices.Contains(nextflow.Kinds, nextflow.Kind(j.Kind)) {
		return fmt.Errorf("'%s': unknown kind '%s'", j.Name, j.Kind)
	}
	if strings.TrimSpace(j.Output) == "" {
		return fmt.Errorf("'%s': output is required", j.Name)
	}
	switch j.Format {
	case "", "json", "yaml":
	default:
		return fmt.Errorf("'%s': unknown format '%s'", j.Name, j.Format)
	}
	if err := jobdef.ValidateStatus(j.Status); err != nil {
		return fmt.Errorf("'%s': %w", j.Name, err)
	}
	if j.Template != "" {
		// reading catches directories and unreadable files, not just missing ones
		if _, err := os.ReadFile(j.Template); err != nil {
			return fmt.Errorf("'%s': template: %w", j.Name, err)
		}
	}
	return nil
}

func (p *Processor) Process(ctx context.Context, cfg *Config, opts ProcessorOptions) error {
	// determine output dir (opts overrides YAML, YAML overrides viper)
	outputDir := cfg.OutputDir
	if opts.OutputDir != "" {
		outputDir = opts.OutputDir
	}
	if outputDir == "" {
		outputDir = viper.GetString("batch.output_dir")
	}

	sources := newCachedSources(p.Sources)
	return p.processSequential(ctx, cfg.Jobs, sources, outputDir, opts)
}

func (p *Processor) stderr() io.Writer {
	if p.Stderr == nil {
		return os.Stderr
	}
	return p.Stderr
}

func (p *Processor) processSequential(ctx context.Context, jobs []Job, sources nextflow.Sources, outputDir string, opts ProcessorOptions) error {
	stderr := p.stderr()
	var errors []error
	for i, job := range jobs {
		fmt.Fprintf(stderr, "[%d/%d] %s", i+1, len(jobs), output.SectionHeader(job.Name, job.Description))
		log.Debug().Str("job", job.Name).Str("kind", job.Kind).Msg("batch job start")
		if err := p.processJob(ctx, job, sources, outputDir, opts); err != nil {
			fmt.Fprintln(stderr, output.Warnf("job '%s' failed: %s", job.Name, output.ShortError(err)))
			errors = append(errors, err)
			if !opts.ContinueOnError {
				return fmt.Errorf("job '%s' failed: %w", job.Name, err)
			}
		} else {
			fmt.Fprintln(stderr, output.Successf("  ✓ %s", job.Name))
		}
	}
	if len(errors) > 0 {
		fmt.Fprintln(stderr, output.Notef("Completed with %d errors out of %d jobs", len(errors), len(jobs)))
		return fmt.Errorf("batch processing completed with %d errors", len(errors))
	}
	fmt.Fprintln(stderr, output.Notef("All %d jobs completed successfully", len(jobs)))
	return nil
}

func (p *Processor) processJob(ctx context.Context, job Job, sources nextflow.Sources, outputDir string, opts ProcessorOptions) error {
	format := job.Format
	if opts.FormatOverride != "" {
		format = opts.FormatOverride
	}

	content, err := nextflow.Generate(ctx, sources, nextflow.Request{
		Kind:              nextflow.Kind(job.Kind),
		TemplateFile:      job.Template,
		Format:            format,
		JobDefinitionName: job.JobDefinition,
		Status:            job.Status,
	})
	if err != nil {
		return err
	}
	log.Debug().Int("bytes", len(content)).Str("job", job.Name).Msg("generated content")

	outPath := job.Output
	if opts.OutputOverride != "" {
		outPath = opts.OutputOverride
	}
	if opts.DryRun {
		outPath = "-"
	}
	if outPath != "-" && outputDir != "" && !filepath.IsAbs(outPath) {
		outPath = filepath.Join(outputDir, outPath)
	}
	log.Debug().Str("job", job.Name).Str("output", outPath).Msg("writing job output")

	return output.Write(outPath, []byte(content), output.WriteOptions{Stdout: p.Stdout})
}

// cachedSources fetches each source at most once per batch run. Errors are
// cached as well, so a failing API is not called again by later jobs.
type cachedSources struct {
	next nextflow.Sources

	exportsFetched bool
	exports        []awsclient.Export
	exportsErr     error

	jobDefinitions map[string]jobDefinitionsResult
}

type jobDefinitionsResult struct {
	defs []jobdef.JobDefinition
	err  error
}

func newCachedSources(next nextflow.Sources) nextflow.Sources {
	c := &cachedSources{next: next, jobDefinitions: map[string]jobDefinitionsResult{}}
	var ret nextflow.Sources
	if next.Exports != nil {
		ret.Exports = c
	}
	if next.JobDefinitions != nil {
		ret.JobDefinitions = c
	}
	return ret
}

func (c *cachedSources) ListExports(ctx context.Context) ([]awsclient.Export, error) {
	if !c.exportsFetched {
		c.exports, c.exportsErr = c.next.Exports.ListExports(ctx)
		c.exportsFetched = true
	} else {
		log.Debug().Msg("reusing fetched exports")
	}
	return c.exports, c.exportsErr
}

func (c *cachedSources) DescribeJobDefinitions(ctx context.Context, name string, status string) ([]jobdef.JobDefinition, error) {
	key := name + "|" + status
	res, ok := c.jobDefinitions[key]
	if !ok {
		res.defs, res.err = c.next.JobDefinitions.DescribeJobDefinitions(ctx, name, status)
		c.jobDefinitions[key] = res
	} else {
		log.Debug().Str("name", name).Msg("reusing fetched job definitions")
	}
	return res.defs, res.err
}
