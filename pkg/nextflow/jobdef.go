package nextflow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-go-golems/nextflow-aws-config/pkg/jobdef"
)

const (
	jobDefinitionType = "container"
	headJobVCPUs      = 2
	headJobMemory     = 1024
)

// Environment variable names read by the Nextflow head job container.
const (
	EnvLogsDir  = "NF_LOGSDIR"
	EnvJobQueue = "NF_JOB_QUEUE"
	EnvWorkDir  = "NF_WORKDIR"
)

// JobDefinitionValues holds everything resolved from the environment that
// the head job definition needs.
type JobDefinitionValues struct {
	Image      string
	JobRoleARN string
	LogsDir    string
	JobQueue   string
	WorkDir    string
}

// JobDefinition is a Batch container job definition document. Field order
// matches the document as registered with `aws batch register-job-definition`.
type JobDefinition struct {
	JobDefinitionName   string              `json:"jobDefinitionName" yaml:"jobDefinitionName"`
	Type                string              `json:"type" yaml:"type"`
	ContainerProperties ContainerProperties `json:"containerProperties" yaml:"containerProperties"`
}

type ContainerProperties struct {
	Image       string           `json:"image" yaml:"image"`
	VCPUs       int              `json:"vcpus" yaml:"vcpus"`
	Memory      int              `json:"memory" yaml:"memory"`
	JobRoleARN  string           `json:"jobRoleArn" yaml:"jobRoleArn"`
	Environment []EnvironmentVar `json:"environment" yaml:"environment"`
}

type EnvironmentVar struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// NewJobDefinition builds the head job definition from resolved values.
func NewJobDefinition(v JobDefinitionValues) JobDefinition {
	return JobDefinition{
		JobDefinitionName: jobdef.DefaultName,
		Type:              jobDefinitionType,
		ContainerProperties: ContainerProperties{
			Image:      v.Image,
			VCPUs:      headJobVCPUs,
			Memory:     headJobMemory,
			JobRoleARN: v.JobRoleARN,
			Environment: []EnvironmentVar{
				{Name: EnvLogsDir, Value: v.LogsDir},
				{Name: EnvJobQueue, Value: v.JobQueue},
				{Name: EnvWorkDir, Value: v.WorkDir},
			},
		},
	}
}

// Render serializes the document as "json" (two-space indent) or "yaml".
func (j JobDefinition) Render(format string) (string, error) {
	switch format {
	case "", "json":
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(j); err != nil {
			return "", fmt.Errorf("failed to marshal job definition: %w", err)
		}
		return strings.TrimSuffix(buf.String(), "\n"), nil
	case "yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(j); err != nil {
			return "", fmt.Errorf("failed to marshal job definition: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("failed to marshal job definition: %w", err)
		}
		return strings.TrimSuffix(buf.String(), "\n"), nil
	default:
		return "", fmt.Errorf("unsupported job definition format %q", format)
	}
}
