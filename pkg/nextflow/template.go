package nextflow

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"
)

const (
	// Executor is the Nextflow executor written into every config.
	Executor = "awsbatch"
	// CLIPath is the AWS CLI location inside the Batch job AMI.
	CLIPath = "/home/ec2-user/miniconda/bin/aws"
)

const configTemplate = `
workDir = "{{ .WorkDir }}"
process.executor = "{{ .Executor }}"
process.queue = "{{ .Queue }}"
aws.batch.cliPath = "{{ .CLIPath }}"
`

// Config holds the values needed for a Nextflow config running on AWS Batch.
type Config struct {
	WorkDir string
	Queue   string
}

type configTemplateData struct {
	WorkDir  string
	Queue    string
	Executor string
	CLIPath  string
}

// Render renders c with the built-in template.
func (c Config) Render() (string, error) {
	return c.RenderTemplate(configTemplate)
}

// RenderTemplate renders c using a custom Go template. The template sees
// .WorkDir, .Queue, .Executor and .CLIPath. The result is trimmed.
func (c Config) RenderTemplate(s string) (string, error) {
	tmpl, err := template.New("config").Option("missingkey=error").Parse(s)
	if err != nil {
		return "", fmt.Errorf("failed to parse config template: %w", err)
	}
	var buf bytes.Buffer
	data := configTemplateData{
		WorkDir:  c.WorkDir,
		Queue:    c.Queue,
		Executor: Executor,
		CLIPath:  CLIPath,
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render config template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// RenderFile renders c with the template stored at path, or with the built-in
// template when path is empty.
func (c Config) RenderFile(path string) (string, error) {
	if path == "" {
		return c.Render()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", path, err)
	}
	return c.RenderTemplate(string(b))
}
