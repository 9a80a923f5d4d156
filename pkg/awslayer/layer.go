package awslayer

import (
	"context"
	"fmt"

	glzcmds "github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/fields"
	"github.com/go-go-golems/glazed/pkg/cmds/schema"
	"github.com/go-go-golems/glazed/pkg/cmds/values"

	"github.com/go-go-golems/nextflow-aws-config/pkg/awsclient"
)

const AWSLayerSlug = "aws"

type AWSSettings struct {
	Region      string `glazed:"aws-region"`
	Profile     string `glazed:"aws-profile"`
	EndpointURL string `glazed:"aws-endpoint-url"`
}

// NewAWSLayer defines a reusable section for AWS connection settings.
// Empty values leave the decision to the SDK's default credential and region
// chain.
func NewAWSLayer() (schema.Section, error) {
	return schema.NewSection(
		AWSLayerSlug,
		"AWS connection settings",
		schema.WithFields(
			fields.New(
				"aws-region",
				fields.TypeString,
				fields.WithHelp("AWS region (default from AWS_REGION or shared config)"),
				fields.WithDefault(""),
			),
			fields.New(
				"aws-profile",
				fields.TypeString,
				fields.WithHelp("Shared config profile (default from AWS_PROFILE)"),
				fields.WithDefault(""),
			),
			fields.New(
				"aws-endpoint-url",
				fields.TypeString,
				fields.WithHelp("Override the service endpoint URL, e.g. for LocalStack"),
				fields.WithDefault(""),
			),
		),
	)
}

// AddAWSLayerToCommand attaches the section to a Glazed command description.
func AddAWSLayerToCommand(c glzcmds.Command) (glzcmds.Command, error) {
	l, err := NewAWSLayer()
	if err != nil {
		return nil, err
	}
	c.Description().Schema.Set(AWSLayerSlug, l)
	return c, nil
}

// GetAWSSettings returns the parsed AWS settings.
func GetAWSSettings(parsed *values.Values) (*AWSSettings, error) {
	var s AWSSettings
	if err := parsed.DecodeSectionInto(AWSLayerSlug, &s); err != nil {
		return nil, fmt.Errorf("failed to parse aws settings: %w", err)
	}
	return &s, nil
}

// Options converts the settings to client options.
func (s *AWSSettings) Options() awsclient.Options {
	return awsclient.Options{
		Region:      s.Region,
		Profile:     s.Profile,
		EndpointURL: s.EndpointURL,
	}
}

// NewClientFromValues reads the aws section and creates an AWS client.
func NewClientFromValues(ctx context.Context, parsed *values.Values) (*awsclient.Client, error) {
	s, err := GetAWSSettings(parsed)
	if err != nil {
		return nil, err
	}
	client, err := awsclient.NewClient(ctx, s.Options())
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS client: %w", err)
	}
	return client, nil
}
