package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/batch"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/nextflow-aws-config/pkg/extract"
	"github.com/go-go-golems/nextflow-aws-config/pkg/jobdef"
)

// CloudFormationAPI is the part of the CloudFormation client used here.
type CloudFormationAPI interface {
	ListExports(ctx context.Context, params *cloudformation.ListExportsInput, optFns ...func(*cloudformation.Options)) (*cloudformation.ListExportsOutput, error)
}

// BatchAPI is the part of the Batch client used here.
type BatchAPI interface {
	DescribeJobDefinitions(ctx context.Context, params *batch.DescribeJobDefinitionsInput, optFns ...func(*batch.Options)) (*batch.DescribeJobDefinitionsOutput, error)
}

var (
	_ CloudFormationAPI = (*cloudformation.Client)(nil)
	_ BatchAPI          = (*batch.Client)(nil)
)

// Options configures how the AWS configuration is loaded. Empty fields fall
// back to the SDK defaults (environment, shared config, instance role).
type Options struct {
	Region      string
	Profile     string
	EndpointURL string
}

// Export is a CloudFormation export.
type Export struct {
	Name             string
	Value            string
	ExportingStackID string
}

// Client wraps the CloudFormation and Batch API clients
type Client struct {
	cfn   CloudFormationAPI
	batch BatchAPI
}

// NewClient loads the AWS configuration and creates the service clients
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	cfnClient := cloudformation.NewFromConfig(cfg, func(o *cloudformation.Options) {
		if opts.EndpointURL != "" {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
		}
	})
	batchClient := batch.NewFromConfig(cfg, func(o *batch.Options) {
		if opts.EndpointURL != "" {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
		}
	})

	log.Debug().Str("region", cfg.Region).Str("profile", opts.Profile).Msg("AWS clients created")
	return NewClientFromAPIs(cfnClient, batchClient), nil
}

// NewClientFromAPIs creates a Client around already constructed service
// clients. Either may be nil if the caller never uses it.
func NewClientFromAPIs(cfnAPI CloudFormationAPI, batchAPI BatchAPI) *Client {
	return &Client{cfn: cfnAPI, batch: batchAPI}
}

// ListExports returns every export visible in the account and region, in the
// order the API returns them across pages.
func (c *Client) ListExports(ctx context.Context) ([]Export, error) {
	if c.cfn == nil {
		return nil, fmt.Errorf("cloudformation client not configured")
	}

	var exports []Export
	var nextToken *string
	for page := 1; ; page++ {
		out, err := c.cfn.ListExports(ctx, &cloudformation.ListExportsInput{NextToken: nextToken})
		if err != nil {
			return nil, fmt.Errorf("failed to list CloudFormation exports: %w", err)
		}
		for _, e := range out.Exports {
			exports = append(exports, Export{
				Name:             aws.ToString(e.Name),
				Value:            aws.ToString(e.Value),
				ExportingStackID: aws.ToString(e.ExportingStackId),
			})
		}
		log.Debug().Int("page", page).Int("exports", len(out.Exports)).Msg("listed exports")
		if aws.ToString(out.NextToken) == "" {
			break
		}
		nextToken = out.NextToken
	}

	return exports, nil
}

// ExportRecords converts exports to name/value records, keeping their order.
func ExportRecords(exports []Export) []extract.Record {
	records := make([]extract.Record, 0, len(exports))
	for _, e := range exports {
		records = append(records, extract.Record{Name: e.Name, Value: e.Value})
	}
	return records
}

// DescribeJobDefinitions returns every revision registered under name. An
// empty status returns revisions of any status.
func (c *Client) DescribeJobDefinitions(ctx context.Context, name string, status string) ([]jobdef.JobDefinition, error) {
	if c.batch == nil {
		return nil, fmt.Errorf("batch client not configured")
	}

	input := &batch.DescribeJobDefinitionsInput{
		JobDefinitionName: aws.String(name),
	}
	if status != "" {
		input.Status = aws.String(status)
	}

	var defs []jobdef.JobDefinition
	for page := 1; ; page++ {
		out, err := c.batch.DescribeJobDefinitions(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to describe job definitions %s: %w", name, err)
		}
		for _, d := range out.JobDefinitions {
			jd := jobdef.JobDefinition{
				Name:     aws.ToString(d.JobDefinitionName),
				ARN:      aws.ToString(d.JobDefinitionArn),
				Revision: int(aws.ToInt32(d.Revision)),
				Status:   aws.ToString(d.Status),
				Type:     aws.ToString(d.Type),
			}
			if cp := d.ContainerProperties; cp != nil {
				jd.Image = aws.ToString(cp.Image)
				jd.JobRoleARN = aws.ToString(cp.JobRoleArn)
				for _, kv := range cp.Environment {
					jd.Environment = append(jd.Environment, extract.Record{
						Name:  aws.ToString(kv.Name),
						Value: aws.ToString(kv.Value),
					})
				}
			}
			defs = append(defs, jd)
		}
		log.Debug().Int("page", page).Int("revisions", len(out.JobDefinitions)).Str("name", name).Msg("described job definitions")
		if aws.ToString(out.NextToken) == "" {
			break
		}
		input.NextToken = out.NextToken
	}

	return defs, nil
}
