package awsclient

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/batch"
	batchtypes "github.com/aws/aws-sdk-go-v2/service/batch/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/nextflow-aws-config/pkg/extract"
)

type fakeCloudFormation struct {
	pages  []*cloudformation.ListExportsOutput
	tokens []*string
	err    error
}

func (f *fakeCloudFormation) ListExports(_ context.Context, params *cloudformation.ListExportsInput, _ ...func(*cloudformation.Options)) (*cloudformation.ListExportsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tokens = append(f.tokens, params.NextToken)
	out := f.pages[0]
	f.pages = f.pages[1:]
	return out, nil
}

type fakeBatch struct {
	pages  []*batch.DescribeJobDefinitionsOutput
	inputs []batch.DescribeJobDefinitionsInput
	err    error
}

func (f *fakeBatch) DescribeJobDefinitions(_ context.Context, params *batch.DescribeJobDefinitionsInput, _ ...func(*batch.Options)) (*batch.DescribeJobDefinitionsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, *params)
	out := f.pages[0]
	f.pages = f.pages[1:]
	return out, nil
}

func export(name, value string) cfntypes.Export {
	return cfntypes.Export{
		Name:             aws.String(name),
		Value:            aws.String(value),
		ExportingStackId: aws.String("arn:aws:cloudformation:us-east-1:123456789012:stack/abc/1"),
	}
}

func TestListExportsFollowsPagesInOrder(t *testing.T) {
	cfn := &fakeCloudFormation{pages: []*cloudformation.ListExportsOutput{
		{Exports: []cfntypes.Export{export("abc-NextflowWorkDir", "s3://w")}, NextToken: aws.String("t1")},
		{Exports: []cfntypes.Export{export("abc-DefaultJobQueue", "queueA"), export("abc-NextflowLogsDir", "s3://l")}},
	}}
	c := NewClientFromAPIs(cfn, nil)

	exports, err := c.ListExports(context.Background())
	require.NoError(t, err)
	require.Len(t, exports, 3)
	assert.Equal(t, "abc-NextflowWorkDir", exports[0].Name)
	assert.Equal(t, "abc-DefaultJobQueue", exports[1].Name)
	assert.Equal(t, "abc-NextflowLogsDir", exports[2].Name)
	assert.Equal(t, "arn:aws:cloudformation:us-east-1:123456789012:stack/abc/1", exports[0].ExportingStackID)

	require.Len(t, cfn.tokens, 2)
	assert.Nil(t, cfn.tokens[0])
	assert.Equal(t, "t1", aws.ToString(cfn.tokens[1]))

	assert.Equal(t, []extract.Record{
		{Name: "abc-NextflowWorkDir", Value: "s3://w"},
		{Name: "abc-DefaultJobQueue", Value: "queueA"},
		{Name: "abc-NextflowLogsDir", Value: "s3://l"},
	}, ExportRecords(exports))
}

func TestListExportsEmpty(t *testing.T) {
	c := NewClientFromAPIs(&fakeCloudFormation{pages: []*cloudformation.ListExportsOutput{{}}}, nil)
	exports, err := c.ListExports(context.Background())
	require.NoError(t, err)
	assert.Empty(t, exports)
}

func TestListExportsError(t *testing.T) {
	apiErr := errors.New("ExpiredToken")
	c := NewClientFromAPIs(&fakeCloudFormation{err: apiErr}, nil)
	_, err := c.ListExports(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apiErr)
}

func TestListExportsWithoutClient(t *testing.T) {
	_, err := NewClientFromAPIs(nil, nil).ListExports(context.Background())
	assert.Error(t, err)
}

func TestDescribeJobDefinitions(t *testing.T) {
	b := &fakeBatch{pages: []*batch.DescribeJobDefinitionsOutput{
		{
			JobDefinitions: []batchtypes.JobDefinition{{
				JobDefinitionName: aws.String("nextflow"),
				JobDefinitionArn:  aws.String("arn:aws:batch:us-east-1:123456789012:job-definition/nextflow:1"),
				Revision:          aws.Int32(1),
				Status:            aws.String("INACTIVE"),
				Type:              aws.String("container"),
			}},
			NextToken: aws.String("next"),
		},
		{
			JobDefinitions: []batchtypes.JobDefinition{{
				JobDefinitionName: aws.String("nextflow"),
				Revision:          aws.Int32(2),
				Status:            aws.String("ACTIVE"),
				ContainerProperties: &batchtypes.ContainerProperties{
					Image:      aws.String("123456789012.dkr.ecr.us-east-1.amazonaws.com/nextflow:latest"),
					JobRoleArn: aws.String("arn:aws:iam::123456789012:role/nextflow"),
					Environment: []batchtypes.KeyValuePair{
						{Name: aws.String("NF_WORKDIR"), Value: aws.String("s3://w2")},
						{Name: aws.String("NF_JOB_QUEUE"), Value: aws.String("queueB")},
					},
				},
			}},
		},
	}}
	c := NewClientFromAPIs(nil, b)

	defs, err := c.DescribeJobDefinitions(context.Background(), "nextflow", "")
	require.NoError(t, err)
	require.Len(t, defs, 2)

	assert.Equal(t, 1, defs[0].Revision)
	assert.Equal(t, "INACTIVE", defs[0].Status)
	assert.Empty(t, defs[0].Environment)

	assert.Equal(t, 2, defs[1].Revision)
	assert.Equal(t, "arn:aws:iam::123456789012:role/nextflow", defs[1].JobRoleARN)
	assert.Equal(t, []extract.Record{
		{Name: "NF_WORKDIR", Value: "s3://w2"},
		{Name: "NF_JOB_QUEUE", Value: "queueB"},
	}, defs[1].Environment)

	require.Len(t, b.inputs, 2)
	assert.Equal(t, "nextflow", aws.ToString(b.inputs[0].JobDefinitionName))
	assert.Nil(t, b.inputs[0].Status)
	assert.Nil(t, b.inputs[0].NextToken)
	assert.Equal(t, "next", aws.ToString(b.inputs[1].NextToken))
}

func TestDescribeJobDefinitionsStatusFilter(t *testing.T) {
	b := &fakeBatch{pages: []*batch.DescribeJobDefinitionsOutput{{}}}
	c := NewClientFromAPIs(nil, b)

	defs, err := c.DescribeJobDefinitions(context.Background(), "nextflow", "ACTIVE")
	require.NoError(t, err)
	assert.Empty(t, defs)
	require.Len(t, b.inputs, 1)
	assert.Equal(t, "ACTIVE", aws.ToString(b.inputs[0].Status))
}

func TestDescribeJobDefinitionsError(t *testing.T) {
	apiErr := errors.New("AccessDeniedException")
	c := NewClientFromAPIs(nil, &fakeBatch{err: apiErr})
	_, err := c.DescribeJobDefinitions(context.Background(), "nextflow", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apiErr)
	assert.Contains(t, err.Error(), "nextflow")
}
