// Package jobdef models the revisions of a Batch job definition and selects
// the one configuration is read from.
package jobdef

import (
	"errors"
	"fmt"

	"github.com/go-go-golems/nextflow-aws-config/pkg/extract"
)

// DefaultName is the job definition the Nextflow head job is registered under.
const DefaultName = "nextflow"

// ErrNoJobDefinitions is returned when a lookup yields no revisions at all.
var ErrNoJobDefinitions = errors.New("no job definitions found")

// JobDefinition is the subset of a Batch job definition revision this tool reads.
type JobDefinition struct {
	Name        string
	ARN         string
	Revision    int
	Status      string
	Type        string
	Image       string
	JobRoleARN  string
	Environment []extract.Record
}

// ValidateStatus accepts the status filters DescribeJobDefinitions knows.
// The empty string means any status.
func ValidateStatus(status string) error {
	switch status {
	case "", "ACTIVE", "INACTIVE":
		return nil
	}
	return fmt.Errorf("invalid status %q: expected ACTIVE or INACTIVE", status)
}

// Latest returns the revision with the highest revision number. When several
// entries share that number the first one in input order is returned.
func Latest(defs []JobDefinition) (JobDefinition, error) {
	i, err := LatestIndex(defs)
	if err != nil {
		return JobDefinition{}, err
	}
	return defs[i], nil
}

// LatestIndex is Latest, returning the position of the selected entry.
func LatestIndex(defs []JobDefinition) (int, error) {
	if len(defs) == 0 {
		return -1, ErrNoJobDefinitions
	}
	idx := 0
	for i, d := range defs[1:] {
		if d.Revision > defs[idx].Revision {
			idx = i + 1
		}
	}
	return idx, nil
}
