package jobdef

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatestPicksHighestRevision(t *testing.T) {
	orders := [][]int{{1, 3, 2}, {3, 2, 1}, {2, 1, 3}}
	for _, order := range orders {
		var defs []JobDefinition
		for _, r := range order {
			defs = append(defs, JobDefinition{Name: DefaultName, Revision: r})
		}
		got, err := Latest(defs)
		require.NoError(t, err)
		assert.Equal(t, 3, got.Revision, "order %v", order)
	}
}

func TestLatestTieTakesFirst(t *testing.T) {
	defs := []JobDefinition{
		{Revision: 2, ARN: "arn:first"},
		{Revision: 1, ARN: "arn:old"},
		{Revision: 2, ARN: "arn:second"},
	}
	got, err := Latest(defs)
	require.NoError(t, err)
	assert.Equal(t, "arn:first", got.ARN)
}

func TestLatestEmpty(t *testing.T) {
	_, err := Latest(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoJobDefinitions))
}

func TestLatestIndex(t *testing.T) {
	tests := []struct {
		name      string
		revisions []int
		want      int
	}{
		{"single", []int{4}, 0},
		{"highest last", []int{1, 2, 5}, 2},
		{"highest first", []int{5, 2, 1}, 0},
		{"tie keeps first", []int{1, 3, 2, 3}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var defs []JobDefinition
			for _, r := range tt.revisions {
				defs = append(defs, JobDefinition{Revision: r})
			}
			got, err := LatestIndex(defs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	idx, err := LatestIndex(nil)
	assert.ErrorIs(t, err, ErrNoJobDefinitions)
	assert.Equal(t, -1, idx)
}

func TestValidateStatus(t *testing.T) {
	for _, s := range []string{"", "ACTIVE", "INACTIVE"} {
		assert.NoError(t, ValidateStatus(s), s)
	}
	for _, s := range []string{"active", "DELETED", " ACTIVE"} {
		assert.Error(t, ValidateStatus(s), s)
	}
}
