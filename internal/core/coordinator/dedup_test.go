package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"togglbar/internal/core/model"
)

func int64Ptr(value int64) *int64 { return &value }
func strPtr(value string) *string { return &value }

func TestDedupEntriesPreservesFirstSeenOrder(t *testing.T) {
	entries := []model.TimeEntry{
		{ID: 1, Description: strPtr("report"), ProjectID: int64Ptr(7)},
		{ID: 2, Description: strPtr("review"), ProjectID: int64Ptr(7)},
		{ID: 3, Description: strPtr("report"), ProjectID: int64Ptr(7)}, // dup of 1
		{ID: 4, Description: strPtr("report"), ProjectID: int64Ptr(8)}, // other project
		{ID: 5, Description: strPtr("review"), ProjectID: int64Ptr(7)}, // dup of 2
	}

	unique := dedupEntries(entries)
	ids := make([]int64, 0, len(unique))
	for _, entry := range unique {
		ids = append(ids, entry.ID)
	}
	assert.Equal(t, []int64{1, 2, 4}, ids)
}

func TestDedupEntriesNilFields(t *testing.T) {
	entries := []model.TimeEntry{
		{ID: 1},                                    // no description, no project
		{ID: 2},                                    // dup of 1
		{ID: 3, Description: strPtr("")},           // "" equals absent description
		{ID: 4, ProjectID: int64Ptr(0)},            // project 0 differs from no project
		{ID: 5, Description: strPtr("report")},     // no project
		{ID: 6, Description: strPtr("report"), ProjectID: int64Ptr(7)},
	}

	unique := dedupEntries(entries)
	ids := make([]int64, 0, len(unique))
	for _, entry := range unique {
		ids = append(ids, entry.ID)
	}
	assert.Equal(t, []int64{1, 4, 5, 6}, ids)
}

func TestDedupEntriesEmpty(t *testing.T) {
	assert.Empty(t, dedupEntries(nil))
}
