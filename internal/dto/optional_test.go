package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptional_DistinguishesAbsentAndNull(t *testing.T) {
	type payload struct {
		JobFileID Optional[string] `json:"job_file_id"`
	}

	var absent payload
	assert.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.JobFileID.Set)

	var null payload
	assert.NoError(t, json.Unmarshal([]byte(`{"job_file_id": null}`), &null))
	assert.True(t, null.JobFileID.Set)
	assert.Nil(t, null.JobFileID.Value)

	var set payload
	assert.NoError(t, json.Unmarshal([]byte(`{"job_file_id": "abc"}`), &set))
	assert.True(t, set.JobFileID.Set)
	if assert.NotNil(t, set.JobFileID.Value) {
		assert.Equal(t, "abc", *set.JobFileID.Value)
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)

	assert.Equal(t, 4, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
	if assert.NotNil(t, p.NextPage) {
		assert.Equal(t, 3, *p.NextPage)
	}
	if assert.NotNil(t, p.PrevPage) {
		assert.Equal(t, 1, *p.PrevPage)
	}

	last := NewPagination(4, 10, 35)
	assert.False(t, last.HasNext)
	assert.Nil(t, last.NextPage)

	empty := NewPagination(1, 10, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
