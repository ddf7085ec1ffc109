package query

import (
	"testing"

	"sol-backend/application/ports"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	r := ports.Record{"source": "chat", "created_at": "2024-02-01T00:00:00.000000Z"}

	assert.True(t, Matches(r, nil))
	assert.True(t, Matches(r, []ports.Filter{{Field: "source", Op: ports.OpEq, Value: "chat"}}))
	assert.False(t, Matches(r, []ports.Filter{{Field: "source", Op: ports.OpEq, Value: "document"}}))
	assert.True(t, Matches(r, []ports.Filter{{Field: "created_at", Op: ports.OpGte, Value: "2024-02-01T00:00:00.000000Z"}}))
	assert.False(t, Matches(r, []ports.Filter{{Field: "created_at", Op: ports.OpGt, Value: "2024-02-01T00:00:00.000000Z"}}))
	assert.True(t, Matches(r, []ports.Filter{{Field: "created_at", Op: ports.OpLt, Value: "2024-03-01"}}))
	assert.False(t, Matches(r, []ports.Filter{{Field: "missing", Op: ports.OpEq, Value: ""}}))
}

func TestApply_SortAscending(t *testing.T) {
	in := []ports.Record{{"id": "b"}, {"id": "c"}, {"id": "a"}}
	out := Apply(in, ports.Query{SortField: "id"})
	assert.Equal(t, []string{"a", "b", "c"}, []string{out[0].ID(), out[1].ID(), out[2].ID()})
	assert.Equal(t, "b", in[0].ID())
}
