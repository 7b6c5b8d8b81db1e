package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderBy(t *testing.T) {
	allowed := map[string]bool{"due_date": true, "priority": true}
	fallback := DBOrdering{Field: "created_at"}

	tests := []struct {
		name      string
		orderings []DBOrdering
		want      string
	}{
		{name: "no orderings", want: " ORDER BY created_at DESC"},
		{
			name:      "allowed fields",
			orderings: []DBOrdering{{Field: "due_date", Ascending: true}, {Field: "priority"}},
			want:      " ORDER BY due_date ASC, priority DESC",
		},
		{
			name:      "unknown fields are dropped",
			orderings: []DBOrdering{{Field: "password; DROP TABLE tasks"}, {Field: "priority", Ascending: true}},
			want:      " ORDER BY priority ASC",
		},
		{
			name:      "only unknown fields",
			orderings: []DBOrdering{{Field: "lol"}},
			want:      " ORDER BY created_at DESC",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrderBy(tt.orderings, allowed, fallback))
		})
	}
}

func TestStringList(t *testing.T) {
	val, err := StringList(nil).Value()
	assert.NoError(t, err)
	assert.Equal(t, "[]", val)

	val, err = StringList{"exam"}.Value()
	assert.NoError(t, err)
	assert.Equal(t, `["exam"]`, val)

	var l StringList
	assert.NoError(t, l.Scan([]byte(`["exam","week 3"]`)))
	assert.Equal(t, StringList{"exam", "week 3"}, l)

	assert.Error(t, l.Scan(42))
}
