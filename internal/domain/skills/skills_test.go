package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "trim and lower", in: "  Python ", want: "python"},
		{name: "already canonical", in: "sql", want: "sql"},
		{name: "blank", in: "   ", want: ""},
		{name: "full width", in: "ＳＱＬ", want: "sql"},
		{name: "inner spaces kept", in: "Power BI", want: "power bi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestNewSet(t *testing.T) {
	s := NewSet("Python", "python ", "", "SQL")

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has("python"))
	assert.True(t, s.Has("sql"))
	assert.False(t, s.Has("Python"))
	assert.Equal(t, []string{"python", "sql"}, s.Sorted())
}

func TestSetZeroValue(t *testing.T) {
	var s Set

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has("go"))
	assert.Empty(t, s.Sorted())
}

func TestUnion(t *testing.T) {
	a := NewSet("go", "sql")
	b := NewSet("sql", "aws")

	u := a.Union(b)

	assert.Equal(t, []string{"aws", "go", "sql"}, u.Sorted())
	assert.Equal(t, 2, a.Len(), "union must not mutate receiver")
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"aws", "go"}, Dedupe([]string{"Go", " AWS", "go"}))
}

func TestPartition(t *testing.T) {
	req, opt := Partition([]string{"SQL", "python", "Excel", "sql"}, []string{"excel", " Docker "})

	assert.Equal(t, []string{"python", "sql"}, req)
	assert.Equal(t, []string{"docker", "excel"}, opt)

	req, opt = Partition(nil, nil)
	assert.Empty(t, req)
	assert.Empty(t, opt)
}
