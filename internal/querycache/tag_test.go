package querycache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagInvalidates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		invalidated Tag
		provided    Tag
		want        bool
	}{
		{name: "type tag hits list tag", invalidated: TypeTag(TagTask), provided: TypeTag(TagTask), want: true},
		{name: "type tag hits id tag", invalidated: TypeTag(TagTask), provided: IDTag(TagTask, "42"), want: true},
		{name: "id tag hits same id", invalidated: IDTag(TagTask, "42"), provided: IDTag(TagTask, "42"), want: true},
		{name: "id tag misses other id", invalidated: IDTag(TagTask, "42"), provided: IDTag(TagTask, "7"), want: false},
		{name: "id tag misses list tag", invalidated: IDTag(TagTask, "42"), provided: TypeTag(TagTask), want: false},
		{name: "other type", invalidated: TypeTag(TagWorkflow), provided: TypeTag(TagTask), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.invalidated.Invalidates(tt.provided))
		})
	}
}

func TestTagString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Task", TypeTag(TagTask).String())
	assert.Equal(t, "Task:42", IDTag(TagTask, "42").String())
}

func TestKeyFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Key("getTasks()"), KeyFor("getTasks", nil))
	assert.Equal(t, Key(`getTask("42")`), KeyFor("getTask", "42"))
	assert.Equal(t, Key(`search({"a":1,"b":2})`), KeyFor("search", map[string]int{"b": 2, "a": 1}))
}
