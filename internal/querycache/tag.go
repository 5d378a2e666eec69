package querycache

import (
	"encoding/json"
	"fmt"
)

type TagType string

const (
	TagTask      TagType = "Task"
	TagWorkflow  TagType = "Workflow"
	TagUser      TagType = "User"
	TagAnalytics TagType = "Analytics"
)

// Tag labels a cached result. A Tag without ID stands for the whole type.
type Tag struct {
	Type TagType
	ID   string
}

func TypeTag(t TagType) Tag {
	return Tag{Type: t}
}

func IDTag(t TagType, id string) Tag {
	return Tag{Type: t, ID: id}
}

func (t Tag) String() string {
	if t.ID == "" {
		return string(t.Type)
	}
	return string(t.Type) + ":" + t.ID
}

// Invalidates reports whether invalidating t affects a result that provides other.
// A type-only tag hits every tag of that type; an ID tag only hits the identical tag.
func (t Tag) Invalidates(other Tag) bool {
	if t.Type != other.Type {
		return false
	}
	return t.ID == "" || t.ID == other.ID
}

type Key string

// KeyFor builds the cache key of a query from its endpoint name and arguments.
func KeyFor(endpoint string, args any) Key {
	if args == nil {
		return Key(endpoint + "()")
	}

	encoded, err := json.Marshal(args)
	if err != nil {
		return Key(fmt.Sprintf("%s(%v)", endpoint, args))
	}

	return Key(endpoint + "(" + string(encoded) + ")")
}
