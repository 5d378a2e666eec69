package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

type Op string

const (
	OpAdd     Op = "add"
	OpReplace Op = "replace"
	OpRemove  Op = "remove"
)

// Anchor pins a patch to the array element whose Field equals Value, so the
// patch follows that element when the list is reordered or refetched.
type Anchor struct {
	Field string
	Value string
}

// Patch is a single path-based change to a cached JSON document. Paths use
// gjson/sjson syntax and are relative to the anchored element when Anchor is set.
type Patch struct {
	Op     Op
	Path   string
	Value  json.RawMessage
	Anchor *Anchor
}

func (p Patch) resolve(doc []byte) (string, bool) {
	if p.Anchor == nil {
		return p.Path, true
	}

	index, ok := findIndex(doc, p.Anchor.Field, p.Anchor.Value)
	if !ok {
		return "", false
	}

	path := strconv.Itoa(index)
	if p.Path != "" {
		path += "." + p.Path
	}
	return path, true
}

// apply returns doc unchanged when the anchored element no longer exists.
func (p Patch) apply(doc []byte) ([]byte, error) {
	path, ok := p.resolve(doc)
	if !ok {
		return doc, nil
	}

	var (
		out []byte
		err error
	)
	switch p.Op {
	case OpRemove:
		out, err = sjson.DeleteBytes(doc, path)
	case OpAdd, OpReplace:
		out, err = sjson.SetRawBytes(doc, path, p.Value)
	default:
		return doc, fmt.Errorf("unsupported patch op %q", p.Op)
	}
	if err != nil {
		return doc, fmt.Errorf("apply %s patch at %q: %w", p.Op, path, err)
	}

	return out, nil
}

func applyPatches(doc []byte, patches []Patch) ([]byte, error) {
	out := doc
	for _, patch := range patches {
		next, err := patch.apply(out)
		if err != nil {
			return doc, err
		}
		out = next
	}
	return out, nil
}

func findIndex(doc []byte, field, value string) (int, bool) {
	root := gjson.ParseBytes(doc)
	if !root.IsArray() {
		return 0, false
	}

	index, i := -1, 0
	root.ForEach(func(_, elem gjson.Result) bool {
		if elem.Get(field).String() == value {
			index = i
			return false
		}
		i++
		return true
	})

	return index, index >= 0
}

// Draft is a mutable view of a cached document handed to update recipes.
// Every change is recorded together with its inverse.
type Draft struct {
	doc     []byte
	patches []Patch
	inverse []Patch
}

func newDraft(doc []byte) *Draft {
	return &Draft{doc: cloneBytes(doc)}
}

func (d *Draft) Root() gjson.Result {
	return gjson.ParseBytes(d.doc)
}

func (d *Draft) Get(path string) gjson.Result {
	return gjson.GetBytes(d.doc, path)
}

func (d *Draft) Set(path string, value any) error {
	return d.set(nil, path, value)
}

// SetWhere sets path inside the first array element whose field equals match.
// It reports false and changes nothing when no element matches.
func (d *Draft) SetWhere(field, match, path string, value any) (bool, error) {
	if _, ok := findIndex(d.doc, field, match); !ok {
		return false, nil
	}

	return true, d.set(&Anchor{Field: field, Value: match}, path, value)
}

func (d *Draft) Delete(path string) error {
	prev := gjson.GetBytes(d.doc, path)
	if !prev.Exists() {
		return nil
	}

	forward := Patch{Op: OpRemove, Path: path}
	inverse := Patch{Op: OpAdd, Path: path, Value: json.RawMessage(prev.Raw)}
	return d.record(forward, inverse)
}

func (d *Draft) set(anchor *Anchor, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode patch value at %q: %w", path, err)
	}

	forward := Patch{Op: OpReplace, Path: path, Value: raw, Anchor: anchor}
	resolved, _ := forward.resolve(d.doc)
	prev := gjson.GetBytes(d.doc, resolved)

	var inverse Patch
	if prev.Exists() {
		if prev.Raw == string(raw) {
			return nil
		}
		inverse = Patch{Op: OpReplace, Path: path, Value: json.RawMessage(prev.Raw), Anchor: anchor}
	} else {
		forward.Op = OpAdd
		inverse = Patch{Op: OpRemove, Path: path, Anchor: anchor}
	}

	return d.record(forward, inverse)
}

func (d *Draft) record(forward, inverse Patch) error {
	out, err := forward.apply(d.doc)
	if err != nil {
		return err
	}

	d.doc = out
	d.patches = append(d.patches, forward)
	d.inverse = append([]Patch{inverse}, d.inverse...)
	return nil
}

// PatchResult describes changes applied to one cache entry. Undo applies the
// inverse patches to the entry's current document, leaving unrelated changes in place.
type PatchResult struct {
	ID      string
	Key     Key
	Patches []Patch
	Inverse []Patch

	cache  *Cache
	undone bool
}

func (r *PatchResult) Empty() bool {
	return r == nil || len(r.Patches) == 0
}

func (r *PatchResult) Undo(ctx context.Context) error {
	if r.Empty() || r.cache == nil {
		return nil
	}
	return r.cache.undo(ctx, r)
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
