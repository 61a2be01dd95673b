package theme

import (
	"errors"
	"maps"
	"slices"
	"sort"
)

type fakeElement struct {
	name    string
	attrs   map[string]string
	classes []string
	data    map[string]string
}

func newFakeElement(name string) *fakeElement {
	return &fakeElement{
		name:  name,
		attrs: make(map[string]string),
		data:  make(map[string]string),
	}
}

func (e *fakeElement) SetAttribute(name, value string) { e.attrs[name] = value }
func (e *fakeElement) RemoveAttribute(name string)     { delete(e.attrs, name) }

func (e *fakeElement) AddClass(names ...string) {
	for _, n := range names {
		if !slices.Contains(e.classes, n) {
			e.classes = append(e.classes, n)
		}
	}
}

func (e *fakeElement) RemoveClass(names ...string) {
	e.classes = slices.DeleteFunc(e.classes, func(c string) bool {
		return slices.Contains(names, c)
	})
}

func (e *fakeElement) SetData(key, value string) { e.data[key] = value }
func (e *fakeElement) RemoveData(key string)     { delete(e.data, key) }

// snapshot returns a comparable view of the element state.
type elementState struct {
	Attrs   map[string]string
	Classes []string
	Data    map[string]string
}

func (e *fakeElement) snapshot() elementState {
	classes := slices.Clone(e.classes)
	sort.Strings(classes)
	return elementState{
		Attrs:   maps.Clone(e.attrs),
		Classes: classes,
		Data:    maps.Clone(e.data),
	}
}

type fakeResolver struct {
	root      *fakeElement
	body      *fakeElement
	selectors map[string][]*fakeElement

	rootCalls  int
	bodyCalls  int
	queryCalls int
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		root:      newFakeElement("html"),
		body:      newFakeElement("body"),
		selectors: make(map[string][]*fakeElement),
	}
}

func (r *fakeResolver) Root() Element {
	r.rootCalls++
	if r.root == nil {
		return nil
	}
	return r.root
}

func (r *fakeResolver) Body() Element {
	r.bodyCalls++
	if r.body == nil {
		return nil
	}
	return r.body
}

func (r *fakeResolver) QueryAll(selector string) []Element {
	r.queryCalls++
	var out []Element
	for _, el := range r.selectors[selector] {
		out = append(out, el)
	}
	return out
}

func (r *fakeResolver) resolutions() int {
	return r.rootCalls + r.bodyCalls + r.queryCalls
}

var errStorage = errors.New("storage unavailable")

type fakeStorage struct {
	items    map[string]string
	getErr   error
	setErr   error
	setCalls int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{items: make(map[string]string)}
}

func (s *fakeStorage) GetItem(key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.items[key]
	return v, ok, nil
}

func (s *fakeStorage) SetItem(key, value string) error {
	s.setCalls++
	if s.setErr != nil {
		return s.setErr
	}
	s.items[key] = value
	return nil
}

func (s *fakeStorage) RemoveItem(key string) error {
	delete(s.items, key)
	return nil
}

type recorder struct {
	changes []Change
}

func (r *recorder) record(c Change) {
	r.changes = append(r.changes, c)
}
