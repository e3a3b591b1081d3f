package format

import (
	"errors"
	"fmt"
)

// Registry is an ordered, immutable list of formats. Earlier entries win.
type Registry struct {
	formats []TimestampFormat
	byID    map[string]int
}

// NewRegistry builds a registry that tries formats in the given order.
func NewRegistry(formats ...TimestampFormat) (*Registry, error) {
	if len(formats) == 0 {
		return nil, errors.New("registry has no formats")
	}
	r := &Registry{
		formats: make([]TimestampFormat, len(formats)),
		byID:    make(map[string]int, len(formats)),
	}
	for i, f := range formats {
		if f.re == nil {
			return nil, fmt.Errorf("format #%d was not built with format.New", i)
		}
		if j, dup := r.byID[f.id]; dup {
			return nil, fmt.Errorf("duplicate format id %q at positions %d and %d", f.id, j, i)
		}
		r.byID[f.id] = i
		r.formats[i] = f
	}
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(formats ...TimestampFormat) *Registry {
	r, err := NewRegistry(formats...)
	if err != nil {
		panic(err)
	}
	return r
}

// Formats returns the formats in priority order. The slice is a copy.
func (r *Registry) Formats() []TimestampFormat {
	out := make([]TimestampFormat, len(r.formats))
	copy(out, r.formats)
	return out
}

// Len returns the number of formats.
func (r *Registry) Len() int { return len(r.formats) }

// At returns the i-th format in priority order.
func (r *Registry) At(i int) TimestampFormat { return r.formats[i] }

// Lookup returns the format with the given id.
func (r *Registry) Lookup(id string) (TimestampFormat, bool) {
	i, ok := r.byID[id]
	if !ok {
		return TimestampFormat{}, false
	}
	return r.formats[i], true
}

// Append returns a new registry with extra formats tried after r's.
func (r *Registry) Append(formats ...TimestampFormat) (*Registry, error) {
	all := make([]TimestampFormat, 0, len(r.formats)+len(formats))
	all = append(all, r.formats...)
	all = append(all, formats...)
	return NewRegistry(all...)
}

// Shadow names a format that can never win because an earlier format
// accepts exactly the same inputs.
type Shadow struct {
	Format   string
	ShadowBy string
}

func (s Shadow) String() string {
	return fmt.Sprintf("format %q is unreachable: %q accepts the same inputs", s.Format, s.ShadowBy)
}

// Shadowed lists formats whose compiled shape is identical to an earlier
// format's, e.g. "%Y-%m-%d" followed by "%Y-%d-%m".
func (r *Registry) Shadowed() []Shadow {
	var out []Shadow
	first := make(map[string]string, len(r.formats))
	for _, f := range r.formats {
		if prev, ok := first[f.skeleton]; ok {
			out = append(out, Shadow{Format: f.id, ShadowBy: prev})
			continue
		}
		first[f.skeleton] = f.id
	}
	return out
}
