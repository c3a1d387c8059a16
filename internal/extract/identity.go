package extract

// Kind is the identity namespace of a field. Same-named fields in different
// artifact types must never share an identity, so the kind is part of every
// registry key. The string forms are the exact namespace labels the upstream
// export uses in INSTANCE TYPE attributes.
type Kind string

const (
	KindSource         Kind = "SOURCE"
	KindTarget         Kind = "TARGET"
	KindTransformField Kind = "TRANSFORMFIELD"
)

// fieldKey is the composite registry key. A field with no NAME attribute
// keys on the empty string — all unnamed fields of one container share the
// slot (preserved behavior of the original export tooling).
type fieldKey struct {
	kind      Kind
	container string
	field     string
}

// Registry assigns a stable positive integer to every (kind, container,
// field) triple. IDs start at 1 and grow in first-encounter order. One
// Registry is owned by one extraction run; it is not safe for concurrent
// mutation.
type Registry struct {
	counter int
	ids     map[fieldKey]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: make(map[fieldKey]int)}
}

// GetOrCreate returns the id for the triple, allocating the next counter
// value on first encounter.
func (r *Registry) GetOrCreate(kind Kind, container, field string) int {
	key := fieldKey{kind: kind, container: container, field: field}
	if id, ok := r.ids[key]; ok {
		return id
	}
	r.counter++
	r.ids[key] = r.counter
	return r.counter
}

// Lookup returns the id for the triple if it was ever registered. It never
// allocates.
func (r *Registry) Lookup(kind Kind, container, field string) (int, bool) {
	id, ok := r.ids[fieldKey{kind: kind, container: container, field: field}]
	return id, ok
}

// Len returns the number of registered identities.
func (r *Registry) Len() int {
	return len(r.ids)
}
