package dynamicfields

// Field describes a single output field of a serializer.
type Field struct {
	// Name is the emitted (snake_case) field name.
	Name string

	// Index is the struct field index path for reflection-derived
	// fields. Empty for fields built by hand.
	Index []int

	// OmitEmpty indicates the field is dropped from output when its
	// value is the zero value.
	OmitEmpty bool
}

// FieldSet is an ordered mapping from field name to field definition.
// Names are unique; order is the declaration order and is preserved
// through filtering.
type FieldSet struct {
	names  []string
	fields map[string]Field
}

// NewFieldSet creates an empty FieldSet.
func NewFieldSet() *FieldSet {
	return &FieldSet{
		fields: make(map[string]Field),
	}
}

// Add appends a field definition. Adding a name that already exists
// replaces the definition but keeps the original position.
func (fs *FieldSet) Add(f Field) {
	if _, exists := fs.fields[f.Name]; !exists {
		fs.names = append(fs.names, f.Name)
	}
	fs.fields[f.Name] = f
}

// Get returns the definition for the given name.
func (fs *FieldSet) Get(name string) (Field, bool) {
	f, ok := fs.fields[name]
	return f, ok
}

// Has reports whether the set contains the given name.
func (fs *FieldSet) Has(name string) bool {
	_, ok := fs.fields[name]
	return ok
}

// Names returns the field names in declaration order.
func (fs *FieldSet) Names() []string {
	out := make([]string, len(fs.names))
	copy(out, fs.names)
	return out
}

// Len returns the number of fields.
func (fs *FieldSet) Len() int {
	return len(fs.names)
}

// Restrict returns a new FieldSet containing only the names present in
// keep, preserving relative order and field definitions. Names in keep
// that are not in the set are ignored.
func (fs *FieldSet) Restrict(keep map[string]bool) *FieldSet {
	out := NewFieldSet()
	for _, name := range fs.names {
		if keep[name] {
			out.Add(fs.fields[name])
		}
	}
	return out
}
