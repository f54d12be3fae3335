package dynamicfields

// Position classifies a serializer's place in a response composition
// tree. It is computed once at tree-assembly time by the caller and
// passed explicitly to Filter.Compute.
type Position int

const (
	// PositionRoot marks the serializer rendering the top-level
	// response object.
	PositionRoot Position = iota

	// PositionListRootChild marks a serializer whose immediate
	// container is the root and renders a collection item.
	PositionListRootChild

	// PositionNested marks any other serializer: a relation, a detail
	// sub-object, or a deeper collection item. Nested serializers are
	// never filtered.
	PositionNested
)

// Filterable reports whether field filtering applies at this position.
func (p Position) Filterable() bool {
	return p == PositionRoot || p == PositionListRootChild
}

// String returns the position name for logs and metrics labels.
func (p Position) String() string {
	switch p {
	case PositionRoot:
		return "root"
	case PositionListRootChild:
		return "list_root_child"
	case PositionNested:
		return "nested"
	default:
		return "unknown"
	}
}
