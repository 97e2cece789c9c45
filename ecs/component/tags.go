package component

// Tag carries the entity kind. Every simulated entity has exactly one.
type Tag struct {
	Kind EntityKind
}

var TagComponent = NewComponent[Tag]()
