package plinth

// ComponentKey provides type-safe component identification.
// Use NewComponentKey to create typed keys for identifiers and aliases.
type ComponentKey[T any] struct {
	id string
}

// NewComponentKey creates a new typed component key.
//
// Example:
//
//	var MailerKey = plinth.NewComponentKey[*Mailer]("mailer")
func NewComponentKey[T any](id string) ComponentKey[T] {
	return ComponentKey[T]{id: id}
}

// TypeKey returns the key of T's canonical name.
func TypeKey[T any]() ComponentKey[T] {
	return ComponentKey[T]{id: TypeName[T]()}
}

// ID returns the identifier of the key.
func (k ComponentKey[T]) ID() string {
	return k.id
}

// GetWithKey resolves a component using a typed key.
//
// Example:
//
//	mailer, err := plinth.GetWithKey(c, MailerKey)
func GetWithKey[T any](c *Container, key ComponentKey[T]) (T, error) {
	return Get[T](c, key.id)
}

// MustWithKey resolves a component using a typed key and panics on error.
func MustWithKey[T any](c *Container, key ComponentKey[T]) T {
	return Must[T](c, key.id)
}

// HasKey checks if a component is available using a typed key.
func HasKey[T any](c *Container, key ComponentKey[T]) bool {
	return c.Has(key.id)
}

// InspectKey returns diagnostic information using a typed key.
func InspectKey[T any](c *Container, key ComponentKey[T]) ComponentInfo {
	return c.Inspect(key.id)
}
