package jsonapi

// Binder is the external "URI template binding" collaborator: it resolves
// a relationship's uri_template against the owning entity into a concrete
// "related" link.
type Binder interface {
	Bind(template string, entity interface{}) (string, error)
}
