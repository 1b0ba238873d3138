package domain

// Registry is a pure lookup over the immutable rule table.
type Registry interface {
	// Get returns the rule for a two-letter state code, or false when the
	// code is unknown.
	Get(stateCode string) (Rule, bool)
	// All returns every configured rule, sorted by state code.
	All() []Rule
}
