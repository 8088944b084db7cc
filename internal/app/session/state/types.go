// Package state provides session state management.
package state

// Scope identifies a family of asynchronous loads guarded against staleness.
type Scope int

const (
	ScopeStatic   Scope = iota // Curated list enrichment
	ScopePersonal              // Persistence service fetches
	ScopeAdHoc                 // Enrichment of pasted links
)

// String returns the string representation of the scope.
func (s Scope) String() string {
	switch s {
	case ScopeStatic:
		return "static"
	case ScopePersonal:
		return "personal"
	case ScopeAdHoc:
		return "adhoc"
	default:
		return "unknown"
	}
}

// Token identifies one asynchronous load. A token is current until a newer
// load of the same scope begins or the scope is invalidated.
type Token struct {
	Scope      Scope
	Generation uint64
}
