package property

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrInvalidIdentity = errors.New("invalid identity: node is required")

// Identity is the composite key of a stored property.
type Identity struct {
	County string `json:"county"`
	State  string `json:"state"`
	Node   string `json:"node"`
}

func (id Identity) String() string {
	return id.County + "/" + id.State + "/" + id.Node
}

// Resolver turns raw scraper input into a canonical Identity. The defaults
// apply when a scraper omits county or state.
type Resolver struct {
	DefaultCounty string
	DefaultState  string
}

func NewResolver(defaultCounty, defaultState string) *Resolver {
	return &Resolver{
		DefaultCounty: NormalizeCounty(defaultCounty),
		DefaultState:  NormalizeState(defaultState),
	}
}

// Resolve fails with ErrInvalidIdentity when node is blank. The node is only
// trimmed: it is an opaque source token and must round-trip unchanged.
func (r *Resolver) Resolve(county, state, node string) (Identity, error) {
	node = strings.TrimSpace(node)
	if node == "" {
		return Identity{}, ErrInvalidIdentity
	}
	c, s := r.Jurisdiction(county, state)
	if c == "" || s == "" {
		return Identity{}, errors.New("invalid identity: county and state are required")
	}
	return Identity{County: c, State: s, Node: node}, nil
}

// Jurisdiction normalizes a (county, state) pair, filling in defaults.
func (r *Resolver) Jurisdiction(county, state string) (string, string) {
	c := NormalizeCounty(county)
	s := NormalizeState(state)
	if r != nil {
		if c == "" {
			c = r.DefaultCounty
		}
		if s == "" {
			s = r.DefaultState
		}
	}
	return c, s
}

// ResolveField is Resolve for decoded payload fields; null counts as absent.
func (r *Resolver) ResolveField(county, state, node Field[string]) (Identity, error) {
	return r.Resolve(county.Value, state.Value, node.Value)
}

// NormalizeCounty trims and collapses whitespace. Single-case input
// ("orange", "MIAMI-DADE") is title-cased; mixed case is kept as written so
// names like "DeSoto" survive.
func NormalizeCounty(v string) string {
	v = strings.Join(strings.Fields(v), " ")
	if v == "" {
		return ""
	}
	if v == strings.ToLower(v) || v == strings.ToUpper(v) {
		// Casers carry state; one per call keeps this safe for concurrent use.
		return cases.Title(language.English).String(strings.ToLower(v))
	}
	return v
}

func NormalizeState(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}
