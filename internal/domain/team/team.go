// Package team canonicalizes free-text team names and tags each one with the
// league party it belongs to.
package team

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Side identifies which league party a team is.
type Side int

const (
	// Other is any third-party or CPU opponent.
	Other Side = iota
	// PrimaryA is the first tracked party.
	PrimaryA
	// PrimaryB is the second tracked party.
	PrimaryB
)

func (s Side) String() string {
	switch s {
	case PrimaryA:
		return "A"
	case PrimaryB:
		return "B"
	default:
		return "Other"
	}
}

// Party is a resolved team: its canonical name plus its side.
type Party struct {
	Side Side
	Name string
}

// IsPrimary reports whether the party is one of the two tracked parties.
func (p Party) IsPrimary() bool { return p.Side != Other }

// Profile describes a primary party.
type Profile struct {
	Name     string
	Aliases  []string
	Division string
	Coach    string
}

// DefaultProfiles returns the two parties the league was founded with.
func DefaultProfiles() (Profile, Profile) {
	return Profile{
			Name:     "Akron",
			Aliases:  []string{"akron", "zips"},
			Division: "MAC East",
			Coach:    "Kyle",
		}, Profile{
			Name:     "Kent State",
			Aliases:  []string{"kent", "kent state", "golden flashes"},
			Division: "MAC West",
			Coach:    "Nick",
		}
}

const defaultOtherDivision = "CPU Land"

// Normalizer maps raw names to canonical names. It is immutable after
// construction and safe for concurrent use.
type Normalizer struct {
	profiles      [3]Profile // indexed by Side; Other is unused
	aliases       map[string]Side
	otherDivision string
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithOtherDivision sets the division label reported for non-primary teams.
func WithOtherDivision(division string) Option {
	return func(n *Normalizer) {
		if division != "" {
			n.otherDivision = division
		}
	}
}

// NewNormalizer builds a Normalizer for the two primary parties. Each party's
// own name always resolves to that party. When an alias is claimed by both
// parties, PrimaryA keeps it.
func NewNormalizer(a, b Profile, opts ...Option) *Normalizer {
	n := &Normalizer{
		aliases:       make(map[string]Side),
		otherDivision: defaultOtherDivision,
	}
	for _, opt := range opts {
		opt(n)
	}

	parties := [...]struct {
		side Side
		p    Profile
	}{{PrimaryA, a}, {PrimaryB, b}}

	for _, e := range parties {
		e.p.Name = collapse(e.p.Name)
		n.profiles[e.side] = e.p
		n.claim(e.p.Name, e.side)
	}
	for _, e := range parties {
		for _, alias := range e.p.Aliases {
			n.claim(alias, e.side)
		}
	}
	return n
}

// claim maps name to side unless an earlier claim holds it.
func (n *Normalizer) claim(name string, side Side) {
	key := Key(name)
	if key == "" {
		return
	}
	if _, taken := n.aliases[key]; !taken {
		n.aliases[key] = side
	}
}

// Key is the lookup form of a name: whitespace collapsed and lower-cased.
func Key(name string) string {
	return strings.ToLower(collapse(name))
}

// DefaultNormalizer returns a Normalizer over DefaultProfiles.
func DefaultNormalizer() *Normalizer {
	a, b := DefaultProfiles()
	return NewNormalizer(a, b)
}

// Normalize returns the canonical name for raw. It never fails and
// Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(raw string) string {
	return n.Resolve(raw).Name
}

// Resolve canonicalizes raw and reports which party it is.
func (n *Normalizer) Resolve(raw string) Party {
	name := collapse(raw)
	if side, ok := n.aliases[Key(name)]; ok {
		return Party{Side: side, Name: n.profiles[side].Name}
	}
	return Party{Side: Other, Name: titleCase(name)}
}

// Profile returns the configured profile for a primary side.
func (n *Normalizer) Profile(side Side) Profile {
	if side == Other {
		return Profile{Division: n.otherDivision}
	}
	return n.profiles[side]
}

// Division returns the division label for p.
func (n *Normalizer) Division(p Party) string {
	if !p.IsPrimary() {
		return n.otherDivision
	}
	return n.profiles[p.Side].Division
}

// Coach returns the coach of a primary party, or "" for anyone else.
func (n *Normalizer) Coach(p Party) string {
	if !p.IsPrimary() {
		return ""
	}
	return n.profiles[p.Side].Coach
}

// collapse trims s and folds internal whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// titleCase upper-cases the first letter of every space-separated word and
// leaves the rest of the word untouched.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
