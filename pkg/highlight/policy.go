package highlight

// Policy adjusts a collected classification for a language backend with a
// known quirk, before the declaration-gated promotion runs.
type Policy func(*collector)

// AssumeDeclared marks every parameter-like name as declared. Used for
// backends that never report the declaration modifier on parameters (clangd
// is the canonical case): without it the declaration gate would silently
// drop all parameter highlighting for the language, at the cost of also
// keeping genuinely ambiguous occurrences.
func AssumeDeclared(c *collector) {
	for name := range c.declared {
		c.declared[name] = true
	}
}

// defaultPolicies is the built-in per-language table. Config can replace it
// (see config.Options) without the classify loop growing special cases.
var defaultPolicies = map[string]Policy{
	"cpp": AssumeDeclared,
}

// DefaultPolicies returns a copy of the built-in language policy table.
func DefaultPolicies() map[string]Policy {
	table := make(map[string]Policy, len(defaultPolicies))
	for id, policy := range defaultPolicies {
		table[id] = policy
	}
	return table
}
