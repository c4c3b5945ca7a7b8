/*
Package highlight groups identifier occurrences by name from a semantic token
stream, for "color every occurrence of this identifier consistently".

Pipeline:
--------

	  []uint32 stream + legend
	            |
	       semtok.Decode
	            |
	            v
	 +--------------------+
	 |      collect       |  streaming classify into three buckets:
	 +--------------------+  variables / parameters / declared
	            |
	            v
	 +--------------------+
	 |     reconcile      |  language policy, then declaration-gated
	 +--------------------+  promotion of parameters into variables
	            |
	            v
	   Groups (name -> ranges)

A parameter-like identifier only survives reconciliation if at least one of
its occurrences carried the declaration modifier, unless the language policy
says the backend never reports one (see policy.go).
*/
package highlight

import (
	"context"

	"github.com/apparentlymart/go-textseg/v13/textseg"
	"github.com/rs/zerolog"
	"github.com/walteh/identicolor/pkg/position"
	"github.com/walteh/identicolor/pkg/semtok"
	"gitlab.com/tozd/go/errors"
)

// Groups maps an identifier name to every range where it should be
// highlighted, in classification order.
type Groups map[string][]position.Range

// SourceReader resolves a decoded range to the exact text under it. It must
// be pure for the classification to be deterministic. A failed resolution
// (typically document.ErrSourceUnavailable) aborts the whole classification;
// no partial result is returned.
type SourceReader interface {
	TextAt(rng position.Range) (string, error)
}

// Options controls the classification passes.
type Options struct {
	// IncludeGlobals disables the short-global suppression: when false,
	// identifiers tagged global whose name is 2 characters or shorter are
	// excluded from variable/parameter classification.
	IncludeGlobals bool

	// IncludeClasses additionally folds class-kind tokens into the result.
	// Class folding ignores the global/length filter entirely.
	IncludeClasses bool

	// Policies overrides the built-in per-language policy table when non-nil.
	Policies map[string]Policy
}

func (o Options) policyFor(languageID string) Policy {
	table := o.Policies
	if table == nil {
		table = defaultPolicies
	}
	return table[languageID]
}

// GroupIdentifiers decodes one complete token stream and returns the final
// name-keyed grouping. Each invocation is self-contained: all accumulators
// are local and nothing persists across calls.
func GroupIdentifiers(ctx context.Context, data []uint32, legend semtok.Legend, src SourceReader, opts Options, languageID string) (Groups, error) {
	tokens := semtok.Decode(data, legend)

	coll, err := collect(ctx, tokens, src, opts)
	if err != nil {
		return nil, err
	}

	groups := coll.reconcile(opts.policyFor(languageID))

	zerolog.Ctx(ctx).Debug().
		Int("token_count", len(tokens)).
		Int("group_count", len(groups)).
		Str("language_id", languageID).
		Msg("grouped identifiers")

	return groups, nil
}

// collector holds the provisional classification of one stream.
type collector struct {
	// variables are confirmed "always highlight" ranges.
	variables Groups

	// parameters are provisional, pending the declaration check.
	parameters map[string][]position.Range

	// declared tracks whether any occurrence of a parameter-like name
	// carried the declaration modifier. Every parameters key has an entry.
	declared map[string]bool
}

// collect is the streaming classify stage. Tokens are visited in stream
// order; every token's text is resolved before classification so that a
// vanished document surfaces immediately.
func collect(ctx context.Context, tokens []semtok.Token, src SourceReader, opts Options) (*collector, error) {
	c := &collector{
		variables:  Groups{},
		parameters: map[string][]position.Range{},
		declared:   map[string]bool{},
	}

	for _, tok := range tokens {
		name, err := src.TextAt(tok.Range)
		if err != nil {
			return nil, errors.Errorf("resolving token text at %s: %w", tok.Range, err)
		}

		if opts.IncludeGlobals || (!tok.Modifiers.Has(semtok.ModGlobal) && nameLength(name) > 2) {
			switch tok.Kind {
			case semtok.KindVariable:
				c.variables[name] = append(c.variables[name], tok.Range)

			case semtok.KindParameter:
				// Some backends reuse the parameter kind for labeled
				// statement targets and never report declaration on them;
				// classifying those here would suppress them forever.
				if !tok.Modifiers.Has(semtok.ModLabel) {
					if _, seen := c.declared[name]; !seen {
						c.declared[name] = false
					}
					if tok.Modifiers.Has(semtok.ModDeclaration) {
						c.declared[name] = true
					}
					c.parameters[name] = append(c.parameters[name], tok.Range)
				}
			}
		}

		// Class folding runs outside the inclusion predicate: a short,
		// global-tagged class name is still folded in.
		if opts.IncludeClasses && tok.Kind == semtok.KindClass {
			c.variables[name] = append(c.variables[name], tok.Range)
		}
	}

	zerolog.Ctx(ctx).Trace().
		Int("variable_names", len(c.variables)).
		Int("parameter_names", len(c.parameters)).
		Msg("collected provisional buckets")

	return c, nil
}

// reconcile is the pure finalize stage: apply the language policy, then
// promote declared parameter names into the variable groups (existing
// variable ranges first, parameter ranges appended in order) and drop
// undeclared ones.
func (c *collector) reconcile(policy Policy) Groups {
	if policy != nil {
		policy(c)
	}

	for name, isDeclared := range c.declared {
		if !isDeclared {
			continue
		}
		c.variables[name] = append(c.variables[name], c.parameters[name]...)
	}

	return c.variables
}

// nameLength counts what a user would see as characters, i.e. grapheme
// clusters, so the short-name filter treats non-ASCII identifiers the same
// way it treats ASCII ones.
func nameLength(name string) int {
	n, err := textseg.TokenCount([]byte(name), textseg.ScanGraphemeClusters)
	if err != nil {
		return len(name)
	}
	return n
}
