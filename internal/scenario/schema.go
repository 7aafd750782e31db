package scenario

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSource string

// validateAgainstSchema unifies a decoded scenario document with the
// embedded CUE schema. CUE definitions are closed, so unknown fields and
// type mismatches fail here with a path-qualified error.
func validateAgainstSchema(doc map[string]any) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup #Scenario: %w", err)
	}

	val := ctx.Encode(doc)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode scenario document: %w", err)
	}

	unified := def.Unify(val)
	if err := unified.Validate(); err != nil {
		return fmt.Errorf("scenario does not match schema: %w", err)
	}
	return nil
}
