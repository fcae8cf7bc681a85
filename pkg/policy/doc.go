// Package policy implements a single schema.Validator backed by Open
// Policy Agent: a Rego policy evaluated against a resource, whose
// "deny" set becomes validation errors. It plugs into
// schema.CompositeValidator alongside the schema registry's own
// Validator; it carries no notion of policy bundles, severities, or a
// standalone policy service.
package policy
