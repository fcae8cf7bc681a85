// Package compute evaluates a Change's computed_fields: Starlark
// expressions run against the change's after.spec, producing the
// resolved values a provider did not set directly (e.g. a generated
// password, a derived hostname). It reuses the teacher's Starlark
// value-conversion conventions from its config-expression evaluator.
package compute
