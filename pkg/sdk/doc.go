// Package sdk defines the data model shared by every component of the
// provider SDK: resource addressing, the Resource/Change shapes that
// flow between the engine and a provider, JSON-RPC envelopes, and the
// internal error taxonomy handlers branch on.
package sdk
