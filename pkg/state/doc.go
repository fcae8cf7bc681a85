// Package state implements the file-based state persistence backend:
// a JSON state file plus a cooperative, advisory lock file guarding
// concurrent load/save, and an optional watcher that notices when the
// file changes out from under the process holding it.
package state
