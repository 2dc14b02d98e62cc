// Package prefdoc provides a typed, hierarchical preference model that can
// be persisted to a human-editable annotated text format. Applications
// declare named preferences through per-kind builders, group them into
// Groups and Stores, render the tree with generated documentation comments,
// and later reconcile a hand-edited file back into the live model.
package prefdoc
