// Package plate lays sample records out on a fixed plate grid (rows A.., columns 1..),
// reconciles user edits of that grid back to the records, and assigns a color per
// category.
//
// The pipeline is:
//
//	ReadSource -> Expand or Layout -> ColorsFor -> EditableGrid -> (user edit) -> Reconcile
//
// Every step is a pure function over plain values. Editor bundles the steps into
// upload/apply operations that return a fresh State each time.
package plate
