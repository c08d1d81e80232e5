// Package key implements the address grammar used throughout the store:
// a colon-delimited path of the form "store:path...:leaf".
//
// # Grammar
//
//	.                      -> the root store itself (no leaf)
//	leaf                   -> a root-level value
//	store:leaf             -> a value inside one named store
//	store:a:b:...:leaf     -> a value inside a nested store chain
//
// Parse never touches the store tree; it is a pure function from string to
// Key. Recursive descent through the tree is driven by repeatedly calling
// Next until IsValueKey reports true, at which point the remaining Leaf
// names the value (or child store) to operate on directly.
package key
