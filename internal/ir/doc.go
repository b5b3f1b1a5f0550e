// Package ir provides the value types shared by the filter compiler and its
// backends.
//
// Literals in a filter, bound parameter arguments and rows read from a
// storage backend are all IRValues. All other internal packages may import
// ir; ir imports nothing internal, so it stays the foundational layer with
// no circular dependencies.
//
// Key design constraints:
//   - No float types - numbers are int64
//   - NULL is an explicit IRNull value, never a nil interface in stored rows
//   - MarshalCanonical is the only serialization used for golden files
package ir
