// Package utils provides small shared helpers, currently the loose bool
// coercion applied to CSV cells and query values during imports.
package utils
