// Package naming derives output paths for inputs and resolves collisions
// when two inputs in one batch would write the same file.
package naming
