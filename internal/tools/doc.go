// Package tools provides the host utility primitives used by database gadgets.
//
// Ownership boundary:
// - tool discovery on disk and path normalization
//
// - option file (INI) creation
//
// - port liveness and executability predicates
//
// - child process spawn, terminate and kill
//
// Every helper is stateless. Failures surface as *Error carrying one of the
// package sentinels; predicates report false instead of failing.
//
// Platform differences (search paths, quoting, signals versus taskkill) live
// behind the Platform adapter selected once from the running OS.
package tools
