// Package graph defines the normalized dependency graph produced by the
// lockfile parsers: nodes are resolved package instances (name + version),
// edges are depends-on relationships annotated with a dependency kind.
//
// The Builder is the shared assembly step behind every parser. It
// deduplicates nodes by identifier, tracks the name→versions index used for
// version-conflict flagging, drops edges with dangling endpoints, and
// optionally computes graph distances from the root via breadth-first
// traversal.
//
// A built Graph is immutable output: nothing in this package mutates a graph
// after Build returns, and downstream consumers (filtering, rendering) are
// expected to operate on their own copies.
package graph
