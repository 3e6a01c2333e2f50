// Package lockfile turns a project's dependency lockfile - package-lock.json,
// yarn.lock, or pnpm-lock.yaml - into one normalized dependency graph.
//
// The three grammars are mutually incompatible serializations; each has its
// own parser under this package. Format detection prefers the filename and
// falls back to content sniffing, so callers can hand over raw text from a
// file picker or an HTTP upload without knowing the format themselves:
//
//	g, err := lockfile.Parse(content, "pnpm-lock.yaml")
//
// Parsing is synchronous, pure computation with no I/O: independent calls
// are safe to run concurrently without coordination. Failures carry a
// structured code (see the errors package); no partial graph accompanies a
// failure.
package lockfile
