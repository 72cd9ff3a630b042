// Package audit
/*
Package audit reconciles the templates a project has on disk with the
templates its code references.

Given the template path registry, the discovered template files and the source
files, it reports:
  - orphan templates: files on disk that no reference reaches
  - invalid references: names that are not registry keys
  - broken registry entries: keys whose file does not exist

References are followed from source files into the templates they reach, and
from there into further templates, up to a configurable number of hops.
*/
package audit

import (
	"path/filepath"

	"github.com/abiiranathan/twigcheck/refs"
)

// Lookup resolves a logical template name to a file path.
// ok is false when the name is unknown; an empty path with ok == true means
// the entry exists but its file does not.
type Lookup interface {
	Lookup(name string) (path string, ok bool)
}

// Reader reads a text file.
type Reader interface {
	Read(path string) (string, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(path string) (string, error)

// Read calls f(path).
func (f ReaderFunc) Read(path string) (string, error) {
	return f(path)
}

// Tracer receives progress messages. Note is for messages always shown,
// Comment for step-by-step tracing shown in verbose mode.
type Tracer interface {
	Note(format string, args ...any)
	Comment(format string, args ...any)
}

type nopTracer struct{}

func (nopTracer) Note(string, ...any)    {}
func (nopTracer) Comment(string, ...any) {}

// NopTracer discards every message.
var NopTracer Tracer = nopTracer{}

// Document is a file's path and text.
type Document struct {
	Path    string
	Content string
}

// Engine reconciles references against the registry.
type Engine struct {
	// Registry resolves names to files.
	Registry Lookup
	// Reader reads reached templates.
	Reader Reader
	// Depth is the number of hops followed through template contents:
	// 1 follows references found in templates reached from sources,
	// 0 only looks at sources, and a negative value follows every chain
	// to a fixed point.
	Depth int
	// Tracer receives verbose tracing; nil means none.
	Tracer Tracer
}

// state accumulates one reconciliation.
type state struct {
	reached     map[string]bool
	invalidSeen map[string]bool
	brokenSeen  map[string]bool
	result      Result
}

func newState() *state {
	return &state{
		reached:     make(map[string]bool),
		invalidSeen: make(map[string]bool),
		brokenSeen:  make(map[string]bool),
	}
}

// Reconcile scans the sources, follows the references they make into
// template contents, and reports which templates were never reached and which
// references do not resolve.
//
// Algorithm:
//  1. Extract and normalize every token of every source; look each name up.
//  2. Each resolved path is reached; paths reached for the first time form
//     the next frontier.
//  3. Each frontier file is read and scanned the same way, producing the
//     following frontier, until Depth hops are done or nothing new is reached.
//  4. Orphans are the templates not reached, in the given order.
//
// Lookup failures never abort the run. The result is a function of the
// inputs alone, so repeated calls return equal results.
func (e *Engine) Reconcile(templates []string, sources []Document) Result {
	tr := e.tracer()
	st := newState()

	tr.Comment("Scanning for template names in content...")
	var frontier []string
	for _, doc := range sources {
		frontier = append(frontier, e.scan(st, doc, 0)...)
	}

	for hop := 1; len(frontier) > 0 && (e.Depth < 0 || hop <= e.Depth); hop++ {
		var next []string
		for _, path := range frontier {
			content, err := e.Reader.Read(path)
			if err != nil {
				tr.Comment("[✘] Unreadable : %s (%v)", path, err)
				st.result.Unreadable = append(st.result.Unreadable, path)
				continue
			}
			tr.Comment("Scanning for template names in template file content...")
			next = append(next, e.scan(st, Document{Path: path, Content: content}, hop)...)
		}
		frontier = next
	}

	tr.Comment("Found %d consumed template files (duplicates)", st.result.Consumed)
	tr.Comment("Found %d unique template files", len(st.result.Reached))
	tr.Comment("Looking for orphans...")

	for _, t := range templates {
		if !st.reached[t] {
			st.result.Orphans = append(st.result.Orphans, t)
		}
	}

	return st.result
}

// scan processes the references of one document and returns the paths it
// reached for the first time.
func (e *Engine) scan(st *state, doc Document, hop int) []string {
	tokens := refs.Extract(doc.Content)
	if len(tokens) == 0 {
		return nil
	}

	tr := e.tracer()
	tr.Comment("Scanning %s...", filepath.Base(doc.Path))

	names := refs.NormalizeAll(tokens)
	var fresh []string
	for i, raw := range tokens {
		ref := Reference{
			Name: names[i],
			Raw:  raw,
			From: doc.Path,
			Hop:  hop,
		}

		path, ok := e.Registry.Lookup(ref.Name)
		switch {
		case !ok:
			ref.Status = StatusUnresolved
			tr.Comment("[✘] Not found : %s", ref.Name)
			if !st.invalidSeen[ref.Name] {
				st.invalidSeen[ref.Name] = true
				st.result.Invalid = append(st.result.Invalid, ref.Name)
			}

		case path == "":
			ref.Status = StatusBroken
			tr.Comment("[✘] Missing file : %s", ref.Name)
			if !st.brokenSeen[ref.Name] {
				st.brokenSeen[ref.Name] = true
				st.result.Broken = append(st.result.Broken, ref.Name)
			}

		default:
			ref.Status = StatusResolved
			ref.Path = path
			tr.Comment("[✔︎] Found : %s", path)
			st.result.Consumed++
			if !st.reached[path] {
				st.reached[path] = true
				st.result.Reached = append(st.result.Reached, path)
				fresh = append(fresh, path)
			}
		}

		st.result.References = append(st.result.References, ref)
	}
	return fresh
}

func (e *Engine) tracer() Tracer {
	if e.Tracer == nil {
		return NopTracer
	}
	return e.Tracer
}
