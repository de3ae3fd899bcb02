// Package transform holds the ordered structural passes that turn a
// HubXML tree into DocBook.
//
// Each pass mutates the shared document in place. The order of Default is
// load-bearing: role resolution runs before namespace stripping, the URL
// guard before linebreak removal, and typography before the final phrase
// cleanup.
package transform

import (
	"fmt"
	"time"

	"github.com/FocuswithJustin/idml2docbook/core/styles"
	"github.com/FocuswithJustin/idml2docbook/core/xml"
	"github.com/FocuswithJustin/idml2docbook/internal/logging"
)

// Options drives the passes that are configurable.
type Options struct {
	IgnoreOverrides   bool
	Typography        bool
	ThinSpaces        bool
	Linebreaks        bool // keep hard line breaks
	RelocateSpanSpace bool // requires Typography

	Media  string // folder prefixed to image references, empty keeps paths
	Raster string // replacement extension for raster images
	Vector string // replacement extension for vector images

	NodesToRemove      []string
	LayersToRemove     []string
	AttributesToRemove []string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Media:         "Links",
		NodesToRemove: []string{"info"},
	}
}

// Context is shared by the passes of one conversion.
type Context struct {
	Doc      *xml.Document
	Options  Options
	Registry *styles.Registry
	Roles    []styles.NamedStyle
}

// NewContext prepares a context for doc.
func NewContext(doc *xml.Document, opts Options) *Context {
	return &Context{Doc: doc, Options: opts, Registry: styles.NewRegistry()}
}

// Pass is one structural transformation.
type Pass interface {
	Name() string
	Apply(c *Context) error
}

type passFunc struct {
	name string
	fn   func(*Context) error
}

func (p passFunc) Name() string            { return p.name }
func (p passFunc) Apply(c *Context) error { return p.fn(c) }

// NewPass wraps fn as a named Pass.
func NewPass(name string, fn func(*Context) error) Pass {
	return passFunc{name: name, fn: fn}
}

// simple wraps a pass that cannot fail.
func simple(name string, fn func(*Context)) Pass {
	return NewPass(name, func(c *Context) error {
		fn(c)
		return nil
	})
}

// Pipeline runs passes in order.
type Pipeline struct {
	passes []Pass
}

// New builds a pipeline from passes.
func New(passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

// Default returns the full conversion pipeline.
func Default() *Pipeline {
	return New(
		simple("roles", applyRoles),
		simple("root", renameRoot),
		simple("phrase-spacing", spacePhrases),
		simple("overrides", resolveOverrides),
		simple("prune", prune),
		simple("attributes", removeAttributes),
		simple("namespaces", removeNamespaces),
		simple("media", processMedia),
		simple("tabs", convertTabs),
		simple("endnotes", processEndnotes),
		simple("notes", processNotes),
		simple("url-breaks", cleanURLBreaks),
		simple("linebreaks", removeLinebreaks),
		simple("fill-empty", fillEmpty),
		simple("unwrap", unwrapBarePhrases),
		simple("typography", applyTypography),
		simple("phrase-trim", trimPhrases),
		simple("span-spacing", relocateSpanSpace),
		simple("merge", mergePhrases),
	)
}

// Names lists the pass names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name()
	}
	return names
}

// Only returns a pipeline restricted to the named passes, order kept.
func (p *Pipeline) Only(names ...string) (*Pipeline, error) {
	include := make(map[string]struct{}, len(names))
	for _, n := range names {
		include[n] = struct{}{}
	}
	var out []Pass
	for _, pass := range p.passes {
		if _, ok := include[pass.Name()]; ok {
			out = append(out, pass)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no passes matched %v", names)
	}
	return New(out...), nil
}

// Run applies every pass to c. The first failing pass stops the run.
func (p *Pipeline) Run(c *Context) error {
	for _, pass := range p.passes {
		start := time.Now()
		if err := pass.Apply(c); err != nil {
			return fmt.Errorf("pass %s: %w", pass.Name(), err)
		}
		logging.PassApplied(pass.Name(), time.Since(start))
	}
	return nil
}

func applyRoles(c *Context) {
	c.Roles = styles.FixRoleNames(c.Doc)
}

func resolveOverrides(c *Context) {
	if c.Options.IgnoreOverrides {
		return
	}
	styles.Resolve(c.Doc, c.Registry)
}
