// Package report renders audit results for humans and machines.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/abiiranathan/twigcheck/audit"
)

// Console writes a sectioned, line-oriented report. It implements
// audit.Tracer: notes are always printed, comments only in verbose mode.
//
// Thread-safety: writes are serialized, so a Console may be shared by the
// watcher and the runner.
type Console struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
	p       *message.Printer
}

var _ audit.Tracer = (*Console)(nil)

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer, verbose bool) *Console {
	return &Console{
		w:       w,
		verbose: verbose,
		p:       message.NewPrinter(language.English),
	}
}

// Title prints an underlined heading.
func (c *Console) Title(title string) {
	c.write("\n%s\n%s\n\n", title, strings.Repeat("=", len([]rune(title))))
}

// Note prints an informational block. Integers are printed with digit grouping.
func (c *Console) Note(format string, args ...any) {
	c.block(" ! [NOTE] ", format, args...)
}

// Comment prints a tracing line in verbose mode.
func (c *Console) Comment(format string, args ...any) {
	if !c.verbose {
		return
	}
	c.block(" // ", format, args...)
}

// Success prints an [OK] block.
func (c *Console) Success(format string, args ...any) {
	c.block(" [OK] ", format, args...)
}

// Warning prints a [WARNING] block.
func (c *Console) Warning(format string, args ...any) {
	c.block(" [WARNING] ", format, args...)
}

// Caution prints a [CAUTION] block.
func (c *Console) Caution(format string, args ...any) {
	c.block(" ! [CAUTION] ", format, args...)
}

// Error prints an [ERROR] block.
func (c *Console) Error(format string, args ...any) {
	c.block(" [ERROR] ", format, args...)
}

// Listing prints one bullet per item.
func (c *Console) Listing(items []string) {
	if len(items) == 0 {
		return
	}
	var b strings.Builder
	for _, it := range items {
		b.WriteString(" * ")
		b.WriteString(it)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	c.write("%s", b.String())
}

// Report prints the findings of rep: a success message when there is no
// orphan, otherwise a caution with the orphan list, followed by warnings for
// invalid references, broken registry entries and unreadable templates.
func (c *Console) Report(rep *audit.Report) {
	if rep.Clean() {
		c.Success("Everything's fine ! 🌈")
	} else {
		c.Caution("%d orphans files found.", len(rep.Orphans))
		c.Listing(rep.Orphans)
	}

	if len(rep.Invalid) > 0 {
		c.Warning("%d invalid template references found.", len(rep.Invalid))
		c.Listing(rep.Invalid)
	}
	if len(rep.Broken) > 0 {
		c.Warning("%d registry entries point to missing files.", len(rep.Broken))
		c.Listing(rep.Broken)
	}
	if len(rep.Unreadable) > 0 {
		c.Warning("%d template files could not be read.", len(rep.Unreadable))
		c.Listing(rep.Unreadable)
	}
}

func (c *Console) block(prefix, format string, args ...any) {
	c.write("%s%s\n\n", prefix, c.p.Sprintf(format, args...))
}

func (c *Console) write(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}
