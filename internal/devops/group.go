package devops

import (
	"fmt"
	"io"
	"os"
)

// Printer writes Azure DevOps logging commands. Groups function as a stack,
// so the printer keeps track of the open groups.
type Printer struct {
	out    io.Writer
	groups []*Group
}

func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}

	return &Printer{out: out}
}

// Opens a new group and adds it to the stack.
func (p *Printer) OpenGroup(name string) *Group {
	newGroup := &Group{printer: p}
	p.groups = append(p.groups, newGroup)
	fmt.Fprintf(p.out, "##[group]%s\n", name)
	return newGroup
}

// Returns the number of groups that are currently open.
func (p *Printer) OpenGroups() int {
	return len(p.groups)
}

func (p *Printer) logEndGroup() {
	fmt.Fprintln(p.out, "##[endgroup]")
}

type Group struct {
	printer *Printer
	closed  bool
}

// Closes the group and removes all groups above it from the stack.
// This is done by popping the stack until we reach the group we want to close.
// Closing a group twice is a no-op.
func (g *Group) Close() {
	if g == nil || g.closed {
		return
	}

	p := g.printer
	index := len(p.groups) - 1
	for index >= 0 {
		// Pop the last group from the stack
		last := p.groups[index]
		p.groups = p.groups[:index]
		last.closed = true
		p.logEndGroup()
		if last == g {
			break
		}
		index--
	}
}
