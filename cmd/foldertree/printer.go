package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/brettbedarf/foldertree"
	"github.com/brettbedarf/foldertree/filesystem"
	"github.com/brettbedarf/foldertree/invoke"
	"github.com/brettbedarf/foldertree/modules"
	"github.com/brettbedarf/foldertree/session"
)

// printer is the user-facing message surface
type printer struct {
	w       io.Writer
	success *color.Color
	failure *color.Color
	heading *color.Color
	folder  *color.Color
	faint   *color.Color
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:       w,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed, color.Bold),
		heading: color.New(color.FgCyan, color.Bold),
		folder:  color.New(color.FgBlue, color.Bold),
		faint:   color.New(color.Faint),
	}
}

func (p *printer) Successf(format string, args ...any) {
	p.success.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Infof(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *printer) Headingf(format string, args ...any) {
	p.heading.Fprintf(p.w, format+"\n", args...)
}

// Error prints err prefixed with a label for its kind
func (p *printer) Error(err error) {
	p.failure.Fprintf(p.w, "%s: %v\n", errorKind(err), err)
}

func (p *printer) Prompt() {
	p.faint.Fprint(p.w, "> ")
}

// Tree prints root and its subtree, one node per line in insertion order
func (p *printer) Tree(root *filesystem.Folder) {
	_ = filesystem.Walk(root, func(n filesystem.Node, depth int) error {
		indent := strings.Repeat("  ", depth)
		if n.IsDir() {
			fmt.Fprintf(p.w, "%s%s %s\n", indent, p.folder.Sprint(n.Name()+"/"), p.faint.Sprintf("(%d bytes)", n.Size()))
		} else {
			fmt.Fprintf(p.w, "%s%s %s\n", indent, n.Name(), p.faint.Sprintf("(%d bytes)", n.Size()))
		}
		return nil
	})
}

func (p *printer) Size(n filesystem.Node, size uint64) {
	fmt.Fprintf(p.w, "%s: %d bytes\n", filesystem.Path(n), size)
}

func (p *printer) Types(types []*modules.CandidateType, marker string) {
	if len(types) == 0 {
		p.Infof("No types implementing %s", marker)
		return
	}
	p.Headingf("Types implementing %s:", marker)
	for _, t := range types {
		fmt.Fprintf(p.w, "  %s\n", t.Name())
	}
}

func (p *printer) Operations(t *modules.CandidateType, ops []*modules.OperationDescriptor) {
	if len(ops) == 0 {
		p.Infof("%s has no operations", t.Name())
		return
	}
	p.Headingf("Operations of %s:", t.Name())
	for _, op := range ops {
		params := make([]string, 0, op.ParamCount())
		for _, param := range op.Params() {
			params = append(params, param.Name+" "+param.TypeName())
		}
		fmt.Fprintf(p.w, "  %s(%s)\n", op.Name(), strings.Join(params, ", "))
	}
}

func (p *printer) Args(pending *invoke.PendingInvocation) {
	params := pending.Operation().Params()
	if len(params) == 0 {
		p.Infof("%s takes no arguments", pending.Operation().Name())
		return
	}
	p.Headingf("Arguments of %s.%s:", pending.Type().Name(), pending.Operation().Name())
	for i, v := range pending.Args() {
		fmt.Fprintf(p.w, "  [%d] %s %s = %#v\n", i, params[i].Name, params[i].TypeName(), v)
	}
}

func (p *printer) State(s *session.Session) {
	p.Infof("state: %s", s.State())
	if src := s.Source(); src != nil {
		p.Infof("source: %s", filesystem.Path(src))
	}
	if dst := s.Destination(); dst != nil {
		p.Infof("destination: %s", filesystem.Path(dst))
	}
	if m := s.Module(); m != nil {
		p.Infof("module: %s (%s)", m.Name(), m.Path())
	}
	if t := s.SelectedType(); t != nil {
		p.Infof("type: %s", t.Name())
	}
	if pending := s.Pending(); pending != nil {
		p.Infof("operation: %s", pending.Operation().Name())
	}
}

// errorKind names the error kind for display
func errorKind(err error) string {
	var (
		dupErr      *foldertree.DuplicateNameError
		cycErr      *foldertree.CyclicMoveError
		notFoundErr *foldertree.NotFoundError
		idxErr      *foldertree.IndexOutOfRangeError
		loadErr     *foldertree.ModuleLoadError
		instErr     *foldertree.InstantiationError
		invErr      *foldertree.InvocationError
		missingErr  *foldertree.MissingSelectionError
	)
	switch {
	case errors.As(err, &dupErr):
		return "Duplicate name"
	case errors.As(err, &cycErr):
		return "Cyclic move"
	case errors.As(err, &notFoundErr):
		return "Not found"
	case errors.As(err, &idxErr):
		return "Index out of range"
	case errors.As(err, &loadErr):
		return "Module load failed"
	case errors.As(err, &instErr):
		return "Instantiation failed"
	case errors.As(err, &invErr):
		return "Invocation failed"
	case errors.As(err, &missingErr):
		return "Missing selection"
	case errors.Is(err, foldertree.ErrStaleHandle):
		return "Stale selection"
	case errors.Is(err, foldertree.ErrDuplicateID):
		return "Duplicate ID"
	default:
		return "Error"
	}
}

// observer reports session notifications through a printer
type observer struct {
	out *printer
}

func (o *observer) TreeChanged(op string, node filesystem.Node) {
	o.out.Successf("%s: %s", op, filesystem.Path(node))
}

func (o *observer) MutationFailed(op string, err error) {
	o.out.Error(fmt.Errorf("%s: %w", op, err))
}

func (o *observer) ModuleLoaded(m *modules.LoadedModule) {
	o.out.Successf("Loaded module %s from %s", m.Name(), m.Path())
}

func (o *observer) InvocationCompleted(p *invoke.PendingInvocation, result any) {
	o.out.Successf("%s.%s returned %#v", p.Type().Name(), p.Operation().Name(), result)
}

func (o *observer) InvocationFailed(_ *invoke.PendingInvocation, err error) {
	o.out.Error(err)
}

var _ session.Observer = (*observer)(nil)
