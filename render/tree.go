package render

import (
	"fmt"
	"io"
	"strings"

	"lobmcts/searcher"
	"lobmcts/utils"

	"github.com/logrusorgru/aurora"
	"github.com/muesli/termenv"
)

type Renderer struct {
	au aurora.Aurora
}

// New colors output only when w is a terminal with color support.
func New(w io.Writer) Renderer {
	profile := termenv.NewOutput(w).ColorProfile()
	return NewRenderer(profile != termenv.Ascii)
}

func NewRenderer(colors bool) Renderer {
	return Renderer{au: aurora.NewAurora(colors)}
}

// Tree prints root and its descendants down to depth levels below it.
// The most visited child of every node is highlighted.
func Tree(w io.Writer, root *searcher.Node, depth int) error {
	return New(w).Tree(w, root, depth)
}

func (r Renderer) Tree(w io.Writer, root *searcher.Node, depth int) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", r.au.Bold("root"), r.stats(root)); err != nil {
		return err
	}
	return r.children(w, root, "", depth)
}

func (r Renderer) children(w io.Writer, n *searcher.Node, prefix string, depth int) error {
	if depth <= 0 || n.IsLeaf() {
		return nil
	}

	children := n.Children()
	visits := make([]int, len(children))
	for i, child := range children {
		visits[i] = child.Visits()
	}
	preferred := utils.ArgMax(visits)

	for i, child := range children {
		last := i == len(children)-1
		connector, indent := "├── ", "│   "
		if last {
			connector, indent = "└── ", "    "
		}

		label := r.action(child.Action())
		if i == preferred && child.Visits() > 0 {
			label = r.au.Bold(label).String()
		}
		if _, err := fmt.Fprintf(w, "%s%s%s %s prior=%.4f\n", prefix, connector, label, r.stats(child), child.Prior()); err != nil {
			return err
		}
		if err := r.children(w, child, prefix+indent, depth-1); err != nil {
			return err
		}
	}
	return nil
}

func (r Renderer) action(a searcher.Action) string {
	switch a {
	case searcher.Buy:
		return r.au.Green(a).String()
	case searcher.Sell:
		return r.au.Red(a).String()
	default:
		return a.String()
	}
}

func (r Renderer) stats(n *searcher.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "capital=%.2f holding=%d ", n.Capital(), n.Holding())
	fmt.Fprintf(&b, "visits=%v value=%v", r.au.Cyan(n.Visits()), r.au.Yellow(fmt.Sprintf("%.4f", n.Value())))
	return b.String()
}
