package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ovirt-tools/ovirtctl/internal/tree"
)

// Tree rendering styles. Health coloring follows the logging palette so
// [UP] reads the same green as a SUCCESS line.
var (
	nodeNameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#42E7FF")).Bold(true)
	healthyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#60F281"))
	unhealthyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4473"))
)

// summaryColumn is the column the [summary] bracket aligns to.
const summaryColumn = 40

// renderTree writes the configshell-style tree below n:
//
//	o- / ................................. [connected to engine as admin]
//	  o- Hosts ........................... [2 hosts (1 UP)]
//	    o- host1 ......................... [Address: 10.0.0.1 [UP]]
func renderTree(w io.Writer, n tree.Node, color bool) {
	renderNode(w, n, 0, color)
}

func renderNode(w io.Writer, n tree.Node, depth int, color bool) {
	name := n.Name()
	desc, ok := n.Summary()

	indent := strings.Repeat("  ", depth)
	label := "o- " + name
	pad := summaryColumn - len(indent) - len(label)
	if pad < 3 {
		pad = 3
	}

	if color {
		label = "o- " + nodeNameStyle.Render(name)
	}

	fmt.Fprintf(w, "%s%s %s [%s]\n", indent, label, strings.Repeat(".", pad), renderSummary(desc, ok, color))

	for _, child := range n.Children() {
		renderNode(w, child, depth+1, color)
	}
}

// renderSummary colors a summary line by its health flag. A nil flag means
// health does not apply and the text stays plain.
func renderSummary(desc string, ok *bool, color bool) string {
	if !color || ok == nil {
		return desc
	}
	if *ok {
		return healthyStyle.Render(desc)
	}
	return unhealthyStyle.Render(desc)
}
