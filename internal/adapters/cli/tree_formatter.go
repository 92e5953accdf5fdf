package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
)

// TreeFormatter renders material breakdown trees
type TreeFormatter struct {
	useColors bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors bool) *TreeFormatter {
	return &TreeFormatter{useColors: useColors}
}

// FormatTree renders a breakdown tree, one node per line
func (f *TreeFormatter) FormatTree(root *goods.BreakdownNode) string {
	if root == nil {
		return "(empty tree)"
	}

	var builder strings.Builder
	f.formatNode(&builder, root, "", true, true)
	return builder.String()
}

// formatNode recursively formats a node and its children
func (f *TreeFormatter) formatNode(builder *strings.Builder, node *goods.BreakdownNode, prefix string, isLast bool, isRoot bool) {
	var linePrefix string
	if isRoot {
		linePrefix = ""
	} else if isLast {
		linePrefix = prefix + "└── "
	} else {
		linePrefix = prefix + "├── "
	}

	recipeText := ""
	if node.RecipeName != "" {
		recipeText = fmt.Sprintf(" via %s", node.RecipeName)
	}

	builder.WriteString(fmt.Sprintf("%s%s %s [%s%s%s] %s/%s%s\n",
		linePrefix,
		f.statusIcon(node),
		node.Item,
		f.kindColor(node.Kind),
		node.Kind,
		f.colorReset(),
		formatCount(node.OnHand),
		formatCount(node.Needed),
		recipeText,
	))

	if len(node.Children) == 0 {
		return
	}

	var childPrefix string
	if isRoot {
		childPrefix = ""
	} else if isLast {
		childPrefix = prefix + "    "
	} else {
		childPrefix = prefix + "│   "
	}

	for i, child := range node.Children {
		f.formatNode(builder, child, childPrefix, i == len(node.Children)-1, false)
	}
}

func (f *TreeFormatter) statusIcon(node *goods.BreakdownNode) string {
	if node.IsSatisfied() {
		return "[✓]"
	}
	return "[ ]"
}

// kindColor returns the ANSI color code for an acquisition kind
func (f *TreeFormatter) kindColor(kind goods.AcquisitionKind) string {
	if !f.useColors {
		return ""
	}

	switch kind {
	case goods.AcquisitionBuild:
		return "\033[36m" // Cyan
	case goods.AcquisitionCraft:
		return "\033[33m" // Yellow
	case goods.AcquisitionRaw:
		return "\033[32m" // Green
	default:
		return ""
	}
}

func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

// FormatTreeSummary creates a one-line summary of the tree
func (f *TreeFormatter) FormatTreeSummary(root *goods.BreakdownNode) string {
	if root == nil {
		return "No breakdown"
	}

	nodes := root.FlattenToList()
	kinds := root.CountByKind()

	satisfied := 0
	for _, node := range nodes {
		if node.IsSatisfied() {
			satisfied++
		}
	}

	progress := 0
	if len(nodes) > 0 {
		progress = (satisfied * 100) / len(nodes)
	}

	return fmt.Sprintf(
		"%s: %d nodes (%d BUILD, %d CRAFT, %d RAW), depth=%d, raw inputs=%d, progress=%d%%",
		root.Item,
		len(nodes),
		kinds[goods.AcquisitionBuild],
		kinds[goods.AcquisitionCraft],
		kinds[goods.AcquisitionRaw],
		root.TotalDepth(),
		len(root.RequiredRawMaterials()),
		progress,
	)
}

// FormatCompactTree renders the tree on a single line in breadth-first order
func (f *TreeFormatter) FormatCompactTree(root *goods.BreakdownNode) string {
	if root == nil {
		return "(empty)"
	}

	nodes := root.FlattenToList()
	parts := make([]string, 0, len(nodes))

	for _, node := range nodes {
		status := " "
		if node.IsSatisfied() {
			status = "✓"
		}
		kind := "?"
		if node.Kind != "" {
			kind = string(node.Kind)[:1]
		}
		parts = append(parts, fmt.Sprintf("[%s%s:%s]", status, kind, node.Item))
	}

	return strings.Join(parts, " → ")
}
