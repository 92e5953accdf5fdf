package goods

// AcquisitionKind indicates how an item in a breakdown is obtained
type AcquisitionKind string

const (
	// AcquisitionBuild means the item is built from its construction cost
	AcquisitionBuild AcquisitionKind = "BUILD"

	// AcquisitionCraft means the item is produced by a recipe
	AcquisitionCraft AcquisitionKind = "CRAFT"

	// AcquisitionRaw means no cost or recipe is known; the item is terminal
	AcquisitionRaw AcquisitionKind = "RAW"
)

// BreakdownNode is one item in the material breakdown of a goal part.
// Children are the inputs needed to obtain the missing quantity of this node.
type BreakdownNode struct {
	Item ItemType

	Kind AcquisitionKind

	// Recipe used for CRAFT nodes
	RecipeName string

	// Needed is the quantity this node must supply to its parent
	Needed int

	// OnHand is the stock counted for this item
	OnHand int

	Children []*BreakdownNode
}

// NewBreakdownNode creates a new breakdown node
func NewBreakdownNode(item ItemType, kind AcquisitionKind, needed, onHand int) *BreakdownNode {
	return &BreakdownNode{
		Item:     item,
		Kind:     kind,
		Needed:   needed,
		OnHand:   onHand,
		Children: make([]*BreakdownNode, 0),
	}
}

// AddChild adds an input node
func (n *BreakdownNode) AddChild(child *BreakdownNode) {
	n.Children = append(n.Children, child)
}

// IsLeaf returns true if the node has no inputs
func (n *BreakdownNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Missing returns the part of Needed not covered by stock
func (n *BreakdownNode) Missing() int {
	missing := n.Needed - n.OnHand
	if missing < 0 {
		return 0
	}
	return missing
}

// IsSatisfied returns true if stock covers the needed quantity
func (n *BreakdownNode) IsSatisfied() bool {
	return n.Missing() == 0
}

// TotalDepth returns the maximum depth of the tree from this node
func (n *BreakdownNode) TotalDepth() int {
	if n.IsLeaf() {
		return 1
	}

	maxChildDepth := 0
	for _, child := range n.Children {
		if d := child.TotalDepth(); d > maxChildDepth {
			maxChildDepth = d
		}
	}

	return maxChildDepth + 1
}

// FlattenToList returns a breadth-first traversal, one node per item
func (n *BreakdownNode) FlattenToList() []*BreakdownNode {
	result := make([]*BreakdownNode, 0)
	seen := make(map[ItemType]bool)
	queue := []*BreakdownNode{n}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if seen[current.Item] {
			continue
		}

		seen[current.Item] = true
		result = append(result, current)
		queue = append(queue, current.Children...)
	}

	return result
}

// RequiredRawMaterials returns the unique leaf items, in first-seen order
func (n *BreakdownNode) RequiredRawMaterials() []ItemType {
	seen := make(map[ItemType]bool)
	var result []ItemType
	n.collectRawMaterials(seen, &result)
	return result
}

func (n *BreakdownNode) collectRawMaterials(seen map[ItemType]bool, result *[]ItemType) {
	if n.IsLeaf() {
		if !seen[n.Item] {
			seen[n.Item] = true
			*result = append(*result, n.Item)
		}
		return
	}

	for _, child := range n.Children {
		child.collectRawMaterials(seen, result)
	}
}

// CountByKind counts nodes per acquisition kind
func (n *BreakdownNode) CountByKind() map[AcquisitionKind]int {
	counts := make(map[AcquisitionKind]int)
	for _, node := range n.FlattenToList() {
		counts[node.Kind]++
	}
	return counts
}
