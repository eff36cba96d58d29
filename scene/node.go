package scene

import "github.com/asset-importer/scenekit/math"

// NodeIndex indexes into a NodeTree's flat node vector. It is the only way
// nodes reference each other — there are no pointers, so cycles cannot be
// expressed by construction the way a parent-pointer graph could.
type NodeIndex int

// NoNode is the zero value of a *NodeIndex field meaning "no parent" /
// "no reference". NodeIndex itself has no sentinel; absence is always
// represented by a nil *NodeIndex or by omission from a slice.
const NoNode NodeIndex = -1

// Node is one entry in a NodeTree's arena. Parent/child relationships are
// expressed purely as indices into the owning tree; a Node never holds a
// pointer to another Node.
type Node struct {
	Name      string
	Parent    *NodeIndex
	Children  []NodeIndex // order is significant
	Transform math.Mat4   // local, relative to Parent
	Meshes    []int       // indices into Scene.Meshes
	Metadata  map[string]Variant

	Camera *int // index into Scene.Cameras
	Light  *int // index into Scene.Lights
	Skin   *int // index into Scene.Skins, if this node is a skeleton root
}

// NodeTree is the arena owning every node in a scene. Nodes are never
// removed individually; the tree is built once by an importer (or by
// Merge) and walked read-only afterward, except for in-place transform
// edits post-processing passes might make.
type NodeTree struct {
	Nodes []Node
	Root  NodeIndex
}

// NewNodeTree creates a tree with a single root node named name.
func NewNodeTree(name string) *NodeTree {
	t := &NodeTree{}
	t.Root = t.addNode(Node{Name: name, Transform: math.Mat4Identity()})
	return t
}

func (t *NodeTree) addNode(n Node) NodeIndex {
	t.Nodes = append(t.Nodes, n)
	return NodeIndex(len(t.Nodes) - 1)
}

// AddChild appends a new node as a child of parent and returns its index.
// It maintains the invariant that parent.Children and child.Parent agree.
func (t *NodeTree) AddChild(parent NodeIndex, n Node) NodeIndex {
	idx := t.addNode(n)
	p := parent
	t.Nodes[idx].Parent = &p
	t.Nodes[parent].Children = append(t.Nodes[parent].Children, idx)
	return idx
}

func (t *NodeTree) Node(i NodeIndex) *Node {
	return &t.Nodes[i]
}

// WorldTransform composes i's transform with every ancestor's, root first.
func (t *NodeTree) WorldTransform(i NodeIndex) math.Mat4 {
	n := &t.Nodes[i]
	if n.Parent == nil {
		return n.Transform
	}
	return t.WorldTransform(*n.Parent).Mul(n.Transform)
}

// Traverse visits i and every descendant, parent before children.
func (t *NodeTree) Traverse(i NodeIndex, visit func(NodeIndex)) {
	visit(i)
	for _, c := range t.Nodes[i].Children {
		t.Traverse(c, visit)
	}
}

// Merge grafts other's tree as a new child of host's node at hostParent,
// rewriting every parent/child index in the appended fragment to the new
// base offset, and returns the index other's root now has inside t.
func (t *NodeTree) Merge(hostParent NodeIndex, other *NodeTree) NodeIndex {
	base := NodeIndex(len(t.Nodes))
	for _, n := range other.Nodes {
		rewritten := n
		rewritten.Children = make([]NodeIndex, len(n.Children))
		for i, c := range n.Children {
			rewritten.Children[i] = c + base
		}
		if n.Parent != nil {
			p := *n.Parent + base
			rewritten.Parent = &p
		}
		t.Nodes = append(t.Nodes, rewritten)
	}
	newRoot := other.Root + base
	t.Nodes[newRoot].Parent = &hostParent
	t.Nodes[hostParent].Children = append(t.Nodes[hostParent].Children, newRoot)
	return newRoot
}
