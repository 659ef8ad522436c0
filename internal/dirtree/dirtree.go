// Arena-backed directory tree for the sidebar browser
package dirtree

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	imgio "interactive-image-viewer/internal/io"
)

// NodeID addresses a node in the tree's arena. IDs are stable for the life
// of the tree; collapsed subtrees are re-created with fresh IDs on the next
// expand.
type NodeID int

// InvalidNode is returned by lookups that find nothing.
const InvalidNode NodeID = -1

// Node is one directory or image file in the browser tree.
type Node struct {
	Name     string
	Path     string
	Dir      bool
	Expanded bool
	loaded   bool
}

// Tree holds all nodes in a flat arena with a separate adjacency table, so
// expansion never walks mutable recursive structures.
type Tree struct {
	nodes    []Node
	children map[NodeID][]NodeID
	parent   map[NodeID]NodeID
	roots    []NodeID
	logger   *logrus.Logger
}

func New(logger *logrus.Logger) *Tree {
	return &Tree{
		children: make(map[NodeID][]NodeID),
		parent:   make(map[NodeID]NodeID),
		logger:   logger,
	}
}

// AddRoot registers a top-level directory.
func (t *Tree) AddRoot(path string) (NodeID, error) {
	info, err := os.Stat(path)
	if err != nil {
		return InvalidNode, fmt.Errorf("tree root %s: %w", path, err)
	}
	if !info.IsDir() {
		return InvalidNode, fmt.Errorf("tree root %s is not a directory", path)
	}

	id := t.alloc(Node{Name: filepath.Base(path), Path: path, Dir: true})
	t.parent[id] = InvalidNode
	t.roots = append(t.roots, id)
	return id, nil
}

// Roots returns the top-level node IDs.
func (t *Tree) Roots() []NodeID {
	out := make([]NodeID, len(t.roots))
	copy(out, t.roots)
	return out
}

// Node returns a copy of the node, and whether the ID is valid.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if id < 0 || int(id) >= len(t.nodes) {
		return Node{}, false
	}
	return t.nodes[id], true
}

// Children returns the current child IDs of a node.
func (t *Tree) Children(id NodeID) []NodeID {
	kids := t.children[id]
	out := make([]NodeID, len(kids))
	copy(out, kids)
	return out
}

// Parent returns the parent ID, or InvalidNode for roots.
func (t *Tree) Parent(id NodeID) NodeID {
	p, ok := t.parent[id]
	if !ok {
		return InvalidNode
	}
	return p
}

// Expand marks a directory node open, lazily loading its children on first
// expand (or after a collapse). Hidden directories and non-image files are
// skipped.
func (t *Tree) Expand(id NodeID) error {
	n, ok := t.Node(id)
	if !ok || !n.Dir {
		return fmt.Errorf("expand: node %d is not a directory", id)
	}

	t.nodes[id].Expanded = true
	if t.nodes[id].loaded {
		return nil
	}

	entries, err := os.ReadDir(n.Path)
	if err != nil {
		return fmt.Errorf("expand %s: %w", n.Path, err)
	}

	var kids []NodeID
	for _, e := range entries {
		name := e.Name()
		path := filepath.Join(n.Path, name)
		if e.IsDir() {
			if strings.HasPrefix(name, ".") {
				continue
			}
			kid := t.alloc(Node{Name: name, Path: path, Dir: true})
			t.parent[kid] = id
			kids = append(kids, kid)
			continue
		}
		if !imgio.Supported(name) {
			continue
		}
		kid := t.alloc(Node{Name: name, Path: path})
		t.parent[kid] = id
		kids = append(kids, kid)
	}

	t.children[id] = kids
	t.nodes[id].loaded = true
	t.logger.WithFields(logrus.Fields{"path": n.Path, "children": len(kids)}).Debug("Directory expanded")
	return nil
}

// Collapse closes a directory node and prunes its children; the next expand
// re-reads the directory.
func (t *Tree) Collapse(id NodeID) {
	n, ok := t.Node(id)
	if !ok || !n.Dir {
		return
	}
	t.nodes[id].Expanded = false
	for _, kid := range t.children[id] {
		t.Collapse(kid)
		delete(t.parent, kid)
		delete(t.children, kid)
	}
	delete(t.children, id)
	t.nodes[id].loaded = false
}

// FindByPath returns the ID of the loaded node with the given path.
func (t *Tree) FindByPath(path string) NodeID {
	for i := range t.nodes {
		id := NodeID(i)
		if t.nodes[i].Path == path && t.reachable(id) {
			return id
		}
	}
	return InvalidNode
}

func (t *Tree) reachable(id NodeID) bool {
	for id != InvalidNode {
		p, ok := t.parent[id]
		if !ok {
			return false
		}
		if p == InvalidNode {
			return true
		}
		id = p
	}
	return false
}

func (t *Tree) alloc(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// ListImages returns the ordered image paths directly inside dir, applying
// the same extension filter as the tree.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list images in %s: %w", dir, err)
	}

	var out []string
	for _, e := range entries {
		if e.IsDir() || !imgio.Supported(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}
