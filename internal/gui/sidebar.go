// Directory tree sidebar
package gui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"interactive-image-viewer/internal/dirtree"
)

// Sidebar presents the arena-backed directory tree and opens images on
// selection.
type Sidebar struct {
	tree    *dirtree.Tree
	widget  *widget.Tree
	onImage func(path string)
	logger  *logrus.Logger
}

func NewSidebar(tree *dirtree.Tree, onImage func(path string), logger *logrus.Logger) *Sidebar {
	s := &Sidebar{tree: tree, onImage: onImage, logger: logger}

	s.widget = widget.NewTree(
		func(uid widget.TreeNodeID) []widget.TreeNodeID {
			var ids []dirtree.NodeID
			if uid == "" {
				ids = tree.Roots()
			} else {
				ids = tree.Children(toNodeID(uid))
			}
			out := make([]widget.TreeNodeID, 0, len(ids))
			for _, id := range ids {
				out = append(out, strconv.Itoa(int(id)))
			}
			return out
		},
		func(uid widget.TreeNodeID) bool {
			if uid == "" {
				return true
			}
			n, ok := tree.Node(toNodeID(uid))
			return ok && n.Dir
		},
		func(branch bool) fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(uid widget.TreeNodeID, branch bool, co fyne.CanvasObject) {
			n, ok := tree.Node(toNodeID(uid))
			if !ok {
				return
			}
			co.(*widget.Label).SetText(n.Name)
		},
	)

	s.widget.OnBranchOpened = func(uid widget.TreeNodeID) {
		if uid == "" {
			return
		}
		if err := tree.Expand(toNodeID(uid)); err != nil {
			logger.WithField("error", err).Warn("Directory expand failed")
			return
		}
		s.widget.Refresh()
	}
	s.widget.OnBranchClosed = func(uid widget.TreeNodeID) {
		if uid == "" {
			return
		}
		tree.Collapse(toNodeID(uid))
		s.widget.Refresh()
	}
	s.widget.OnSelected = func(uid widget.TreeNodeID) {
		n, ok := tree.Node(toNodeID(uid))
		if !ok || n.Dir {
			return
		}
		s.onImage(n.Path)
	}

	return s
}

// Container returns the sidebar widget.
func (s *Sidebar) Container() fyne.CanvasObject {
	return s.widget
}

func toNodeID(uid widget.TreeNodeID) dirtree.NodeID {
	n, err := strconv.Atoi(uid)
	if err != nil {
		return dirtree.InvalidNode
	}
	return dirtree.NodeID(n)
}
