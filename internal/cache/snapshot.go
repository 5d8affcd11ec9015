package cache

import (
	"strings"

	"commerce/connector/internal/domain"
)

// Snapshot is an immutable projection of the category tree: one map from
// relative url path to node, one map from category id to url path. The root
// is always present under the empty path. A snapshot is never mutated after
// it has been published; refreshes build a new one and swap the reference.
type Snapshot struct {
	byPath   map[string]*domain.CategoryTree
	pathByID map[int]string
}

func newSnapshot(root *domain.CategoryTree) *Snapshot {
	s := &Snapshot{
		byPath:   make(map[string]*domain.CategoryTree),
		pathByID: make(map[int]string),
	}

	s.byPath[""] = root
	s.pathByID[root.ID] = ""

	for _, child := range root.Children {
		s.index(child)
	}

	s.repairTree()
	return s
}

func (s *Snapshot) index(node *domain.CategoryTree) {
	s.byPath[node.URLPath] = node
	s.pathByID[node.ID] = node.URLPath
	for _, child := range node.Children {
		s.index(child)
	}
}

// repairTree compensates a known defect of the upstream categories query,
// which can return nodes detached from their parent or attached to the
// wrong one. First every node whose url path implies a parent is inserted
// exactly once into that parent's child list, then child lists are filtered
// down to children whose url path actually extends the parent's.
func (s *Snapshot) repairTree() {
	for _, node := range s.byPath {
		if !strings.Contains(node.URLPath, "/") {
			continue
		}
		parentPath := node.URLPath[:strings.LastIndex(node.URLPath, "/")]
		parent, ok := s.byPath[parentPath]
		if !ok {
			continue
		}

		attached := false
		for _, child := range parent.Children {
			if child.ID == node.ID {
				attached = true
				break
			}
		}
		if !attached {
			parent.Children = append(parent.Children, node)
		}
	}

	for _, node := range s.byPath {
		if node.URLPath == "" || len(node.Children) == 0 {
			continue
		}
		kept := make([]*domain.CategoryTree, 0, len(node.Children))
		for _, child := range node.Children {
			if strings.HasPrefix(child.URLPath, node.URLPath) {
				kept = append(kept, child)
			}
		}
		node.Children = kept
	}
}

// Category returns the node at the given relative url path, nil if absent.
// The catalog root lives at "".
func (s *Snapshot) Category(path string) *domain.CategoryTree {
	return s.byPath[path]
}

// PathByID returns the relative url path of the category with the given id.
func (s *Snapshot) PathByID(id int) (string, bool) {
	path, ok := s.pathByID[id]
	return path, ok
}

// HasPath reports whether a category exists at the given relative url path.
func (s *Snapshot) HasPath(path string) bool {
	_, ok := s.byPath[path]
	return ok
}

// Len returns the number of categories in the snapshot, root included.
func (s *Snapshot) Len() int {
	return len(s.byPath)
}

// Paths returns all known relative category paths.
func (s *Snapshot) Paths() []string {
	paths := make([]string, 0, len(s.byPath))
	for path := range s.byPath {
		paths = append(paths, path)
	}
	return paths
}
