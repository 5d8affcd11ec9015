package domain

// CategoryTree is one node of the remote category tree. URLPath is relative
// to the catalog root; the root node itself carries an empty URLPath.
type CategoryTree struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	URLPath  string          `json:"url_path"`
	Position int             `json:"position"`
	Children []*CategoryTree `json:"children"`
}

// HasChildren reports whether the node has at least one child category.
func (c *CategoryTree) HasChildren() bool {
	return c != nil && len(c.Children) > 0
}
