package domain

import "fmt"

// Category is a tracked activity type. Groups are top-level categories;
// every other category belongs to exactly one group.
type Category struct {
	ID       string
	IsGroup  bool
	Name     string
	ParentID *string
	Order    int
	Color    int
	Deleted  bool
	Revision int
	ImageID  string
}

// Validate checks the two-level hierarchy invariant.
func (c *Category) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("category %q: missing id", c.Name)
	}
	hasParent := c.ParentID != nil && *c.ParentID != ""
	if c.IsGroup && hasParent {
		return fmt.Errorf("category %q: group must not have a parent", c.Name)
	}
	if !c.IsGroup && !hasParent {
		return fmt.Errorf("category %q: type must belong to a group", c.Name)
	}
	return nil
}
