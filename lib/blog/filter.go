package blog

import "errors"

// --------------------------------------------------------------------------
// Selector
// --------------------------------------------------------------------------

// SelectorKind tells which filter a Selector applies
type SelectorKind uint8

const (
	SelectorNone SelectorKind = iota
	SelectorCategory
	SelectorTag
)

func (k SelectorKind) String() string {
	switch k {
	case SelectorNone:
		return "none"
	case SelectorCategory:
		return "category"
	case SelectorTag:
		return "tag"
	default:
		return "unknown"
	}
}

// Selector picks at most one filter: a category id or a tag name.
// The zero value selects all posts. Choosing a category replaces a tag and the other
// way around, since a Selector only ever holds one of them.
type Selector struct {
	kind  SelectorKind
	value string
}

// SelectNone returns the selector matching every post
func SelectNone() Selector {
	return Selector{}
}

// SelectCategory returns a selector matching posts with the given category id
func SelectCategory(categoryID string) Selector {
	return Selector{kind: SelectorCategory, value: categoryID}
}

// SelectTag returns a selector matching posts carrying the given tag
func SelectTag(tag string) Selector {
	return Selector{kind: SelectorTag, value: tag}
}

// ErrConflictingSelector is returned by ParseSelector when both a category and a tag are given
var ErrConflictingSelector = errors.New("category and tag filters are mutually exclusive")

// ParseSelector builds a selector from the two optional filter inputs of the CLI.
func ParseSelector(categoryID, tag string) (Selector, error) {
	switch {
	case categoryID != "" && tag != "":
		return Selector{}, ErrConflictingSelector
	case categoryID != "":
		return SelectCategory(categoryID), nil
	case tag != "":
		return SelectTag(tag), nil
	default:
		return SelectNone(), nil
	}
}

func (s Selector) Kind() SelectorKind {
	return s.kind
}

// Value is the category id or tag name, empty for SelectorNone
func (s Selector) Value() string {
	return s.value
}

func (s Selector) String() string {
	if s.kind == SelectorNone {
		return s.kind.String()
	}
	return s.kind.String() + "(" + s.value + ")"
}

// Describe returns the active filter label ("Category: Travel", "Tag: go"), or an
// empty string if no filter is active.
func (s Selector) Describe(categories []Category) string {
	switch s.kind {
	case SelectorCategory:
		return "Category: " + FindCategoryName(categories, s.value)
	case SelectorTag:
		return "Tag: " + s.value
	default:
		return ""
	}
}

// Matches reports whether a single post passes the selector
func (s Selector) Matches(p Post) bool {
	switch s.kind {
	case SelectorCategory:
		return p.CategoryID == s.value
	case SelectorTag:
		for _, t := range p.Tags {
			if t == s.value {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// --------------------------------------------------------------------------
// Filtering
// --------------------------------------------------------------------------

// FilterPosts returns the posts matching sel in their original order.
// The result is always a new slice; posts is not modified.
func FilterPosts(posts []Post, sel Selector) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if sel.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}
