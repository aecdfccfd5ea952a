package blog

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"reflect"
	"strings"
)

var validate = newValidator()

// newValidator reports fields under their json names so that problems read like the
// stored document ("posts[2].authorId") rather than like Go identifiers.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that title, content, authorId and categoryId are set.
// Whitespace-only values count as missing. The returned *ValidationError names the
// missing fields in form order.
func (f PostFields) Validate() error {
	trimmed := PostFields{
		Title:      strings.TrimSpace(f.Title),
		Content:    strings.TrimSpace(f.Content),
		Image:      f.Image,
		AuthorID:   strings.TrimSpace(f.AuthorID),
		CategoryID: strings.TrimSpace(f.CategoryID),
		Tags:       f.Tags,
	}

	err := validate.Struct(trimmed)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return &ValidationError{Missing: missing}
}

// Problems checks the structural rules a stored or bootstrapped dataset has to follow:
// positive unique post ids, the required post fields, and author and category keys.
// It returns one message per violation, nil if the dataset is well formed.
// Dangling author or category references are not problems.
func (d Dataset) Problems() []string {
	var problems []string

	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s: failed %q", trimNamespace(fe.Namespace()), fe.Tag()))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}

	seen := make(map[int]int, len(d.Posts))
	for i, p := range d.Posts {
		if p.ID <= 0 {
			continue
		}
		if first, dup := seen[p.ID]; dup {
			problems = append(problems, fmt.Sprintf("posts[%d].id: duplicate id %d (first used by posts[%d])", i, p.ID, first))
			continue
		}
		seen[p.ID] = i
	}

	return problems
}

// trimNamespace drops the root struct name ("Dataset.posts[0].id" -> "posts[0].id")
func trimNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
