package blog

import (
	"fmt"
	"strings"
)

// ValidationError lists the required form fields that were empty
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field(s): %s", strings.Join(e.Missing, ", "))
}

// NotFoundError is returned by UpdatePost when no post has the given id
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("post %d not found", e.ID)
}
