package cli

import (
	"fmt"
	"strings"
)

type notFoundError struct {
	kind string
	ref  string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.ref)
}

func errNotFound(kind, ref string) error {
	return notFoundError{kind: kind, ref: ref}
}

type ambiguousError struct {
	ref     string
	matches []string
}

func (e ambiguousError) Error() string {
	return fmt.Sprintf("%q matches more than one item (%s); use an id", e.ref, strings.Join(e.matches, ", "))
}
