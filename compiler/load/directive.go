package load

import (
	"fmt"
	"go/ast"
	"strings"
)

// parseDirective reads the builder directive from a doc comment group.
func parseDirective(doc *ast.CommentGroup) (*Directive, bool, error) {
	if doc == nil {
		return nil, false, nil
	}
	for _, c := range doc.List {
		args, ok := cutDirective(c.Text, BuilderDirective)
		if !ok {
			continue
		}
		d := &Directive{}
		for _, arg := range strings.Fields(args) {
			key, value, ok := strings.Cut(arg, "=")
			if !ok || value == "" {
				return nil, false, fmt.Errorf("malformed directive argument %q, want key=value", arg)
			}
			switch key {
			case "strategy":
				d.Strategy = value
			case "setter_prefix", "prefix":
				d.SetterPrefix = value
			case "exclude":
				for _, name := range strings.Split(value, ",") {
					if name = strings.TrimSpace(name); name != "" {
						d.Exclude = append(d.Exclude, name)
					}
				}
			case "factory":
				d.Factory = value
			default:
				return nil, false, fmt.Errorf("unknown directive argument %q", key)
			}
		}
		return d, true, nil
	}
	return nil, false, nil
}

func hasDirective(doc *ast.CommentGroup, directive string) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if _, ok := cutDirective(c.Text, directive); ok {
			return true
		}
	}
	return false
}

// cutDirective returns the arguments of a "//name args" comment.
func cutDirective(text, directive string) (string, bool) {
	rest, ok := strings.CutPrefix(text, directive)
	if !ok || rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}
