package ebnf

import (
	"fmt"
	"strings"

	xebnf "golang.org/x/exp/ebnf"
)

// nullable returns the productions that can match the empty string.
func nullable(g xebnf.Grammar) map[string]bool {
	null := make(map[string]bool)
	for changed := true; changed; {
		changed = false
		for name, prod := range g {
			if !null[name] && exprNullable(prod.Expr, null) {
				null[name] = true
				changed = true
			}
		}
	}
	return null
}

func exprNullable(expr xebnf.Expression, null map[string]bool) bool {
	switch e := expr.(type) {
	case nil:
		return true
	case xebnf.Alternative:
		for _, alt := range e {
			if exprNullable(alt, null) {
				return true
			}
		}
		return false
	case xebnf.Sequence:
		for _, item := range e {
			if !exprNullable(item, null) {
				return false
			}
		}
		return true
	case *xebnf.Group:
		return exprNullable(e.Body, null)
	case *xebnf.Option, *xebnf.Repetition:
		return true
	case *xebnf.Token:
		return e.String == ""
	case *xebnf.Name:
		return null[e.String]
	}
	return false
}

// leftNames calls add for every production that expr may invoke before
// consuming any input.
func leftNames(expr xebnf.Expression, null map[string]bool, add func(string)) {
	switch e := expr.(type) {
	case xebnf.Alternative:
		for _, alt := range e {
			leftNames(alt, null, add)
		}
	case xebnf.Sequence:
		for _, item := range e {
			leftNames(item, null, add)
			if !exprNullable(item, null) {
				return
			}
		}
	case *xebnf.Group:
		leftNames(e.Body, null, add)
	case *xebnf.Option:
		leftNames(e.Body, null, add)
	case *xebnf.Repetition:
		leftNames(e.Body, null, add)
	case *xebnf.Name:
		add(e.String)
	}
}

// checkLeftRecursion reports the first cycle of productions that reach
// themselves without consuming input. An ordered-choice parser would
// recurse on such a cycle forever.
func checkLeftRecursion(g xebnf.Grammar, start string) error {
	null := nullable(g)
	const (
		unvisited = iota
		active
		done
	)
	state := make(map[string]int)
	var path []string
	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case active:
			i := len(path) - 1
			for path[i] != name {
				i--
			}
			cycle := append(append([]string{}, path[i:]...), name)
			return fmt.Errorf("left recursion: %s", strings.Join(cycle, " -> "))
		case done:
			return nil
		}
		prod, ok := g[name]
		if !ok {
			return nil
		}
		state[name] = active
		path = append(path, name)
		var err error
		seen := make(map[string]bool)
		leftNames(prod.Expr, null, func(next string) {
			if err != nil || seen[next] {
				return
			}
			seen[next] = true
			err = visit(next)
		})
		if err != nil {
			return err
		}
		path = path[:len(path)-1]
		state[name] = done
		return nil
	}
	return visit(start)
}
