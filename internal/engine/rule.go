package engine

import (
	"fmt"
	"slices"

	"bugbear/internal/pyast"
)

// Checker is invoked when the engine enters a node of one of its rule's kinds.
type Checker interface {
	Enter(c *Context, n pyast.Node)
}

// LeaveChecker is implemented by checkers that also need the post-order
// callback, after every descendant of n has been visited.
type LeaveChecker interface {
	Leave(c *Context, n pyast.Node)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(c *Context, n pyast.Node)

func (f CheckerFunc) Enter(c *Context, n pyast.Node) { f(c, n) }

// Rule describes one analyzer. New is called once per pass, so any state the
// checker keeps lives exactly as long as one traversal.
type Rule struct {
	Name  string
	Codes []Code
	Kinds []pyast.Kind
	New   func() Checker
}

// Registry holds rules in registration order.
type Registry struct {
	rules []Rule
	names map[string]bool
}

// NewRegistry returns a registry holding rules. It panics on an invalid rule,
// which is a programming error.
func NewRegistry(rules ...Rule) *Registry {
	r := &Registry{names: make(map[string]bool)}
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			panic(err)
		}
	}
	return r
}

// Register appends a rule.
func (r *Registry) Register(rule Rule) error {
	switch {
	case rule.Name == "":
		return fmt.Errorf("rule has no name")
	case rule.New == nil:
		return fmt.Errorf("rule %s has no checker factory", rule.Name)
	case len(rule.Kinds) == 0:
		return fmt.Errorf("rule %s subscribes to no node kinds", rule.Name)
	case r.names[rule.Name]:
		return fmt.Errorf("rule %s registered twice", rule.Name)
	}
	for _, k := range rule.Kinds {
		if k == pyast.KindInvalid || int(k) >= pyast.NumKinds {
			return fmt.Errorf("rule %s subscribes to invalid kind %d", rule.Name, k)
		}
	}
	if r.names == nil {
		r.names = make(map[string]bool)
	}
	r.names[rule.Name] = true
	r.rules = append(r.rules, rule)
	return nil
}

// Rules returns the registered rules in order.
func (r *Registry) Rules() []Rule {
	return r.rules
}

// Codes returns every code any rule can emit, sorted and unique.
func (r *Registry) Codes() []Code {
	var out []Code
	for _, rule := range r.rules {
		out = append(out, rule.Codes...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// dispatch is the per-pass kind -> checkers table.
type dispatch struct {
	enter [pyast.NumKinds][]Checker
	leave [pyast.NumKinds][]LeaveChecker
}

func (r *Registry) instantiate() *dispatch {
	d := &dispatch{}
	for _, rule := range r.rules {
		ch := rule.New()
		lc, hasLeave := ch.(LeaveChecker)
		for _, k := range rule.Kinds {
			d.enter[k] = append(d.enter[k], ch)
			if hasLeave {
				d.leave[k] = append(d.leave[k], lc)
			}
		}
	}
	return d
}
