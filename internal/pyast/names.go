package pyast

import "strings"

// NameString resolves a Name, an Attribute chain or the callee of a Call to a
// dotted name such as "ValueError" or "pkg.mod.error". It returns "" when any
// link of the chain is something else.
func NameString(n Node) string {
	switch n := n.(type) {
	case *Name:
		return n.Ident
	case *Call:
		return NameString(n.Func)
	case *Attribute:
		inner := NameString(n.Value)
		if inner == "" {
			return ""
		}
		return inner + "." + n.Attr
	}
	return ""
}

// CallPath collects the identifier segments of an Attribute/Call/Name chain,
// skipping links it cannot resolve. CallPath(a().b.c) is [a b c].
func CallPath(n Node) []string {
	switch n := n.(type) {
	case *Attribute:
		return append(CallPath(n.Value), n.Attr)
	case *Call:
		return CallPath(n.Func)
	case *Name:
		return []string{n.Ident}
	}
	return nil
}

// DottedPath is CallPath joined with dots.
func DottedPath(n Node) string {
	return strings.Join(CallPath(n), ".")
}

// IsName reports whether n is the (possibly dotted) name, e.g.
// IsName(n, "itertools.groupby").
func IsName(n Node, name string) bool {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		id, ok := n.(*Name)
		return ok && id.Ident == name
	}
	attr, ok := n.(*Attribute)
	return ok && attr.Attr == name[i+1:] && IsName(attr.Value, name[:i])
}

// AssignedNames returns the names bound by an assignment target, descending
// through starred, tuple and list destructuring.
func AssignedNames(target Node) []string {
	var out []string
	var visit func(Node)
	visit = func(n Node) {
		switch n := n.(type) {
		case *Name:
			out = append(out, n.Ident)
		case *Starred:
			visit(n.Value)
		case *Tuple:
			for _, e := range n.Elts {
				visit(e)
			}
		case *List:
			for _, e := range n.Elts {
				visit(e)
			}
		}
	}
	visit(target)
	return out
}

// ParamNames returns the names of every parameter in params.
func ParamNames(params []*Arg) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		out = append(out, p.Name)
	}
	return out
}
