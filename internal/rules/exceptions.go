package rules

import "slices"

// builtinExceptionParent maps each built-in exception class to its base.
// ExceptionGroup also derives from BaseExceptionGroup; see builtinExtraBases.
var builtinExceptionParent = map[string]string{
	"BaseException":             "",
	"BaseExceptionGroup":        "BaseException",
	"GeneratorExit":             "BaseException",
	"KeyboardInterrupt":         "BaseException",
	"SystemExit":                "BaseException",
	"Exception":                 "BaseException",
	"ArithmeticError":           "Exception",
	"FloatingPointError":        "ArithmeticError",
	"OverflowError":             "ArithmeticError",
	"ZeroDivisionError":         "ArithmeticError",
	"AssertionError":            "Exception",
	"AttributeError":            "Exception",
	"BufferError":               "Exception",
	"EOFError":                  "Exception",
	"ExceptionGroup":            "Exception",
	"ImportError":               "Exception",
	"ModuleNotFoundError":       "ImportError",
	"LookupError":               "Exception",
	"IndexError":                "LookupError",
	"KeyError":                  "LookupError",
	"MemoryError":               "Exception",
	"NameError":                 "Exception",
	"UnboundLocalError":         "NameError",
	"OSError":                   "Exception",
	"BlockingIOError":           "OSError",
	"ChildProcessError":         "OSError",
	"ConnectionError":           "OSError",
	"BrokenPipeError":           "ConnectionError",
	"ConnectionAbortedError":    "ConnectionError",
	"ConnectionRefusedError":    "ConnectionError",
	"ConnectionResetError":      "ConnectionError",
	"FileExistsError":           "OSError",
	"FileNotFoundError":         "OSError",
	"InterruptedError":          "OSError",
	"IsADirectoryError":         "OSError",
	"NotADirectoryError":        "OSError",
	"PermissionError":           "OSError",
	"ProcessLookupError":        "OSError",
	"TimeoutError":              "OSError",
	"ReferenceError":            "Exception",
	"RuntimeError":              "Exception",
	"NotImplementedError":       "RuntimeError",
	"PythonFinalizationError":   "RuntimeError",
	"RecursionError":            "RuntimeError",
	"StopAsyncIteration":        "Exception",
	"StopIteration":             "Exception",
	"SyntaxError":               "Exception",
	"IndentationError":          "SyntaxError",
	"TabError":                  "IndentationError",
	"SystemError":               "Exception",
	"TypeError":                 "Exception",
	"ValueError":                "Exception",
	"UnicodeError":              "ValueError",
	"UnicodeDecodeError":        "UnicodeError",
	"UnicodeEncodeError":        "UnicodeError",
	"UnicodeTranslateError":     "UnicodeError",
	"Warning":                   "Exception",
	"BytesWarning":              "Warning",
	"DeprecationWarning":        "Warning",
	"EncodingWarning":           "Warning",
	"FutureWarning":             "Warning",
	"ImportWarning":             "Warning",
	"PendingDeprecationWarning": "Warning",
	"ResourceWarning":           "Warning",
	"RuntimeWarning":            "Warning",
	"SyntaxWarning":             "Warning",
	"UnicodeWarning":            "Warning",
	"UserWarning":               "Warning",
}

var builtinExtraBases = map[string][]string{
	"ExceptionGroup": {"BaseExceptionGroup"},
}

// builtinAliases are built-in names bound to another built-in class.
var builtinAliases = map[string]string{
	"IOError":          "OSError",
	"EnvironmentError": "OSError",
}

// redundantAliases lists names that are always covered by a primary name,
// including module attributes the built-in table cannot see.
var redundantAliases = []struct {
	primary     string
	equivalents []string
}{
	{"OSError", []string{"IOError", "EnvironmentError", "WindowsError", "mmap.error", "socket.error", "select.error"}},
	{"ValueError", []string{"binascii.Error"}},
}

func canonicalException(name string) (string, bool) {
	if alias, ok := builtinAliases[name]; ok {
		name = alias
	}
	_, ok := builtinExceptionParent[name]
	return name, ok
}

// isBuiltinSubclass reports whether the built-in exception sub derives from
// (or is) the built-in exception base. Unknown names are never subclasses.
func isBuiltinSubclass(sub, base string) bool {
	sub, ok := canonicalException(sub)
	if !ok {
		return false
	}
	base, ok = canonicalException(base)
	if !ok {
		return false
	}
	var walk func(string) bool
	walk = func(cls string) bool {
		if cls == base {
			return true
		}
		for _, extra := range builtinExtraBases[cls] {
			if walk(extra) {
				return true
			}
		}
		parent := builtinExceptionParent[cls]
		return parent != "" && walk(parent)
	}
	return walk(sub)
}

// ReduceExceptions removes the names of an except clause that another name
// of the same clause already catches: duplicates, everything next to
// BaseException, known aliases and built-in subclasses. Order is preserved.
func ReduceExceptions(names []string) []string {
	good := make([]string, 0, len(names))
	for _, n := range names {
		if !slices.Contains(good, n) {
			good = append(good, n)
		}
	}
	if slices.Contains(good, "BaseException") {
		return []string{"BaseException"}
	}
	for _, alias := range redundantAliases {
		if slices.Contains(good, alias.primary) {
			good = slices.DeleteFunc(good, func(g string) bool {
				return slices.Contains(alias.equivalents, g)
			})
		}
	}

	candidates := slices.Clone(good)
	for _, name := range candidates {
		for _, other := range candidates {
			if name == other || !slices.Contains(good, other) {
				continue
			}
			if isBuiltinSubclass(name, other) {
				good = slices.DeleteFunc(good, func(g string) bool { return g == name })
				break
			}
		}
	}
	return good
}
