// Package signature extracts a compact structural summary from the text of a
// single decompiled source file: its namespace, its type name and the
// simplified types of the members declared before the first constructor.
//
// There is no grammar. The extractor works line by line with marker search,
// brace-depth tracking and keyword stripping, and it terminates on any input:
// every scan goes through Seek, which stops at the end of the buffer.
package signature

import (
	"errors"
	"regexp"
	"strings"
)

// ErrMalformedInput is returned when the namespace declaration is missing.
var ErrMalformedInput = errors.New("malformed input: no package declaration")

const (
	namespaceMarker = "package"
	typeMarker      = "class"
)

// Modifiers is the set of keywords recognized in front of members and constructors.
var Modifiers = []string{"public", "static", "final", "protected", "private"}

var identifierPattern = regexp.MustCompile(`^[\p{L}_$][\p{L}\p{Nd}_$]*$`)

// ClassSignature is the structural summary of one source file.
type ClassSignature struct {
	Path      string
	Namespace string
	TypeName  string   // empty when Valid is false
	Fields    []string // simplified member types in encounter order
	Valid     bool
}

// QualifiedName returns "<namespace>.<type>".
func (s ClassSignature) QualifiedName() string {
	return s.Namespace + "." + s.TypeName
}

// String renders the signature as "<ns>.<type> -> <f1>, <f2>\n  at <path>".
func (s ClassSignature) String() string {
	return s.QualifiedName() + " -> " + strings.Join(s.Fields, ", ") + "\n  at " + s.Path
}

// IsIdentifier reports whether token is a non-empty identifier: a letter,
// underscore or dollar sign followed by letters, digits, underscores or
// dollar signs.
func IsIdentifier(token string) bool {
	return identifierPattern.MatchString(token)
}

// Extract builds the signature of the file whose lines are given. path is only
// carried through for rendering. A file without a package declaration yields
// ErrMalformedInput; a file without a plausible class declaration yields a
// signature with Valid set to false.
func Extract(path string, lines []string) (ClassSignature, error) {
	namespace, ok := locateNamespace(lines)
	if !ok {
		return ClassSignature{}, ErrMalformedInput
	}

	sig := ClassSignature{Path: path, Namespace: namespace}

	// The type declaration is searched from the top again; decompilers do not
	// guarantee that it follows the package line.
	typeLine, typeName, ok := locateType(lines)
	if !ok {
		return sig, nil
	}

	start, end := memberRegion(lines, typeLine, typeName)

	sig.TypeName = typeName
	sig.Fields = simplifyRegion(lines[start:end])
	sig.Valid = true
	return sig, nil
}

func locateNamespace(lines []string) (string, bool) {
	cur := Seek(lines, 0, Contains(namespaceMarker))
	if !cur.Found() {
		return "", false
	}

	rest := strings.TrimSpace(lines[cur.Line])[cur.Offset:]
	if end := strings.IndexByte(rest, ';'); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest), true
}

func locateType(lines []string) (int, string, bool) {
	cur := Seek(lines, 0, Contains(typeMarker))
	if !cur.Found() {
		return 0, "", false
	}

	rest := strings.TrimLeft(strings.TrimSpace(lines[cur.Line])[cur.Offset:], " \t")
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	if !IsIdentifier(rest) {
		return 0, "", false
	}
	return cur.Line, rest, true
}

// memberRegion returns the half-open line range between the type declaration
// and the first constructor of typeName, or the end of the buffer.
func memberRegion(lines []string, typeLine int, typeName string) (int, int) {
	start := typeLine + 1
	cur := Seek(lines, start, ConstructorOf(typeName))
	return start, cur.Line
}
