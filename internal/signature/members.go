package signature

import "strings"

// simplifyRegion walks the member region and collects simplified member types.
// Brace depth is relative to the region start; lines carrying a brace only
// move the depth and never contribute.
func simplifyRegion(region []string) []string {
	var fields []string
	depth := 0

	for _, line := range region {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.ContainsAny(trimmed, "{}") {
			depth += strings.Count(trimmed, "{") - strings.Count(trimmed, "}")
			continue
		}

		if depth != 0 {
			continue
		}

		if field, ok := SimplifyMember(trimmed); ok {
			fields = append(fields, field)
		}
	}

	return fields
}

// SimplifyMember reduces a member declaration to its type expression.
// Static members are dropped, leading modifiers and annotations are stripped,
// anything from a standalone "=" on is cut, and the trailing name is removed.
// It reports false when nothing is left.
//
// Statements naming several members ("int a, b;") are not split.
func SimplifyMember(line string) (string, bool) {
	tokens := strings.Fields(line)

	for _, tok := range tokens {
		if tok == "static" {
			return "", false
		}
	}

	for len(tokens) > 0 && (isModifier(tokens[0]) || strings.HasPrefix(tokens[0], "@")) {
		tokens = tokens[1:]
	}

	for i, tok := range tokens {
		if tok == "=" {
			tokens = tokens[:i]
			break
		}
	}

	if len(tokens) < 2 {
		return "", false
	}

	return strings.Join(tokens[:len(tokens)-1], " "), true
}

func isModifier(token string) bool {
	for _, mod := range Modifiers {
		if token == mod {
			return true
		}
	}
	return false
}
