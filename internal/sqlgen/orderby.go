package sqlgen

import "strings"

// SplitOrderBy splits off a top-level ORDER BY clause so the statement can
// be wrapped in a derived table for preview. It skips string literals,
// quoted identifiers, comments and parenthesized subexpressions.
func SplitOrderBy(sql string) (body string, orderBy string) {
	lower := strings.ToLower(sql)
	depth := 0
	inSingle := false
	inDouble := false
	inLineComment := false
	inBlockComment := false

	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		var nxt byte
		if i+1 < len(sql) {
			nxt = sql[i+1]
		}

		if inLineComment {
			if ch == '\r' || ch == '\n' {
				inLineComment = false
			}
			continue
		}
		if inBlockComment {
			if ch == '*' && nxt == '/' {
				inBlockComment = false
				i++
			}
			continue
		}
		if ch == '-' && nxt == '-' {
			inLineComment = true
			i++
			continue
		}
		if ch == '/' && nxt == '*' {
			inBlockComment = true
			i++
			continue
		}

		if ch == '\'' && !inDouble {
			inSingle = !inSingle
			continue
		}
		if ch == '"' && !inSingle {
			inDouble = !inDouble
			continue
		}
		if inSingle || inDouble {
			continue
		}
		if ch == '(' {
			depth++
			continue
		}
		if ch == ')' {
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth == 0 && strings.HasPrefix(lower[i:], "order by") {
			clause := strings.TrimSpace(sql[i+len("order by"):])
			return strings.TrimRight(sql[:i], " \t\r\n"), clause
		}
	}
	return sql, ""
}
