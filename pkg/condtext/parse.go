package condtext

import (
	"strconv"
	"strings"
)

// Term is the parsed, unresolved form of a requirements text: a bare
// name or a (|...)/(&...)/(+N,...) group. An empty text parses to an
// empty conjunction and the zero Term is an empty literal; both resolve
// to a requirement of True.
type Term struct {
	t term
}

// ParseCondition parses a single requirements text blob:
// a bare comma-separated sequence at the top level is an implicit
// conjunction, and empty text means True. Mirroring the source parser,
// malformed groups are tolerated rather than rejected: an unclosed group
// ends at the end of the text, a non-numeric threshold count reads as 0,
// and a `(+N` with no following comma is dropped.
func ParseCondition(text string) Term {
	terms, _ := parseSeq(text)
	return Term{t: wrapSeq(terms)}
}

func wrapSeq(terms []term) term {
	switch len(terms) {
	case 0:
		return term{kind: termAnd}
	case 1:
		return terms[0]
	default:
		return term{kind: termAnd, children: terms}
	}
}

// parseSeq parses a comma-separated sequence of terms up to the next
// unmatched ')' or the end of the string, recursing into (|...),
// (&...), and (+N,...) groups. It returns whatever text remains after
// the sequence it consumed (past the closing ')' of an enclosing
// group, if any).
func parseSeq(s string) ([]term, string) {
	s = strings.TrimSpace(s)
	var terms []term
	for s != "" {
		switch {
		case strings.HasPrefix(s, "(|"):
			sub, rest := parseSeq(s[2:])
			s = rest
			terms = append(terms, term{kind: termOr, children: sub})
		case strings.HasPrefix(s, "(&"):
			sub, rest := parseSeq(s[2:])
			s = rest
			terms = append(terms, term{kind: termAnd, children: sub})
		case strings.HasPrefix(s, "(+"):
			commaPos := strings.IndexByte(s, ',')
			if commaPos < 0 {
				s = ""
				break
			}
			count, err := strconv.Atoi(strings.TrimSpace(s[2:commaPos]))
			if err != nil {
				count = 0
			}
			sub, rest := parseSeq(s[commaPos+1:])
			s = rest
			terms = append(terms, term{kind: termCount, threshold: count, children: sub})
		default:
			end := strings.IndexAny(s, ",)")
			var lit string
			if end < 0 {
				lit = strings.TrimSpace(s)
				s = ""
			} else {
				lit = strings.TrimSpace(s[:end])
				s = s[end:]
			}
			if lit != "" {
				terms = append(terms, term{kind: termLit, lit: lit})
			}
			s = strings.TrimPrefix(s, ",")
			if rest, ok := strings.CutPrefix(s, ")"); ok {
				return terms, strings.TrimSpace(rest)
			}
		}
		s = strings.TrimSpace(s)
	}
	return terms, s
}
