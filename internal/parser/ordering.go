package parser

import (
	"github.com/exprquery/exprquery/internal/ast"
	"github.com/exprquery/exprquery/internal/lex"
)

// OrderTerm is one selector of a ParseOrdering result.
type OrderTerm struct {
	Selector  ast.Node
	Ascending bool
}

// ParseOrdering implements spec.md §4.9: parse an expression, optionally
// consume asc|ascending|desc|descending, then `,` or end; repeat until end
// of input. `parse_ordering` additionally requires `end` after the final
// selector (spec.md §4.11).
func (p *Parser) ParseOrdering() ([]OrderTerm, error) {
	var terms []OrderTerm
	for {
		selector, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		ascending := true
		if p.atKeyword("asc", "ascending") {
			p.advance()
		} else if p.atKeyword("desc", "descending") {
			ascending = false
			p.advance()
		}
		terms = append(terms, OrderTerm{Selector: selector, Ascending: ascending})
		if p.cur().Kind == lex.Comma {
			p.advance()
			continue
		}
		break
	}
	if p.cur().Kind != lex.End {
		return nil, errAt(p.cur().Pos, "syntax error at %s", p.cur())
	}
	return terms, nil
}
