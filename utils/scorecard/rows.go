package scorecard

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Aashish23092/scorecard-ocr/dto"
)

// Row is a horizontal band of tokens, ordered left to right.
type Row struct {
	Y      int
	Tokens []dto.Token
}

// Texts returns the token texts of the row in left-to-right order.
func (r Row) Texts() []string {
	out := make([]string, len(r.Tokens))
	for i, t := range r.Tokens {
		out[i] = t.Text
	}
	return out
}

// words splits the row's token texts into single fields, so providers that
// return whole text lines as one token read the same as word-level ones.
func (r Row) words() []string {
	var out []string
	for _, t := range r.Tokens {
		out = append(out, splitFields(t.Text)...)
	}
	return out
}

// String joins the row's tokens with single spaces.
func (r Row) String() string {
	return strings.Join(r.Texts(), " ")
}

// GroupRows clusters tokens into rows ordered top to bottom. Tokens are
// sorted by their top edge and walked once; a token joins the current row
// while its top lies within tolerance of the row's first token, otherwise
// it opens a new row. Every token lands in exactly one row.
func GroupRows(tokens []dto.Token, tolerance int) []Row {
	if len(tokens) == 0 {
		return nil
	}
	if tolerance <= 0 {
		tolerance = DefaultRowTolerance
	}

	sorted := slices.Clone(tokens)
	slices.SortStableFunc(sorted, func(a, b dto.Token) int {
		return cmp.Compare(a.Top(), b.Top())
	})

	var rows []Row
	current := Row{Y: sorted[0].Top()}
	for _, tok := range sorted {
		if strings.TrimSpace(tok.Text) == "" {
			continue
		}
		if len(current.Tokens) > 0 && tok.Top()-current.Y > tolerance {
			rows = append(rows, current)
			current = Row{Y: tok.Top()}
		}
		if len(current.Tokens) == 0 {
			current.Y = tok.Top()
		}
		current.Tokens = append(current.Tokens, tok)
	}
	if len(current.Tokens) > 0 {
		rows = append(rows, current)
	}

	for i := range rows {
		slices.SortStableFunc(rows[i].Tokens, func(a, b dto.Token) int {
			return cmp.Compare(a.Left(), b.Left())
		})
	}
	return rows
}
