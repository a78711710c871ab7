// Package postgres holds what the bun repositories share.
package postgres

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("not found")

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains returns an ILIKE pattern matching s anywhere in a column.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}

// Page clamps limit to [1, max] (defaulting to def) and offset to >= 0.
func Page(limit, offset *int, def, max int) (int, int) {
	l, o := def, 0
	if limit != nil {
		l = *limit
	}
	if l < 1 {
		l = 1
	}
	if l > max {
		l = max
	}
	if offset != nil && *offset > 0 {
		o = *offset
	}
	return l, o
}
