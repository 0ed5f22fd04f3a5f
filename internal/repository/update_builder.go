package repository

import (
	"fmt"
	"strings"
)

// updateBuilder accumulates the SET clause of a partial UPDATE, numbering placeholders as
// columns are added.
type updateBuilder struct {
	sets []string
	args []any
}

func (b *updateBuilder) set(column string, value any) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *updateBuilder) empty() bool {
	return len(b.sets) == 0
}

// query renders "UPDATE table SET ... WHERE id = $n" with id appended as the last argument.
func (b *updateBuilder) query(table, id string) (string, []any) {
	args := append(b.args, id)
	return fmt.Sprintf(`UPDATE %s SET %s WHERE "id" = $%d`, table, strings.Join(b.sets, ", "), len(args)), args
}
