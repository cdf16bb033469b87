package postgres

import (
	"strconv"
	"strings"
)

// conds acumula condiciones de un WHERE con sus argumentos posicionales.
// Si se pasa un argumento, cada "$?" de la condición se reemplaza por su número.
type conds struct {
	clauses []string
	args    []any
}

func (c *conds) add(clause string, arg ...any) {
	if len(arg) > 0 {
		c.args = append(c.args, arg[0])
		clause = strings.ReplaceAll(clause, "$?", "$"+strconv.Itoa(len(c.args)))
	}
	c.clauses = append(c.clauses, clause)
}

// bind agrega un argumento sin condición y devuelve su placeholder.
func (c *conds) bind(arg any) string {
	c.args = append(c.args, arg)
	return "$" + strconv.Itoa(len(c.args))
}

// textArray evita mandar NULL por un slice nil: NOT (x = ANY(NULL)) nunca es verdadero.
func textArray(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func (c *conds) where() string {
	if len(c.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.clauses, " AND ")
}

// page agrega LIMIT y OFFSET como argumentos y devuelve el sufijo de la consulta.
func (c *conds) page(limit, offset int) (string, []any) {
	args := append(append([]any{}, c.args...), limit, offset)
	n := len(c.args)
	return " LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2), args
}
