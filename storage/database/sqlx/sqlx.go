// Package sqlxrepos provides PostgreSQL-backed repositories.
package sqlxrepos

import (
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/kahenga/onyesha/core"
)

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func orderBy(ords ...core.DBOrdering) string {
	terms := make([]string, 0, len(ords))
	for _, ord := range ords {
		terms = append(terms, ord.String())
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

// trapUniqueViolation maps a unique constraint violation to a domain error.
func trapUniqueViolation(err error, mapErr func(constraint string) error) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return mapErr(pqErr.Constraint)
	}
	return err
}
