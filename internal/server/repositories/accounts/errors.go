package accounts

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/datakeeper/internal/common"
	"github.com/dmitrijs2005/datakeeper/internal/dbx"
)

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	if constraint, ok := dbx.UniqueViolation(err); ok {
		return fmt.Errorf("db error: %w", common.ConflictError{Field: conflictField(constraint)})
	}
	return fmt.Errorf("db error: %w", err)
}

func conflictField(constraint string) string {
	switch {
	case strings.Contains(constraint, "external_id"):
		return "external_id"
	case strings.Contains(constraint, "username"):
		return "username"
	default:
		return "unique"
	}
}
