package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"artmarket/internal/domain"
)

// translate maps driver/ORM errors onto the domain taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isDupKey(err):
		return errors.Join(domain.ErrConflict, err)
	default:
		return err
	}
}

// isDupKey matches unique violations by message so it works across mysql,
// postgres and sqlite without TranslateError.
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
