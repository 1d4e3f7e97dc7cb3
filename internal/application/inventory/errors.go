package inventory

import (
	"errors"

	"github.com/ecofoods/backend/internal/domain/shared"
)

func isDomainError(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr)
}
