package repository

import (
	"errors"

	"github.com/vietanh2810/gametables-api/internal/domain"
	"github.com/vietanh2810/gametables-api/internal/repository/dao"
)

var daoErrors = map[error]error{
	dao.ErrTableNotFound:        domain.ErrTableNotFound,
	dao.ErrParticipantNotFound:  domain.ErrParticipantNotFound,
	dao.ErrParticipantDuplicate: domain.ErrAlreadyRegistered,
	dao.ErrEventConfigNotFound:  domain.ErrEventConfigNotFound,
	dao.ErrUserNotFound:         domain.ErrUserNotFound,
	dao.ErrUserEmailExists:      domain.ErrUserEmailExists,
}

// domainErr swaps storage sentinels for their domain counterparts so callers
// never depend on the dao package.
func domainErr(err error) error {
	for daoErr, domainErr := range daoErrors {
		if errors.Is(err, daoErr) {
			return domainErr
		}
	}
	return err
}
