package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/student-teacher-portal/internal/identity"
	"github.com/BruksfildServices01/student-teacher-portal/internal/models"
)

type CredentialGormRepository struct {
	db        *gorm.DB
	namespace string
}

var _ identity.Credentials = (*CredentialGormRepository)(nil)

func NewCredentialGormRepository(db *gorm.DB, namespace string) *CredentialGormRepository {
	return &CredentialGormRepository{db: db, namespace: namespace}
}

func (r *CredentialGormRepository) Create(
	ctx context.Context,
	email string,
	c identity.Credential,
) error {

	row := models.Account{
		Namespace:    r.namespace,
		Email:        email,
		Subject:      c.Subject,
		PasswordHash: c.PasswordHash,
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return errors.Wrap(res.Error, "create account")
	}
	if res.RowsAffected == 0 {
		return identity.ErrEmailInUse
	}
	return nil
}

func (r *CredentialGormRepository) Lookup(
	ctx context.Context,
	email string,
) (identity.Credential, bool, error) {

	var row models.Account
	err := r.db.WithContext(ctx).
		Where("namespace = ? AND email = ?", r.namespace, email).
		First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return identity.Credential{}, false, nil
	}
	if err != nil {
		return identity.Credential{}, false, errors.Wrap(err, "lookup account")
	}

	return identity.Credential{Subject: row.Subject, PasswordHash: row.PasswordHash}, true, nil
}
