package repository

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/BruksfildServices01/student-teacher-portal/internal/identity"
)

// CredentialRedisRepository keeps one hash field per email in
// {namespace}:accounts, next to the document tree hash.
type CredentialRedisRepository struct {
	rdb *redis.Client
	key string
}

var _ identity.Credentials = (*CredentialRedisRepository)(nil)

func NewCredentialRedisRepository(rdb *redis.Client, namespace string) *CredentialRedisRepository {
	return &CredentialRedisRepository{rdb: rdb, key: namespace + ":accounts"}
}

func (r *CredentialRedisRepository) Create(
	ctx context.Context,
	email string,
	c identity.Credential,
) error {

	raw, err := json.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode account")
	}

	created, err := r.rdb.HSetNX(ctx, r.key, email, raw).Result()
	if err != nil {
		return errors.Wrap(err, "create account")
	}
	if !created {
		return identity.ErrEmailInUse
	}
	return nil
}

func (r *CredentialRedisRepository) Lookup(
	ctx context.Context,
	email string,
) (identity.Credential, bool, error) {

	raw, err := r.rdb.HGet(ctx, r.key, email).Bytes()
	if errors.Is(err, redis.Nil) {
		return identity.Credential{}, false, nil
	}
	if err != nil {
		return identity.Credential{}, false, errors.Wrap(err, "lookup account")
	}

	var c identity.Credential
	if err := json.Unmarshal(raw, &c); err != nil {
		return identity.Credential{}, false, errors.Wrap(err, "decode account")
	}
	return c, true, nil
}
