package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TokenRepository records live access tokens in redis, keyed by their jti.
type TokenRepository struct {
	Log     *zap.Logger
	DBCache *redis.Client
}

func NewTokenRepository(zap *zap.Logger, dbCache *redis.Client) *TokenRepository {
	return &TokenRepository{
		Log:     zap,
		DBCache: dbCache,
	}
}

func accessTokenKey(tokenId string) string {
	return fmt.Sprintf("auth:accessToken:%s", tokenId)
}

func (repository *TokenRepository) SaveAccessToken(ctx context.Context, tokenId string, userId int64, ttl time.Duration) error {
	err := repository.DBCache.Set(ctx, accessTokenKey(tokenId), userId, ttl).Err()
	if err != nil {
		return err
	}

	return nil
}

// GetAccessToken returns the owning user id, or 0 when the token was revoked or expired.
func (repository *TokenRepository) GetAccessToken(ctx context.Context, tokenId string) (int64, error) {
	value, err := repository.DBCache.Get(ctx, accessTokenKey(tokenId)).Result()
	if err == redis.Nil {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	userId, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}

	return userId, nil
}

func (repository *TokenRepository) DeleteAccessToken(ctx context.Context, tokenId string) error {
	err := repository.DBCache.Del(ctx, accessTokenKey(tokenId)).Err()
	if err != nil {
		return err
	}

	return nil
}
