package usecase

import (
	"context"
	"time"

	"github.com/ferdian3456/envisiontech/internal/model"
)

// UserStore is served by repository.UserRepository and repository.MemoryRepository.
type UserStore interface {
	CheckUsernameExists(ctx context.Context, username string) (int, error)
	CheckEmailExists(ctx context.Context, email string) (int, error)
	CreateUser(ctx context.Context, user model.User) (int64, error)
	GetUserAuth(ctx context.Context, username string) (int64, string, error)
}

type TokenStore interface {
	SaveAccessToken(ctx context.Context, tokenId string, userId int64, ttl time.Duration) error
	GetAccessToken(ctx context.Context, tokenId string) (int64, error)
	DeleteAccessToken(ctx context.Context, tokenId string) error
}

type CommentStore interface {
	CheckCommentExists(ctx context.Context, commentId int64) (int, error)
	CreateComment(ctx context.Context, comment model.Comments) (int64, error)
	GetComment(ctx context.Context, commentId int64, viewerId *int64) (model.Comment, error)
	GetTopLevelComments(ctx context.Context, page model.CommentPageQuery, viewerId *int64) ([]model.Comment, error)
	GetReplies(ctx context.Context, parentId int64, viewerId *int64) ([]model.Comment, error)
	ToggleCommentLike(ctx context.Context, like model.Likes) (bool, error)
}
