package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ferdian3456/envisiontech/internal/model"

	"github.com/jackc/pgx/v5"
)

// MemoryRepository keeps users, comments, likes and token sessions in process. It serves
// the same queries as the postgres and redis repositories and backs local runs without a
// database as well as tests.
type MemoryRepository struct {
	mu       sync.RWMutex
	users    []model.User
	comments []model.Comments
	likes    map[likeKey]time.Time
	tokens   map[string]memoryToken
	now      func() time.Time
}

type likeKey struct {
	commentId int64
	userId    int64
}

type memoryToken struct {
	userId    int64
	expiresAt time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		likes:  make(map[likeKey]time.Time),
		tokens: make(map[string]memoryToken),
		now:    time.Now,
	}
}

func (repository *MemoryRepository) CheckUsernameExists(ctx context.Context, username string) (int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	for _, user := range repository.users {
		if user.Username == username {
			return 1, nil
		}
	}

	return 0, nil
}

func (repository *MemoryRepository) CheckEmailExists(ctx context.Context, email string) (int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	for _, user := range repository.users {
		if user.Email == email {
			return 1, nil
		}
	}

	return 0, nil
}

func (repository *MemoryRepository) CreateUser(ctx context.Context, user model.User) (int64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.users {
		if existing.Username == user.Username {
			return 0, model.UsernameConflict()
		}
		if existing.Email == user.Email {
			return 0, model.EmailConflict()
		}
	}

	user.Id = int64(len(repository.users) + 1)
	repository.users = append(repository.users, user)

	return user.Id, nil
}

func (repository *MemoryRepository) GetUserAuth(ctx context.Context, username string) (int64, string, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	for _, user := range repository.users {
		if user.Username == username {
			return user.Id, user.Password, nil
		}
	}

	return 0, "", nil
}

func (repository *MemoryRepository) CheckCommentExists(ctx context.Context, commentId int64) (int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	if commentId < 1 || commentId > int64(len(repository.comments)) {
		return 0, nil
	}

	return 1, nil
}

func (repository *MemoryRepository) CreateComment(ctx context.Context, comment model.Comments) (int64, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	comment.Id = int64(len(repository.comments) + 1)
	repository.comments = append(repository.comments, comment)

	return comment.Id, nil
}

func (repository *MemoryRepository) GetComment(ctx context.Context, commentId int64, viewerId *int64) (model.Comment, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	if commentId < 1 || commentId > int64(len(repository.comments)) {
		return model.Comment{}, pgx.ErrNoRows
	}

	return repository.toComment(repository.comments[commentId-1], viewerId), nil
}

func (repository *MemoryRepository) GetTopLevelComments(ctx context.Context, page model.CommentPageQuery, viewerId *int64) ([]model.Comment, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	rows := []model.Comments{}
	for _, comment := range repository.comments {
		if comment.ParentId != nil {
			continue
		}
		if page.Snapshot != nil && comment.Id > *page.Snapshot {
			continue
		}
		rows = append(rows, comment)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].PostDate.Equal(rows[j].PostDate) {
			return rows[i].PostDate.After(rows[j].PostDate)
		}
		return rows[i].Id > rows[j].Id
	})

	comments := []model.Comment{}
	for i := page.Offset; i < len(rows) && len(comments) < page.Limit; i++ {
		comments = append(comments, repository.toComment(rows[i], viewerId))
	}

	return comments, nil
}

func (repository *MemoryRepository) GetReplies(ctx context.Context, parentId int64, viewerId *int64) ([]model.Comment, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	rows := []model.Comments{}
	for _, comment := range repository.comments {
		if comment.ParentId != nil && *comment.ParentId == parentId {
			rows = append(rows, comment)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].PostDate.Equal(rows[j].PostDate) {
			return rows[i].PostDate.Before(rows[j].PostDate)
		}
		return rows[i].Id < rows[j].Id
	})

	comments := make([]model.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, repository.toComment(row, viewerId))
	}

	return comments, nil
}

func (repository *MemoryRepository) ToggleCommentLike(ctx context.Context, like model.Likes) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	key := likeKey{commentId: like.CommentId, userId: like.UserId}
	if _, ok := repository.likes[key]; ok {
		delete(repository.likes, key)
		return false, nil
	}

	repository.likes[key] = like.CreateDatetime
	return true, nil
}

func (repository *MemoryRepository) SaveAccessToken(ctx context.Context, tokenId string, userId int64, ttl time.Duration) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.tokens[tokenId] = memoryToken{userId: userId, expiresAt: repository.now().Add(ttl)}

	return nil
}

func (repository *MemoryRepository) GetAccessToken(ctx context.Context, tokenId string) (int64, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	token, ok := repository.tokens[tokenId]
	if !ok || repository.now().After(token.expiresAt) {
		return 0, nil
	}

	return token.userId, nil
}

func (repository *MemoryRepository) DeleteAccessToken(ctx context.Context, tokenId string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.tokens, tokenId)

	return nil
}

// toComment must be called with mu held.
func (repository *MemoryRepository) toComment(row model.Comments, viewerId *int64) model.Comment {
	comment := model.Comment{
		Id:       row.Id,
		Text:     row.Text,
		PostDate: row.PostDate,
		ParentId: row.ParentId,
	}

	if row.UserId >= 1 && row.UserId <= int64(len(repository.users)) {
		user := repository.users[row.UserId-1]
		comment.User = model.UserRef{Id: user.Id, Username: user.Username}
	}

	for key := range repository.likes {
		if key.commentId != row.Id {
			continue
		}
		comment.CountLikes++
		if viewerId != nil && key.userId == *viewerId {
			comment.UserLiked = true
		}
	}

	for _, other := range repository.comments {
		if other.ParentId != nil && *other.ParentId == row.Id {
			comment.CountReplies++
		}
	}

	return comment
}
