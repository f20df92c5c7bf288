package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/model"

	"go.uber.org/zap"
)

// CommentRepository is the forum's comment API: the feed, replies, posting and likes.
type CommentRepository struct {
	Sender      Sender
	Credentials CredentialStore
	Log         *zap.Logger
	now         func() time.Time
}

func NewCommentRepository(sender Sender, credentials CredentialStore, log *zap.Logger) *CommentRepository {
	if log == nil {
		log = zap.NewNop()
	}

	return &CommentRepository{
		Sender:      sender,
		Credentials: credentials,
		Log:         log,
		now:         time.Now,
	}
}

// ListTopLevel fetches the page at cursor. The returned cursor keeps the snapshot of the
// first page for every later one.
func (repository *CommentRepository) ListTopLevel(ctx context.Context, cursor model.PageCursor) (model.CommentPage, error) {
	values := url.Values{}
	values.Set("offset", strconv.Itoa(cursor.Offset))
	if cursor.SnapshotId != nil {
		values.Set("snapshot", strconv.FormatInt(*cursor.SnapshotId, 10))
	}

	status, raw, err := repository.Sender.Send(ctx, http.MethodGet, "/comment?"+values.Encode(), nil, repository.optionalToken())
	if err != nil {
		return model.CommentPage{}, err
	}

	comments, err := Resolve[[]model.Comment](status, raw)
	if err != nil {
		return model.CommentPage{}, err
	}

	next := model.PageCursor{
		Offset:     cursor.Offset + constant.COMMENT_PAGE_SIZE,
		SnapshotId: cursor.SnapshotId,
	}
	if next.SnapshotId == nil && len(comments) > 0 {
		snapshot := comments[0].Id
		next.SnapshotId = &snapshot
	}

	return model.CommentPage{
		Comments:  comments,
		Next:      next,
		Exhausted: len(comments) < constant.COMMENT_PAGE_SIZE,
	}, nil
}

func (repository *CommentRepository) ListReplies(ctx context.Context, parentId int64) ([]model.Comment, error) {
	token, err := repository.requiredToken()
	if err != nil {
		return nil, err
	}

	status, raw, err := repository.Sender.Send(ctx, http.MethodGet, fmt.Sprintf("/replies/%d", parentId), nil, token)
	if err != nil {
		return nil, err
	}

	return Resolve[[]model.Comment](status, raw)
}

// Create posts a top-level comment, or a reply when parentId is set. It fails with
// AUTH_ERROR before touching the network when no token is stored.
func (repository *CommentRepository) Create(ctx context.Context, text string, parentId *int64) (model.Comment, error) {
	token, err := repository.requiredToken()
	if err != nil {
		return model.Comment{}, err
	}

	payload := model.CommentCreateRequest{
		ParentId: parentId,
		Text:     text,
		PostDate: repository.now().UTC().Truncate(time.Microsecond),
	}

	status, raw, err := repository.Sender.Send(ctx, http.MethodPost, "/comment", payload, token)
	if err != nil {
		return model.Comment{}, err
	}

	created, err := Resolve[[]model.Comment](status, raw)
	if err != nil {
		return model.Comment{}, err
	}

	if len(created) != 1 {
		return model.Comment{}, model.NewClientError(constant.ERR_INVALID_DATA, fmt.Sprintf("expected one created comment, got %d", len(created)), nil)
	}

	return created[0], nil
}

// ToggleLike flips the caller's like on the server. Each call flips again.
func (repository *CommentRepository) ToggleLike(ctx context.Context, commentId int64) error {
	token, err := repository.requiredToken()
	if err != nil {
		return err
	}

	status, raw, err := repository.Sender.Send(ctx, http.MethodPost, fmt.Sprintf("/like/%d", commentId), nil, token)
	if err != nil {
		return err
	}

	_, err = Resolve[model.MessageResponse](status, raw)
	return err
}

func (repository *CommentRepository) optionalToken() string {
	credentials, err := repository.Credentials.Get()
	if err != nil {
		repository.Log.Warn("failed to read credentials, continuing anonymously", zap.Error(err))
		return ""
	}
	if credentials == nil {
		return ""
	}

	return credentials.AccessToken
}

func (repository *CommentRepository) requiredToken() (string, error) {
	return requireToken(repository.Credentials)
}

func requireToken(store CredentialStore) (string, error) {
	credentials, err := store.Get()
	if err != nil {
		return "", model.NewClientError(constant.ERR_AUTH_ERROR, "no access token", err)
	}
	if credentials == nil || credentials.AccessToken == "" {
		return "", model.NewClientError(constant.ERR_AUTH_ERROR, "no access token", nil)
	}

	return credentials.AccessToken, nil
}
