package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/model"
	"github.com/ferdian3456/envisiontech/internal/observability"
	"github.com/ferdian3456/envisiontech/internal/util"

	"go.uber.org/zap"
)

type CommentUsecase struct {
	CommentStore CommentStore
	Log          *zap.Logger
}

func NewCommentUsecase(commentStore CommentStore, zap *zap.Logger) *CommentUsecase {
	return &CommentUsecase{
		CommentStore: commentStore,
		Log:          zap,
	}
}

// GetComments returns one page of top-level comments. Unparseable offset or snapshot
// values fall back to the first page and no snapshot bound.
func (usecase *CommentUsecase) GetComments(ctx context.Context, offsetParam string, snapshotParam string, viewerId *int64) ([]model.Comment, error) {
	page := model.CommentPageQuery{
		Limit: constant.COMMENT_PAGE_SIZE,
	}

	if offset, ok := util.QueryIntArg(offsetParam); ok {
		page.Offset = int(offset)
	}

	if snapshot, ok := util.QueryIntArg(snapshotParam); ok {
		page.Snapshot = &snapshot
	}

	comments, err := usecase.CommentStore.GetTopLevelComments(ctx, page, viewerId)
	if err != nil {
		return nil, err
	}

	return comments, nil
}

// CreateComment stores a comment and returns it as a single element list.
func (usecase *CommentUsecase) CreateComment(ctx context.Context, userId int64, payload model.CommentCreateRequest) ([]model.Comment, error) {
	if strings.TrimSpace(payload.Text) == "" {
		return nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Text is required",
			Param:   "text",
		}
	} else if utf8.RuneCountInString(payload.Text) >= constant.COMMENT_TEXT_MAX_LENGTH {
		return nil, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Text too long",
			Param:   "text",
		}
	}

	if payload.ParentId != nil {
		exists, err := usecase.CommentStore.CheckCommentExists(ctx, *payload.ParentId)
		if err != nil {
			return nil, err
		}

		if exists == 0 {
			return nil, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Comment not found",
				Param:   "parent_id",
			}
		}
	}

	now := time.Now().UTC()
	postDate := payload.PostDate
	if postDate.IsZero() {
		postDate = now
	}

	commentId, err := usecase.CommentStore.CreateComment(ctx, model.Comments{
		ParentId:       payload.ParentId,
		Text:           payload.Text,
		PostDate:       postDate.UTC(),
		UserId:         userId,
		CreateDatetime: now,
	})
	if err != nil {
		return nil, err
	}

	comment, err := usecase.CommentStore.GetComment(ctx, commentId, &userId)
	if err != nil {
		return nil, err
	}

	observability.WithContext(ctx, usecase.Log).Debug("comment created",
		zap.Int64("commentId", commentId),
		zap.Int64("userId", userId),
		zap.Bool("reply", payload.ParentId != nil),
	)

	return []model.Comment{comment}, nil
}

func (usecase *CommentUsecase) GetReplies(ctx context.Context, parentIdParam string, viewerId int64) ([]model.Comment, error) {
	parentId, err := parseCommentId(parentIdParam)
	if err != nil {
		return nil, err
	}

	replies, err := usecase.CommentStore.GetReplies(ctx, parentId, &viewerId)
	if err != nil {
		return nil, err
	}

	return replies, nil
}

func (usecase *CommentUsecase) ToggleLike(ctx context.Context, commentIdParam string, userId int64) error {
	commentId, err := parseCommentId(commentIdParam)
	if err != nil {
		return err
	}

	exists, err := usecase.CommentStore.CheckCommentExists(ctx, commentId)
	if err != nil {
		return err
	}

	if exists == 0 {
		return &model.ValidationError{
			Code:    constant.ERR_NOT_FOUND_ERROR,
			Message: "Comment not found",
			Param:   "id",
		}
	}

	liked, err := usecase.CommentStore.ToggleCommentLike(ctx, model.Likes{
		CommentId:      commentId,
		UserId:         userId,
		CreateDatetime: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	observability.WithContext(ctx, usecase.Log).Debug("comment like toggled",
		zap.Int64("commentId", commentId),
		zap.Int64("userId", userId),
		zap.Bool("liked", liked),
	)

	return nil
}

func parseCommentId(param string) (int64, error) {
	commentId, ok := util.QueryIntArg(param)
	if !ok || commentId == 0 {
		return 0, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Comment id must be a positive number",
			Param:   "id",
		}
	}

	return commentId, nil
}
