package repository

import (
	"context"
	"errors"

	"github.com/ferdian3456/envisiontech/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type CommentRepository struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
}

func NewCommentRepository(zap *zap.Logger, db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		Log: zap,
		DB:  db,
	}
}

// $1 is always the viewer id. A NULL viewer never matches a like row.
const commentSelect = `
	SELECT c.id, c.text, c.post_date, c.parent_id, u.id, u.username,
	       COALESCE(like_counts.like_count, 0) AS like_count,
	       COALESCE(reply_counts.reply_count, 0) AS reply_count,
	       EXISTS (SELECT 1 FROM likes l WHERE l.comment_id = c.id AND l.user_id = $1) AS user_liked
	FROM comments c
	INNER JOIN users u ON c.user_id = u.id
	LEFT JOIN (
		SELECT comment_id, COUNT(*) AS like_count
		FROM likes
		GROUP BY comment_id
	) like_counts ON c.id = like_counts.comment_id
	LEFT JOIN (
		SELECT parent_id, COUNT(*) AS reply_count
		FROM comments
		WHERE parent_id IS NOT NULL
		GROUP BY parent_id
	) reply_counts ON c.id = reply_counts.parent_id
`

func (repository *CommentRepository) CheckCommentExists(ctx context.Context, commentId int64) (int, error) {
	query := "SELECT 1 FROM comments WHERE id = $1"

	var exists int
	err := repository.DB.QueryRow(ctx, query, commentId).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return exists, nil
		}

		return exists, err
	}

	return exists, nil
}

func (repository *CommentRepository) CreateComment(ctx context.Context, comment model.Comments) (int64, error) {
	query := "INSERT INTO comments (parent_id, text, post_date, user_id, create_datetime) VALUES ($1, $2, $3, $4, $5) RETURNING id"

	var id int64
	err := repository.DB.QueryRow(ctx, query, comment.ParentId, comment.Text, comment.PostDate, comment.UserId, comment.CreateDatetime).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (repository *CommentRepository) GetComment(ctx context.Context, commentId int64, viewerId *int64) (model.Comment, error) {
	query := commentSelect + " WHERE c.id = $2"

	rows, err := repository.DB.Query(ctx, query, viewerId, commentId)
	if err != nil {
		return model.Comment{}, err
	}

	comments, err := scanComments(rows)
	if err != nil {
		return model.Comment{}, err
	}
	if len(comments) == 0 {
		return model.Comment{}, pgx.ErrNoRows
	}

	return comments[0], nil
}

func (repository *CommentRepository) GetTopLevelComments(ctx context.Context, page model.CommentPageQuery, viewerId *int64) ([]model.Comment, error) {
	var rows pgx.Rows
	var err error

	if page.Snapshot != nil {
		queryWithSnapshot := commentSelect + `
			WHERE c.parent_id IS NULL
			AND c.id <= $2
			ORDER BY c.post_date DESC, c.id DESC
			LIMIT $3 OFFSET $4
		`
		rows, err = repository.DB.Query(ctx, queryWithSnapshot, viewerId, *page.Snapshot, page.Limit, page.Offset)
	} else {
		query := commentSelect + `
			WHERE c.parent_id IS NULL
			ORDER BY c.post_date DESC, c.id DESC
			LIMIT $2 OFFSET $3
		`
		rows, err = repository.DB.Query(ctx, query, viewerId, page.Limit, page.Offset)
	}

	if err != nil {
		return nil, err
	}

	return scanComments(rows)
}

func (repository *CommentRepository) GetReplies(ctx context.Context, parentId int64, viewerId *int64) ([]model.Comment, error) {
	query := commentSelect + `
		WHERE c.parent_id = $2
		ORDER BY c.post_date ASC, c.id ASC
	`

	rows, err := repository.DB.Query(ctx, query, viewerId, parentId)
	if err != nil {
		return nil, err
	}

	return scanComments(rows)
}

// ToggleCommentLike removes the like if present and inserts it otherwise. It reports
// whether the comment is liked afterwards.
func (repository *CommentRepository) ToggleCommentLike(ctx context.Context, like model.Likes) (bool, error) {
	commited := false

	tx, err := repository.DB.Begin(ctx)
	if err != nil {
		return false, err
	}

	defer func() {
		if !commited {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx, "DELETE FROM likes WHERE comment_id = $1 AND user_id = $2", like.CommentId, like.UserId)
	if err != nil {
		return false, err
	}

	liked := false
	if tag.RowsAffected() == 0 {
		_, err = tx.Exec(ctx, "INSERT INTO likes (comment_id, user_id, create_datetime) VALUES ($1, $2, $3)", like.CommentId, like.UserId, like.CreateDatetime)
		if err != nil {
			return false, err
		}
		liked = true
	}

	err = tx.Commit(ctx)
	if err != nil {
		return false, err
	}

	commited = true

	return liked, nil
}

func scanComments(rows pgx.Rows) ([]model.Comment, error) {
	defer rows.Close()

	comments := []model.Comment{}

	for rows.Next() {
		var comment model.Comment
		err := rows.Scan(&comment.Id, &comment.Text, &comment.PostDate, &comment.ParentId, &comment.User.Id, &comment.User.Username,
			&comment.CountLikes, &comment.CountReplies, &comment.UserLiked)
		if err != nil {
			return nil, err
		}

		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}
