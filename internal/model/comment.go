package model

import "time"

// Comment is the wire shape of a forum comment. Top-level comments carry no ParentId.
type Comment struct {
	Id           int64     `json:"id"`
	Text         string    `json:"text"`
	PostDate     time.Time `json:"post_date"`
	CountLikes   int       `json:"count_likes"`
	UserLiked    bool      `json:"user_liked"`
	CountReplies int       `json:"count_replies"`
	ParentId     *int64    `json:"parent_id"`
	User         UserRef   `json:"user"`
}

// Equal compares comments by id only.
func (comment Comment) Equal(other Comment) bool {
	return comment.Id == other.Id
}

func (comment Comment) IsReply() bool {
	return comment.ParentId != nil
}

// IsReplyTo reports whether the comment replies to parentId.
func (comment Comment) IsReplyTo(parentId int64) bool {
	return comment.ParentId != nil && *comment.ParentId == parentId
}

type UserRef struct {
	Id       int64  `json:"id"`
	Username string `json:"username"`
}

type CommentCreateRequest struct {
	ParentId *int64    `json:"parent_id,omitempty"`
	Text     string    `json:"text"`
	PostDate time.Time `json:"post_date"`
}

// Comments is a row of the comments table.
type Comments struct {
	Id             int64
	ParentId       *int64
	Text           string
	PostDate       time.Time
	UserId         int64
	CreateDatetime time.Time
}

// Likes is a row of the likes table.
type Likes struct {
	CommentId      int64
	UserId         int64
	CreateDatetime time.Time
}

type MessageResponse struct {
	Message string `json:"message"`
}
