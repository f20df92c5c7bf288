package thread

import "github.com/ferdian3456/envisiontech/internal/model"

// View is a point-in-time copy of what the thread renders.
type View struct {
	Status   Status
	Loading  bool
	Err      error
	TopLevel []CommentView
}

type CommentView struct {
	Comment model.Comment
	// PostedReplies are replies created this session, oldest first. They show whether or
	// not the thread is expanded.
	PostedReplies    []model.Comment
	Replies          []model.Comment
	Expanded         bool
	RemainingReplies int
}

func (v View) Ids() []int64 {
	ids := make([]int64, 0, len(v.TopLevel))
	for _, comment := range v.TopLevel {
		ids = append(ids, comment.Comment.Id)
	}
	return ids
}

// Snapshot renders the current state: comments posted this session newest first, then the
// server pages in server order without repeating an id.
func (t *Thread) Snapshot() View {
	t.mu.Lock()
	defer t.mu.Unlock()

	view := View{
		Status:  t.status,
		Loading: t.loading,
		Err:     t.lastErr,
	}

	seen := make(map[int64]struct{})

	for i := len(t.locallyPosted) - 1; i >= 0; i-- {
		comment := t.locallyPosted[i]
		if comment.IsReply() {
			continue
		}
		if _, ok := seen[comment.Id]; ok {
			continue
		}
		seen[comment.Id] = struct{}{}
		view.TopLevel = append(view.TopLevel, t.commentView(comment))
	}

	for _, comment := range t.serverPages {
		if _, ok := seen[comment.Id]; ok {
			continue
		}
		seen[comment.Id] = struct{}{}
		view.TopLevel = append(view.TopLevel, t.commentView(comment))
	}

	return view
}

func (t *Thread) commentView(comment model.Comment) CommentView {
	view := CommentView{
		Comment: t.withLike(comment),
	}

	for _, posted := range t.locallyPosted {
		if posted.IsReplyTo(comment.Id) {
			view.PostedReplies = append(view.PostedReplies, t.withLike(posted))
		}
	}

	shown, expanded := t.visibleReplies[comment.Id]
	view.Expanded = expanded

	if _, cached := t.replyCache[comment.Id]; !cached {
		view.RemainingReplies = comment.CountReplies
		return view
	}

	pending := t.pendingReplies(comment.Id)
	shown = min(shown, len(pending))
	for _, reply := range pending[:shown] {
		view.Replies = append(view.Replies, t.withLike(reply))
	}
	view.RemainingReplies = len(pending) - shown

	return view
}

func (t *Thread) withLike(comment model.Comment) model.Comment {
	if state, ok := t.likes[comment.Id]; ok {
		comment.UserLiked = state.liked
		comment.CountLikes = state.count
	}
	return comment
}
