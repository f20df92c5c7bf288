// Package thread assembles the comment feed a reader sees: server pages behind a stable
// snapshot, comments posted during the session, lazily fetched replies and optimistic likes.
package thread

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Repository is the subset of client.CommentRepository a Thread drives.
type Repository interface {
	ListTopLevel(ctx context.Context, cursor model.PageCursor) (model.CommentPage, error)
	ListReplies(ctx context.Context, parentId int64) ([]model.Comment, error)
	Create(ctx context.Context, text string, parentId *int64) (model.Comment, error)
	ToggleLike(ctx context.Context, commentId int64) error
}

var (
	ErrUnknownComment = errors.New("thread: unknown comment")
	ErrLoadInProgress = errors.New("thread: load in progress")
)

type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Exhausted
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Exhausted:
		return "exhausted"
	case Failed:
		return "failed"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// LikePolicy decides what happens to an optimistic like when the server call fails.
type LikePolicy int

const (
	// RollbackOnFailure undoes the failed flip on top of whatever state later toggles left,
	// and returns the error.
	RollbackOnFailure LikePolicy = iota
	// KeepOptimistic leaves the flipped state in place and still returns the error.
	KeepOptimistic
)

type Option func(*Thread)

func WithLikePolicy(policy LikePolicy) Option {
	return func(t *Thread) {
		t.likePolicy = policy
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(t *Thread) {
		if log != nil {
			t.log = log
		}
	}
}

type likeState struct {
	liked bool
	count int
}

func (s likeState) flipped() likeState {
	if s.liked {
		return likeState{liked: false, count: max(s.count-1, 0)}
	}
	return likeState{liked: true, count: s.count + 1}
}

// Thread is safe for concurrent use. State changes happen under mu; network calls run
// without it.
type Thread struct {
	repository Repository
	log        *zap.Logger
	likePolicy LikePolicy

	mu             sync.Mutex
	status         Status
	loading        bool
	lastErr        error
	cursor         model.PageCursor
	serverPages    []model.Comment
	locallyPosted  []model.Comment
	replyCache     map[int64][]model.Comment
	visibleReplies map[int64]int
	likes          map[int64]likeState

	replyFetch singleflight.Group

	subMu       sync.Mutex
	subscribers map[int]chan Event
	nextSub     int
}

func New(repository Repository, opts ...Option) *Thread {
	t := &Thread{
		repository:     repository,
		log:            zap.NewNop(),
		likePolicy:     RollbackOnFailure,
		replyCache:     make(map[int64][]model.Comment),
		visibleReplies: make(map[int64]int),
		likes:          make(map[int64]likeState),
		subscribers:    make(map[int]chan Event),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Load fetches the first page and captures the snapshot. Calling it again starts the feed
// over with a fresh snapshot; comments posted this session and fetched replies are kept.
// It returns ErrLoadInProgress without fetching while another Load or LoadMore is running.
func (t *Thread) Load(ctx context.Context) error {
	t.mu.Lock()
	if t.loading {
		t.mu.Unlock()
		return ErrLoadInProgress
	}
	t.loading = true
	t.status = Loading
	t.mu.Unlock()
	t.publish(Event{Kind: FeedChanged})

	page, err := t.repository.ListTopLevel(ctx, model.PageCursor{})

	t.mu.Lock()
	t.loading = false
	if err != nil {
		t.status = Failed
		t.lastErr = err
		t.mu.Unlock()

		t.log.Warn("failed to load comments", zap.Error(err))
		t.publish(Event{Kind: OperationFailed, Err: err})
		return err
	}

	t.lastErr = nil
	t.serverPages = append([]model.Comment(nil), page.Comments...)
	t.cursor = page.Next
	t.status = statusAfter(page)
	t.mu.Unlock()

	t.publish(Event{Kind: FeedChanged})
	return nil
}

// LoadMore fetches the next page. It reports false without doing anything when the feed
// is not loaded, already exhausted, or another page fetch is in flight.
func (t *Thread) LoadMore(ctx context.Context) (bool, error) {
	t.mu.Lock()
	if t.loading || t.status != Loaded {
		t.mu.Unlock()
		return false, nil
	}
	t.loading = true
	cursor := t.cursor
	t.mu.Unlock()

	page, err := t.repository.ListTopLevel(ctx, cursor)

	t.mu.Lock()
	t.loading = false
	if err != nil {
		t.lastErr = err
		t.mu.Unlock()

		t.log.Warn("failed to load more comments", zap.Int("offset", cursor.Offset), zap.Error(err))
		t.publish(Event{Kind: OperationFailed, Err: err})
		return true, err
	}

	t.lastErr = nil
	t.serverPages = append(t.serverPages, page.Comments...)
	t.cursor = page.Next
	t.status = statusAfter(page)
	t.mu.Unlock()

	t.publish(Event{Kind: FeedChanged})
	return true, nil
}

// ExpandReplies reveals up to three more replies of parentId, fetching them the first time.
// A failed fetch leaves nothing cached so the next call tries again. Concurrent callers
// share one fetch, which is detached from the first caller's cancellation.
func (t *Thread) ExpandReplies(ctx context.Context, parentId int64) error {
	t.mu.Lock()
	if _, ok := t.findTopLevel(parentId); !ok {
		t.mu.Unlock()
		return ErrUnknownComment
	}
	_, cached := t.replyCache[parentId]
	t.mu.Unlock()

	if !cached {
		_, err, _ := t.replyFetch.Do(strconv.FormatInt(parentId, 10), func() (interface{}, error) {
			t.mu.Lock()
			_, ok := t.replyCache[parentId]
			t.mu.Unlock()
			if ok {
				return nil, nil
			}

			replies, err := t.repository.ListReplies(context.WithoutCancel(ctx), parentId)
			if err != nil {
				return nil, err
			}

			t.mu.Lock()
			t.replyCache[parentId] = replies
			t.mu.Unlock()

			return nil, nil
		})
		if err != nil {
			t.log.Warn("failed to fetch replies", zap.Int64("parentId", parentId), zap.Error(err))
			t.publish(Event{Kind: OperationFailed, CommentId: parentId, Err: err})
			return err
		}
	}

	t.mu.Lock()
	available := len(t.pendingReplies(parentId))
	t.visibleReplies[parentId] = min(available, t.visibleReplies[parentId]+constant.REPLY_REVEAL_STEP)
	t.mu.Unlock()

	t.publish(Event{Kind: RepliesChanged, CommentId: parentId})
	return nil
}

// CollapseReplies hides the revealed replies of parentId. The cache is kept.
func (t *Thread) CollapseReplies(parentId int64) {
	t.mu.Lock()
	delete(t.visibleReplies, parentId)
	t.mu.Unlock()

	t.publish(Event{Kind: RepliesChanged, CommentId: parentId})
}

// Post creates a comment, or a reply to a top-level comment when parentId is set.
func (t *Thread) Post(ctx context.Context, text string, parentId *int64) (model.Comment, error) {
	if parentId != nil {
		t.mu.Lock()
		_, ok := t.findTopLevel(*parentId)
		t.mu.Unlock()
		if !ok {
			return model.Comment{}, ErrUnknownComment
		}
	}

	created, err := t.repository.Create(ctx, text, parentId)
	if err != nil {
		t.publish(Event{Kind: OperationFailed, Err: err})
		return model.Comment{}, err
	}

	t.mu.Lock()
	t.locallyPosted = append(t.locallyPosted, created)
	t.mu.Unlock()

	t.publish(Event{Kind: CommentPosted, CommentId: created.Id})
	return created, nil
}

// ToggleLike flips the like on commentId locally before asking the server. What happens
// on failure depends on the thread's LikePolicy.
func (t *Thread) ToggleLike(ctx context.Context, commentId int64) error {
	t.mu.Lock()
	prior, ok := t.likeStateOf(commentId)
	if !ok {
		t.mu.Unlock()
		return ErrUnknownComment
	}

	t.likes[commentId] = prior.flipped()
	t.mu.Unlock()

	t.publish(Event{Kind: LikeChanged, CommentId: commentId})

	err := t.repository.ToggleLike(ctx, commentId)
	if err == nil {
		return nil
	}

	t.log.Warn("failed to toggle like", zap.Int64("commentId", commentId), zap.Error(err))

	if t.likePolicy == RollbackOnFailure {
		// the server never applied this flip, so undo exactly one flip from the current state
		t.mu.Lock()
		t.likes[commentId] = t.likes[commentId].flipped()
		t.mu.Unlock()

		t.publish(Event{Kind: LikeChanged, CommentId: commentId})
	}

	return err
}

func statusAfter(page model.CommentPage) Status {
	if page.Exhausted {
		return Exhausted
	}
	return Loaded
}

// The helpers below must be called with mu held.

func (t *Thread) findTopLevel(commentId int64) (model.Comment, bool) {
	for _, comment := range t.locallyPosted {
		if comment.Id == commentId && !comment.IsReply() {
			return comment, true
		}
	}
	for _, comment := range t.serverPages {
		if comment.Id == commentId {
			return comment, true
		}
	}
	return model.Comment{}, false
}

func (t *Thread) findAny(commentId int64) (model.Comment, bool) {
	if comment, ok := t.findTopLevel(commentId); ok {
		return comment, true
	}
	for _, comment := range t.locallyPosted {
		if comment.Id == commentId {
			return comment, true
		}
	}
	for _, replies := range t.replyCache {
		for _, comment := range replies {
			if comment.Id == commentId {
				return comment, true
			}
		}
	}
	return model.Comment{}, false
}

func (t *Thread) likeStateOf(commentId int64) (likeState, bool) {
	if state, ok := t.likes[commentId]; ok {
		return state, true
	}

	comment, ok := t.findAny(commentId)
	if !ok {
		return likeState{}, false
	}

	return likeState{liked: comment.UserLiked, count: comment.CountLikes}, true
}

// pendingReplies is the cached reply list of parentId minus replies posted this session,
// which render separately.
func (t *Thread) pendingReplies(parentId int64) []model.Comment {
	cached := t.replyCache[parentId]
	if len(cached) == 0 {
		return nil
	}

	posted := make(map[int64]struct{})
	for _, comment := range t.locallyPosted {
		if comment.IsReplyTo(parentId) {
			posted[comment.Id] = struct{}{}
		}
	}

	replies := make([]model.Comment, 0, len(cached))
	for _, comment := range cached {
		if _, ok := posted[comment.Id]; ok {
			continue
		}
		replies = append(replies, comment)
	}

	return replies
}
