package thread

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/model"

	"github.com/stretchr/testify/require"
)

// fakeRepository serves fixed pages and replies. A non-nil gate blocks ListTopLevel and
// ListReplies until it is closed; started receives once per blocked call. likeHook, when
// set, decides the result of each ToggleLike call by its 1-based number.
type fakeRepository struct {
	mu sync.Mutex

	pages   [][]model.Comment
	replies map[int64][]model.Comment
	nextId  int64

	pageErr  error
	replyErr error
	likeErr  error
	likeHook func(call int) error

	gate    chan struct{}
	started chan struct{}

	pageCalls  int
	replyCalls int
	likeCalls  int
}

func newFakeRepository(pages ...[]model.Comment) *fakeRepository {
	return &fakeRepository{
		pages:   pages,
		replies: make(map[int64][]model.Comment),
		nextId:  1000,
	}
}

func (repository *fakeRepository) wait() {
	repository.mu.Lock()
	gate, started := repository.gate, repository.started
	repository.mu.Unlock()

	if gate == nil {
		return
	}
	if started != nil {
		started <- struct{}{}
	}
	<-gate
}

func (repository *fakeRepository) ListTopLevel(ctx context.Context, cursor model.PageCursor) (model.CommentPage, error) {
	repository.wait()

	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.pageCalls++
	if repository.pageErr != nil {
		return model.CommentPage{}, repository.pageErr
	}

	index := cursor.Offset / constant.COMMENT_PAGE_SIZE
	var comments []model.Comment
	if index < len(repository.pages) {
		comments = repository.pages[index]
	}

	next := model.PageCursor{Offset: cursor.Offset + constant.COMMENT_PAGE_SIZE, SnapshotId: cursor.SnapshotId}
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

func (repository *fakeRepository) ListReplies(ctx context.Context, parentId int64) ([]model.Comment, error) {
	repository.wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.replyCalls++
	if repository.replyErr != nil {
		return nil, repository.replyErr
	}

	return append([]model.Comment(nil), repository.replies[parentId]...), nil
}

func (repository *fakeRepository) Create(ctx context.Context, text string, parentId *int64) (model.Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.nextId++
	return model.Comment{Id: repository.nextId, Text: text, ParentId: parentId}, nil
}

func (repository *fakeRepository) ToggleLike(ctx context.Context, commentId int64) error {
	repository.mu.Lock()
	repository.likeCalls++
	call, hook, err := repository.likeCalls, repository.likeHook, repository.likeErr
	repository.mu.Unlock()

	if hook != nil {
		return hook(call)
	}
	return err
}

func (repository *fakeRepository) setGate() {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.gate = make(chan struct{})
	repository.started = make(chan struct{}, 16)
}

func (repository *fakeRepository) calls() (int, int) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	return repository.pageCalls, repository.replyCalls
}

// page builds comments with ids from high down to low, newest first.
func page(high int64, low int64) []model.Comment {
	comments := make([]model.Comment, 0, high-low+1)
	for id := high; id >= low; id-- {
		comments = append(comments, model.Comment{Id: id, Text: fmt.Sprintf("comment %d", id)})
	}
	return comments
}

func repliesTo(parentId int64, count int) []model.Comment {
	replies := make([]model.Comment, 0, count)
	for i := 1; i <= count; i++ {
		replies = append(replies, model.Comment{Id: parentId*100 + int64(i), ParentId: &parentId})
	}
	return replies
}

func TestLoadAndLoadMore(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository(page(25, 16), page(15, 6), page(5, 1))
	thread := New(repository)

	require.Equal(t, Idle, thread.Snapshot().Status)

	t.Log("=== Test 1: LoadMore before Load does nothing ===")
	fetched, err := thread.LoadMore(ctx)
	require.NoError(t, err)
	require.False(t, fetched)

	t.Log("=== Test 2: pages accumulate in server order ===")
	require.NoError(t, thread.Load(ctx))
	require.Equal(t, Loaded, thread.Snapshot().Status)
	require.Len(t, thread.Snapshot().TopLevel, 10)

	fetched, err = thread.LoadMore(ctx)
	require.NoError(t, err)
	require.True(t, fetched)

	fetched, err = thread.LoadMore(ctx)
	require.NoError(t, err)
	require.True(t, fetched)

	view := thread.Snapshot()
	require.Equal(t, Exhausted, view.Status)
	require.Len(t, view.TopLevel, 25)
	require.Equal(t, int64(25), view.TopLevel[0].Comment.Id)
	require.Equal(t, int64(1), view.TopLevel[24].Comment.Id)

	t.Log("=== Test 3: exhausted feed stops asking ===")
	fetched, err = thread.LoadMore(ctx)
	require.NoError(t, err)
	require.False(t, fetched)

	pageCalls, _ := repository.calls()
	require.Equal(t, 3, pageCalls)
}

func TestLoadFailure(t *testing.T) {
	repository := newFakeRepository()
	repository.pageErr = model.ErrInvalidResponse
	thread := New(repository)

	err := thread.Load(context.Background())
	require.ErrorIs(t, err, model.ErrInvalidResponse)

	view := thread.Snapshot()
	require.Equal(t, Failed, view.Status)
	require.ErrorIs(t, view.Err, model.ErrInvalidResponse)
	require.Equal(t, "failed", view.Status.String())
}

func TestOnlyOnePageFetchInFlight(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository(page(25, 16), page(15, 6))
	thread := New(repository)
	require.NoError(t, thread.Load(ctx))

	repository.setGate()

	done := make(chan error, 1)
	go func() {
		_, err := thread.LoadMore(ctx)
		done <- err
	}()

	<-repository.started
	require.True(t, thread.Snapshot().Loading)

	fetched, err := thread.LoadMore(ctx)
	require.NoError(t, err)
	require.False(t, fetched, "second fetch must not start while the first is in flight")

	close(repository.gate)
	require.NoError(t, <-done)

	pageCalls, _ := repository.calls()
	require.Equal(t, 2, pageCalls)
	require.Len(t, thread.Snapshot().TopLevel, 20)
}

func TestLoadWhileFetchingReportsInProgress(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository(page(25, 16), page(15, 6))
	thread := New(repository)
	require.NoError(t, thread.Load(ctx))

	repository.setGate()

	done := make(chan error, 1)
	go func() {
		_, err := thread.LoadMore(ctx)
		done <- err
	}()

	<-repository.started
	require.ErrorIs(t, thread.Load(ctx), ErrLoadInProgress)

	close(repository.gate)
	require.NoError(t, <-done)

	pageCalls, _ := repository.calls()
	require.Equal(t, 2, pageCalls, "the rejected Load must not fetch")
	require.Len(t, thread.Snapshot().TopLevel, 20)

	require.NoError(t, thread.Load(ctx))
	require.Len(t, thread.Snapshot().TopLevel, 10)
}

func TestPostedCommentsComeFirst(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository(page(3, 1))
	thread := New(repository)
	require.NoError(t, thread.Load(ctx))

	first, err := thread.Post(ctx, "first post", nil)
	require.NoError(t, err)
	second, err := thread.Post(ctx, "second post", nil)
	require.NoError(t, err)

	parentId := int64(2)
	reply, err := thread.Post(ctx, "a reply", &parentId)
	require.NoError(t, err)

	view := thread.Snapshot()
	require.Equal(t, []int64{second.Id, first.Id, 3, 2, 1}, view.Ids())

	parent := view.TopLevel[3]
	require.Equal(t, int64(2), parent.Comment.Id)
	require.Len(t, parent.PostedReplies, 1)
	require.Equal(t, reply.Id, parent.PostedReplies[0].Id)
	require.False(t, parent.Expanded)

	t.Log("=== Test 1: replies must target a top-level comment ===")
	_, err = thread.Post(ctx, "orphan", &reply.Id)
	require.ErrorIs(t, err, ErrUnknownComment)

	missing := int64(404)
	_, err = thread.Post(ctx, "orphan", &missing)
	require.ErrorIs(t, err, ErrUnknownComment)
}

func TestPostedCommentIsNotRepeatedByLaterPages(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository(page(3, 1))
	thread := New(repository)
	require.NoError(t, thread.Load(ctx))

	posted, err := thread.Post(ctx, "fresh", nil)
	require.NoError(t, err)

	repository.mu.Lock()
	repository.pages = [][]model.Comment{append([]model.Comment{{Id: posted.Id, Text: "fresh"}}, page(3, 1)...)}
	repository.mu.Unlock()

	require.NoError(t, thread.Load(ctx))
	require.Equal(t, []int64{posted.Id, 3, 2, 1}, thread.Snapshot().Ids())
}

func TestExpandRepliesRevealsInSteps(t *testing.T) {
	ctx := context.Background()
	parent := model.Comment{Id: 1, CountReplies: 7}
	repository := newFakeRepository([]model.Comment{parent})
	repository.replies[1] = repliesTo(1, 7)
	thread := New(repository)
	require.NoError(t, thread.Load(ctx))

	require.Equal(t, 7, thread.Snapshot().TopLevel[0].RemainingReplies)

	steps := []struct {
		shown     int
		remaining int
	}{
		{3, 4},
		{6, 1},
		{7, 0},
		{7, 0},
	}

	for i, step := range steps {
		t.Logf("=== Test %d: expand ===", i+1)
		require.NoError(t, thread.ExpandReplies(ctx, 1))

		view := thread.Snapshot().TopLevel[0]
		require.True(t, view.Expanded)
		require.Len(t, view.Replies, step.shown)
		require.Equal(t, step.remaining, view.RemainingReplies)
	}

	require.Equal(t, int64(101), thread.Snapshot().TopLevel[0].Replies[0].Id)

	t.Log("=== collapse keeps the cache ===")
	thread.CollapseReplies(1)
	view := thread.Snapshot().TopLevel[0]
	require.False(t, view.Expanded)
	require.Empty(t, view.Replies)
	require.Equal(t, 7, view.RemainingReplies)

	require.NoError(t, thread.ExpandReplies(ctx, 1))
	require.Len(t, thread.Snapshot().TopLevel[0].Replies, 3)

	_, replyCalls := repository.calls()
	require.Equal(t, 1, replyCalls)

	require.ErrorIs(t, thread.ExpandReplies(ctx, 55), ErrUnknownComment)
}

func TestExpandRepliesSkipsRepliesPostedThisSession(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository([]model.Comment{{Id: 1, CountReplies: 2}})
	thread := New(repository)
	require.NoError(t, thread.Load(ctx))

	parentId := int64(1)
	posted, err := thread.Post(ctx, "mine", &parentId)
	require.NoError(t, err)

	repository.replies[1] = append(repliesTo(1, 2), posted)

	require.NoError(t, thread.ExpandReplies(ctx, 1))

	view := thread.Snapshot().TopLevel[0]
	require.Len(t, view.PostedReplies, 1)
	require.Len(t, view.Replies, 2)
	for _, reply := range view.Replies {
		require.NotEqual(t, posted.Id, reply.Id)
	}
}

func TestExpandRepliesFailureRetries(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository([]model.Comment{{Id: 1, CountReplies: 2}})
	repository.replies[1] = repliesTo(1, 2)
	repository.replyErr = model.ErrServer
	thread := New(repository)
	require.NoError(t, thread.Load(ctx))

	require.ErrorIs(t, thread.ExpandReplies(ctx, 1), model.ErrServer)
	require.False(t, thread.Snapshot().TopLevel[0].Expanded)

	repository.mu.Lock()
	repository.replyErr = nil
	repository.mu.Unlock()

	require.NoError(t, thread.ExpandReplies(ctx, 1))
	require.Len(t, thread.Snapshot().TopLevel[0].Replies, 2)
}

func TestConcurrentExpandFetchesOnce(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository([]model.Comment{{Id: 1, CountReplies: 9}})
	repository.replies[1] = repliesTo(1, 9)
	thread := New(repository)
	require.NoError(t, thread.Load(ctx))

	repository.setGate()

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- thread.ExpandReplies(ctx, 1)
		}()
	}

	<-repository.started
	close(repository.gate)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	_, replyCalls := repository.calls()
	require.Equal(t, 1, replyCalls)
	require.Equal(t, 9, thread.Snapshot().TopLevel[0].RemainingReplies+len(thread.Snapshot().TopLevel[0].Replies))
}

func TestExpandRepliesOutlivesFirstCallerCancel(t *testing.T) {
	repository := newFakeRepository([]model.Comment{{Id: 1, CountReplies: 4}})
	repository.replies[1] = repliesTo(1, 4)
	thread := New(repository)
	require.NoError(t, thread.Load(context.Background()))

	repository.setGate()

	first, cancel := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- thread.ExpandReplies(first, 1)
	}()
	<-repository.started

	secondDone := make(chan error, 1)
	go func() {
		secondDone <- thread.ExpandReplies(context.Background(), 1)
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	close(repository.gate)

	require.NoError(t, <-firstDone)
	require.NoError(t, <-secondDone, "a joined caller must not inherit the first caller's cancel")

	_, replyCalls := repository.calls()
	require.Equal(t, 1, replyCalls)

	view := thread.Snapshot().TopLevel[0]
	require.True(t, view.Expanded)
	require.Equal(t, 4, len(view.Replies)+view.RemainingReplies)
}

func TestToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Log("=== Test 1: success keeps the flipped state ===")
	repository := newFakeRepository([]model.Comment{{Id: 1, CountLikes: 2}})
	thread := New(repository)
	require.NoError(t, thread.Load(ctx))

	require.NoError(t, thread.ToggleLike(ctx, 1))
	comment := thread.Snapshot().TopLevel[0].Comment
	require.True(t, comment.UserLiked)
	require.Equal(t, 3, comment.CountLikes)

	require.NoError(t, thread.ToggleLike(ctx, 1))
	comment = thread.Snapshot().TopLevel[0].Comment
	require.False(t, comment.UserLiked)
	require.Equal(t, 2, comment.CountLikes)

	require.ErrorIs(t, thread.ToggleLike(ctx, 77), ErrUnknownComment)

	t.Log("=== Test 2: failure rolls back by default ===")
	repository = newFakeRepository([]model.Comment{{Id: 1, CountLikes: 2, UserLiked: true}})
	repository.likeErr = model.ErrServer
	thread = New(repository)
	require.NoError(t, thread.Load(ctx))

	require.ErrorIs(t, thread.ToggleLike(ctx, 1), model.ErrServer)
	comment = thread.Snapshot().TopLevel[0].Comment
	require.True(t, comment.UserLiked)
	require.Equal(t, 2, comment.CountLikes)

	t.Log("=== Test 3: failure keeps the optimistic state when asked ===")
	thread = New(repository, WithLikePolicy(KeepOptimistic))
	require.NoError(t, thread.Load(ctx))

	require.ErrorIs(t, thread.ToggleLike(ctx, 1), model.ErrServer)
	comment = thread.Snapshot().TopLevel[0].Comment
	require.False(t, comment.UserLiked)
	require.Equal(t, 1, comment.CountLikes)
}

func TestToggleLikeFailureUndoesOnlyItsOwnFlip(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository([]model.Comment{{Id: 1}})
	thread := New(repository)
	require.NoError(t, thread.Load(ctx))

	firstStarted := make(chan struct{})
	release := make(chan struct{})
	serverLiked := false
	repository.likeHook = func(call int) error {
		if call == 1 {
			close(firstStarted)
			<-release
			return model.ErrServer
		}
		serverLiked = !serverLiked
		return nil
	}

	t.Log("=== Test 1: second toggle lands while the first is in flight ===")
	firstDone := make(chan error, 1)
	go func() {
		firstDone <- thread.ToggleLike(ctx, 1)
	}()
	<-firstStarted

	comment := thread.Snapshot().TopLevel[0].Comment
	require.True(t, comment.UserLiked)
	require.Equal(t, 1, comment.CountLikes)

	require.NoError(t, thread.ToggleLike(ctx, 1))
	comment = thread.Snapshot().TopLevel[0].Comment
	require.False(t, comment.UserLiked)
	require.Equal(t, 0, comment.CountLikes)

	t.Log("=== Test 2: the first toggle fails and the overlay matches the server ===")
	close(release)
	require.ErrorIs(t, <-firstDone, model.ErrServer)

	require.True(t, serverLiked)
	comment = thread.Snapshot().TopLevel[0].Comment
	require.True(t, comment.UserLiked)
	require.Equal(t, 1, comment.CountLikes)
}

func TestToggleLikeOnReply(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository([]model.Comment{{Id: 1, CountReplies: 1}})
	repository.replies[1] = repliesTo(1, 1)
	thread := New(repository)
	require.NoError(t, thread.Load(ctx))
	require.NoError(t, thread.ExpandReplies(ctx, 1))

	require.NoError(t, thread.ToggleLike(ctx, 101))
	reply := thread.Snapshot().TopLevel[0].Replies[0]
	require.True(t, reply.UserLiked)
	require.Equal(t, 1, reply.CountLikes)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository(page(2, 1))
	thread := New(repository)

	events, cancel := thread.Subscribe()

	require.NoError(t, thread.Load(ctx))
	require.Equal(t, FeedChanged, next(t, events).Kind)
	require.Equal(t, FeedChanged, next(t, events).Kind)

	posted, err := thread.Post(ctx, "hi", nil)
	require.NoError(t, err)
	event := next(t, events)
	require.Equal(t, CommentPosted, event.Kind)
	require.Equal(t, posted.Id, event.CommentId)

	repository.likeErr = errors.New("offline")
	require.Error(t, thread.ToggleLike(ctx, 1))
	require.Equal(t, LikeChanged, next(t, events).Kind)
	require.Equal(t, LikeChanged, next(t, events).Kind)

	cancel()
	cancel()
	_, open := <-events
	require.False(t, open)

	require.NoError(t, thread.Load(ctx), "publishing after cancel must not panic")
}

func next(t *testing.T, events <-chan Event) Event {
	t.Helper()

	select {
	case event := <-events:
		return event
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
		return Event{}
	}
}
