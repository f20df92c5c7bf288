package client

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ferdian3456/envisiontech/internal/apptest"
	"github.com/ferdian3456/envisiontech/internal/model"

	"github.com/stretchr/testify/require"
)

// steppingClock hands out strictly increasing timestamps so feed order is deterministic.
type steppingClock struct {
	mu   sync.Mutex
	next time.Time
}

func (clock *steppingClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()

	clock.next = clock.next.Add(time.Second)
	return clock.next
}

func newPipeline(t *testing.T) (*AccountClient, *CommentRepository, *ContentClient) {
	t.Helper()

	app := apptest.NewApp(nil, nil)
	transport, err := NewTransport("http://envisiontech.test", apptest.NewHTTPClient(app), nil)
	require.NoError(t, err)

	credentials := NewMemoryCredentialStore()
	clock := &steppingClock{next: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}

	comments := NewCommentRepository(transport, credentials, nil)
	comments.now = clock.Now

	return NewAccountClient(transport, credentials, nil), comments, NewContentClient(transport)
}

func TestPipelinePagesWithStableSnapshot(t *testing.T) {
	ctx := context.Background()
	account, comments, _ := newPipeline(t)

	_, err := account.Register(ctx, validAccount())
	require.NoError(t, err)

	for i := 1; i <= 25; i++ {
		_, err := comments.Create(ctx, fmt.Sprintf("comment %d", i), nil)
		require.NoError(t, err)
	}

	t.Log("=== Test 1: first page is the newest ten ===")
	first, err := comments.ListTopLevel(ctx, model.PageCursor{})
	require.NoError(t, err)
	require.Len(t, first.Comments, 10)
	require.False(t, first.Exhausted)
	require.Equal(t, "comment 25", first.Comments[0].Text)
	require.Equal(t, first.Comments[0].Id, *first.Next.SnapshotId)

	t.Log("=== Test 2: a post after the first page does not shift later pages ===")
	_, err = comments.Create(ctx, "late arrival", nil)
	require.NoError(t, err)

	second, err := comments.ListTopLevel(ctx, first.Next)
	require.NoError(t, err)
	require.Len(t, second.Comments, 10)
	require.Equal(t, "comment 15", second.Comments[0].Text)

	third, err := comments.ListTopLevel(ctx, second.Next)
	require.NoError(t, err)
	require.Len(t, third.Comments, 5)
	require.True(t, third.Exhausted)
	require.Equal(t, "comment 1", third.Comments[4].Text)

	seen := map[int64]bool{}
	for _, page := range []model.CommentPage{first, second, third} {
		for _, comment := range page.Comments {
			require.False(t, seen[comment.Id], "comment %d appeared twice", comment.Id)
			require.NotEqual(t, "late arrival", comment.Text)
			seen[comment.Id] = true
		}
	}
	require.Len(t, seen, 25)
}

func TestPipelineRepliesAndLikes(t *testing.T) {
	ctx := context.Background()
	account, comments, _ := newPipeline(t)

	t.Log("=== Test 1: anonymous reads work, writes do not ===")
	page, err := comments.ListTopLevel(ctx, model.PageCursor{})
	require.NoError(t, err)
	require.Empty(t, page.Comments)
	require.True(t, page.Exhausted)

	_, err = comments.Create(ctx, "hello", nil)
	require.ErrorIs(t, err, model.ErrAuth)

	_, err = account.Register(ctx, validAccount())
	require.NoError(t, err)

	t.Log("=== Test 2: replies come back oldest first ===")
	parent, err := comments.Create(ctx, "parent", nil)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		_, err := comments.Create(ctx, fmt.Sprintf("reply %d", i), &parent.Id)
		require.NoError(t, err)
	}

	replies, err := comments.ListReplies(ctx, parent.Id)
	require.NoError(t, err)
	require.Len(t, replies, 3)
	require.Equal(t, "reply 1", replies[0].Text)
	for _, reply := range replies {
		require.True(t, reply.IsReplyTo(parent.Id))
	}

	t.Log("=== Test 3: like toggles twice back to the start ===")
	require.NoError(t, comments.ToggleLike(ctx, parent.Id))
	page, err = comments.ListTopLevel(ctx, model.PageCursor{})
	require.NoError(t, err)
	require.Len(t, page.Comments, 1)
	require.True(t, page.Comments[0].UserLiked)
	require.Equal(t, 1, page.Comments[0].CountLikes)
	require.Equal(t, 3, page.Comments[0].CountReplies)

	require.NoError(t, comments.ToggleLike(ctx, parent.Id))
	page, err = comments.ListTopLevel(ctx, model.PageCursor{})
	require.NoError(t, err)
	require.False(t, page.Comments[0].UserLiked)
	require.Equal(t, 0, page.Comments[0].CountLikes)

	t.Log("=== Test 4: server validation reaches the user verbatim ===")
	_, err = comments.Create(ctx, "", nil)
	require.ErrorIs(t, err, model.ErrServer)
	require.Equal(t, "Text is required", UserMessage(err))

	err = comments.ToggleLike(ctx, 999)
	require.Equal(t, "Comment not found", UserMessage(err))
}

func TestPipelineContent(t *testing.T) {
	ctx := context.Background()
	_, _, content := newPipeline(t)

	person, err := content.AboutPerson(ctx, "Avery Stone")
	require.NoError(t, err)
	require.Equal(t, "Avery Stone", person.Name)

	_, err = content.AboutPerson(ctx, "Nobody Here")
	require.Equal(t, "Could not find user.", UserMessage(err))

	units, err := content.Units(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, units)

	practice, err := content.Practice(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, practice)

	blog, err := content.Blog(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, blog.Title)
}
