package model

// PageCursor tracks how far the top-level feed has been read. SnapshotId is
// captured from the first comment of the first page and bounds every later page.
type PageCursor struct {
	Offset     int    `json:"offset"`
	SnapshotId *int64 `json:"snapshot_id,omitempty"`
}

// CommentPage is one page of the top-level feed plus the cursor for the next one.
type CommentPage struct {
	Comments  []Comment
	Next      PageCursor
	Exhausted bool
}

// CommentPageQuery is the server side view of a feed request.
type CommentPageQuery struct {
	Offset   int
	Snapshot *int64
	Limit    int
}
