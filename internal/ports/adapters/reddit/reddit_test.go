package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threadJSON = `[
 {"kind":"Listing","data":{"children":[{"kind":"t3","data":{
   "id":"abc123","title":"  What is the best advice you ignored? ","subreddit":"AskReddit",
   "permalink":"/r/AskReddit/comments/abc123/x/","over_18":false}}]}},
 {"kind":"Listing","data":{"children":[
   {"kind":"t1","data":{"id":"c1","author":"mod","body":"Rules","score":1,"stickied":true}},
   {"kind":"t1","data":{"id":"c2","author":"u1","body":"Wear sunscreen.","score":420}},
   {"kind":"more","data":{"count":12,"children":["c9"]}},
   {"kind":"t1","data":{"id":"c3","author":"u2","body":"Save money &amp; sleep.","score":99}}
 ]}}
]`

func TestFetch_DecodesThread(t *testing.T) {
	var gotPath, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		assert.Equal(t, "top", r.URL.Query().Get("sort"))
		_, _ = w.Write([]byte(threadJSON))
	}))
	defer srv.Close()

	th, err := New(srv.URL, "test-agent").Fetch(context.Background(), "t3_abc123")
	require.NoError(t, err)

	assert.Equal(t, "/comments/abc123.json", gotPath)
	assert.Equal(t, "test-agent", gotUA)
	assert.Equal(t, "abc123", th.ID)
	assert.Equal(t, "AskReddit", th.Subreddit)
	assert.Equal(t, "What is the best advice you ignored?", th.Title)
	assert.Equal(t, "https://www.reddit.com/r/AskReddit/comments/abc123/x/", th.URL)
	require.Len(t, th.Comments, 3)
	assert.True(t, th.Comments[0].Stickied)
	assert.Equal(t, []string{"Rules", "Wear sunscreen.", "Save money &amp; sleep."}, th.CommentBodies())
}

func TestFetch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").Fetch(context.Background(), "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestFetch_EmptyID(t *testing.T) {
	_, err := New("", "").Fetch(context.Background(), "  ")
	assert.Error(t, err)
}

func TestHot_ListsThreads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/AskReddit/hot.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"kind":"Listing","data":{"children":[
		  {"kind":"t3","data":{"id":"p1","title":"Megathread","stickied":true}},
		  {"kind":"t3","data":{"id":"p2","title":"Question?","over_18":true}},
		  {"kind":"t3","data":{"id":"p3","title":"Another"}}
		]}}`))
	}))
	defer srv.Close()

	refs, err := New(srv.URL, "").Hot(context.Background(), "r/AskReddit")
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.True(t, refs[0].Stickied)
	assert.True(t, refs[1].NSFW)
	assert.Equal(t, "p3", refs[2].ID)
}
