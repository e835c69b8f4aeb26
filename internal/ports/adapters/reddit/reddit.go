package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/forPelevin/threadreel/internal/types"
)

const (
	requestTimeout   = 30 * time.Second
	defaultUserAgent = "threadreel/1.0"
	commentLimit     = 100
	hotLimit         = 25
)

type Adapter struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

func New(baseURL, userAgent string) *Adapter {
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	return &Adapter{
		baseURL:   normalizeBaseURL(baseURL),
		userAgent: userAgent,
		client:    &http.Client{Timeout: 2 * time.Minute},
	}
}

type listing struct {
	Data struct {
		Children []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type postData struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Subreddit string `json:"subreddit"`
	Permalink string `json:"permalink"`
	Over18    bool   `json:"over_18"`
	Stickied  bool   `json:"stickied"`
}

type commentData struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Body     string `json:"body"`
	Score    int    `json:"score"`
	Stickied bool   `json:"stickied"`
}

// Fetch loads a thread and its top-level comments in "top" order.
func (a *Adapter) Fetch(ctx context.Context, id string) (types.ThreadContent, error) {
	id = strings.TrimPrefix(strings.TrimSpace(id), "t3_")
	if id == "" {
		return types.ThreadContent{}, errors.New("reddit fetch: empty thread id")
	}
	q := url.Values{}
	q.Set("sort", "top")
	q.Set("limit", fmt.Sprint(commentLimit))
	q.Set("depth", "1")
	q.Set("raw_json", "1")

	var pages []listing
	if err := a.getJSON(ctx, "/comments/"+url.PathEscape(id)+".json?"+q.Encode(), &pages); err != nil {
		return types.ThreadContent{}, fmt.Errorf("reddit fetch %s: %w", id, err)
	}
	return decodeThread(pages)
}

func decodeThread(pages []listing) (types.ThreadContent, error) {
	if len(pages) < 2 || len(pages[0].Data.Children) == 0 {
		return types.ThreadContent{}, errors.New("reddit: unexpected thread payload")
	}
	var post postData
	if err := json.Unmarshal(pages[0].Data.Children[0].Data, &post); err != nil {
		return types.ThreadContent{}, fmt.Errorf("reddit: decode post: %w", err)
	}
	th := types.ThreadContent{
		ID:        post.ID,
		Subreddit: post.Subreddit,
		Title:     strings.TrimSpace(post.Title),
		URL:       DefaultBaseURL + post.Permalink,
		NSFW:      post.Over18,
	}
	for _, ch := range pages[1].Data.Children {
		// "more" stubs carry no body
		if ch.Kind != "t1" {
			continue
		}
		var c commentData
		if err := json.Unmarshal(ch.Data, &c); err != nil {
			return types.ThreadContent{}, fmt.Errorf("reddit: decode comment: %w", err)
		}
		th.Comments = append(th.Comments, types.Comment{
			ID:       c.ID,
			Author:   c.Author,
			Body:     c.Body,
			Score:    c.Score,
			Stickied: c.Stickied,
		})
	}
	return th, nil
}

// Hot lists the current hot threads of a subreddit.
func (a *Adapter) Hot(ctx context.Context, subreddit string) ([]types.ThreadRef, error) {
	subreddit = strings.TrimPrefix(strings.TrimSpace(subreddit), "r/")
	if subreddit == "" {
		return nil, errors.New("reddit hot: empty subreddit")
	}
	var page listing
	path := fmt.Sprintf("/r/%s/hot.json?limit=%d&raw_json=1", url.PathEscape(subreddit), hotLimit)
	if err := a.getJSON(ctx, path, &page); err != nil {
		return nil, fmt.Errorf("reddit hot %s: %w", subreddit, err)
	}
	out := make([]types.ThreadRef, 0, len(page.Data.Children))
	for _, ch := range page.Data.Children {
		if ch.Kind != "t3" {
			continue
		}
		var p postData
		if err := json.Unmarshal(ch.Data, &p); err != nil {
			return nil, fmt.Errorf("reddit: decode post: %w", err)
		}
		out = append(out, types.ThreadRef{ID: p.ID, Title: p.Title, NSFW: p.Over18, Stickied: p.Stickied})
	}
	return out, nil
}

func (a *Adapter) getJSON(ctx context.Context, path string, dst any) error {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("timeout after %s", requestTimeout)
		}
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(strings.TrimSpace(string(rb)), 200))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
