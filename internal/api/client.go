// Package api is the read-only auxiliary HTTP surface: the video feed,
// likes, comments and static card lists. It is consumed by peripheral UI
// only and is entirely separate from the synchronization core; plain
// request/response fetches with JSON bodies, non-2xx is failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/absurdly-visual/client-go/internal/game"
)

type Client struct {
	BaseURL  string
	UserID   string
	UserName string
	http     *http.Client
}

// New creates a feed client. The viewer identity for likes and comments is a
// fresh uuid per process; the feed has no accounts.
func New(baseURL, userName string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		UserID:   uuid.NewString(),
		UserName: userName,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

type VideoItem struct {
	ID             string   `json:"id"`
	BlackCardText  string   `json:"black_card_text"`
	WhiteCardTexts []string `json:"white_card_texts"`
	VideoURL       string   `json:"video_url"`
	Prompt         string   `json:"prompt,omitempty"`
	WinnerName     string   `json:"winner_name,omitempty"`
	CreatedAt      string   `json:"created_at"`
	LikesCount     int      `json:"likes_count"`
	CommentsCount  int      `json:"comments_count"`
}

type Comment struct {
	ID        string `json:"id"`
	VideoID   string `json:"video_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type LikeResult struct {
	Success    bool `json:"success"`
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// VideosFeed lists recent winning videos, newest first.
func (c *Client) VideosFeed(ctx context.Context, limit, offset int) ([]VideoItem, error) {
	var out []VideoItem
	path := fmt.Sprintf("/api/feed/videos?limit=%d&offset=%d", limit, offset)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Video(ctx context.Context, videoID string) (VideoItem, error) {
	var out VideoItem
	err := c.get(ctx, "/api/feed/videos/"+videoID, &out)
	return out, err
}

// Like toggles this viewer's like on a video.
func (c *Client) Like(ctx context.Context, videoID string) (LikeResult, error) {
	var out LikeResult
	err := c.post(ctx, "/api/feed/like", map[string]any{
		"video_id": videoID,
		"user_id":  c.UserID,
	}, &out)
	return out, err
}

// RecordView counts one view; fire-and-forget from the player's perspective.
func (c *Client) RecordView(ctx context.Context, videoID string) error {
	return c.post(ctx, "/api/feed/view", map[string]any{"video_id": videoID}, nil)
}

func (c *Client) AddComment(ctx context.Context, videoID, text string) (Comment, error) {
	var out Comment
	err := c.post(ctx, "/api/feed/comment", map[string]any{
		"video_id":  videoID,
		"user_id":   c.UserID,
		"user_name": c.UserName,
		"text":      text,
	}, &out)
	return out, err
}

func (c *Client) Comments(ctx context.Context, videoID string, limit int) ([]Comment, error) {
	var out []Comment
	path := fmt.Sprintf("/api/feed/comments/%s?limit=%d", videoID, limit)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) BlackCards(ctx context.Context) ([]game.PromptCard, error) {
	var out []game.PromptCard
	if err := c.get(ctx, "/api/cards/black", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) WhiteCards(ctx context.Context) ([]game.AnswerCard, error) {
	var out []game.AnswerCard
	if err := c.get(ctx, "/api/cards/white", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	out := map[string]any{}
	if err := c.get(ctx, "/api/stats", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("api status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
