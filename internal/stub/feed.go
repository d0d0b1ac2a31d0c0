package stub

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// FeedVideo and FeedComment mirror the wire shapes of the production feed
// API, so the client's api package decodes stub responses unchanged.
type FeedVideo struct {
	ID             string   `json:"id"`
	BlackCardText  string   `json:"black_card_text"`
	WhiteCardTexts []string `json:"white_card_texts"`
	VideoURL       string   `json:"video_url"`
	WinnerName     string   `json:"winner_name,omitempty"`
	CreatedAt      string   `json:"created_at"`
	LikesCount     int      `json:"likes_count"`
	CommentsCount  int      `json:"comments_count"`
}

type FeedComment struct {
	ID        string `json:"id"`
	VideoID   string `json:"video_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

// Feed is the in-memory video feed behind the stub's /api/feed routes.
// Finished rounds append to it; it starts seeded so the client's feed view
// has something to show before any game is played.
type Feed struct {
	mu       sync.Mutex
	videos   []FeedVideo // newest last
	likes    map[string]map[string]bool
	comments map[string][]FeedComment
	views    map[string]int
}

func NewFeed() *Feed {
	f := &Feed{
		likes:    make(map[string]map[string]bool),
		comments: make(map[string][]FeedComment),
		views:    make(map[string]int),
	}
	f.Add("Why is everyone staring at me?", []string{"A llama in a business suit"}, "Alice", "https://media.local/seed/1.mp4")
	f.Add("The real reason the meeting ran long:", []string{"Forty-seven rubber ducks"}, "Bob", "https://media.local/seed/2.mp4")
	f.Add("My secret talent is ___.", []string{"Aggressive interpretive dance"}, "Cleo", "https://media.local/seed/3.mp4")
	return f
}

// Add appends one finished-round video and returns it.
func (f *Feed) Add(blackText string, whiteTexts []string, winnerName, videoURL string) FeedVideo {
	v := FeedVideo{
		ID:             uuid.NewString(),
		BlackCardText:  blackText,
		WhiteCardTexts: append([]string(nil), whiteTexts...),
		VideoURL:       videoURL,
		WinnerName:     winnerName,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	f.mu.Lock()
	f.videos = append(f.videos, v)
	f.mu.Unlock()
	return v
}

// Videos pages through the feed, newest first.
func (f *Feed) Videos(limit, offset int) []FeedVideo {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit <= 0 {
		limit = 20
	}
	out := make([]FeedVideo, 0, limit)
	for i := len(f.videos) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.fill(f.videos[i]))
	}
	return out
}

func (f *Feed) Video(id string) (FeedVideo, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.videos {
		if v.ID == id {
			return f.fill(v), true
		}
	}
	return FeedVideo{}, false
}

// Like toggles one viewer's like and reports the new state and total.
func (f *Feed) Like(videoID, userID string) (liked bool, count int, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.exists(videoID) {
		return false, 0, false
	}
	set := f.likes[videoID]
	if set == nil {
		set = make(map[string]bool)
		f.likes[videoID] = set
	}
	if set[userID] {
		delete(set, userID)
	} else {
		set[userID] = true
	}
	return set[userID], len(set), true
}

func (f *Feed) View(videoID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.exists(videoID) {
		return false
	}
	f.views[videoID]++
	return true
}

func (f *Feed) AddComment(videoID, userID, userName, text string) (FeedComment, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.exists(videoID) || text == "" {
		return FeedComment{}, false
	}
	c := FeedComment{
		ID:        uuid.NewString(),
		VideoID:   videoID,
		UserID:    userID,
		UserName:  userName,
		Text:      text,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	f.comments[videoID] = append(f.comments[videoID], c)
	return c, true
}

func (f *Feed) Comments(videoID string, limit int) []FeedComment {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.comments[videoID]
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	return append([]FeedComment(nil), all[len(all)-limit:]...)
}

func (f *Feed) Stats() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	views, likes, comments := 0, 0, 0
	for _, n := range f.views {
		views += n
	}
	for _, set := range f.likes {
		likes += len(set)
	}
	for _, cs := range f.comments {
		comments += len(cs)
	}
	return map[string]any{
		"total_videos":   len(f.videos),
		"total_views":    views,
		"total_likes":    likes,
		"total_comments": comments,
	}
}

// fill stamps the derived counters onto a copy. Caller holds f.mu.
func (f *Feed) fill(v FeedVideo) FeedVideo {
	v.LikesCount = len(f.likes[v.ID])
	v.CommentsCount = len(f.comments[v.ID])
	return v
}

func (f *Feed) exists(id string) bool {
	for _, v := range f.videos {
		if v.ID == id {
			return true
		}
	}
	return false
}
