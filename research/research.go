// Package research pulls horror stories from reddit and maintains the
// local story pool. Scraping is an external-facing collaborator; the
// renderer only ever sees the merged stories JSON.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/vartanbeno/go-reddit/v2/reddit"
	"golang.org/x/time/rate"

	"storyscroll/config"
	"storyscroll/types"
)

// Passes run per subreddit, highest quality pool first.
var passes = []struct {
	sort string
	time string
}{
	{"top", "all"},
	{"top", "year"},
	{"top", "month"},
	{"hot", ""},
	{"new", ""},
}

// Scraper holds the reddit client and the request rate limiter. The
// limiter is injected so all reddit traffic in the process shares one
// budget without package-level state.
type Scraper struct {
	cfg     *config.Config
	client  *reddit.Client
	limiter *rate.Limiter
	used    map[string]bool
}

// New creates a Scraper with a read-only reddit client.
func New(cfg *config.Config, limiter *rate.Limiter) (*Scraper, error) {
	client, err := reddit.NewReadonlyClient()
	if err != nil {
		return nil, fmt.Errorf("reddit client: %w", err)
	}
	return &Scraper{
		cfg:     cfg,
		client:  client,
		limiter: limiter,
		used:    loadUsedStories(cfg.Paths.UsedStoriesLog),
	}, nil
}

// Run scrapes all configured subreddits across sort passes and merges
// the results into the stories JSON, never overwriting entries that
// have already been rendered.
func (s *Scraper) Run(ctx context.Context) ([]*types.Story, error) {
	log.Println("[research] Starting story scrape...")

	pool := loadStories(s.cfg.Paths.Stories)
	known := make(map[string]bool, len(pool))
	for _, st := range pool {
		known[st.ID] = true
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.Research.LookbackDays)
	added := 0

	for _, sub := range s.cfg.Research.Subreddits {
		for _, pass := range passes {
			posts, err := s.fetch(ctx, sub, pass.sort, pass.time)
			if err != nil {
				log.Printf("[research] r/%s %s/%s warning: %v", sub, pass.sort, pass.time, err)
				continue
			}
			for _, post := range posts {
				story := s.toStory(post, sub)
				if story == nil || known[story.ID] {
					continue
				}
				if s.cfg.Research.LookbackDays > 0 && pass.sort != "top" {
					if created, err := time.Parse(time.RFC3339, story.PublishedAt); err == nil && created.Before(cutoff) {
						continue
					}
				}
				pool = append(pool, story)
				known[story.ID] = true
				added++
			}
		}
	}

	sort.Slice(pool, func(i, j int) bool { return pool[i].Score > pool[j].Score })

	if err := saveStories(s.cfg.Paths.Stories, pool); err != nil {
		return nil, fmt.Errorf("save stories: %w", err)
	}
	log.Printf("[research] ✅ %d new stories (pool: %d) → %s", added, len(pool), s.cfg.Paths.Stories)
	return pool, nil
}

func (s *Scraper) fetch(ctx context.Context, subreddit, sortMode, timeFilter string) ([]*reddit.Post, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	limit := s.cfg.Research.Limit
	if limit <= 0 {
		limit = 100
	}
	listOpts := reddit.ListOptions{Limit: limit}

	var posts []*reddit.Post
	var err error
	switch sortMode {
	case "top":
		posts, _, err = s.client.Subreddit.TopPosts(ctx, subreddit,
			&reddit.ListPostOptions{ListOptions: listOpts, Time: timeFilter})
	case "hot":
		posts, _, err = s.client.Subreddit.HotPosts(ctx, subreddit, &listOpts)
	case "new":
		posts, _, err = s.client.Subreddit.NewPosts(ctx, subreddit, &listOpts)
	default:
		return nil, fmt.Errorf("unknown sort mode %q", sortMode)
	}
	return posts, err
}

// toStory filters and converts one post. Link posts, stickied mod
// posts, removed posts, and stories too short for a meaningful video
// are dropped.
func (s *Scraper) toStory(post *reddit.Post, subreddit string) *types.Story {
	if post.Stickied || !post.IsSelfPost {
		return nil
	}
	if post.Score < s.cfg.Research.MinScore {
		return nil
	}
	raw := strings.TrimSpace(post.Body)
	if raw == "" || raw == "[removed]" || raw == "[deleted]" {
		return nil
	}
	body := cleanBody(raw)
	wordCount := len(strings.Fields(body))
	if wordCount < s.cfg.Research.MinWords {
		return nil
	}

	publishedAt := ""
	if post.Created != nil {
		publishedAt = post.Created.Format(time.RFC3339)
	}
	return &types.Story{
		ID:          "reddit_" + post.ID,
		Title:       strings.TrimSpace(post.Title),
		Author:      "u/" + post.Author,
		Body:        body,
		Source:      "r/" + subreddit,
		SourceURL:   "https://reddit.com" + post.Permalink,
		Score:       post.Score,
		WordCount:   wordCount,
		PublishedAt: publishedAt,
	}
}

var (
	markdownLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(https?://[^\)]+\)`)
	bareURLRe      = regexp.MustCompile(`https?://\S+`)
	multiSpaceRe   = regexp.MustCompile(` {2,}`)
)

// cleanBody strips link syntax that would otherwise be drawn on
// screen and read aloud: markdown links keep their label, bare URLs
// are removed outright.
func cleanBody(text string) string {
	text = markdownLinkRe.ReplaceAllString(text, "$1")
	text = bareURLRe.ReplaceAllString(text, "")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// MarkUsed records a story as rendered so later runs skip it.
func (s *Scraper) MarkUsed(story *types.Story) {
	s.used[story.ID] = true
	data, _ := json.MarshalIndent(s.used, "", "  ")
	_ = os.WriteFile(s.cfg.Paths.UsedStoriesLog, data, 0644)
}

// IsUsed reports whether a story has already been rendered.
func (s *Scraper) IsUsed(id string) bool {
	return s.used[id]
}

// MarkUsedID updates the used-stories log without needing a reddit
// client, for callers that only render.
func MarkUsedID(path, id string) error {
	used := loadUsedStories(path)
	used[id] = true
	data, err := json.MarshalIndent(used, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadStories reads the merged story pool from disk.
func LoadStories(path string) ([]*types.Story, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stories %s: %w", path, err)
	}
	var stories []*types.Story
	if err := json.Unmarshal(data, &stories); err != nil {
		return nil, fmt.Errorf("parse stories %s: %w", path, err)
	}
	return stories, nil
}

func loadStories(path string) []*types.Story {
	stories, err := LoadStories(path)
	if err != nil {
		return nil
	}
	return stories
}

func saveStories(path string, stories []*types.Story) error {
	data, err := json.MarshalIndent(stories, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadUsed reads the used-stories log for display.
func LoadUsed(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	used := make(map[string]bool)
	if err := json.Unmarshal(data, &used); err != nil {
		return nil, err
	}
	return used, nil
}

func loadUsedStories(path string) map[string]bool {
	used := make(map[string]bool)
	data, err := os.ReadFile(path)
	if err != nil {
		return used
	}
	_ = json.Unmarshal(data, &used)
	return used
}
