package research

import (
	"testing"

	"github.com/vartanbeno/go-reddit/v2/reddit"

	"storyscroll/config"
)

func TestCleanBody(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"markdown link keeps label",
			"read [part one](https://reddit.com/r/nosleep/abc) first",
			"read part one first",
		},
		{
			"bare url removed",
			"my proof: https://imgur.com/xyz and that was it",
			"my proof: and that was it",
		},
		{
			"plain text untouched",
			"nothing strange here",
			"nothing strange here",
		},
		{
			"double spaces collapsed",
			"left  behind   spaces",
			"left behind spaces",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanBody(tt.input); got != tt.want {
				t.Errorf("cleanBody(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func testScraper() *Scraper {
	cfg := &config.Config{}
	cfg.Research.MinScore = 10
	cfg.Research.MinWords = 3
	return &Scraper{cfg: cfg, used: map[string]bool{}}
}

func selfPost(body string) *reddit.Post {
	return &reddit.Post{
		ID:         "abc",
		Title:      "The Basement",
		Author:     "ghostwriter",
		Body:       body,
		Score:      100,
		IsSelfPost: true,
	}
}

func TestToStory_DropsRemovedAndDeleted(t *testing.T) {
	s := testScraper()
	for _, body := range []string{"[removed]", "[deleted]", "", "   "} {
		if story := s.toStory(selfPost(body), "nosleep"); story != nil {
			t.Errorf("toStory(%q) = %v, want nil", body, story)
		}
	}
}

func TestToStory_CleansBody(t *testing.T) {
	s := testScraper()
	story := s.toStory(selfPost("see [my proof](https://imgur.com/x) it was real"), "nosleep")
	if story == nil {
		t.Fatal("expected story")
	}
	if story.Body != "see my proof it was real" {
		t.Errorf("body = %q", story.Body)
	}
}

func TestToStory_WordCountAfterCleaning(t *testing.T) {
	// URL-only padding must not count toward the minimum word gate.
	s := testScraper()
	if story := s.toStory(selfPost("https://a.com https://b.com ok"), "nosleep"); story != nil {
		t.Errorf("expected nil for body that is URLs plus one word, got %v", story)
	}
}

func TestToStory_FiltersStickiedAndLinkPosts(t *testing.T) {
	s := testScraper()
	stickied := selfPost("a perfectly fine story body")
	stickied.Stickied = true
	if s.toStory(stickied, "nosleep") != nil {
		t.Error("stickied post should be dropped")
	}
	link := selfPost("a perfectly fine story body")
	link.IsSelfPost = false
	if s.toStory(link, "nosleep") != nil {
		t.Error("link post should be dropped")
	}
}
