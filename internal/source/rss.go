package source

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"time"
)

type rssFeed struct {
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssEntry `xml:"item"`
}

type rssEntry struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
	Source      string `xml:"source"`
}

func parseRSS(body []byte) ([]rssEntry, error) {
	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse rss: %w", err)
	}
	return feed.Channel.Items, nil
}

var (
	htmlTagRe  = regexp.MustCompile(`<[^>]*>`)
	cdataRe    = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	multiWSRe  = regexp.MustCompile(`\s+`)
	rssLayouts = []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339}
)

// stripHTML removes CDATA wrappers, tags, and entity noise from feed text.
func stripHTML(s string) string {
	s = cdataRe.ReplaceAllString(s, "$1")
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'").Replace(s)
	return strings.TrimSpace(multiWSRe.ReplaceAllString(s, " "))
}

func parseRSSTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range rssLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// containsFold reports whether text contains needle, case-insensitively.
func containsFold(text, needle string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(needle))
}
