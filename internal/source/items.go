package source

import "time"

// RawItem is the per-source raw payload. The implementation set is closed:
// one concrete type per source, discriminated by Source(), so downstream
// code can type-switch exhaustively instead of probing loosely typed maps.
type RawItem interface {
	Source() ID
}

// RedditPost is a submission from a subreddit listing.
type RedditPost struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Subreddit string    `json:"subreddit"`
	Author    string    `json:"author"`
	Upvotes   int       `json:"upvotes"`
	Comments  int       `json:"comments"`
	Posted    time.Time `json:"posted"`
}

func (RedditPost) Source() ID { return Reddit }

// HNStory is a Hacker News story from the Algolia search index.
type HNStory struct {
	Title    string    `json:"title"`
	URL      string    `json:"url"`
	Author   string    `json:"author"`
	Points   int       `json:"points"`
	Comments int       `json:"comments"`
	Posted   time.Time `json:"posted"`
}

func (HNStory) Source() ID { return HackerNews }

// Launch is a Product Hunt product launch.
type Launch struct {
	Name     string    `json:"name"`
	Tagline  string    `json:"tagline"`
	Maker    string    `json:"maker"`
	Votes    int       `json:"votes"`
	Comments int       `json:"comments"`
	Posted   time.Time `json:"posted"`
}

func (Launch) Source() ID { return ProductHunt }

// Repo is a repository from GitHub search.
type Repo struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Created     time.Time `json:"created"`
}

func (Repo) Source() ID { return GitHub }

// Question is a Stack Overflow question.
type Question struct {
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	Tags    []string  `json:"tags"`
	Score   int       `json:"score"`
	Answers int       `json:"answers"`
	Views   int       `json:"views"`
	Asked   time.Time `json:"asked"`
}

func (Question) Source() ID { return StackOverflow }

// Article is a news article from the Google News feed.
type Article struct {
	Title     string    `json:"title"`
	Snippet   string    `json:"snippet"`
	Outlet    string    `json:"outlet"`
	Mentions  int       `json:"mentions"`
	Published time.Time `json:"published"`
}

func (Article) Source() ID { return GoogleNews }

// Video is a YouTube video search hit.
type Video struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Channel     string    `json:"channel"`
	Views       int       `json:"views"`
	Likes       int       `json:"likes"`
	Published   time.Time `json:"published"`
}

func (Video) Source() ID { return YouTube }
