package domain

import "time"

// Article is the persisted news record. URL is the natural key: ingesting the
// same URL twice updates the existing row instead of creating a second one.
type Article struct {
	ID          int64
	Title       string
	Content     *string
	URL         string
	ImageURL    *string
	SourceID    int64
	CategoryID  int64
	PublishedAt time.Time
}

// Source is a lookup entity created lazily on first sight of a new name.
type Source struct {
	ID   int64
	Name string
}

// Category is a lookup entity whose names are produced by the classifier.
type Category struct {
	ID   int64
	Name string
}

// NormalizedArticle is a provider adapter's per-item output: the common shape
// all three provider payloads are reduced to, before source/category
// resolution. Empty Description/ImageURL mean the provider omitted the field.
type NormalizedArticle struct {
	Title       string
	Description string
	URL         string
	ImageURL    string
	SourceName  string
	PublishedAt time.Time
}

// ArticleView is an article joined with its source and category names, the
// shape served by the read API.
type ArticleView struct {
	Article
	SourceName   string
	CategoryName string
}

// ArticleFilter narrows article listings. Zero values mean "no filter".
// The plural ID fields back the preference-filtered feed.
type ArticleFilter struct {
	Query       string
	Date        string // YYYY-MM-DD, matched against published_at's date
	CategoryID  int64
	SourceID    int64
	CategoryIDs []int64
	SourceIDs   []int64
	Page        int
	PerPage     int
}
