package model

import "time"

type NewsArticle struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	ImageURL    string    `json:"imageUrl,omitempty"`
}

type News struct {
	Articles    []NewsArticle `json:"articles"`
	LastUpdated time.Time     `json:"lastUpdated"`
	NextUpdate  time.Time     `json:"nextUpdate"`
}
