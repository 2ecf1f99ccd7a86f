package entity

import "time"

// Like marks one user's like; the likes array keeps insertion order
// (most recent first) and never holds duplicates.
type Like struct {
	User int64 `json:"user"`
}

// Comment is a comment snapshot: author name and avatar are copied at
// creation time and never synced afterwards.
type Comment struct {
	ID     string    `json:"id"`
	User   int64     `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

// Post is one post document. Name and Avatar snapshot the author at
// creation time.
type Post struct {
	ID        string    `json:"id"`
	User      int64     `json:"user"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"date"`
}
