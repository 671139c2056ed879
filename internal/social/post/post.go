// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package post implements the campus feed: posts with optional media.

# Architecture

  - Entities: Post (row), FeedPost (post with author and comments).
  - Media: uploaded to object storage before the write; only the URL is stored.
  - Guards: updates and deletes lock the post row, then check owner-or-admin.
  - Events: post.created is published after a successful insert.
*/
package post

import (
	"context"
	"io"
	"time"
)

// # Domain Entities

// Post is a single entry in the feed.
type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Person is the public view of an author or commenter.
type Person struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// FeedComment is a comment embedded in a feed post.
type FeedComment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Commenter Person    `json:"commenter"`
}

// FeedPost is a post hydrated with its author and comments (oldest first).
type FeedPost struct {
	Post
	Author   Person         `json:"author"`
	Comments []*FeedComment `json:"comments"`
}

// Media is an uploaded file attached to a post.
type Media struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// # Field Identifiers

const (
	FieldTitle    = "title"
	FieldContent  = "content"
	FieldImage    = "image"
	FieldImageURL = "image_url"
)

// # Constraints

const (
	TitleMaxLength   = 200
	ContentMaxLength = 10000
)

// AllowedMediaTypes lists the accepted upload content types.
var AllowedMediaTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"video/mp4",
	"video/webm",
	"video/quicktime",
}

// # Repository Contracts

// ImageChange describes what an update does to the stored image URL.
type ImageChange int

const (
	ImageKeep ImageChange = iota
	ImageClear
	ImageReplace
)

// Patch is the set of changes applied by Update.
type Patch struct {
	Title    string
	Content  string
	Image    ImageChange
	ImageURL string // only read when Image is ImageReplace
}

// Guard inspects the locked post before a mutation. A non-nil error aborts it.
type Guard func(current *Post) error

// Repository defines the persistence contract for posts.
type Repository interface {

	// Create inserts post and fills in its id and timestamps.
	Create(context context.Context, post *Post) error

	// FindByID returns a post or apperr.NotFound.
	FindByID(context context.Context, id int64) (*Post, error)

	/*
		Feed returns posts newest first with authors and comments.

		Parameters:
		  - context: context.Context
		  - authorID: *int64 (nil for every author)

		Returns:
		  - []*FeedPost: Hydrated posts
		  - error: Storage failures
	*/
	Feed(context context.Context, authorID *int64) ([]*FeedPost, error)

	// ListByUser returns one user's posts, newest first, without comments.
	ListByUser(context context.Context, userID int64) ([]*Post, error)

	// Update locks the post, runs guard and applies patch.
	Update(context context.Context, id int64, patch Patch, guard Guard) (*Post, error)

	// Delete locks the post, runs guard and deletes it with its comments.
	Delete(context context.Context, id int64, guard Guard) error
}
