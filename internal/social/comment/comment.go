// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment manages discussion threads under posts.

Anyone authenticated may comment on an existing post and read its thread.
Only the post owner may list who commented. Comments are edited or removed by
their author or an admin; the check runs against the locked row.
*/
package comment

import (
	"context"
	"time"

	"github.com/taibuivan/campusconnect/pkg/pagination"
)

// # Domain Entities

// Comment is a single reply on a post.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Commenter is one entry of the "who commented on my post" listing.
type Commenter struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	FieldContent = "content"

	// ContentMaxLength bounds a single comment.
	ContentMaxLength = 2000
)

// Guard inspects the locked comment before a mutation. A non-nil error aborts it.
type Guard func(current *Comment) error

// # Repository Contracts

// Repository defines the persistence contract for comments.
type Repository interface {

	// Create inserts comment; a missing post yields apperr.NotFound.
	Create(context context.Context, comment *Comment) error

	/*
		ListByPost returns one page of a post's comments, newest first.

		Returns:
		  - []*Comment: Page of comments
		  - int: Total comments on the post
		  - error: apperr.NotFound when the post does not exist
	*/
	ListByPost(context context.Context, postID int64, params pagination.Params) ([]*Comment, int, error)

	// PostOwner returns the author of a post or apperr.NotFound.
	PostOwner(context context.Context, postID int64) (int64, error)

	// Commenters lists the people who commented on a post, newest first.
	Commenters(context context.Context, postID int64) ([]*Commenter, error)

	// Update locks the comment, runs guard and replaces its content.
	Update(context context.Context, id int64, content string, guard Guard) (*Comment, error)

	// Delete locks the comment, runs guard and removes it.
	Delete(context context.Context, id int64, guard Guard) error
}
