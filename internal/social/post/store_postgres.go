// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/internal/platform/database/schema"
	"github.com/taibuivan/campusconnect/internal/platform/dberr"
	"github.com/taibuivan/campusconnect/internal/platform/postgres"
)

var (
	posts    = schema.SocialPost
	comments = schema.SocialComment
	person   = schema.IdentityPerson
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewRepository creates a new Postgres post repository.
func NewRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var postColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s",
	posts.ID, posts.UserID, posts.Title, posts.Content, posts.ImageURL, posts.CreatedAt, posts.UpdatedAt)

func scanPost(row pgx.Row) (*Post, error) {
	post := &Post{}
	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.Title,
		&post.Content,
		&post.ImageURL,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	return post, err
}

/*
Create inserts a new post.

Parameters:
  - context: context.Context
  - post: *Post (ID and timestamps are filled in)

Returns:
  - error: Validation (unknown author) or database errors
*/
func (repository *PostgresRepository) Create(context context.Context, post *Post) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s, %s, %s`,
		posts.Table, posts.UserID, posts.Title, posts.Content, posts.ImageURL,
		posts.ID, posts.CreatedAt, posts.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, post.UserID, post.Title, post.Content, post.ImageURL).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "postgres_post_repo_create")
	}

	return nil
}

// FindByID retrieves a single post.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Post, error) {
	return findPost(context, repository.db, id, false)
}

func findPost(context context.Context, db postgres.DBTX, id int64, lock bool) (*Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, postColumns, posts.Table, posts.ID)
	if lock {
		query += " FOR UPDATE"
	}

	post, err := scanPost(db.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Post")
		}
		return nil, fmt.Errorf("postgres_post_repo_find_failed: %w", err)
	}

	return post, nil
}

/*
Feed loads posts with their authors, then every comment of those posts in a
second query, and stitches them together.

Parameters:
  - context: context.Context
  - authorID: *int64

Returns:
  - []*FeedPost: Posts newest first, comments oldest first
  - error: Database errors
*/
func (repository *PostgresRepository) Feed(context context.Context, authorID *int64) ([]*FeedPost, error) {

	// 1. Posts with authors
	query := fmt.Sprintf(`
		SELECT p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s,
		       u.%s, u.%s, u.%s, u.%s
		FROM %s p
		JOIN %s u ON u.%s = p.%s
		WHERE ($1::BIGINT IS NULL OR p.%s = $1)
		ORDER BY p.%s DESC, p.%s DESC`,
		posts.ID, posts.UserID, posts.Title, posts.Content, posts.ImageURL, posts.CreatedAt, posts.UpdatedAt,
		person.ID, person.FirstName, person.LastName, person.Email,
		posts.Table,
		person.Table, person.ID, posts.UserID,
		posts.UserID,
		posts.CreatedAt, posts.ID,
	)

	rows, err := repository.db.Query(context, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("postgres_post_repo_feed_failed: %w", err)
	}
	defer rows.Close()

	feed := []*FeedPost{}
	byID := map[int64]*FeedPost{}
	ids := []int64{}

	for rows.Next() {
		item := &FeedPost{Comments: []*FeedComment{}}
		err := rows.Scan(
			&item.ID, &item.UserID, &item.Title, &item.Content, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt,
			&item.Author.ID, &item.Author.FirstName, &item.Author.LastName, &item.Author.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_post_repo_feed_scan_failed: %w", err)
		}
		feed = append(feed, item)
		byID[item.ID] = item
		ids = append(ids, item.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_post_repo_feed_rows_failed: %w", err)
	}

	if len(ids) == 0 {
		return feed, nil
	}

	// 2. Comments of those posts
	commentQuery := fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, c.%s,
		       u.%s, u.%s, u.%s, u.%s
		FROM %s c
		JOIN %s u ON u.%s = c.%s
		WHERE c.%s = ANY($1)
		ORDER BY c.%s ASC, c.%s ASC`,
		comments.ID, comments.PostID, comments.Content, comments.CreatedAt,
		person.ID, person.FirstName, person.LastName, person.Email,
		comments.Table,
		person.Table, person.ID, comments.UserID,
		comments.PostID,
		comments.CreatedAt, comments.ID,
	)

	commentRows, err := repository.db.Query(context, commentQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres_post_repo_feed_comments_failed: %w", err)
	}
	defer commentRows.Close()

	for commentRows.Next() {
		var postID int64
		comment := &FeedComment{}
		err := commentRows.Scan(
			&comment.ID, &postID, &comment.Content, &comment.CreatedAt,
			&comment.Commenter.ID, &comment.Commenter.FirstName, &comment.Commenter.LastName, &comment.Commenter.Email,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_post_repo_feed_comment_scan_failed: %w", err)
		}
		if item, ok := byID[postID]; ok {
			item.Comments = append(item.Comments, comment)
		}
	}

	if err := commentRows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_post_repo_feed_comment_rows_failed: %w", err)
	}

	return feed, nil
}

// ListByUser retrieves one user's posts, newest first.
func (repository *PostgresRepository) ListByUser(context context.Context, userID int64) ([]*Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC, %s DESC`,
		postColumns, posts.Table, posts.UserID, posts.CreatedAt, posts.ID)

	rows, err := repository.db.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_post_repo_list_by_user_failed: %w", err)
	}
	defer rows.Close()

	result := []*Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_post_repo_scan_failed: %w", err)
		}
		result = append(result, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_post_repo_rows_failed: %w", err)
	}

	return result, nil
}

/*
Update applies patch inside a transaction after the guard accepts the locked row.

Parameters:
  - context: context.Context
  - id: int64
  - patch: Patch
  - guard: Guard

Returns:
  - *Post: Updated post
  - error: apperr.NotFound, guard errors or database errors
*/
func (repository *PostgresRepository) Update(context context.Context, id int64, patch Patch, guard Guard) (*Post, error) {
	var updated *Post

	err := postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		current, err := findPost(context, tx, id, true)
		if err != nil {
			return err
		}

		if err := guard(current); err != nil {
			return err
		}

		imageURL := current.ImageURL
		switch patch.Image {
		case ImageClear:
			imageURL = nil
		case ImageReplace:
			imageURL = &patch.ImageURL
		}

		query := fmt.Sprintf(`
			UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = NOW()
			WHERE %s = $4
			RETURNING %s`,
			posts.Table, posts.Title, posts.Content, posts.ImageURL, posts.UpdatedAt,
			posts.ID,
			postColumns,
		)

		updated, err = scanPost(tx.QueryRow(context, query, patch.Title, patch.Content, imageURL, id))
		if err != nil {
			return fmt.Errorf("postgres_post_repo_update_failed: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return updated, nil
}

/*
Delete removes the post after the guard accepts the locked row.
Comments are removed by the ON DELETE CASCADE key.

Parameters:
  - context: context.Context
  - id: int64
  - guard: Guard

Returns:
  - error: apperr.NotFound, guard errors or database errors
*/
func (repository *PostgresRepository) Delete(context context.Context, id int64, guard Guard) error {
	return postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		current, err := findPost(context, tx, id, true)
		if err != nil {
			return err
		}

		if err := guard(current); err != nil {
			return err
		}

		query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, posts.Table, posts.ID)
		if _, err := tx.Exec(context, query, id); err != nil {
			return fmt.Errorf("postgres_post_repo_delete_failed: %w", err)
		}
		return nil
	})
}
