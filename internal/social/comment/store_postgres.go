// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/internal/platform/database/schema"
	"github.com/taibuivan/campusconnect/internal/platform/dberr"
	"github.com/taibuivan/campusconnect/internal/platform/postgres"
	"github.com/taibuivan/campusconnect/pkg/pagination"
)

var (
	comments = schema.SocialComment
	posts    = schema.SocialPost
	person   = schema.IdentityPerson
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewRepository creates a new Postgres comment repository.
func NewRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var commentColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s",
	comments.ID, comments.PostID, comments.UserID, comments.Content, comments.CreatedAt, comments.UpdatedAt)

func scanComment(row pgx.Row) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.UserID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	return comment, err
}

/*
Create inserts a comment.

Description: A comment on a missing post violates the post_id foreign key,
which is reported as NOT_FOUND for the post.

Parameters:
  - context: context.Context
  - comment: *Comment (ID and timestamps are filled in)

Returns:
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) Create(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s, %s`,
		comments.Table, comments.PostID, comments.UserID, comments.Content,
		comments.ID, comments.CreatedAt, comments.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, comment.PostID, comment.UserID, comment.Content).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return apperr.NotFound("Post")
		}
		return dberr.Wrap(err, "postgres_comment_repo_create")
	}

	return nil
}

/*
ListByPost retrieves a page of a post's comments.

Parameters:
  - context: context.Context
  - postID: int64
  - params: pagination.Params

Returns:
  - []*Comment: Newest first
  - int: Total comments on the post
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresRepository) ListByPost(context context.Context, postID int64, params pagination.Params) ([]*Comment, int, error) {
	if _, err := repository.PostOwner(context, postID); err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, comments.Table, comments.PostID)
	if err := repository.db.QueryRow(context, countQuery, postID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1
		ORDER BY %s DESC, %s DESC
		LIMIT $2 OFFSET $3`,
		commentColumns, comments.Table,
		comments.PostID,
		comments.CreatedAt, comments.ID,
	)

	rows, err := repository.db.Query(context, query, postID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_list_failed: %w", err)
	}
	defer rows.Close()

	result := make([]*Comment, 0, params.Limit)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_repo_scan_failed: %w", err)
		}
		result = append(result, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_rows_failed: %w", err)
	}

	return result, total, nil
}

// PostOwner returns the user id that owns postID.
func (repository *PostgresRepository) PostOwner(context context.Context, postID int64) (int64, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, posts.UserID, posts.Table, posts.ID)

	var ownerID int64
	if err := repository.db.QueryRow(context, query, postID).Scan(&ownerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperr.NotFound("Post")
		}
		return 0, fmt.Errorf("postgres_comment_repo_post_owner_failed: %w", err)
	}

	return ownerID, nil
}

// Commenters lists who commented on postID with what, newest first.
func (repository *PostgresRepository) Commenters(context context.Context, postID int64) ([]*Commenter, error) {
	query := fmt.Sprintf(`
		SELECT u.%s, u.%s, u.%s, c.%s, c.%s
		FROM %s c
		JOIN %s u ON u.%s = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s DESC, c.%s DESC`,
		person.ID, person.FirstName, person.LastName, comments.Content, comments.CreatedAt,
		comments.Table,
		person.Table, person.ID, comments.UserID,
		comments.PostID,
		comments.CreatedAt, comments.ID,
	)

	rows, err := repository.db.Query(context, query, postID)
	if err != nil {
		return nil, fmt.Errorf("postgres_comment_repo_commenters_failed: %w", err)
	}
	defer rows.Close()

	result := []*Commenter{}
	for rows.Next() {
		commenter := &Commenter{}
		if err := rows.Scan(&commenter.ID, &commenter.FirstName, &commenter.LastName, &commenter.Content, &commenter.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_comment_repo_commenters_scan_failed: %w", err)
		}
		result = append(result, commenter)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_comment_repo_commenters_rows_failed: %w", err)
	}

	return result, nil
}

func findLocked(context context.Context, tx pgx.Tx, id int64) (*Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, commentColumns, comments.Table, comments.ID)

	comment, err := scanComment(tx.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, fmt.Errorf("postgres_comment_repo_find_failed: %w", err)
	}

	return comment, nil
}

/*
Update replaces the content after the guard accepts the locked row.

Parameters:
  - context: context.Context
  - id: int64
  - content: string
  - guard: Guard

Returns:
  - *Comment: Updated comment
  - error: apperr.NotFound, guard errors or database errors
*/
func (repository *PostgresRepository) Update(context context.Context, id int64, content string, guard Guard) (*Comment, error) {
	var updated *Comment

	err := postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		current, err := findLocked(context, tx, id)
		if err != nil {
			return err
		}

		if err := guard(current); err != nil {
			return err
		}

		query := fmt.Sprintf(`
			UPDATE %s SET %s = $1, %s = NOW()
			WHERE %s = $2
			RETURNING %s`,
			comments.Table, comments.Content, comments.UpdatedAt,
			comments.ID,
			commentColumns,
		)

		updated, err = scanComment(tx.QueryRow(context, query, content, id))
		if err != nil {
			return fmt.Errorf("postgres_comment_repo_update_failed: %w", err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the comment after the guard accepts the locked row.
func (repository *PostgresRepository) Delete(context context.Context, id int64, guard Guard) error {
	return postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		current, err := findLocked(context, tx, id)
		if err != nil {
			return err
		}

		if err := guard(current); err != nil {
			return err
		}

		query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, comments.Table, comments.ID)
		if _, err := tx.Exec(context, query, id); err != nil {
			return fmt.Errorf("postgres_comment_repo_delete_failed: %w", err)
		}
		return nil
	})
}
