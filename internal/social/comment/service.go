// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/internal/platform/constants"
	"github.com/taibuivan/campusconnect/internal/platform/ctxutil"
	"github.com/taibuivan/campusconnect/internal/platform/events"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
	"github.com/taibuivan/campusconnect/internal/platform/validate"
	"github.com/taibuivan/campusconnect/pkg/pagination"
)

const (
	msgNotYourComment = "You are not authorized to modify this comment"
	msgNotYourPost    = "Only the post owner can view its commenters"
)

// Created is the payload of the comment.created event.
type Created struct {
	CommentID int64 `json:"commentId"`
	PostID    int64 `json:"postId"`
	UserID    int64 `json:"userId"`
}

// # Service Layer

// Service orchestrates the comment use cases.
type Service struct {
	repository Repository
	publisher  events.Publisher
}

// NewService constructs a comment [Service].
func NewService(repo Repository, publisher events.Publisher) *Service {
	return &Service{repository: repo, publisher: publisher}
}

func validateContent(content string) error {
	return (&validate.Validator{}).
		Required(FieldContent, content).
		MaxLen(FieldContent, content, ContentMaxLength).
		Err()
}

// # Use Cases

/*
Create adds a comment by caller to an existing post.

Parameters:
  - context: context.Context
  - caller: *sec.Identity
  - postID: int64
  - content: string

Returns:
  - *Comment: Created comment
  - error: Validation or NotFound (post missing)
*/
func (service *Service) Create(context context.Context, caller *sec.Identity, postID int64, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	comment := &Comment{PostID: postID, UserID: caller.ID, Content: content}
	if err := service.repository.Create(context, comment); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("comment_service_create_failed: %w", err)
	}

	logger := ctxutil.GetLogger(context)
	logger.InfoContext(context, "comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("post_id", postID),
		slog.Int64("user_id", caller.ID),
	)

	event := Created{CommentID: comment.ID, PostID: postID, UserID: caller.ID}
	if err := service.publisher.Publish(context, constants.EventCommentCreated, event); err != nil {
		logger.WarnContext(context, "comment_event_publish_failed", slog.Any("error", err))
	}

	return comment, nil
}

// ListByPost returns one page of a post's comments, newest first.
func (service *Service) ListByPost(context context.Context, postID int64, params pagination.Params) ([]*Comment, int, error) {
	result, total, err := service.repository.ListByPost(context, postID, params)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("comment_service_list_failed: %w", err)
	}
	return result, total, nil
}

/*
Commenters lists who commented on a post.

Description: Only the post's owner may see this list; admins are not exempt.

Returns:
  - []*Commenter: Newest first
  - error: NotFound (post missing) or Forbidden (not the owner)
*/
func (service *Service) Commenters(context context.Context, caller *sec.Identity, postID int64) ([]*Commenter, error) {
	ownerID, err := service.repository.PostOwner(context, postID)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("comment_service_post_owner_failed: %w", err)
	}

	if caller == nil || caller.ID != ownerID {
		return nil, apperr.Forbidden(msgNotYourPost)
	}

	result, err := service.repository.Commenters(context, postID)
	if err != nil {
		return nil, fmt.Errorf("comment_service_commenters_failed: %w", err)
	}
	return result, nil
}

// Update replaces a comment's content. Only the author or an admin may edit.
func (service *Service) Update(context context.Context, caller *sec.Identity, id int64, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	comment, err := service.repository.Update(context, id, content, ownerGuard(caller))
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("comment_service_update_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "comment_updated",
		slog.Int64("comment_id", id),
		slog.Int64("actor_id", caller.ID),
	)

	return comment, nil
}

// Delete removes a comment. Only the author or an admin may delete.
func (service *Service) Delete(context context.Context, caller *sec.Identity, id int64) error {
	if err := service.repository.Delete(context, id, ownerGuard(caller)); err != nil {
		if apperr.IsAppError(err) {
			return err
		}
		return fmt.Errorf("comment_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "comment_deleted",
		slog.Int64("comment_id", id),
		slog.Int64("actor_id", caller.ID),
	)

	return nil
}

func ownerGuard(caller *sec.Identity) Guard {
	return func(current *Comment) error {
		if !sec.CanModify(caller, current.UserID) {
			return apperr.Forbidden(msgNotYourComment)
		}
		return nil
	}
}
