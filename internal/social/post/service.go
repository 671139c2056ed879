// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package post

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/internal/platform/constants"
	"github.com/taibuivan/campusconnect/internal/platform/ctxutil"
	"github.com/taibuivan/campusconnect/internal/platform/events"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
	"github.com/taibuivan/campusconnect/internal/platform/storage"
	"github.com/taibuivan/campusconnect/internal/platform/validate"
)

const (
	msgNotYourPost   = "You are not authorized to modify this post"
	msgMediaType     = "Only image and video files are allowed"
	msgMediaTooLarge = "Maximum 25 MiB"
)

// Created is the payload of the post.created event.
type Created struct {
	PostID   int64  `json:"postId"`
	UserID   int64  `json:"userId"`
	Title    string `json:"title"`
	HasMedia bool   `json:"hasMedia"`
}

// # Service Layer

// Service orchestrates the post use cases.
type Service struct {
	repository Repository
	uploader   storage.Uploader
	publisher  events.Publisher
}

// NewService constructs a post [Service].
func NewService(repo Repository, uploader storage.Uploader, publisher events.Publisher) *Service {
	return &Service{repository: repo, uploader: uploader, publisher: publisher}
}

// # Input Types

// CreateInput holds a new post. Media is optional.
type CreateInput struct {
	Title   string
	Content string
	Media   *Media
}

// UpdateInput replaces title and content.
//
// A new Media replaces the image. Without media, a present ImageURL field keeps
// the current image when non-empty and clears it when empty; an absent field
// (nil) keeps it.
type UpdateInput struct {
	Title    string
	Content  string
	Media    *Media
	ImageURL *string
}

func validateText(validator *validate.Validator, title, content string) {
	validator.
		Required(FieldTitle, title).
		MaxLen(FieldTitle, title, TitleMaxLength).
		Required(FieldContent, content).
		MaxLen(FieldContent, content, ContentMaxLength)
}

func validateMedia(validator *validate.Validator, media *Media) {
	if media == nil {
		return
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(media.ContentType, ";")[0]))
	validator.
		Custom(FieldImage, !slices.Contains(AllowedMediaTypes, contentType), msgMediaType).
		Custom(FieldImage, media.Size > constants.MaxUploadBytes, msgMediaTooLarge)
}

// # Use Cases

/*
Create uploads the optional media and stores a new post owned by caller.

Parameters:
  - context: context.Context
  - caller: *sec.Identity
  - input: CreateInput

Returns:
  - *Post: Created post
  - error: Validation, ServiceUnavailable (storage disabled) or storage errors
*/
func (service *Service) Create(context context.Context, caller *sec.Identity, input CreateInput) (*Post, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)

	validator := &validate.Validator{}
	validateText(validator, input.Title, input.Content)
	validateMedia(validator, input.Media)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	post := &Post{UserID: caller.ID, Title: input.Title, Content: input.Content}

	var uploadedKey string
	if input.Media != nil {
		key, url, err := service.upload(context, input.Media)
		if err != nil {
			return nil, err
		}
		uploadedKey = key
		post.ImageURL = &url
	}

	if err := service.repository.Create(context, post); err != nil {
		service.discard(context, uploadedKey)
		return nil, fmt.Errorf("post_service_create_failed: %w", err)
	}

	logger := ctxutil.GetLogger(context)
	logger.InfoContext(context, "post_created",
		slog.Int64("post_id", post.ID),
		slog.Int64("user_id", caller.ID),
	)

	event := Created{PostID: post.ID, UserID: caller.ID, Title: post.Title, HasMedia: post.ImageURL != nil}
	if err := service.publisher.Publish(context, constants.EventPostCreated, event); err != nil {
		logger.WarnContext(context, "post_event_publish_failed", slog.Any("error", err))
	}

	return post, nil
}

// Feed returns every post with authors and comments, newest first.
func (service *Service) Feed(context context.Context) ([]*FeedPost, error) {
	feed, err := service.repository.Feed(context, nil)
	if err != nil {
		return nil, fmt.Errorf("post_service_feed_failed: %w", err)
	}
	return feed, nil
}

// Mine returns the caller's own posts with comments.
func (service *Service) Mine(context context.Context, caller *sec.Identity) ([]*FeedPost, error) {
	feed, err := service.repository.Feed(context, &caller.ID)
	if err != nil {
		return nil, fmt.Errorf("post_service_mine_failed: %w", err)
	}
	return feed, nil
}

// ByUser returns the posts of one user without comments.
func (service *Service) ByUser(context context.Context, userID int64) ([]*Post, error) {
	result, err := service.repository.ListByUser(context, userID)
	if err != nil {
		return nil, fmt.Errorf("post_service_by_user_failed: %w", err)
	}
	return result, nil
}

/*
Update replaces a post's text and optionally its media.

Description: Ownership is pre-checked before any upload so strangers cannot
push objects into the bucket, then re-checked against the locked row inside
the update transaction.

Parameters:
  - context: context.Context
  - caller: *sec.Identity
  - id: int64
  - input: UpdateInput

Returns:
  - *Post: Updated post
  - error: Validation, NotFound, Forbidden or storage errors
*/
func (service *Service) Update(context context.Context, caller *sec.Identity, id int64, input UpdateInput) (*Post, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)

	validator := &validate.Validator{}
	validateText(validator, input.Title, input.Content)
	validateMedia(validator, input.Media)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	patch := Patch{Title: input.Title, Content: input.Content}
	var uploadedKey string

	switch {
	case input.Media != nil:
		existing, err := service.repository.FindByID(context, id)
		if err != nil {
			return nil, err
		}
		if err := ownerGuard(caller)(existing); err != nil {
			return nil, err
		}

		key, url, err := service.upload(context, input.Media)
		if err != nil {
			return nil, err
		}
		uploadedKey = key
		patch.Image, patch.ImageURL = ImageReplace, url

	case input.ImageURL != nil && strings.TrimSpace(*input.ImageURL) == "":
		patch.Image = ImageClear
	}

	post, err := service.repository.Update(context, id, patch, ownerGuard(caller))
	if err != nil {
		service.discard(context, uploadedKey)
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("post_service_update_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "post_updated",
		slog.Int64("post_id", id),
		slog.Int64("actor_id", caller.ID),
	)

	return post, nil
}

// Delete removes a post and its comments. Only the owner or an admin may delete.
func (service *Service) Delete(context context.Context, caller *sec.Identity, id int64) error {
	if err := service.repository.Delete(context, id, ownerGuard(caller)); err != nil {
		if apperr.IsAppError(err) {
			return err
		}
		return fmt.Errorf("post_service_delete_failed: %w", err)
	}

	ctxutil.GetLogger(context).InfoContext(context, "post_deleted",
		slog.Int64("post_id", id),
		slog.Int64("actor_id", caller.ID),
	)

	return nil
}

// # Helpers

func ownerGuard(caller *sec.Identity) Guard {
	return func(current *Post) error {
		if !sec.CanModify(caller, current.UserID) {
			return apperr.Forbidden(msgNotYourPost)
		}
		return nil
	}
}

func (service *Service) upload(context context.Context, media *Media) (key, url string, err error) {
	key = storage.ObjectKey(constants.MediaKeyPrefix, media.Filename)

	url, err = service.uploader.Upload(context, key, media.Body, media.Size, media.ContentType)
	if err != nil {
		if apperr.IsAppError(err) {
			return "", "", err
		}
		return "", "", fmt.Errorf("post_service_upload_failed: %w", err)
	}

	return key, url, nil
}

// discard removes an object whose post row was never written.
func (service *Service) discard(context context.Context, key string) {
	if key == "" {
		return
	}
	if err := service.uploader.Remove(context, key); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "post_media_orphaned",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}
