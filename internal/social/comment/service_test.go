// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campusconnect/internal/platform/apperr"
	"github.com/taibuivan/campusconnect/internal/platform/constants"
	"github.com/taibuivan/campusconnect/internal/platform/sec"
	"github.com/taibuivan/campusconnect/pkg/pagination"
)

// # Fakes

type memoryComments struct {
	mu         sync.Mutex
	postOwners map[int64]int64
	comments   map[int64]*Comment
	nextID     int64
	clock      time.Time
}

func newMemoryComments() *memoryComments {
	return &memoryComments{
		postOwners: map[int64]int64{},
		comments:   map[int64]*Comment{},
		nextID:     1,
		clock:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (store *memoryComments) Create(_ context.Context, comment *Comment) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.postOwners[comment.PostID]; !ok {
		return apperr.NotFound("Post")
	}
	store.clock = store.clock.Add(time.Minute)
	comment.ID = store.nextID
	store.nextID++
	comment.CreatedAt, comment.UpdatedAt = store.clock, store.clock
	copied := *comment
	store.comments[comment.ID] = &copied
	return nil
}

func (store *memoryComments) thread(postID int64) []*Comment {
	result := []*Comment{}
	for _, comment := range store.comments {
		if comment.PostID == postID {
			copied := *comment
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

func (store *memoryComments) ListByPost(_ context.Context, postID int64, params pagination.Params) ([]*Comment, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.postOwners[postID]; !ok {
		return nil, 0, apperr.NotFound("Post")
	}
	thread := store.thread(postID)
	start := min(params.Offset(), len(thread))
	end := min(start+params.Limit, len(thread))
	return thread[start:end], len(thread), nil
}

func (store *memoryComments) PostOwner(_ context.Context, postID int64) (int64, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	owner, ok := store.postOwners[postID]
	if !ok {
		return 0, apperr.NotFound("Post")
	}
	return owner, nil
}

func (store *memoryComments) Commenters(_ context.Context, postID int64) ([]*Commenter, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	result := []*Commenter{}
	for _, comment := range store.thread(postID) {
		result = append(result, &Commenter{ID: comment.UserID, Content: comment.Content, CreatedAt: comment.CreatedAt})
	}
	return result, nil
}

func (store *memoryComments) Update(_ context.Context, id int64, content string, guard Guard) (*Comment, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	current, ok := store.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	if err := guard(current); err != nil {
		return nil, err
	}
	current.Content = content
	copied := *current
	return &copied, nil
}

func (store *memoryComments) Delete(_ context.Context, id int64, guard Guard) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	current, ok := store.comments[id]
	if !ok {
		return apperr.NotFound("Comment")
	}
	if err := guard(current); err != nil {
		return err
	}
	delete(store.comments, id)
	return nil
}

type published struct {
	key     string
	payload any
}

type recordingPublisher struct {
	events []published
	err    error
}

func (publisher *recordingPublisher) Publish(_ context.Context, key string, payload any) error {
	if publisher.err != nil {
		return publisher.err
	}
	publisher.events = append(publisher.events, published{key: key, payload: payload})
	return nil
}

// # Fixture

var (
	owner    = &sec.Identity{ID: 5, RoleID: sec.RoleIDUser}
	stranger = &sec.Identity{ID: 6, RoleID: sec.RoleIDUser}
	admin    = &sec.Identity{ID: 1, RoleID: sec.RoleIDAdmin}
)

type fixture struct {
	service   *Service
	store     *memoryComments
	publisher *recordingPublisher
}

// newFixture seeds post 10 owned by owner.
func newFixture() *fixture {
	store := newMemoryComments()
	store.postOwners[10] = owner.ID
	publisher := &recordingPublisher{}
	return &fixture{service: NewService(store, publisher), store: store, publisher: publisher}
}

// # Tests

/*
TestCreate verifies trimming, event publication and the missing-post case.
*/
func TestCreate(t *testing.T) {
	f := newFixture()

	comment, err := f.service.Create(context.Background(), stranger, 10, "  nice post  ")
	require.NoError(t, err)
	assert.Equal(t, "nice post", comment.Content)
	assert.Equal(t, stranger.ID, comment.UserID)
	assert.Equal(t, int64(10), comment.PostID)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, constants.EventCommentCreated, f.publisher.events[0].key)
	assert.Equal(t, Created{CommentID: comment.ID, PostID: 10, UserID: stranger.ID}, f.publisher.events[0].payload)

	_, err = f.service.Create(context.Background(), stranger, 99, "hello")
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))

	_, err = f.service.Create(context.Background(), stranger, 10, "   ")
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	_, err = f.service.Create(context.Background(), stranger, 10, strings.Repeat("x", ContentMaxLength+1))
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
}

/*
TestCreate_PublishFailureIsBestEffort verifies a broker outage never fails the write.
*/
func TestCreate_PublishFailureIsBestEffort(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("broker down")

	comment, err := f.service.Create(context.Background(), owner, 10, "still saved")
	require.NoError(t, err)
	assert.Contains(t, f.store.comments, comment.ID)
}

/*
TestListByPost verifies newest-first ordering and paging.
*/
func TestListByPost(t *testing.T) {
	f := newFixture()
	for _, text := range []string{"first", "second", "third"} {
		_, err := f.service.Create(context.Background(), stranger, 10, text)
		require.NoError(t, err)
	}

	page, total, err := f.service.ListByPost(context.Background(), 10, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "third", page[0].Content)
	assert.Equal(t, "second", page[1].Content)

	page, _, err = f.service.ListByPost(context.Background(), 10, pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "first", page[0].Content)

	_, _, err = f.service.ListByPost(context.Background(), 42, pagination.Params{Page: 1, Limit: 2})
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
}

/*
TestCommenters verifies only the post owner may list commenters.
*/
func TestCommenters(t *testing.T) {
	f := newFixture()
	_, err := f.service.Create(context.Background(), stranger, 10, "hi")
	require.NoError(t, err)

	result, err := f.service.Commenters(context.Background(), owner, 10)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, stranger.ID, result[0].ID)

	for _, caller := range []*sec.Identity{stranger, admin} {
		_, err = f.service.Commenters(context.Background(), caller, 10)
		assert.True(t, apperr.HasCode(err, "FORBIDDEN"), caller.ID)
	}

	_, err = f.service.Commenters(context.Background(), owner, 404)
	assert.True(t, apperr.HasCode(err, "NOT_FOUND"))
}

/*
TestUpdateDelete_Ownership verifies author-or-admin on edit and delete.
*/
func TestUpdateDelete_Ownership(t *testing.T) {
	f := newFixture()
	comment, err := f.service.Create(context.Background(), stranger, 10, "original")
	require.NoError(t, err)

	// The post owner does not own other people's comments
	_, err = f.service.Update(context.Background(), owner, comment.ID, "hijacked")
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))
	assert.Equal(t, "original", f.store.comments[comment.ID].Content)

	updated, err := f.service.Update(context.Background(), stranger, comment.ID, " edited ")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = f.service.Update(context.Background(), admin, comment.ID, "moderated")
	require.NoError(t, err)

	_, err = f.service.Update(context.Background(), stranger, comment.ID, "")
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	assert.True(t, apperr.HasCode(f.service.Delete(context.Background(), owner, comment.ID), "FORBIDDEN"))
	require.NoError(t, f.service.Delete(context.Background(), admin, comment.ID))
	assert.True(t, apperr.HasCode(f.service.Delete(context.Background(), admin, comment.ID), "NOT_FOUND"))
}
