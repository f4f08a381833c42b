package services

import (
	"sync"
	"testing"

	"github.com/mhasanr/linkup/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndDeletePost(t *testing.T) {
	db := newTestDB(t)
	svc := newEngagementService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	post, err := svc.CreatePost(alice.ID, &models.CreatePostRequest{Caption: "first"})
	require.NoError(t, err)
	assert.Equal(t, 1, reloadUser(t, db, alice.ID).PostsCount)

	t.Run("only the author can delete", func(t *testing.T) {
		err := svc.DeletePost(bob.ID, post.ID)
		requireAppErrorCode(t, err, models.CodePermissionDenied)
	})

	t.Run("delete removes engagement rows and decrements posts_count", func(t *testing.T) {
		_, _, err := svc.TogglePostLike(bob.ID, post.ID)
		require.NoError(t, err)
		comment, err := svc.AddComment(bob.ID, post.ID, &models.CreateCommentRequest{Text: "nice"})
		require.NoError(t, err)
		_, _, err = svc.ToggleCommentLike(alice.ID, comment.ID)
		require.NoError(t, err)
		_, err = svc.ToggleSavePost(bob.ID, post.ID)
		require.NoError(t, err)

		require.NoError(t, svc.DeletePost(alice.ID, post.ID))
		assert.Zero(t, reloadUser(t, db, alice.ID).PostsCount)

		for _, model := range []interface{}{&models.Like{}, &models.Comment{}, &models.SavedPost{}} {
			var count int64
			require.NoError(t, db.Model(model).Where("post_id = ?", post.ID).Count(&count).Error)
			assert.Zero(t, count)
		}
		var likeRows int64
		require.NoError(t, db.Model(&models.CommentLike{}).Where("comment_id = ?", comment.ID).Count(&likeRows).Error)
		assert.Zero(t, likeRows, "likes on the post's comments go with the post")
	})
}

func TestTogglePostLike(t *testing.T) {
	db := newTestDB(t)
	svc := newEngagementService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID)

	t.Run("rejects unknown post", func(t *testing.T) {
		_, _, err := svc.TogglePostLike(bob.ID, 9999)
		requireAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("like then unlike keeps likes_count in step", func(t *testing.T) {
		liked, likesCount, err := svc.TogglePostLike(bob.ID, post.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, 1, likesCount)

		var got models.Post
		require.NoError(t, db.First(&got, post.ID).Error)
		assert.Equal(t, 1, got.LikesCount)

		liked, likesCount, err = svc.TogglePostLike(bob.ID, post.ID)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Zero(t, likesCount)

		require.NoError(t, db.First(&got, post.ID).Error)
		assert.Zero(t, got.LikesCount)
	})

	t.Run("independent likers each count once", func(t *testing.T) {
		_, _, err := svc.TogglePostLike(alice.ID, post.ID)
		require.NoError(t, err)
		_, _, err = svc.TogglePostLike(bob.ID, post.ID)
		require.NoError(t, err)

		var got models.Post
		require.NoError(t, db.First(&got, post.ID).Error)
		assert.Equal(t, 2, got.LikesCount)
	})
}

func TestTogglePostLikeConcurrent(t *testing.T) {
	db := newTestDB(t)
	svc := newEngagementService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID)

	const toggles = 10
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = svc.TogglePostLike(bob.ID, post.ID)
		}()
	}
	wg.Wait()

	// Whatever the interleaving, the counter must equal the rows.
	var rows int64
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&rows).Error)
	var got models.Post
	require.NoError(t, db.First(&got, post.ID).Error)
	assert.Equal(t, rows, int64(got.LikesCount))
	assert.LessOrEqual(t, rows, int64(1))
}

func TestAddComment(t *testing.T) {
	db := newTestDB(t)
	svc := newEngagementService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID)
	otherPost := createTestPost(t, db, alice.ID)

	t.Run("comment increments comments_count", func(t *testing.T) {
		comment, err := svc.AddComment(bob.ID, post.ID, &models.CreateCommentRequest{Text: "nice"})
		require.NoError(t, err)
		assert.Nil(t, comment.ParentID)

		var got models.Post
		require.NoError(t, db.First(&got, post.ID).Error)
		assert.Equal(t, 1, got.CommentsCount)
	})

	t.Run("replies count toward comments_count", func(t *testing.T) {
		var parent models.Comment
		require.NoError(t, db.Where("post_id = ?", post.ID).First(&parent).Error)

		reply, err := svc.AddComment(alice.ID, post.ID, &models.CreateCommentRequest{Text: "thanks", ParentID: &parent.ID})
		require.NoError(t, err)
		require.NotNil(t, reply.ParentID)
		assert.Equal(t, parent.ID, *reply.ParentID)

		var got models.Post
		require.NoError(t, db.First(&got, post.ID).Error)
		assert.Equal(t, 2, got.CommentsCount)
	})

	t.Run("rejects a parent from a different post", func(t *testing.T) {
		var parent models.Comment
		require.NoError(t, db.Where("post_id = ?", post.ID).First(&parent).Error)

		_, err := svc.AddComment(bob.ID, otherPost.ID, &models.CreateCommentRequest{Text: "stray", ParentID: &parent.ID})
		requireAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("rejects an unknown parent", func(t *testing.T) {
		missing := uint(9999)
		_, err := svc.AddComment(bob.ID, post.ID, &models.CreateCommentRequest{Text: "stray", ParentID: &missing})
		requireAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestDeleteComment(t *testing.T) {
	db := newTestDB(t)
	svc := newEngagementService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID)

	parent, err := svc.AddComment(bob.ID, post.ID, &models.CreateCommentRequest{Text: "parent"})
	require.NoError(t, err)
	reply, err := svc.AddComment(alice.ID, post.ID, &models.CreateCommentRequest{Text: "reply one", ParentID: &parent.ID})
	require.NoError(t, err)
	_, err = svc.AddComment(alice.ID, post.ID, &models.CreateCommentRequest{Text: "reply two", ParentID: &parent.ID})
	require.NoError(t, err)
	deep, err := svc.AddComment(bob.ID, post.ID, &models.CreateCommentRequest{Text: "deep", ParentID: &reply.ID})
	require.NoError(t, err)

	_, _, err = svc.ToggleCommentLike(alice.ID, parent.ID)
	require.NoError(t, err)
	_, _, err = svc.ToggleCommentLike(bob.ID, reply.ID)
	require.NoError(t, err)
	_, _, err = svc.ToggleCommentLike(alice.ID, deep.ID)
	require.NoError(t, err)

	t.Run("only the author can delete", func(t *testing.T) {
		err := svc.DeleteComment(alice.ID, parent.ID)
		requireAppErrorCode(t, err, models.CodePermissionDenied)
	})

	t.Run("deleting a parent removes the whole subtree but subtracts one", func(t *testing.T) {
		require.NoError(t, svc.DeleteComment(bob.ID, parent.ID))

		var rows int64
		require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&rows).Error)
		assert.Zero(t, rows, "grandchild replies are deleted with the subtree")

		var likeRows int64
		require.NoError(t, db.Model(&models.CommentLike{}).Count(&likeRows).Error)
		assert.Zero(t, likeRows, "likes on removed replies are deleted too")

		var got models.Post
		require.NoError(t, db.First(&got, post.ID).Error)
		assert.Equal(t, 3, got.CommentsCount, "cascade-deleted replies are not subtracted")
	})
}

func TestToggleCommentLike(t *testing.T) {
	db := newTestDB(t)
	svc := newEngagementService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID)

	comment, err := svc.AddComment(alice.ID, post.ID, &models.CreateCommentRequest{Text: "hello"})
	require.NoError(t, err)

	t.Run("rejects unknown comment", func(t *testing.T) {
		_, _, err := svc.ToggleCommentLike(bob.ID, 9999)
		requireAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("like then unlike keeps likes_count in step", func(t *testing.T) {
		liked, likesCount, err := svc.ToggleCommentLike(bob.ID, comment.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, 1, likesCount)

		var got models.Comment
		require.NoError(t, db.First(&got, comment.ID).Error)
		assert.Equal(t, 1, got.LikesCount)

		liked, likesCount, err = svc.ToggleCommentLike(bob.ID, comment.ID)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Zero(t, likesCount)

		require.NoError(t, db.First(&got, comment.ID).Error)
		assert.Zero(t, got.LikesCount)
	})
}

func TestToggleSavePost(t *testing.T) {
	db := newTestDB(t)
	svc := newEngagementService(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	post := createTestPost(t, db, alice.ID)

	saved, err := svc.ToggleSavePost(bob.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = svc.ToggleSavePost(bob.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	var rows int64
	require.NoError(t, db.Model(&models.SavedPost{}).Count(&rows).Error)
	assert.Zero(t, rows)
}
