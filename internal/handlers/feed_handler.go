package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mhasanr/linkup/backend/internal/cache"
	"github.com/mhasanr/linkup/backend/internal/repositories"
)

// FeedHandler serves the home feed: posts from users the caller follows
// plus their own, newest first, with a short-lived Redis cache in front.
type FeedHandler struct {
	postRepo   repositories.PostRepository
	followRepo repositories.FollowRepository
	feedCache  *cache.FeedCache
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(postRepo repositories.PostRepository, followRepo repositories.FollowRepository, feedCache *cache.FeedCache) *FeedHandler {
	return &FeedHandler{
		postRepo:   postRepo,
		followRepo: followRepo,
		feedCache:  feedCache,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}

// GetFeed returns a page of the caller's home feed
func (h *FeedHandler) GetFeed(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	offset, limit := parsePagination(c, 10)
	ctx := c.Request().Context()

	if posts, ok := h.feedCache.Get(ctx, userID, offset, limit); ok {
		return c.JSON(http.StatusOK, posts)
	}

	followingIDs, err := h.followRepo.GetFollowingIDs(userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	posts, err := h.postRepo.GetFeedPosts(userID, followingIDs, offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.feedCache.Set(ctx, userID, offset, limit, posts)
	return c.JSON(http.StatusOK, posts)
}
