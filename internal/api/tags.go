package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// TagsClient reads and suggests project tags.
type TagsClient struct {
	c *Client
}

// Categories fetches all tag categories.
func (t *TagsClient) Categories(ctx context.Context) ([]TagCategory, error) {
	var categories []TagCategory
	if err := t.c.get(ctx, "/api/tags/categories", &categories); err != nil {
		return nil, fmt.Errorf("tags.Categories: %w", err)
	}
	return categories, nil
}

// Grouped fetches tags grouped by category. When withProjects is true, only
// tags in use by at least one project are returned.
func (t *TagsClient) Grouped(ctx context.Context, withProjects bool) ([]TagGrouped, error) {
	endpoint := "/api/tags/grouped"
	if withProjects {
		endpoint += "?with_projects=true"
	}
	var groups []TagGrouped
	if err := t.c.get(ctx, endpoint, &groups); err != nil {
		return nil, fmt.Errorf("tags.Grouped: %w", err)
	}
	return groups, nil
}

// Suggest proposes a new tag.
func (t *TagsClient) Suggest(ctx context.Context, req TagSuggestRequest) (*TagWithCategory, error) {
	var tag TagWithCategory
	if err := t.c.do(ctx, http.MethodPost, "/api/tags/suggest", req, &tag); err != nil {
		return nil, fmt.Errorf("tags.Suggest: %w", err)
	}
	return &tag, nil
}

// UsersClient reads public user profiles.
type UsersClient struct {
	c *Client
}

// PublicProfile fetches another user's public page.
func (u *UsersClient) PublicProfile(ctx context.Context, userID string) (*PublicUserProfile, error) {
	var profile PublicUserProfile
	if err := u.c.get(ctx, "/api/users/"+url.PathEscape(userID), &profile); err != nil {
		return nil, fmt.Errorf("users.PublicProfile: %w", err)
	}
	return &profile, nil
}
