package api

import (
	"context"
	"fmt"
	"net/url"
)

// CompetitionsClient reads the public competition catalogue.
type CompetitionsClient struct {
	c *Client
}

// List fetches competition overviews.
func (cc *CompetitionsClient) List(ctx context.Context) (*CompetitionList, error) {
	var list CompetitionList
	if err := cc.c.get(ctx, "/api/competitions", &list); err != nil {
		return nil, fmt.Errorf("competitions.List: %w", err)
	}
	return &list, nil
}

// ListWithProjects fetches competitions with their project lists embedded.
func (cc *CompetitionsClient) ListWithProjects(ctx context.Context) (*CompetitionList, error) {
	var list CompetitionList
	if err := cc.c.get(ctx, "/api/competitions/with-projects", &list); err != nil {
		return nil, fmt.Errorf("competitions.ListWithProjects: %w", err)
	}
	return &list, nil
}

// Get fetches a single competition.
func (cc *CompetitionsClient) Get(ctx context.Context, competitionID string) (*Competition, error) {
	var competition Competition
	if err := cc.c.get(ctx, "/api/competitions/"+url.PathEscape(competitionID), &competition); err != nil {
		return nil, fmt.Errorf("competitions.Get: %w", err)
	}
	return &competition, nil
}

// ActiveOrRecent fetches the active competition, or the most recent one when
// none is running.
func (cc *CompetitionsClient) ActiveOrRecent(ctx context.Context) (*ActiveOrRecent, error) {
	var out ActiveOrRecent
	if err := cc.c.get(ctx, "/api/competitions/active-or-most-recent", &out); err != nil {
		return nil, fmt.Errorf("competitions.ActiveOrRecent: %w", err)
	}
	return &out, nil
}
