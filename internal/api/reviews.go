package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ReviewsClient covers the peer-review workflow: the reviewer's assigned
// competitions, per-competition rankings, and the completion transition.
type ReviewsClient struct {
	c *Client
}

// Competitions fetches the competitions assigned to the reviewer.
func (r *ReviewsClient) Competitions(ctx context.Context) (*ReviewCompetitionList, error) {
	var list ReviewCompetitionList
	if err := r.c.get(ctx, "/api/my/reviews/competitions", &list); err != nil {
		return nil, fmt.Errorf("reviews.Competitions: %w", err)
	}
	return &list, nil
}

// Competition fetches the full review state for one competition.
func (r *ReviewsClient) Competition(ctx context.Context, competitionID string) (*ReviewCompetitionDetail, error) {
	var detail ReviewCompetitionDetail
	endpoint := "/api/my/reviews/competitions/" + url.PathEscape(competitionID)
	if err := r.c.get(ctx, endpoint, &detail); err != nil {
		return nil, fmt.Errorf("reviews.Competition: %w", err)
	}
	return &detail, nil
}

// Project fetches the reviewer-facing detail page for a project under review.
func (r *ReviewsClient) Project(ctx context.Context, projectID string) (*ReviewProjectDetail, error) {
	var detail ReviewProjectDetail
	endpoint := "/api/my/reviews/projects/" + url.PathEscape(projectID)
	if err := r.c.get(ctx, endpoint, &detail); err != nil {
		return nil, fmt.Errorf("reviews.Project: %w", err)
	}
	return &detail, nil
}

// UpdateRankings persists the reviewer's full preference order. The slice is
// the complete ordered list of project ids, best first.
func (r *ReviewsClient) UpdateRankings(ctx context.Context, competitionID string, projectIDs []string) (*ReviewCompetitionDetail, error) {
	endpoint := "/api/my/reviews/competitions/" + url.PathEscape(competitionID) + "/rankings"
	body := map[string][]string{"project_ids": projectIDs}
	var detail ReviewCompetitionDetail
	if err := r.c.do(ctx, http.MethodPut, endpoint, body, &detail); err != nil {
		return nil, fmt.Errorf("reviews.UpdateRankings: %w", err)
	}
	return &detail, nil
}

// UpdateStatus transitions the review lifecycle, normally to completed.
func (r *ReviewsClient) UpdateStatus(ctx context.Context, competitionID string, status ReviewStatus) error {
	endpoint := "/api/my/reviews/competitions/" + url.PathEscape(competitionID) + "/status"
	body := map[string]ReviewStatus{"status": status}
	if err := r.c.do(ctx, http.MethodPut, endpoint, body, nil); err != nil {
		return fmt.Errorf("reviews.UpdateStatus: %w", err)
	}
	return nil
}
