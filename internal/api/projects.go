package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ProjectsClient reads the public project catalogue.
type ProjectsClient struct {
	c *Client
}

// ListProjectsParams filters and paginates the public listing.
type ListProjectsParams struct {
	Tags      []string
	TechStack []string
	SortBy    string
	SortOrder string
	Search    string
	Page      int
	PerPage   int
}

// List fetches public projects matching params.
func (p *ProjectsClient) List(ctx context.Context, params ListProjectsParams) (*ProjectList, error) {
	values := url.Values{}
	for _, tag := range params.Tags {
		values.Add("tags", tag)
	}
	for _, tech := range params.TechStack {
		values.Add("tech_stack", tech)
	}
	if params.SortBy != "" {
		values.Set("sort_by", params.SortBy)
	}
	if params.SortOrder != "" {
		values.Set("sort_order", params.SortOrder)
	}
	if params.Search != "" {
		values.Set("search", params.Search)
	}
	if params.Page > 0 {
		values.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(params.PerPage))
	}

	endpoint := "/api/projects"
	if query := values.Encode(); query != "" {
		endpoint += "?" + query
	}
	var list ProjectList
	if err := p.c.get(ctx, endpoint, &list); err != nil {
		return nil, fmt.Errorf("projects.List: %w", err)
	}
	return &list, nil
}

// Get fetches a single public project.
func (p *ProjectsClient) Get(ctx context.Context, projectID string) (*Project, error) {
	var project Project
	if err := p.c.get(ctx, "/api/projects/"+url.PathEscape(projectID), &project); err != nil {
		return nil, fmt.Errorf("projects.Get: %w", err)
	}
	return &project, nil
}

// Featured fetches the curated featured set.
func (p *ProjectsClient) Featured(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := p.c.get(ctx, "/api/projects/featured", &projects); err != nil {
		return nil, fmt.Errorf("projects.Featured: %w", err)
	}
	return projects, nil
}

// Trending fetches currently trending projects.
func (p *ProjectsClient) Trending(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := p.c.get(ctx, "/api/projects/trending", &projects); err != nil {
		return nil, fmt.Errorf("projects.Trending: %w", err)
	}
	return projects, nil
}

// MyProjectsClient manages the authenticated user's own projects and images.
type MyProjectsClient struct {
	c *Client
}

// Create submits a new project.
func (m *MyProjectsClient) Create(ctx context.Context, data ProjectCreate) (*Project, error) {
	var project Project
	if err := m.c.do(ctx, http.MethodPost, "/api/my/projects", data, &project); err != nil {
		return nil, fmt.Errorf("myprojects.Create: %w", err)
	}
	return &project, nil
}

// List fetches the user's projects.
func (m *MyProjectsClient) List(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := m.c.get(ctx, "/api/my/projects", &projects); err != nil {
		return nil, fmt.Errorf("myprojects.List: %w", err)
	}
	return projects, nil
}

// Get fetches one of the user's projects.
func (m *MyProjectsClient) Get(ctx context.Context, projectID string) (*Project, error) {
	var project Project
	if err := m.c.get(ctx, "/api/my/projects/"+url.PathEscape(projectID), &project); err != nil {
		return nil, fmt.Errorf("myprojects.Get: %w", err)
	}
	return &project, nil
}

// Update edits one of the user's projects.
func (m *MyProjectsClient) Update(ctx context.Context, projectID string, data ProjectCreate) (*Project, error) {
	var project Project
	endpoint := "/api/my/projects/" + url.PathEscape(projectID)
	if err := m.c.do(ctx, http.MethodPut, endpoint, data, &project); err != nil {
		return nil, fmt.Errorf("myprojects.Update: %w", err)
	}
	return &project, nil
}

// Delete removes one of the user's projects.
func (m *MyProjectsClient) Delete(ctx context.Context, projectID string) error {
	endpoint := "/api/my/projects/" + url.PathEscape(projectID)
	if err := m.c.do(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("myprojects.Delete: %w", err)
	}
	return nil
}

// ImageUploadURL requests a presigned upload descriptor for a new image,
// scoped to the owning project.
func (m *MyProjectsClient) ImageUploadURL(ctx context.Context, projectID, filename, contentType string, fileSize int64) (*PresignedUpload, error) {
	body := map[string]any{
		"filename":     filename,
		"content_type": contentType,
		"file_size":    fileSize,
	}
	endpoint := "/api/my/projects/" + url.PathEscape(projectID) + "/images/upload-url"
	var presigned PresignedUpload
	if err := m.c.do(ctx, http.MethodPost, endpoint, body, &presigned); err != nil {
		return nil, fmt.Errorf("myprojects.ImageUploadURL: %w", err)
	}
	return &presigned, nil
}

// CompleteImageUpload confirms a finished transfer. Width and height are
// optional; zero values are omitted.
func (m *MyProjectsClient) CompleteImageUpload(ctx context.Context, projectID, imageID string, width, height int) (*ProjectImage, error) {
	body := map[string]any{}
	if width > 0 && height > 0 {
		body["width"] = width
		body["height"] = height
	}
	endpoint := "/api/my/projects/" + url.PathEscape(projectID) + "/images/" + url.PathEscape(imageID) + "/complete"
	var image ProjectImage
	if err := m.c.do(ctx, http.MethodPost, endpoint, body, &image); err != nil {
		return nil, fmt.Errorf("myprojects.CompleteImageUpload: %w", err)
	}
	return &image, nil
}

// DeleteImage removes an image from a project.
func (m *MyProjectsClient) DeleteImage(ctx context.Context, projectID, imageID string) error {
	endpoint := "/api/my/projects/" + url.PathEscape(projectID) + "/images/" + url.PathEscape(imageID)
	if err := m.c.do(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("myprojects.DeleteImage: %w", err)
	}
	return nil
}

// SetMainImage marks an image as the project's main image.
func (m *MyProjectsClient) SetMainImage(ctx context.Context, projectID, imageID string) (*ProjectImage, error) {
	endpoint := "/api/my/projects/" + url.PathEscape(projectID) + "/images/main"
	body := map[string]string{"image_id": imageID}
	var image ProjectImage
	if err := m.c.do(ctx, http.MethodPost, endpoint, body, &image); err != nil {
		return nil, fmt.Errorf("myprojects.SetMainImage: %w", err)
	}
	return &image, nil
}
