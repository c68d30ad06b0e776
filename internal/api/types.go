package api

import "time"

// Token is the response from the login endpoint.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// User is the authenticated user's profile.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Kennitala  string    `json:"kennitala,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserUpdate carries editable profile fields for PUT /api/auth/me.
type UserUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Kennitala string `json:"kennitala"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// VerifyEmailResponse reports whether the account is verified after a code
// submission.
type VerifyEmailResponse struct {
	IsVerified bool   `json:"is_verified"`
	Message    string `json:"message,omitempty"`
}

// ResendVerificationResponse acknowledges a resend request.
type ResendVerificationResponse struct {
	Message string `json:"message"`
}

// Tag labels a project.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TagCategory groups tags.
type TagCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TagGrouped is a category with its tags.
type TagGrouped struct {
	Category TagCategory `json:"category"`
	Tags     []Tag       `json:"tags"`
}

// TagSuggestRequest proposes a new tag for moderation.
type TagSuggestRequest struct {
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`
}

// TagWithCategory is a tag annotated with its category.
type TagWithCategory struct {
	Tag
	Category TagCategory `json:"category"`
}

// ProjectImage is the canonical record for an uploaded image.
type ProjectImage struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	IsMain bool   `json:"is_main"`
}

// Project is a submitted side project.
type Project struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	RepoURL      string         `json:"repo_url,omitempty"`
	DemoURL      string         `json:"demo_url,omitempty"`
	TechStack    []string       `json:"tech_stack,omitempty"`
	Tags         []Tag          `json:"tags,omitempty"`
	MainImageURL string         `json:"main_image_url,omitempty"`
	Images       []ProjectImage `json:"images,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ProjectCreate carries the writable fields of a project.
type ProjectCreate struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	RepoURL     string   `json:"repo_url,omitempty"`
	DemoURL     string   `json:"demo_url,omitempty"`
	TechStack   []string `json:"tech_stack,omitempty"`
	TagIDs      []string `json:"tag_ids,omitempty"`
}

// ProjectList is a paginated page of public projects.
type ProjectList struct {
	Projects []Project `json:"projects"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PerPage  int       `json:"per_page"`
}

// PresignedUpload describes where and how to transfer an image. The headers
// are dictated entirely by the storage backend and must be sent verbatim.
type PresignedUpload struct {
	ImageID   string            `json:"image_id"`
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
}

// Competition is a showcase competition.
type Competition struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Projects    []Project `json:"projects,omitempty"`
}

// CompetitionList wraps the competitions listing.
type CompetitionList struct {
	Competitions []Competition `json:"competitions"`
}

// ActiveOrRecent is the home-screen competition highlight.
type ActiveOrRecent struct {
	Competition *Competition `json:"competition"`
	IsActive    bool         `json:"is_active"`
}

// ReviewStatus is the lifecycle state of one reviewer's ranking for one
// competition. Once completed, the ranking is immutable server-side.
type ReviewStatus string

const (
	ReviewInProgress ReviewStatus = "in_progress"
	ReviewCompleted  ReviewStatus = "completed"
)

// ReviewCompetition summarizes a competition assigned to the reviewer.
type ReviewCompetition struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Deadline     time.Time    `json:"deadline"`
	Status       ReviewStatus `json:"status"`
	ProjectCount int          `json:"project_count"`
}

// ReviewCompetitionList wraps the reviewer's competition listing.
type ReviewCompetitionList struct {
	Competitions []ReviewCompetition `json:"competitions"`
}

// ReviewProject is one entry in a reviewer's ranking list. Rank is nil when
// the reviewer has not ranked the project yet.
type ReviewProject struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	MainImageURL string `json:"main_image_url,omitempty"`
	Rank         *int   `json:"rank,omitempty"`
}

// ReviewCompetitionDetail is the full review state for one competition.
type ReviewCompetitionDetail struct {
	Competition ReviewCompetition `json:"competition"`
	Projects    []ReviewProject   `json:"projects"`
	Status      ReviewStatus      `json:"status"`
}

// ReviewProjectDetail is the reviewer-facing project page.
type ReviewProjectDetail struct {
	Project
	Rank *int `json:"rank,omitempty"`
}

// PublicUserProfile is another user's public page.
type PublicUserProfile struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Bio       string    `json:"bio,omitempty"`
	Projects  []Project `json:"projects,omitempty"`
}
