package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

func TestCompetitionsEndpoints(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/competitions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, CompetitionList{Competitions: []Competition{{ID: "c1", Title: "Summer"}}})
	})
	mux.HandleFunc("/api/competitions/active-or-most-recent", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, ActiveOrRecent{
			Competition: &Competition{ID: "c1", Title: "Summer", EndsAt: time.Now().Add(time.Hour)},
			IsActive:    true,
		})
	})
	mux.HandleFunc("/api/competitions/c1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, Competition{ID: "c1", Title: "Summer"})
	})

	client := newTestClient(t, mux)
	ctx := context.Background()

	list, err := client.Competitions.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list.Competitions) != 1 || list.Competitions[0].ID != "c1" {
		t.Errorf("List = %+v", list)
	}

	active, err := client.Competitions.ActiveOrRecent(ctx)
	if err != nil {
		t.Fatalf("ActiveOrRecent: %v", err)
	}
	if active.Competition == nil || !active.IsActive {
		t.Errorf("ActiveOrRecent = %+v", active)
	}

	competition, err := client.Competitions.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if competition.Title != "Summer" {
		t.Errorf("Get title = %q", competition.Title)
	}
}

func TestTagsEndpoints(t *testing.T) {
	t.Parallel()

	var gotGroupedQuery string
	var gotSuggest TagSuggestRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags/grouped", func(w http.ResponseWriter, r *http.Request) {
		gotGroupedQuery = r.URL.RawQuery
		writeJSON(t, w, []TagGrouped{{
			Category: TagCategory{ID: "cat1", Name: "Language"},
			Tags:     []Tag{{ID: "t1", Name: "go"}},
		}})
	})
	mux.HandleFunc("/api/tags/suggest", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotSuggest); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		writeJSON(t, w, TagWithCategory{
			Tag:      Tag{ID: "t2", Name: gotSuggest.Name},
			Category: TagCategory{ID: gotSuggest.CategoryID},
		})
	})

	client := newTestClient(t, mux)
	ctx := context.Background()

	groups, err := client.Tags.Grouped(ctx, true)
	if err != nil {
		t.Fatalf("Grouped: %v", err)
	}
	if gotGroupedQuery != "with_projects=true" {
		t.Errorf("grouped query = %q", gotGroupedQuery)
	}
	if len(groups) != 1 || groups[0].Tags[0].Name != "go" {
		t.Errorf("Grouped = %+v", groups)
	}

	tag, err := client.Tags.Suggest(ctx, TagSuggestRequest{Name: "zig", CategoryID: "cat1"})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if gotSuggest.Name != "zig" || gotSuggest.CategoryID != "cat1" {
		t.Errorf("suggest payload = %+v", gotSuggest)
	}
	if tag.Name != "zig" {
		t.Errorf("Suggest tag = %+v", tag)
	}
}

func TestUsersPublicProfile(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/u1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, PublicUserProfile{ID: "u1", FirstName: "Jón"})
	})

	client := newTestClient(t, mux)
	profile, err := client.Users.PublicProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("PublicProfile: %v", err)
	}
	if profile.FirstName != "Jón" {
		t.Errorf("profile = %+v", profile)
	}
}
