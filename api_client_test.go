package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchProjectsBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("missing bearer token, got %q", got)
		}
		w.Write([]byte(`[{"id":1,"projectNumber":"PX-1","name":"Unit 1","status":"Active"}]`))
	}))
	defer server.Close()

	cfg := Config{APIBaseURL: server.URL, APIToken: "tok-1"}
	projects, err := FetchProjects(cfg)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(projects) != 1 || projects[0].ProjectNumber != "PX-1" {
		t.Fatalf("unexpected projects: %+v", projects)
	}
}

func TestFetchProjectsDataEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":2,"projectNumber":"PX-2","status":"Active"}]}`))
	}))
	defer server.Close()

	projects, err := FetchProjects(Config{APIBaseURL: server.URL})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(projects) != 1 || projects[0].ProjectNumber != "PX-2" {
		t.Fatalf("envelope response not decoded: %+v", projects)
	}
}

func TestFetchProjectsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	if _, err := FetchProjects(Config{APIBaseURL: server.URL}); err == nil {
		t.Fatalf("expected error on 403")
	}
}

func TestFetchProjectByNumber(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1,"projectNumber":"PX-1"},{"id":2,"projectNumber":"PX-2"}]`))
	}))
	defer server.Close()

	cfg := Config{APIBaseURL: server.URL}
	p, err := FetchProject(cfg, "PX-2")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if p.ID != 2 {
		t.Fatalf("wrong project: %+v", p)
	}

	if _, err := FetchProject(cfg, "PX-404"); err == nil {
		t.Fatalf("expected not-found error")
	}
}

func TestFetchScheduleResources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/manufacturing-bays":
			w.Write([]byte(`[{"id":1,"name":"Bay 1","teamId":10}]`))
		case "/api/manufacturing-schedules":
			w.Write([]byte(`[{"id":5,"bayId":1,"projectId":2,"endDate":"2024-12-31"}]`))
		case "/api/team-members":
			w.Write([]byte(`[{"id":9,"name":"Sam","bayId":1,"isActive":true,"hoursPerWeek":32}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	cfg := Config{APIBaseURL: server.URL}
	bays, err := FetchManufacturingBays(cfg)
	if err != nil || len(bays) != 1 || bays[0].TeamID != 10 {
		t.Fatalf("bays fetch wrong: %v %+v", err, bays)
	}
	schedules, err := FetchManufacturingSchedules(cfg)
	if err != nil || len(schedules) != 1 || schedules[0].ProjectID != 2 {
		t.Fatalf("schedules fetch wrong: %v %+v", err, schedules)
	}
	members, err := FetchTeamMembers(cfg)
	if err != nil || len(members) != 1 || members[0].HoursPerWeek != 32 {
		t.Fatalf("members fetch wrong: %v %+v", err, members)
	}
}
