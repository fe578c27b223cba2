package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// The operations API returns either a bare JSON array or a {"data": [...]}
// envelope depending on the resource version; decodeResourceList accepts
// both.
func decodeResourceList[T any](body []byte) ([]T, error) {
	var direct []T
	if err := json.Unmarshal(body, &direct); err == nil {
		return direct, nil
	}

	var wrapped struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return wrapped.Data, nil
}

func apiGet(cfg Config, path string) ([]byte, error) {
	req, err := http.NewRequest("GET", cfg.APIBaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.APIToken)
	}

	resp, err := operationsHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("operations API returned %d for %s: %s", resp.StatusCode, path, string(body))
	}
	return body, nil
}

func FetchProjects(cfg Config) ([]Project, error) {
	body, err := apiGet(cfg, "/api/projects")
	if err != nil {
		return nil, err
	}
	projects, err := decodeResourceList[Project](body)
	if err != nil {
		return nil, err
	}
	log.Printf("api fetch projects=%d", len(projects))
	return projects, nil
}

func FetchProject(cfg Config, projectNumber string) (Project, error) {
	projects, err := FetchProjects(cfg)
	if err != nil {
		return Project{}, err
	}
	for _, p := range projects {
		if p.ProjectNumber == projectNumber {
			return p, nil
		}
	}
	return Project{}, fmt.Errorf("project %s not found", projectNumber)
}

func FetchManufacturingBays(cfg Config) ([]ManufacturingBay, error) {
	body, err := apiGet(cfg, "/api/manufacturing-bays")
	if err != nil {
		return nil, err
	}
	bays, err := decodeResourceList[ManufacturingBay](body)
	if err != nil {
		return nil, err
	}
	log.Printf("api fetch bays=%d", len(bays))
	return bays, nil
}

func FetchManufacturingSchedules(cfg Config) ([]ManufacturingSchedule, error) {
	body, err := apiGet(cfg, "/api/manufacturing-schedules")
	if err != nil {
		return nil, err
	}
	schedules, err := decodeResourceList[ManufacturingSchedule](body)
	if err != nil {
		return nil, err
	}
	log.Printf("api fetch schedules=%d", len(schedules))
	return schedules, nil
}

func FetchTeamMembers(cfg Config) ([]TeamMember, error) {
	body, err := apiGet(cfg, "/api/team-members")
	if err != nil {
		return nil, err
	}
	members, err := decodeResourceList[TeamMember](body)
	if err != nil {
		return nil, err
	}
	log.Printf("api fetch members=%d", len(members))
	return members, nil
}
