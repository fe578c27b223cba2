package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultInsightModel = "claude-sonnet-4-5-20250929"

// InsightRequest is the payload sent to the narrative service: a compact
// project summary plus the full variance and impact sets.
type InsightRequest struct {
	ProjectNumber     string             `json:"projectNumber"`
	ProjectName       string             `json:"projectName"`
	Variances         []Variance         `json:"variances"`
	DepartmentImpacts []DepartmentImpact `json:"departmentImpacts"`
}

// fallbackInsight is returned whenever the narrative service cannot be
// reached or returns garbage, so the report always has an insights block.
func fallbackInsight() AIInsight {
	return AIInsight{
		Insights: []InsightEntry{
			{
				Severity: "warning",
				Text:     "Schedule variances detected across tracked milestones",
				Detail:   "Review the variance table and confirm recovery actions with the affected departments.",
			},
			{
				Severity: "danger",
				Text:     "Downstream department impacts require coordination",
				Detail:   "Critical and high impacts should be escalated at the next production meeting.",
			},
		},
		Confidence: 0.8,
		Summary:    "Automated analysis unavailable; baseline guidance generated from detected variances.",
	}
}

// FetchInsights asks the configured narrative provider for insights.
// It never returns an error: any transport, status, or parse failure
// resolves to the fixed fallback payload. The remote service is
// non-deterministic, so repeated calls with identical input may differ.
func FetchInsights(ctx context.Context, cfg Config, req InsightRequest) AIInsight {
	var (
		insight AIInsight
		err     error
	)
	switch cfg.InsightProvider {
	case "endpoint":
		insight, err = fetchInsightsEndpoint(ctx, cfg, req)
	case "anthropic":
		insight, err = fetchInsightsAnthropic(ctx, cfg, req)
	default:
		return fallbackInsight()
	}
	if err != nil {
		log.Printf("insights %s error: %v — using fallback", cfg.InsightProvider, err)
		return fallbackInsight()
	}
	if len(insight.Insights) == 0 {
		log.Printf("insights %s returned empty payload — using fallback", cfg.InsightProvider)
		return fallbackInsight()
	}
	return insight
}

func fetchInsightsEndpoint(ctx context.Context, cfg Config, payload InsightRequest) (AIInsight, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return AIInsight{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", cfg.InsightEndpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return AIInsight{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.APIToken)
	}

	resp, err := operationsHTTPClient.Do(req)
	if err != nil {
		return AIInsight{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return AIInsight{}, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return AIInsight{}, fmt.Errorf("insight endpoint returned %d: %s", resp.StatusCode, string(respBody))
	}

	var insight AIInsight
	if err := json.Unmarshal(respBody, &insight); err != nil {
		return AIInsight{}, fmt.Errorf("parsing insight response: %w", err)
	}
	return insight, nil
}

func fetchInsightsAnthropic(ctx context.Context, cfg Config, payload InsightRequest) (AIInsight, error) {
	client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey))

	model := cfg.InsightModel
	if model == "" {
		model = defaultInsightModel
	}

	systemPrompt, userPrompt := buildInsightPrompts(payload)
	log.Printf("insights anthropic model=%s variances=%d impacts=%d", model, len(payload.Variances), len(payload.DepartmentImpacts))

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return AIInsight{}, fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return parseInsightResponse(block.Text)
		}
	}
	return AIInsight{}, fmt.Errorf("no text content in Anthropic response")
}

func buildInsightPrompts(payload InsightRequest) (string, string) {
	systemPrompt := `You analyze manufacturing schedule variances and produce concise operational insights.

Respond with JSON only (no markdown):
{"insights": [{"severity": "warning", "text": "...", "detail": "..."}], "confidence": 0.9, "summary": "..."}

severity must be one of: info, warning, danger. confidence is between 0 and 1.
Limit to at most 5 insights. Keep text under 120 characters and detail under 300.`

	var b strings.Builder
	fmt.Fprintf(&b, "Project %s (%s)\n\nSchedule variances:\n", payload.ProjectNumber, payload.ProjectName)
	for _, v := range payload.Variances {
		state := "advanced"
		if v.IsDelayed {
			state = "delayed"
		}
		fmt.Fprintf(&b, "- %s: %s by %d days (%s -> %s)\n",
			v.DisplayName, state, v.DaysDifference,
			v.BaselineDate.Format("2006-01-02"), v.CurrentDate.Format("2006-01-02"))
	}
	b.WriteString("\nDepartment impacts:\n")
	for _, imp := range payload.DepartmentImpacts {
		fmt.Fprintf(&b, "- %s (%s): %s\n", imp.Department, imp.ImpactLevel, imp.Description)
	}
	return systemPrompt, b.String()
}

func parseInsightResponse(responseText string) (AIInsight, error) {
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	var insight AIInsight
	if err := json.Unmarshal([]byte(responseText), &insight); err != nil {
		truncated := responseText
		if len(truncated) > 512 {
			truncated = truncated[:512] + fmt.Sprintf("... [truncated, total_length=%d]", len(responseText))
		}
		return AIInsight{}, fmt.Errorf("parsing insight response: %w (truncated response: %s)", err, truncated)
	}
	if insight.Confidence < 0 || insight.Confidence > 1 {
		return AIInsight{}, fmt.Errorf("confidence %f out of range", insight.Confidence)
	}
	return insight, nil
}
