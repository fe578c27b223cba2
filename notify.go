package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/slack-go/slack"
)

// NotifySweep posts the sweep summary to the alert channel, with a
// leading siren line when any project produced critical impacts.
func NotifySweep(api *slack.Client, channelID string, result SweepResult) {
	text := FormatSweepSummary(result)
	if len(result.Critical) > 0 {
		text = ":rotating_light: Critical department impacts detected\n" + text
	}
	_, _, err := api.PostMessage(channelID, slack.MsgOptionText(text, false))
	if err != nil {
		log.Printf("notify sweep post error: %v", err)
	}
}

// NotifyCriticalImpacts posts an escalation alert for one project's
// critical departments. No-op when there is nothing critical.
func NotifyCriticalImpacts(api *slack.Client, channelID string, result AssessmentResult) {
	if len(result.CriticalDepartments) == 0 {
		return
	}
	text := FormatCriticalAlert(result)
	_, _, err := api.PostMessage(channelID, slack.MsgOptionText(text, false))
	if err != nil {
		log.Printf("notify escalation post error: %v", err)
	}
}

// FormatCriticalAlert builds the escalation message body.
func FormatCriticalAlert(result AssessmentResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":rotating_light: *Project %s* has critical department impacts\n", result.ProjectNumber)
	fmt.Fprintf(&b, "Departments: %s\n", strings.Join(result.CriticalDepartments, ", "))
	fmt.Fprintf(&b, "Variances: %d (%d delayed), max delay %d days\n",
		result.VarianceCount, result.DelayedCount, result.MaxDelayDays)
	if result.ReportPath != "" {
		fmt.Fprintf(&b, "Report: %s", result.ReportPath)
	}
	return b.String()
}
