package tools

import (
	"context"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/domain/hiring"
)

// InterviewDetailsParams are the client-editable interview fields
type InterviewDetailsParams struct {
	DateTime    string `json:"date_time" jsonschema:"RFC 3339 start time"`
	Platform    string `json:"platform" jsonschema:"Google Meet, Zoom, Microsoft Teams or Other"`
	MeetingLink string `json:"meeting_link" jsonschema:"URL of the meeting"`
	Notes       string `json:"notes,omitempty" jsonschema:"Optional notes for the candidate"`
}

func (p InterviewDetailsParams) details() (domain.InterviewDetails, error) {
	at, err := time.Parse(time.RFC3339, p.DateTime)
	if err != nil {
		return domain.InterviewDetails{}, domain.Invalid("date_time must be RFC 3339: %v", err)
	}
	return domain.InterviewDetails{
		DateTime:    at,
		Platform:    domain.InterviewPlatform(p.Platform),
		MeetingLink: p.MeetingLink,
		Notes:       p.Notes,
	}, nil
}

// ScheduleInterviewParams defines the arguments for the schedule_interview tool
type ScheduleInterviewParams struct {
	ActorID       string                 `json:"actor_id" jsonschema:"User id of a client of the job's organization or an admin"`
	ApplicationID string                 `json:"application_id" jsonschema:"Application to interview"`
	Details       InterviewDetailsParams `json:"details" jsonschema:"When and where the interview takes place"`
}

// UpdateInterviewParams defines the arguments for the update_interview tool
type UpdateInterviewParams struct {
	ActorID     string                  `json:"actor_id" jsonschema:"Candidate of the application, or a client of its organization"`
	InterviewID string                  `json:"interview_id" jsonschema:"Interview to update"`
	Status      string                  `json:"status" jsonschema:"Reschedule Requested, Declined by Candidate, Scheduled, Completed or Cancelled by Client"`
	Details     *InterviewDetailsParams `json:"details,omitempty" jsonschema:"New details, required when rescheduling to Scheduled"`
}

// CancelInterviewParams defines the arguments for the cancel_interview tool
type CancelInterviewParams struct {
	ActorID     string `json:"actor_id" jsonschema:"User id of a client of the job's organization or an admin"`
	InterviewID string `json:"interview_id" jsonschema:"Interview to cancel"`
}

type interviewTools struct {
	svc *hiring.Service
}

// WithInterviewTools registers schedule_interview, update_interview and cancel_interview
func WithInterviewTools(svc *hiring.Service) Option {
	return func(reg *registry) {
		t := interviewTools{svc: svc}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "schedule_interview",
			Description: "Schedule an interview for an application that has no open interview",
		}, t.schedule)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "update_interview",
			Description: "Request a reschedule, decline, reschedule, complete or cancel an interview",
		}, t.update)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "cancel_interview",
			Description: "Cancel an open interview on behalf of the client",
		}, t.cancel)
	}
}

func (t interviewTools) schedule(ctx context.Context, _ *sdkmcp.CallToolRequest, params *ScheduleInterviewParams) (*sdkmcp.CallToolResult, any, error) {
	details, err := params.Details.details()
	if err != nil {
		return nil, nil, toolError("schedule_interview", err)
	}
	iv, err := t.svc.ScheduleInterview(ctx, params.ActorID, params.ApplicationID, details)
	if err != nil {
		return nil, nil, toolError("schedule_interview", err)
	}

	msg := fmt.Sprintf("[schedule_interview] interview %s on %s via %s", iv.ID, iv.DateTime.Format(time.RFC3339), iv.Platform)
	return textResult(msg), iv, nil
}

func (t interviewTools) update(ctx context.Context, _ *sdkmcp.CallToolRequest, params *UpdateInterviewParams) (*sdkmcp.CallToolResult, any, error) {
	var details *domain.InterviewDetails
	if params.Details != nil {
		d, err := params.Details.details()
		if err != nil {
			return nil, nil, toolError("update_interview", err)
		}
		details = &d
	}
	iv, err := t.svc.UpdateInterview(ctx, params.ActorID, params.InterviewID, domain.InterviewStatus(params.Status), details)
	if err != nil {
		return nil, nil, toolError("update_interview", err)
	}

	msg := fmt.Sprintf("[update_interview] interview %s is %s", iv.ID, iv.Status)
	return textResult(msg), iv, nil
}

func (t interviewTools) cancel(ctx context.Context, _ *sdkmcp.CallToolRequest, params *CancelInterviewParams) (*sdkmcp.CallToolResult, any, error) {
	iv, err := t.svc.CancelInterview(ctx, params.ActorID, params.InterviewID)
	if err != nil {
		return nil, nil, toolError("cancel_interview", err)
	}
	return textResult(fmt.Sprintf("[cancel_interview] interview %s is %s", iv.ID, iv.Status)), iv, nil
}
