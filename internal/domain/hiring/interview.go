package hiring

import (
	"context"
	"fmt"
	"strings"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/domain/identity"
	"github.com/honeycarbs/plugplayers/internal/lock"
)

// interviewScope is everything an interview transition reads under the
// application lock
type interviewScope struct {
	interview domain.Interview
	app       domain.Application
	job       domain.Job
	cand      domain.Candidate
}

func validateDetails(d domain.InterviewDetails) error {
	if d.DateTime.IsZero() {
		return domain.Invalid("interview date and time are required")
	}
	if !d.Platform.Valid() {
		return domain.Invalid("unknown interview platform %q", d.Platform)
	}
	if strings.TrimSpace(d.MeetingLink) == "" {
		return domain.Invalid("meeting link is required")
	}
	return nil
}

// ScheduleInterview books a new interview for an application. An application
// holds at most one Scheduled or Reschedule Requested interview at a time
func (s *Service) ScheduleInterview(ctx context.Context, actorID, applicationID string, details domain.InterviewDetails) (domain.Interview, error) {
	if err := validateDetails(details); err != nil {
		return domain.Interview{}, err
	}

	var sc interviewScope
	err := s.run(ctx, "schedule_interview", func(ctx context.Context) error {
		actor, err := s.dir.User(ctx, actorID)
		if err != nil {
			return err
		}

		return s.locks.WithLock(ctx, lock.Key("application", applicationID), func(ctx context.Context) error {
			if sc.app, err = load(ctx, s.repos.Applications, "application", applicationID); err != nil {
				return err
			}
			if sc.job, err = load(ctx, s.repos.Jobs, "job", sc.app.JobID); err != nil {
				return err
			}
			if !identity.CanActForOrg(actor, sc.job.OrganizationID) {
				return domain.Unauthorized("user %s cannot schedule interviews for organization %s", actorID, sc.job.OrganizationID)
			}
			if sc.app.Status == domain.ApplicationHired || sc.app.Status == domain.ApplicationRejected {
				return domain.InvalidState("application %s is %s", applicationID, sc.app.Status)
			}

			_, busy, err := s.repos.Interviews.Find(ctx, func(iv domain.Interview) bool {
				return iv.ApplicationID == applicationID && iv.Status.Active()
			})
			if err != nil {
				return fmt.Errorf("hiring: find interviews: %w", err)
			}
			if busy {
				return domain.InvalidState("application %s already has an interview in progress", applicationID)
			}

			if sc.cand, err = load(ctx, s.repos.Candidates, "candidate", sc.app.CandidateID); err != nil {
				return err
			}

			sc.interview = domain.Interview{
				ID:               s.newID(),
				ApplicationID:    applicationID,
				Status:           domain.InterviewScheduled,
				InterviewDetails: details,
			}
			if err := s.repos.Interviews.Create(ctx, sc.interview); err != nil {
				return fmt.Errorf("hiring: create interview: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return domain.Interview{}, err
	}

	s.recorder.Transition("interview", string(sc.interview.Status))
	s.logger.Info("interview scheduled", "interview_id", sc.interview.ID, "application_id", applicationID)
	s.notifyCandidate(ctx, sc.cand, domain.NotificationInterviewScheduled,
		fmt.Sprintf("You have a new interview for %s with %s.", sc.job.Title, sc.job.OrganizationName),
		"/candidate/interviews")
	return sc.interview, nil
}

// UpdateInterview applies one interview transition. Candidates may request a
// reschedule or decline; clients may reschedule with new details, complete or
// cancel. Completed, Cancelled by Client and Declined by Candidate are final
func (s *Service) UpdateInterview(ctx context.Context, actorID, interviewID string, status domain.InterviewStatus, details *domain.InterviewDetails) (domain.Interview, error) {
	var sc interviewScope
	err := s.run(ctx, "update_interview", func(ctx context.Context) error {
		actor, err := s.dir.User(ctx, actorID)
		if err != nil {
			return err
		}
		current, err := load(ctx, s.repos.Interviews, "interview", interviewID)
		if err != nil {
			return err
		}

		return s.locks.WithLock(ctx, lock.Key("application", current.ApplicationID), func(ctx context.Context) error {
			if sc, err = s.loadInterviewScope(ctx, interviewID); err != nil {
				return err
			}
			if sc.interview.Status.Terminal() {
				return domain.InvalidState("interview %s is %s", interviewID, sc.interview.Status)
			}
			if err := s.checkInterviewTransition(actor, sc, status, details); err != nil {
				return err
			}

			sc.interview, err = save(ctx, s.repos.Interviews, "interview", interviewID, func(iv *domain.Interview) error {
				iv.Status = status
				if status == domain.InterviewScheduled {
					iv.InterviewDetails = *details
				}
				return nil
			})
			return err
		})
	})
	if err != nil {
		return domain.Interview{}, err
	}

	s.recorder.Transition("interview", string(status))
	s.logger.Info("interview updated", "interview_id", interviewID, "status", status, "actor_id", actorID)
	s.notifyInterviewChange(ctx, sc)
	return sc.interview, nil
}

// CancelInterview is the client's cancellation of an open interview
func (s *Service) CancelInterview(ctx context.Context, actorID, interviewID string) (domain.Interview, error) {
	return s.UpdateInterview(ctx, actorID, interviewID, domain.InterviewCancelledByClient, nil)
}

func (s *Service) loadInterviewScope(ctx context.Context, interviewID string) (interviewScope, error) {
	var (
		sc  interviewScope
		err error
	)
	if sc.interview, err = load(ctx, s.repos.Interviews, "interview", interviewID); err != nil {
		return sc, err
	}
	if sc.app, err = load(ctx, s.repos.Applications, "application", sc.interview.ApplicationID); err != nil {
		return sc, err
	}
	if sc.job, err = load(ctx, s.repos.Jobs, "job", sc.app.JobID); err != nil {
		return sc, err
	}
	if sc.cand, err = load(ctx, s.repos.Candidates, "candidate", sc.app.CandidateID); err != nil {
		return sc, err
	}
	return sc, nil
}

func (s *Service) checkInterviewTransition(actor domain.User, sc interviewScope, to domain.InterviewStatus, details *domain.InterviewDetails) error {
	from := sc.interview.Status
	isCandidate := actor.Role == domain.RoleCandidate && sc.cand.UserID != "" && actor.ID == sc.cand.UserID
	isClient := identity.CanActForOrg(actor, sc.job.OrganizationID)

	switch to {
	case domain.InterviewRescheduleRequested:
		if !isCandidate {
			return domain.Unauthorized("only the candidate may request a reschedule")
		}
		if from != domain.InterviewScheduled {
			return domain.InvalidState("interview %s is %s, reschedule can only be requested while Scheduled", sc.interview.ID, from)
		}
	case domain.InterviewDeclinedByCandidate:
		if !isCandidate {
			return domain.Unauthorized("only the candidate may decline an interview")
		}
	case domain.InterviewScheduled:
		if !isClient {
			return domain.Unauthorized("user %s cannot reschedule interviews for organization %s", actor.ID, sc.job.OrganizationID)
		}
		if details == nil {
			return domain.Invalid("new interview details are required to reschedule")
		}
		if err := validateDetails(*details); err != nil {
			return err
		}
		if sameDetails(sc.interview.InterviewDetails, *details) {
			return domain.Invalid("rescheduling requires changed interview details")
		}
	case domain.InterviewCompleted:
		if !isClient {
			return domain.Unauthorized("user %s cannot complete interviews for organization %s", actor.ID, sc.job.OrganizationID)
		}
		if from != domain.InterviewScheduled {
			return domain.InvalidState("interview %s is %s, only a Scheduled interview can be completed", sc.interview.ID, from)
		}
	case domain.InterviewCancelledByClient:
		if !isClient {
			return domain.Unauthorized("user %s cannot cancel interviews for organization %s", actor.ID, sc.job.OrganizationID)
		}
	default:
		return domain.Invalid("unknown interview status %q", to)
	}
	return nil
}

func sameDetails(a, b domain.InterviewDetails) bool {
	return a.DateTime.Equal(b.DateTime) &&
		a.Platform == b.Platform &&
		a.MeetingLink == b.MeetingLink &&
		a.Notes == b.Notes
}

func (s *Service) notifyInterviewChange(ctx context.Context, sc interviewScope) {
	title := sc.job.Title
	switch sc.interview.Status {
	case domain.InterviewRescheduleRequested:
		s.notifyClientAdmins(ctx, sc.job.OrganizationID, domain.NotificationInterviewScheduled,
			fmt.Sprintf("%s requested to reschedule an interview for %s.", sc.cand.Name, title),
			fmt.Sprintf("/client/jobs/%s", sc.job.ID))
	case domain.InterviewDeclinedByCandidate:
		s.notifyClientAdmins(ctx, sc.job.OrganizationID, domain.NotificationInterviewScheduled,
			fmt.Sprintf("%s declined an interview for %s.", sc.cand.Name, title),
			fmt.Sprintf("/client/jobs/%s", sc.job.ID))
	case domain.InterviewScheduled:
		s.notifyCandidate(ctx, sc.cand, domain.NotificationInterviewScheduled,
			fmt.Sprintf("Your interview for %s has been rescheduled. Please check the new details.", title),
			"/candidate/interviews")
	case domain.InterviewCancelledByClient:
		s.notifyCandidate(ctx, sc.cand, domain.NotificationInterviewScheduled,
			fmt.Sprintf("Your interview for %s has been cancelled by %s.", title, sc.job.OrganizationName),
			"/candidate/interviews")
	}
}
