package sessions

import (
	"fmt"

	"github.com/casetrail/evidence-api/internal/models"
)

// Transition events for the evidence session lifecycle. Every status
// change goes through Apply so the whole machine is a pure function;
// callers dispatch an event and persist the returned snapshot.

// Event is one session lifecycle transition
type Event interface {
	eventName() string
}

// AttachVideo starts the upload stage for a newly attached file. The
// incoming name and transient reference are staged; the prior durable
// binding stays in place until UploadComplete swaps it out, so a failed
// replacement never destroys evidence the session already holds. Prior
// events and turns are kept; replacing evidence mid-session is a
// deliberate user action, not a reset.
type AttachVideo struct {
	Name         string
	TransientRef string
}

// UploadComplete records that the file's bytes are durably stored at
// the content-addressed key
type UploadComplete struct {
	Fingerprint string
	StorageKey  string
	DurableRef  string
}

// FollowUp starts analysis against already-uploaded evidence
type FollowUp struct{}

// AnalysisComplete appends a findings batch and marks the session ready
type AnalysisComplete struct {
	Events models.TimelineEvents
}

// AnalysisFailed marks the session errored, leaving all prior data
// untouched so the caller can resume by resubmitting
type AnalysisFailed struct {
	Reason string
}

// Reset returns the session to idle and clears its findings. The
// conversation log is cleared by the caller alongside this event.
type Reset struct{}

func (AttachVideo) eventName() string      { return "attach_video" }
func (UploadComplete) eventName() string   { return "upload_complete" }
func (FollowUp) eventName() string         { return "follow_up" }
func (AnalysisComplete) eventName() string { return "analysis_complete" }
func (AnalysisFailed) eventName() string   { return "analysis_failed" }
func (Reset) eventName() string            { return "reset" }

// Apply computes the next session snapshot for one transition event.
// It never mutates its input. Status only moves forward through the
// lifecycle; the exceptions are the ready->analyzing follow-up, the
// error->* resume transitions, and the explicit reset to idle.
func Apply(session models.EvidenceSession, event Event) (models.EvidenceSession, error) {
	next := session

	switch e := event.(type) {
	case AttachVideo:
		switch session.Status {
		case models.SessionStatusIdle, models.SessionStatusReady, models.SessionStatusError:
			next.Status = models.SessionStatusUploading
			next.PendingName = e.Name
			next.PendingReference = e.TransientRef
			return next, nil
		}

	case UploadComplete:
		if session.Status == models.SessionStatusUploading {
			if e.Fingerprint == "" || e.StorageKey == "" {
				return session, fmt.Errorf("upload completion requires a fingerprint and storage key")
			}
			next.Status = models.SessionStatusAnalyzing
			next.VideoName = session.PendingName
			next.VideoReference = e.DurableRef
			next.Fingerprint = e.Fingerprint
			next.StorageKey = e.StorageKey
			next.PendingName = ""
			next.PendingReference = ""
			return next, nil
		}

	case FollowUp:
		switch session.Status {
		case models.SessionStatusReady, models.SessionStatusError:
			if !session.HasDurableVideo() {
				return session, fmt.Errorf("follow-up requires uploaded evidence")
			}
			next.Status = models.SessionStatusAnalyzing
			return next, nil
		}

	case AnalysisComplete:
		if session.Status == models.SessionStatusAnalyzing {
			next.Status = models.SessionStatusReady
			// History is cumulative: new findings append, never replace
			next.Events = append(append(models.TimelineEvents{}, session.Events...), e.Events...)
			return next, nil
		}

	case AnalysisFailed:
		switch session.Status {
		case models.SessionStatusUploading, models.SessionStatusAnalyzing:
			next.Status = models.SessionStatusError
			// an abandoned replacement drops its staged file; the last
			// durable binding is still there for a follow-up
			next.PendingName = ""
			next.PendingReference = ""
			return next, nil
		}

	case Reset:
		next.Status = models.SessionStatusIdle
		next.VideoName = ""
		next.VideoReference = ""
		next.Fingerprint = ""
		next.StorageKey = ""
		next.PendingName = ""
		next.PendingReference = ""
		next.Events = models.TimelineEvents{}
		return next, nil
	}

	return session, fmt.Errorf("invalid transition: %s from status %s", event.eventName(), session.Status)
}
