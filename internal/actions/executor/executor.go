// Package executor dispatches validated action requests to the workspace
// capabilities and converts every outcome, success or failure, into a single
// uniform result for the transcript.
package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/docfolio/docfolio/internal/actions"
)

// Result is the outcome of one dispatched action. Message is always
// user-presentable; OK distinguishes the success marker from the failure
// marker in the transcript.
type Result struct {
	OK      bool
	Message string
}

// Capabilities is the set of workspace operations the executor can invoke,
// one per mutating action kind. Each returns a user-presentable outcome
// message or an error; the executor never inspects errors beyond reporting
// them.
type Capabilities interface {
	DeleteDocument(ctx context.Context, documentID string) (string, error)
	DeleteFolder(ctx context.Context, folderID string) (string, error)
	MoveToFolder(ctx context.Context, documentID, folderID string) (string, error)
	RemoveFromFolder(ctx context.Context, documentID, folderID string) (string, error)
	RenameDocument(ctx context.Context, documentID, newName string) (string, error)
	RenameFolder(ctx context.Context, folderID, newName string) (string, error)
	CreateFolder(ctx context.Context, name, icon string) (string, error)
	CreateDocument(ctx context.Context, name, content, kind string) (string, error)
	DuplicateDocument(ctx context.Context, documentID string) (string, error)
	SendEmail(ctx context.Context, to, subject, body string) (string, error)
	SendFax(ctx context.Context, recipientName, faxNumber, documentID string) (string, error)
	Navigate(ctx context.Context, screen string, params map[string]string) (string, error)
	RequestSelection(ctx context.Context, prompt, purpose string) (string, error)
	ClearNotifications(ctx context.Context) (string, error)
	MarkNotificationsRead(ctx context.Context) (string, error)
	ClearActivityHistory(ctx context.Context) (string, error)
	ClearShareHistory(ctx context.Context) (string, error)
	UpdateProfile(ctx context.Context, name, email, phone, company string) (string, error)
	ToggleSetting(ctx context.Context, key string, value bool) (string, error)
}

// Recorder receives the audit side effects of successful actions.
type Recorder interface {
	RecordActivity(ctx context.Context, kind, title string) error
	RecordNotification(ctx context.Context, title, body string) error
}

type Executor struct {
	capabilities Capabilities
	recorder     Recorder
	logger       *slog.Logger
}

func New(capabilities Capabilities, recorder Recorder, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{capabilities: capabilities, recorder: recorder, logger: logger}
}

// informational kinds carry no audit trail.
var informational = map[actions.Kind]bool{
	actions.KindNavigate:         true,
	actions.KindRequestSelection: true,
}

// creations additionally raise a user-visible notification.
var creations = map[actions.Kind]bool{
	actions.KindCreateDocument:    true,
	actions.KindCreateFolder:      true,
	actions.KindDuplicateDocument: true,
}

// Execute runs one validated request to completion. It never returns an
// error: capability failures become Result{OK: false} with the cause as the
// message. Audit side effects are recorded only for successful,
// non-informational actions; a failed audit write is logged but does not
// flip the result.
func (e *Executor) Execute(ctx context.Context, req actions.Request) Result {
	if req.IsNone() {
		return Result{OK: true, Message: "Nothing to do."}
	}

	message, err := e.dispatch(ctx, req)
	if err != nil {
		e.logger.Warn("action failed", "kind", req.Kind, "error", err)
		return Result{OK: false, Message: err.Error()}
	}

	if e.recorder != nil && !informational[req.Kind] {
		if recordErr := e.recorder.RecordActivity(ctx, string(req.Kind), message); recordErr != nil {
			e.logger.Warn("activity record failed", "kind", req.Kind, "error", recordErr)
		}
		if creations[req.Kind] {
			if recordErr := e.recorder.RecordNotification(ctx, "Assistant action", message); recordErr != nil {
				e.logger.Warn("notification record failed", "kind", req.Kind, "error", recordErr)
			}
		}
	}
	e.logger.Info("action executed", "kind", req.Kind)
	return Result{OK: true, Message: message}
}

func (e *Executor) dispatch(ctx context.Context, req actions.Request) (string, error) {
	switch req.Kind {
	case actions.KindDeleteDocument:
		return e.capabilities.DeleteDocument(ctx, req.DocumentID)
	case actions.KindDeleteFolder:
		return e.capabilities.DeleteFolder(ctx, req.FolderID)
	case actions.KindMoveToFolder:
		return e.capabilities.MoveToFolder(ctx, req.DocumentID, req.FolderID)
	case actions.KindRemoveFromFolder:
		return e.capabilities.RemoveFromFolder(ctx, req.DocumentID, req.FolderID)
	case actions.KindRenameDocument:
		return e.capabilities.RenameDocument(ctx, req.DocumentID, req.NewName)
	case actions.KindRenameFolder:
		return e.capabilities.RenameFolder(ctx, req.FolderID, req.NewName)
	case actions.KindCreateFolder:
		return e.capabilities.CreateFolder(ctx, req.Name, req.Icon)
	case actions.KindCreateDocument:
		return e.capabilities.CreateDocument(ctx, req.Name, req.Content, req.DocumentKind)
	case actions.KindDuplicateDocument:
		return e.capabilities.DuplicateDocument(ctx, req.DocumentID)
	case actions.KindSendEmail:
		return e.capabilities.SendEmail(ctx, req.To, req.Subject, req.Body)
	case actions.KindSendFax:
		return e.capabilities.SendFax(ctx, req.RecipientName, req.FaxNumber, req.DocumentID)
	case actions.KindNavigate:
		return e.capabilities.Navigate(ctx, req.Screen, req.ScreenParams)
	case actions.KindRequestSelection:
		return e.capabilities.RequestSelection(ctx, req.Prompt, req.Purpose)
	case actions.KindClearNotifications:
		return e.capabilities.ClearNotifications(ctx)
	case actions.KindMarkNotificationsRead:
		return e.capabilities.MarkNotificationsRead(ctx)
	case actions.KindClearActivityHistory:
		return e.capabilities.ClearActivityHistory(ctx)
	case actions.KindClearShareHistory:
		return e.capabilities.ClearShareHistory(ctx)
	case actions.KindUpdateProfile:
		return e.capabilities.UpdateProfile(ctx, req.ProfileName, req.ProfileEmail, req.ProfilePhone, req.ProfileCompany)
	case actions.KindToggleSetting:
		return e.capabilities.ToggleSetting(ctx, req.SettingKey, req.SettingValue)
	default:
		return "", fmt.Errorf("no capability for action kind %q", req.Kind)
	}
}
