package executor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docfolio/docfolio/internal/actions"
	"github.com/docfolio/docfolio/internal/store"
)

type fakeCapabilities struct {
	Capabilities
	deleteCalls int
	deleteErr   error
	navigated   string
}

func (f *fakeCapabilities) DeleteDocument(context.Context, string) (string, error) {
	f.deleteCalls++
	if f.deleteErr != nil {
		return "", f.deleteErr
	}
	return "Deleted 'Lease.pdf'.", nil
}

func (f *fakeCapabilities) Navigate(_ context.Context, screen string, _ map[string]string) (string, error) {
	f.navigated = screen
	return "Opening " + screen + ".", nil
}

type fakeRecorder struct {
	activities    []string
	notifications []string
}

func (f *fakeRecorder) RecordActivity(_ context.Context, kind, _ string) error {
	f.activities = append(f.activities, kind)
	return nil
}

func (f *fakeRecorder) RecordNotification(_ context.Context, title, _ string) error {
	f.notifications = append(f.notifications, title)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExecuteSuccessRecordsActivity(t *testing.T) {
	capabilities := &fakeCapabilities{}
	recorder := &fakeRecorder{}
	runner := New(capabilities, recorder, discardLogger())

	result := runner.Execute(context.Background(), actions.Request{Kind: actions.KindDeleteDocument, DocumentID: "d1"})
	if !result.OK {
		t.Fatalf("expected success, got %+v", result)
	}
	if capabilities.deleteCalls != 1 {
		t.Fatalf("expected one capability call, got %d", capabilities.deleteCalls)
	}
	if len(recorder.activities) != 1 || recorder.activities[0] != "delete_document" {
		t.Fatalf("unexpected activities: %v", recorder.activities)
	}
	if len(recorder.notifications) != 0 {
		t.Fatalf("deletes must not raise notifications: %v", recorder.notifications)
	}
}

func TestExecuteFailureIsUniform(t *testing.T) {
	capabilities := &fakeCapabilities{deleteErr: errors.New("that document was already removed")}
	recorder := &fakeRecorder{}
	runner := New(capabilities, recorder, discardLogger())

	result := runner.Execute(context.Background(), actions.Request{Kind: actions.KindDeleteDocument, DocumentID: "gone"})
	if result.OK {
		t.Fatalf("expected failure, got %+v", result)
	}
	if result.Message != "that document was already removed" {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if len(recorder.activities) != 0 {
		t.Fatalf("failures must not record activity: %v", recorder.activities)
	}
}

func TestExecuteInformationalSkipsAudit(t *testing.T) {
	capabilities := &fakeCapabilities{}
	recorder := &fakeRecorder{}
	runner := New(capabilities, recorder, discardLogger())

	result := runner.Execute(context.Background(), actions.Request{Kind: actions.KindNavigate, Screen: "documents"})
	if !result.OK || capabilities.navigated != "documents" {
		t.Fatalf("unexpected result: %+v navigated=%q", result, capabilities.navigated)
	}
	if len(recorder.activities) != 0 || len(recorder.notifications) != 0 {
		t.Fatal("navigate must leave no audit trail")
	}
}

func TestExecuteNone(t *testing.T) {
	runner := New(&fakeCapabilities{}, &fakeRecorder{}, discardLogger())
	result := runner.Execute(context.Background(), actions.Request{Kind: actions.KindNone})
	if !result.OK || result.Message == "" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func newTestWorkspace(t *testing.T) (*Workspace, *store.Store) {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "workspace.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewWorkspace(st, nil, nil), st
}

func TestWorkspaceCreateAndNotify(t *testing.T) {
	workspace, st := newTestWorkspace(t)
	ctx := context.Background()
	runner := New(workspace, workspace, discardLogger())

	result := runner.Execute(ctx, actions.Request{
		Kind:         actions.KindCreateDocument,
		Name:         "Notes.md",
		Content:      "# Notes",
		DocumentKind: "markdown",
	})
	if !result.OK {
		t.Fatalf("create failed: %+v", result)
	}
	if !strings.Contains(result.Message, "Notes.md") {
		t.Fatalf("unexpected message: %q", result.Message)
	}

	count, err := st.UnreadNotificationCount(ctx)
	if err != nil || count != 1 {
		t.Fatalf("expected one notification, got %d (%v)", count, err)
	}
	activities, err := st.RecentActivities(ctx, 10)
	if err != nil || len(activities) != 1 {
		t.Fatalf("expected one activity, got %d (%v)", len(activities), err)
	}
}

func TestWorkspaceStaleDeleteIsReportedNoOp(t *testing.T) {
	workspace, _ := newTestWorkspace(t)
	runner := New(workspace, workspace, discardLogger())

	result := runner.Execute(context.Background(), actions.Request{
		Kind:       actions.KindDeleteDocument,
		DocumentID: "doc_missing",
	})
	if result.OK {
		t.Fatalf("stale delete should report failure, got %+v", result)
	}
	if !strings.Contains(result.Message, "already removed") {
		t.Fatalf("unexpected message: %q", result.Message)
	}
}

func TestWorkspaceSendFaxQueues(t *testing.T) {
	workspace, st := newTestWorkspace(t)
	ctx := context.Background()

	document, err := st.CreateDocument(ctx, store.CreateDocumentInput{Name: "Records.pdf", Content: "x"})
	if err != nil {
		t.Fatalf("create document: %v", err)
	}

	message, err := workspace.SendFax(ctx, "Dr. Chen", "+1-555-0199", document.ID)
	if err != nil {
		t.Fatalf("send fax: %v", err)
	}
	if !strings.Contains(message, "Dr. Chen") {
		t.Fatalf("unexpected message: %q", message)
	}
	queued, err := st.ListQueuedFaxes(ctx, 10)
	if err != nil || len(queued) != 1 {
		t.Fatalf("expected one queued fax, got %d (%v)", len(queued), err)
	}
	shares, err := st.RecentShares(ctx, 10)
	if err != nil || len(shares) != 1 || shares[0].Status != store.ShareStatusQueued {
		t.Fatalf("unexpected shares: %+v (%v)", shares, err)
	}
}
