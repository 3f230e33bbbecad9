package executor

import (
	"context"
	"fmt"

	"github.com/docfolio/docfolio/internal/store"
)

// Mailer sends one message over the outbound email transport.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Publisher pushes UI-facing events to connected clients.
type Publisher interface {
	PublishNavigate(screen string, params map[string]string)
	PublishSelectionRequest(prompt, purpose string)
}

// Workspace binds the capability surface to the sqlite store and the
// outbound transports. It implements both Capabilities and Recorder.
type Workspace struct {
	store     *store.Store
	mailer    Mailer
	publisher Publisher
}

func NewWorkspace(st *store.Store, mailer Mailer, publisher Publisher) *Workspace {
	return &Workspace{store: st, mailer: mailer, publisher: publisher}
}

func (w *Workspace) DeleteDocument(ctx context.Context, documentID string) (string, error) {
	name := documentID
	if document, err := w.store.LookupDocument(ctx, documentID); err == nil {
		name = document.Name
	}
	deleted, err := w.store.DeleteDocument(ctx, documentID)
	if err != nil {
		return "", err
	}
	if !deleted {
		return "", fmt.Errorf("that document was already removed")
	}
	return fmt.Sprintf("Deleted '%s'.", name), nil
}

func (w *Workspace) DeleteFolder(ctx context.Context, folderID string) (string, error) {
	name := folderID
	if folder, err := w.store.LookupFolder(ctx, folderID); err == nil {
		name = folder.Name
	}
	deleted, err := w.store.DeleteFolder(ctx, folderID)
	if err != nil {
		return "", err
	}
	if !deleted {
		return "", fmt.Errorf("that folder was already removed")
	}
	return fmt.Sprintf("Deleted folder '%s'. Its documents were kept.", name), nil
}

func (w *Workspace) MoveToFolder(ctx context.Context, documentID, folderID string) (string, error) {
	document, err := w.store.MoveDocumentToFolder(ctx, documentID, folderID)
	if err != nil {
		return "", err
	}
	folder, err := w.store.LookupFolder(ctx, folderID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Moved '%s' into '%s'.", document.Name, folder.Name), nil
}

func (w *Workspace) RemoveFromFolder(ctx context.Context, documentID, folderID string) (string, error) {
	document, err := w.store.RemoveDocumentFromFolder(ctx, documentID, folderID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Removed '%s' from its folder.", document.Name), nil
}

func (w *Workspace) RenameDocument(ctx context.Context, documentID, newName string) (string, error) {
	document, err := w.store.RenameDocument(ctx, documentID, newName)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Renamed the document to '%s'.", document.Name), nil
}

func (w *Workspace) RenameFolder(ctx context.Context, folderID, newName string) (string, error) {
	folder, err := w.store.RenameFolder(ctx, folderID, newName)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Renamed the folder to '%s'.", folder.Name), nil
}

func (w *Workspace) CreateFolder(ctx context.Context, name, icon string) (string, error) {
	folder, err := w.store.CreateFolder(ctx, name, icon)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Created folder '%s'.", folder.Name), nil
}

func (w *Workspace) CreateDocument(ctx context.Context, name, content, kind string) (string, error) {
	document, err := w.store.CreateDocument(ctx, store.CreateDocumentInput{
		Name:    name,
		Kind:    kind,
		Content: content,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Created document '%s'.", document.Name), nil
}

func (w *Workspace) DuplicateDocument(ctx context.Context, documentID string) (string, error) {
	duplicate, err := w.store.DuplicateDocument(ctx, documentID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Created a copy named '%s'.", duplicate.Name), nil
}

func (w *Workspace) SendEmail(ctx context.Context, to, subject, body string) (string, error) {
	if w.mailer == nil {
		return "", fmt.Errorf("email transport is not configured")
	}
	if err := w.mailer.Send(ctx, to, subject, body); err != nil {
		return "", err
	}
	if _, err := w.store.AppendShare(ctx, store.AppendShareInput{
		RecipientName: to,
		Method:        store.ShareMethodEmail,
		Status:        store.ShareStatusDelivered,
	}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Sent the email to %s.", to), nil
}

func (w *Workspace) SendFax(ctx context.Context, recipientName, faxNumber, documentID string) (string, error) {
	// Delivery happens asynchronously via the fax worker; here we only queue.
	if _, err := w.store.LookupDocument(ctx, documentID); err != nil {
		return "", err
	}
	if _, err := w.store.EnqueueFax(ctx, store.EnqueueFaxInput{
		RecipientName: recipientName,
		FaxNumber:     faxNumber,
		DocumentID:    documentID,
	}); err != nil {
		return "", err
	}
	if _, err := w.store.AppendShare(ctx, store.AppendShareInput{
		RecipientName: recipientName,
		Method:        store.ShareMethodFax,
		Status:        store.ShareStatusQueued,
		DocumentID:    documentID,
	}); err != nil {
		return "", err
	}
	return fmt.Sprintf("Queued the fax to %s at %s.", recipientName, faxNumber), nil
}

func (w *Workspace) Navigate(_ context.Context, screen string, params map[string]string) (string, error) {
	if w.publisher != nil {
		w.publisher.PublishNavigate(screen, params)
	}
	return fmt.Sprintf("Opening %s.", screen), nil
}

func (w *Workspace) RequestSelection(_ context.Context, prompt, purpose string) (string, error) {
	if w.publisher != nil {
		w.publisher.PublishSelectionRequest(prompt, purpose)
	}
	return prompt, nil
}

func (w *Workspace) ClearNotifications(ctx context.Context) (string, error) {
	count, err := w.store.ClearNotifications(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Cleared %d notifications.", count), nil
}

func (w *Workspace) MarkNotificationsRead(ctx context.Context) (string, error) {
	count, err := w.store.MarkNotificationsRead(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Marked %d notifications as read.", count), nil
}

func (w *Workspace) ClearActivityHistory(ctx context.Context) (string, error) {
	count, err := w.store.ClearActivities(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Cleared %d activity entries.", count), nil
}

func (w *Workspace) ClearShareHistory(ctx context.Context) (string, error) {
	count, err := w.store.ClearShareHistory(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Cleared %d share history entries.", count), nil
}

func (w *Workspace) UpdateProfile(ctx context.Context, name, email, phone, company string) (string, error) {
	profile, err := w.store.UpdateProfile(ctx, store.UpdateProfileInput{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Company: company,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Updated your profile, %s.", profile.Name), nil
}

func (w *Workspace) ToggleSetting(ctx context.Context, key string, value bool) (string, error) {
	if err := w.store.SetSetting(ctx, key, value); err != nil {
		return "", err
	}
	state := "off"
	if value {
		state = "on"
	}
	return fmt.Sprintf("Turned %s %s.", key, state), nil
}

func (w *Workspace) RecordActivity(ctx context.Context, kind, title string) error {
	_, err := w.store.AppendActivity(ctx, kind, title)
	return err
}

func (w *Workspace) RecordNotification(ctx context.Context, title, body string) error {
	_, err := w.store.AppendNotification(ctx, title, body)
	return err
}
