package actions

import "fmt"

// ConfirmationPrompt renders the question shown to the operator before a
// confirmation-required action may run. entityName is the display name of
// the affected document or folder when the caller resolved one; it may be
// empty for stale ids.
func ConfirmationPrompt(req Request, entityName string) string {
	switch req.Kind {
	case KindDeleteDocument:
		return fmt.Sprintf("Delete %s? This cannot be undone.", describeEntity(entityName, req.DocumentID))
	case KindDeleteFolder:
		return fmt.Sprintf("Delete folder %s? Its documents will be kept but removed from the folder. This cannot be undone.", describeEntity(entityName, req.FolderID))
	case KindCreateDocument:
		return fmt.Sprintf("Create a new %s document named '%s'?", req.DocumentKind, req.Name)
	case KindClearNotifications:
		return "Clear all notifications? This cannot be undone."
	case KindClearActivityHistory:
		return "Clear the entire activity history? This cannot be undone."
	case KindClearShareHistory:
		return "Clear the entire share and fax history? This cannot be undone."
	case KindSendEmail:
		return fmt.Sprintf("Send the email to %s?", req.To)
	case KindSendFax:
		return fmt.Sprintf("Send the fax to %s at %s?", req.RecipientName, req.FaxNumber)
	default:
		return fmt.Sprintf("Run the %s action?", req.Kind)
	}
}

func describeEntity(name, id string) string {
	if name != "" {
		return "'" + name + "'"
	}
	if id != "" {
		return "'" + id + "'"
	}
	return "this item"
}
