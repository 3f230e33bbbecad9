package actions

import (
	"fmt"
	"strings"

	"github.com/docfolio/docfolio/internal/assisterr"
)

// Validate maps a decoded directive object to a typed Request, or rejects it
// with a human-readable reason. A nil or kind-less object is the none action.
// No partially-valid request is ever returned: either every required field
// for the kind is present, or the error is non-nil.
func Validate(raw map[string]any) (Request, error) {
	if raw == nil {
		return Request{Kind: KindNone}, nil
	}
	kind := Kind(strings.TrimSpace(getString(raw, "type")))
	if kind == "" || kind == KindNone {
		return Request{Kind: KindNone}, nil
	}

	req := Request{Kind: kind}
	switch kind {
	case KindDeleteDocument, KindDuplicateDocument:
		req.DocumentID = getString(raw, "documentId")
		if req.DocumentID == "" {
			return Request{}, rejection(kind, "documentId is required")
		}
	case KindDeleteFolder:
		req.FolderID = getString(raw, "folderId")
		if req.FolderID == "" {
			return Request{}, rejection(kind, "folderId is required")
		}
	case KindMoveToFolder, KindRemoveFromFolder:
		req.DocumentID = getString(raw, "documentId")
		req.FolderID = getString(raw, "folderId")
		if req.DocumentID == "" || req.FolderID == "" {
			return Request{}, rejection(kind, "documentId and folderId are required")
		}
	case KindRenameDocument:
		req.DocumentID = getString(raw, "documentId")
		req.NewName = getString(raw, "newName")
		if req.DocumentID == "" || req.NewName == "" {
			return Request{}, rejection(kind, "documentId and a non-empty newName are required")
		}
	case KindRenameFolder:
		req.FolderID = getString(raw, "folderId")
		req.NewName = getString(raw, "newName")
		if req.FolderID == "" || req.NewName == "" {
			return Request{}, rejection(kind, "folderId and a non-empty newName are required")
		}
	case KindCreateFolder:
		req.Name = getString(raw, "name")
		req.Icon = getString(raw, "icon")
		if req.Name == "" {
			return Request{}, rejection(kind, "a non-empty name is required")
		}
	case KindCreateDocument:
		req.Name = getString(raw, "name")
		req.Content = rawString(raw, "content")
		req.DocumentKind = getString(raw, "kind")
		if req.Name == "" || strings.TrimSpace(req.Content) == "" || req.DocumentKind == "" {
			return Request{}, rejection(kind, "name, content and kind are required")
		}
	case KindSendEmail:
		req.To = getString(raw, "to")
		req.Subject = getString(raw, "subject")
		req.Body = rawString(raw, "body")
		if req.To == "" || req.Subject == "" || strings.TrimSpace(req.Body) == "" {
			return Request{}, rejection(kind, "to, subject and body are required")
		}
	case KindSendFax:
		req.RecipientName = getString(raw, "recipientName")
		req.FaxNumber = getString(raw, "faxNumber")
		req.DocumentID = getString(raw, "documentId")
		if req.RecipientName == "" || req.FaxNumber == "" || req.DocumentID == "" {
			return Request{}, rejection(kind, "recipientName, faxNumber and documentId are required")
		}
	case KindNavigate:
		req.Screen = getString(raw, "screen")
		if req.Screen == "" {
			return Request{}, rejection(kind, "screen is required")
		}
		req.ScreenParams = getStringMap(raw, "params")
	case KindRequestSelection:
		req.Prompt = getString(raw, "prompt")
		req.Purpose = getString(raw, "purpose")
		if req.Prompt == "" || req.Purpose == "" {
			return Request{}, rejection(kind, "prompt and purpose are required")
		}
	case KindClearNotifications, KindMarkNotificationsRead, KindClearActivityHistory, KindClearShareHistory:
		// No parameters.
	case KindUpdateProfile:
		req.ProfileName = getString(raw, "name")
		req.ProfileEmail = getString(raw, "email")
		req.ProfilePhone = getString(raw, "phone")
		req.ProfileCompany = getString(raw, "company")
		if req.ProfileName == "" && req.ProfileEmail == "" && req.ProfilePhone == "" && req.ProfileCompany == "" {
			return Request{}, rejection(kind, "at least one profile field is required")
		}
	case KindToggleSetting:
		req.SettingKey = getString(raw, "key")
		if req.SettingKey == "" {
			return Request{}, rejection(kind, "key is required")
		}
		if !KnownSetting(req.SettingKey) {
			return Request{}, fmt.Errorf("%w: %s is not a known setting", assisterr.ErrUnknownSetting, req.SettingKey)
		}
		value, ok := getBool(raw, "value")
		if !ok {
			return Request{}, rejection(kind, "a boolean value is required")
		}
		req.SettingValue = value
	default:
		return Request{}, fmt.Errorf("%w: %s", assisterr.ErrUnknownKind, kind)
	}

	req.ConfirmationRequired = requiresConfirmation(kind, raw)
	return req, nil
}

// requiresConfirmation applies the host-side confirmation policy. The static
// table always wins for destructive kinds; the upstream reply's own
// confirmationRequired flag may upgrade any other action to
// confirmation-required, but never downgrade one.
func requiresConfirmation(kind Kind, raw map[string]any) bool {
	if confirmationMandatory[kind] {
		return true
	}
	advisory, ok := getBool(raw, "confirmationRequired")
	return ok && advisory
}

func rejection(kind Kind, reason string) error {
	return fmt.Errorf("%w: %s: %s", assisterr.ErrActionRejected, kind, reason)
}

func getString(raw map[string]any, key string) string {
	value, _ := raw[key].(string)
	return strings.TrimSpace(value)
}

// rawString preserves interior whitespace for content-bearing fields.
func rawString(raw map[string]any, key string) string {
	value, _ := raw[key].(string)
	return value
}

func getBool(raw map[string]any, key string) (bool, bool) {
	value, ok := raw[key].(bool)
	return value, ok
}

func getStringMap(raw map[string]any, key string) map[string]string {
	nested, ok := raw[key].(map[string]any)
	if !ok || len(nested) == 0 {
		return nil
	}
	result := map[string]string{}
	for nestedKey, nestedValue := range nested {
		if text, ok := nestedValue.(string); ok {
			result[nestedKey] = text
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
