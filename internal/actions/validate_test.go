package actions

import (
	"errors"
	"testing"

	"github.com/docfolio/docfolio/internal/assisterr"
)

func TestValidateDeleteDocument(t *testing.T) {
	req, err := Validate(map[string]any{"type": "delete_document", "documentId": "d1"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if req.Kind != KindDeleteDocument || req.DocumentID != "d1" {
		t.Fatalf("unexpected request: %+v", req)
	}
	if !req.ConfirmationRequired {
		t.Fatal("delete must require confirmation")
	}
}

func TestValidateDestructiveIgnoresAdvisoryDowngrade(t *testing.T) {
	req, err := Validate(map[string]any{
		"type":                 "delete_document",
		"documentId":           "d1",
		"confirmationRequired": false,
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !req.ConfirmationRequired {
		t.Fatal("the static policy must override a downgrade attempt")
	}
}

func TestValidateAdvisoryUpgrade(t *testing.T) {
	req, err := Validate(map[string]any{
		"type":                 "rename_document",
		"documentId":           "d1",
		"newName":              "Budget.pdf",
		"confirmationRequired": true,
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !req.ConfirmationRequired {
		t.Fatal("advisory flag should upgrade to confirmation-required")
	}
}

func TestValidateMissingField(t *testing.T) {
	_, err := Validate(map[string]any{"type": "move_to_folder", "documentId": "d1"})
	if !errors.Is(err, assisterr.ErrActionRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
}

func TestValidateEmptyNewName(t *testing.T) {
	_, err := Validate(map[string]any{"type": "rename_folder", "folderId": "f1", "newName": "   "})
	if !errors.Is(err, assisterr.ErrActionRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
}

func TestValidateUnknownKind(t *testing.T) {
	_, err := Validate(map[string]any{"type": "format_disk"})
	if !errors.Is(err, assisterr.ErrUnknownKind) {
		t.Fatalf("expected unknown kind error, got %v", err)
	}
}

func TestValidateNoneAndNil(t *testing.T) {
	req, err := Validate(nil)
	if err != nil || !req.IsNone() {
		t.Fatalf("nil raw should be none: %+v %v", req, err)
	}
	req, err = Validate(map[string]any{"type": "none"})
	if err != nil || !req.IsNone() {
		t.Fatalf("none kind should be none: %+v %v", req, err)
	}
}

func TestValidateToggleSetting(t *testing.T) {
	req, err := Validate(map[string]any{"type": "toggle_setting", "key": "biometricEnabled", "value": true})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if req.SettingKey != "biometricEnabled" || !req.SettingValue {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.ConfirmationRequired {
		t.Fatal("toggle_setting is not confirmation-mandatory")
	}

	if _, err := Validate(map[string]any{"type": "toggle_setting", "key": "selfDestruct", "value": true}); !errors.Is(err, assisterr.ErrUnknownSetting) {
		t.Fatalf("expected unknown setting error, got %v", err)
	}
	if _, err := Validate(map[string]any{"type": "toggle_setting", "key": "biometricEnabled", "value": "yes"}); !errors.Is(err, assisterr.ErrActionRejected) {
		t.Fatalf("expected non-boolean rejection, got %v", err)
	}
}

func TestValidateUpdateProfileRequiresOneField(t *testing.T) {
	if _, err := Validate(map[string]any{"type": "update_profile"}); !errors.Is(err, assisterr.ErrActionRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	req, err := Validate(map[string]any{"type": "update_profile", "email": "me@example.com"})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if req.ProfileEmail != "me@example.com" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestValidateClearKindsAreMandatory(t *testing.T) {
	for _, kind := range []string{"clear_notifications", "clear_activity_history", "clear_share_history"} {
		req, err := Validate(map[string]any{"type": kind, "confirmationRequired": false})
		if err != nil {
			t.Fatalf("validate %s: %v", kind, err)
		}
		if !req.ConfirmationRequired {
			t.Fatalf("%s must be confirmation-mandatory", kind)
		}
	}
}

func TestValidateSendFax(t *testing.T) {
	req, err := Validate(map[string]any{
		"type":          "send_fax",
		"recipientName": "Dr. Chen",
		"faxNumber":     "+1-555-0199",
		"documentId":    "d1",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if req.RecipientName != "Dr. Chen" || req.FaxNumber != "+1-555-0199" || req.DocumentID != "d1" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestValidateNavigateParams(t *testing.T) {
	req, err := Validate(map[string]any{
		"type":   "navigate",
		"screen": "documents",
		"params": map[string]any{"folderId": "f1", "count": 3.0},
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if req.ScreenParams["folderId"] != "f1" {
		t.Fatalf("unexpected params: %+v", req.ScreenParams)
	}
	if _, ok := req.ScreenParams["count"]; ok {
		t.Fatal("non-string params should be dropped")
	}
}

func TestConfirmationPrompt(t *testing.T) {
	prompt := ConfirmationPrompt(Request{Kind: KindDeleteDocument, DocumentID: "d1"}, "Transcript.pdf")
	if prompt != "Delete 'Transcript.pdf'? This cannot be undone." {
		t.Fatalf("unexpected prompt: %q", prompt)
	}
	prompt = ConfirmationPrompt(Request{Kind: KindDeleteDocument, DocumentID: "d1"}, "")
	if prompt != "Delete 'd1'? This cannot be undone." {
		t.Fatalf("unexpected prompt: %q", prompt)
	}
}
