package actions

// Kind enumerates the closed set of actions the assistant may request.
type Kind string

const (
	KindNone Kind = "none"

	KindDeleteDocument    Kind = "delete_document"
	KindDeleteFolder      Kind = "delete_folder"
	KindMoveToFolder      Kind = "move_to_folder"
	KindRemoveFromFolder  Kind = "remove_from_folder"
	KindRenameDocument    Kind = "rename_document"
	KindRenameFolder      Kind = "rename_folder"
	KindCreateFolder      Kind = "create_folder"
	KindCreateDocument    Kind = "create_document"
	KindDuplicateDocument Kind = "duplicate_document"

	KindSendEmail Kind = "send_email"
	KindSendFax   Kind = "send_fax"

	KindNavigate         Kind = "navigate"
	KindRequestSelection Kind = "request_selection"

	KindClearNotifications    Kind = "clear_notifications"
	KindMarkNotificationsRead Kind = "mark_notifications_read"
	KindClearActivityHistory  Kind = "clear_activity_history"
	KindClearShareHistory     Kind = "clear_share_history"

	KindUpdateProfile Kind = "update_profile"
	KindToggleSetting Kind = "toggle_setting"
)

// Request is a validated action. Only the fields for its Kind are populated;
// everything else is zero.
type Request struct {
	Kind                 Kind
	ConfirmationRequired bool

	DocumentID string
	FolderID   string
	NewName    string

	Name         string
	Content      string
	DocumentKind string
	Icon         string

	To      string
	Subject string
	Body    string

	RecipientName string
	FaxNumber     string

	Screen       string
	ScreenParams map[string]string

	Prompt  string
	Purpose string

	ProfileName    string
	ProfileEmail   string
	ProfilePhone   string
	ProfileCompany string

	SettingKey   string
	SettingValue bool
}

func (r Request) IsNone() bool {
	return r.Kind == KindNone || r.Kind == ""
}

// confirmationMandatory marks the destructive or irreversible kinds whose
// confirmation requirement cannot be waived by the upstream reply.
var confirmationMandatory = map[Kind]bool{
	KindDeleteDocument:       true,
	KindDeleteFolder:         true,
	KindCreateDocument:       true,
	KindClearNotifications:   true,
	KindClearActivityHistory: true,
	KindClearShareHistory:    true,
}

// knownSettings is the full set of toggleable boolean settings.
var knownSettings = map[string]bool{
	"biometricEnabled":           true,
	"notificationsEnabled":       true,
	"autoUploadEnabled":          true,
	"darkModeEnabled":            true,
	"documentCompressionEnabled": true,
}

// KnownSetting reports whether key names a toggleable setting.
func KnownSetting(key string) bool {
	return knownSettings[key]
}
