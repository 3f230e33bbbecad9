// Package chatlog appends a human-readable markdown audit trail of every
// conversation turn, one file per conversation, alongside the database. The
// log is best-effort: callers treat a write failure as non-fatal.
package chatlog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

type Entry struct {
	Root           string
	ConversationID string
	Role           string
	Text           string
	Timestamp      time.Time
}

var pathSanitizer = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func Append(entry Entry) error {
	root := strings.TrimSpace(entry.Root)
	conversationID := sanitizeSegment(entry.ConversationID)
	if root == "" || conversationID == "" {
		return nil
	}
	text := strings.TrimSpace(entry.Text)
	if text == "" {
		return nil
	}

	timestamp := entry.Timestamp.UTC()
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	baseDir := filepath.Join(root, "conversations")
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}
	logPath := filepath.Join(baseDir, conversationID+".md")

	header := ""
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		header = fmt.Sprintf("# Conversation Log\n\n- conversation: `%s`\n\n", conversationID)
	}

	role := strings.TrimSpace(strings.ToLower(entry.Role))
	if role == "" {
		role = "system"
	}
	body := fmt.Sprintf(
		"## %s `%s`\n\n%s\n\n",
		timestamp.Format(time.RFC3339),
		strings.ToUpper(role),
		text,
	)

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	if header != "" {
		if _, err := file.WriteString(header); err != nil {
			return err
		}
	}
	if _, err := file.WriteString(body); err != nil {
		return err
	}
	return nil
}

func sanitizeSegment(value string) string {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.ReplaceAll(trimmed, " ", "-")
	trimmed = pathSanitizer.ReplaceAllString(trimmed, "-")
	trimmed = strings.Trim(trimmed, "-.")
	return strings.ToLower(trimmed)
}
