package chatlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestAppendCreatesMarkdownLog(t *testing.T) {
	root := t.TempDir()
	err := Append(Entry{
		Root:           root,
		ConversationID: "conv_42",
		Role:           "user",
		Text:           "summarize my lease",
		Timestamp:      time.Unix(1700000000, 0).UTC(),
	})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}

	logPath := filepath.Join(root, "conversations", "conv_42.md")
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log failed: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "# Conversation Log") {
		t.Fatalf("expected markdown header, got %s", content)
	}
	if !strings.Contains(content, "summarize my lease") {
		t.Fatalf("expected message body, got %s", content)
	}
	if !strings.Contains(content, "`USER`") {
		t.Fatalf("expected role marker, got %s", content)
	}
}

func TestAppendAccumulatesTurns(t *testing.T) {
	root := t.TempDir()
	for _, turn := range []Entry{
		{Root: root, ConversationID: "conv_1", Role: "user", Text: "hello"},
		{Root: root, ConversationID: "conv_1", Role: "assistant", Text: "hi there"},
	} {
		if err := Append(turn); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}
	data, err := os.ReadFile(filepath.Join(root, "conversations", "conv_1.md"))
	if err != nil {
		t.Fatalf("read log failed: %v", err)
	}
	if strings.Count(string(data), "# Conversation Log") != 1 {
		t.Fatal("header must be written once")
	}
	if !strings.Contains(string(data), "hi there") {
		t.Fatal("second turn missing")
	}
}

func TestAppendSkipsEmptyText(t *testing.T) {
	root := t.TempDir()
	if err := Append(Entry{Root: root, ConversationID: "conv_1", Text: "   "}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "conversations", "conv_1.md")); !os.IsNotExist(err) {
		t.Fatal("empty text must not create a log file")
	}
}
