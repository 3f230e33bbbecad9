package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docfolio/docfolio/internal/assisterr"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Conversation struct {
	ID        string
	Title     string
	CreatedAt time.Time
}

type Message struct {
	Seq                int64
	ID                 string
	ConversationID     string
	Role               string
	Content            string
	AttachedDocumentID string
	CreatedAt          time.Time
}

type AppendMessageInput struct {
	ConversationID     string
	Role               string
	Content            string
	AttachedDocumentID string
}

func (s *Store) CreateConversation(ctx context.Context, title string) (Conversation, error) {
	record := Conversation{
		ID:        "conv_" + uuid.NewString(),
		Title:     strings.TrimSpace(title),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO conversations (id, title, created_at_unix) VALUES (?, ?, ?)`,
		record.ID, record.Title, record.CreatedAt.Unix(),
	); err != nil {
		return Conversation{}, fmt.Errorf("insert conversation: %w", err)
	}
	return record, nil
}

func (s *Store) LookupConversation(ctx context.Context, id string) (Conversation, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, title, created_at_unix FROM conversations WHERE id = ?`,
		strings.TrimSpace(id),
	)
	var record Conversation
	var createdAt int64
	if err := row.Scan(&record.ID, &record.Title, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Conversation{}, assisterr.ErrConversationGone
		}
		return Conversation{}, fmt.Errorf("lookup conversation: %w", err)
	}
	record.CreatedAt = time.Unix(createdAt, 0).UTC()
	return record, nil
}

// AppendMessage adds one immutable entry to the conversation transcript.
// There is no update path for messages anywhere in the store.
func (s *Store) AppendMessage(ctx context.Context, input AppendMessageInput) (Message, error) {
	conversationID := strings.TrimSpace(input.ConversationID)
	role := strings.TrimSpace(input.Role)
	if conversationID == "" {
		return Message{}, fmt.Errorf("conversation id is required")
	}
	if role != RoleUser && role != RoleAssistant {
		return Message{}, fmt.Errorf("invalid message role: %s", role)
	}
	record := Message{
		ID:                 "msg_" + uuid.NewString(),
		ConversationID:     conversationID,
		Role:               role,
		Content:            input.Content,
		AttachedDocumentID: strings.TrimSpace(input.AttachedDocumentID),
		CreatedAt:          time.Now().UTC(),
	}
	result, err := s.db.ExecContext(
		ctx,
		`INSERT INTO messages (id, conversation_id, role, content, attached_document_id, created_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.ConversationID, record.Role, record.Content, record.AttachedDocumentID, record.CreatedAt.Unix(),
	)
	if err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}
	if seq, seqErr := result.LastInsertId(); seqErr == nil {
		record.Seq = seq
	}
	return record, nil
}

// ListMessages returns the transcript in append order. limit < 1 returns all.
func (s *Store) ListMessages(ctx context.Context, conversationID string, limit int) ([]Message, error) {
	query := `SELECT seq, id, conversation_id, role, content, attached_document_id, created_at_unix
		 FROM messages WHERE conversation_id = ? ORDER BY seq ASC`
	args := []any{strings.TrimSpace(conversationID)}
	if limit > 0 {
		// Keep the most recent entries while preserving append order.
		query = `SELECT seq, id, conversation_id, role, content, attached_document_id, created_at_unix FROM (
			SELECT seq, id, conversation_id, role, content, attached_document_id, created_at_unix
			FROM messages WHERE conversation_id = ? ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	results := []Message{}
	for rows.Next() {
		var record Message
		var createdAt int64
		if err := rows.Scan(&record.Seq, &record.ID, &record.ConversationID, &record.Role, &record.Content, &record.AttachedDocumentID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		record.CreatedAt = time.Unix(createdAt, 0).UTC()
		results = append(results, record)
	}
	return results, rows.Err()
}
