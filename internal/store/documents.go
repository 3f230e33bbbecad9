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

type Document struct {
	ID        string
	Name      string
	Kind      string
	PageCount int
	FileSize  int64
	FolderID  string
	Content   string
	CreatedAt time.Time
}

type Folder struct {
	ID            string
	Name          string
	Icon          string
	DocumentCount int
	CreatedAt     time.Time
}

type CreateDocumentInput struct {
	Name      string
	Kind      string
	Content   string
	FolderID  string
	PageCount int
	FileSize  int64
}

func (s *Store) CreateDocument(ctx context.Context, input CreateDocumentInput) (Document, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Document{}, fmt.Errorf("document name is required")
	}
	kind := strings.ToLower(strings.TrimSpace(input.Kind))
	if kind == "" {
		kind = "pdf"
	}
	fileSize := input.FileSize
	if fileSize <= 0 {
		fileSize = int64(len(input.Content))
	}
	record := Document{
		ID:        "doc_" + uuid.NewString(),
		Name:      name,
		Kind:      kind,
		PageCount: input.PageCount,
		FileSize:  fileSize,
		FolderID:  strings.TrimSpace(input.FolderID),
		Content:   input.Content,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO documents (id, name, kind, page_count, file_size, folder_id, content, created_at_unix)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Name, record.Kind, record.PageCount, record.FileSize, record.FolderID, record.Content, record.CreatedAt.Unix(),
	); err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	return record, nil
}

func (s *Store) LookupDocument(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, name, kind, page_count, file_size, folder_id, content, created_at_unix
		 FROM documents WHERE id = ?`,
		strings.TrimSpace(id),
	)
	record, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, assisterr.ErrNotFound
		}
		return Document{}, err
	}
	return record, nil
}

// DeleteDocument removes the document if present. Deleting an id that no
// longer exists reports deleted=false without an error so stale references
// stay harmless.
func (s *Store) DeleteDocument(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, strings.TrimSpace(id))
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete document rows: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) RenameDocument(ctx context.Context, id, newName string) (Document, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return Document{}, fmt.Errorf("new document name is required")
	}
	record, err := s.LookupDocument(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE documents SET name = ? WHERE id = ?`, newName, record.ID); err != nil {
		return Document{}, fmt.Errorf("rename document: %w", err)
	}
	record.Name = newName
	return record, nil
}

func (s *Store) DuplicateDocument(ctx context.Context, id string) (Document, error) {
	original, err := s.LookupDocument(ctx, id)
	if err != nil {
		return Document{}, err
	}
	return s.CreateDocument(ctx, CreateDocumentInput{
		Name:      original.Name + " (copy)",
		Kind:      original.Kind,
		Content:   original.Content,
		FolderID:  original.FolderID,
		PageCount: original.PageCount,
		FileSize:  original.FileSize,
	})
}

func (s *Store) MoveDocumentToFolder(ctx context.Context, documentID, folderID string) (Document, error) {
	record, err := s.LookupDocument(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	folder, err := s.LookupFolder(ctx, folderID)
	if err != nil {
		return Document{}, err
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE documents SET folder_id = ? WHERE id = ?`, folder.ID, record.ID); err != nil {
		return Document{}, fmt.Errorf("move document: %w", err)
	}
	record.FolderID = folder.ID
	return record, nil
}

// RemoveDocumentFromFolder clears the membership only when the document is
// actually in the named folder; a mismatched folder id is a no-op.
func (s *Store) RemoveDocumentFromFolder(ctx context.Context, documentID, folderID string) (Document, error) {
	record, err := s.LookupDocument(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if record.FolderID != strings.TrimSpace(folderID) {
		return record, nil
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE documents SET folder_id = '' WHERE id = ?`, record.ID); err != nil {
		return Document{}, fmt.Errorf("remove document from folder: %w", err)
	}
	record.FolderID = ""
	return record, nil
}

// RecentDocuments returns up to limit documents ordered newest first, plus
// the total count so callers can report how many were left out.
func (s *Store) RecentDocuments(ctx context.Context, limit int) ([]Document, int, error) {
	if limit < 1 {
		limit = 15
	}
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, name, kind, page_count, file_size, folder_id, content, created_at_unix
		 FROM documents ORDER BY created_at_unix DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query recent documents: %w", err)
	}
	defer rows.Close()

	results := []Document{}
	for rows.Next() {
		record, scanErr := scanDocument(rows)
		if scanErr != nil {
			return nil, 0, scanErr
		}
		results = append(results, record)
	}
	return results, total, rows.Err()
}

func (s *Store) TotalFileSize(ctx context.Context) (int64, error) {
	var total sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT SUM(file_size) FROM documents`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum file sizes: %w", err)
	}
	return total.Int64, nil
}

func (s *Store) CreateFolder(ctx context.Context, name, icon string) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Folder{}, fmt.Errorf("folder name is required")
	}
	icon = strings.TrimSpace(icon)
	if icon == "" {
		icon = "folder"
	}
	record := Folder{
		ID:        "fld_" + uuid.NewString(),
		Name:      name,
		Icon:      icon,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO folders (id, name, icon, created_at_unix) VALUES (?, ?, ?, ?)`,
		record.ID, record.Name, record.Icon, record.CreatedAt.Unix(),
	); err != nil {
		return Folder{}, fmt.Errorf("insert folder: %w", err)
	}
	return record, nil
}

func (s *Store) LookupFolder(ctx context.Context, id string) (Folder, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT f.id, f.name, f.icon, f.created_at_unix,
			(SELECT COUNT(*) FROM documents d WHERE d.folder_id = f.id)
		 FROM folders f WHERE f.id = ?`,
		strings.TrimSpace(id),
	)
	var record Folder
	var createdAt int64
	if err := row.Scan(&record.ID, &record.Name, &record.Icon, &createdAt, &record.DocumentCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Folder{}, assisterr.ErrNotFound
		}
		return Folder{}, fmt.Errorf("lookup folder: %w", err)
	}
	record.CreatedAt = time.Unix(createdAt, 0).UTC()
	return record, nil
}

// DeleteFolder removes the folder and detaches its documents. Missing ids
// report deleted=false without error.
func (s *Store) DeleteFolder(ctx context.Context, id string) (bool, error) {
	folderID := strings.TrimSpace(id)
	if _, err := s.db.ExecContext(ctx, `UPDATE documents SET folder_id = '' WHERE folder_id = ?`, folderID); err != nil {
		return false, fmt.Errorf("detach folder documents: %w", err)
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, folderID)
	if err != nil {
		return false, fmt.Errorf("delete folder: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete folder rows: %w", err)
	}
	return affected > 0, nil
}

func (s *Store) RenameFolder(ctx context.Context, id, newName string) (Folder, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return Folder{}, fmt.Errorf("new folder name is required")
	}
	record, err := s.LookupFolder(ctx, id)
	if err != nil {
		return Folder{}, err
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE folders SET name = ? WHERE id = ?`, newName, record.ID); err != nil {
		return Folder{}, fmt.Errorf("rename folder: %w", err)
	}
	record.Name = newName
	return record, nil
}

func (s *Store) ListFolders(ctx context.Context) ([]Folder, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT f.id, f.name, f.icon, f.created_at_unix,
			(SELECT COUNT(*) FROM documents d WHERE d.folder_id = f.id)
		 FROM folders f ORDER BY f.created_at_unix ASC, f.id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query folders: %w", err)
	}
	defer rows.Close()

	results := []Folder{}
	for rows.Next() {
		var record Folder
		var createdAt int64
		if err := rows.Scan(&record.ID, &record.Name, &record.Icon, &createdAt, &record.DocumentCount); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		record.CreatedAt = time.Unix(createdAt, 0).UTC()
		results = append(results, record)
	}
	return results, rows.Err()
}

type documentScanner interface {
	Scan(dest ...any) error
}

func scanDocument(scanner documentScanner) (Document, error) {
	var record Document
	var createdAt int64
	if err := scanner.Scan(&record.ID, &record.Name, &record.Kind, &record.PageCount, &record.FileSize, &record.FolderID, &record.Content, &createdAt); err != nil {
		return Document{}, err
	}
	record.CreatedAt = time.Unix(createdAt, 0).UTC()
	return record, nil
}
