package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/docfolio/docfolio/internal/assisterr"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "docfolio_test.sqlite")
	sqlStore, err := New(dbPath)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { _ = sqlStore.Close() })
	if err := sqlStore.AutoMigrate(context.Background()); err != nil {
		t.Fatalf("migrate test store: %v", err)
	}
	return sqlStore
}

func TestDocumentLifecycle(t *testing.T) {
	sqlStore := newTestStore(t)
	ctx := context.Background()

	created, err := sqlStore.CreateDocument(ctx, CreateDocumentInput{
		Name:    "Transcript.pdf",
		Kind:    "pdf",
		Content: "grades",
	})
	if err != nil {
		t.Fatalf("create document: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected document id")
	}
	if created.FileSize != int64(len("grades")) {
		t.Fatalf("expected derived file size, got %d", created.FileSize)
	}

	renamed, err := sqlStore.RenameDocument(ctx, created.ID, "Transcript 2026.pdf")
	if err != nil {
		t.Fatalf("rename document: %v", err)
	}
	if renamed.Name != "Transcript 2026.pdf" {
		t.Fatalf("unexpected name: %s", renamed.Name)
	}

	copyDoc, err := sqlStore.DuplicateDocument(ctx, created.ID)
	if err != nil {
		t.Fatalf("duplicate document: %v", err)
	}
	if copyDoc.Name != "Transcript 2026.pdf (copy)" {
		t.Fatalf("unexpected copy name: %s", copyDoc.Name)
	}

	deleted, err := sqlStore.DeleteDocument(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete document: %v", err)
	}
	if !deleted {
		t.Fatal("expected first delete to report deleted")
	}

	// Stale second delete must be a quiet no-op.
	deleted, err = sqlStore.DeleteDocument(ctx, created.ID)
	if err != nil {
		t.Fatalf("stale delete should not error: %v", err)
	}
	if deleted {
		t.Fatal("expected stale delete to report not deleted")
	}
}

func TestFolderMembership(t *testing.T) {
	sqlStore := newTestStore(t)
	ctx := context.Background()

	folder, err := sqlStore.CreateFolder(ctx, "Taxes", "")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	if folder.Icon != "folder" {
		t.Fatalf("expected default icon, got %s", folder.Icon)
	}

	doc, err := sqlStore.CreateDocument(ctx, CreateDocumentInput{Name: "W2.pdf"})
	if err != nil {
		t.Fatalf("create document: %v", err)
	}

	moved, err := sqlStore.MoveDocumentToFolder(ctx, doc.ID, folder.ID)
	if err != nil {
		t.Fatalf("move to folder: %v", err)
	}
	if moved.FolderID != folder.ID {
		t.Fatalf("expected folder id %s, got %s", folder.ID, moved.FolderID)
	}

	loaded, err := sqlStore.LookupFolder(ctx, folder.ID)
	if err != nil {
		t.Fatalf("lookup folder: %v", err)
	}
	if loaded.DocumentCount != 1 {
		t.Fatalf("expected one document in folder, got %d", loaded.DocumentCount)
	}

	// Removing with the wrong folder id is a no-op.
	unchanged, err := sqlStore.RemoveDocumentFromFolder(ctx, doc.ID, "fld_other")
	if err != nil {
		t.Fatalf("remove with wrong folder: %v", err)
	}
	if unchanged.FolderID != folder.ID {
		t.Fatal("expected membership to be unchanged")
	}

	removed, err := sqlStore.RemoveDocumentFromFolder(ctx, doc.ID, folder.ID)
	if err != nil {
		t.Fatalf("remove from folder: %v", err)
	}
	if removed.FolderID != "" {
		t.Fatalf("expected cleared folder id, got %s", removed.FolderID)
	}
}

func TestDeleteFolderDetachesDocuments(t *testing.T) {
	sqlStore := newTestStore(t)
	ctx := context.Background()

	folder, err := sqlStore.CreateFolder(ctx, "Receipts", "receipt")
	if err != nil {
		t.Fatalf("create folder: %v", err)
	}
	doc, err := sqlStore.CreateDocument(ctx, CreateDocumentInput{Name: "Lunch.pdf", FolderID: folder.ID})
	if err != nil {
		t.Fatalf("create document: %v", err)
	}

	deleted, err := sqlStore.DeleteFolder(ctx, folder.ID)
	if err != nil {
		t.Fatalf("delete folder: %v", err)
	}
	if !deleted {
		t.Fatal("expected folder delete")
	}

	loaded, err := sqlStore.LookupDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("lookup document: %v", err)
	}
	if loaded.FolderID != "" {
		t.Fatalf("expected detached document, got folder %s", loaded.FolderID)
	}
}

func TestRecentDocumentsReportsTotal(t *testing.T) {
	sqlStore := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		if _, err := sqlStore.CreateDocument(ctx, CreateDocumentInput{Name: "doc", Content: "x"}); err != nil {
			t.Fatalf("create document %d: %v", i, err)
		}
	}
	recent, total, err := sqlStore.RecentDocuments(ctx, 15)
	if err != nil {
		t.Fatalf("recent documents: %v", err)
	}
	if len(recent) != 15 {
		t.Fatalf("expected 15 documents, got %d", len(recent))
	}
	if total != 30 {
		t.Fatalf("expected total 30, got %d", total)
	}
}

func TestLookupDocumentNotFound(t *testing.T) {
	sqlStore := newTestStore(t)
	if _, err := sqlStore.LookupDocument(context.Background(), "doc_missing"); !errors.Is(err, assisterr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
