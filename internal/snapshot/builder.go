package snapshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docfolio/docfolio/internal/store"
)

// Snapshot is the bounded, read-only projection of workspace state handed to
// the reasoning service each turn. It carries metadata only, never document
// content, and every collection in it has a hard cap so prompt size stays
// independent of workspace size. It is built fresh per call and discarded.
type Snapshot struct {
	Documents          []Document
	RemainingDocuments int
	Folders            []Folder
	Activities         []Activity
	Shares             []Share
	Stats              Stats
	Profile            Profile
}

type Document struct {
	ID        string
	Name      string
	Kind      string
	PageCount int
	FileSize  int64
	FolderID  string
	CreatedAt time.Time
}

type Folder struct {
	ID            string
	Name          string
	DocumentCount int
	Icon          string
}

type Activity struct {
	Kind      string
	Title     string
	CreatedAt time.Time
}

type Share struct {
	RecipientName string
	Status        string
	Timestamp     time.Time
}

type Stats struct {
	TotalDocuments  int
	TotalFolders    int
	DeliveredShares int
	TotalFileBytes  int64
}

type Profile struct {
	Name  string
	Email string
}

// Source is the slice of the workspace store the builder reads.
type Source interface {
	RecentDocuments(ctx context.Context, limit int) ([]store.Document, int, error)
	ListFolders(ctx context.Context) ([]store.Folder, error)
	RecentActivities(ctx context.Context, limit int) ([]store.Activity, error)
	RecentShares(ctx context.Context, limit int) ([]store.Share, error)
	DeliveredShareCount(ctx context.Context) (int, error)
	TotalFileSize(ctx context.Context) (int64, error)
	Profile(ctx context.Context) (store.Profile, error)
}

type Limits struct {
	MaxDocuments  int
	MaxActivities int
	MaxShares     int
}

type Builder struct {
	source Source
	limits Limits
}

func NewBuilder(source Source, limits Limits) *Builder {
	if limits.MaxDocuments < 1 {
		limits.MaxDocuments = 15
	}
	if limits.MaxActivities < 1 {
		limits.MaxActivities = 10
	}
	if limits.MaxShares < 1 {
		limits.MaxShares = 10
	}
	return &Builder{source: source, limits: limits}
}

func (b *Builder) Build(ctx context.Context) (Snapshot, error) {
	result := Snapshot{}

	documents, total, err := b.source.RecentDocuments(ctx, b.limits.MaxDocuments)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot documents: %w", err)
	}
	for _, record := range documents {
		result.Documents = append(result.Documents, Document{
			ID:        record.ID,
			Name:      record.Name,
			Kind:      record.Kind,
			PageCount: record.PageCount,
			FileSize:  record.FileSize,
			FolderID:  record.FolderID,
			CreatedAt: record.CreatedAt,
		})
	}
	if total > len(documents) {
		result.RemainingDocuments = total - len(documents)
	}
	result.Stats.TotalDocuments = total

	folders, err := b.source.ListFolders(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot folders: %w", err)
	}
	for _, record := range folders {
		result.Folders = append(result.Folders, Folder{
			ID:            record.ID,
			Name:          record.Name,
			DocumentCount: record.DocumentCount,
			Icon:          record.Icon,
		})
	}
	result.Stats.TotalFolders = len(folders)

	activities, err := b.source.RecentActivities(ctx, b.limits.MaxActivities)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot activities: %w", err)
	}
	for _, record := range activities {
		result.Activities = append(result.Activities, Activity{
			Kind:      record.Kind,
			Title:     record.Title,
			CreatedAt: record.CreatedAt,
		})
	}

	shares, err := b.source.RecentShares(ctx, b.limits.MaxShares)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot shares: %w", err)
	}
	for _, record := range shares {
		result.Shares = append(result.Shares, Share{
			RecipientName: record.RecipientName,
			Status:        record.Method + "/" + record.Status,
			Timestamp:     record.CreatedAt,
		})
	}

	delivered, err := b.source.DeliveredShareCount(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot delivered count: %w", err)
	}
	result.Stats.DeliveredShares = delivered

	totalBytes, err := b.source.TotalFileSize(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot file sizes: %w", err)
	}
	result.Stats.TotalFileBytes = totalBytes

	profile, err := b.source.Profile(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot profile: %w", err)
	}
	result.Profile = Profile{Name: profile.Name, Email: profile.Email}

	return result, nil
}

// Render serializes the snapshot as the compact text block embedded in the
// reasoning prompt.
func (s Snapshot) Render() string {
	builder := strings.Builder{}

	fmt.Fprintf(&builder, "Stats: %d documents, %d folders, %d delivered shares, %d bytes stored\n",
		s.Stats.TotalDocuments, s.Stats.TotalFolders, s.Stats.DeliveredShares, s.Stats.TotalFileBytes)
	if s.Profile.Name != "" || s.Profile.Email != "" {
		fmt.Fprintf(&builder, "User: %s <%s>\n", s.Profile.Name, s.Profile.Email)
	}

	builder.WriteString("Documents:\n")
	if len(s.Documents) == 0 {
		builder.WriteString("  (none)\n")
	}
	for _, document := range s.Documents {
		fmt.Fprintf(&builder, "  - id=%s name=%q kind=%s pages=%d size=%d folder=%s created=%s\n",
			document.ID, document.Name, document.Kind, document.PageCount, document.FileSize,
			orDash(document.FolderID), document.CreatedAt.Format(time.RFC3339))
	}
	if s.RemainingDocuments > 0 {
		fmt.Fprintf(&builder, "  ... and %d more documents\n", s.RemainingDocuments)
	}

	builder.WriteString("Folders:\n")
	if len(s.Folders) == 0 {
		builder.WriteString("  (none)\n")
	}
	for _, folder := range s.Folders {
		fmt.Fprintf(&builder, "  - id=%s name=%q documents=%d icon=%s\n", folder.ID, folder.Name, folder.DocumentCount, folder.Icon)
	}

	if len(s.Activities) > 0 {
		builder.WriteString("Recent activity:\n")
		for _, activity := range s.Activities {
			fmt.Fprintf(&builder, "  - [%s] %s (%s)\n", activity.Kind, activity.Title, activity.CreatedAt.Format(time.RFC3339))
		}
	}
	if len(s.Shares) > 0 {
		builder.WriteString("Recent shares:\n")
		for _, share := range s.Shares {
			fmt.Fprintf(&builder, "  - %s (%s, %s)\n", share.RecipientName, share.Status, share.Timestamp.Format(time.RFC3339))
		}
	}
	return strings.TrimSpace(builder.String())
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
