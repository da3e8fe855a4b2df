package source

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/chintiahildayanti/Retrieval-Augmented-Generation-RAG/internal/models"
)

const mimeTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxSpreadsheetSize caps the spreadsheet download (10MB).
const maxSpreadsheetSize = 10 * 1024 * 1024

// DriveSource locates the most recently created spreadsheet in a Drive
// folder. Failures surface as errors; callers fall back to the local table
// rather than aborting.
type DriveSource struct {
	svc      *drive.Service
	folderID string
}

// NewDriveSource builds a Drive client from a service-account credentials
// file.
func NewDriveSource(ctx context.Context, credentialsFile, folderID string) (*DriveSource, error) {
	if folderID == "" {
		return nil, fmt.Errorf("drive: folder id is required")
	}
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("drive: create service: %w", err)
	}
	return &DriveSource{svc: svc, folderID: folderID}, nil
}

// FetchLatestTable downloads and parses the newest xlsx file in the folder.
// It returns the parsed table and the source filename.
func (s *DriveSource) FetchLatestTable(ctx context.Context) (*models.Table, string, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false", s.folderID, mimeTypeXLSX)
	res, err := s.svc.Files.List().
		Q(query).
		Fields("files(id, name, createdTime)").
		OrderBy("createdTime desc").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, "", fmt.Errorf("drive: list files: %w", err)
	}
	if len(res.Files) == 0 {
		return nil, "", fmt.Errorf("drive: %w in folder %s", ErrNoTable, s.folderID)
	}

	file := res.Files[0]
	resp, err := s.svc.Files.Get(file.Id).Context(ctx).Download()
	if err != nil {
		return nil, "", fmt.Errorf("drive: download %s: %w", file.Name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSpreadsheetSize))
	if err != nil {
		return nil, "", fmt.Errorf("drive: read %s: %w", file.Name, err)
	}

	table, err := ReadBytes(data)
	if err != nil {
		return nil, "", fmt.Errorf("drive: parse %s: %w", file.Name, err)
	}
	return table, file.Name, nil
}
