package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
	"github.com/lorrc/testing-insight/internal/core/ports"
)

// DriveSource lists and downloads files of one Google Drive folder.
type DriveSource struct {
	files    *drive.FilesService
	folderID string
}

var _ ports.FileSource = (*DriveSource)(nil)

// NewDriveSource authenticates with a service-account credentials file and
// scopes the source to folderID.
func NewDriveSource(ctx context.Context, credentialsFile, folderID string) (ports.FileSource, error) {
	svc, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}
	return &DriveSource{files: svc.Files, folderID: folderID}, nil
}

// List returns the non-trashed files directly inside the folder. When two
// files share a name the last one listed wins.
func (s *DriveSource) List(ctx context.Context) (map[string]string, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", s.folderID)

	files := make(map[string]string)
	err := s.files.List().
		Q(query).
		Fields("nextPageToken, files(id, name)").
		PageSize(1000).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				files[f.Name] = f.Id
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list drive folder %s: %w", s.folderID, err)
	}
	return files, nil
}

// Open downloads the file content.
func (s *DriveSource) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	resp, err := s.files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", id, apperrors.ErrFileNotFound)
		}
		return nil, fmt.Errorf("download drive file %s: %w", id, err)
	}
	return resp.Body, nil
}
