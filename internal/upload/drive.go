// Package upload stores bill documents (invoices, receipts) in Google Drive.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
)

// Document describes a stored file.
type Document struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	WebLink string `json:"web_link,omitempty"`
}

type DriveUploader struct {
	service  *gdrive.Service
	folderID string
}

// NewDriveUploader initializes a Drive client using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewDriveUploader(ctx context.Context, folderID string) (*DriveUploader, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	// Also check the standard Google Cloud environment variable
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gdrive.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gdrive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}

	slog.InfoContext(ctx, "Google Drive service created", "folder_id", folderID)

	return &DriveUploader{service: service, folderID: folderID}, nil
}

// Upload stores the content under name and returns the created document.
func (u *DriveUploader) Upload(ctx context.Context, name, mimeType string, content io.Reader) (Document, error) {
	meta := &gdrive.File{Name: name}
	if u.folderID != "" {
		meta.Parents = []string{u.folderID}
	}

	file, err := u.service.Files.Create(meta).
		Context(ctx).
		Media(content, mediaOptions(mimeType)...).
		Fields("id, name, webViewLink").
		Do()
	if err != nil {
		return Document{}, fmt.Errorf("upload file %q: %w", name, err)
	}

	slog.InfoContext(ctx, "Uploaded document to Drive",
		"file_id", file.Id,
		"name", file.Name)

	return Document{ID: file.Id, Name: file.Name, WebLink: file.WebViewLink}, nil
}

// Delete removes a previously uploaded document.
func (u *DriveUploader) Delete(ctx context.Context, fileID string) error {
	if err := u.service.Files.Delete(fileID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete file %q: %w", fileID, err)
	}
	return nil
}

func mediaOptions(mimeType string) []googleapi.MediaOption {
	if mimeType == "" {
		return nil
	}
	return []googleapi.MediaOption{googleapi.ContentType(mimeType)}
}
