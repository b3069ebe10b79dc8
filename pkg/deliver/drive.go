package deliver

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/goliatone/go-formpipe/pkg/config"
	"github.com/goliatone/go-formpipe/pkg/fail"
)

const folderMIMEType = "application/vnd.google-apps.folder"

// DriveAPI abstracts the drive operations the channel needs. The
// production implementation wraps the Drive v3 service.
type DriveAPI interface {
	FindFolder(ctx context.Context, name, parentID string) (string, error)
	CreateFolder(ctx context.Context, name, parentID string) (string, error)
	UploadFile(ctx context.Context, name, parentID, contentType string, data []byte) (id, link string, err error)
}

// DriveChannel files the artifact under a two-level folder hierarchy
// rooted at a configured folder: group label first, form title second.
// Folders are created on first use and reused afterwards.
type DriveChannel struct {
	api    DriveAPI
	rootID string
	now    func() time.Time
}

// DriveOption customises a DriveChannel.
type DriveOption func(*DriveChannel)

// WithDriveClock injects the result timestamp clock.
func WithDriveClock(now func() time.Time) DriveOption {
	return func(c *DriveChannel) {
		if now != nil {
			c.now = now
		}
	}
}

// NewDrive constructs the channel over an existing DriveAPI.
func NewDrive(api DriveAPI, cfg config.Drive, options ...DriveOption) (*DriveChannel, error) {
	if err := (config.Config{Channel: config.ChannelDrive, Drive: cfg}).Validate(); err != nil {
		return nil, err
	}

	c := &DriveChannel{
		api:    api,
		rootID: cfg.RootFolderID,
		now:    time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Name reports the channel identity.
func (c *DriveChannel) Name() config.Channel {
	return config.ChannelDrive
}

// Deliver resolves the group and form-title folders under the root,
// creating whichever is missing, then uploads the artifact into the
// leaf. Concurrent submissions may race folder creation and leave
// duplicate folders; both remain reachable and uploads still land.
func (c *DriveChannel) Deliver(ctx context.Context, delivery Delivery) (Result, error) {
	groupName := strings.TrimSpace(delivery.Document.GroupLabel)
	if groupName == "" {
		groupName = "כללי"
	}
	titleName := delivery.Form.DisplayTitle()

	groupID, err := c.ensureFolder(ctx, groupName, c.rootID)
	if err != nil {
		return Result{}, err
	}
	leafID, err := c.ensureFolder(ctx, titleName, groupID)
	if err != nil {
		return Result{}, err
	}

	fileName := AttachmentName(delivery.Document.SubjectName, delivery.Document.GroupLabel, delivery.Document.Title)
	id, link, err := c.api.UploadFile(ctx, fileName, leafID, "application/pdf", delivery.Artifact)
	if err != nil {
		return Result{}, fail.Internal("upload drive file", err)
	}

	locator := link
	if locator == "" {
		locator = id
	}
	return Result{
		Channel:     config.ChannelDrive,
		Locator:     locator,
		Destination: groupName + "/" + titleName + "/" + fileName,
		Timestamp:   c.now(),
	}, nil
}

func (c *DriveChannel) ensureFolder(ctx context.Context, name, parentID string) (string, error) {
	id, err := c.api.FindFolder(ctx, name, parentID)
	if err != nil {
		return "", fail.Internal("look up drive folder", err)
	}
	if id != "" {
		return id, nil
	}
	id, err = c.api.CreateFolder(ctx, name, parentID)
	if err != nil {
		return "", fail.Internal("create drive folder", err)
	}
	return id, nil
}

// GoogleDrive implements DriveAPI over the Drive v3 service.
type GoogleDrive struct {
	service *drive.Service
}

// NewGoogleDrive builds a Drive v3 client from a service-account
// credentials file.
func NewGoogleDrive(ctx context.Context, credentialsFile string) (*GoogleDrive, error) {
	service, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fail.Internal("create drive client", err)
	}
	return &GoogleDrive{service: service}, nil
}

// FindFolder returns the id of a non-trashed folder with the given name
// directly under the parent, or "" when none exists.
func (d *GoogleDrive) FindFolder(ctx context.Context, name, parentID string) (string, error) {
	query := fmt.Sprintf("name='%s' and mimeType='%s' and '%s' in parents and trashed=false",
		escapeDriveQuery(name), folderMIMEType, escapeDriveQuery(parentID))
	list, err := d.service.Files.List().
		Q(query).
		Fields("files(id)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", err
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

// CreateFolder creates a folder under the parent and returns its id.
func (d *GoogleDrive) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	folder, err := d.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMIMEType,
		Parents:  []string{parentID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return folder.Id, nil
}

// UploadFile uploads the content under the parent and returns the file
// id and viewer link.
func (d *GoogleDrive) UploadFile(ctx context.Context, name, parentID, contentType string, data []byte) (string, string, error) {
	file, err := d.service.Files.Create(&drive.File{
		Name:    name,
		Parents: []string{parentID},
	}).Media(bytes.NewReader(data), googleapi.ContentType(contentType)).Fields("id", "webViewLink").Context(ctx).Do()
	if err != nil {
		return "", "", err
	}
	return file.Id, file.WebViewLink, nil
}

// escapeDriveQuery escapes the characters Drive query string literals
// treat specially.
func escapeDriveQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
