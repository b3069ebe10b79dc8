package deliver_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpipe/pkg/config"
	"github.com/goliatone/go-formpipe/pkg/deliver"
	"github.com/goliatone/go-formpipe/pkg/fail"
)

type fakeDrive struct {
	// folders maps parentID -> name -> folderID.
	folders   map[string]map[string]string
	creates   int
	uploads   []string
	uploadErr error
	nextID    int
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{folders: map[string]map[string]string{}}
}

func (d *fakeDrive) FindFolder(_ context.Context, name, parentID string) (string, error) {
	return d.folders[parentID][name], nil
}

func (d *fakeDrive) CreateFolder(_ context.Context, name, parentID string) (string, error) {
	d.creates++
	d.nextID++
	id := "folder-" + string(rune('a'+d.nextID-1))
	if d.folders[parentID] == nil {
		d.folders[parentID] = map[string]string{}
	}
	d.folders[parentID][name] = id
	return id, nil
}

func (d *fakeDrive) UploadFile(_ context.Context, name, parentID, _ string, _ []byte) (string, string, error) {
	if d.uploadErr != nil {
		return "", "", d.uploadErr
	}
	d.uploads = append(d.uploads, parentID+"/"+name)
	return "file-1", "https://drive.example.com/file-1", nil
}

func TestDriveDeliverCreatesFolderHierarchy(t *testing.T) {
	api := newFakeDrive()
	channel, err := deliver.NewDrive(api, config.Drive{RootFolderID: "root", CredentialsFile: "service-account.json"},
		deliver.WithDriveClock(func() time.Time {
			return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
		}),
	)
	if err != nil {
		t.Fatalf("NewDrive: %v", err)
	}

	got, err := channel.Deliver(context.Background(), testDelivery())
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	if api.creates != 2 {
		t.Fatalf("created %d folders, want 2", api.creates)
	}
	groupID := api.folders["root"]["Group A"]
	if groupID == "" {
		t.Fatal("group folder missing under root")
	}
	if api.folders[groupID]["Trip Form"] == "" {
		t.Fatal("title folder missing under group folder")
	}
	if got.Locator != "https://drive.example.com/file-1" {
		t.Fatalf("locator = %q", got.Locator)
	}
	if want := "Group A/Trip Form/Dana_Levi-Group_A-Trip_Form.pdf"; got.Destination != want {
		t.Fatalf("destination = %q, want %q", got.Destination, want)
	}
	if want := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC); !got.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", got.Timestamp, want)
	}
}

func TestDriveDeliverReusesExistingFolders(t *testing.T) {
	api := newFakeDrive()
	channel, err := deliver.NewDrive(api, config.Drive{RootFolderID: "root", CredentialsFile: "service-account.json"})
	if err != nil {
		t.Fatalf("NewDrive: %v", err)
	}

	if _, err := channel.Deliver(context.Background(), testDelivery()); err != nil {
		t.Fatalf("first Deliver: %v", err)
	}
	if _, err := channel.Deliver(context.Background(), testDelivery()); err != nil {
		t.Fatalf("second Deliver: %v", err)
	}

	if api.creates != 2 {
		t.Fatalf("created %d folders across two deliveries, want 2", api.creates)
	}
	if len(api.uploads) != 2 {
		t.Fatalf("uploads = %v, want 2 entries", api.uploads)
	}
	if diff := cmp.Diff(api.uploads[0], api.uploads[1]); diff != "" {
		t.Fatalf("uploads landed in different folders (-first +second):\n%s", diff)
	}
}

func TestDriveDeliverDefaultsGroupFolder(t *testing.T) {
	api := newFakeDrive()
	channel, err := deliver.NewDrive(api, config.Drive{RootFolderID: "root", CredentialsFile: "service-account.json"})
	if err != nil {
		t.Fatalf("NewDrive: %v", err)
	}

	delivery := testDelivery()
	delivery.Document.GroupLabel = ""

	if _, err := channel.Deliver(context.Background(), delivery); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if api.folders["root"]["כללי"] == "" {
		t.Fatal("fallback group folder missing under root")
	}
}

func TestDriveDeliverUploadFailure(t *testing.T) {
	api := newFakeDrive()
	api.uploadErr = errors.New("quota exceeded")
	channel, err := deliver.NewDrive(api, config.Drive{RootFolderID: "root", CredentialsFile: "service-account.json"})
	if err != nil {
		t.Fatalf("NewDrive: %v", err)
	}

	_, err = channel.Deliver(context.Background(), testDelivery())
	if !fail.IsKind(err, fail.KindInternal) {
		t.Fatalf("Deliver error = %v, want internal", err)
	}
}

func TestDriveNewRejectsMissingRoot(t *testing.T) {
	_, err := deliver.NewDrive(newFakeDrive(), config.Drive{})
	if !fail.IsKind(err, fail.KindFailedPrecondition) {
		t.Fatalf("NewDrive error = %v, want failed-precondition", err)
	}
}
