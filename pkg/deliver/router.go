package deliver

import (
	"context"

	"cloud.google.com/go/storage"

	"github.com/goliatone/go-formpipe/pkg/config"
	"github.com/goliatone/go-formpipe/pkg/fail"
)

// Select returns the single channel the configuration names, validating
// that channel's settings eagerly so misconfiguration surfaces at
// startup instead of on the first submission. Validation runs before
// any external client is constructed, so a misconfigured deployment
// sees the missing environment variables rather than a client error.
// recorder receives the artifact URL after storage uploads; the other
// channels ignore it, and nil disables recording.
func Select(ctx context.Context, cfg config.Config, recorder URLRecorder) (Channel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Channel {
	case config.ChannelEmail:
		return NewEmail(cfg.SMTP, cfg.Inbox)
	case config.ChannelStorage:
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fail.Internal("create storage client", err)
		}
		var options []StorageOption
		if recorder != nil {
			options = append(options, WithURLRecorder(recorder))
		}
		return NewStorage(NewGCSBlobStore(client, cfg.Storage.Bucket), cfg.Storage, options...)
	case config.ChannelDrive:
		api, err := NewGoogleDrive(ctx, cfg.Drive.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return NewDrive(api, cfg.Drive)
	default:
		return nil, fail.FailedPrecondition("unknown delivery channel", string(cfg.Channel))
	}
}
