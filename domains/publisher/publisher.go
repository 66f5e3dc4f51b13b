package publisher

import (
	"context"

	"github.com/AzielCF/az-autopost/domains/session"
)

// IPublisher is the remote account we publish to.
type IPublisher interface {
	// Login authenticates with credentials. prev, when non-nil, is a restored session
	// whose device identity should be kept.
	Login(ctx context.Context, creds session.Credentials, prev *session.Session) (*session.Session, error)

	// Restore checks that a persisted session can be resumed.
	Restore(ctx context.Context, s *session.Session) error

	UploadPhoto(ctx context.Context, s *session.Session, path, caption string) (mediaID string, err error)
}

// IMediaPreparer turns a content file into something the publisher accepts.
// The returned cleanup func must always be called.
type IMediaPreparer interface {
	Prepare(path string) (prepared string, cleanup func(), err error)
}
