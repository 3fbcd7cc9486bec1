package ports

import (
	"context"

	"goscreen/domain/core"
	"goscreen/domain/screening"
)

// SessionStorePort isolates live sessions from each other. State lives for
// the process lifetime only; there is no cross-restart persistence.
type SessionStorePort interface {
	Save(ctx context.Context, session *screening.Session) error
	Get(ctx context.Context, id core.SessionID) (*screening.Session, error)
	Delete(ctx context.Context, id core.SessionID) error
	List(ctx context.Context) ([]*screening.Session, error)
}
