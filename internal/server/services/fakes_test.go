package services

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/linkproof/internal/dbx"
	"github.com/dmitrijs2005/linkproof/internal/server/models"
	"github.com/dmitrijs2005/linkproof/internal/server/notify"
	"github.com/dmitrijs2005/linkproof/internal/server/repositories/receipts"
	refreshtokensrepo "github.com/dmitrijs2005/linkproof/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/linkproof/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeUsersRepo struct {
	createOut *models.User
	createErr error
	created   *models.User

	getOut *models.User
	getErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.created = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.GetUserByLogin(ctx, id)
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	delErr  error
	deleted []string

	createErr error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	return f.createErr
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return f.delErr
}

// fakeReceiptsRepo is an in-memory receipts.Repository. When block is set,
// every call waits for ctx to end. With ignoreCtx the call instead waits for
// release to be closed (forever if it is nil) and then proceeds.
type fakeReceiptsRepo struct {
	mu        sync.Mutex
	items     []*models.Receipt
	err       error
	block     bool
	ignoreCtx bool
	release   chan struct{}
}

func (f *fakeReceiptsRepo) wait(ctx context.Context) error {
	if !f.block {
		return f.err
	}
	if f.ignoreCtx {
		if f.release == nil {
			select {}
		}
		<-f.release
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeReceiptsRepo) Create(ctx context.Context, r *models.Receipt) (*models.Receipt, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == "" {
		r.ID = "r-" + string(rune('a'+len(f.items)))
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	f.items = append(f.items, r)
	return r, nil
}

func (f *fakeReceiptsRepo) ExistsByDigest(ctx context.Context, digest string) (bool, error) {
	if err := f.wait(ctx); err != nil {
		return false, err
	}
	_, found, _ := f.FindByDigest(ctx, digest)
	return found, nil
}

func (f *fakeReceiptsRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Receipt, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Receipt, 0)
	for i := len(f.items) - 1; i >= 0; i-- {
		if o := f.items[i].OwnerID; o != nil && *o == ownerID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeReceiptsRepo) FindByDigest(ctx context.Context, digest string) (*models.Receipt, bool, error) {
	if f.block {
		if err := f.wait(ctx); err != nil {
			return nil, false, err
		}
	} else if f.err != nil {
		return nil, false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.items {
		if r.Digest == digest {
			return r, true, nil
		}
	}
	return nil, false, nil
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	r  *fakeRefreshRepo
	rc *fakeReceiptsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Receipts(db dbx.DBTX) receipts.Repository               { return m.rc }

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Publish(_ context.Context, e notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}
