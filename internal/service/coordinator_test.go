package service

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/arafatrahman/Property-Rental-Management/internal/auth"
	"github.com/arafatrahman/Property-Rental-Management/internal/clock"
	"github.com/arafatrahman/Property-Rental-Management/internal/models"
	"github.com/arafatrahman/Property-Rental-Management/internal/repository"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct {
	mu        sync.Mutex
	users     map[string]string
	deleted   []string
	signedOut []string
	signUpErr error
	// gate, when set, blocks SignUp until it is closed
	gate    chan struct{}
	entered chan struct{}
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{users: map[string]string{}}
}

func (f *fakeIdentity) SignUp(_ context.Context, email, _ string) (auth.Identity, error) {
	if f.entered != nil {
		close(f.entered)
	}
	if f.gate != nil {
		<-f.gate
	}
	if f.signUpErr != nil {
		return auth.Identity{}, f.signUpErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[email]; ok {
		return auth.Identity{}, auth.ErrEmailTaken
	}
	id := "uid-" + email
	f.users[email] = id
	return auth.Identity{UserID: id, Email: email, Token: "token-" + id}, nil
}

func (f *fakeIdentity) SignIn(_ context.Context, email, _ string) (auth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.users[email]
	if !ok {
		return auth.Identity{}, auth.ErrInvalidCredentials
	}
	return auth.Identity{UserID: id, Email: email, Token: "token-" + id}, nil
}

func (f *fakeIdentity) SignOut(_ context.Context, userID string) error {
	f.mu.Lock()
	f.signedOut = append(f.signedOut, userID)
	f.mu.Unlock()
	return nil
}

func (f *fakeIdentity) DeleteAccount(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, id := range f.users {
		if id == userID {
			delete(f.users, email)
		}
	}
	f.deleted = append(f.deleted, userID)
	return nil
}

func (f *fakeIdentity) Verify(token string) (auth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, id := range f.users {
		if token == "token-"+id {
			return auth.Identity{UserID: id, Email: email, Token: token}, nil
		}
	}
	return auth.Identity{}, auth.ErrInvalidToken
}

// flakyRemote wraps a MemoryStore and fails saves or loads on demand
type flakyRemote struct {
	*repository.MemoryStore
	saveErr error
	loadErr error
}

func (r *flakyRemote) Save(ctx context.Context, userID string, data *models.AppData) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	return r.MemoryStore.Save(ctx, userID, data)
}

func (r *flakyRemote) Load(ctx context.Context, userID string) (*models.AppData, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.MemoryStore.Load(ctx, userID)
}

type harness struct {
	svc      *Service
	coord    *Coordinator
	local    *repository.LocalStore
	remote   *flakyRemote
	identity *fakeIdentity
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log, _ := test.NewNullLogger()
	dir := t.TempDir()
	svc := NewService(clock.NewFixed(now), log)
	t.Cleanup(svc.Close)

	h := &harness{
		svc:      svc,
		local:    repository.NewLocalStore(dir+"/snapshot.json", log),
		remote:   &flakyRemote{MemoryStore: repository.NewMemoryStore()},
		identity: newFakeIdentity(),
	}
	h.coord = NewCoordinator(svc, h.local, h.remote, h.identity, log)
	require.NoError(t, h.coord.Start(context.Background(), ""))
	return h
}

func (h *harness) addGuestProperty(t *testing.T, name string) models.Property {
	t.Helper()
	p, err := h.svc.AddProperty(models.Property{Name: name, Rent: dec(100)})
	require.NoError(t, err)
	h.svc.Flush()
	return p
}

func TestStartAsGuest(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, StateSignedOut, h.coord.State())
	_, ok := h.coord.Identity()
	assert.False(t, ok)
	assert.NotEmpty(t, h.svc.ListCategories())
}

func TestSignUpMigratesGuestData(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	p := h.addGuestProperty(t, "Guest flat")

	id, err := h.coord.SignUp(ctx, "ada@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, StateSignedIn, h.coord.State())

	remote, err := h.remote.Load(ctx, id.UserID)
	require.NoError(t, err)
	require.Len(t, remote.Properties, 1)
	assert.Equal(t, p.ID, remote.Properties[0].ID)

	// later edits are saved locally and mirrored to the account
	_, err = h.svc.AddProperty(models.Property{Name: "Second", Rent: dec(1)})
	require.NoError(t, err)
	h.svc.Flush()
	remote, _ = h.remote.Load(ctx, id.UserID)
	assert.Len(t, remote.Properties, 2)
	local, _ := h.local.Load(ctx)
	assert.Len(t, local.Properties, 2)
}

func TestSignUpUploadFailureKeepsGuestData(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addGuestProperty(t, "Guest flat")
	before, err := os.ReadFile(h.local.Path())
	require.NoError(t, err)

	h.remote.saveErr = errors.New("unavailable")
	_, err = h.coord.SignUp(ctx, "ada@example.com", "secret123")

	var merr *MigrationError
	require.ErrorAs(t, err, &merr)
	assert.True(t, merr.AccountCreated)
	assert.Equal(t, "uid-ada@example.com", merr.UserID)
	assert.Equal(t, StateSignedOut, h.coord.State())
	assert.Contains(t, h.identity.signedOut, merr.UserID)

	h.svc.Flush()
	after, err := os.ReadFile(h.local.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Len(t, h.svc.ListProperties(), 1)
}

func TestSignUpAccountFailure(t *testing.T) {
	h := newHarness(t)
	h.addGuestProperty(t, "Guest flat")
	h.identity.signUpErr = auth.ErrEmailTaken

	_, err := h.coord.SignUp(context.Background(), "ada@example.com", "secret123")
	var merr *MigrationError
	require.ErrorAs(t, err, &merr)
	assert.False(t, merr.AccountCreated)
	assert.ErrorIs(t, err, auth.ErrEmailTaken)
	assert.Len(t, h.svc.ListProperties(), 1)
}

func TestAuthStateSuppressedDuringMigration(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addGuestProperty(t, "Guest flat")
	h.identity.gate = make(chan struct{})
	h.identity.entered = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := h.coord.SignUp(ctx, "ada@example.com", "secret123")
		done <- err
	}()

	select {
	case <-h.identity.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("sign-up never reached the identity provider")
	}

	// the new account has no remote document yet; loading it now would wipe the guest data
	err := h.coord.HandleAuthState(ctx, StateSignedIn, auth.Identity{UserID: "uid-ada@example.com"})
	assert.ErrorIs(t, err, ErrMigrating)
	assert.Len(t, h.svc.ListProperties(), 1)

	close(h.identity.gate)
	require.NoError(t, <-done)

	remote, err := h.remote.Load(ctx, "uid-ada@example.com")
	require.NoError(t, err)
	assert.Len(t, remote.Properties, 1)
}

func TestSignInReplacesGuestData(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.identity.users["bob@example.com"] = "uid-bob"
	account := models.NewSeededAppData()
	account.Properties = append(account.Properties, models.Property{ID: "rp", Name: "Remote flat", Rent: dec(10)})
	require.NoError(t, h.remote.Save(ctx, "uid-bob", account))
	h.addGuestProperty(t, "Guest flat")

	_, err := h.coord.SignIn(ctx, "bob@example.com", "pw")
	require.NoError(t, err)

	props := h.svc.ListProperties()
	require.Len(t, props, 1)
	assert.Equal(t, "rp", props[0].ID)

	local, _ := h.local.Load(ctx)
	require.Len(t, local.Properties, 1)
	assert.Equal(t, "Guest flat", local.Properties[0].Name)

	_, err = h.coord.SignIn(ctx, "bob@example.com", "pw")
	assert.ErrorIs(t, err, ErrAlreadySignedIn)
}

func TestSignedInChangesReachLocalSnapshot(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.identity.users["bob@example.com"] = "uid-bob"

	_, err := h.coord.SignIn(ctx, "bob@example.com", "pw")
	require.NoError(t, err)
	p, err := h.svc.AddProperty(models.Property{Name: "Account flat", Rent: dec(10)})
	require.NoError(t, err)
	h.svc.Flush()

	local, err := h.local.Load(ctx)
	require.NoError(t, err)
	require.Len(t, local.Properties, 1)
	assert.Equal(t, p.ID, local.Properties[0].ID)

	remote, err := h.remote.Load(ctx, "uid-bob")
	require.NoError(t, err)
	assert.Equal(t, local.Properties, remote.Properties)

	// a failing remote does not stop the local save
	h.remote.saveErr = errors.New("unavailable")
	_, err = h.svc.AddProperty(models.Property{Name: "Offline flat", Rent: dec(10)})
	require.NoError(t, err)
	h.svc.Flush()
	local, err = h.local.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, local.Properties, 2)
}

func TestSignedInImportSavesLocally(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.identity.users["bob@example.com"] = "uid-bob"
	_, err := h.coord.SignIn(ctx, "bob@example.com", "pw")
	require.NoError(t, err)

	data := models.NewSeededAppData()
	data.Properties = append(data.Properties, models.Property{ID: "imp", Name: "Imported", Rent: dec(5)})
	blob, err := repository.Encode(data)
	require.NoError(t, err)
	require.NoError(t, h.svc.Import(blob))

	exported, err := h.svc.Export()
	require.NoError(t, err)
	raw, err := h.local.ExportBlob()
	require.NoError(t, err)
	assert.Equal(t, raw, exported)
}

func TestSignInWithoutRemoteDataStartsEmpty(t *testing.T) {
	h := newHarness(t)
	h.identity.users["bob@example.com"] = "uid-bob"
	h.addGuestProperty(t, "Guest flat")

	_, err := h.coord.SignIn(context.Background(), "bob@example.com", "pw")
	require.NoError(t, err)
	assert.Empty(t, h.svc.ListProperties())
	assert.NotEmpty(t, h.svc.ListCategories())
}

func TestSignInLoadFailureRevertsToGuest(t *testing.T) {
	h := newHarness(t)
	h.identity.users["bob@example.com"] = "uid-bob"
	h.addGuestProperty(t, "Guest flat")
	h.remote.loadErr = errors.New("timeout")

	_, err := h.coord.SignIn(context.Background(), "bob@example.com", "pw")
	assert.Error(t, err)
	assert.Equal(t, StateSignedOut, h.coord.State())
	assert.Len(t, h.svc.ListProperties(), 1)
}

func TestSignInBadCredentials(t *testing.T) {
	h := newHarness(t)
	h.addGuestProperty(t, "Guest flat")

	_, err := h.coord.SignIn(context.Background(), "nobody@example.com", "pw")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Len(t, h.svc.ListProperties(), 1)
}

func TestSignOutReloadsLocalSnapshot(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addGuestProperty(t, "Guest flat")
	_, err := h.coord.SignUp(ctx, "ada@example.com", "secret123")
	require.NoError(t, err)
	_, err = h.svc.AddProperty(models.Property{Name: "Account too", Rent: dec(1)})
	require.NoError(t, err)

	require.NoError(t, h.coord.SignOut(ctx))
	assert.Equal(t, StateSignedOut, h.coord.State())
	local, err := h.local.Load(ctx)
	require.NoError(t, err)
	require.Len(t, local.Properties, 2)
	props := h.svc.ListProperties()
	require.Len(t, props, 2)
	assert.Equal(t, local.Properties[1].ID, props[1].ID)
	assert.Equal(t, "Account too", props[1].Name)

	remote, err := h.remote.Load(ctx, "uid-ada@example.com")
	require.NoError(t, err)
	assert.Len(t, remote.Properties, 2)

	assert.ErrorIs(t, h.coord.SignOut(ctx), ErrNotSignedIn)
}

func TestStartResumesSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	id, err := h.coord.SignUp(ctx, "ada@example.com", "secret123")
	require.NoError(t, err)
	_, err = h.svc.AddProperty(models.Property{Name: "Account flat", Rent: dec(1)})
	require.NoError(t, err)
	h.svc.Flush()

	log, _ := test.NewNullLogger()
	svc := NewService(clock.NewFixed(now), log)
	t.Cleanup(svc.Close)
	coord := NewCoordinator(svc, h.local, h.remote, h.identity, log)

	require.NoError(t, coord.Start(ctx, id.Token))
	assert.Equal(t, StateSignedIn, coord.State())
	assert.Len(t, svc.ListProperties(), 1)

	other := NewCoordinator(svc, h.local, h.remote, h.identity, log)
	require.NoError(t, other.Start(ctx, "expired"))
	assert.Equal(t, StateSignedOut, other.State())
}

func TestResumeWithoutDocumentDoesNotKeepGuestData(t *testing.T) {
	h := newHarness(t)
	h.addGuestProperty(t, "Guest flat")

	err := h.coord.HandleAuthState(context.Background(), StateSignedIn, auth.Identity{UserID: "uid-new"})
	require.NoError(t, err)
	assert.Equal(t, StateSignedIn, h.coord.State())
	assert.Empty(t, h.svc.ListProperties())
}

func TestHandleAuthStateSignedOut(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addGuestProperty(t, "Guest flat")
	require.NoError(t, h.coord.HandleAuthState(ctx, StateSignedIn, auth.Identity{UserID: "uid-new"}))

	require.NoError(t, h.coord.HandleAuthState(ctx, StateSignedOut, auth.Identity{}))
	assert.Equal(t, StateSignedOut, h.coord.State())
	assert.Len(t, h.svc.ListProperties(), 1)

	assert.ErrorIs(t, h.coord.HandleAuthState(ctx, "bogus", auth.Identity{}), ErrInvalid)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.addGuestProperty(t, "Guest flat")
	id, err := h.coord.SignUp(ctx, "ada@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, h.coord.DeleteAccount(ctx))

	assert.False(t, h.remote.Has(id.UserID))
	assert.Contains(t, h.identity.deleted, id.UserID)
	assert.Equal(t, StateSignedOut, h.coord.State())
	assert.Len(t, h.svc.ListProperties(), 1)

	assert.ErrorIs(t, h.coord.DeleteAccount(ctx), ErrNotSignedIn)
}
