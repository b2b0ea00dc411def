package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/arafatrahman/Property-Rental-Management/internal/auth"
	"github.com/arafatrahman/Property-Rental-Management/internal/models"
	"github.com/arafatrahman/Property-Rental-Management/internal/repository"
	"github.com/sirupsen/logrus"
)

// AuthState is the session state the coordinator is in
type AuthState string

const (
	StateUnknown   AuthState = "unknown"
	StateSignedOut AuthState = "signed_out"
	StateSignedIn  AuthState = "signed_in"
)

// IdentityProvider manages accounts and sessions
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (auth.Identity, error)
	SignIn(ctx context.Context, email, password string) (auth.Identity, error)
	SignOut(ctx context.Context, userID string) error
	DeleteAccount(ctx context.Context, userID string) error
	Verify(token string) (auth.Identity, error)
}

// Coordinator decides which store the service loads from as the session
// changes, and moves guest data into a new account on sign-up. Changes are
// always saved to the local snapshot and, while signed in, mirrored to the
// account's remote document.
type Coordinator struct {
	svc      *Service
	local    repository.Repository
	remote   repository.RemoteStore
	identity IdentityProvider
	log      *logrus.Logger

	// seq serializes load and migration sequences
	seq sync.Mutex

	mu      sync.Mutex
	state   AuthState
	current auth.Identity
}

// NewCoordinator creates a coordinator in the unknown state
func NewCoordinator(svc *Service, local repository.Repository, remote repository.RemoteStore, identity IdentityProvider, log *logrus.Logger) *Coordinator {
	return &Coordinator{
		svc:      svc,
		local:    local,
		remote:   remote,
		identity: identity,
		log:      log,
		state:    StateUnknown,
	}
}

// State returns the current session state
func (c *Coordinator) State() AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Identity returns the signed-in identity, if any
func (c *Coordinator) Identity() (auth.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.state == StateSignedIn
}

// Start resumes the session for token, or starts as a guest when the token is
// empty or no longer valid
func (c *Coordinator) Start(ctx context.Context, token string) error {
	c.seq.Lock()
	defer c.seq.Unlock()

	if token != "" {
		id, err := c.identity.Verify(token)
		if err == nil {
			return c.resume(ctx, id)
		}
		c.log.Warnf("Stored session is not valid, continuing as guest: %v", err)
	}
	c.enterGuest(ctx)
	return nil
}

// HandleAuthState applies a session change reported by the identity provider.
// It is ignored with ErrMigrating while a sign-up migration is running.
func (c *Coordinator) HandleAuthState(ctx context.Context, state AuthState, id auth.Identity) error {
	if !c.seq.TryLock() {
		c.log.Infof("Ignoring %s transition during migration", state)
		return ErrMigrating
	}
	defer c.seq.Unlock()

	switch state {
	case StateSignedIn:
		if id.UserID == "" {
			return invalid("signed-in transition without a user")
		}
		return c.resume(ctx, id)
	case StateSignedOut:
		c.svc.Clear()
		c.enterGuest(ctx)
		return nil
	case StateUnknown:
		c.svc.Detach()
		c.setState(StateUnknown, auth.Identity{})
		return nil
	default:
		return invalid("unknown auth state %q", state)
	}
}

// SignIn switches from guest data to the account's remote data. Guest data is
// not merged; the local snapshot keeps it until the next change is saved.
func (c *Coordinator) SignIn(ctx context.Context, email, password string) (auth.Identity, error) {
	c.seq.Lock()
	defer c.seq.Unlock()

	if c.State() == StateSignedIn {
		return auth.Identity{}, ErrAlreadySignedIn
	}
	id, err := c.identity.SignIn(ctx, email, password)
	if err != nil {
		return auth.Identity{}, err
	}

	c.svc.Flush()
	c.svc.Clear()
	if err := c.loadRemote(ctx, id); err != nil {
		c.log.Errorf("Failed to load data for user %s, reverting to guest: %v", id.UserID, err)
		if signOutErr := c.identity.SignOut(ctx, id.UserID); signOutErr != nil {
			c.log.Warnf("Failed to end session for user %s: %v", id.UserID, signOutErr)
		}
		c.enterGuest(ctx)
		return auth.Identity{}, err
	}
	c.setState(StateSignedIn, id)
	c.log.Infof("User %s signed in", id.UserID)
	return id, nil
}

// SignUp creates an account and uploads the current guest data to it.
// On failure the guest data is left as it was and a *MigrationError is returned.
func (c *Coordinator) SignUp(ctx context.Context, email, password string) (auth.Identity, error) {
	c.seq.Lock()
	defer c.seq.Unlock()

	if c.State() == StateSignedIn {
		return auth.Identity{}, ErrAlreadySignedIn
	}

	c.svc.Flush()
	snapshot, rev := c.svc.Snapshot()

	id, err := c.identity.SignUp(ctx, email, password)
	if err != nil {
		return auth.Identity{}, &MigrationError{Err: err}
	}

	if err := c.remote.Save(ctx, id.UserID, snapshot); err != nil {
		c.log.Errorf("Account %s created but guest data upload failed: %v", id.UserID, err)
		if signOutErr := c.identity.SignOut(ctx, id.UserID); signOutErr != nil {
			c.log.Warnf("Failed to end session for user %s: %v", id.UserID, signOutErr)
		}
		return auth.Identity{}, &MigrationError{UserID: id.UserID, AccountCreated: true, Err: err}
	}

	// Changes made while the upload ran are saved to the account on attach.
	c.svc.Attach(c.account(id.UserID), rev)
	c.setState(StateSignedIn, id)
	c.log.Infof("User %s signed up, migrated %s", id.UserID, summary(snapshot))
	return id, nil
}

// SignOut ends the session and reloads the local snapshot
func (c *Coordinator) SignOut(ctx context.Context) error {
	c.seq.Lock()
	defer c.seq.Unlock()

	id, ok := c.Identity()
	if !ok {
		return ErrNotSignedIn
	}
	c.svc.Flush()
	if err := c.identity.SignOut(ctx, id.UserID); err != nil {
		c.log.Warnf("Failed to end session for user %s: %v", id.UserID, err)
	}
	c.svc.Clear()
	c.enterGuest(ctx)
	c.log.Infof("User %s signed out", id.UserID)
	return nil
}

// DeleteAccount removes the account's remote data and identity record, then
// reloads the local snapshot
func (c *Coordinator) DeleteAccount(ctx context.Context) error {
	c.seq.Lock()
	defer c.seq.Unlock()

	id, ok := c.Identity()
	if !ok {
		return ErrNotSignedIn
	}

	c.svc.Detach()
	c.svc.Flush()
	if err := c.remote.Delete(ctx, id.UserID); err != nil {
		c.svc.Attach(c.account(id.UserID), 0)
		return fmt.Errorf("failed to delete data for user %s: %w", id.UserID, err)
	}

	identityErr := c.identity.DeleteAccount(ctx, id.UserID)
	c.svc.Clear()
	c.enterGuest(ctx)
	if identityErr != nil {
		return fmt.Errorf("data for user %s deleted but account removal failed: %w", id.UserID, identityErr)
	}
	c.log.Infof("User %s deleted", id.UserID)
	return nil
}

// resume loads the remote data of an existing session. A transient failure
// falls back to guest data.
func (c *Coordinator) resume(ctx context.Context, id auth.Identity) error {
	c.svc.Flush()
	if err := c.loadRemote(ctx, id); err != nil {
		c.log.Errorf("Failed to resume session for user %s: %v", id.UserID, err)
		c.svc.Clear()
		c.enterGuest(ctx)
		return err
	}
	c.setState(StateSignedIn, id)
	return nil
}

// loadRemote replaces the dataset with the user's document. A user without a
// document starts from an empty dataset, never from the guest data.
func (c *Coordinator) loadRemote(ctx context.Context, id auth.Identity) error {
	data, err := c.remote.Load(ctx, id.UserID)
	switch {
	case errors.Is(err, repository.ErrNoData):
		c.log.Infof("No remote data for user %s, starting empty", id.UserID)
		data = models.NewSeededAppData()
	case err != nil:
		return fmt.Errorf("failed to load remote data: %w", err)
	}
	c.log.Infof("Loaded remote data for user %s: %s", id.UserID, summary(data))
	c.svc.Replace(c.account(id.UserID), data)
	return nil
}

// account is the save target while signed in: the local snapshot, mirrored
// to the user's remote document
func (c *Coordinator) account(userID string) repository.Repository {
	return repository.Mirrored(c.local, repository.ForUser(c.remote, userID))
}

func (c *Coordinator) enterGuest(ctx context.Context) {
	data, err := c.local.Load(ctx)
	if err != nil {
		c.log.Errorf("Failed to load local snapshot, starting empty: %v", err)
		data = models.NewSeededAppData()
	}
	c.svc.Replace(c.local, data)
	c.setState(StateSignedOut, auth.Identity{})
}

func (c *Coordinator) setState(state AuthState, id auth.Identity) {
	c.mu.Lock()
	c.state = state
	c.current = id
	c.mu.Unlock()
}
