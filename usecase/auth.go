package usecase

import (
	"context"

	domainResultLog "github.com/AzielCF/az-autopost/domains/resultlog"
	domainSession "github.com/AzielCF/az-autopost/domains/session"
	pkgError "github.com/AzielCF/az-autopost/pkg/error"
	"github.com/sirupsen/logrus"
)

// AuthResult describes how the session was obtained.
type AuthResult struct {
	Session   *domainSession.Session
	State     domainSession.AuthState
	Restored  bool // a saved session was loaded
	Refreshed bool // a login was performed on top of the saved session
	Saved     bool // the session was written back to the store
}

type Authenticator struct {
	rc *RunContext
}

func NewAuthenticator(rc *RunContext) *Authenticator {
	return &Authenticator{rc: rc}
}

// Authenticate prefers the saved session, refreshes it when credentials are known and
// falls back to a fresh login. Every failure is an *AuthError and is written to the result log.
func (a *Authenticator) Authenticate(ctx context.Context, creds domainSession.Credentials) (AuthResult, error) {
	store := a.rc.Sessions

	exists, err := store.Exists(ctx)
	if err != nil {
		logrus.Warnf("[AUTH] could not check saved session at %s: %v", store.Location(), err)
	}

	if !exists {
		if !creds.Complete() {
			return a.failWith(domainSession.StateNoSession, pkgError.NewAuthError("no credentials or session", err))
		}
		return a.freshLogin(ctx, creds)
	}

	prev, restoreErr := a.restore(ctx)
	if restoreErr != nil {
		logrus.Warnf("[AUTH] saved session failed to load: %v", restoreErr)
		if !creds.Complete() {
			return a.fail(pkgError.NewAuthError("saved session failed and no credentials provided", restoreErr))
		}
		return a.freshLogin(ctx, creds)
	}

	if !creds.Complete() {
		logrus.Infof("[AUTH] loaded saved session from %s", store.Location())
		return a.succeed(AuthResult{Session: prev, State: domainSession.StateSessionLoaded, Restored: true}), nil
	}

	refreshed, err := a.rc.Publisher.Login(ctx, creds, prev)
	if err != nil {
		logrus.Warnf("[AUTH] session refresh failed, logging in again: %v", err)
		return a.freshLogin(ctx, creds)
	}
	saved := a.save(ctx, refreshed)
	logrus.Infof("[AUTH] loaded saved session and refreshed login for %s", creds.Username)
	return a.succeed(AuthResult{Session: refreshed, State: domainSession.StateAuthenticated, Restored: true, Refreshed: true, Saved: saved}), nil
}

func (a *Authenticator) restore(ctx context.Context) (*domainSession.Session, error) {
	prev, err := a.rc.Sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.rc.Publisher.Restore(ctx, prev); err != nil {
		return nil, err
	}
	return prev, nil
}

func (a *Authenticator) freshLogin(ctx context.Context, creds domainSession.Credentials) (AuthResult, error) {
	sess, err := a.rc.Publisher.Login(ctx, creds, nil)
	if err != nil {
		return a.fail(pkgError.NewAuthError("login failed", err))
	}
	saved := a.save(ctx, sess)
	logrus.Infof("[AUTH] logged in as %s", creds.Username)
	return a.succeed(AuthResult{Session: sess, State: domainSession.StateAuthenticated, Saved: saved}), nil
}

// save failures do not invalidate a live session.
func (a *Authenticator) save(ctx context.Context, sess *domainSession.Session) bool {
	if err := a.rc.Sessions.Save(ctx, sess); err != nil {
		logrus.Warnf("[AUTH] failed to save session to %s: %v", a.rc.Sessions.Location(), err)
		return false
	}
	logrus.Debugf("[AUTH] saved session to %s", a.rc.Sessions.Location())
	return true
}

func (a *Authenticator) succeed(res AuthResult) AuthResult {
	a.rc.Session = res.Session
	return res
}

func (a *Authenticator) fail(authErr *pkgError.AuthError) (AuthResult, error) {
	return a.failWith(domainSession.StateFailed, authErr)
}

// failWith keeps state so callers can tell "never had a session" from a rejected login.
func (a *Authenticator) failWith(state domainSession.AuthState, authErr *pkgError.AuthError) (AuthResult, error) {
	logrus.Errorf("[AUTH] %v", authErr)
	if a.rc.Results != nil {
		a.rc.Results.Record(domainResultLog.TagLoginFailed, authErr.Error())
	}
	return AuthResult{State: state}, authErr
}
