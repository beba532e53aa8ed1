package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/antonpav/pad/internal/common"
	"github.com/antonpav/pad/internal/services"
	"github.com/antonpav/pad/internal/session"
)

// Login signs in against the identity endpoint, switches the workspace to
// the user's namespace, seeds local collections from the remote replica
// and starts the online watcher.
func (a *App) Login(ctx context.Context) error {
	if a.client == nil {
		fmt.Fprintln(a.out, "Remote sync is not configured (set a remote base URL).")
		return nil
	}
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already signed in as", a.sess.Email)
		return nil
	}

	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}

	token, err := a.client.SignIn(ctx, email, string(password))
	for i := range password {
		password[i] = 0
	}
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Sign-in failed: wrong email or password.")
		} else {
			fmt.Fprintln(a.out, "Sign-in failed:", err)
		}
		return err
	}

	sess, err := session.FromToken(token, email)
	if err != nil {
		fmt.Fprintln(a.out, "Sign-in failed:", err)
		return err
	}

	a.sess = sess
	a.client.SetAccessToken(token)
	a.buildWorkspace(ctx)

	if err := services.Seed(ctx, a.deps, a.client, a.diaries, a.folders, a.tasks); err != nil {
		// Local data stays authoritative; sync will catch up later.
		a.Notify(ctx, "Could not fetch your data from the server: "+err.Error())
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	a.watchCancel = cancel
	go a.manager.WatchOnline(watchCtx, a.cfg.OnlineCheckInterval)
	a.kick()

	fmt.Fprintln(a.out, "Signed in as", email)
	return nil
}

// Logout drops the session and returns to the shared local namespace.
// Pending operations stay queued under the user's namespace and resume
// after the next sign-in.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	if a.watchCancel != nil {
		a.watchCancel()
		a.watchCancel = nil
	}
	a.sess = session.Session{}
	a.client.SetAccessToken("")
	a.buildWorkspace(ctx)
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}
