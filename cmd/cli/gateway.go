package main

import (
	"context"
	"errors"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/api"
	"github.com/Davidlouiz/passerelle-vhf/pkg/session"
	"go.uber.org/zap"
)

var errNotLoggedIn = errors.New("not logged in, run 'vhfconsole login' first")

// cliSession returns the token store of the command line client
func cliSession() (*session.FileStore, error) {
	dir, err := session.DefaultDir()
	if err != nil {
		return nil, err
	}
	return session.NewFileStore(dir), nil
}

// newGateway creates an API client authenticated with the stored token. A
// rejected token is cleared and the session flagged as expired.
func newGateway() (*api.Client, *session.FileStore, error) {
	store, err := cliSession()
	if err != nil {
		return nil, nil, err
	}

	token, ok, err := session.ActiveToken(store, time.Now())
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		if expired, _ := store.TakeExpired(); expired {
			return nil, nil, api.ErrUnauthorized
		}
		return nil, nil, errNotLoggedIn
	}

	client := api.NewClient(cfg.APIURL,
		api.WithTimeout(cfg.Timeout),
		api.WithTokenStore(api.StaticToken(token)),
		api.WithUnauthorizedHandler(func() {
			if err := session.Expire(store); err != nil {
				logger.Warn("failed to clear session", zap.Error(err))
			}
		}),
	)
	return client, store, nil
}

// commandContext bounds a command by the configured timeout
func commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, 2*cfg.Timeout)
}
