package app

import (
	"context"
	"fmt"

	"github.com/nhle/order-tracker/internal/credential"
	"github.com/nhle/order-tracker/internal/model"
	"github.com/nhle/order-tracker/internal/source/email"
)

// resolveProfile picks the named profile, or the only one when name is
// empty.
func (a *App) resolveProfile(name string) (model.ProfileConfig, error) {
	if name != "" {
		p, ok := a.cfg.Profile(name)
		if !ok {
			return model.ProfileConfig{}, fmt.Errorf("%w: %s", credential.ErrProfileNotFound, name)
		}
		return p, nil
	}

	switch len(a.cfg.Profiles) {
	case 0:
		return model.ProfileConfig{}, ErrNoProfiles
	case 1:
		return a.cfg.Profiles[0], nil
	default:
		return model.ProfileConfig{}, ErrProfileRequired
	}
}

// connect resolves the profile's credentials from the keyring and opens
// a mailbox session. The caller must Disconnect it.
func (a *App) connect(ctx context.Context, profile string) (Mailbox, model.ProfileConfig, error) {
	p, err := a.resolveProfile(profile)
	if err != nil {
		return nil, model.ProfileConfig{}, err
	}

	k, err := a.credentials()
	if err != nil {
		return nil, p, err
	}
	creds, err := k.Resolve(a.cfg, p.Name)
	if err != nil {
		return nil, p, err
	}

	mb := a.newMailbox()
	a.logger.Info("connecting",
		"profile", p.Name,
		"service", credential.ServiceLabel(creds.Service),
		"server", creds.Server.Addr(),
	)
	if err := mb.Connect(ctx, creds); err != nil {
		return nil, p, fmt.Errorf("connecting to %s: %w", creds.Server.Addr(), err)
	}
	return mb, p, nil
}

// Folders lists the mailboxes of a profile. A listing failure yields an
// empty list, not an error.
func (a *App) Folders(ctx context.Context, profile string) ([]string, error) {
	mb, _, err := a.connect(ctx, profile)
	if err != nil {
		return nil, err
	}
	defer mb.Disconnect()

	return mb.ListFolders(ctx), nil
}

// DefaultFolder returns the folder a run uses for profile when none is
// given.
func (a *App) DefaultFolder(profile string) string {
	p, err := a.resolveProfile(profile)
	if err != nil {
		return "INBOX"
	}
	return credential.DefaultFolder(p.Service)
}

// Profiles returns the configured profiles in file order.
func (a *App) Profiles() []model.ProfileConfig {
	return a.cfg.Profiles
}

// HasProfile reports whether name is already configured.
func (a *App) HasProfile(name string) bool {
	_, ok := a.cfg.Profile(name)
	return ok
}

// AddProfile stores the secret and persists the new profile to the
// config file.
func (a *App) AddProfile(p model.ProfileConfig, password string) error {
	k, err := a.credentials()
	if err != nil {
		return err
	}
	if err := k.AddProfile(a.cfg, p, password); err != nil {
		return err
	}
	if err := model.SaveConfig(a.cfgPath, a.cfg); err != nil {
		return err
	}

	a.logger.Info("profile added", "profile", p.Name)
	return nil
}

// DeleteProfile removes a profile and its secret.
func (a *App) DeleteProfile(name string) error {
	k, err := a.credentials()
	if err != nil {
		return err
	}
	if err := k.DeleteProfile(a.cfg, name); err != nil {
		return err
	}
	if err := model.SaveConfig(a.cfgPath, a.cfg); err != nil {
		return err
	}

	a.logger.Info("profile deleted", "profile", name)
	return nil
}

var _ Mailbox = (*email.Channel)(nil)
