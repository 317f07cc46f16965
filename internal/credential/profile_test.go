package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/order-tracker/internal/model"
)

func newTestKeyring() *Keyring {
	return New(keyring.NewArrayKeyring(nil))
}

func TestAddAndResolveProfile(t *testing.T) {
	k := newTestKeyring()
	cfg := model.DefaultAppConfig()

	err := k.AddProfile(cfg, model.ProfileConfig{
		Name:    " personal ",
		Email:   "jane@proton.me",
		Service: "Proton",
	}, "bridge-password")
	require.NoError(t, err)
	require.Len(t, cfg.Profiles, 1)
	assert.Equal(t, "personal", cfg.Profiles[0].Name)
	assert.Equal(t, model.ServiceProton, cfg.Profiles[0].Service)

	creds, err := k.Resolve(cfg, "personal")
	require.NoError(t, err)
	assert.Equal(t, "jane@proton.me", creds.Username)
	assert.Equal(t, "bridge-password", creds.Password)
	assert.Equal(t, model.ServiceProton, creds.Service)
	assert.Equal(t, "127.0.0.1:1143", creds.Server.Addr())
	assert.Equal(t, model.SecurityStartTLSInsecure, creds.Server.Security)
}

func TestAddProfileValidation(t *testing.T) {
	k := newTestKeyring()
	cfg := model.DefaultAppConfig()

	assert.Error(t, k.AddProfile(cfg, model.ProfileConfig{Name: "", Email: "a@b.com"}, "x"))
	assert.Error(t, k.AddProfile(cfg, model.ProfileConfig{Name: "a", Email: "not-an-email"}, "x"))
	assert.Error(t, k.AddProfile(cfg, model.ProfileConfig{Name: "a", Email: "a@b.com"}, ""))

	require.NoError(t, k.AddProfile(cfg, model.ProfileConfig{
		Name: "apple", Email: "johnny", Service: model.ServiceICloud,
	}, "app-pw"))

	err := k.AddProfile(cfg, model.ProfileConfig{Name: "apple", Email: "a@b.com"}, "x")
	assert.ErrorIs(t, err, ErrProfileExists)
	assert.Len(t, cfg.Profiles, 1)
}

func TestUnknownServiceDefaultsToGmail(t *testing.T) {
	k := newTestKeyring()
	cfg := model.DefaultAppConfig()

	require.NoError(t, k.AddProfile(cfg, model.ProfileConfig{
		Name: "work", Email: "me@corp.example", Service: "outlook",
	}, "pw"))

	creds, err := k.Resolve(cfg, "work")
	require.NoError(t, err)
	assert.Equal(t, model.ServiceGmail, creds.Service)
	assert.Equal(t, "imap.gmail.com", creds.Server.Host)
}

func TestResolveErrors(t *testing.T) {
	k := newTestKeyring()
	cfg := model.DefaultAppConfig()

	_, err := k.Resolve(cfg, "nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	cfg.Profiles = append(cfg.Profiles, model.ProfileConfig{
		Name: "orphan", Email: "a@b.com", Service: model.ServiceGmail,
	})
	_, err = k.Resolve(cfg, "orphan")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestDeleteProfile(t *testing.T) {
	k := newTestKeyring()
	cfg := model.DefaultAppConfig()
	require.NoError(t, k.AddProfile(cfg, model.ProfileConfig{Name: "a", Email: "a@b.com"}, "pw"))
	require.NoError(t, k.AddProfile(cfg, model.ProfileConfig{Name: "b", Email: "b@b.com"}, "pw"))

	require.NoError(t, k.DeleteProfile(cfg, "a"))
	require.Len(t, cfg.Profiles, 1)
	assert.Equal(t, "b", cfg.Profiles[0].Name)

	_, err := k.Get(ProfileKey("a"))
	assert.ErrorIs(t, err, keyring.ErrKeyNotFound)

	assert.ErrorIs(t, k.DeleteProfile(cfg, "a"), ErrProfileNotFound)
}

func TestDefaultFolder(t *testing.T) {
	assert.Equal(t, "All Mail", DefaultFolder(model.ServiceProton))
	assert.Equal(t, "INBOX", DefaultFolder(model.ServiceGmail))
	assert.Equal(t, "INBOX", DefaultFolder("icloud"))
}
