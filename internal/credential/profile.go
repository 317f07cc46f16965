package credential

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/99designs/keyring"

	"github.com/nhle/order-tracker/internal/model"
	"github.com/nhle/order-tracker/internal/source/email"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrMissingSecret   = errors.New("no password stored for profile")
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// Services lists the supported service kinds in menu order.
var Services = []string{model.ServiceGmail, model.ServiceProton, model.ServiceICloud}

// ServiceLabel returns the display name of a service kind.
func ServiceLabel(service string) string {
	switch service {
	case model.ServiceGmail:
		return "Gmail"
	case model.ServiceProton:
		return "Proton Mail"
	case model.ServiceICloud:
		return "iCloud"
	default:
		return service
	}
}

// ProfileKey is the keyring key holding a profile's password.
func ProfileKey(name string) string {
	return "profile-" + name
}

// ValidateName rejects blank names.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("profile name cannot be empty")
	}
	return nil
}

// ValidateUsername checks a login for the given service. iCloud accepts
// any non-empty Apple ID; the others need an email address.
func ValidateUsername(service, username string) error {
	username = strings.TrimSpace(username)
	if service == model.ServiceICloud {
		if username == "" {
			return errors.New("Apple ID cannot be empty")
		}
		return nil
	}
	if !emailPattern.MatchString(username) {
		return errors.New("invalid email format")
	}
	return nil
}

// NormalizeService lower-cases a service kind and maps unknown kinds to
// gmail.
func NormalizeService(service string) string {
	s := strings.ToLower(strings.TrimSpace(service))
	if slices.Contains(Services, s) {
		return s
	}
	return model.ServiceGmail
}

// AddProfile stores the password in the keyring and appends the profile
// to cfg. The caller persists cfg.
func (k *Keyring) AddProfile(cfg *model.AppConfig, p model.ProfileConfig, password string) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Service = NormalizeService(p.Service)

	if err := ValidateName(p.Name); err != nil {
		return err
	}
	if _, ok := cfg.Profile(p.Name); ok {
		return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
	}
	if err := ValidateUsername(p.Service, p.Email); err != nil {
		return err
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	if err := k.Set(ProfileKey(p.Name), password); err != nil {
		return err
	}
	cfg.Profiles = append(cfg.Profiles, p)
	return nil
}

// DeleteProfile removes the profile from cfg and its password from the
// keyring. A password that is already gone is not an error.
func (k *Keyring) DeleteProfile(cfg *model.AppConfig, name string) error {
	i := slices.IndexFunc(cfg.Profiles, func(p model.ProfileConfig) bool {
		return p.Name == name
	})
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}

	if err := k.ring.Remove(ProfileKey(name)); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential for %s: %w", name, err)
	}
	cfg.Profiles = slices.Delete(cfg.Profiles, i, i+1)
	return nil
}

// Resolve returns the connection credentials for a named profile.
func (k *Keyring) Resolve(cfg *model.AppConfig, name string) (email.Credentials, error) {
	p, ok := cfg.Profile(name)
	if !ok {
		return email.Credentials{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}

	password, err := k.Get(ProfileKey(name))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return email.Credentials{}, fmt.Errorf("%w: %s", ErrMissingSecret, name)
		}
		return email.Credentials{}, err
	}

	server, kind := cfg.Server(p.Service)
	return email.Credentials{
		Username: p.Email,
		Password: password,
		Service:  kind,
		Server:   server,
	}, nil
}

// DefaultFolder is the folder a run targets when none is given: Proton
// Bridge exposes everything under "All Mail".
func DefaultFolder(service string) string {
	if NormalizeService(service) == model.ServiceProton {
		return "All Mail"
	}
	return "INBOX"
}
