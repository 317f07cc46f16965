// Package prompt holds the interactive forms of the command line.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nhle/order-tracker/internal/credential"
)

// ErrCancelled is returned when the user aborts a form.
var ErrCancelled = errors.New("cancelled")

// ProfileInput collects the fields of a new profile.
type ProfileInput struct {
	Service  string
	Username string
	Password string
	Confirm  string
	Name     string
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// validateNewName rejects blank names and names already in use.
func validateNewName(exists func(string) bool) func(string) error {
	return func(s string) error {
		if err := credential.ValidateName(s); err != nil {
			return err
		}
		if exists != nil && exists(strings.TrimSpace(s)) {
			return errors.New("profile already exists, choose a different name")
		}
		return nil
	}
}

func validateConfirm(in *ProfileInput) func(string) error {
	return func(s string) error {
		if s != in.Password {
			return errors.New("passwords don't match")
		}
		return nil
	}
}

func serviceOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(credential.Services))
	for _, s := range credential.Services {
		opts = append(opts, huh.NewOption(credential.ServiceLabel(s), s))
	}
	return opts
}

// ProfileForm builds the add-profile form writing into in. exists
// reports whether a profile name is taken.
func ProfileForm(in *ProfileInput, exists func(string) bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Email service").
				Options(serviceOptions()...).
				Value(&in.Service),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Login").
				Description("Email address, or Apple ID for iCloud").
				Value(&in.Username).
				Validate(func(s string) error {
					return credential.ValidateUsername(in.Service, s)
				}),
			huh.NewInput().
				Title("Password").
				Description("An app password where the service requires one").
				EchoMode(huh.EchoModePassword).
				Value(&in.Password).
				Validate(validateRequired("Password")),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&in.Confirm).
				Validate(validateConfirm(in)),
			huh.NewInput().
				Title("Profile name").
				Placeholder("personal").
				Value(&in.Name).
				Validate(validateNewName(exists)),
		),
	)
}

// AskProfile runs the add-profile form.
func AskProfile(exists func(string) bool) (ProfileInput, error) {
	var in ProfileInput
	if err := run(ProfileForm(&in, exists)); err != nil {
		return ProfileInput{}, err
	}
	return in, nil
}

// FolderForm builds a folder picker preselecting def. With no folders to
// choose from it asks for a name instead.
func FolderForm(folders []string, def string, out *string) *huh.Form {
	*out = def

	if len(folders) == 0 {
		return huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Folder").
				Description("The folder list is unavailable; type a name").
				Value(out).
				Validate(validateRequired("Folder")),
		))
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Folder to scan").
			Options(huh.NewOptions(folders...)...).
			Height(min(len(folders)+2, 15)).
			Value(out),
	))
}

// PickFolder runs the folder picker.
func PickFolder(folders []string, def string) (string, error) {
	var folder string
	if err := run(FolderForm(folders, def, &folder)); err != nil {
		return "", err
	}
	return folder, nil
}

// Confirm asks a yes/no question.
func Confirm(title string) (bool, error) {
	var ok bool
	err := run(huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Value(&ok),
	)))
	return ok, err
}

func run(f *huh.Form) error {
	if err := f.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return err
	}
	return nil
}
