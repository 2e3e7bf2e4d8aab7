package ui

import (
	"github.com/charmbracelet/huh"
)

// SelectFiles asks the user to pick any number of files.
func SelectFiles(title string, files []string) ([]string, error) {
	var selectedFiles []string
	var options []huh.Option[string]

	for _, file := range files {
		options = append(options, huh.NewOption(file, file))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(title).
				Options(options...).
				Value(&selectedFiles),
		),
	)

	if err := form.Run(); err != nil {
		return nil, err
	}

	return selectedFiles, nil
}

// Confirm asks a yes/no question, defaulting to no.
func Confirm(title, description string) (bool, error) {
	var ok bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)

	if err := form.Run(); err != nil {
		return false, err
	}

	return ok, nil
}
