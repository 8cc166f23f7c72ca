package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-modelcard/pkg/card"
)

// Licenses offered by FillModelDetails before the custom-text fallback.
var Licenses = []string{"Apache-2.0", "MIT", "BSD-3-Clause", "GPL-3.0-only", "CC-BY-4.0"}

const (
	licenseCustom = "Custom license text"
	licenseSkip   = "Skip"
)

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func isoDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	return nil
}

// input asks for a line of text and applies the validator to the answer as
// well, so drivers that skip validation cannot smuggle bad values in.
func input(ctx context.Context, d Driver, cfg InputConfig) (string, error) {
	answer, err := d.Input(ctx, cfg)
	if err != nil {
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if cfg.Validator != nil {
		if err := cfg.Validator(answer); err != nil {
			return "", fmt.Errorf("prompt: %s: %w", cfg.Message, err)
		}
	}
	return answer, nil
}

func setIfAnswered(dst *card.Opt[string], answer string) {
	if answer != "" {
		dst.Set(answer)
	}
}

// FillModelDetails walks the user through the model_details section.
// Existing values are offered as defaults; blank answers leave optional
// fields untouched. Owners, licenses and references are appended.
func FillModelDetails(ctx context.Context, d Driver, c *card.ModelCard) error {
	if c == nil {
		return card.ErrNilCard
	}
	details := c.EnsureModelDetails()

	name, err := input(ctx, d, InputConfig{
		Message:   "Model name",
		Default:   details.Name.Value(),
		Validator: required("model name"),
	})
	if err != nil {
		return err
	}
	details.Name.Set(name)

	overview, err := d.TextArea(ctx, TextAreaConfig{
		Message: "Overview",
		Default: details.Overview.Value(),
		Help:    "A short description of what the model does.",
	})
	if err != nil {
		return err
	}
	setIfAnswered(&details.Overview, strings.TrimSpace(overview))

	if err := fillVersion(ctx, d, details); err != nil {
		return err
	}
	if err := fillOwners(ctx, d, details); err != nil {
		return err
	}
	if err := fillLicense(ctx, d, details); err != nil {
		return err
	}
	return fillReferences(ctx, d, details)
}

func fillVersion(ctx context.Context, d Driver, details *card.ModelDetails) error {
	current := details.Version
	if current == nil {
		current = &card.Version{}
	}
	name, err := input(ctx, d, InputConfig{Message: "Version", Default: current.Name.Value()})
	if err != nil {
		return err
	}
	date, err := input(ctx, d, InputConfig{
		Message:   "Version date",
		Default:   current.Date.Value(),
		Help:      "YYYY-MM-DD",
		Validator: isoDate,
	})
	if err != nil {
		return err
	}
	if name == "" && date == "" {
		return nil
	}
	version := details.Version
	if version == nil {
		version = &card.Version{}
		details.Version = version
	}
	setIfAnswered(&version.Name, name)
	setIfAnswered(&version.Date, date)
	return nil
}

func fillOwners(ctx context.Context, d Driver, details *card.ModelDetails) error {
	for {
		more, err := d.Confirm(ctx, ConfirmConfig{Message: "Add an owner?"})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		name, err := input(ctx, d, InputConfig{Message: "Owner name", Validator: required("owner name")})
		if err != nil {
			return err
		}
		contact, err := input(ctx, d, InputConfig{Message: "Owner contact"})
		if err != nil {
			return err
		}
		owner := card.Owner{Name: card.Some(name)}
		setIfAnswered(&owner.Contact, contact)
		details.Owners = append(details.Owners, owner)
	}
}

func fillLicense(ctx context.Context, d Driver, details *card.ModelDetails) error {
	options := append(append([]string{}, Licenses...), licenseCustom, licenseSkip)
	idx, err := d.Select(ctx, SelectConfig{Message: "License", Options: options, DefaultIndex: len(options) - 1})
	if err != nil {
		return err
	}
	switch {
	case idx < 0 || idx >= len(options):
		return fmt.Errorf("prompt: license selection %d out of range", idx)
	case options[idx] == licenseSkip:
		return nil
	case options[idx] == licenseCustom:
		text, err := d.TextArea(ctx, TextAreaConfig{Message: "License text"})
		if err != nil {
			return err
		}
		details.Licenses = append(details.Licenses, card.License{CustomText: card.Some(strings.TrimSpace(text))})
	default:
		details.Licenses = append(details.Licenses, card.License{Identifier: card.Some(options[idx])})
	}
	return nil
}

func fillReferences(ctx context.Context, d Driver, details *card.ModelDetails) error {
	for {
		uri, err := input(ctx, d, InputConfig{Message: "Reference URL (blank to finish)"})
		if err != nil {
			return err
		}
		if uri == "" {
			return nil
		}
		details.References = append(details.References, card.Reference{URI: card.Some(uri)})
	}
}

// FillConsiderations collects intended users, use cases and limitations, one
// answer per line.
func FillConsiderations(ctx context.Context, d Driver, c *card.ModelCard) error {
	if c == nil {
		return card.ErrNilCard
	}
	cons := c.EnsureConsiderations()
	for _, section := range []struct {
		message string
		dst     *[]card.Consideration
	}{
		{"Intended users", &cons.Users},
		{"Use cases", &cons.UseCases},
		{"Limitations", &cons.Limitations},
	} {
		text, err := d.TextArea(ctx, TextAreaConfig{Message: section.message, Help: "One item per line."})
		if err != nil {
			return err
		}
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				*section.dst = append(*section.dst, card.Consideration{Description: card.Some(line)})
			}
		}
	}
	return nil
}
