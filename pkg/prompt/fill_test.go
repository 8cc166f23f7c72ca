package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modelcard/pkg/card"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	messages     []string
	inputPos     int
	selectPos    int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.messages = append(s.messages, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func TestFillModelDetails(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{" cats_vs_dogs ", "v1", "2024-01-02", "Jane", "jane@example.com", "https://example.com/paper", ""},
		textAreas: []string{"  Classifies pets.\n"},
		confirm:   []bool{true, false},
		selectIdx: []int{0},
	}
	c := card.New()
	if err := FillModelDetails(context.Background(), driver, c); err != nil {
		t.Fatalf("FillModelDetails: %v", err)
	}

	want := &card.ModelDetails{
		Name:       card.Some("cats_vs_dogs"),
		Overview:   card.Some("Classifies pets."),
		Version:    &card.Version{Name: card.Some("v1"), Date: card.Some("2024-01-02")},
		Owners:     []card.Owner{{Name: card.Some("Jane"), Contact: card.Some("jane@example.com")}},
		Licenses:   []card.License{{Identifier: card.Some("Apache-2.0")}},
		References: []card.Reference{{URI: card.Some("https://example.com/paper")}},
	}
	if diff := cmp.Diff(want, c.ModelDetails); diff != "" {
		t.Fatalf("model details mismatch (-want +got):\n%s", diff)
	}
	if driver.inputPos != len(driver.inputs) {
		t.Fatalf("consumed %d inputs, want %d", driver.inputPos, len(driver.inputs))
	}
}

func TestFillModelDetailsKeepsUnansweredFields(t *testing.T) {
	c := card.New()
	c.EnsureModelDetails().Overview.Set("existing")
	driver := &stubDriver{
		inputs:    []string{"m", "", "", ""},
		textAreas: []string{"", "Internal use only."},
		confirm:   []bool{false},
		selectIdx: []int{len(Licenses)},
	}
	if err := FillModelDetails(context.Background(), driver, c); err != nil {
		t.Fatalf("FillModelDetails: %v", err)
	}

	want := &card.ModelDetails{
		Name:     card.Some("m"),
		Overview: card.Some("existing"),
		Licenses: []card.License{{CustomText: card.Some("Internal use only.")}},
	}
	if diff := cmp.Diff(want, c.ModelDetails); diff != "" {
		t.Fatalf("model details mismatch (-want +got):\n%s", diff)
	}
}

func TestFillModelDetailsRejectsInvalidAnswers(t *testing.T) {
	tests := map[string]*stubDriver{
		"blank name": {inputs: []string{"  "}},
		"bad date": {
			inputs:    []string{"m", "v1", "02/01/2024"},
			textAreas: []string{""},
		},
		"license out of range": {
			inputs:    []string{"m", "", ""},
			textAreas: []string{""},
			confirm:   []bool{false},
			selectIdx: []int{99},
		},
	}
	for name, driver := range tests {
		t.Run(name, func(t *testing.T) {
			if err := FillModelDetails(context.Background(), driver, card.New()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if err := FillModelDetails(context.Background(), &stubDriver{}, nil); !errors.Is(err, card.ErrNilCard) {
		t.Fatalf("nil card err = %v, want ErrNilCard", err)
	}
}

func TestFillModelDetailsPropagatesAbort(t *testing.T) {
	driver := &stubDriver{inputs: []string{"m"}}
	err := FillModelDetails(context.Background(), abortingTextArea{driver}, card.New())
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
}

type abortingTextArea struct {
	*stubDriver
}

func (abortingTextArea) TextArea(context.Context, TextAreaConfig) (string, error) {
	return "", ErrAborted
}

func TestFillConsiderations(t *testing.T) {
	driver := &stubDriver{textAreas: []string{"analysts\n\n data scientists ", "", "Not for medical use."}}
	c := card.New()
	if err := FillConsiderations(context.Background(), driver, c); err != nil {
		t.Fatalf("FillConsiderations: %v", err)
	}

	want := &card.Considerations{
		Users: []card.Consideration{
			{Description: card.Some("analysts")},
			{Description: card.Some("data scientists")},
		},
		Limitations: []card.Consideration{{Description: card.Some("Not for medical use.")}},
	}
	if diff := cmp.Diff(want, c.Considerations); diff != "" {
		t.Fatalf("considerations mismatch (-want +got):\n%s", diff)
	}
}
