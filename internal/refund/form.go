package refund

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// IDGenerator generates unique IDs for refunds
type IDGenerator interface {
	Generate() string
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// Draft holds the in-progress values of the new refund form
type Draft struct {
	Name        string   `json:"name" validate:"required"`
	Category    Category `json:"category" validate:"required,category"`
	Value       string   `json:"value" validate:"required,amount"`
	FileName    string   `json:"fileName" validate:"required"`
	FileLocator string   `json:"fileUri" validate:"required"`
}

// Sink receives a validated refund. A refund is only considered submitted
// when the sink returns nil.
type Sink func(ctx context.Context, r Refund) error

// Form is the controller behind the new refund dialog
type Form struct {
	draft          Draft
	requireLocator bool
	validate       *validator.Validate
	idGenerator    IDGenerator
}

// NewForm creates a Form. requireLocator makes the receipt locator mandatory,
// which is the case wherever attachments are supported.
func NewForm(requireLocator bool) *Form {
	return NewFormWithDeps(requireLocator, &defaultIDGenerator{})
}

// NewFormWithDeps creates a Form with a custom ID generator for testing
func NewFormWithDeps(requireLocator bool, idGen IDGenerator) *Form {
	return &Form{
		requireLocator: requireLocator,
		validate:       newValidator(),
		idGenerator:    idGen,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Known()
	})
	_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		_, err := ParseValue(fl.Field().String())
		return err == nil
	})
	return v
}

// Draft returns a copy of the current draft values
func (f *Form) Draft() Draft {
	return f.draft
}

func (f *Form) SetName(name string) {
	f.draft.Name = name
}

func (f *Form) SetCategory(c Category) {
	f.draft.Category = c
}

// SetValue formats raw keyboard input and stores it, see FormatAmountInput
func (f *Form) SetValue(raw string) string {
	f.draft.Value = FormatAmountInput(raw)
	return f.draft.Value
}

// SetAttachment stores the picked receipt
func (f *Form) SetAttachment(fileName, locator string) {
	f.draft.FileName = fileName
	f.draft.FileLocator = locator
}

// Reset clears every draft field
func (f *Form) Reset() {
	f.draft = Draft{}
}

// Validate checks that every required field is filled in
func (f *Form) Validate() error {
	var err error
	if f.requireLocator {
		err = f.validate.Struct(f.draft)
	} else {
		err = f.validate.StructExcept(f.draft, "FileLocator")
	}
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating draft: %w", err)
	}

	var missing, invalid []string
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Reason: ReasonMissingField, Fields: missing}
	}
	return &ValidationError{Reason: ReasonInvalidField, Fields: invalid}
}

// Submit validates the draft, builds a new refund and hands it to sink.
// The draft is reset only when sink accepts the refund.
func (f *Form) Submit(ctx context.Context, sink Sink) (Refund, error) {
	if err := f.Validate(); err != nil {
		return Refund{}, err
	}

	value, err := CanonicalValue(f.draft.Value)
	if err != nil {
		return Refund{}, fmt.Errorf("canonicalizing value: %w", err)
	}

	r := Refund{
		ID:       f.idGenerator.Generate(),
		Name:     f.draft.Name,
		Category: f.draft.Category,
		Value:    value,
		FileName: f.draft.FileName,
		FileURI:  f.draft.FileLocator,
	}

	if err := sink(ctx, r); err != nil {
		return Refund{}, err
	}

	f.Reset()
	return r, nil
}
