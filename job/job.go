package job

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// Fields are the user supplied attributes of a Job. They are what gets
// inserted, and an update always replaces all three of them.
type Fields struct {
	// e.g. "Senior Python Developer"
	Title string `json:"title" validate:"required"`

	// e.g. "Payne, Roberts and Davis"
	Company string `json:"company" validate:"required"`

	// e.g. "Stewartbury, AA"
	Location string `json:"location" validate:"required"`
}

// Job is a stored job posting. ID is empty until the JobDB assigns one.
type Job struct {
	ID string `json:"_id,omitempty"`
	Fields
}

// New returns a Job with the given id and fields.
func New(id string, f Fields) *Job {
	return &Job{ID: id, Fields: f}
}

// Validate checks that every field is present and non-empty.
func (f Fields) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
	}
	return &ValidationError{Problems: problems}
}

// ValidateAll validates a batch, prefixing problems with the index of the
// offending entry.
func ValidateAll(fs []Fields) error {
	if len(fs) == 0 {
		return NewValidationError("at least one job is required")
	}

	var problems []string
	for i, f := range fs {
		err := f.Validate()
		if err == nil {
			continue
		}
		verr, ok := err.(*ValidationError)
		if !ok {
			return err
		}
		for _, p := range verr.Problems {
			problems = append(problems, fmt.Sprintf("jobs[%d]: %s", i, p))
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// newValidator reports json names in errors so messages match request bodies.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
