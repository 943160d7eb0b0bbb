package form

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"advanced-form/pkg/validation"
)

// State of a Controller. Submitting only lasts while a success callback runs.
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

func (s State) String() string {
	if s == StateSubmitting {
		return "submitting"
	}
	return "idle"
}

// SuccessFunc receives the validated values after a successful submit.
type SuccessFunc func(ctx context.Context, values FormValues) error

// FieldBinding describes how one input is attached to the controller.
type FieldBinding struct {
	Name  string // input name, equal to the field path
	ID    string // element id
	Value string
	Error string // empty when the field has no error
}

// Controller owns the current field values and the errors of the last
// submit attempt. Edits never validate; validation happens once per Submit.
// A Controller is not safe for concurrent use.
type Controller struct {
	schema *Schema
	input  Input
	techs  *TechList
	errors validation.Errors
	state  State
}

func NewController(schema *Schema) *Controller {
	return &Controller{
		schema: schema,
		techs:  NewTechList(),
		errors: validation.Errors{},
	}
}

func (c *Controller) Version() Version { return c.schema.Version() }

func (c *Controller) State() State { return c.state }

// Errors returns the failures of the last submit attempt.
func (c *Controller) Errors() validation.Errors { return c.errors }

// Set writes the raw value of a text field. path is a field path such as
// "email" or "techs.1.knowledge".
func (c *Controller) Set(path, raw string) error {
	switch path {
	case "name":
		c.input.Name = raw
	case "email":
		c.input.Email = raw
	case "password":
		c.input.Password = raw
	default:
		i, field, ok := splitTechPath(path)
		if !ok || !c.Version().HasTechs() {
			return fmt.Errorf("unknown field %q", path)
		}
		return c.techs.Set(i, field, raw)
	}
	return nil
}

// SetAvatar selects the avatar file, nil clears it.
func (c *Controller) SetAvatar(a *Avatar) {
	c.input.Avatar = a
}

// AppendTech adds an empty techs row.
func (c *Controller) AppendTech() TechEntry {
	return c.techs.Append(DefaultTech)
}

// RestoreTech re-adds a posted techs row keeping its identity key.
func (c *Controller) RestoreTech(entry TechEntry) TechEntry {
	return c.techs.Restore(entry)
}

func (c *Controller) Techs() []TechEntry { return c.techs.Entries() }

// BindField returns the binding for path with its current value and error.
func (c *Controller) BindField(path string) FieldBinding {
	b := FieldBinding{
		Name:  path,
		ID:    strings.ReplaceAll(path, ".", "-"),
		Error: c.errors.Message(path),
	}
	switch path {
	case "name":
		b.Value = c.input.Name
	case "email":
		b.Value = c.input.Email
	case "password":
		b.Value = c.input.Password
	case "avatar":
		if c.input.Avatar != nil {
			b.Value = c.input.Avatar.FileName
		}
	default:
		if i, field, ok := splitTechPath(path); ok && i < c.techs.Len() {
			entry := c.techs.entries[i]
			if field == "title" {
				b.Value = entry.Title
			} else {
				b.Value = entry.Knowledge
			}
		}
	}
	return b
}

// Input returns a snapshot of the raw values.
func (c *Controller) Input() Input {
	in := c.input
	in.Techs = c.techs.Entries()
	return in
}

// Submit validates the whole value set. On success the errors are cleared
// and onSuccess is invoked with the transformed values; its error is
// returned as is. On failure the errors are stored, onSuccess is skipped and
// the validation.Errors are returned.
func (c *Controller) Submit(ctx context.Context, onSuccess SuccessFunc) error {
	values, errs := c.schema.Validate(c.Input())
	if errs != nil {
		c.errors = errs
		return errs
	}
	c.errors = validation.Errors{}
	if onSuccess == nil {
		return nil
	}

	c.state = StateSubmitting
	defer func() { c.state = StateIdle }()
	return onSuccess(ctx, values)
}

func splitTechPath(path string) (int, string, bool) {
	parts := strings.Split(path, ".")
	if len(parts) != 3 || parts[0] != "techs" {
		return 0, "", false
	}
	i, err := strconv.Atoi(parts[1])
	if err != nil || i < 0 {
		return 0, "", false
	}
	if parts[2] != "title" && parts[2] != "knowledge" {
		return 0, "", false
	}
	return i, parts[2], true
}
