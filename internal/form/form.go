// Package form holds the demo form model: the validation schema for each
// form version, the controller that owns field values and errors, and the
// repeatable techs list.
package form

import (
	"fmt"
	"strconv"
)

// Version selects which of the three incremental forms is in use.
type Version int

const (
	VersionProfile Version = 1 // name, email, password
	VersionTechs   Version = 2 // + techs
	VersionAvatar  Version = 3 // + avatar upload
)

// Versions lists every supported form version in order.
var Versions = []Version{VersionProfile, VersionTechs, VersionAvatar}

func ParseVersion(s string) (Version, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid form version %q", s)
	}
	v := Version(n)
	if !v.Valid() {
		return 0, fmt.Errorf("unknown form version %d", n)
	}
	return v, nil
}

func (v Version) Valid() bool {
	return v >= VersionProfile && v <= VersionAvatar
}

// HasTechs reports whether the version carries the techs sub-list.
func (v Version) HasTechs() bool { return v >= VersionTechs }

// HasAvatar reports whether the version requires an avatar upload.
func (v Version) HasAvatar() bool { return v >= VersionAvatar }

func (v Version) String() string {
	return strconv.Itoa(int(v))
}

// FormValues is the validated and transformed value set. It only exists
// after every field rule passed.
type FormValues struct {
	Name     string  `json:"name" yaml:"name"`
	Email    string  `json:"email" yaml:"email"`
	Password string  `json:"password" yaml:"password"`
	Avatar   *Avatar `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Techs    []Tech  `json:"techs,omitempty" yaml:"techs,omitempty"`
}

// Tech is a validated techs entry.
type Tech struct {
	Title     string `json:"title" yaml:"title"`
	Knowledge int    `json:"knowledge" yaml:"knowledge"`
}

// TechEntry is a techs row as edited. ID is a rendering key only and
// Knowledge keeps the raw text typed by the user.
type TechEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Knowledge string `json:"knowledge"`
}

// Input is the raw, unvalidated value store owned by a Controller.
type Input struct {
	Name     string
	Email    string
	Password string
	Avatar   *Avatar
	Techs    []TechEntry
}
