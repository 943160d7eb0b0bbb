package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"advanced-form/internal/form"
	"advanced-form/pkg/validation"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// valuesFile is the on-disk shape of the form values. JSON files parse as well.
type valuesFile struct {
	Name     string      `yaml:"name"`
	Email    string      `yaml:"email"`
	Password string      `yaml:"password"`
	Avatar   string      `yaml:"avatar"` // path, relative to the values file
	Techs    []techEntry `yaml:"techs"`
}

type techEntry struct {
	Title     string `yaml:"title"`
	Knowledge string `yaml:"knowledge"`
}

func newValidateCmd() *cobra.Command {
	var (
		version int
		output  string
	)
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a YAML or JSON values file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := form.Version(version)
			if !v.Valid() {
				return fmt.Errorf("unknown form version %d", version)
			}
			return runValidate(cmd, v, args[0], output)
		},
	}
	cmd.Flags().IntVarP(&version, "form", "f", int(form.VersionAvatar), "form version (1-3)")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "result format: json or yaml")
	return cmd
}

func runValidate(cmd *cobra.Command, version form.Version, path, output string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var in valuesFile
	if err := yaml.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	ctrl := form.NewController(form.NewSchema(version, validation.NewChecker(nil)))
	if err := loadValues(ctrl, in, filepath.Dir(path)); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	err = ctrl.Submit(cmd.Context(), func(_ context.Context, values form.FormValues) error {
		return writeResult(out, values, output)
	})
	var errs validation.Errors
	if errors.As(err, &errs) {
		for _, p := range errs.Paths() {
			fmt.Fprintf(out, "%s: %s\n", p, errs.Message(p))
		}
		return errInvalid
	}
	return err
}

func loadValues(ctrl *form.Controller, in valuesFile, dir string) error {
	fields := []struct{ path, value string }{
		{"name", in.Name},
		{"email", in.Email},
		{"password", in.Password},
	}
	for _, f := range fields {
		if err := ctrl.Set(f.path, f.value); err != nil {
			return err
		}
	}

	if ctrl.Version().HasTechs() {
		for _, t := range in.Techs {
			ctrl.AppendTech()
			i := len(ctrl.Techs()) - 1
			if err := ctrl.Set("techs."+strconv.Itoa(i)+".title", t.Title); err != nil {
				return err
			}
			if err := ctrl.Set("techs."+strconv.Itoa(i)+".knowledge", t.Knowledge); err != nil {
				return err
			}
		}
	}

	if ctrl.Version().HasAvatar() && in.Avatar != "" {
		avatarPath := in.Avatar
		if !filepath.IsAbs(avatarPath) {
			avatarPath = filepath.Join(dir, avatarPath)
		}
		content, err := os.ReadFile(avatarPath)
		if err != nil {
			return fmt.Errorf("read avatar: %w", err)
		}
		ctrl.SetAvatar(form.NewAvatar(filepath.Base(avatarPath), int64(len(content)), content))
	}
	return nil
}

func writeResult(w io.Writer, values form.FormValues, output string) error {
	switch output {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(values); err != nil {
			return err
		}
		return enc.Close()
	case "json", "":
		text, err := form.Serialize(values)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, text)
		return err
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
}
