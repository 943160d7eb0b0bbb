package main

import (
	"fmt"
	"strings"

	"advanced-form/internal/form"

	"github.com/spf13/cobra"
)

func newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List the form versions and their fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, v := range form.Versions {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", v, strings.Join(fieldsOf(v), ", "))
			}
			return nil
		},
	}
}

func fieldsOf(v form.Version) []string {
	fields := []string{"name", "email", "password"}
	if v.HasAvatar() {
		fields = append(fields, "avatar")
	}
	if v.HasTechs() {
		fields = append(fields, "techs")
	}
	return fields
}
