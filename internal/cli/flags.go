package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/ambassador/internal/core/paging"
)

// changedString returns the flag value only when the user set it.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

// changedBool returns the flag value only when the user set it.
func changedBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}

// changedInt returns the flag value only when the user set it.
func changedInt(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", 1, "Page number (1-based)")
	cmd.Flags().Int("size", 0, "Page size (default: page_size from config)")
}

func pageRequest(cmd *cobra.Command) paging.Request {
	page, _ := cmd.Flags().GetInt("page")
	size, _ := cmd.Flags().GetInt("size")
	return paging.Request{Page: page, Size: size}
}

func zapCommand(cmd *cobra.Command) zap.Field {
	return zap.String("command", cmd.CommandPath())
}
