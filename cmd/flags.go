package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Flags are defined in init(), so a lookup error is a programming bug and
// the mustGet helpers panic instead of returning it.

func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

// requireString returns the trimmed flag value, or an error when it is blank.
// MarkFlagRequired only checks that the flag was passed.
func requireString(cmd *cobra.Command, name string) (string, error) {
	val := strings.TrimSpace(mustGetString(cmd, name))
	if val == "" {
		return "", fmt.Errorf("--%s must not be empty", name)
	}
	return val, nil
}
