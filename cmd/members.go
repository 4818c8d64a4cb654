package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/group-memory/internal/config"
	"github.com/kozaktomas/group-memory/internal/database"
	"github.com/spf13/cobra"
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "Manage group members",
}

var membersAddCmd = &cobra.Command{
	Use:   "add <group-id>",
	Short: "Add a person to a group",
	Long: `Adds a named person to the group roster. Names must be unique within a
group; the description is an optional hint passed to the AI model.`,
	Args: cobra.ExactArgs(1),
	RunE: runMembersAdd,
}

func init() {
	rootCmd.AddCommand(membersCmd)
	membersCmd.AddCommand(membersAddCmd)

	membersAddCmd.Flags().String("name", "", "Member name (required)")
	membersAddCmd.Flags().String("description", "", "Optional description")
	membersAddCmd.MarkFlagRequired("name")
}

func runMembersAdd(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	name, err := requireString(cmd, "name")
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	member, err := store.AddMember(ctx, args[0], name, mustGetString(cmd, "description"))
	switch {
	case errors.Is(err, database.ErrGroupNotFound):
		return fmt.Errorf("group %s not found", args[0])
	case errors.Is(err, database.ErrDuplicateMember):
		return fmt.Errorf("group %s already has a member with this name", args[0])
	case err != nil:
		return fmt.Errorf("failed to add member: %w", err)
	}

	fmt.Printf("Added %q to group %s (%s)\n", member.Name, args[0], member.ID)
	return nil
}
