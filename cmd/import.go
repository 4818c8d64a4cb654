package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/group-memory/internal/config"
	"github.com/kozaktomas/group-memory/internal/roster"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <roster.yaml>",
	Short: "Create a group and its members from a YAML roster",
	Long: `Reads a roster file with the group name, the path of the group photo and
the list of members, then creates the group and adds every member.

Example roster:

  name: Hiking Club
  image: club.jpg
  members:
    - name: Kaito
      description: likes hiking
    - name: Aoi`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().Bool("json", false, "Output result as JSON instead of a progress bar")
}

// ImportOutput is the JSON result of an import.
type ImportOutput struct {
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
	Members int    `json:"members"`
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()
	jsonOutput := mustGetBool(cmd, "json")

	r, err := roster.Load(args[0])
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	blobs, err := newBlobs(ctx, cfg)
	if err != nil {
		return err
	}

	group, err := createGroup(ctx, store, blobs, r.Name, r.Image)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if !jsonOutput {
		fmt.Printf("Created group %q (%s)\n", group.Name, group.ID)
		bar = progressbar.NewOptions(len(r.Members),
			progressbar.OptionSetDescription("Adding members"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetItsString("members"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionFullWidth(),
		)
	}

	for _, m := range r.Members {
		if _, err := store.AddMember(ctx, group.ID, m.Name, m.Description); err != nil {
			return fmt.Errorf("failed to add member %q to group %s: %w", m.Name, group.ID, err)
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	if jsonOutput {
		return outputJSON(ImportOutput{GroupID: group.ID, Name: group.Name, Members: len(r.Members)})
	}
	if bar != nil {
		bar.Finish()
	}
	fmt.Printf("\nImported %d members into %q\n", len(r.Members), group.Name)
	return nil
}
