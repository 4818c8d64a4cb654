package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/kozaktomas/group-memory/internal/blob"
	"github.com/kozaktomas/group-memory/internal/config"
	"github.com/kozaktomas/group-memory/internal/constants"
	"github.com/kozaktomas/group-memory/internal/database"
	"github.com/spf13/cobra"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Manage groups",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all groups, newest first",
	Args:  cobra.NoArgs,
	RunE:  runGroupsList,
}

var groupsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a group from a photo",
	Long: `Uploads the group photo to the configured blob backend and creates an
empty group referencing it. Add people with "members add".`,
	Args: cobra.NoArgs,
	RunE: runGroupsCreate,
}

var groupsShowCmd = &cobra.Command{
	Use:   "show <group-id>",
	Short: "Show a group with its members",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsShow,
}

func init() {
	rootCmd.AddCommand(groupsCmd)
	groupsCmd.AddCommand(groupsListCmd, groupsCreateCmd, groupsShowCmd)

	groupsListCmd.Flags().Bool("json", false, "Output as JSON")
	groupsShowCmd.Flags().Bool("json", false, "Output as JSON")

	groupsCreateCmd.Flags().String("name", "", "Group name (required)")
	groupsCreateCmd.Flags().String("image", "", "Path to the group photo (required)")
	groupsCreateCmd.MarkFlagRequired("name")
	groupsCreateCmd.MarkFlagRequired("image")
}

// GroupOutput is the JSON form of a group.
type GroupOutput struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	ImageURL    string         `json:"image_url"`
	CreatedAt   string         `json:"created_at"`
	MemberCount int            `json:"member_count"`
	Members     []MemberOutput `json:"members,omitempty"`
}

// MemberOutput is the JSON form of a member.
type MemberOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func toGroupOutput(g database.Group) GroupOutput {
	out := GroupOutput{
		ID:          g.ID,
		Name:        g.Name,
		ImageURL:    g.ImageURL,
		CreatedAt:   g.CreatedAt.Format(time.RFC3339),
		MemberCount: g.MemberCount,
	}
	if strings.HasPrefix(g.ImageURL, "data:") {
		out.ImageURL = "inline"
	}
	for _, m := range g.Members {
		out.Members = append(out.Members, MemberOutput{ID: m.ID, Name: m.Name, Description: m.Description})
	}
	return out
}

func runGroupsList(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	groups, err := store.ListGroups(ctx)
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}

	if mustGetBool(cmd, "json") {
		out := make([]GroupOutput, 0, len(groups))
		for _, g := range groups {
			out = append(out, toGroupOutput(g))
		}
		return outputJSON(out)
	}

	if len(groups) == 0 {
		fmt.Println("No groups found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tMEMBERS\tCREATED")
	fmt.Fprintln(w, "--\t----\t-------\t-------")
	for _, g := range groups {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", g.ID, g.Name, g.MemberCount, g.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	w.Flush()

	fmt.Printf("\nTotal: %d groups\n", len(groups))
	return nil
}

// readImageFile reads a local photo and determines its content type.
func readImageFile(path string) ([]byte, string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	if info.Size() > constants.MaxUploadSize {
		return nil, "", fmt.Errorf("image %s is larger than %d MB", path, constants.MaxUploadSize>>20)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("image %s is empty", path)
	}
	contentType := http.DetectContentType(data)
	if !blob.IsImage(contentType) {
		return nil, "", fmt.Errorf("%s is not an image (%s)", path, contentType)
	}
	return data, contentType, nil
}

// createGroup stores the photo first, then the group row referencing it.
func createGroup(ctx context.Context, store database.GroupWriter, blobs blob.Store, name, imagePath string) (*database.Group, error) {
	data, contentType, err := readImageFile(imagePath)
	if err != nil {
		return nil, err
	}
	url, err := blobs.Put(ctx, data, filepath.Base(imagePath), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}
	group, err := store.CreateGroup(ctx, name, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}
	return group, nil
}

func runGroupsCreate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	name, err := requireString(cmd, "name")
	if err != nil {
		return err
	}
	imagePath, err := requireString(cmd, "image")
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

	group, err := createGroup(ctx, store, blobs, name, imagePath)
	if err != nil {
		return err
	}

	fmt.Printf("Created group %q (%s)\n", group.Name, group.ID)
	return nil
}

func runGroupsShow(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	group, err := store.GetGroup(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get group: %w", err)
	}
	if group == nil {
		return fmt.Errorf("group %s not found", args[0])
	}

	if mustGetBool(cmd, "json") {
		return outputJSON(toGroupOutput(*group))
	}

	fmt.Printf("Group:   %s\n", group.Name)
	fmt.Printf("ID:      %s\n", group.ID)
	fmt.Printf("Created: %s\n", group.CreatedAt.Local().Format("2006-01-02 15:04"))
	if strings.HasPrefix(group.ImageURL, "data:") {
		fmt.Printf("Image:   inline (%d bytes)\n", len(group.ImageURL))
	} else {
		fmt.Printf("Image:   %s\n", group.ImageURL)
	}
	fmt.Println()

	if len(group.Members) == 0 {
		fmt.Println("No members yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION")
	fmt.Fprintln(w, "----\t-----------")
	for _, m := range group.Members {
		fmt.Fprintf(w, "%s\t%s\n", m.Name, m.Description)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d members\n", len(group.Members))
	return nil
}
