package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/kozaktomas/group-memory/internal/ai"
	"github.com/kozaktomas/group-memory/internal/ask"
	"github.com/kozaktomas/group-memory/internal/config"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <group-id>",
	Short: "Identify a person or ask a question about a group",
	Long: `With --image, asks the AI model who on the group photo the person in the
given image is. Without an image, --prompt is answered from the group photo
and roster.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().String("image", "", "Photo of the person to identify")
	askCmd.Flags().String("prompt", "", "Question or extra context")
	askCmd.Flags().Bool("json", false, "Output as JSON")
}

// AskOutput is the JSON result of an ask.
type AskOutput struct {
	Mode      string `json:"mode"`
	Outcome   string `json:"outcome"`
	Message   string `json:"message"`
	Member    string `json:"member,omitempty"`
	Ambiguous bool   `json:"ambiguous,omitempty"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	req := ask.Request{GroupID: args[0], Question: mustGetString(cmd, "prompt")}
	if path := mustGetString(cmd, "image"); path != "" {
		data, contentType, err := readImageFile(path)
		if err != nil {
			return err
		}
		req.Image = &ai.Image{Data: data, MIMEType: contentType}
	}
	if req.IsEmpty() {
		return errors.New("either --image or --prompt is required")
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

	model, modelErr, err := newModel(ctx, cfg)
	if err != nil {
		return err
	}

	res := newAskService(cfg, store, blobs, model, modelErr, nil).Ask(ctx, req)

	if mustGetBool(cmd, "json") {
		out := AskOutput{
			Mode:      string(res.Mode),
			Outcome:   string(res.Outcome),
			Message:   res.Message,
			Ambiguous: res.Ambiguous,
		}
		if res.Member != nil {
			out.Member = res.Member.Name
		}
		return outputJSON(out)
	}

	fmt.Println(res.Message)
	if res.Member != nil {
		fmt.Printf("\nMatched member: %s\n", res.Member.Name)
		if res.Member.Description != "" {
			fmt.Printf("  %s\n", res.Member.Description)
		}
	}
	if res.Ambiguous {
		fmt.Println("Warning: several members share this name")
	}
	if res.Outcome != ask.OutcomeOK {
		return fmt.Errorf("ask failed: %s", res.Outcome)
	}
	return nil
}
