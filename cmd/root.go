package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kozaktomas/group-memory/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "group-memory",
	Short: "Remember who is who in your group photos",
	Long: `Group Memory keeps group photos with a roster of the people in them and
uses a multimodal AI model (Gemini, OpenAI or Ollama) to tell you who is on a
new photo, or to answer questions about the group.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
	logging.Setup()
}
