package cli

import (
	"fmt"

	"github.com/shred-cli/shred/internal/model"
	"github.com/shred-cli/shred/internal/prompt"
	"github.com/spf13/cobra"
)

// stylesCmd lists the available output styles
var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List available output styles",
	Run: func(cmd *cobra.Command, args []string) {
		for _, s := range model.Styles() {
			instruct, _ := prompt.StyleInstruction(s)
			fmt.Printf("%-8s %s\n", s, instruct)
		}
	},
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}
