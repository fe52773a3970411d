package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"curse-update-proxy/logger"
	"curse-update-proxy/proxy"
	"curse-update-proxy/ui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [modId]",
	Short: "Prints the promotions of one mod",
	Long: `Runs the same aggregation as the proxy for one mod and prints it.
Example: curse-update-proxy inspect 398267`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		runInspect(args[0], asJSON)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("json", false, "Print the update document as served by the proxy")
}

func runInspect(rawID string, asJSON bool) {
	modID, err := strconv.Atoi(rawID)
	if err != nil || modID <= 0 {
		fmt.Fprintf(os.Stderr, "modId must be a positive integer, got %q\n", rawID)
		os.Exit(2)
	}

	_, svc := bootstrap(configDir)

	res, err := svc.Build(context.Background(), modID)
	switch {
	case errors.Is(err, proxy.ErrModNotFound):
		fmt.Fprintf(os.Stderr, "No mod with id %d was found for game minecraft.\n", modID)
		os.Exit(1)
	case errors.Is(err, proxy.ErrUnauthorized):
		fmt.Fprintln(os.Stderr, "The mod's author is not allowed by ALLOWED_AUTHOR.")
		os.Exit(1)
	case err != nil:
		logger.Log.Fatalw("Failed to build update document", zap.Int("mod_id", modID), zap.Error(err))
	}

	if asJSON {
		out, err := json.MarshalIndent(proxy.Document(res), "", "  ")
		if err != nil {
			logger.Log.Fatalw("Failed to encode update document", zap.Error(err))
		}
		fmt.Println(string(out))
		return
	}
	fmt.Print(ui.RenderResult(modID, res))
}
