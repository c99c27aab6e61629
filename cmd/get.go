package cmd

import (
	"context"
	"errors"
	"fmt"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
	"github.com/PolarWolf314/provenv/internal/ui"
	"github.com/PolarWolf314/provenv/internal/workflows"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <group> <selector>",
	Short: "Print one field of a secret document",
	Long: `Decrypts one secret document and prints a single field from it.

The group is the document name without extensions (ai for ai.yaml) or its path
relative to the secrets directory. The selector addresses one scalar value,
for example GEMINI_API_KEY, .database.password or .tokens[0].

The value is printed to standard output without a trailing decoration so it
can be captured: export TOKEN="$(provenv get github TOKEN)"`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting get command")
	Logger.Debugf("Group: %s, selector: %s", args[0], args[1])

	spinner, cleanup := startSpinner("Decrypting "+args[0]+"...", verbose)
	defer cleanup()

	cfg, _, _ := loadConfig()
	result, err := workflows.Get(context.Background(), workflows.GetOptions{
		ProvisionOptions: provisionOptions(cfg, ttyPassphrase(spinner)),
		Group:            args[0],
		Selector:         args[1],
	})
	if err != nil {
		spinner.FinalMSG = formatGetError(args[0], args[1], err)
		return err
	}

	cleanup()
	fmt.Println(result.Value)
	return nil
}

// formatGetError formats a get error for display to the user.
func formatGetError(group, selector string, err error) string {
	switch {
	case errors.Is(err, kerrors.ErrDocumentNotFound):
		return ui.Error.Sprint("✗") + " No secret document named " + ui.Highlight.Sprint(group) + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("provenv status") + " to list documents"

	case errors.Is(err, kerrors.ErrSelectorNotFound):
		return ui.Error.Sprint("✗") + " " + ui.Highlight.Sprint(selector) + " is not defined in " + ui.Highlight.Sprint(group)

	case errors.Is(err, kerrors.ErrKeyFileMissing):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Set " + ui.Code.Sprint("SOPS_AGE_KEY_FILE") + " or " + ui.Flag.Sprint("secrets.key_file")

	case errors.Is(err, kerrors.ErrToolNotFound):
		return ui.Error.Sprint("✗") + " " + err.Error() + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("provenv doctor") + " for details"

	default:
		return ui.Error.Sprint("✗") + " Failed to read " + ui.Highlight.Sprint(group) + ": " + err.Error()
	}
}
