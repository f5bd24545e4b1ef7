package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/l3montree-dev/lint2sarif/cmd/lint2sarif/config"
	"github.com/l3montree-dev/lint2sarif/convert"
	"github.com/l3montree-dev/lint2sarif/convert/shellcheck"
)

func NewShellcheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "shellcheck",
		Short:             "Convert shellcheck JSON output into a SARIF report",
		DisableAutoGenTag: true,
		Long: `Convert the JSON output of shellcheck into a SARIF 2.1.0 report.

Both the json format (a bare array of comments) and the json1 format (an
object wrapping the comments) are accepted. Reads from stdin when no input
file is given and writes to stdout when no output file is given.`,
		Example: `  # Straight from the linter
  shellcheck -f json1 scripts/*.sh | lint2sarif shellcheck -o results.sarif.json

  # From a saved run
  lint2sarif shellcheck -i shellcheck.json -o results.sarif.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConversion(func(r io.Reader) (convert.Output, error) {
				return shellcheck.Convert(r, shellcheck.Options{
					ToolVersion: config.RuntimeBaseConfig.ToolVersion,
					BaseDir:     config.RuntimeBaseConfig.BaseDir,
					Category:    config.RuntimeBaseConfig.Category,
					RunGUID:     newRunGUID(),
				})
			})
		},
	}

	addConvertFlags(cmd)
	cmd.Flags().String("baseDir", "", "Directory paths are rewritten relative to")

	return cmd
}
