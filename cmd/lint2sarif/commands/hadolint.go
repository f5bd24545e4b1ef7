package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/l3montree-dev/lint2sarif/cmd/lint2sarif/config"
	"github.com/l3montree-dev/lint2sarif/convert"
	"github.com/l3montree-dev/lint2sarif/convert/hadolint"
)

func NewHadolintCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "hadolint",
		Short:             "Convert hadolint JSON output into a SARIF report",
		DisableAutoGenTag: true,
		Long: `Convert the JSON output of hadolint (hadolint -f json) into a SARIF 2.1.0 report.

Reads from stdin when no input file is given and writes to stdout when no
output file is given.`,
		Example: `  # Straight from the linter
  hadolint -f json Dockerfile | lint2sarif hadolint -o results.sarif.json

  # From a saved run
  lint2sarif hadolint -i hadolint.json -o results.sarif.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConversion(func(r io.Reader) (convert.Output, error) {
				return hadolint.Convert(r, hadolint.Options{
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
