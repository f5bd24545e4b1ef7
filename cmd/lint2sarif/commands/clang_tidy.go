package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/l3montree-dev/lint2sarif/cmd/lint2sarif/config"
	"github.com/l3montree-dev/lint2sarif/convert"
	"github.com/l3montree-dev/lint2sarif/convert/clangtidy"
)

func NewClangTidyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "clang-tidy",
		Short:             "Convert clang-tidy text output into a SARIF report",
		DisableAutoGenTag: true,
		Long: `Convert the plain text output of clang-tidy into a SARIF 2.1.0 report.

clang-tidy has no structured output format, so the converter parses the
"file:line:column: severity: message [check]" diagnostic lines, keeps the
quoted source line as the finding's snippet and attaches note lines to the
diagnostic they belong to. Build banners and other noise are ignored. Reads
from stdin when no input file is given and writes to stdout when no output
file is given.`,
		Example: `  # Straight from the checker
  clang-tidy -checks='modernize-*' src/*.cpp | lint2sarif clang-tidy -o results.sarif.json

  # With paths relative to the repository
  lint2sarif clang-tidy -i clang-tidy.log --baseDir /home/ci/project -o results.sarif.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConversion(func(r io.Reader) (convert.Output, error) {
				return clangtidy.Convert(r, clangtidy.Options{
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
