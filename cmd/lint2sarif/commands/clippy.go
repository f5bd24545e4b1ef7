package commands

import (
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/l3montree-dev/lint2sarif/cmd/lint2sarif/config"
	"github.com/l3montree-dev/lint2sarif/convert"
	"github.com/l3montree-dev/lint2sarif/convert/clippy"
)

func NewClippyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "clippy",
		Short:             "Convert a cargo clippy message stream into a SARIF report",
		DisableAutoGenTag: true,
		Long: `Convert the JSON message stream of cargo clippy
(cargo clippy --message-format json) into a SARIF 2.1.0 report.

Span paths are reported the way cargo prints them. Pass --baseDir to rewrite
paths below that directory as relative, or --cargoMetadata with the output of
"cargo metadata --format-version 1" to derive the workspace root from the
package that produced each diagnostic. Reads from stdin when no input file is
given and writes to stdout when no output file is given.`,
		Example: `  # Straight from cargo
  cargo clippy --message-format json | lint2sarif clippy -o results.sarif.json

  # With workspace relative paths
  cargo metadata --format-version 1 > metadata.json
  cargo clippy --message-format json | lint2sarif clippy --cargoMetadata metadata.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := cargoResolver(config.RuntimeBaseConfig.CargoMetadata)
			if err != nil {
				return err
			}

			return runConversion(func(r io.Reader) (convert.Output, error) {
				return clippy.Convert(r, clippy.Options{
					ToolVersion: config.RuntimeBaseConfig.ToolVersion,
					BaseDir:     config.RuntimeBaseConfig.BaseDir,
					Resolver:    resolver,
					Category:    config.RuntimeBaseConfig.Category,
					RunGUID:     newRunGUID(),
				})
			})
		},
	}

	addConvertFlags(cmd)
	cmd.Flags().String("baseDir", "", "Directory paths are rewritten relative to. Overrides the workspace root from --cargoMetadata")
	cmd.Flags().String("cargoMetadata", "", "Output of 'cargo metadata --format-version 1', used to resolve the workspace root")

	return cmd
}

// cargoResolver loads the cargo metadata document when one was given.
// The cached resolver is shared across parallel batch conversions.
func cargoResolver(path string) (clippy.MetadataResolver, error) {
	if path == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open cargo metadata")
	}
	defer file.Close()

	metadata, err := clippy.ParseCargoMetadata(file)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse cargo metadata")
	}

	return clippy.NewCachedResolver(metadata, 128, time.Hour), nil
}
