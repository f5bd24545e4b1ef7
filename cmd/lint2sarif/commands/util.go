// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package commands

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/l3montree-dev/lint2sarif/cmd/lint2sarif/config"
	"github.com/l3montree-dev/lint2sarif/convert"
	"github.com/l3montree-dev/lint2sarif/sarif"
	"github.com/l3montree-dev/lint2sarif/utils"
)

// convertFunc adapts one tool package's Convert to the shared runner,
// with the tool options already bound. It is called once per input, so
// per-run values like the automation guid stay unique in batch mode.
type convertFunc func(r io.Reader) (convert.Output, error)

// addConvertFlags registers the flags every converter command shares.
func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("input", "i", nil, "Input file to convert. May be repeated, multiple inputs fan out to --outputDir (default: stdin)")
	cmd.Flags().StringP("output", "o", "", "Output file for the SARIF report (default: stdout)")
	cmd.Flags().String("outputDir", "", "Directory the reports are written to when converting multiple inputs")
	cmd.Flags().String("toolVersion", "", "Version of the tool that produced the input, stamped into the report's driver")
	cmd.Flags().String("category", "", "Run category for the report's automation details. Useful to tell multiple analyses of the same commit apart")
}

// newRunGUID mints the automation details guid. Runs only carry a guid
// when the user asked for a category, and every conversion gets a fresh
// one.
func newRunGUID() string {
	if config.RuntimeBaseConfig.Category == "" {
		return ""
	}
	return uuid.New().String()
}

// runConversion drives a tool command end to end: read, convert, log
// the record warnings, write. A single input (or stdin) writes to
// --output (or stdout), multiple inputs fan out to --outputDir.
func runConversion(fn convertFunc) error {
	inputs := config.RuntimeBaseConfig.Input
	if len(inputs) > 1 || (len(inputs) == 1 && config.RuntimeBaseConfig.OutputDir != "") {
		return runBatch(fn, inputs, config.RuntimeBaseConfig.OutputDir, config.RuntimeBaseConfig.Concurrency)
	}

	var in io.Reader = os.Stdin
	inputName := "stdin"
	if len(inputs) == 1 {
		file, err := os.Open(inputs[0])
		if err != nil {
			return errors.Wrap(err, "could not open input")
		}
		defer file.Close()
		in = file
		inputName = inputs[0]
	}

	out, err := fn(in)
	if err != nil {
		return err
	}
	logWarnings(inputName, out.Warnings)

	if config.RuntimeBaseConfig.Output == "" {
		return out.Report.Write(os.Stdout)
	}
	return writeReport(out.Report, config.RuntimeBaseConfig.Output)
}

func runBatch(fn convertFunc, inputs []string, outputDir string, concurrency int) error {
	if outputDir == "" {
		return fmt.Errorf("--outputDir is required when converting more than one input")
	}

	group := utils.ErrGroup[string](concurrency)
	for _, input := range inputs {
		input := input
		group.Go(func() (string, error) {
			file, err := os.Open(input)
			if err != nil {
				return "", errors.Wrapf(err, "could not open %s", input)
			}
			defer file.Close()

			out, err := fn(file)
			if err != nil {
				return "", errors.Wrapf(err, "could not convert %s", input)
			}
			logWarnings(input, out.Warnings)

			target := filepath.Join(outputDir, sarifFileName(input))
			if err := writeReport(out.Report, target); err != nil {
				return "", err
			}
			return target, nil
		})
	}

	written, err := group.WaitAndCollect()
	if err != nil {
		return err
	}

	slog.Info("batch conversion finished", "reports", len(written), "dir", outputDir)
	return nil
}

func writeReport(report sarif.Report, path string) error {
	var buf bytes.Buffer
	if err := report.Write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "could not write report")
	}
	return nil
}

func logWarnings(input string, warnings []convert.Warning) {
	for _, warning := range warnings {
		slog.Warn("conversion warning", "input", input, "record", warning.Record, "reason", warning.Reason)
	}
}

// sarifFileName swaps the input file's extension for .sarif. Only the
// base name is kept, batch outputs all land in the output dir.
func sarifFileName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".sarif"
}
