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

// Package convert holds what all tool converters share: the conversion
// result envelope, the stage error taxonomy and the severity, path and
// region mapping helpers.
package convert

import (
	"fmt"

	"github.com/l3montree-dev/lint2sarif/sarif"
)

// Warning describes a single diagnostic record that was skipped or
// rewritten during conversion. Warnings never abort a conversion, they
// travel alongside the report so callers can surface them.
type Warning struct {
	Record string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Record, w.Reason)
}

// Output is what every converter returns: the finished report plus the
// per-record warnings collected on the way.
type Output struct {
	Report   sarif.Report
	Warnings []Warning
}

func (o *Output) AddWarning(record, reason string) {
	o.Warnings = append(o.Warnings, Warning{Record: record, Reason: reason})
}

// FlagEmpty appends a catch-all warning when non-empty input yielded
// neither results nor warnings. A run must never silently come out empty
// when there was something to convert.
func (o *Output) FlagEmpty(hadInput bool) {
	if !hadInput || len(o.Warnings) > 0 {
		return
	}
	for _, run := range o.Report.Runs {
		if len(run.Results) > 0 {
			return
		}
	}
	o.AddWarning("input", "no diagnostics could be extracted")
}
