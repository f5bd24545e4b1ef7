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

package convert

import (
	"fmt"

	"github.com/l3montree-dev/lint2sarif/sarif"
	"github.com/l3montree-dev/lint2sarif/utils"
)

// RegionFrom maps 1-based tool coordinates onto a region. Column and end
// coordinates are optional, values below 1 mean absent. A start line
// below 1 is malformed tool output and yields an error so the caller can
// skip that single record without aborting the run.
func RegionFrom(startLine, startColumn, endLine, endColumn int) (sarif.Region, error) {
	if startLine < 1 {
		return sarif.Region{}, fmt.Errorf("start line must be at least 1, got %d", startLine)
	}
	region := sarif.Region{StartLine: startLine}
	if startColumn > 0 {
		region.StartColumn = utils.Ptr(startColumn)
	}
	if endLine > 0 {
		region.EndLine = utils.Ptr(endLine)
	}
	if endColumn > 0 {
		region.EndColumn = utils.Ptr(endColumn)
	}
	return region, nil
}
