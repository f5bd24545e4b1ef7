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
	"strings"

	"github.com/l3montree-dev/lint2sarif/sarif"
)

// SeverityMap translates one tool's native severity vocabulary into
// canonical levels. Lookup is case-insensitive.
type SeverityMap map[string]sarif.Level

// Resolve is total: native levels the map does not know fall back to
// warning instead of failing, tools keep inventing new ones.
func (m SeverityMap) Resolve(native string) sarif.Level {
	if level, ok := m[strings.ToLower(strings.TrimSpace(native))]; ok {
		return level
	}
	return sarif.LevelWarning
}
