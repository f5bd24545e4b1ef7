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

	"golang.org/x/mod/semver"
)

// SemanticVersion returns the bare semantic version contained in a tool
// version string, or "" when the string is not a full major.minor.patch
// version. A leading "v" is tolerated. Converters stamp the raw string
// into the driver's version field either way, the semanticVersion field
// is only set when this returns a non-empty value.
func SemanticVersion(version string) string {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	if v == "" {
		return ""
	}
	// semver.IsValid accepts shorthand like v1 and v1.2, SARIF's
	// semanticVersion wants the full triple.
	if !semver.IsValid("v"+v) || semver.Canonical("v"+v) != "v"+v {
		return ""
	}
	return v
}
