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
	"path"
	"strings"
)

// NormalizePath turns a tool-reported file path into an artifact uri:
// separators become forward slashes and absolute paths below baseDir are
// rewritten relative to it. Without a base the path passes through
// unchanged. The function is idempotent, normalizing twice changes
// nothing.
func NormalizePath(raw string, baseDir string) string {
	if raw == "" {
		return ""
	}
	normalized := path.Clean(strings.ReplaceAll(raw, `\`, "/"))
	if baseDir == "" {
		return normalized
	}
	base := path.Clean(strings.ReplaceAll(baseDir, `\`, "/"))
	if rel, ok := strings.CutPrefix(normalized, base+"/"); ok {
		return rel
	}
	return normalized
}
