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

import "fmt"

// Stage names the conversion phase a fatal error occurred in.
type Stage string

const (
	StageParse Stage = "parse"
	StageMap   Stage = "map"
	StageBuild Stage = "build"
)

// StageError is the fatal error type of a conversion. Anything that
// aborts a whole run (unreadable top-level input, a run that cannot be
// assembled) is wrapped into one, per-record problems become warnings
// instead.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}
