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

package config

import (
	"github.com/spf13/viper"
)

type baseConfig struct {
	Input     []string `json:"input" mapstructure:"input" validate:"dive,required"`
	Output    string   `json:"output" mapstructure:"output"`
	OutputDir string   `json:"outputDir" mapstructure:"outputDir" validate:"omitempty,dir"`

	ToolVersion string `json:"toolVersion" mapstructure:"toolVersion"`
	Category    string `json:"category" mapstructure:"category"`

	BaseDir       string `json:"baseDir" mapstructure:"baseDir"`
	CargoMetadata string `json:"cargoMetadata" mapstructure:"cargoMetadata" validate:"omitempty,file"`

	Concurrency int `json:"concurrency" mapstructure:"concurrency" validate:"gte=0,lte=64"`
}

var RuntimeBaseConfig baseConfig

func ParseBaseConfig() {
	err := viper.Unmarshal(&RuntimeBaseConfig)
	if err != nil {
		panic(err)
	}

	if err := validateBaseConfig(RuntimeBaseConfig); err != nil {
		panic(err)
	}

	if RuntimeBaseConfig.Concurrency <= 0 {
		RuntimeBaseConfig.Concurrency = 4
	}
}
