package hadolint

import (
	_ "embed"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/l3montree-dev/lint2sarif/sarif"
	"github.com/l3montree-dev/lint2sarif/utils"
)

//go:embed rules.yaml
var rawCatalog []byte

type catalogEntry struct {
	Code        string `yaml:"code"`
	Severity    string `yaml:"severity"`
	Description string `yaml:"description"`
}

var (
	catalogOnce sync.Once
	catalog     map[string]catalogEntry
)

func loadCatalog() map[string]catalogEntry {
	catalogOnce.Do(func() {
		var entries []catalogEntry
		// the catalog ships with the binary, a parse failure is a build defect
		if err := yaml.Unmarshal(rawCatalog, &entries); err != nil {
			panic(err)
		}
		catalog = make(map[string]catalogEntry, len(entries))
		for _, entry := range entries {
			catalog[entry.Code] = entry
		}
	})
	return catalog
}

// DefaultLevel returns the severity hadolint declares for a check, nil
// when the check is unknown or declares none.
func DefaultLevel(code string) *sarif.Level {
	entry, ok := loadCatalog()[code]
	if !ok || entry.Severity == "" {
		return nil
	}
	return utils.Ptr(Severities.Resolve(entry.Severity))
}

// Description returns the documented short description of a check, nil
// when the check is unknown.
func Description(code string) *string {
	entry, ok := loadCatalog()[code]
	if !ok || entry.Description == "" {
		return nil
	}
	return utils.Ptr(entry.Description)
}
