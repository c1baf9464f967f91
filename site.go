package kilobite

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/eringen/kilobite/siteconfig"
)

// DefaultSiteFile is read when no site file is configured.
const DefaultSiteFile = "site.yaml"

// LoadSite reads and validates the site configuration at path (YAML or JSON).
// An empty path reads DefaultSiteFile and falls back to siteconfig.Default()
// when that file does not exist; an explicit path must exist.
func LoadSite(path string) (*siteconfig.Site, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultSiteFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return siteconfig.Default(), nil
		}
		return nil, fmt.Errorf("kilobite: read site file: %w", err)
	}
	site, err := siteconfig.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("kilobite: %s: %w", path, err)
	}
	return site, nil
}
