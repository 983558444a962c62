package level

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed levels.yaml
var defaultCatalogYAML []byte

// Catalog is an ordered set of level descriptors.
type Catalog struct {
	Levels []Descriptor `yaml:"levels" json:"levels"`
}

// Default returns the embedded campaign.
func Default() (*Catalog, error) {
	c, err := parseCatalog(defaultCatalogYAML, "embedded")
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCatalog loads levels from a list of paths (files or directories).
// Only .yaml and .yml files inside directories are read.
func LoadCatalog(paths []string) (*Catalog, error) {
	catalog := &Catalog{}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access path %s: %w", path, err)
		}

		if info.IsDir() {
			files, err := os.ReadDir(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read dir %s: %w", path, err)
			}
			for _, entry := range files {
				if entry.IsDir() || !isCatalogFile(entry.Name()) {
					continue
				}
				c, err := loadFile(filepath.Join(path, entry.Name()))
				if err != nil {
					return nil, err
				}
				catalog.Levels = append(catalog.Levels, c.Levels...)
			}
		} else {
			c, err := loadFile(path)
			if err != nil {
				return nil, err
			}
			catalog.Levels = append(catalog.Levels, c.Levels...)
		}
	}

	catalog.sort()
	return catalog, nil
}

func isCatalogFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func loadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return parseCatalog(data, path)
}

func parseCatalog(data []byte, source string) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", source, err)
	}
	for i, d := range c.Levels {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("%s: level %d (entry %d): %w", source, d.ID, i, err)
		}
	}
	c.sort()
	return &c, nil
}

func (c *Catalog) sort() {
	slices.SortStableFunc(c.Levels, func(a, b Descriptor) int {
		return a.ID - b.ID
	})
}

// Get returns the level with the given id.
func (c *Catalog) Get(id int) (Descriptor, bool) {
	for _, d := range c.Levels {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// World returns the levels of one world in stage order.
func (c *Catalog) World(n int) []Descriptor {
	var out []Descriptor
	for _, d := range c.Levels {
		if d.World == n {
			out = append(out, d)
		}
	}
	slices.SortStableFunc(out, func(a, b Descriptor) int {
		return a.Stage - b.Stage
	})
	return out
}

// Worlds lists the distinct world numbers in ascending order.
func (c *Catalog) Worlds() []int {
	var out []int
	for _, d := range c.Levels {
		if !slices.Contains(out, d.World) {
			out = append(out, d.World)
		}
	}
	slices.Sort(out)
	return out
}

// From returns the levels starting at id, in catalog order.
func (c *Catalog) From(id int) []Descriptor {
	for i, d := range c.Levels {
		if d.ID == id {
			return slices.Clone(c.Levels[i:])
		}
	}
	return nil
}
