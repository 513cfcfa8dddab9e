package linkspec

// Link is one entry of the table.
type Link struct {
	Name     string `yaml:"name"`
	Dest     string `yaml:"dest"`
	Source   string `yaml:"source"`
	Optional bool   `yaml:"optional,omitempty"`
}

// Table is the full set of links for one tool release.
type Table struct {
	Version string `yaml:"version"`
	Links   []Link `yaml:"links"`
}

// Names returns the entry names in table order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.Links))
	for _, l := range t.Links {
		names = append(names, l.Name)
	}
	return names
}
