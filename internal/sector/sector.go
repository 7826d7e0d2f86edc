package sector

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tmcewan/expowatch/internal/logger"
)

// Sector couples a display label with the search-query fragment used during
// discovery and the lowercased keywords used for title classification.
type Sector struct {
	Name     string
	Search   string
	Keywords []string
}

// Taxonomy is an ordered list of sectors. Order matters: classification
// returns the first sector with a keyword hit.
type Taxonomy struct {
	sectors []Sector
}

// Default returns the built-in seven-sector taxonomy used when no
// configuration file is present.
func Default() *Taxonomy {
	return &Taxonomy{sectors: []Sector{
		{
			Name:     "Engineering & Manufacturing",
			Search:   "engineering OR manufacturing OR aerospace OR automotive",
			Keywords: []string{"manufactur", "engineer", "aerospace", "aviation", "automotive", "packaging"},
		},
		{
			Name:     "Defence, Cyber & Security",
			Search:   "defence OR defense OR cyber OR security OR infosec",
			Keywords: []string{"defence", "defense", "cyber", "security", "infosec", "risk"},
		},
		{
			Name:     "Energy",
			Search:   "energy OR smart buildings OR sustainability OR net zero",
			Keywords: []string{"energy", "smart building", "sustainab", "net zero"},
		},
		{
			Name:     "Public Sector",
			Search:   "public sector OR government OR NHS OR education",
			Keywords: []string{"public sector", "government", "nhs", "education"},
		},
		{
			Name:     "Fintech",
			Search:   "fintech OR banking OR payments OR blockchain OR crypto OR DeFi",
			Keywords: []string{"fintech", "finance", "bank", "payment", "blockchain", "crypto", "defi"},
		},
		{
			Name:     "Life Sciences",
			Search:   "life sciences OR biotech OR pharma OR medical",
			Keywords: []string{"life science", "biotech", "pharma", "medical", "dental", "vet"},
		},
		{
			Name:     "Project Management",
			Search:   "project management OR PMO OR programme OR portfolio",
			Keywords: []string{"project management", "pmo", "programme", "portfolio"},
		},
	}}
}

// entry is one YAML taxonomy item. A plain string becomes a single-keyword
// sector named after itself; mapping entries accept query as an alias for
// search and tags as an alias for keywords.
type entry struct {
	Name     string     `yaml:"name"`
	Search   string     `yaml:"search"`
	Query    string     `yaml:"query"`
	Keywords stringList `yaml:"keywords"`
	Tags     stringList `yaml:"tags"`
}

func (e *entry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		e.Name = s
		e.Search = s
		e.Keywords = stringList{strings.ToLower(s)}
		return nil
	}
	type plain entry
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*e = entry(p)
	return nil
}

// stringList accepts either a YAML scalar or a sequence of scalars.
type stringList []string

func (s *stringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var one string
		if err := value.Decode(&one); err != nil {
			return err
		}
		*s = stringList{one}
		return nil
	}
	var many []string
	if err := value.Decode(&many); err != nil {
		return err
	}
	*s = many
	return nil
}

// Load reads the taxonomy from path. A missing file quietly yields the
// default taxonomy; a malformed one is logged and also falls back, so a bad
// config can never leave a run with no sectors at all.
func Load(path string) *Taxonomy {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("sector config unreadable, using defaults", logger.Fields{
				"path":  path,
				"error": err.Error(),
			})
		}
		return Default()
	}

	var entries []entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		logger.Warn("sector config malformed, using defaults", logger.Fields{
			"path":  path,
			"error": err.Error(),
		})
		return Default()
	}

	tax := &Taxonomy{}
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		search := strings.TrimSpace(e.Search)
		if search == "" {
			search = strings.TrimSpace(e.Query)
		}
		if search == "" {
			search = name
		}
		raw := e.Keywords
		if len(raw) == 0 {
			raw = e.Tags
		}
		keywords := make([]string, 0, len(raw))
		for _, k := range raw {
			if k = strings.TrimSpace(k); k != "" {
				keywords = append(keywords, strings.ToLower(k))
			}
		}
		tax.sectors = append(tax.sectors, Sector{Name: name, Search: search, Keywords: keywords})
	}
	if len(tax.sectors) == 0 {
		return Default()
	}
	return tax
}

// Sectors returns the taxonomy in configuration order.
func (t *Taxonomy) Sectors() []Sector {
	return t.sectors
}

// Classify returns the first sector, in configuration order, whose keyword
// list has a case-insensitive substring match against the title.
func (t *Taxonomy) Classify(title string) (string, bool) {
	lowered := strings.ToLower(title)
	for _, s := range t.sectors {
		for _, k := range s.Keywords {
			if strings.Contains(lowered, k) {
				return s.Name, true
			}
		}
	}
	return "", false
}
