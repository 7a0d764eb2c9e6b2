// Package catalog holds the static set of career roadmaps.
// The table is built once at process start and never mutated; every accessor
// hands out copies so callers cannot alter the shared data.
package catalog

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Level is the difficulty of a skill.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

// IsValid reports whether the level is one of the known values.
func (l Level) IsValid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	default:
		return false
	}
}

// String returns the display form of the level.
func (l Level) String() string {
	return string(l)
}

// Skill is a single step of a roadmap. Name is unique within its path and
// is the key under which progress is stored.
type Skill struct {
	Name      string
	Level     Level
	Duration  string
	Resources []string
}

// CareerPath is an ordered roadmap of skills.
type CareerPath struct {
	ID          string
	Title       string
	Description string
	Skills      []Skill
}

// SkillCount returns the number of skills on the path.
func (c CareerPath) SkillCount() int {
	return len(c.Skills)
}

// HasSkill reports whether the path contains a skill with the given name.
func (c CareerPath) HasSkill(name string) bool {
	for _, s := range c.Skills {
		if s.Name == name {
			return true
		}
	}
	return false
}

func (c CareerPath) clone() CareerPath {
	out := c
	out.Skills = make([]Skill, len(c.Skills))
	for i, s := range c.Skills {
		s.Resources = append([]string(nil), s.Resources...)
		out.Skills[i] = s
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// CATALOG
// ══════════════════════════════════════════════════════════════════════════════

// Catalog is an immutable, ordered table of career paths.
type Catalog struct {
	paths []CareerPath
	index map[string]int
}

// New builds a catalog from the given paths, preserving their order.
// Later duplicates of an id are ignored.
func New(paths []CareerPath) *Catalog {
	c := &Catalog{
		paths: make([]CareerPath, 0, len(paths)),
		index: make(map[string]int, len(paths)),
	}
	for _, p := range paths {
		if _, dup := c.index[p.ID]; dup {
			continue
		}
		c.index[p.ID] = len(c.paths)
		c.paths = append(c.paths, p.clone())
	}
	return c
}

var defaultCatalog = New(defaultPaths())

// Default returns the process-wide catalog.
func Default() *Catalog {
	return defaultCatalog
}

// All returns every career path in catalog order.
func (c *Catalog) All() []CareerPath {
	out := make([]CareerPath, len(c.paths))
	for i, p := range c.paths {
		out[i] = p.clone()
	}
	return out
}

// Get returns the career path with the given id.
func (c *Catalog) Get(id string) (CareerPath, bool) {
	i, ok := c.index[id]
	if !ok {
		return CareerPath{}, false
	}
	return c.paths[i].clone(), true
}

// Has reports whether a career path with the given id exists.
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// SkillCount returns the number of skills of a career path, or false when
// the id is unknown.
func (c *Catalog) SkillCount(id string) (int, bool) {
	i, ok := c.index[id]
	if !ok {
		return 0, false
	}
	return len(c.paths[i].Skills), true
}

// HasSkill reports whether the career path contains the named skill.
func (c *Catalog) HasSkill(careerID, skillName string) bool {
	i, ok := c.index[careerID]
	if !ok {
		return false
	}
	return c.paths[i].HasSkill(skillName)
}

// Len returns the number of career paths.
func (c *Catalog) Len() int {
	return len(c.paths)
}
