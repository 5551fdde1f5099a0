package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category describes one clinical category and the activity bands the
// committee scores it against.
type Category struct {
	Key          string  `yaml:"key" json:"key"`
	Label        string  `yaml:"label" json:"label"`
	MinForTier1  float64 `yaml:"min_for_tier1" json:"min_for_tier1"`
	MaxForTier1  float64 `yaml:"max_for_tier1" json:"max_for_tier1"`
	MinForTier2  float64 `yaml:"min_for_tier2" json:"min_for_tier2"`
	PointTier1   float64 `yaml:"point_tier1" json:"point_tier1"`
	PointTier2   float64 `yaml:"point_tier2" json:"point_tier2"`
	DisplayOrder int     `yaml:"display_order" json:"display_order"`
}

// Catalog bundles the department's static configuration: the professor
// roster the parser tallies against, the scoring categories, and the
// diagnosis letter to category mapping.
type Catalog struct {
	Professors   []string          `yaml:"professors" json:"professors"`
	Categories   []Category        `yaml:"categories" json:"categories"`
	DiagnosisMap map[string]string `yaml:"diagnosis_map" json:"diagnosis_map"`
}

func Load(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultCatalog(), err
	}
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if err := cat.Validate(); err != nil {
		return Catalog{}, err
	}
	return cat, nil
}

func (c Catalog) Validate() error {
	if len(c.Professors) == 0 {
		return fmt.Errorf("catalog: professor roster empty")
	}
	if len(c.Categories) == 0 {
		return fmt.Errorf("catalog: categories empty")
	}
	keys := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Key == "" {
			return fmt.Errorf("catalog: category with empty key")
		}
		if _, dup := keys[cat.Key]; dup {
			return fmt.Errorf("catalog: duplicate category key %s", cat.Key)
		}
		keys[cat.Key] = struct{}{}
	}
	for code, key := range c.DiagnosisMap {
		if len(code) != 1 || code[0] < 'A' || code[0] > 'K' {
			return fmt.Errorf("catalog: invalid diagnosis code %q", code)
		}
		if _, ok := keys[key]; !ok {
			return fmt.Errorf("catalog: diagnosis code %s maps to unknown category %s", code, key)
		}
	}
	return nil
}

// CategoryFor resolves a diagnosis letter to its category key.
func (c Catalog) CategoryFor(code string) (string, bool) {
	key, ok := c.DiagnosisMap[strings.ToUpper(strings.TrimSpace(code))]
	return key, ok
}

// DefaultCatalog carries the production seed: the five-professor roster
// and the eleven committee categories with their tier bounds.
func DefaultCatalog() Catalog {
	return Catalog{
		Professors: []string{"김용하", "김태곤", "이준호", "김일국", "김성은"},
		Categories: []Category{
			{Key: "headneck_congenital", Label: "A. 두경부 선천기형", MinForTier1: 0, MaxForTier1: 18, MinForTier2: 19, PointTier1: 0.1, PointTier2: 0.2, DisplayOrder: 1},
			{Key: "headneck_tumor", Label: "B. 두경부 종양", MinForTier1: 0, MaxForTier1: 101, MinForTier2: 102, PointTier1: 0.1, PointTier2: 0.2, DisplayOrder: 2},
			{Key: "headneck_trauma_infection_etc", Label: "C. 두경부 외상,감염 및 기타", MinForTier1: 0, MaxForTier1: 304, MinForTier2: 305, PointTier1: 0.1, PointTier2: 0.2, DisplayOrder: 3},
			{Key: "breast_trunk_leg_congenital", Label: "D. 유방, 체간 및 하지, 선천기형", MinForTier1: 0, MaxForTier1: 4, MinForTier2: 5, PointTier1: 0.1, PointTier2: 0.2, DisplayOrder: 4},
			{Key: "breast_trunk_leg_tumor", Label: "E. 유방, 체간 및 하지 종양", MinForTier1: 0, MaxForTier1: 53, MinForTier2: 54, PointTier1: 0.1, PointTier2: 0.2, DisplayOrder: 5},
			{Key: "breast_trunk_leg_trauma_infection_etc", Label: "F. 유방, 체간 및 하지 외상, 감염 및 기타", MinForTier1: 0, MaxForTier1: 200, MinForTier2: 201, PointTier1: 0.1, PointTier2: 0.2, DisplayOrder: 6},
			{Key: "hand_upper_congenital", Label: "G. 수부 및 상지 선천기형", MinForTier1: 0, MaxForTier1: 1, MinForTier2: 2, PointTier1: 0.1, PointTier2: 0.2, DisplayOrder: 7},
			{Key: "hand_upper_tumor", Label: "H. 수부 및 상지 종양", MinForTier1: 0, MaxForTier1: 23, MinForTier2: 24, PointTier1: 0.1, PointTier2: 0.2, DisplayOrder: 8},
			{Key: "hand_upper_trauma_infection_etc", Label: "I. 수부 및 상지 외상, 감염 및 기타", MinForTier1: 0, MaxForTier1: 117, MinForTier2: 118, PointTier1: 0.1, PointTier2: 0.2, DisplayOrder: 9},
			{Key: "skin_tumor", Label: "J. 피부종양", MinForTier1: 0, MaxForTier1: 132, MinForTier2: 133, PointTier1: 0.1, PointTier2: 0.2, DisplayOrder: 10},
			{Key: "cosmetic", Label: "K. 미용", MinForTier1: 0, MaxForTier1: 205, MinForTier2: 206, PointTier1: 0.1, PointTier2: 0.2, DisplayOrder: 11},
		},
		DiagnosisMap: map[string]string{
			"A": "headneck_congenital",
			"B": "headneck_tumor",
			"C": "headneck_trauma_infection_etc",
			"D": "breast_trunk_leg_congenital",
			"E": "breast_trunk_leg_tumor",
			"F": "breast_trunk_leg_trauma_infection_etc",
			"G": "hand_upper_congenital",
			"H": "hand_upper_tumor",
			"I": "hand_upper_trauma_infection_etc",
			"J": "skin_tumor",
			"K": "cosmetic",
		},
	}
}
