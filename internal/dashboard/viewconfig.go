package dashboard

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed views.yaml
var defaultViews []byte

// View names looked up by the service.
const (
	ViewOverview        = "overview"
	ViewCampaigns       = "campaigns"
	ViewAdGroup         = "adgroup"
	ViewTargeting       = "targeting"
	ViewRecommendations = "recommendations"
	ViewAsins           = "asins"
	ViewKeywords        = "keywords"
	ViewBrands          = "brands"
	ViewBrandsTop       = "brands_top"
)

var requiredViews = []string{
	ViewOverview, ViewCampaigns, ViewAdGroup, ViewTargeting, ViewRecommendations,
	ViewAsins, ViewKeywords, ViewBrands, ViewBrandsTop,
}

// Grouping selects how a campaign table is laid out.
type Grouping string

// Grouping modes.
const (
	GroupingFlat     Grouping = "flat"
	GroupingCampaign Grouping = "campaign"
)

// Entity names the row type a view renders.
type Entity string

// Entities with a column registry.
const (
	EntityCampaign       Entity = "campaign"
	EntityAsin           Entity = "asin"
	EntityKeyword        Entity = "keyword"
	EntityRecommendation Entity = "recommendation"
	EntityBrand          Entity = "brand"
)

// View is one canonical parameterised table.
type View struct {
	Title    string   `yaml:"title" validate:"required"`
	Entity   Entity   `yaml:"entity" validate:"required,oneof=campaign asin keyword recommendation brand"`
	Grouping Grouping `yaml:"grouping" validate:"omitempty,oneof=flat campaign"`
	Columns  []string `yaml:"columns" validate:"required,min=1,dive,required"`
	Tabs     []Tab    `yaml:"tabs" validate:"omitempty,dive,oneof=products targeting recommendations"`
}

// Grouped reports whether rows are grouped under campaign headers.
func (v View) Grouped() bool { return v.Grouping == GroupingCampaign }

// ViewConfig holds every view of the dashboard.
type ViewConfig struct {
	Views map[string]View `yaml:"views" validate:"required,dive"`
}

// DefaultViewConfig returns the embedded configuration.
func DefaultViewConfig() *ViewConfig {
	cfg, err := ParseViewConfig(bytes.NewReader(defaultViews))
	if err != nil {
		panic(fmt.Sprintf("dashboard: embedded views invalid: %v", err))
	}
	return cfg
}

// LoadViewConfig reads the view document at path, or the embedded default
// when path is empty.
func LoadViewConfig(path string) (*ViewConfig, error) {
	if path == "" {
		return DefaultViewConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open view config: %w", err)
	}
	defer f.Close()
	cfg, err := ParseViewConfig(f)
	if err != nil {
		return nil, fmt.Errorf("view config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseViewConfig decodes and validates a view document. Unknown keys,
// missing views and unknown columns are rejected.
func ParseViewConfig(r io.Reader) (*ViewConfig, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var cfg ViewConfig
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty view config")
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("field %s failed %s", verrs[0].Namespace(), verrs[0].Tag())
		}
		return nil, err
	}
	for _, name := range requiredViews {
		if _, ok := cfg.Views[name]; !ok {
			return nil, fmt.Errorf("view %q is not defined", name)
		}
	}
	for name, view := range cfg.Views {
		if err := checkColumns(view); err != nil {
			return nil, fmt.Errorf("view %q: %w", name, err)
		}
	}
	if tabs := cfg.Views[ViewAdGroup].Tabs; len(tabs) == 0 {
		v := cfg.Views[ViewAdGroup]
		v.Tabs = slices.Clone(AllTabs)
		cfg.Views[ViewAdGroup] = v
	}
	return &cfg, nil
}

// View returns the named view. Unknown names yield an empty view.
func (c *ViewConfig) View(name string) View {
	if c == nil {
		return View{}
	}
	return c.Views[name]
}

func checkColumns(v View) error {
	switch v.Entity {
	case EntityCampaign:
		return knownColumns(campaignColumns, v.Columns)
	case EntityAsin:
		return knownColumns(asinColumns, v.Columns)
	case EntityKeyword:
		return knownColumns(keywordColumns, v.Columns)
	case EntityRecommendation:
		return knownColumns(recommendationColumns, v.Columns)
	case EntityBrand:
		return knownColumns(brandColumns, v.Columns)
	default:
		return fmt.Errorf("unknown entity %q", v.Entity)
	}
}
