package types

// PathConfig holds the input and output locations for one platform.
// Relative paths are resolved against Config.Root.
type PathConfig struct {
	Input  string `json:"input" yaml:"input" mapstructure:"input"`
	Output string `json:"output" yaml:"output" mapstructure:"output"`
}

// ShopifyConfig holds settings for the line-oriented Shopify parser.
type ShopifyConfig struct {
	// Scheme is the identifier prefix every record must start with (default "gid://").
	Scheme string `json:"scheme" yaml:"scheme" mapstructure:"scheme"`
}

// IndexConfig holds settings for the category index.
type IndexConfig struct {
	// Dir is the directory holding categories.db and export files.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Limit is the default number of search results (default 5).
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`
}

// Config groups every setting the CLI reads from flags, the config file,
// and TAXONOMY_TSV_* environment variables.
type Config struct {
	// Root is the project root that default paths are derived from.
	Root string `json:"root" yaml:"root" mapstructure:"root"`

	Platforms map[string]PathConfig `json:"platforms" yaml:"platforms" mapstructure:"platforms"`
	Shopify   ShopifyConfig         `json:"shopify" yaml:"shopify" mapstructure:"shopify"`
	Index     IndexConfig           `json:"index" yaml:"index" mapstructure:"index"`
}

// DefaultPaths returns the built-in input/output paths for each platform,
// relative to the project root.
func DefaultPaths() map[Platform]PathConfig {
	return map[Platform]PathConfig{
		PlatformOzon:    {Input: "data/ozon.json", Output: "data/ozon.tsv"},
		PlatformYandex:  {Input: "data/yandex.json", Output: "data/yandex.tsv"},
		PlatformShopify: {Input: "categories.tsv", Output: "data/categories_standard.tsv"},
	}
}

// PathsFor returns the configured paths for p, falling back to DefaultPaths
// for any field left empty.
func (c Config) PathsFor(p Platform) PathConfig {
	pc := DefaultPaths()[p]
	if override, ok := c.Platforms[string(p)]; ok {
		if override.Input != "" {
			pc.Input = override.Input
		}
		if override.Output != "" {
			pc.Output = override.Output
		}
	}
	return pc
}
