package cache

// Keyer derives cache keys for each stage of the pipeline.
type Keyer interface {
	// HTTPKey is the key of a raw response from a remote backend.
	HTTPKey(namespace, key string) string
	// DatasetKey is the key of a decoded dataset.
	DatasetKey(source, query string, opts DatasetKeyOpts) string
	// LayoutKey is the key of a computed layout.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string
	// ArtifactKey is the key of a rendered output.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DatasetKeyOpts are the inputs that change a fetched dataset.
type DatasetKeyOpts struct {
	Kind   string `json:"kind,omitempty"`
	Cutoff int    `json:"cutoff,omitempty"`
}

// LayoutKeyOpts are the inputs that change a layout. Params is any
// JSON-encodable parameter set.
type LayoutKeyOpts struct {
	Params   any     `json:"params"`
	Width    float64 `json:"width,omitempty"`
	Viewport float64 `json:"viewport,omitempty"`
	Seed     uint64  `json:"seed,omitempty"`
	TreeHash string  `json:"tree_hash,omitempty"`
	Pool     string  `json:"pool,omitempty"`
}

// ArtifactKeyOpts are the inputs that change a rendered output.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Style  string  `json:"style,omitempty"`
	Legend bool    `json:"legend,omitempty"`
	Hover  bool    `json:"hover,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
}

// DefaultKeyer builds unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

func (DefaultKeyer) DatasetKey(source, query string, opts DatasetKeyOpts) string {
	return hashKey("dataset", source, query, opts)
}

func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", datasetHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
