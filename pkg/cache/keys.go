package cache

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Renderer    string  `json:"renderer"` // "svg" or "nodelink"
	Format      string  `json:"format"`
	ShowDetails bool    `json:"show_details"`
	Ticks       int     `json:"ticks"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Scale       float64 `json:"scale,omitempty"`
	Marked      *int    `json:"marked,omitempty"`
	Layout      string  `json:"layout,omitempty"` // hash of the layout options
}

// Keyer builds cache keys.
type Keyer interface {
	// InputKey identifies a decoded input by the hash of its JSON.
	InputKey(inputHash string) string
	// ArtifactKey identifies a rendered artifact of an input.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) InputKey(inputHash string) string { return "input:" + inputHash }

func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}
