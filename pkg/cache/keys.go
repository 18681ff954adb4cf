package cache

// Keyer builds cache keys. Implementations must be deterministic.
type Keyer interface {
	// MatrixKey addresses the encoded module matrix of content at an
	// error-correction level.
	MatrixKey(content, level string) string

	// ArtifactKey addresses one output format of a render, identified by the
	// hash of everything that went into it.
	ArtifactKey(renderHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the output-only parameters of an artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Width  int    `json:"width,omitempty"`
	Engine string `json:"engine,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MatrixKey implements Keyer.
func (DefaultKeyer) MatrixKey(content, level string) string {
	return hashKey("matrix", content, level)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(renderHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", renderHash, opts)
}
