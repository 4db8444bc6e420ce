package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer builds cache keys. Every option that changes the cached bytes must
// be part of the key.
type Keyer interface {
	// ResultKey identifies a flattened, laid-out document.
	ResultKey(docHash string, opts ResultKeyOpts) string
	// ArtifactKey identifies one rendered output of a result.
	ArtifactKey(resultHash string, opts ArtifactKeyOpts) string
}

// ResultKeyOpts are the inputs of flattening and layout besides the document.
type ResultKeyOpts struct {
	Direction string  `json:"direction"`
	IDs       string  `json:"ids,omitempty"`
	Anchor    string  `json:"anchor,omitempty"`
	NodeW     float64 `json:"node_w,omitempty"`
	NodeH     float64 `json:"node_h,omitempty"`
}

// ArtifactKeyOpts are the inputs of rendering besides the result.
type ArtifactKeyOpts struct {
	Format    string   `json:"format"`
	Engine    string   `json:"engine"`
	Path      []string `json:"path,omitempty"`
	Highlight []string `json:"highlight,omitempty"`
}

// DefaultKeyer hashes its inputs into "prefix:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey implements Keyer.
func (DefaultKeyer) ResultKey(docHash string, opts ResultKeyOpts) string {
	return hashKey("result", docHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", resultHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments
// (or the CLI and the API server) can share one Redis without seeing each
// other's entries.
//
//	keyer := NewScopedKeyer(nil, "svcgraph:prod:")
type ScopedKeyer struct {
	Inner  Keyer
	Prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Inner: inner, Prefix: prefix}
}

func (k ScopedKeyer) ResultKey(docHash string, opts ResultKeyOpts) string {
	return k.Prefix + k.Inner.ResultKey(docHash, opts)
}

func (k ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Inner.ArtifactKey(resultHash, opts)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "kind:" followed by the SHA-256 of the JSON encoding of
// parts. Options structs encode deterministically, so equal inputs give
// equal keys.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(parts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
