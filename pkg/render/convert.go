package render

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/matzehuels/svcgraph/pkg/errors"
)

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale
// factor. Requires librsvg: brew install librsvg (macOS), apt install
// librsvg2-bin (Linux).
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "png export with the native engine requires librsvg (or use --engine graphviz)")
	}

	cmd := exec.Command("rsvg-convert", "-f", "png", "-z", fmt.Sprintf("%.2f", scale))
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
