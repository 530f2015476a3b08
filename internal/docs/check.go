package docs

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CheckAssets returns the image destinations under /img/assets/ that have
// no matching file below assetsRoot, in document order.
func CheckAssets(markdown []byte, assetsRoot string) []string {
	root := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var missing []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		img, ok := n.(*gmast.Image)
		if !ok {
			return gmast.WalkContinue, nil
		}

		dest := string(img.Destination)
		rel, found := strings.CutPrefix(dest, AssetsPath)
		if !found {
			return gmast.WalkContinue, nil
		}

		info, err := os.Stat(filepath.Join(assetsRoot, filepath.FromSlash(rel)))
		if rel == "" || err != nil || info.IsDir() {
			missing = append(missing, dest)
		}
		return gmast.WalkContinue, nil
	})

	return missing
}
