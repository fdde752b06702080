package imgrequest

import (
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"strings"
)

const jsSnippet = `<script src="%s" type="text/javascript" charset="utf-8"></script>
<script type="text/javascript">
	ImgPipe.init();
</script>`

// Js returns the markup embedding the device detection script. publicDir is
// stripped from the script path to turn it into a URL path.
func (i *Image) Js(publicDir string) (string, error) {
	jsPath := i.provider.JsPath()

	if _, err := os.Stat(i.provider.BasePath() + jsPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrAssetMissing, i.provider.BasePath()+jsPath)
		}

		return "", err
	}

	src := jsPath
	if publicDir != "" {
		src = strings.Replace(jsPath, publicDir, "", 1)
	}

	return fmt.Sprintf(jsSnippet, html.EscapeString(src)), nil
}
