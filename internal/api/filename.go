package api

import (
	"path/filepath"
	"regexp"
	"strings"

	httpPkg "github.com/NamanBalaji/debridget/pkg/http"
)

var (
	bracketGroup   = regexp.MustCompile(`\[[^\]]*\]`)
	spaceBeforeExt = regexp.MustCompile(`\s+\.`)
)

// CleanFilename turns a user or hoster supplied name into a bare file name.
// Release tags in square brackets are dropped and whitespace is collapsed. Any directory
// part is discarded. When nothing usable remains the name is derived from link.
func CleanFilename(name, link string) string {
	name = bracketGroup.ReplaceAllString(name, " ")

	name = strings.Join(strings.Fields(name), " ")

	name = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, name)

	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSpace(spaceBeforeExt.ReplaceAllString(name, "."))

	if name == "" || name == "." || name == ".." || name == "/" {
		return httpPkg.FilenameFromURL(link)
	}

	return name
}
