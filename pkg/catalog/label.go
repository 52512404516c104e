package catalog

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PrettyLabel turns a raw asset label such as "shirt_2-blue" into a display
// label ("Shirt 2 Blue").
func PrettyLabel(label string) string {
	s := strings.NewReplacer("_", " ", "-", " ").Replace(label)
	s = strings.Join(strings.Fields(s), " ")
	return cases.Title(language.Und).String(s)
}

// labelFromPath derives a raw label from the file name of an asset path.
func labelFromPath(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
