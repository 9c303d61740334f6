package render

import (
	"embed"
	"io/fs"
)

//go:embed templates
var embedded embed.FS

// TemplatesFS returns the built-in form and widget templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return sub
}
