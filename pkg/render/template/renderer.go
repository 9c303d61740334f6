package template

import (
	"io"
)

// TemplateRenderer renders a named template file. It is all the form
// renderer needs from an engine.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}

// Engine is a TemplateRenderer that also renders inline template strings and
// accepts custom filters and global data.
type Engine interface {
	TemplateRenderer
	// Render picks RenderString for inline content and RenderTemplate
	// otherwise.
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
