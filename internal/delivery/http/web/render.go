package web

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

func mustParseTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// render executes a page template with the pending flash (if any)
// merged into the data map.
func (h *handlerImpl) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if flash := h.popFlash(c); flash != nil {
		data["Flash"] = flash
	}
	c.HTML(status, name, data)
}
