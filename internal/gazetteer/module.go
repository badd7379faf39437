package gazetteer

import (
	"strings"

	apphttp "stayfinder_backend/internal/http"
	"stayfinder_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module serves the college table to clients for autocomplete.
type Module struct {
	table *Gazetteer
}

func NewModule(table *Gazetteer) *Module {
	return &Module{table: table}
}

func (m *Module) Name() string {
	return "gazetteer"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.API.GET("/colleges", m.List)
}

// List returns every entry, or those whose name contains q.
func (m *Module) List(c *gin.Context) {
	entries := m.table.Entries()
	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		filtered := make([]Entry, 0, len(entries))
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.Name), q) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	httpkit.OK(c, gin.H{"success": true, "data": entries, "count": len(entries)})
}

var _ apphttp.Module = (*Module)(nil)
