package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saifurmasood2004-spec/blackburn-prayer-site/internal/http/api"
)

// StreamModule exposes the websocket feed of board snapshots.
func StreamModule(h http.Handler) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.RAW(http.MethodGet, "/ws", gin.WrapH(h))
	})
}
