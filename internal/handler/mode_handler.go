package handler

import (
	"net/http"
	"squadup/backend/internal/gamemode"

	"github.com/gin-gonic/gin"
)

// GetModes godoc
// @Summary      List game modes
// @Description  Returns the static game mode catalog with role capacities.
// @Tags         modes
// @Produce      json
// @Success      200  {array}  gamemode.Mode
// @Router       /modes [get]
func GetModes(c *gin.Context) {
	c.JSON(http.StatusOK, gamemode.All())
}
