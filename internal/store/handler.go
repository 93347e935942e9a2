package store

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler は /s 配下のエンドポイントをまとめます。
type Handler struct {
	catalog Catalog
}

// NewHandler はストアハンドラーを作成します。
func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

// Show は GET /s/:store のハンドラーです。
func (h *Handler) Show(c *gin.Context) {
	name := c.Param("store")
	c.JSON(http.StatusOK, gin.H{
		"store":   name,
		"message": "Welcome to " + name,
	})
}

// Menu は GET /s/:store/menu のハンドラーです。
// カタログが引けない場合も失敗にせず、既定メニューを返します。
func (h *Handler) Menu(c *gin.Context) {
	name := c.Param("store")

	menu, err := h.catalog.Menu(c.Request.Context(), name)
	if err != nil {
		log.Printf("store catalog lookup failed for %q: %v", name, err)
		menu = defaultMenu
	}

	c.JSON(http.StatusOK, gin.H{
		"store": name,
		"menu":  menu,
	})
}
