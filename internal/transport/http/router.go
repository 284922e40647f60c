package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig собирает зависимости HTTP-маршрутизатора.
type RouterConfig struct {
	CartHandler  *CartHandler
	AllowOrigins []string
}

// NewRouter строит gin-маршрутизатор с CORS и ручками корзины.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
	}))

	router.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	cart := router.Group("/shoppingcart/:cartId")
	{
		cart.GET("/items", cfg.CartHandler.ListItems)
		cart.POST("/item", cfg.CartHandler.AddItem)
		cart.GET("/item/:itemId", cfg.CartHandler.GetItem)
		cart.PUT("/item/:itemId", cfg.CartHandler.UpdateItem)
		cart.DELETE("/item/:itemId", cfg.CartHandler.DeleteItem)
		cart.GET("/activity", cfg.CartHandler.ListActivity)
	}

	return router
}
