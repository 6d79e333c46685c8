package registry

import (
	"github.com/gin-gonic/gin"
)

// NewRouter wires the registry handlers. The registry runs unauthenticated
// behind the internal network, so there is no auth group here.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.POST("/books", h.CreateBook)
	r.GET("/books", h.ListBooks)
	r.GET("/books/:id", h.GetBook)
	r.PATCH("/books/:id", h.UpdateBook)
	r.DELETE("/books/:id", h.DeleteBook)

	r.POST("/courses", h.CreateCourse)
	r.GET("/courses", h.ListCourses)
	r.GET("/courses/:id", h.GetCourse)
	r.PATCH("/courses/:id", h.UpdateCourse)
	r.DELETE("/courses/:id", h.DeleteCourse)

	r.POST("/addresses", h.CreateAddress)
	r.GET("/addresses", h.ListAddresses)
	r.GET("/addresses/:id", h.GetAddress)
	r.PATCH("/addresses/:id", h.UpdateAddress)

	r.POST("/persons", h.CreatePerson)
	r.GET("/persons", h.ListPersons)
	r.GET("/persons/:id", h.GetPerson)
	r.PATCH("/persons/:id", h.UpdatePerson)

	return r
}
