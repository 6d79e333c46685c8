package registry

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler bundles the registry stores behind gin endpoints.
type Handler struct {
	books     *BookStore
	courses   *CourseStore
	addresses *AddressStore
	persons   *PersonStore
}

func NewHandler(books *BookStore, courses *CourseStore, addresses *AddressStore, persons *PersonStore) *Handler {
	return &Handler{
		books:     books,
		courses:   courses,
		addresses: addresses,
		persons:   persons,
	}
}

func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " id"})
		return uuid.Nil, false
	}
	return id, true
}

func queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a boolean"})
		return nil, false
	}
	return &v, true
}

func queryInt(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return nil, false
	}
	return &v, true
}

// CreateBook handles POST /books
func (h *Handler) CreateBook(c *gin.Context) {
	var b Book
	if err := c.ShouldBindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	b.ID = uuid.New()
	if b.CoAuthors == nil {
		b.CoAuthors = []string{}
	}
	if err := b.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, h.books.Create(b))
}

// ListBooks handles GET /books
func (h *Handler) ListBooks(c *gin.Context) {
	available, ok := queryBool(c, "available")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.books.List(BookFilter{
		ISBN:      c.Query("isbn"),
		Title:     c.Query("title"),
		Author:    c.Query("author"),
		Publisher: c.Query("publisher"),
		Genre:     c.Query("genre"),
		Available: available,
	}))
}

// GetBook handles GET /books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := parseID(c, "book")
	if !ok {
		return
	}
	b, found := h.books.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBook handles PATCH /books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := parseID(c, "book")
	if !ok {
		return
	}
	var u BookUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	b, found := h.books.Update(id, u)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// DeleteBook handles DELETE /books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c, "book")
	if !ok {
		return
	}
	if !h.books.Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book deleted successfully"})
}

// CreateCourse handles POST /courses
func (h *Handler) CreateCourse(c *gin.Context) {
	var course Course
	if err := c.ShouldBindJSON(&course); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	course.ID = uuid.New()
	if course.MeetingDays == nil {
		course.MeetingDays = []string{}
	}
	if course.Prerequisites == nil {
		course.Prerequisites = []string{}
	}
	if err := course.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, h.courses.Create(course))
}

// ListCourses handles GET /courses
func (h *Handler) ListCourses(c *gin.Context) {
	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	credits, ok := queryInt(c, "credits")
	if !ok {
		return
	}
	active, ok := queryBool(c, "active")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.courses.List(CourseFilter{
		CourseCode: c.Query("course_code"),
		Title:      c.Query("title"),
		Instructor: c.Query("instructor"),
		Semester:   c.Query("semester"),
		Year:       year,
		Credits:    credits,
		Active:     active,
	}))
}

// GetCourse handles GET /courses/:id
func (h *Handler) GetCourse(c *gin.Context) {
	id, ok := parseID(c, "course")
	if !ok {
		return
	}
	course, found := h.courses.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

// UpdateCourse handles PATCH /courses/:id
func (h *Handler) UpdateCourse(c *gin.Context) {
	id, ok := parseID(c, "course")
	if !ok {
		return
	}
	var u CourseUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	course, found := h.courses.Update(id, u)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

// DeleteCourse handles DELETE /courses/:id
func (h *Handler) DeleteCourse(c *gin.Context) {
	id, ok := parseID(c, "course")
	if !ok {
		return
	}
	if !h.courses.Delete(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "course deleted successfully"})
}

// CreateAddress handles POST /addresses
// Addresses keep their caller-supplied id so persons can reference them.
func (h *Handler) CreateAddress(c *gin.Context) {
	var a Address
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if err := a.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	if !h.addresses.Create(a) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address with this id already exists"})
		return
	}
	c.JSON(http.StatusCreated, a)
}

// ListAddresses handles GET /addresses
func (h *Handler) ListAddresses(c *gin.Context) {
	c.JSON(http.StatusOK, h.addresses.List(AddressFilter{
		Street:     c.Query("street"),
		City:       c.Query("city"),
		State:      c.Query("state"),
		PostalCode: c.Query("postal_code"),
		Country:    c.Query("country"),
	}))
}

// GetAddress handles GET /addresses/:id
func (h *Handler) GetAddress(c *gin.Context) {
	id, ok := parseID(c, "address")
	if !ok {
		return
	}
	a, found := h.addresses.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}

// UpdateAddress handles PATCH /addresses/:id
func (h *Handler) UpdateAddress(c *gin.Context) {
	id, ok := parseID(c, "address")
	if !ok {
		return
	}
	var u AddressUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	a, found := h.addresses.Update(id, u)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
		return
	}
	c.JSON(http.StatusOK, a)
}

// CreatePerson handles POST /persons
func (h *Handler) CreatePerson(c *gin.Context) {
	var p Person
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	p.ID = uuid.New()
	if p.Addresses == nil {
		p.Addresses = []Address{}
	}
	if err := p.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, h.persons.Create(p))
}

// ListPersons handles GET /persons
func (h *Handler) ListPersons(c *gin.Context) {
	c.JSON(http.StatusOK, h.persons.List(PersonFilter{
		UNI:       c.Query("uni"),
		FirstName: c.Query("first_name"),
		LastName:  c.Query("last_name"),
		Email:     c.Query("email"),
		Phone:     c.Query("phone"),
		BirthDate: c.Query("birth_date"),
		City:      c.Query("city"),
		Country:   c.Query("country"),
	}))
}

// GetPerson handles GET /persons/:id
func (h *Handler) GetPerson(c *gin.Context) {
	id, ok := parseID(c, "person")
	if !ok {
		return
	}
	p, found := h.persons.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdatePerson handles PATCH /persons/:id
func (h *Handler) UpdatePerson(c *gin.Context) {
	id, ok := parseID(c, "person")
	if !ok {
		return
	}
	var u PersonUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	p, found := h.persons.Update(id, u)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}
