package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookexchange/internal/audit"
	"github.com/mrlokans/bookexchange/internal/entities"
	"github.com/mrlokans/bookexchange/internal/services"
)

type BooksController struct {
	catalog *services.CatalogService
	audit   *audit.Service
}

func NewBooksController(catalog *services.CatalogService, auditService *audit.Service) *BooksController {
	return &BooksController{
		catalog: catalog,
		audit:   auditService,
	}
}

// ListCatalog returns available books.
// GET /api/books?author=&genre=&condition=&location=
func (controller *BooksController) ListCatalog(c *gin.Context) {
	filter := entities.BookFilter{
		Author:    c.Query("author"),
		Genre:     c.Query("genre"),
		Condition: c.Query("condition"),
		Location:  c.Query("location"),
	}

	books, err := controller.catalog.ListCatalog(c.Request.Context(), identityFrom(c), filter)
	if err != nil {
		respondServiceError(c, err, "books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// ListMine returns every book of the caller.
// GET /api/my-books
func (controller *BooksController) ListMine(c *gin.Context) {
	books, err := controller.catalog.ListMine(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondServiceError(c, err, "books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// GET /api/books/:id
func (controller *BooksController) GetBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.catalog.GetBook(c.Request.Context(), identityFrom(c), bookID)
	if err != nil {
		respondServiceError(c, err, "book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// POST /api/books
func (controller *BooksController) CreateBook(c *gin.Context) {
	var input services.BookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := controller.catalog.CreateBook(c.Request.Context(), identityFrom(c), input)
	if err != nil {
		respondServiceError(c, err, "book")
		return
	}

	controller.logBook(c, audit.ActionBookCreate, book)
	c.JSON(http.StatusCreated, book)
}

// UpdateBook serves both PUT and PATCH; omitted fields are kept.
// PUT /api/books/:id, PATCH /api/books/:id
func (controller *BooksController) UpdateBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch services.BookPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book, err := controller.catalog.UpdateBook(c.Request.Context(), identityFrom(c), bookID, patch)
	if err != nil {
		respondServiceError(c, err, "book")
		return
	}

	controller.logBook(c, audit.ActionBookUpdate, book)
	c.JSON(http.StatusOK, book)
}

// DELETE /api/books/:id
func (controller *BooksController) DeleteBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.catalog.DeleteBook(c.Request.Context(), identityFrom(c), bookID)
	if err != nil {
		respondServiceError(c, err, "book")
		return
	}

	controller.logBook(c, audit.ActionBookDelete, book)
	c.Status(http.StatusNoContent)
}

// GET /api/genres
func (controller *BooksController) ListGenres(c *gin.Context) {
	genres, err := controller.catalog.ListGenres(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "genres")
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres, "count": len(genres)})
}

func (controller *BooksController) logBook(c *gin.Context, action string, book *entities.Book) {
	if controller.audit == nil {
		return
	}
	controller.audit.LogBook(originFrom(c), action, book)
}
