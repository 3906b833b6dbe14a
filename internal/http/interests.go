package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookexchange/internal/audit"
	"github.com/mrlokans/bookexchange/internal/entities"
	"github.com/mrlokans/bookexchange/internal/services"
)

type InterestsController struct {
	interests *services.InterestService
	audit     *audit.Service
}

func NewInterestsController(interests *services.InterestService, auditService *audit.Service) *InterestsController {
	return &InterestsController{
		interests: interests,
		audit:     auditService,
	}
}

// ExpressInterest records the caller's wish to receive a book.
// POST /api/book-interests {"book": 42}
func (controller *InterestsController) ExpressInterest(c *gin.Context) {
	var input services.InterestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	interest, err := controller.interests.ExpressInterest(c.Request.Context(), identityFrom(c), input.Book)
	if err != nil {
		respondServiceError(c, err, "book")
		return
	}

	controller.logInterest(c, audit.ActionInterestCreate, interest)
	c.JSON(http.StatusCreated, interest)
}

// ListForOwner returns interests on books the caller owns.
// GET /api/book-interests
func (controller *InterestsController) ListForOwner(c *gin.Context) {
	interests, err := controller.interests.ListForOwner(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondServiceError(c, err, "interests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"interests": interests, "count": len(interests)})
}

// ChooseRecipient marks an interest as the one the owner picked.
// PUT/PATCH /api/book-interests/:id/choose-recipient
func (controller *InterestsController) ChooseRecipient(c *gin.Context) {
	interestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	interest, err := controller.interests.ChooseRecipient(c.Request.Context(), identityFrom(c), interestID)
	if err != nil {
		respondServiceError(c, err, "interest")
		return
	}

	controller.logInterest(c, audit.ActionInterestChoose, interest)
	c.JSON(http.StatusOK, interest)
}

func (controller *InterestsController) logInterest(c *gin.Context, action string, interest *entities.BookInterest) {
	if controller.audit == nil {
		return
	}
	controller.audit.LogInterest(originFrom(c), action, interest)
}
