package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ordira-app/backend/services"
	"github.com/ordira-app/backend/utils"
)

type AIController struct {
	ai *services.AIService
}

func NewAIController(ai *services.AIService) *AIController {
	return &AIController{ai: ai}
}

// Chat -> endpoint publik rekomendasi menu
func (ac *AIController) Chat(c *gin.Context) {
	var body struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	recommendation, err := ac.ai.Recommend(body.Message)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu recommendations generated", recommendation)
}
