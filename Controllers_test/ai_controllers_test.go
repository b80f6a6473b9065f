package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ordira-app/backend/controllers"
	"github.com/ordira-app/backend/models"
	"github.com/ordira-app/backend/services"
	"github.com/ordira-app/backend/utils"
)

// cannedChat mengembalikan satu respons tetap untuk semua pertanyaan.
type cannedChat struct {
	response string
}

func (cc *cannedChat) ChatWithSystem(systemPrompt, userMessage string, opts services.ChatOptions) (string, error) {
	return cc.response, nil
}

func setupAIRouter(t *testing.T, llmResponse string) (*gin.Engine, *gorm.DB) {
	utils.InitLogger()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Menu{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	category := models.Category{Name: "Makanan Utama", IsActive: true}
	db.Create(&category)
	db.Create(&models.Menu{CategoryID: category.ID, Name: "Nasi Goreng", Price: 18000, IsAvailable: true})
	db.Create(&models.Menu{CategoryID: category.ID, Name: "Ayam Bakar", Price: 25000, IsAvailable: true})

	gin.SetMode(gin.TestMode)
	router := gin.New()
	aiCtrl := controllers.NewAIController(services.NewAIService(db, &cannedChat{response: llmResponse}))
	router.POST("/ai/chat", aiCtrl.Chat)
	return router, db
}

func TestChatReturnsRecommendations(t *testing.T) {
	router, _ := setupAIRouter(t, `{"intro": "Halo!", "recommendations": [1, 2], "closing": "Selamat menikmati!"}`)

	w := postJSON(t, router, "/ai/chat", map[string]interface{}{
		"message": "rekomendasi makanan dong",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "Halo!", data["intro"])
	recommendations := data["recommendations"].([]interface{})
	assert.Len(t, recommendations, 2)
	first := recommendations[0].(map[string]interface{})
	assert.Equal(t, "Nasi Goreng", first["name"])
}

func TestChatRequiresMessage(t *testing.T) {
	router, _ := setupAIRouter(t, `{}`)

	w := postJSON(t, router, "/ai/chat", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatSurvivesNonJSONModelOutput(t *testing.T) {
	router, _ := setupAIRouter(t, "maaf, tidak bisa")

	w := postJSON(t, router, "/ai/chat", map[string]interface{}{
		"message": "apa yang enak?",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["intro"])
	assert.NotEmpty(t, data["recommendations"])
}
