package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ordira-app/backend/models"
	"github.com/ordira-app/backend/utils"
)

// fakeChat mengembalikan respons tetap, untuk menguji parsing dan fallback
// tanpa memanggil language model sungguhan.
type fakeChat struct {
	response string
	err      error
}

func (f *fakeChat) ChatWithSystem(systemPrompt, userMessage string, opts ChatOptions) (string, error) {
	return f.response, f.err
}

func setupAITestDB(t *testing.T) *gorm.DB {
	utils.InitLogger()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Menu{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	makanan := models.Category{Name: "Makanan Utama", IsActive: true}
	minuman := models.Category{Name: "Minuman Dingin", IsActive: true}
	sop := models.Category{Name: "Soto & Sop", IsActive: true}
	db.Create(&makanan)
	db.Create(&minuman)
	db.Create(&sop)

	db.Create(&models.Menu{CategoryID: makanan.ID, Name: "Nasi Goreng", Price: 18000, IsAvailable: true})
	db.Create(&models.Menu{CategoryID: minuman.ID, Name: "Es Teh Manis", Price: 5000, IsAvailable: true})
	db.Create(&models.Menu{CategoryID: minuman.ID, Name: "Es Jeruk", Price: 7000, IsAvailable: true})
	db.Create(&models.Menu{CategoryID: sop.ID, Name: "Soto Ayam", Price: 15000, IsAvailable: true})
	db.Create(&models.Menu{CategoryID: makanan.ID, Name: "Rendang", Price: 28000, IsAvailable: false})

	return db
}

func TestRecommendWithValidModelResponse(t *testing.T) {
	db := setupAITestDB(t)
	svc := NewAIService(db, &fakeChat{
		response: `{"intro": "Selamat siang!", "recommendations": [1, 2], "closing": "Selamat menikmati!"}`,
	})

	rec, err := svc.Recommend("ada makanan apa?")
	assert.NoError(t, err)
	assert.Equal(t, "Selamat siang!", rec.Intro)
	assert.Equal(t, "Selamat menikmati!", rec.Closing)
	assert.Len(t, rec.Recommendations, 2)
	assert.Equal(t, "Nasi Goreng", rec.Recommendations[0].Name)
}

func TestRecommendStripsCodeFences(t *testing.T) {
	db := setupAITestDB(t)
	svc := NewAIService(db, &fakeChat{
		response: "```json\n{\"intro\": \"Halo!\", \"recommendations\": [2], \"closing\": \"Terima kasih!\"}\n```",
	})

	rec, err := svc.Recommend("mau minum")
	assert.NoError(t, err)
	assert.Len(t, rec.Recommendations, 1)
	assert.Equal(t, "Es Teh Manis", rec.Recommendations[0].Name)
}

func TestRecommendDropsUnknownAndUnavailableIDs(t *testing.T) {
	db := setupAITestDB(t)
	// id 5 tidak tersedia, id 99 tidak ada; keduanya di-drop diam-diam
	svc := NewAIService(db, &fakeChat{
		response: `{"intro": "Halo", "recommendations": [1, 5, 99], "closing": "Selamat!"}`,
	})

	rec, err := svc.Recommend("rekomendasi dong")
	assert.NoError(t, err)
	assert.Len(t, rec.Recommendations, 1)
	assert.Equal(t, "Nasi Goreng", rec.Recommendations[0].Name)
}

func TestRecommendFallsBackOnModelError(t *testing.T) {
	db := setupAITestDB(t)
	svc := NewAIService(db, &fakeChat{err: errors.New("connection refused")})

	rec, err := svc.Recommend("mau yang dingin dingin")
	assert.NoError(t, err)
	assert.NotEmpty(t, rec.Intro)
	assert.NotEmpty(t, rec.Closing)
	assert.NotEmpty(t, rec.Recommendations)
	assert.LessOrEqual(t, len(rec.Recommendations), fallbackLimit)
	for _, m := range rec.Recommendations {
		assert.Equal(t, "Minuman Dingin", m.Category.Name)
	}
}

func TestRecommendFallsBackOnMalformedJSON(t *testing.T) {
	db := setupAITestDB(t)
	svc := NewAIService(db, &fakeChat{response: "maaf, saya tidak bisa menjawab dalam format JSON"})

	rec, err := svc.Recommend("ada soto?")
	assert.NoError(t, err)
	assert.NotEmpty(t, rec.Recommendations)
	for _, m := range rec.Recommendations {
		assert.Equal(t, "Soto & Sop", m.Category.Name)
	}
}

func TestKeywordFallbackWithoutMatchReturnsFirstMenus(t *testing.T) {
	db := setupAITestDB(t)
	svc := NewAIService(db, &fakeChat{response: "bukan json"})

	rec, err := svc.Recommend("terserah")
	assert.NoError(t, err)
	assert.Len(t, rec.Recommendations, 3)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
}
