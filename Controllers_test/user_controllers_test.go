package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ordira-app/backend/controllers"
	"github.com/ordira-app/backend/middlewares"
	"github.com/ordira-app/backend/models"
	"github.com/ordira-app/backend/utils"
)

func setupTestDBForUsers(t *testing.T) *gorm.DB {
	utils.InitLogger()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	userCtrl := controllers.NewUserController(db)
	router.POST("/register", userCtrl.Register)
	router.POST("/login", userCtrl.Login)

	auth := router.Group("/staff")
	auth.Use(middlewares.AuthMiddleware())
	auth.GET("/profile", userCtrl.GetProfile)
	auth.POST("/logout", userCtrl.Logout)
	auth.GET("/users", middlewares.RequireRoles(models.RoleAdmin), userCtrl.GetAllUsers)
	return router
}

func registerUser(t *testing.T, router *gin.Engine, username, password, role string) {
	w := postJSON(t, router, "/register", map[string]interface{}{
		"username": username,
		"password": password,
		"role":     role,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func loginUser(t *testing.T, router *gin.Engine, username, password string) string {
	w := postJSON(t, router, "/login", map[string]interface{}{
		"username": username,
		"password": password,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	return resp["data"].(map[string]interface{})["token"].(string)
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	registerUser(t, router, "kasir1", "rahasia123", "KASIR")
	token := loginUser(t, router, "kasir1", "rahasia123")
	assert.NotEmpty(t, token)

	// Password tidak pernah ikut di respons
	var user models.User
	db.Where("username = ?", "kasir1").First(&user)
	assert.NotEqual(t, "rahasia123", user.Password)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	registerUser(t, router, "admin1", "rahasia123", "ADMIN")
	w := postJSON(t, router, "/register", map[string]interface{}{
		"username": "admin1",
		"password": "lainlagi",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterInvalidRole(t *testing.T) {
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	w := postJSON(t, router, "/register", map[string]interface{}{
		"username": "hacker",
		"password": "rahasia123",
		"role":     "SUPERUSER",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWithWrongPassword(t *testing.T) {
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	registerUser(t, router, "kasir1", "rahasia123", "KASIR")
	w := postJSON(t, router, "/login", map[string]interface{}{
		"username": "kasir1",
		"password": "salah",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileRequiresToken(t *testing.T) {
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	w := getJSON(t, router, "/staff/profile")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileWithToken(t *testing.T) {
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	registerUser(t, router, "koki1", "rahasia123", "KOKI")
	token := loginUser(t, router, "koki1", "rahasia123")

	req, _ := http.NewRequest("GET", "/staff/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "koki1", data["username"])
	assert.Equal(t, "KOKI", data["role"])
}

func TestRoleGateRejectsNonAdmin(t *testing.T) {
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	registerUser(t, router, "kasir1", "rahasia123", "KASIR")
	token := loginUser(t, router, "kasir1", "rahasia123")

	req, _ := http.NewRequest("GET", "/staff/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	registerUser(t, router, "kasir2", "rahasia123", "KASIR")
	token := loginUser(t, router, "kasir2", "rahasia123")

	req, _ := http.NewRequest("POST", "/staff/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Token yang sudah logout ditolak
	req, _ = http.NewRequest("GET", "/staff/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
