package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shamilaliyev/DreamStay/database"
	"github.com/shamilaliyev/DreamStay/models"
	"github.com/shamilaliyev/DreamStay/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "handler-test-secret"

var app *fiber.App

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", testSecret)

	db, err := gorm.Open(sqlite.Open("file:handlers_test?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("failed to open test database: %v", err)
	}

	// Shared-cache sqlite tolerates exactly one writer.
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Block{},
		&models.ConversationVisibility{},
	)
	if err != nil {
		log.Fatalf("failed to migrate test database: %v", err)
	}
	database.DB = db

	app = fiber.New()
	routes.AuthRoutes(app)
	routes.UserRoutes(app)
	routes.MessagingRoutes(app)
	routes.AdminRoutes(app)

	os.Exit(m.Run())
}

func resetTables(t *testing.T) {
	t.Helper()
	for _, model := range []interface{}{
		&models.Message{}, &models.Block{}, &models.ConversationVisibility{}, &models.User{},
	} {
		require.NoError(t, database.DB.Where("1 = 1").Delete(model).Error)
	}
}

func createUser(t *testing.T, name, email, role string) models.User {
	t.Helper()
	user := models.User{
		Name:     name,
		Email:    email,
		Password: "not-a-real-hash",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, database.DB.Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestSendMessageEndpoint(t *testing.T) {
	resetTables(t)
	alice := createUser(t, "Alice", "alice@example.com", "buyer")
	createUser(t, "Bob", "bob@example.com", "seller")

	resp := doRequest(t, "POST", "/api/v1/messages/send", tokenFor(t, alice), fiber.Map{
		"recipient": "bob@example.com",
		"text":      "is the flat still available?",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var message models.Message
	decodeBody(t, resp, &message)
	assert.Equal(t, alice.ID, message.SenderID)
	assert.Equal(t, "is the flat still available?", message.Text)
}

func TestSendMessageEndpointErrors(t *testing.T) {
	resetTables(t)
	alice := createUser(t, "Alice", "alice@example.com", "buyer")
	bob := createUser(t, "Bob", "bob@example.com", "seller")

	// Missing token: the jwt middleware rejects before the handler runs.
	resp := doRequest(t, "POST", "/api/v1/messages/send", "", fiber.Map{
		"recipient": "bob@example.com",
		"text":      "hello",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Unknown recipient.
	resp = doRequest(t, "POST", "/api/v1/messages/send", tokenFor(t, alice), fiber.Map{
		"recipient": "nobody@example.com",
		"text":      "hello",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Whitespace-only text.
	resp = doRequest(t, "POST", "/api/v1/messages/send", tokenFor(t, alice), fiber.Map{
		"recipient": "bob@example.com",
		"text":      "   ",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Blocked sender gets a 403 distinct from the 404 above, so the client
	// can tell "will not receive" apart from "does not exist".
	resp = doRequest(t, "POST", "/api/v1/blocks", tokenFor(t, bob), fiber.Map{
		"target_id": alice.ID.String(),
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "POST", "/api/v1/messages/send", tokenFor(t, alice), fiber.Map{
		"recipient": "bob@example.com",
		"text":      "hello",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestBlockEndpoints(t *testing.T) {
	resetTables(t)
	alice := createUser(t, "Alice", "alice@example.com", "buyer")
	bob := createUser(t, "Bob", "bob@example.com", "seller")

	resp := doRequest(t, "POST", "/api/v1/blocks", tokenFor(t, alice), fiber.Map{
		"target_id": alice.ID.String(),
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "self-block is rejected")

	resp = doRequest(t, "POST", "/api/v1/blocks", tokenFor(t, alice), fiber.Map{
		"target_id": bob.ID.String(),
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "GET", "/api/v1/blocks/"+bob.ID.String(), tokenFor(t, alice), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var status map[string]bool
	decodeBody(t, resp, &status)
	assert.True(t, status["blocked_by_me"])
	assert.True(t, status["blocked"])

	resp = doRequest(t, "DELETE", "/api/v1/blocks/"+bob.ID.String(), tokenFor(t, alice), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, "GET", "/api/v1/blocks/"+bob.ID.String(), tokenFor(t, alice), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &status)
	assert.False(t, status["blocked_by_me"])
	assert.False(t, status["blocked"])
}

func TestPartnersAndSearchEndpoints(t *testing.T) {
	resetTables(t)
	alice := createUser(t, "Alice", "alice@example.com", "buyer")
	bob := createUser(t, "Bob", "bob@example.com", "seller")

	resp := doRequest(t, "GET", "/api/v1/messages/partners", tokenFor(t, alice), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var partners []map[string]interface{}
	decodeBody(t, resp, &partners)
	assert.Empty(t, partners)

	resp = doRequest(t, "POST", "/api/v1/messages/send", tokenFor(t, alice), fiber.Map{
		"recipient": bob.ID.String(),
		"text":      "about the luxury villa",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doRequest(t, "GET", "/api/v1/messages/partners", tokenFor(t, alice), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &partners)
	require.Len(t, partners, 1)
	assert.Equal(t, "Bob", partners[0]["name"])

	var results []models.Message
	resp = doRequest(t, "GET", "/api/v1/messages/search?q=LUXURY", tokenFor(t, alice), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &results)
	assert.Len(t, results, 1)

	resp = doRequest(t, "GET", "/api/v1/messages/search", tokenFor(t, alice), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &results)
	assert.Empty(t, results)
}

func TestDeleteConversationEndpoint(t *testing.T) {
	resetTables(t)
	alice := createUser(t, "Alice", "alice@example.com", "buyer")
	bob := createUser(t, "Bob", "bob@example.com", "seller")

	resp := doRequest(t, "POST", "/api/v1/messages/send", tokenFor(t, alice), fiber.Map{
		"recipient": bob.ID.String(),
		"text":      "soon deleted",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	time.Sleep(2 * time.Millisecond)
	resp = doRequest(t, "DELETE", "/api/v1/messages/conversations/"+bob.ID.String(), tokenFor(t, alice), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var chat []models.Message
	resp = doRequest(t, "GET", "/api/v1/messages/chat/"+bob.ID.String(), tokenFor(t, alice), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &chat)
	assert.Empty(t, chat)

	// Bob's copy survives.
	resp = doRequest(t, "GET", "/api/v1/messages/chat/"+alice.ID.String(), tokenFor(t, bob), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &chat)
	assert.Len(t, chat, 1)
}

func TestAdminEraseEndpoint(t *testing.T) {
	resetTables(t)
	alice := createUser(t, "Alice", "alice@example.com", "buyer")
	bob := createUser(t, "Bob", "bob@example.com", "seller")
	admin := createUser(t, "Root", "admin@example.com", "admin")

	resp := doRequest(t, "POST", "/api/v1/messages/send", tokenFor(t, alice), fiber.Map{
		"recipient": bob.ID.String(),
		"text":      "evidence",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	path := "/api/v1/admin/conversations/" + alice.ID.String() + "/" + bob.ID.String()

	resp = doRequest(t, "DELETE", path, tokenFor(t, alice), nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "non-admin cannot erase")

	resp = doRequest(t, "DELETE", path, tokenFor(t, admin), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, database.DB.Model(&models.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFindUserByEmailEndpoint(t *testing.T) {
	resetTables(t)
	alice := createUser(t, "Alice", "alice@example.com", "buyer")
	bob := createUser(t, "Bob", "bob@example.com", "seller")

	resp := doRequest(t, "GET", "/api/v1/users/find-by-email?email=bob@example.com", tokenFor(t, alice), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user map[string]interface{}
	decodeBody(t, resp, &user)
	assert.Equal(t, bob.ID.String(), user["id"])
	assert.Equal(t, "Bob", user["name"])

	resp = doRequest(t, "GET", "/api/v1/users/find-by-email?email=ghost@example.com", tokenFor(t, alice), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
