package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Yash-patil03/Area-Stay-point/models"
	"github.com/Yash-patil03/Area-Stay-point/storage"
)

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestCreatePG(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp()

	owner := createTestUser(t, "owner1", models.RoleOwner)
	token := signTestToken(owner.ID, owner.Username, models.RoleOwner)

	body, contentType := multipartBody(t, map[string]string{
		"name":        "Green Valley PG",
		"address":     "Baner Road, Pune",
		"price":       "8500",
		"description": "Near the IT park",
		"gender":      "Female",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/pgs", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var pg models.PG
	if err := storage.DB.Where("name = ?", "Green Valley PG").First(&pg).Error; err != nil {
		t.Fatalf("listing not stored: %v", err)
	}
	if pg.OwnerUsername != "owner1" {
		t.Errorf("expected owner1 as owner, got %s", pg.OwnerUsername)
	}
	if pg.Price != 8500 {
		t.Errorf("expected price 8500, got %v", pg.Price)
	}
	if pg.Gender != "Female" {
		t.Errorf("expected gender Female, got %s", pg.Gender)
	}
}

func TestCreatePGRejectsBadPrice(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp()

	owner := createTestUser(t, "owner1", models.RoleOwner)
	token := signTestToken(owner.ID, owner.Username, models.RoleOwner)

	for _, price := range []string{"-100", "abc", ""} {
		body, contentType := multipartBody(t, map[string]string{
			"name": "Bad PG", "address": "Somewhere", "price": price,
		})
		req := httptest.NewRequest(http.MethodPost, "/api/pgs", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		app.ServeHTTP(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Errorf("price %q: expected 400, got %d", price, resp.Code)
		}
	}
}

func TestCreatePGRequiresOwnerRole(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp()

	guest := createTestUser(t, "guest", models.RoleUser)
	token := signTestToken(guest.ID, guest.Username, models.RoleUser)

	body, contentType := multipartBody(t, map[string]string{
		"name": "Sneaky PG", "address": "Nowhere", "price": "5000",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/pgs", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", resp.Code)
	}
}

func TestGetPGsIsPublic(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp()

	createTestPG(t, "Open PG", "owner1", 6000)

	req := httptest.NewRequest(http.MethodGet, "/api/pgs", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 without a token, got %d", resp.Code)
	}
	var pgs []models.PG
	json.Unmarshal(resp.Body.Bytes(), &pgs)
	if len(pgs) != 1 || pgs[0].Name != "Open PG" {
		t.Fatalf("expected the seeded listing, got %v", pgs)
	}
}

func TestGetPGNotFound(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/pgs/404", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestUpdatePGOwnershipCheck(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp()

	intruder := createTestUser(t, "owner2", models.RoleOwner)
	pg := createTestPG(t, "Taken PG", "owner1", 7000)

	token := signTestToken(intruder.ID, intruder.Username, models.RoleOwner)
	body, contentType := multipartBody(t, map[string]string{
		"name": "Stolen PG", "address": "Elsewhere", "price": "1",
	})
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/api/pgs/%d", pg.ID), body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign listing, got %d", resp.Code)
	}

	var stored models.PG
	storage.DB.First(&stored, pg.ID)
	if stored.Name != "Taken PG" {
		t.Fatalf("expected listing untouched, got %s", stored.Name)
	}
}

func TestDeletePGCascades(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp()

	owner := createTestUser(t, "owner1", models.RoleOwner)
	pg := createTestPG(t, "Doomed PG", "owner1", 9000)
	keep := createTestPG(t, "Kept PG", "owner1", 9500)

	storage.DB.Create(&models.Booking{PGID: pg.ID, Username: "a", BookingDate: time.Now(), Status: models.BookingStatusPending})
	storage.DB.Create(&models.Booking{PGID: keep.ID, Username: "b", BookingDate: time.Now(), Status: models.BookingStatusPending})
	storage.DB.Create(&models.Review{PGID: pg.ID, Username: "a", Rating: 4, Comment: "nice"})
	storage.DB.Create(&models.Review{PGID: keep.ID, Username: "b", Rating: 5, Comment: "great"})

	token := signTestToken(owner.ID, owner.Username, models.RoleOwner)
	resp := doAuthed(app, http.MethodDelete, fmt.Sprintf("/api/pgs/%d", pg.ID), token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var pgCount, bookingCount, reviewCount int64
	storage.DB.Model(&models.PG{}).Where("id = ?", pg.ID).Count(&pgCount)
	storage.DB.Model(&models.Booking{}).Where("pg_id = ?", pg.ID).Count(&bookingCount)
	storage.DB.Model(&models.Review{}).Where("pg_id = ?", pg.ID).Count(&reviewCount)
	if pgCount != 0 || bookingCount != 0 || reviewCount != 0 {
		t.Fatalf("expected full cascade, have pg=%d bookings=%d reviews=%d", pgCount, bookingCount, reviewCount)
	}

	// the sibling listing and its rows survive
	storage.DB.Model(&models.Booking{}).Where("pg_id = ?", keep.ID).Count(&bookingCount)
	storage.DB.Model(&models.Review{}).Where("pg_id = ?", keep.ID).Count(&reviewCount)
	if bookingCount != 1 || reviewCount != 1 {
		t.Fatalf("expected sibling listing untouched, have bookings=%d reviews=%d", bookingCount, reviewCount)
	}

	resp = doAuthed(app, http.MethodDelete, fmt.Sprintf("/api/pgs/%d", pg.ID), token, "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", resp.Code)
	}
}

func TestDeletePGForeignOwnerForbidden(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp()

	intruder := createTestUser(t, "owner2", models.RoleOwner)
	pg := createTestPG(t, "Taken PG", "owner1", 7000)

	token := signTestToken(intruder.ID, intruder.Username, models.RoleOwner)
	resp := doAuthed(app, http.MethodDelete, fmt.Sprintf("/api/pgs/%d", pg.ID), token, "")
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestMyPGs(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp()

	owner := createTestUser(t, "owner1", models.RoleOwner)
	createTestPG(t, "Mine", "owner1", 5000)
	createTestPG(t, "Not Mine", "owner2", 5000)

	token := signTestToken(owner.ID, owner.Username, models.RoleOwner)
	resp := doAuthed(app, http.MethodGet, "/api/pgs/my-pgs", token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var pgs []models.PG
	json.Unmarshal(resp.Body.Bytes(), &pgs)
	if len(pgs) != 1 || pgs[0].Name != "Mine" {
		t.Fatalf("expected only the caller's listings, got %v", pgs)
	}
}
