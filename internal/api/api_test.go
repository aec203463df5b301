package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/avashist/upkeep/internal/auth"
	"github.com/avashist/upkeep/internal/db"
	"github.com/avashist/upkeep/internal/model"
	"github.com/avashist/upkeep/internal/notify"
	"github.com/avashist/upkeep/internal/store"
	"github.com/avashist/upkeep/internal/tracker"
)

const testJWTSecret = "test-secret"

// newTestServer starts a server with an optional asset-tracking URL.
func newTestServer(t *testing.T, trackerURL string) (*httptest.Server, *sql.DB) {
	t.Helper()
	database := db.NewTestDB(t)
	dispatcher := &notify.Dispatcher{DB: database}
	router := NewRouter(database, testJWTSecret, dispatcher, tracker.New(trackerURL))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, database
}

// newTestUser creates a user and returns it with a valid token.
func newTestUser(t *testing.T, database *sql.DB, govID, role, location string) (*model.User, string) {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	user, err := store.CreateUser(context.Background(), database, govID, "Test "+govID, govID+"@example.com", "user-"+govID, string(hash), role, location)
	if err != nil {
		t.Fatalf("creating test user %q: %v", govID, err)
	}
	token, err := auth.GenerateToken(testJWTSecret, user.ID, user.GovID, user.Username, user.Role, user.Location)
	if err != nil {
		t.Fatalf("generating token for %q: %v", govID, err)
	}
	return user, token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doJSON(t *testing.T, req *http.Request, target any) int {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request %s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	if target != nil {
		json.NewDecoder(resp.Body).Decode(target)
	}
	return resp.StatusCode
}

func TestLoginEndpoint(t *testing.T) {
	server, database := newTestServer(t, "")
	newTestUser(t, database, "G-1", model.RoleAdmin, "")

	// Valid credentials.
	body, _ := json.Marshal(map[string]string{"username": "user-G-1", "password": "password"})
	resp, _ := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for valid login, got %d", resp.StatusCode)
	}
	var loginResp map[string]string
	json.NewDecoder(resp.Body).Decode(&loginResp)
	resp.Body.Close()
	if loginResp["token"] == "" {
		t.Error("expected token from login")
	}

	// Invalid credentials.
	body, _ = json.Marshal(map[string]string{"username": "user-G-1", "password": "wrong"})
	resp, _ = http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUnauthenticatedAccess(t *testing.T) {
	server, _ := newTestServer(t, "")

	resp, _ := http.Get(server.URL + "/api/items")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated request, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRoleBasedAccess(t *testing.T) {
	server, database := newTestServer(t, "")
	_, userToken := newTestUser(t, database, "G-2", model.RoleUser, "Block A")

	// Regular user should not be able to create items (incharge+ required).
	req, _ := authRequest("POST", server.URL+"/api/items", userToken, map[string]string{
		"itemId": "ITM-1", "category": "electronics", "type": "projector", "location": "Block A",
	})
	if status := doJSON(t, req, nil); status != http.StatusForbidden {
		t.Errorf("expected 403 for user creating item, got %d", status)
	}

	// Regular user should not access /api/users.
	req, _ = authRequest("GET", server.URL+"/api/users", userToken, nil)
	if status := doJSON(t, req, nil); status != http.StatusForbidden {
		t.Errorf("expected 403 for user accessing users, got %d", status)
	}
}

type requestEnvelope struct {
	Success bool                      `json:"success"`
	Data    *model.MaintenanceRequest `json:"data"`
	Message string                    `json:"message"`
}

func TestMaintenanceRequestFlow(t *testing.T) {
	server, database := newTestServer(t, "")
	ctx := context.Background()

	requester, requesterToken := newTestUser(t, database, "U1", model.RoleUser, "LocA")
	incharge, _ := newTestUser(t, database, "I1", model.RoleIncharge, "LocA")
	if _, err := store.CreateItem(ctx, database, "ITM1", "electronics", "projector", "LocA"); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	// File the request.
	req, _ := authRequest("POST", server.URL+"/api/maintenance/request", requesterToken, map[string]string{
		"userId": "U1", "itemId": "ITM1", "issueDescription": "lens cracked",
	})
	var created requestEnvelope
	if status := doJSON(t, req, &created); status != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", status, created.Message)
	}
	if !created.Success || created.Data == nil {
		t.Fatalf("expected success envelope with data, got %+v", created)
	}
	if created.Data.Status != model.StatusPending {
		t.Errorf("expected initial status PENDING, got %q", created.Data.Status)
	}
	if created.Data.GovID != requester.GovID {
		t.Errorf("expected owning govId %q, got %q", requester.GovID, created.Data.GovID)
	}

	// Exactly one notification addressed to the incharge.
	notifications, _ := store.ListNotificationsForIncharge(ctx, database, incharge.GovID)
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications))
	}
	if notifications[0].UserID != "U1" {
		t.Errorf("expected notification userId 'U1', got %q", notifications[0].UserID)
	}

	// List includes requester and item summaries.
	req, _ = authRequest("GET", server.URL+"/api/maintenance/request", requesterToken, nil)
	var listed struct {
		Success bool                       `json:"success"`
		Data    []model.MaintenanceRequest `json:"data"`
	}
	if status := doJSON(t, req, &listed); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(listed.Data) != 1 {
		t.Fatalf("expected 1 listed request, got %d", len(listed.Data))
	}
	if listed.Data[0].User == nil || listed.Data[0].User.Name != requester.Name {
		t.Errorf("expected requester summary, got %+v", listed.Data[0].User)
	}
	if listed.Data[0].Item == nil || listed.Data[0].Item.Type != "projector" {
		t.Errorf("expected item summary, got %+v", listed.Data[0].Item)
	}

	// Complete the request.
	req, _ = authRequest("PUT", server.URL+"/api/maintenance/request", requesterToken, map[string]any{
		"action": "complete", "requestId": created.Data.ID,
		"resolutionDetails": "fixed", "maintenanceCharge": 50,
	})
	var completed requestEnvelope
	if status := doJSON(t, req, &completed); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if completed.Data.Status != model.StatusCompleted {
		t.Errorf("expected status COMPLETED, got %q", completed.Data.Status)
	}
	if completed.Data.CompletionDate == nil {
		t.Error("expected completion date to be set")
	}
	if completed.Data.ResolutionDetails != "fixed" {
		t.Errorf("expected resolution 'fixed', got %q", completed.Data.ResolutionDetails)
	}
}

func TestMaintenanceCreateValidation(t *testing.T) {
	server, database := newTestServer(t, "")
	_, token := newTestUser(t, database, "G-10", model.RoleUser, "LocA")

	// Missing fields.
	req, _ := authRequest("POST", server.URL+"/api/maintenance/request", token, map[string]string{
		"userId": "G-10",
	})
	var resp requestEnvelope
	if status := doJSON(t, req, &resp); status != http.StatusBadRequest {
		t.Errorf("expected 400 for missing fields, got %d", status)
	}
	if resp.Success {
		t.Error("expected success=false")
	}

	// Unknown requester.
	req, _ = authRequest("POST", server.URL+"/api/maintenance/request", token, map[string]string{
		"userId": "nope", "itemId": "ITM1", "issueDescription": "broken",
	})
	if status := doJSON(t, req, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown requester, got %d", status)
	}

	// Requester without a location cannot be routed.
	newTestUser(t, database, "G-11", model.RoleUser, "")
	req, _ = authRequest("POST", server.URL+"/api/maintenance/request", token, map[string]string{
		"userId": "G-11", "itemId": "ITM1", "issueDescription": "broken",
	})
	if status := doJSON(t, req, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for requester without location, got %d", status)
	}

	// Unknown item.
	req, _ = authRequest("POST", server.URL+"/api/maintenance/request", token, map[string]string{
		"userId": "G-10", "itemId": "nope", "issueDescription": "broken",
	})
	if status := doJSON(t, req, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown item, got %d", status)
	}
}

func TestMaintenanceCreateNoIncharge(t *testing.T) {
	server, database := newTestServer(t, "")
	ctx := context.Background()

	_, token := newTestUser(t, database, "G-20", model.RoleUser, "LocB")
	store.CreateItem(ctx, database, "ITM-20", "furniture", "chair", "LocB")

	req, _ := authRequest("POST", server.URL+"/api/maintenance/request", token, map[string]string{
		"userId": "G-20", "itemId": "ITM-20", "issueDescription": "leg broken",
	})
	var resp requestEnvelope
	if status := doJSON(t, req, &resp); status != http.StatusNotFound {
		t.Fatalf("expected 404 when no incharge exists, got %d", status)
	}

	// The request is still persisted: creation is not rolled back when
	// routing fails.
	requests, _ := store.ListRequests(ctx, database)
	if len(requests) != 1 {
		t.Errorf("expected request to be persisted despite 404, got %d requests", len(requests))
	}
}

func TestMaintenanceInvalidAction(t *testing.T) {
	server, database := newTestServer(t, "")
	_, token := newTestUser(t, database, "G-30", model.RoleUser, "LocA")

	req, _ := authRequest("PUT", server.URL+"/api/maintenance/request", token, map[string]string{
		"action": "escalate", "requestId": "whatever",
	})
	var resp requestEnvelope
	if status := doJSON(t, req, &resp); status != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid action, got %d", status)
	}
	if resp.Message != "Invalid action type" {
		t.Errorf("expected 'Invalid action type', got %q", resp.Message)
	}
}

func TestPenaltyFlow(t *testing.T) {
	server, database := newTestServer(t, "")
	ctx := context.Background()

	_, token := newTestUser(t, database, "U1", model.RoleUser, "LocA")

	// Penalty on a user with unset stars: baseline arithmetic applies.
	req, _ := authRequest("POST", server.URL+"/api/penalty", token, map[string]any{
		"isPenalty": true, "userId": "U1", "numberOfStarsReduced": 2,
	})
	var echo map[string]any
	if status := doJSON(t, req, &echo); status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if echo["userId"] != "U1" {
		t.Errorf("expected payload echo, got %+v", echo)
	}

	user, _ := store.GetUserByGovID(ctx, database, "U1")
	if user.Stars == nil || *user.Stars != 3 {
		t.Errorf("expected stored stars 3, got %v", user.Stars)
	}

	// Unknown user.
	req, _ = authRequest("POST", server.URL+"/api/penalty", token, map[string]any{
		"isPenalty": true, "userId": "nope", "numberOfStarsReduced": 1,
	})
	if status := doJSON(t, req, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown user, got %d", status)
	}

	// The caller's own penalties; this endpoint answers 201.
	req, _ = authRequest("GET", server.URL+"/api/penalty", token, nil)
	var penalties []model.Penalty
	if status := doJSON(t, req, &penalties); status != http.StatusCreated {
		t.Errorf("expected 201 from penalty list, got %d", status)
	}
	if len(penalties) != 1 || penalties[0].StarsReduced != 2 {
		t.Errorf("expected 1 penalty with 2 stars reduced, got %+v", penalties)
	}
}

func TestQRScannerUserFlow(t *testing.T) {
	trackerSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(trackerSrv.Close)

	server, database := newTestServer(t, trackerSrv.URL)
	ctx := context.Background()

	_, token := newTestUser(t, database, "G-40", model.RoleUser, "LocA")
	store.CreateItem(ctx, database, "ITM-40", "electronics", "laptop", "LocA")

	// Temporary location required for the user branch.
	req, _ := authRequest("PUT", server.URL+"/api/qrscanner/update", token, map[string]string{
		"itemId": "ITM-40",
	})
	var msg map[string]string
	if status := doJSON(t, req, &msg); status != http.StatusBadRequest {
		t.Errorf("expected 400 without temporary location, got %d", status)
	}
	if msg["message"] != "Temporary location is required" {
		t.Errorf("unexpected message %q", msg["message"])
	}

	// Successful temporary relocation.
	req, _ = authRequest("PUT", server.URL+"/api/qrscanner/update", token, map[string]string{
		"itemId": "ITM-40", "temporaryLocation": "Lab 3",
	})
	var updated scannerUpdateResponse
	if status := doJSON(t, req, &updated); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if updated.Item == nil || updated.Item.TemporaryLocation != "Lab 3" {
		t.Errorf("expected temporary location 'Lab 3', got %+v", updated.Item)
	}

	// Unknown item.
	req, _ = authRequest("PUT", server.URL+"/api/qrscanner/update", token, map[string]string{
		"itemId": "nope", "temporaryLocation": "Lab 3",
	})
	if status := doJSON(t, req, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for unknown item, got %d", status)
	}
}

func TestQRScannerTrackerFailure(t *testing.T) {
	trackerSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"message": "tracking store down"})
	}))
	t.Cleanup(trackerSrv.Close)

	server, database := newTestServer(t, trackerSrv.URL)
	ctx := context.Background()

	_, token := newTestUser(t, database, "G-41", model.RoleUser, "LocA")
	store.CreateItem(ctx, database, "ITM-41", "electronics", "laptop", "LocA")

	req, _ := authRequest("PUT", server.URL+"/api/qrscanner/update", token, map[string]string{
		"itemId": "ITM-41", "temporaryLocation": "Lab 3",
	})
	var msg map[string]string
	if status := doJSON(t, req, &msg); status != http.StatusBadGateway {
		t.Fatalf("expected 502 on tracker failure, got %d", status)
	}
	if msg["message"] != "tracking store down" {
		t.Errorf("expected tracker message surfaced, got %q", msg["message"])
	}

	// The local update already happened; there is no rollback.
	item, _ := store.GetItemByItemID(ctx, database, "ITM-41")
	if item.TemporaryLocation != "Lab 3" {
		t.Errorf("expected temporary location persisted despite tracker failure, got %q", item.TemporaryLocation)
	}
}

func TestQRScannerInchargeFlow(t *testing.T) {
	server, database := newTestServer(t, "")
	ctx := context.Background()

	_, token := newTestUser(t, database, "I-50", model.RoleIncharge, "LocB")
	store.CreateItem(ctx, database, "ITM-50", "furniture", "desk", "LocA")

	req, _ := authRequest("PUT", server.URL+"/api/qrscanner/update", token, map[string]string{
		"itemId": "ITM-50", "condition": model.ConditionDamaged,
	})
	var updated scannerUpdateResponse
	if status := doJSON(t, req, &updated); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}

	// The item's home location follows the incharge's own location.
	item, _ := store.GetItemByItemID(ctx, database, "ITM-50")
	if item.Location != "LocB" {
		t.Errorf("expected location 'LocB', got %q", item.Location)
	}
	if item.Condition != model.ConditionDamaged {
		t.Errorf("expected condition 'damaged', got %q", item.Condition)
	}
}

func TestNotificationsEndpoint(t *testing.T) {
	server, database := newTestServer(t, "")
	ctx := context.Background()

	incharge, token := newTestUser(t, database, "I-60", model.RoleIncharge, "LocA")
	store.CreateNotification(ctx, database, "U-60", incharge.GovID, "hello")

	req, _ := authRequest("GET", server.URL+"/api/notifications", token, nil)
	var notifications []model.Notification
	if status := doJSON(t, req, &notifications); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(notifications) != 1 || notifications[0].Message != "hello" {
		t.Errorf("expected the incharge's notification, got %+v", notifications)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	server, database := newTestServer(t, "")
	_, token := newTestUser(t, database, "G-70", model.RoleUser, "LocA")

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	if status := doJSON(t, req, nil); status != http.StatusOK {
		t.Fatalf("expected 200 from logout, got %d", status)
	}

	req, _ = authRequest("GET", server.URL+"/api/items", token, nil)
	if status := doJSON(t, req, nil); status != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", status)
	}
}
