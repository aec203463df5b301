package api

import (
	"database/sql"
	"net/http"

	"github.com/avashist/upkeep/internal/model"
	"github.com/avashist/upkeep/internal/notify"
	"github.com/avashist/upkeep/internal/tracker"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, dispatcher *notify.Dispatcher, trackerClient *tracker.Client) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	maintenanceHandler := &MaintenanceHandler{DB: db, Dispatcher: dispatcher}
	penaltyHandler := &PenaltyHandler{DB: db}
	qrscannerHandler := &QRScannerHandler{DB: db, Tracker: trackerClient}
	notificationsHandler := &NotificationsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireIncharge := RequireRole(model.RoleAdmin, model.RoleIncharge)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{govId}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{govId}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{govId}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{govId}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Items: read (all roles), write (incharge or admin).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(requireIncharge(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/items/{itemId}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{itemId}", authMW(requireIncharge(http.HandlerFunc(itemsHandler.Update))))
	mux.Handle("DELETE /api/items/{itemId}", authMW(requireIncharge(http.HandlerFunc(itemsHandler.Delete))))
	mux.Handle("PUT /api/items/{itemId}/photo", authMW(requireIncharge(http.HandlerFunc(itemsHandler.UploadPhoto))))
	mux.Handle("GET /api/items/{itemId}/photo", authMW(http.HandlerFunc(itemsHandler.GetPhoto)))

	// Maintenance request lifecycle (all roles; the update endpoint
	// deliberately carries no role gate).
	mux.Handle("POST /api/maintenance/request", authMW(http.HandlerFunc(maintenanceHandler.Create)))
	mux.Handle("GET /api/maintenance/request", authMW(http.HandlerFunc(maintenanceHandler.List)))
	mux.Handle("PUT /api/maintenance/request", authMW(http.HandlerFunc(maintenanceHandler.Update)))

	// Reputation ledger.
	mux.Handle("POST /api/penalty", authMW(http.HandlerFunc(penaltyHandler.Create)))
	mux.Handle("GET /api/penalty", authMW(http.HandlerFunc(penaltyHandler.List)))

	// QR scanner item update (role branch happens in the handler).
	mux.Handle("PUT /api/qrscanner/update", authMW(http.HandlerFunc(qrscannerHandler.Update)))

	// Incharge notifications.
	mux.Handle("GET /api/notifications", authMW(http.HandlerFunc(notificationsHandler.List)))

	return mux
}
