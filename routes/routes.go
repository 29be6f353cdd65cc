package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/farmatrack/handlers"
	"p9e.in/farmatrack/middleware"
	"p9e.in/farmatrack/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(h *handlers.Handler) http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/me", h.GetCurrentUser).Methods("GET")
	api.HandleFunc("/farmacie", h.ListFarmacie).Methods("GET")
	api.HandleFunc("/farmacie/{id}", h.GetFarmacia).Methods("GET")
	api.HandleFunc("/progress", h.ProgressSummary).Methods("GET")
	api.HandleFunc("/rilievi", h.ListRilievi).Methods("GET")
	api.HandleFunc("/campi", h.ListCampi).Methods("GET")
	api.HandleFunc("/assegnazioni/mie", h.MyAssignments).Methods("GET")

	// Survey writes: merchandiser (for their own farmacie) or admin.
	// Brand stays read-only.
	write := []string{models.RoleAdmin, models.RoleMerchandiser}
	api.Handle("/rilievi", middleware.RequireRole(write, http.HandlerFunc(h.SubmitRilievo))).Methods("POST")
	api.Handle("/files", middleware.RequireRole(write, http.HandlerFunc(h.UploadFile))).Methods("POST")

	// =====================================================
	// Admin Routes (require admin role)
	// =====================================================
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(func(next http.Handler) http.Handler {
		return middleware.RequireRole([]string{models.RoleAdmin}, next)
	})
	admin.HandleFunc("/farmacie", h.CreateFarmacia).Methods("POST")
	admin.HandleFunc("/farmacie/import", h.ImportFarmacie).Methods("POST")
	admin.HandleFunc("/farmacie/{id}", h.UpdateFarmacia).Methods("PUT")
	admin.HandleFunc("/farmacie/{id}", h.DeleteFarmacia).Methods("DELETE")
	admin.HandleFunc("/users", h.GetAllUsers).Methods("GET")
	admin.HandleFunc("/users", h.CreateUser).Methods("POST")
	admin.HandleFunc("/users/{id}", h.UpdateUser).Methods("PUT")
	admin.HandleFunc("/users/{id}", h.DeleteUser).Methods("DELETE")
	admin.HandleFunc("/assegnazioni", h.ListAssegnazioni).Methods("GET")
	admin.HandleFunc("/assegnazioni", h.Assign).Methods("POST")
	admin.HandleFunc("/assegnazioni/{farmaciaId}", h.Unassign).Methods("DELETE")
	admin.HandleFunc("/campi", h.CreateCampo).Methods("POST")
	admin.HandleFunc("/campi/{id}", h.UpdateCampo).Methods("PUT")
	admin.HandleFunc("/campi/{id}", h.DeleteCampo).Methods("DELETE")
	admin.HandleFunc("/registrazioni", h.ListRegistrazioni).Methods("GET")
	admin.HandleFunc("/registrazioni/{id}/approva", h.ApproveRegistrazione).Methods("POST")
	admin.HandleFunc("/registrazioni/{id}/rifiuta", h.RejectRegistrazione).Methods("POST")

	return r
}
