package http

import (
	"net/http"

	"clinic-booking-service/internal/delivery/http/handler"
	"clinic-booking-service/internal/delivery/http/middleware"
	"clinic-booking-service/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	doctorHandler      *handler.DoctorHandler
	appointmentHandler *handler.AppointmentHandler
	planHandler        *handler.PlanHandler
	crmHandler         *handler.CRMHandler
	contactHandler     *handler.ContactHandler
	auditLogHandler    *handler.AuditLogHandler
	healthHandler      *handler.HealthHandler
	authMiddleware     *middleware.AuthMiddleware
	corsMiddleware     *middleware.CORSMiddleware
	loggingMiddleware  *middleware.LoggingMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	appointmentHandler *handler.AppointmentHandler,
	planHandler *handler.PlanHandler,
	crmHandler *handler.CRMHandler,
	contactHandler *handler.ContactHandler,
	auditLogHandler *handler.AuditLogHandler,
	healthHandler *handler.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		doctorHandler:      doctorHandler,
		appointmentHandler: appointmentHandler,
		planHandler:        planHandler,
		crmHandler:         crmHandler,
		contactHandler:     contactHandler,
		auditLogHandler:    auditLogHandler,
		healthHandler:      healthHandler,
		authMiddleware:     authMiddleware,
		corsMiddleware:     corsMiddleware,
		loggingMiddleware:  loggingMiddleware,
	}
}

// signedIn admits any authenticated account
func (r *Router) signedIn(h http.HandlerFunc) http.Handler {
	return r.authMiddleware.Authenticate(middleware.RequireAnyRole(h))
}

func (r *Router) adminOnly(h http.HandlerFunc) http.Handler {
	return r.authMiddleware.Authenticate(middleware.RequireAdmin(h))
}

// Setup registers every route and returns the router wrapped in CORS and request logging.
func (r *Router) Setup() http.Handler {
	api := r.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", r.healthHandler.Check).Methods(http.MethodGet)

	// Auth
	api.HandleFunc("/auth/sendotp", r.authHandler.SendOTP).Methods(http.MethodPost)
	api.HandleFunc("/auth/register", r.authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", r.authHandler.Login).Methods(http.MethodPost)
	api.Handle("/auth/logout", r.signedIn(r.authHandler.Logout)).Methods(http.MethodPost)
	api.Handle("/auth/me", r.signedIn(r.authHandler.GetCurrentUser)).Methods(http.MethodGet)

	// Doctors
	api.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.Handle("/doctors", r.adminOnly(r.doctorHandler.CreateDoctor)).Methods(http.MethodPost)
	api.Handle("/doctors/{id}", r.adminOnly(r.doctorHandler.UpdateDoctor)).Methods(http.MethodPut)
	api.Handle("/doctors/{id}", r.adminOnly(r.doctorHandler.DeleteDoctor)).Methods(http.MethodDelete)
	api.Handle("/doctors/{id}/availability", r.adminOnly(r.doctorHandler.AddAvailableDate)).Methods(http.MethodPost)
	api.Handle("/doctors/{id}/availability/{date}", r.adminOnly(r.doctorHandler.RemoveAvailableDate)).Methods(http.MethodDelete)
	api.Handle("/doctors/{id}/availability/{date}/slots", r.adminOnly(r.doctorHandler.AddTimeSlot)).Methods(http.MethodPost)
	api.Handle("/doctors/{id}/availability/{date}/slots/{slot}", r.adminOnly(r.doctorHandler.RemoveTimeSlot)).Methods(http.MethodDelete)

	// Appointments
	api.HandleFunc("/appointments", r.appointmentHandler.Create).Methods(http.MethodPost)
	api.Handle("/appointments", r.signedIn(r.appointmentHandler.List)).Methods(http.MethodGet)
	api.Handle("/appointments/{id}", r.adminOnly(r.appointmentHandler.UpdateStatus)).Methods(http.MethodPatch)

	// Plans
	api.HandleFunc("/plans", r.planHandler.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/plans/{id}", r.planHandler.GetByID).Methods(http.MethodGet)
	api.Handle("/plans", r.adminOnly(r.planHandler.Create)).Methods(http.MethodPost)
	api.Handle("/plans/{id}", r.adminOnly(r.planHandler.Update)).Methods(http.MethodPut)
	api.Handle("/plans/{id}", r.adminOnly(r.planHandler.Delete)).Methods(http.MethodDelete)

	// CRM (admin)
	api.Handle("/crm", r.adminOnly(r.crmHandler.GetAll)).Methods(http.MethodGet)
	api.Handle("/crm", r.adminOnly(r.crmHandler.Create)).Methods(http.MethodPost)
	api.Handle("/crm", r.adminOnly(r.crmHandler.Update)).Methods(http.MethodPut)
	api.Handle("/crm/{id}", r.adminOnly(r.crmHandler.GetByID)).Methods(http.MethodGet)
	api.Handle("/crm/{id}", r.adminOnly(r.crmHandler.Update)).Methods(http.MethodPut)
	api.Handle("/crm/{id}", r.adminOnly(r.crmHandler.Delete)).Methods(http.MethodDelete)

	// Contact forms
	api.HandleFunc("/contact", r.contactHandler.SubmitContact).Methods(http.MethodPost)
	api.Handle("/contact", r.adminOnly(r.contactHandler.GetContacts)).Methods(http.MethodGet)
	api.HandleFunc("/contactdev", r.contactHandler.SubmitMessage).Methods(http.MethodPost)
	api.Handle("/contactdev", r.adminOnly(r.contactHandler.GetMessages)).Methods(http.MethodGet)
	api.Handle("/contactdev/{id}", r.adminOnly(r.contactHandler.UpdateMessageStatus)).Methods(http.MethodPatch)

	// Audit trail (admin)
	api.Handle("/audit-logs", r.adminOnly(r.auditLogHandler.GetAllAuditLogs)).Methods(http.MethodGet)
	api.Handle("/audit-logs/{id}", r.adminOnly(r.auditLogHandler.GetAuditLog)).Methods(http.MethodGet)

	r.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found")
	})
	r.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	return r.corsMiddleware.Handle(r.loggingMiddleware.Handle(r.router))
}
