package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"parishlaunch/internal/delivery/http/controllers"
	"parishlaunch/internal/delivery/http/middleware"
	"parishlaunch/internal/domain"
)

// RouterConfig carries the controllers and cross-cutting pieces the router wires together.
type RouterConfig struct {
	Verifier domain.TokenVerifier

	Auth     *controllers.AuthController
	Waitlist *controllers.WaitlistController
	Site     *controllers.SiteController
	Template *controllers.TemplateController
	Campaign *controllers.CampaignController
	EmailLog *controllers.EmailLogController

	// WaitlistRateRPS and WaitlistRateBurst limit the public registration form.
	WaitlistRateRPS   float64
	WaitlistRateBurst int
}

// NewRouter initializes the HTTP router with all application routes.
// Public routes serve the landing page; everything else requires a Bearer token.
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(cfg.Verifier)
	rateLimit := middleware.RateLimit(cfg.WaitlistRateRPS, cfg.WaitlistRateBurst)

	// Auth
	mux.HandleFunc("POST /api/auth/login", cfg.Auth.Login)

	// Public landing page
	mux.HandleFunc("POST /api/waitlist", rateLimit(cfg.Waitlist.Register))
	mux.HandleFunc("GET /api/settings", cfg.Site.ListSettings)
	mux.HandleFunc("GET /api/social-links", cfg.Site.ListSocialLinks)
	mux.HandleFunc("GET /api/parishes", cfg.Site.ListParishes)

	// Admin: waitlist
	mux.HandleFunc("GET /api/waitlist", requireAuth(cfg.Waitlist.List))

	// Admin: site content
	mux.HandleFunc("PUT /api/settings/{key}", requireAuth(cfg.Site.UpsertSetting))
	mux.HandleFunc("PUT /api/social-links/{platform}", requireAuth(cfg.Site.UpsertSocialLink))
	mux.HandleFunc("POST /api/parishes", requireAuth(cfg.Site.CreateParish))
	mux.HandleFunc("PATCH /api/parishes/{parishID}", requireAuth(cfg.Site.UpdateParish))
	mux.HandleFunc("DELETE /api/parishes/{parishID}", requireAuth(cfg.Site.DeleteParish))

	// Admin: email templates
	mux.HandleFunc("POST /api/email-templates", requireAuth(cfg.Template.Create))
	mux.HandleFunc("GET /api/email-templates", requireAuth(cfg.Template.List))
	mux.HandleFunc("GET /api/email-templates/{templateID}", requireAuth(cfg.Template.Get))
	mux.HandleFunc("PATCH /api/email-templates/{templateID}", requireAuth(cfg.Template.Update))
	mux.HandleFunc("DELETE /api/email-templates/{templateID}", requireAuth(cfg.Template.Delete))

	// Admin: email campaigns
	mux.HandleFunc("POST /api/email-campaigns", requireAuth(cfg.Campaign.Create))
	mux.HandleFunc("GET /api/email-campaigns", requireAuth(cfg.Campaign.List))
	mux.HandleFunc("GET /api/email-campaigns/{campaignID}", requireAuth(cfg.Campaign.Get))
	mux.HandleFunc("PATCH /api/email-campaigns/{campaignID}", requireAuth(cfg.Campaign.Update))
	mux.HandleFunc("DELETE /api/email-campaigns/{campaignID}", requireAuth(cfg.Campaign.Delete))
	mux.HandleFunc("POST /api/email-campaigns/{campaignID}/send", requireAuth(cfg.Campaign.Send))

	// Admin: delivery logs
	mux.HandleFunc("GET /api/email-logs", requireAuth(cfg.EmailLog.List))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
