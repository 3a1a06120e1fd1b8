package routes

import (
	"html"

	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/nutrition-backend/internal/token"
	"github.com/gofiber/fiber/v2"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	codec *token.Codec,
	users middleware.UserResolver,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	chatHandler *handlers.ChatHandler,
	foodHandler *handlers.FoodHandler,
	healthHandler *handlers.HealthHandler,
) {
	// Browser pages. The home page personalizes when a session is present;
	// /login is the redirect target for rejected browser navigation.
	app.Get("/", middleware.OptionalUser(codec, users, cfg.CookieName), home)
	app.Get("/login", loginPage)
	app.Get("/dashboard", middleware.Protected(cfg, users), dashboard)

	api := app.Group("/api")

	api.Get("/health", healthHandler.Check)

	// Auth — public
	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)

	// Profile and nutrition ledger (JWT required)
	me := api.Group("/me", middleware.Protected(cfg, users))
	me.Get("/", userHandler.GetMe)
	me.Put("/", userHandler.UpdateMe)
	me.Get("/nutrition", userHandler.GetNutrition)
	me.Post("/nutrition", userHandler.AddNutrition)
	me.Put("/nutrition/:date", userHandler.UpdateNutrition)
	me.Get("/conversations", chatHandler.ListConversations)

	// Inference relays (JWT required)
	api.Post("/chat", middleware.Protected(cfg, users), chatHandler.Send)
	api.Post("/analyze", middleware.Protected(cfg, users), foodHandler.Analyze)
}

func home(c *fiber.Ctx) error {
	if user := middleware.CurrentUser(c); user != nil {
		return c.Type("html").SendString(
			"<h1>NutriTrack</h1><p>Signed in as " + html.EscapeString(user.Email) + "</p>")
	}
	return c.Type("html").SendString(`<h1>NutriTrack</h1><p><a href="/login">Log in</a></p>`)
}

func loginPage(c *fiber.Ctx) error {
	return c.Type("html").SendString("<h1>Log in</h1>")
}

func dashboard(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.Type("html").SendString(
		"<h1>Dashboard</h1><p>" + html.EscapeString(user.Email) + "</p>")
}
