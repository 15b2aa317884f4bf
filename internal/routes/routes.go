package routes

import (
	"github.com/emanmohamed354/backend-diabetic/internal/config"
	"github.com/emanmohamed354/backend-diabetic/internal/handlers"
	"github.com/emanmohamed354/backend-diabetic/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	userHandler *handlers.UserHandler,
	patientHandler *handlers.PatientHandler,
	analysisHandler *handlers.AnalysisHandler,
	predictHandler *handlers.PredictHandler,
	healthHandler *handlers.HealthHandler,
) {
	app.Get("/health", healthHandler.Check)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Welcome to the Retina Analysis API")
	})

	// Upload proxy to the external inference endpoint
	app.Post("/predict", predictHandler.Predict)

	users := app.Group("/users")
	users.Post("/signUp", userHandler.SignUp)
	users.Post("/signIn", userHandler.SignIn)
	users.Post("/changeMyPassword", userHandler.ChangePassword)
	users.Post("/forget-password", userHandler.ForgotPassword)
	users.Post("/reset-password", userHandler.ResetPassword)
	users.Put("/updateUserData", userHandler.UpdateUserData)
	users.Get("/show", userHandler.GetUsers)

	// Ownership-scoped routes: identity comes from verified bearer claims
	patients := app.Group("/patients", middleware.JWTProtected(cfg))
	patients.Get("/all", patientHandler.List)
	patients.Post("/create", patientHandler.Create)
	patients.Get("/:patientId/stats", patientHandler.Stats)
	patients.Put("/:patientId/update", patientHandler.Update)
	patients.Delete("/:patientId/delete", patientHandler.Delete)
	patients.Get("/:patientId", patientHandler.Get)

	analysis := app.Group("/analysis", middleware.JWTProtected(cfg))
	analysis.Post("/save", analysisHandler.Save)
	analysis.Get("/patient/:patientId/history", analysisHandler.History)
	analysis.Get("/doctor/all", analysisHandler.ListForDoctor)
	analysis.Get("/:analysisId/export", analysisHandler.Export)
	analysis.Put("/:analysisId/notes", analysisHandler.UpdateNotes)
	analysis.Get("/:analysisId", analysisHandler.Get)

	// 404 fallback
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Route not found"})
	})
}
