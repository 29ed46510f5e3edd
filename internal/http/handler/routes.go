package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"vaultapi/internal/http/middleware"
	"vaultapi/internal/service"
)

// Services bundles the service dependencies the HTTP surface needs.
type Services struct {
	Users  service.UserService
	Otp    service.OtpService
	Files  service.FileService
	Grants service.GrantService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, svcs Services, jwtSecret []byte) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	authGroup := app.Group("/auth")
	authGroup.Post("/register", Register(svcs.Users))
	authGroup.Post("/login", Login(svcs.Users))
	authGroup.Post("/request-otp", RequestOtp(svcs.Users, svcs.Otp))
	authGroup.Post("/verify-otp", VerifyOtp(svcs.Users, svcs.Otp))

	files := app.Group("/files", middleware.Auth(jwtSecret))
	files.Post("/", UploadFile(svcs.Files))
	files.Get("/", ListFiles(svcs.Files))
	files.Get("/shared", ListSharedFiles(svcs.Files))
	files.Get("/:id/content", DownloadFile(svcs.Files))
	files.Post("/:id/share", ShareFile(svcs.Grants))
}
