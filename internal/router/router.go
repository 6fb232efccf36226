package router

import (
	"github.com/bishalghimire/merotopup-backend/internal/chat"
	"github.com/bishalghimire/merotopup-backend/internal/game"
	"github.com/bishalghimire/merotopup-backend/internal/logger"
	"github.com/bishalghimire/merotopup-backend/internal/middleware"
	"github.com/bishalghimire/merotopup-backend/internal/order"
	"github.com/bishalghimire/merotopup-backend/internal/payment"
	"github.com/bishalghimire/merotopup-backend/internal/user"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(
	userH *user.Handler,
	orderH *order.Handler,
	chatH *chat.Handler,
	gameH *game.Handler,
	paymentH *payment.Handler,
	jwtSecret []byte,
	userRepo user.UserRepository,
) chi.Router {
	r := chi.NewRouter()

	r.Use(logger.WithLogging)
	r.Use(chiMiddleware.Recoverer)

	r.Use(middleware.GzipHandler)

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/lookup", userH.Lookup)
		r.Post("/register", userH.Register)
		r.Post("/login", userH.Login)
	})

	r.Get("/api/games", gameH.ListGames)
	r.Get("/api/payments", paymentH.ListMethods)

	// Chat works for guests; a valid token just makes the model greet you.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalJWT(jwtSecret))

		r.Post("/api/chat", chatH.Chat)
		r.Post("/api/chat/verify", chatH.Verify)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTMiddleware(jwtSecret, userRepo))

		r.Post("/api/orders", orderH.CreateOrder)
		r.Get("/api/user/orders", orderH.ListOrders)
	})

	return r
}
