package app

import (
	"github.com/go-chi/chi/v5"

	adminhandler "github.com/ogaydukov/boostup/internal/handler/admin"
	balancehandler "github.com/ogaydukov/boostup/internal/handler/balance"
	"github.com/ogaydukov/boostup/internal/handler/middleware"
	orderhandler "github.com/ogaydukov/boostup/internal/handler/order"
	userhandler "github.com/ogaydukov/boostup/internal/handler/user"
	"github.com/ogaydukov/boostup/internal/postgres"
	"github.com/ogaydukov/boostup/internal/service"
)

func (app *App) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithAuth(app.Config))

	p := postgres.New(app.DB)

	userService := service.NewUserService(p, app.Config)
	userHandler := userhandler.New(userService)

	balanceService := service.NewBalanceService(p, p, p, app.Notifier, app.Config.RewardBonus)
	balanceHandler := balancehandler.New(balanceService)

	orderService := service.NewOrderService(p, p, app.Notifier, app.Config.UnitPrice)
	orderHandler := orderhandler.New(orderService)
	adminHandler := adminhandler.New(orderService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/user/register", userHandler.Register)
		r.Post("/user/login", userHandler.Login)
		r.Get("/user/profile", userHandler.Profile)
		r.Get("/user/balance", balanceHandler.Balance)
		r.Post("/user/reward", balanceHandler.Reward)

		r.Post("/orders", orderHandler.CreateOrder)
		r.Get("/orders", orderHandler.Orders)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.WithAdmin)
			r.Get("/orders", adminHandler.Orders)
			r.Patch("/orders/{task_id}", adminHandler.UpdateOrder)
		})
	})

	return r
}
