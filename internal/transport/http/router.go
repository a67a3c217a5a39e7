package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/realtyconnect/community-api/internal/handlers"
	authmw "github.com/realtyconnect/community-api/internal/middleware/auth"
)

type Deps struct {
	Auth     *authmw.Middleware
	AuthH    *handlers.AuthHandler
	UserH    *handlers.UserHandler
	PostH    *handlers.PostHandler
	PaymentH *handlers.PaymentHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthH.Register)
	auth.POST("/login", d.AuthH.Login)
	auth.POST("/refresh", d.AuthH.Refresh)
	auth.POST("/logout", d.AuthH.Logout, d.Auth.Require)
	auth.GET("/me", d.AuthH.Me, d.Auth.Require)

	users := api.Group("/users")
	users.GET("/:id", d.UserH.GetProfile)
	users.PUT("/profile", d.UserH.UpdateProfile, d.Auth.Require)
	users.GET("/:id/posts", d.UserH.GetUserPosts, d.Auth.Optional)
	users.POST("/:id/follow", d.UserH.Follow, d.Auth.Require)
	users.DELETE("/:id/follow", d.UserH.Unfollow, d.Auth.Require)

	posts := api.Group("/posts")
	posts.GET("", d.PostH.List, d.Auth.Optional)
	posts.POST("", d.PostH.Create, d.Auth.Require)
	posts.GET("/search", d.PostH.Search)
	posts.GET("/:id", d.PostH.Get, d.Auth.Optional)
	posts.PUT("/:id", d.PostH.Update, d.Auth.Require)
	posts.DELETE("/:id", d.PostH.Delete, d.Auth.Require)
	posts.POST("/:id/like", d.PostH.Like, d.Auth.Require)
	posts.DELETE("/:id/like", d.PostH.Unlike, d.Auth.Require)
	posts.POST("/:id/share", d.PostH.Share)

	payments := api.Group("/payments", d.Auth.Require)
	payments.POST("/subscription", d.PaymentH.CreateSubscription)
	payments.PUT("/subscription/:id", d.PaymentH.UpdateSubscription)
	payments.DELETE("/subscription/:id", d.PaymentH.CancelSubscription)
	payments.GET("/methods", d.PaymentH.GetPaymentMethods)
	payments.POST("/methods", d.PaymentH.AddPaymentMethod)
	payments.DELETE("/methods/:id", d.PaymentH.RemovePaymentMethod)
	payments.PUT("/default-method", d.PaymentH.UpdateDefaultPaymentMethod)
	payments.GET("/billing-history", d.PaymentH.BillingHistory)
	payments.GET("/invoice/:id", d.PaymentH.GetInvoice)
}
