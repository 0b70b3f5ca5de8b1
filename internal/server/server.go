package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"plunge/internal/auth"
	"plunge/internal/booking"
	"plunge/internal/catalog"
	"plunge/internal/config"
	"plunge/internal/coupon"
	"plunge/internal/email"
	"plunge/internal/otp"
	"plunge/internal/payment"
	"plunge/internal/schedule"
	"plunge/internal/user"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

type Deps struct {
	DB      *sqlx.DB
	Config  *config.Config
	Email   *email.Service
	OTP     otp.Service
	Gateway payment.Gateway
}

func New(deps Deps) *Server {
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(50, 100))

	cfg := deps.Config

	catalogRepo := catalog.NewRepository(deps.DB)
	catalogHandler := catalog.NewHandler(catalogRepo)

	scheduleSvc := schedule.NewService(schedule.NewRepository(deps.DB))
	scheduleHandler := schedule.NewHandler(scheduleSvc)

	couponSvc := coupon.NewService(coupon.NewRepository(deps.DB))
	couponHandler := coupon.NewHandler(couponSvc)

	bookingSvc := booking.NewService(
		booking.NewRepository(deps.DB),
		scheduleSvc,
		catalogRepo,
		couponSvc,
		deps.Email,
		cfg.JWTSecret,
	)
	bookingHandler := booking.NewHandler(bookingSvc)

	paymentSvc := payment.NewService(deps.Gateway, bookingSvc, catalogRepo)
	paymentHandler := payment.NewHandler(paymentSvc)

	otpHandler := otp.NewHandler(deps.OTP)

	userSvc := user.NewService(user.NewRepository(deps.DB), cfg.JWTSecret)
	userHandler := user.NewHandler(userSvc)

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", userHandler.Login)
		authGroup.POST("/refresh", userHandler.RefreshToken)

		// OTP sending triggers real email, so it gets a much tighter budget
		// than the global limiter.
		otpGroup := authGroup.Group("/otp")
		otpGroup.Use(RateLimitMiddleware(0.2, 3))
		{
			otpGroup.POST("/send", otpHandler.SendCode)
			otpGroup.POST("/verify", otpHandler.VerifyCode)
		}
	}

	public := router.Group("/")
	{
		public.GET("/services", catalogHandler.ListServices)
		public.GET("/services/:serviceID", catalogHandler.GetService)
		public.GET("/services/:serviceID/availability", scheduleHandler.GetAvailability)

		public.POST("/bookings", bookingHandler.CreateBooking)
		public.GET("/bookings/:reference", bookingHandler.GetBooking)

		public.POST("/coupons/validate", couponHandler.ValidateCoupon)

		public.POST("/payments/checkout", paymentHandler.StartCheckout)
		public.POST("/payments/confirm", paymentHandler.ConfirmPayment)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(user.RoleAdmin))
	{
		admin.POST("/staff", userHandler.Register)

		admin.GET("/services", catalogHandler.ListAllServices)
		admin.POST("/services", catalogHandler.CreateService)
		admin.PUT("/services/:serviceID", catalogHandler.UpdateService)
		admin.DELETE("/services/:serviceID", catalogHandler.DeactivateService)

		admin.GET("/services/:serviceID/slots", scheduleHandler.ListDefaultSlots)
		admin.POST("/services/:serviceID/slots", scheduleHandler.CreateDefaultSlot)
		admin.DELETE("/slots/:slotID", scheduleHandler.DeleteDefaultSlot)

		admin.PUT("/services/:serviceID/schedule/:date/slots/:slotID/capacity", scheduleHandler.SetSlotCapacity)
		admin.POST("/services/:serviceID/schedule/:date/slots/:slotID/block", scheduleHandler.BlockSlot)
		admin.DELETE("/services/:serviceID/schedule/:date/slots/:slotID/block", scheduleHandler.UnblockSlot)
		admin.POST("/services/:serviceID/schedule/:date/adhoc", scheduleHandler.AddAdHocSlot)
		admin.DELETE("/exceptions/:exceptionID", scheduleHandler.RemoveAdHocSlot)

		admin.GET("/blocked-dates", scheduleHandler.ListBlockedDates)
		admin.POST("/blocked-dates", scheduleHandler.BlockDate)
		admin.DELETE("/blocked-dates/:date", scheduleHandler.UnblockDate)

		admin.GET("/bookings", bookingHandler.ListBookings)
		admin.PATCH("/bookings/:bookingID/status", bookingHandler.UpdateBookingStatus)
		admin.GET("/analytics/bookings", bookingHandler.GetBookingStats)

		admin.GET("/coupons", couponHandler.ListCoupons)
		admin.POST("/coupons", couponHandler.CreateCoupon)
		admin.PUT("/coupons/:couponID/active", couponHandler.SetCouponActive)
		admin.DELETE("/coupons/:couponID", couponHandler.DeleteCoupon)
	}

	router.GET("/test-email", TestEmail(deps.Email))

	return &Server{
		router: router,
		http:   &http.Server{Addr: ":" + cfg.Port, Handler: router},
		db:     deps.DB,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http.Addr = ":" + port
	return s.http.ListenAndServe()
}

// Shutdown stops accepting new connections and waits for in-flight requests
// to finish, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
