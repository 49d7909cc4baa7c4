package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
	"github.com/suPer8Hu/wholesale-platform/internal/config"
	"github.com/suPer8Hu/wholesale-platform/internal/httpapi/handlers"
	"github.com/suPer8Hu/wholesale-platform/internal/httpapi/middleware"
	"gorm.io/gorm"
)

// NewRouter mounts every namespace. limiter may be nil to disable rate limiting.
func NewRouter(db *gorm.DB, cfg config.Config, deps handlers.Deps, limiter middleware.Limiter) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	h := handlers.NewHandler(db, cfg, deps)
	authn := middleware.AuthRequired(cfg.JWTSecret)
	admin := middleware.AdminRequired()
	limit := middleware.RateLimit(limiter, cfg.RateLimitPerMin)

	r.GET("/ping", h.Ping)

	// users
	r.POST("/users", limit, h.CreateUser)
	r.POST("/login", limit, h.Login)
	r.GET("/me", authn, h.Me)
	r.GET("/users/:id", authn, admin, h.GetUserByID)

	api := r.Group("/api")
	api.POST("/payments/webhook", h.PaymentWebhook)

	products := api.Group("/products")
	products.GET("", h.ListProducts)
	products.GET("/featured", h.FeaturedProducts)
	products.GET("/category/:category_id", h.ProductsByCategory)
	products.GET("/slug/:slug", h.ProductBySlug)
	products.GET("/:id", h.GetProduct)
	products.POST("", authn, admin, h.CreateProduct)

	categories := api.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.POST("", authn, admin, h.CreateCategory)

	certs := api.Group("/certifications")
	certs.GET("", h.ListCertifications)
	certs.GET("/product/:product_id", h.ProductCertifications)

	pricingGroup := api.Group("/pricing/:product_id/tiers")
	pricingGroup.GET("", h.PricingTiers)
	pricingGroup.POST("", authn, admin, h.AddPricingTier)
	pricingGroup.DELETE("/:tier_id", authn, admin, h.DeletePricingTier)

	rfqGroup := api.Group("/rfq", authn, limit)
	rfqGroup.POST("", h.SubmitRFQ)
	rfqGroup.GET("/mine", h.MyRFQs)
	rfqGroup.GET("/:id", h.GetRFQ)
	rfqGroup.GET("", admin, h.ListRFQs)

	profileGroup := api.Group("/profile", authn)
	profileGroup.GET("", h.GetProfile)
	profileGroup.PUT("", h.UpdateProfile)

	payments := api.Group("/payments", authn, limit)
	payments.POST("/checkout", h.CreateCheckoutSession)
	payments.POST("/orders/:order_id/pay", h.PayOrder)
	payments.GET("/orders", h.ListOrders)
	payments.GET("/orders/:order_id", h.GetOrder)

	quotes := api.Group("/quotes", authn)
	quotes.POST("", admin, h.CreateQuote)
	quotes.GET("/:id", h.GetQuote)
	quotes.GET("/:id/history", h.QuoteHistory)
	quotes.PATCH("/:id/status", h.UpdateQuoteStatus)
	quotes.POST("/:id/convert", h.ConvertQuote)
	quotes.GET("/rfq/:rfq_id", h.RFQQuotes)
	quotes.GET("/rfq/:rfq_id/active", h.ActiveRFQQuote)

	chatGroup := api.Group("/chat", authn)
	chatGroup.POST("/sessions", limit, h.StartChatSession)
	chatGroup.GET("/sessions/current", h.MyChatSession)
	chatGroup.GET("/sessions/:session_id", h.GetChatSession)
	chatGroup.POST("/sessions/:session_id/messages", limit, h.SendChatMessage)
	chatGroup.GET("/sessions/:session_id/messages", h.ListChatMessages)
	chatGroup.GET("/sessions/:session_id/events", h.ChatEvents)
	chatGroup.POST("/sessions/:session_id/close", h.CloseChatSession)

	agents := api.Group("/chat/agents", authn, admin)
	agents.GET("", h.ListAgents)
	agents.PUT("", h.UpsertAgent)
	agents.PATCH("/:agent_id/status", h.SetAgentStatus)
	agents.POST("/sessions/:session_id/assign", h.AssignChatSession)
	agents.POST("/sessions/:session_id/messages", h.AgentReply)

	inquiries := api.Group("/inquiries", authn)
	inquiries.POST("/notify", limit, h.SendInquiryNotification)
	inquiries.GET("", h.MyInquiryNotifications)

	bulk := api.Group("/bulk-upload")
	bulk.GET("/template", h.CSVTemplate)
	bulk.POST("/validate", h.ValidateCSVFile)
	bulk.POST("", authn, admin, h.UploadCSV)

	faqGroup := api.Group("/faq")
	faqGroup.GET("/categories", h.FAQCategories)
	faqGroup.GET("/categories/:category_id/items", h.FAQItemsByCategory)
	faqGroup.GET("/items/:id", h.FAQItem)
	faqGroup.GET("/search", h.SearchFAQ)
	faqGroup.POST("/items/:id/helpful", limit, h.MarkFAQHelpful)
	faqGroup.POST("/categories", authn, admin, h.CreateFAQCategory)
	faqGroup.POST("/items", authn, admin, h.CreateFAQItem)

	sharingGroup := api.Group("/sharing")
	sharingGroup.GET("/products/:product_id/urls", h.ShareURLs)
	sharingGroup.GET("/products/:product_id/templates", h.ShareTemplates)
	sharingGroup.GET("/products/:product_id/stats", h.ShareStats)
	sharingGroup.POST("/track", limit, h.TrackShare)

	multi := api.Group("/multi-payments")
	multi.GET("/regions", h.RegionPaymentMethods)
	multi.GET("/methods/:method", h.PaymentMethodDetails)
	multi.GET("/total", h.PaymentTotal)
	multi.POST("/initialize", authn, limit, h.InitializePayment)

	tariffs := api.Group("/tariffs")
	tariffs.GET("/calculate", h.CalculateTariff)
	tariffs.POST("/calculate/bulk", h.CalculateBulkTariff)
	tariffs.GET("/countries", h.TariffCountries)
	tariffs.POST("/compare", h.CompareTariffs)
	tariffs.GET("/summary/:country", h.TariffSummary)
	tariffs.GET("/estimate", h.EstimateFinalPrice)

	memberships := api.Group("/membership")
	memberships.GET("/tiers", h.MembershipTiers)
	memberships.GET("/me", authn, h.MyMembership)
	memberships.GET("/discount", authn, h.ApplicableDiscount)
	memberships.GET("/upgrade", authn, h.CheckUpgrade)
	memberships.POST("/tiers", authn, admin, h.CreateTier)
	memberships.POST("/discounts", authn, admin, h.CreateDiscount)
	memberships.POST("/assign", authn, admin, h.AssignTier)

	cartGroup := api.Group("/cart", authn)
	cartGroup.GET("", h.CartItems)
	cartGroup.POST("/items", h.AddCartItem)
	cartGroup.PATCH("/items/:item_id", h.UpdateCartItem)
	cartGroup.DELETE("/items/:item_id", h.RemoveCartItem)
	cartGroup.DELETE("", h.ClearCart)
	cartGroup.GET("/total", h.CartTotal)

	return r
}

// corsConfig allows any origin without credentials when none are configured.
func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = origins
	cc.AllowCredentials = true
	return cc
}
