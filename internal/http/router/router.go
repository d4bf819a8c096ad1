package router

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigmarket-backend/internal/config"
	"github.com/ignatzorin/gigmarket-backend/internal/http/middleware"
	"github.com/ignatzorin/gigmarket-backend/internal/interface/http/handler"
	"github.com/ignatzorin/gigmarket-backend/internal/service"
)

// Handlers - набор HTTP-обработчиков, которые монтирует роутер.
type Handlers struct {
	Health       *handler.HealthHandler
	Gig          *handler.GigHandler
	Proposal     *handler.ProposalHandler
	Completion   *handler.CompletionHandler
	Contact      *handler.ContactHandler
	Quota        *handler.QuotaHandler
	Wallet       *handler.WalletHandler
	Notification *handler.NotificationHandler
	Conversation *handler.ConversationHandler
	WS           *handler.WSHandler
}

func SetupRouter(cfg *config.Config, h Handlers, tokenManager *service.TokenManager) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", h.Health.Health)
	if cfg.StorageDriver == config.StorageDriverLocal {
		r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))
	}

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))

	// Публичные маршруты
	api.GET("/gigs", h.Gig.ListGigs)
	api.GET("/gigs/:id", middleware.UUIDValidator("id"), h.Gig.GetGig)
	api.GET("/ws", h.WS.Handle)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		// Заказы
		protected.POST("/gigs", h.Gig.CreateGig)
		protected.GET("/gigs/my", h.Gig.ListMyGigs)
		protected.POST("/gigs/:id/cancel", middleware.UUIDValidator("id"), h.Gig.CancelGig)
		protected.POST("/gigs/:id/fund", middleware.UUIDValidator("id"), h.Gig.FundGig)

		// Контакты владельца заказа
		protected.GET("/gigs/:id/contact/access", middleware.UUIDValidator("id"), h.Contact.CanView)
		protected.POST("/gigs/:id/contact", middleware.UUIDValidator("id"), h.Contact.View)

		// Предложения
		protected.POST("/gigs/:id/proposals", middleware.UUIDValidator("id"), h.Proposal.CreateProposal)
		protected.GET("/gigs/:id/proposals", middleware.UUIDValidator("id"), h.Proposal.ListGigProposals)
		protected.GET("/proposals/my", h.Proposal.ListMyProposals)
		protected.GET("/proposals/:proposalId", middleware.UUIDValidator("proposalId"), h.Proposal.GetProposal)
		protected.POST("/proposals/:proposalId/counter", middleware.UUIDValidator("proposalId"), h.Proposal.CounterProposal)
		protected.POST("/proposals/:proposalId/accept", middleware.UUIDValidator("proposalId"), h.Proposal.AcceptProposal)
		protected.POST("/proposals/:proposalId/reject", middleware.UUIDValidator("proposalId"), h.Proposal.RejectProposal)

		// Завершение работ
		protected.POST("/gigs/:id/completions", middleware.UUIDValidator("id"), h.Completion.SubmitCompletion)
		protected.GET("/gigs/:id/completions", middleware.UUIDValidator("id"), h.Completion.ListGigCompletions)
		protected.GET("/completions/:completionId", middleware.UUIDValidator("completionId"), h.Completion.GetCompletion)
		protected.POST("/completions/:completionId/approve", middleware.UUIDValidator("completionId"), h.Completion.ApproveCompletion)
		protected.POST("/completions/:completionId/reject", middleware.UUIDValidator("completionId"), h.Completion.RejectCompletion)
		protected.POST("/completions/attachments", h.Completion.UploadEvidence)
		protected.POST("/completions/attachments/presign", h.Completion.PresignEvidence)

		// Беседы
		protected.GET("/conversations/my", h.Conversation.ListMyConversations)
		protected.GET("/conversations/:conversationId", middleware.UUIDValidator("conversationId"), h.Conversation.GetConversation)

		// Квоты и кошелёк
		protected.GET("/quota", h.Quota.Summary)
		protected.GET("/quota/:action", h.Quota.Check)
		protected.GET("/wallet/balance", h.Wallet.GetBalance)
		protected.GET("/wallet/transactions", h.Wallet.ListTransactions)

		// Уведомления
		protected.GET("/notifications", h.Notification.ListNotifications)
		protected.GET("/notifications/unread/count", h.Notification.CountUnread)
		protected.PUT("/notifications/read-all", h.Notification.MarkAllAsRead)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), h.Notification.MarkAsRead)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireRole(service.RoleAdmin))
	{
		admin.POST("/gigs/:id/approve", middleware.UUIDValidator("id"), h.Gig.ApproveGig)
	}

	return r
}
