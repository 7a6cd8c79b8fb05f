package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/finassist/finance-bot-api/handlers"
	"github.com/finassist/finance-bot-api/services"
	"github.com/finassist/finance-bot-api/store"
)

// SetupAuthRoutes sets up the public token exchange.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}
	rg.POST("/auth/token", authHandler.Token)
}

// SetupLedgerRoutes wires the services over the ledger and registers every
// protected route.
func SetupLedgerRoutes(rg *gin.RouterGroup, ledger store.Ledger, cache *redis.Client, ws *handlers.WSHandler) {
	budgetService := services.NewBudgetService(ledger)
	transactionService := services.NewTransactionService(ledger, budgetService)
	debtService := services.NewDebtService(ledger, budgetService)
	goalService := services.NewGoalService(ledger)
	analyticsService := services.NewAnalyticsService(ledger, cache)
	reminderService := services.NewReminderService(ledger)
	sessionService := services.NewSessionService()

	th := &handlers.TransactionHandler{Service: transactionService, Analytics: analyticsService, WS: ws}
	rg.POST("/transactions", th.Add)
	rg.DELETE("/transactions/:id", th.Delete)
	rg.GET("/transactions", th.History)
	rg.GET("/transactions/filter", th.Filter)
	rg.GET("/transactions/last", th.Last)

	bh := &handlers.BudgetHandler{Service: budgetService, WS: ws}
	rg.PUT("/budgets/:category", bh.Set)
	rg.GET("/budgets", bh.List)
	rg.POST("/budgets/recalculate", bh.Recalculate)

	dh := &handlers.DebtHandler{Service: debtService, Analytics: analyticsService, WS: ws}
	rg.POST("/debts", dh.Save)
	rg.GET("/debts/active", dh.Active)
	rg.GET("/debts/history", dh.History)
	rg.POST("/debts/close", dh.Close)
	rg.POST("/debts/settle", dh.Settle)

	gh := &handlers.GoalHandler{Service: goalService}
	rg.POST("/goals", gh.Add)
	rg.GET("/goals", gh.List)

	ah := &handlers.AnalyticsHandler{Service: analyticsService}
	rg.GET("/analytics/stats", ah.Stats)
	rg.GET("/analytics/report", ah.Report)

	rh := &handlers.ReminderHandler{Service: reminderService}
	rg.POST("/reminders", rh.Add)
	rg.GET("/reminders/due", rh.Due)
	rg.POST("/reminders/:id/sent", rh.MarkSent)

	sh := &handlers.SessionHandler{Service: sessionService}
	rg.GET("/sessions/state", sh.GetState)
	rg.PUT("/sessions/state", sh.PutState)
}
