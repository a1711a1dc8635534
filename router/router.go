package router

import (
	"github.com/bistrodev/bistro-pos/controllers"
	"github.com/bistrodev/bistro-pos/dispatch"
	"github.com/bistrodev/bistro-pos/middlewares"
	"github.com/bistrodev/bistro-pos/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// Gin binds handler chains at registration, so the global limiter
	// has to go on before any route below.
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	var sink services.NotificationSink
	if notifier := services.NewSMTPNotifierFromEnv(); notifier != nil {
		sink = notifier
	}

	userCtrl := controllers.NewUserController(db)
	branchCtrl := controllers.NewBranchController(db)
	tableCtrl := controllers.NewTableController(db)
	slotCtrl := controllers.NewTimeSlotController(db)
	reservationCtrl := controllers.NewReservationController(db, sink)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db)
	cashCtrl := controllers.NewCashSessionController(db)
	printerCtrl := controllers.NewPrinterController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter for login/register and guest booking
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
		public.POST("/reservations", reservationCtrl.CreateReservation)
	}

	// Guest-facing reads, no auth
	r.GET("/branches/:branch_id/availability", reservationCtrl.CheckAvailability)
	r.GET("/reservations/code/:code", reservationCtrl.GetReservationByCode)
	r.GET("/branches", branchCtrl.GetAllBranches)
	r.GET("/branches/:branch_id", branchCtrl.GetBranchByID)
	r.GET("/branches/:branch_id/menus", menuCtrl.GetMenusByBranch)
	r.GET("/branches/:branch_id/categories", menuCtrl.GetCategoriesByBranch)
	r.GET("/branches/:branch_id/time-slots", slotCtrl.GetTimeSlotsByBranch)

	// Station screens and the floor plan subscribe here
	r.GET("/dispatch/ws", dispatch.Handler)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.POST("/logout", userCtrl.Logout)
		auth.GET("/profile", userCtrl.GetProfile)

		admin := auth.Group("/")
		admin.Use(middlewares.RequireRoles("admin"))
		{
			admin.GET("/users", userCtrl.GetAllUsers)
			admin.POST("/branches", branchCtrl.CreateBranch)
			admin.PATCH("/branches/:branch_id", branchCtrl.UpdateBranch)
			admin.DELETE("/branches/:branch_id", branchCtrl.DeleteBranch)

			admin.POST("/tables", tableCtrl.CreateTable)
			admin.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
			admin.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

			admin.POST("/time-slots", slotCtrl.CreateTimeSlot)
			admin.PATCH("/time-slots/:slot_id", slotCtrl.UpdateTimeSlot)
			admin.PUT("/time-slots/:slot_id/tables", slotCtrl.AssignTables)
			admin.DELETE("/time-slots/:slot_id", slotCtrl.DeleteTimeSlot)

			admin.POST("/categories", menuCtrl.CreateCategory)
			admin.POST("/menus", menuCtrl.CreateMenu)
			admin.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
			admin.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

			admin.POST("/printers", printerCtrl.CreatePrinter)
			admin.PATCH("/printers/:printer_id", printerCtrl.UpdatePrinter)
		}

		staff := auth.Group("/")
		staff.Use(middlewares.RequireRoles("staff", "cashier"))
		{
			staff.GET("/branches/:branch_id/tables", tableCtrl.GetTablesByBranch)
			staff.GET("/branches/:branch_id/floor-plan", tableCtrl.GetFloorPlan)
			staff.GET("/tables/:table_id", tableCtrl.GetTableByID)
			staff.PATCH("/tables/:table_id/status", tableCtrl.UpdateTableStatus)

			staff.GET("/branches/:branch_id/reservations", reservationCtrl.GetReservationsByBranch)
			staff.PATCH("/reservations/:reservation_id/status", reservationCtrl.UpdateReservationStatus)

			staff.POST("/orders", orderCtrl.CreateOrder)
			staff.GET("/branches/:branch_id/orders", orderCtrl.GetOrdersByBranch)
			staff.GET("/orders/:order_id", orderCtrl.GetOrderByID)
			staff.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
			staff.PATCH("/orders/:order_id/table", orderCtrl.MoveTable)
			staff.POST("/orders/:order_id/tickets", orderCtrl.ReprintTickets)

			staff.GET("/branches/:branch_id/printers", printerCtrl.GetPrintersByBranch)
			staff.GET("/branches/:branch_id/tickets", printerCtrl.GetTickets)
			staff.POST("/tickets/:ticket_id/requeue", printerCtrl.RequeueTicket)
			staff.PATCH("/tickets/:ticket_id/status", printerCtrl.AcknowledgeTicket)
		}

		cashier := auth.Group("/")
		cashier.Use(middlewares.RequireRoles("cashier"))
		{
			cashier.POST("/cash-sessions", cashCtrl.OpenSession)
			cashier.GET("/branches/:branch_id/cash-sessions", cashCtrl.GetSessionsByBranch)
			cashier.POST("/cash-sessions/:session_id/movements", cashCtrl.AddMovement)
			cashier.POST("/cash-sessions/:session_id/close", cashCtrl.CloseSession)
		}
	}

	return r
}
