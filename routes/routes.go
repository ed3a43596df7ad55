package routes

import (
	"time"

	"tooltrack/app"
	"tooltrack/controllers"
	"tooltrack/notify"
)

func RegisterRoutes(a *app.App) {
	r := a.Router
	s := controllers.GetSrv(a)

	authCtl := controllers.GetAuthController(s)
	userCtl := controllers.GetUserController(s)
	toolCtl := controllers.GetToolController(s)
	txCtl := controllers.GetTransactionController(s)
	qrCtl := controllers.GetQRController(s)
	retCtl := controllers.GetReturnedController(s)
	notifCtl := controllers.GetNotificationController(s)
	hub := notify.NewHub(a.RDB, a.Issuer)

	authMW := app.AuthRequired(a.Issuer)
	staffMW := app.StaffOnly()
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// Auth (public)
	// ------------------------------
	auth := r.Group("/auth")
	{
		auth.POST("/login", authCtl.Login)
		auth.POST("/register", authCtl.Register)
		auth.POST("/federatedLogin", authCtl.FederatedLogin)
		auth.GET("/checkUser", authCtl.CheckUser)
	}

	// Websocket handshake authenticates its own token query parameter.
	r.GET("/ws/tooltrack", hub.Serve)

	// ------------------------------
	// Tool inventory
	// ------------------------------
	tools := r.Group("/toolitem", authMW, seenMW)
	{
		tools.GET("/getTool", toolCtl.GetTool)
		tools.GET("/getAllTool", toolCtl.ListTools)
		tools.GET("/borrow/:toolId", toolCtl.BorrowPreview)
		tools.GET("/search/tool/:toolName", toolCtl.SearchByName)
		tools.GET("/search/tool/category/:category", toolCtl.SearchByCategory)
		tools.GET("/getAllNames", toolCtl.ListNames)
		tools.GET("/getTotalTools", toolCtl.CountTools)
	}
	toolsStaff := r.Group("/toolitem", authMW, staffMW)
	{
		toolsStaff.POST("/addTool", toolCtl.AddTool)
		toolsStaff.POST("/editTool", toolCtl.EditTool)
		toolsStaff.DELETE("/delete/:toolId", toolCtl.DeleteTool)
		toolsStaff.POST("/upload", toolCtl.UploadChunk)
		toolsStaff.POST("/upload/abort", toolCtl.AbortUpload)
		// Legacy path clients still call; same handler as /qrcode/upload.
		toolsStaff.POST("/addQr", qrCtl.Upload)
	}

	// ------------------------------
	// Borrow workflow
	// ------------------------------
	tx := r.Group("/transaction", authMW, seenMW)
	{
		tx.POST("/addTransaction", txCtl.AddTransaction)
		tx.GET("/getTransactions/:email", txCtl.ListByEmail)
	}
	txStaff := r.Group("/transaction", authMW, staffMW)
	{
		txStaff.PUT("/approval/validate", txCtl.Validate)
		txStaff.GET("/getAllTransactions", txCtl.ListAll)
		txStaff.GET("/getAllPendings", txCtl.ListPending)
		txStaff.GET("/getAllProcessed", txCtl.ListProcessed)
		txStaff.GET("/getAllBorrowed", txCtl.ListBorrowed)
		txStaff.GET("/getAllPopularTool", txCtl.PopularTools)
		txStaff.GET("/getSortedDates/:sortedBy", txCtl.SortedDates)
	}

	// ------------------------------
	// Returns
	// ------------------------------
	returned := r.Group("/returned", authMW, seenMW)
	{
		returned.POST("/add", retCtl.AddReturn)
		returned.POST("/upload", retCtl.UploadChunk)
	}

	// ------------------------------
	// QR codes (staff)
	// ------------------------------
	qrg := r.Group("/qrcode", authMW, staffMW)
	{
		qrg.POST("/create/:toolId", qrCtl.Create)
		qrg.POST("/upload", qrCtl.Upload)
	}

	// ------------------------------
	// User management (admin)
	// ------------------------------
	adm := r.Group("", authMW, adminMW)
	{
		adm.GET("/getAllUsers", userCtl.ListUsers)
		adm.POST("/addUser", userCtl.AddUser)
		adm.PUT("/updateUser", userCtl.UpdateUser)
		adm.DELETE("/deleteUser/:email", userCtl.DeleteUser)
	}

	// Broadcast test channel
	r.POST("/notification/notify", authMW, notifCtl.Broadcast)
}
