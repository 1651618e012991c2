package api

import (
	"net/http"

	"runai/coach-server/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	coachService service.CoachService,
	planService service.PlanService,
	profileService service.ProfileService,
	dashboardService service.DashboardService,
	wearableService service.WearableService,
) {

	authHandler := NewAuthHandler(authService)
	coachHandler := NewCoachHandler(coachService)
	planHandler := NewPlanHandler(planService)
	profileHandler := NewProfileHandler(profileService)
	dashboardHandler := NewDashboardHandler(dashboardService)
	wearableHandler := NewWearableHandler(wearableService)

	authMiddleware := AuthMiddleware(jwtSecret)

	// CORS applies everywhere; the web client runs on a different origin.
	router.Use(CORSMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// The chat endpoint is stateless and takes its context from the
		// request body, so it works for logged-out visitors too.
		apiV1.POST("/coach/chat", coachHandler.Chat)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr})
		})

		// --- Profile / Onboarding ---
		profileGroup := protected.Group("/profile")
		{
			profileGroup.GET("", profileHandler.GetProfile)
			profileGroup.PUT("", profileHandler.UpdateProfile)
			profileGroup.POST("/avatar/upload-url", profileHandler.RequestAvatarUploadURL)
			profileGroup.POST("/avatar/confirm", profileHandler.ConfirmAvatar)
			profileGroup.GET("/avatar/download-url", profileHandler.GetAvatarDownloadURL)
		}

		// --- Training Plans ---
		planGroup := protected.Group("/plans")
		{
			// POST /api/v1/plans/generate - full AI pipeline, deactivates prior plans
			planGroup.POST("/generate", planHandler.GeneratePlan)
			planGroup.GET("", planHandler.GetPlans)
			planGroup.GET("/active", planHandler.GetActivePlan)
			planGroup.GET("/:planId/workouts", planHandler.GetPlanWorkouts)
		}

		// --- Workouts ---
		protected.POST("/workouts/:workoutId/complete", planHandler.CompleteWorkout)

		// --- Dashboard ---
		protected.GET("/dashboard", dashboardHandler.GetDashboard)

		// --- Wearables ---
		wearableGroup := protected.Group("/wearables")
		{
			wearableGroup.POST("/sync", wearableHandler.Sync)
			wearableGroup.GET("", wearableHandler.GetLatest)
		}
	}
}
