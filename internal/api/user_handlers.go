package api

import (
	"github.com/gin-gonic/gin"
	"github.com/suryard0605/medtrack/internal/service"
)

func PostUser(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.UserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		// Registration is self-service: the token's account is the only one
		// it may create or overwrite.
		user := currentUser(c)
		req.ID = user.ID

		if err := service.ValidateUserRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "User validation failed")
			return
		}

		created, err := service.RegisterUser(c.Request.Context(), app.Users(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save user")
			return
		}
		HandleSuccess(c, app.Logger(), created, nil)
	}
}

func GetMe(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		stored, err := app.Users().GetUser(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 404, "User not found")
			return
		}
		HandleSuccess(c, app.Logger(), stored, nil)
	}
}

func PutMe(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.UserUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateUserUpdateRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "User validation failed")
			return
		}

		updated, err := service.UpdateUser(c.Request.Context(), app.Users(), user.ID, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to update user")
			return
		}
		HandleSuccess(c, app.Logger(), updated, nil)
	}
}
