package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/suryard0605/medtrack/internal/service"
)

func PostMember(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)

		var req service.MemberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateMemberRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Member validation failed")
			return
		}

		member, err := service.CreateMember(c.Request.Context(), app.Members(), user, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to save member")
			return
		}
		HandleSuccess(c, app.Logger(), member, nil)
	}
}

func ListMembers(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		members, err := app.Members().ListMembers(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to fetch members")
			return
		}
		HandleSuccess(c, app.Logger(), members, nil)
	}
}

func GetMember(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		member, err := app.Members().GetMember(c.Request.Context(), c.Param("id"))
		if err != nil || member.UserID != user.ID {
			if err == nil {
				err = errors.New("member belongs to another account")
			}
			HandleError(c, app.Logger(), err, 404, "Member not found")
			return
		}
		HandleSuccess(c, app.Logger(), member, nil)
	}
}

func PutMember(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id := c.Param("id")

		existing, err := app.Members().GetMember(c.Request.Context(), id)
		if err != nil || existing.UserID != user.ID {
			if err == nil {
				err = errors.New("member belongs to another account")
			}
			HandleError(c, app.Logger(), err, 404, "Member not found")
			return
		}

		var req service.MemberRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Invalid JSON")
			return
		}
		if err := service.ValidateMemberRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, 400, "Member validation failed")
			return
		}

		member, err := service.UpdateMember(c.Request.Context(), app.Members(), id, &req)
		if err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to update member")
			return
		}
		HandleSuccess(c, app.Logger(), member, nil)
	}
}

func DeleteMember(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		id := c.Param("id")

		existing, err := app.Members().GetMember(c.Request.Context(), id)
		if err != nil || existing.UserID != user.ID {
			if err == nil {
				err = errors.New("member belongs to another account")
			}
			HandleError(c, app.Logger(), err, 404, "Member not found")
			return
		}

		if err := service.DeleteMember(c.Request.Context(), app.Members(), id); err != nil {
			HandleError(c, app.Logger(), err, 500, "Failed to delete member")
			return
		}
		HandleSuccess(c, app.Logger(), gin.H{"success": true}, nil)
	}
}
