package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/StudyBuddy/internal/dto"
	"github.com/lshigami/StudyBuddy/internal/service"
)

type UserController struct {
	userService service.UserService
	images      ImageStore
}

func NewUserController(userService service.UserService, images ImageStore) *UserController {
	return &UserController{userService: userService, images: images}
}

// RegisterPublicRoutes mounts the routes that need no token.
func (c *UserController) RegisterPublicRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.POST("/register", c.Register)
	users.POST("/login", c.Login)
	users.POST("/send-reset-code", c.SendResetCode)
	users.POST("/verify-reset-code", c.VerifyResetCode)
	users.POST("/reset-password", c.ResetPassword)
}

func (c *UserController) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.GET("/me", c.Me)
	users.GET("/search", c.Search)
}

// Register godoc
// @Summary Create an account
// @Description Accepts JSON or multipart form data. A PNG/JPEG profile picture may be sent as "profile_picture".
// @Tags Users
// @Accept json,mpfd
// @Produce json
// @Param user body dto.RegisterDTO true "Account details"
// @Param profile_picture formData file false "Profile picture"
// @Success 201 {object} dto.AuthResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Validation failed or email/username taken"
// @Router /users/register [post]
func (c *UserController) Register(ctx *gin.Context) {
	var req dto.RegisterDTO
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}
	picture, err := c.images.Save(ctx, "profile_picture")
	if err != nil {
		respondError(ctx, err, "Failed to store profile picture")
		return
	}
	resp, err := c.userService.Register(ctx.Request.Context(), req, picture)
	if err != nil {
		respondError(ctx, err, "Failed to register user")
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Exchange credentials for a JWT
// @Tags Users
// @Accept json
// @Produce json
// @Param credentials body dto.LoginDTO true "Email and password"
// @Success 200 {object} dto.AuthResponseDTO
// @Failure 401 {object} dto.ErrorResponse "Invalid email or password"
// @Router /users/login [post]
func (c *UserController) Login(ctx *gin.Context) {
	var req dto.LoginDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	resp, err := c.userService.Login(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err, "Failed to log in")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SendResetCode godoc
// @Summary Email a password reset code
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.SendResetCodeDTO true "Account email"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "No account with this email"
// @Router /users/send-reset-code [post]
func (c *UserController) SendResetCode(ctx *gin.Context) {
	var req dto.SendResetCodeDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	if err := c.userService.SendResetCode(ctx.Request.Context(), req.Email); err != nil {
		respondError(ctx, err, "Failed to send reset code")
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Reset code sent"})
}

// VerifyResetCode godoc
// @Summary Check a password reset code
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.VerifyResetCodeDTO true "Email and code"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired code"
// @Router /users/verify-reset-code [post]
func (c *UserController) VerifyResetCode(ctx *gin.Context) {
	var req dto.VerifyResetCodeDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	if err := c.userService.VerifyResetCode(ctx.Request.Context(), req.Email, req.Code); err != nil {
		respondError(ctx, err, "Failed to verify reset code")
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Reset code verified"})
}

// ResetPassword godoc
// @Summary Set a new password using a reset code
// @Tags Users
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordDTO true "Email, code and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired code"
// @Router /users/reset-password [post]
func (c *UserController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	if err := c.userService.ResetPassword(ctx.Request.Context(), req); err != nil {
		respondError(ctx, err, "Failed to reset password")
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Password updated"})
}

// Me godoc
// @Summary Current user profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponseDTO
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/me [get]
func (c *UserController) Me(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	user, err := c.userService.Me(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err, "Failed to retrieve user")
		return
	}
	ctx.JSON(http.StatusOK, user)
}

// Search godoc
// @Summary Find other users by name, username or email
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search text"
// @Success 200 {array} dto.UserSummaryDTO
// @Router /users/search [get]
func (c *UserController) Search(ctx *gin.Context) {
	userID, ok := callerID(ctx)
	if !ok {
		return
	}
	users, err := c.userService.Search(ctx.Request.Context(), userID, ctx.Query("q"))
	if err != nil {
		respondError(ctx, err, "Failed to search users")
		return
	}
	ctx.JSON(http.StatusOK, users)
}
