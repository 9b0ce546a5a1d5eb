package auth

import (
	"blog-content-service/internal/api"
	"blog-content-service/internal/environment"
	"blog-content-service/internal/middlewares"
	"blog-content-service/internal/models"
	"github.com/gin-gonic/gin"
	"io"
	"net/http"
	"time"
)

// Api defines the set of authentication-related endpoints exposed by the system.
type Api interface {

	// Login issues a token for the admin credentials
	Login(c *gin.Context)

	// RefreshToken creates a new access token after validating the old one
	RefreshToken(c *gin.Context)

	// CreatePasswordHash creates a hashed password which can then be used in the configuration
	CreatePasswordHash(c *gin.Context)
}

// Controller wires environment dependencies with authentication service methods.
// It fulfills the Api interface and delegates business logic to AuthService.
type Controller struct {
	*environment.Env
	*AuthService
}

// ensure Controller implements Api
var _ Api = &Controller{}

func (ac *Controller) Login(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		ac.LogErrorf(nil, "Error reading login info: %v", err)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, api.NewErrorResponse("Error reading login info"))
		return
	}

	request := api.GenericRequest{}
	err = request.Load(body)
	if err != nil {
		ac.LogErrorf(nil, "Error loading request data: %v", err)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, api.NewErrorResponse("Error reading login info"))
		return
	}

	user := models.User{}
	err = request.DecodeDataTo(&user)
	if err != nil {
		ac.LogErrorf(nil, "Error loading user data: %v", err)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, api.NewErrorResponse("Error reading user info"))
		return
	}
	user.Prepare()
	err = user.Validate()
	if err != nil {
		ac.LogErrorf(nil, "Error validating user: %v", err)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, api.NewErrorResponsef("Error validating User: %v", err))
		return
	}

	err = ac.DoLogin(&user)
	if err != nil {
		ac.LogWarnf(nil, "login of %q failed", user.Username)
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.NewErrorResponse("Login not successful"))
		return
	}

	//issue token
	token, _, err := middlewares.GenerateToken([]byte(middlewares.SigningKey), user.Username, []string{middlewares.RoleAdmin})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, api.NewErrorResponse("Error creating JWT"))
		return
	}
	c.JSON(http.StatusOK, api.NewGenericResponse(api.Success, "", token))
}

func (ac *Controller) RefreshToken(c *gin.Context) {
	claims, err := middlewares.Authorize(c.Request.Header.Get("Authorization"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, api.NewErrorResponsef("Invalid authorization token: %v", err))
		return
	}

	tokenString, _, err := middlewares.SignClaims([]byte(middlewares.SigningKey), claims, time.Now().Add(middlewares.TokenLifetime))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, api.NewErrorResponse("Error refreshing JWT"))
		return
	}
	c.JSON(http.StatusOK, api.NewGenericResponse(api.Success, "", tokenString))
}

func (ac *Controller) CreatePasswordHash(c *gin.Context) {
	password := c.Param("pw")
	hashPw, hashErr := models.Hash(password)
	if hashErr != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.NewErrorResponsef("an error occurred"))
		return
	}

	c.JSON(http.StatusOK, api.NewGenericResponse(api.Success, "your encrypted (bcrypt) password", string(hashPw)))
}
