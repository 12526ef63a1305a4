package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"redline/internal/middleware"
	"redline/internal/models"
	"redline/internal/services"
	"redline/internal/utils"
)

type AuthHandler struct {
	users    services.UserService
	auth     services.AuthService
	otp      *services.OTPService
	sessions services.SessionService
	tokens   services.TokenService
}

func NewAuthHandler(
	users services.UserService,
	auth services.AuthService,
	otp *services.OTPService,
	sessions services.SessionService,
	tokens services.TokenService,
) *AuthHandler {
	return &AuthHandler{
		users:    users,
		auth:     auth,
		otp:      otp,
		sessions: sessions,
		tokens:   tokens,
	}
}

// @Summary      Register a new account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Registration data"
// @Success      200       {object}  map[string]interface{}
// @Failure      400       {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.users.Register(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		log.Printf("[auth][register] failed for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "userId": user.ID})
}

// @Summary      Password login
// @Description  Registered accounts must present the right password; unknown
// @Description  emails get a guest session.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Login data"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := h.users.GetByEmail(email)
	if err != nil {
		log.Printf("[auth][login] lookup failed for %q: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	if user != nil && !h.auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	sess, err := h.sessions.Create(email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	token, err := h.tokens.Issue(email, sess.ID)
	if err != nil {
		log.Printf("[auth][login] sign token failed for %q: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	log.Printf("[auth][login] success email=%q guest=%v", email, user == nil)
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(h.tokens.TTL() / time.Second),
		"user":         gin.H{"email": email},
	})
}

// @Summary      Send a one-time code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.SendOTPRequest  true  "Target email"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /auth/send-otp [post]
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req models.SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid email is required"})
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	expiresIn, err := h.otp.RequestCode(email)
	if err != nil {
		if errors.Is(err, services.ErrDelivery) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate OTP"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully", "expiresIn": expiresIn})
}

// @Summary      Verify a one-time code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request  body      models.VerifyOTPRequest  true  "Email and code"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string
// @Failure      429      {object}  map[string]string
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and otp are required"})
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))

	result, remaining, err := h.otp.VerifyCode(email, strings.TrimSpace(req.OTP))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCodeNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No OTP requested for this email"})
		case errors.Is(err, services.ErrTooManyAttempts):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, please request a new OTP"})
		case errors.Is(err, services.ErrCodeExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "OTP expired, please request a new one"})
		case errors.Is(err, services.ErrCodeInvalid):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "Invalid OTP",
				"attemptsRemaining": remaining,
			})
		default:
			log.Printf("[auth][verify-otp] failed for %s: %v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "OTP verified successfully",
		"token":     result.Token,
		"user":      gin.H{"email": result.Email},
		"sessionId": result.SessionID,
	})
}

// @Summary      Validate the bearer token
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/verify-token [get]
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	tokenStr, ok := middleware.ExtractBearer(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return
	}

	claims, err := h.tokens.Verify(tokenStr)
	if err != nil {
		if errors.Is(err, services.ErrTokenExpired) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Token expired"})
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
		return
	}

	// token alone is not enough: the session must still be alive
	if h.sessions.Get(claims.SessionID) == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
		return
	}
	h.sessions.Touch(claims.SessionID)

	c.JSON(http.StatusOK, gin.H{
		"valid":     true,
		"user":      gin.H{"email": claims.Email},
		"sessionId": claims.SessionID,
	})
}

// @Summary      Logout
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenStr, ok := middleware.ExtractBearer(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return
	}

	claims, err := h.tokens.Verify(tokenStr)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
		return
	}

	// Destroying the session is the revocation: the token may stay
	// cryptographically valid but no longer authorizes anything.
	h.sessions.Destroy(claims.SessionID)
	log.Printf("[auth][logout] session=%s", utils.ShortID(claims.SessionID))

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// @Summary      Refresh the bearer token
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	tokenStr, ok := middleware.ExtractBearer(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return
	}

	claims, err := h.tokens.Verify(tokenStr)
	if err != nil {
		if errors.Is(err, services.ErrTokenExpired) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Token expired"})
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid token"})
		return
	}

	if h.sessions.Get(claims.SessionID) == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session not found"})
		return
	}
	h.sessions.Touch(claims.SessionID)

	fresh, err := h.tokens.Issue(claims.Email, claims.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Token refreshed", "token": fresh})
}

// @Summary      Health check
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/health [get]
func (h *AuthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
