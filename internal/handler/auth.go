package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dts-gxu/JobTracker/internal/config"
	"github.com/dts-gxu/JobTracker/internal/middleware"
	"github.com/dts-gxu/JobTracker/internal/store"
	"github.com/dts-gxu/JobTracker/internal/util"
)

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	users        *store.UserStore
	secret       string
	tokenTTL     time.Duration
	rememberTTL  time.Duration
	cookieSecure bool
	logger       *zap.Logger
}

func NewAuthHandler(users *store.UserStore, cfg config.SessionConfig, logger *zap.Logger) *AuthHandler {
	ttl := time.Duration(cfg.ExpireHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	remember := time.Duration(cfg.RememberHours) * time.Hour
	if remember <= 0 {
		remember = 14 * 24 * time.Hour
	}
	return &AuthHandler{
		users:        users,
		secret:       cfg.Secret,
		tokenTTL:     ttl,
		rememberTTL:  remember,
		cookieSecure: cfg.CookieSecure,
		logger:       logger,
	}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{"Form": formValues{}})
}

func (h *AuthHandler) Register(c *gin.Context) {
	in := store.RegisterInput{
		Username:       strings.TrimSpace(c.PostForm("username")),
		Email:          strings.TrimSpace(c.PostForm("email")),
		Password:       strings.TrimSpace(c.PostForm("password")),
		RealName:       strings.TrimSpace(c.PostForm("real_name")),
		Phone:          strings.TrimSpace(c.PostForm("phone")),
		TargetPosition: strings.TrimSpace(c.PostForm("target_position")),
		Major:          strings.TrimSpace(c.PostForm("major")),
		School:         strings.TrimSpace(c.PostForm("school")),
	}
	if v := strings.TrimSpace(c.PostForm("graduation_year")); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			in.GraduationYear = &year
		}
	}
	confirm := strings.TrimSpace(c.PostForm("confirm_password"))

	echo := formValues{
		"Username":       in.Username,
		"Email":          in.Email,
		"RealName":       in.RealName,
		"Phone":          in.Phone,
		"TargetPosition": in.TargetPosition,
		"GraduationYear": strings.TrimSpace(c.PostForm("graduation_year")),
		"Major":          in.Major,
		"School":         in.School,
	}
	redisplay := func(msg string) {
		render(c, http.StatusOK, "register.html",
			flashNow(gin.H{"Form": echo}, "error", msg))
	}

	if in.Username == "" || in.Email == "" || in.Password == "" {
		redisplay("Username, email and password are all required")
		return
	}
	if in.Password != confirm {
		redisplay("The two passwords do not match")
		return
	}

	_, err := h.users.Register(in)
	switch {
	case err == nil:
		util.SetFlash(c, "success", "Registration complete, please log in")
		c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, store.ErrDuplicateUsername):
		redisplay("Username already taken, please choose another")
	case errors.Is(err, store.ErrDuplicateEmail):
		redisplay("Email already registered, please use another")
	default:
		var verr *store.ValidationError
		if errors.As(err, &verr) {
			redisplay(verr.Message)
			return
		}
		h.logger.Error("register failed", zap.Error(err), zap.String("username", in.Username))
		redisplay("Registration failed, please try again")
	}
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	// already signed in: straight to the listing
	if h.sessionUserID(c) != 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{"Username": ""})
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := strings.TrimSpace(c.PostForm("password"))

	if username == "" || password == "" {
		render(c, http.StatusOK, "login.html",
			flashNow(gin.H{"Username": username}, "error", "Please enter username and password"))
		return
	}

	user, err := h.users.Authenticate(username, password)
	if err != nil {
		if !errors.Is(err, store.ErrInvalidCredentials) {
			h.logger.Error("login lookup failed", zap.Error(err))
		}
		// one generic message for both failure modes
		render(c, http.StatusOK, "login.html",
			flashNow(gin.H{"Username": username}, "error", "Invalid username or password"))
		return
	}

	if err := h.users.TouchLastLogin(user); err != nil {
		h.logger.Warn("touch last login failed", zap.Error(err), zap.Uint("user_id", user.ID))
	}

	ttl := h.tokenTTL
	if c.PostForm("remember_me") != "" {
		ttl = h.rememberTTL
	}
	token, err := util.GenerateToken(h.secret, user.ID, ttl)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		render(c, http.StatusOK, "login.html",
			flashNow(gin.H{"Username": username}, "error", "Login failed, please try again"))
		return
	}

	c.SetCookie(middleware.SessionCookie, token, int(ttl.Seconds()), "/", "", h.cookieSecure, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	c.Redirect(http.StatusFound, "/login")
}

// sessionUserID reports the user id of a valid session cookie, or zero.
func (h *AuthHandler) sessionUserID(c *gin.Context) uint {
	tokenStr, err := c.Cookie(middleware.SessionCookie)
	if err != nil || tokenStr == "" {
		return 0
	}
	claims, err := util.ParseToken(h.secret, tokenStr)
	if err != nil {
		return 0
	}
	return claims.UserID
}
