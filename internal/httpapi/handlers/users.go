package handlers

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/auth"
	"github.com/suPer8Hu/wholesale-platform/internal/models"
	"gorm.io/gorm"
)

const minPasswordLen = 8

type createUserReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// generate a 11 digit random username
func randomUsername11() (string, error) {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	out := make([]byte, 11)
	for i := 0; i < 11; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		out[i] = letters[n.Int64()]
	}
	return string(out), nil
}

func (h *Handler) Ping(c *gin.Context) {
	ok(c, gin.H{"pong": true})
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserReq
	if !bindJSON(c, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(req.Email); err != nil {
		fail(c, http.StatusBadRequest, 10002, "valid email required")
		return
	}
	if len(req.Password) < minPasswordLen {
		fail(c, http.StatusBadRequest, 10002, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		fail(c, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	// generate username to avoid conflict
	var username string
	for i := 0; i < 5; i++ {
		u, err := randomUsername11()
		if err != nil {
			fail(c, http.StatusInternalServerError, 50001, "failed to generate username")
			return
		}
		var cnt int64
		if err := h.DB.WithContext(c.Request.Context()).Model(&models.User{}).Where("username = ?", u).Count(&cnt).Error; err != nil {
			fail(c, http.StatusServiceUnavailable, 50301, "failed to check username")
			return
		}
		if cnt == 0 {
			username = u
			break
		}
	}
	if username == "" {
		fail(c, http.StatusInternalServerError, 50001, "failed to allocate username")
		return
	}

	user := models.User{
		Email:        req.Email,
		Username:     username,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         models.RoleBuyer,
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		fail(c, http.StatusConflict, 40901, "failed to create user (maybe email already exists)")
		return
	}

	token, err := auth.SignJWT(user.ID, string(user.Role), h.Cfg.JWTSecret, h.Cfg.TokenTTL)
	if err != nil {
		fail(c, http.StatusInternalServerError, 50001, "failed to sign token")
		return
	}

	ok(c, gin.H{
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Username,
		"token":    token,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if !bindJSON(c, &req) {
		return
	}
	var user models.User
	err := h.DB.WithContext(c.Request.Context()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !auth.CheckPassword(user.PasswordHash, req.Password)) {
		fail(c, http.StatusUnauthorized, 40101, "invalid email or password")
		return
	}
	if err != nil {
		fail(c, http.StatusServiceUnavailable, 50301, "db error")
		return
	}

	token, err := auth.SignJWT(user.ID, string(user.Role), h.Cfg.JWTSecret, h.Cfg.TokenTTL)
	if err != nil {
		fail(c, http.StatusInternalServerError, 50001, "failed to sign token")
		return
	}
	ok(c, gin.H{"token": token, "user": user})
}

func (h *Handler) currentUser(c *gin.Context) (*models.User, bool) {
	uid, found := mustUser(c)
	if !found {
		return nil, false
	}
	var user models.User
	if err := h.DB.WithContext(c.Request.Context()).First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusUnauthorized, 40101, "user no longer exists")
			return nil, false
		}
		fail(c, http.StatusServiceUnavailable, 50301, "db error")
		return nil, false
	}
	return &user, true
}

func (h *Handler) Me(c *gin.Context) {
	user, found := h.currentUser(c)
	if !found {
		return
	}
	ok(c, user)
}

func (h *Handler) GetUserByID(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var user models.User
	if err := h.DB.WithContext(c.Request.Context()).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, 40401, "user not found")
			return
		}
		fail(c, http.StatusServiceUnavailable, 50301, "db error")
		return
	}
	ok(c, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	})
}
