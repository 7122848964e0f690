package stubapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ehmtravel/backoffice/internal"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (srv *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		srv.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		srv.writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := srv.store.userByUsername(req.Username)
	if err != nil {
		srv.writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if !user.Active {
		srv.writeError(w, http.StatusUnauthorized, "user account is inactive")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		srv.writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := srv.issueToken(user.Username)
	if err != nil {
		srv.logger.Error("failed to issue token", "error", err)
		srv.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	srv.writeData(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"username":   user.Username,
			"fullName":   user.FullName,
			"email":      user.Email,
			"branch":     user.Branch,
			"department": user.Department,
			"role": map[string]any{
				"name":        user.Role,
				"permissions": permissionList(user.Permissions),
			},
		},
		"token": token,
	})
}

func (srv *Server) issueToken(username string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(srv.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(srv.jwtSecret)
}

// requireAuth guards the entity routes with bearer-token validation.
func (srv *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			srv.writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return srv.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			srv.writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := internal.ContextWithUsername(r.Context(), claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
