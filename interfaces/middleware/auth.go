package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"scriptgo/domain/dto"
	"scriptgo/domain/model"
	"scriptgo/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
)

// Auth verifies an HS256 bearer token and stores the caller on the gin context.
func Auth(secretKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		res := dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"}

		authorization := ctx.Request.Header.Get("Authorization")
		raw, found := strings.CutPrefix(authorization, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" || secretKey == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		userClaims, token, err := getClaim(strings.TrimSpace(raw), secretKey)
		if err != nil || token == nil || !token.Valid {
			res.ResponseMessage = abortMessage(err)
			logger.GetLogger().WithField("path", ctx.FullPath()).WithField("reason", res.ResponseMessage).Warn("Rejected token")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		userID := userClaims.Subject
		if userID == "" {
			userID = userClaims.Issuer
		}
		if userID == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		ctx.Set(ContextUserID, userID)
		ctx.Set(ContextUserEmail, userClaims.Email)
		ctx.Next()
	}
}

func abortMessage(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		switch {
		case ve.Errors&jwt.ValidationErrorMalformed != 0:
			return "That's not even a token"
		case ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0:
			// Token is either expired or not active yet
			return "Timing is everything"
		default:
			return fmt.Sprintf("Couldn't handle this token:%v", err)
		}
	}
	return "Unauthorized"
}

func getClaim(raw, secretKey string) (model.UserClaims, *jwt.Token, error) {
	var userClaims model.UserClaims
	token, err := jwt.ParseWithClaims(
		raw,
		&userClaims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return []byte(secretKey), nil
		},
	)
	return userClaims, token, err
}

// PrincipalFrom returns the caller stored by Auth. It is zero when Auth did not run.
func PrincipalFrom(ctx *gin.Context) model.Principal {
	return model.Principal{
		UserID: ctx.GetString(ContextUserID),
		Email:  ctx.GetString(ContextUserEmail),
	}
}
