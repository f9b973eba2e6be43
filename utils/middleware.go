package utils

import (
	"github.com/Yash-patil03/Area-Stay-point/models"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// UsernameFromTokenMiddleware exposes the authenticated username to
// downstream handlers via context values.
func UsernameFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("username", claims.Username)
	ctx.Values().Set("userID", claims.ID)
	ctx.Next()
}

// RoleMiddleware builds a guard that requires the given role tag.
func RoleMiddleware(role string) iris.Handler {
	return func(ctx iris.Context) {
		claims := jwt.Get(ctx).(*AccessToken)
		if !claims.HasRole(role) {
			ctx.StopWithJSON(iris.StatusForbidden, iris.Map{
				"error":   "forbidden",
				"message": role + " access required",
			})
			return
		}
		ctx.Values().Set("username", claims.Username)
		ctx.Values().Set("userID", claims.ID)
		ctx.Next()
	}
}

func AdminOnlyMiddleware(ctx iris.Context) { RoleMiddleware(models.RoleAdmin)(ctx) }
func OwnerOnlyMiddleware(ctx iris.Context) { RoleMiddleware(models.RoleOwner)(ctx) }
func DonorOnlyMiddleware(ctx iris.Context) { RoleMiddleware(models.RoleDonor)(ctx) }
