package routes

import (
	"github.com/Yash-patil03/Area-Stay-point/models"
	"github.com/Yash-patil03/Area-Stay-point/storage"
	"github.com/Yash-patil03/Area-Stay-point/utils"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// GetDonors lists every user holding ROLE_DONOR. The role set lives in a
// jsonb column, so membership is checked over the loaded rows.
func GetDonors(ctx iris.Context) {
	var users []models.User
	if err := storage.DB.Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	donors := make([]models.User, 0)
	for _, u := range users {
		if u.HasRole(models.RoleDonor) {
			donors = append(donors, u)
		}
	}
	ctx.JSON(donors)
}

func GetCurrentUser(ctx iris.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}
	ctx.JSON(user)
}

type UpdateUserInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// UpdateCurrentUser applies a partial update of the caller's profile.
// Password changes are handled elsewhere.
func UpdateCurrentUser(ctx iris.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}

	var input UpdateUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.PhoneNumber != "" {
		user.PhoneNumber = input.PhoneNumber
	}

	if err := storage.DB.Save(user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(user)
}

type SponsorshipInput struct {
	Percentage *float64 `json:"percentage" validate:"required,gte=0,lte=100"`
}

// UpdateSponsorship sets the caller's sponsorship percentage.
func UpdateSponsorship(ctx iris.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}

	var input SponsorshipInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	user.SponsorshipPercentage = input.Percentage
	if err := storage.DB.Save(user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(user)
}

// BecomeDonor adds ROLE_DONOR to the caller, defaulting the sponsorship
// percentage to 10 when unset. Idempotent for existing donors.
func BecomeDonor(ctx iris.Context) {
	user := currentUser(ctx)
	if user == nil {
		return
	}

	if user.HasRole(models.RoleDonor) {
		ctx.JSON(user)
		return
	}

	user.AddRole(models.RoleDonor)
	if user.SponsorshipPercentage == nil {
		defaultPercentage := 10.0
		user.SponsorshipPercentage = &defaultPercentage
	}

	if err := storage.DB.Save(user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(user)
}

// currentUser loads the authenticated user, writing the error response when
// the lookup fails.
func currentUser(ctx iris.Context) *models.User {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var user models.User
	lookup := storage.DB.Where("username = ?", claims.Username).Limit(1).Find(&user)
	if lookup.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if lookup.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "User not found", ctx)
		return nil
	}
	return &user
}
