package routes

import (
	"github.com/Yash-patil03/Area-Stay-point/models"
	"github.com/Yash-patil03/Area-Stay-point/storage"
	"github.com/Yash-patil03/Area-Stay-point/utils"
	"github.com/kataras/iris/v12"
)

// AdminStats - GET /admin/stats. Aggregates the platform counters the
// dashboard shows: totals per entity, donors/owners split, and how many
// distinct users ever booked.
func AdminStats(ctx iris.Context) {
	var users []models.User
	if err := storage.DB.Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var totalDonors, totalOwners int64
	for i := range users {
		if users[i].HasRole(models.RoleDonor) {
			totalDonors++
		}
		if users[i].HasRole(models.RoleOwner) {
			totalOwners++
		}
	}

	var totalPGs, totalBookings, usersWithBookings int64
	storage.DB.Model(&models.PG{}).Count(&totalPGs)
	storage.DB.Model(&models.Booking{}).Count(&totalBookings)
	storage.DB.Model(&models.Booking{}).Distinct("username").Count(&usersWithBookings)

	ctx.JSON(iris.Map{
		"totalUsers":        int64(len(users)),
		"totalDonors":       totalDonors,
		"totalOwners":       totalOwners,
		"totalPGs":          totalPGs,
		"totalBookings":     totalBookings,
		"usersWithBookings": usersWithBookings,
	})
}

// AdminListUsers - GET /admin/users?page=&per_page=
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.User{})
	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONPage(ctx, users, page, perPage, total)
}

// AdminListDonors - GET /admin/donors
func AdminListDonors(ctx iris.Context) {
	GetDonors(ctx)
}

type AdminUpdateUserInput struct {
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phoneNumber"`
	Roles       []string `json:"roles" validate:"omitempty,dive,oneof=ROLE_USER ROLE_OWNER ROLE_DONOR ROLE_ADMIN"`
}

// AdminUpdateUser - PUT /admin/users/:id
func AdminUpdateUser(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var input AdminUpdateUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	lookup := storage.DB.Where("id = ?", id).Limit(1).Find(&user)
	if lookup.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if lookup.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
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
	if input.Roles != nil {
		user.SetRoles(input.Roles)
	}

	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(user)
}

// AdminDeleteUser - DELETE /admin/users/:id
func AdminDeleteUser(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var user models.User
	lookup := storage.DB.Where("id = ?", id).Limit(1).Find(&user)
	if lookup.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if lookup.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Delete(&models.User{}, user.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"message": "User deleted successfully"})
}

// AdminListPGs - GET /admin/pgs?page=&per_page=
func AdminListPGs(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	var total int64
	storage.DB.Model(&models.PG{}).Count(&total)

	var pgs []models.PG
	res := storage.DB.Preload("Reviews").Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&pgs)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONPage(ctx, pgs, page, perPage, total)
}

type AdminPGInput struct {
	Name          string   `json:"name" validate:"required"`
	Address       string   `json:"address" validate:"required"`
	Price         *float64 `json:"price" validate:"required,gte=0"`
	Description   string   `json:"description"`
	Gender        string   `json:"gender"`
	OwnerUsername string   `json:"ownerUsername" validate:"required"`
	ImageURLs     []string `json:"imageUrls"`
	VideoURL      string   `json:"videoUrl"`
}

// AdminCreatePG - POST /admin/pgs. Admins register listings on behalf of an
// owner with a JSON body instead of the multipart upload flow.
func AdminCreatePG(ctx iris.Context) {
	var input AdminPGInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	gender := input.Gender
	if gender == "" {
		gender = "Co-ed"
	}

	pg := models.PG{
		Name:          input.Name,
		Address:       input.Address,
		Price:         *input.Price,
		Description:   input.Description,
		Gender:        gender,
		OwnerUsername: input.OwnerUsername,
		VideoURL:      input.VideoURL,
	}
	pg.SetImageURLs(input.ImageURLs)

	if err := storage.DB.Create(&pg).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(pg)
}

// AdminUpdatePG - PUT /admin/pgs/:id
func AdminUpdatePG(ctx iris.Context) {
	id := ctx.Params().Get("id")

	pg := getPGByID(id, ctx)
	if pg == nil {
		return
	}

	var input AdminPGInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	pg.Name = input.Name
	pg.Address = input.Address
	pg.Price = *input.Price
	pg.Description = input.Description
	pg.OwnerUsername = input.OwnerUsername
	pg.VideoURL = input.VideoURL
	if input.Gender != "" {
		pg.Gender = input.Gender
	}
	if input.ImageURLs != nil {
		pg.SetImageURLs(input.ImageURLs)
	}

	if err := storage.DB.Save(pg).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(pg)
}

// AdminDeletePG - DELETE /admin/pgs/:id. Same cascade as the owner path.
func AdminDeletePG(ctx iris.Context) {
	id := ctx.Params().Get("id")

	pg := getPGByID(id, ctx)
	if pg == nil {
		return
	}

	if err := deletePGCascade(pg.ID); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"message": "PG deleted successfully"})
}
