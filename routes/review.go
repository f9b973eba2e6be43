package routes

import (
	"github.com/Yash-patil03/Area-Stay-point/models"
	"github.com/Yash-patil03/Area-Stay-point/storage"
	"github.com/Yash-patil03/Area-Stay-point/utils"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// GetReviews lists reviews for a listing, newest first. Public.
func GetReviews(ctx iris.Context) {
	pgID := ctx.Params().Get("pgId")

	var reviews []models.Review
	res := storage.DB.Where("pg_id = ?", pgID).Order("created_at DESC").Find(&reviews)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(reviews)
}

type AddReviewInput struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

// AddReview attaches a rating and comment to a listing under the caller's
// username.
func AddReview(ctx iris.Context) {
	pgID := ctx.Params().Get("pgId")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input AddReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	pg := getPGByID(pgID, ctx)
	if pg == nil {
		return
	}

	review := models.Review{
		PGID:     pg.ID,
		Username: claims.Username,
		Rating:   input.Rating,
		Comment:  input.Comment,
	}
	if err := storage.DB.Create(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(review)
}
