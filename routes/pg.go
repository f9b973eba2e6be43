package routes

import (
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/Yash-patil03/Area-Stay-point/models"
	"github.com/Yash-patil03/Area-Stay-point/storage"
	"github.com/Yash-patil03/Area-Stay-point/utils"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

// Public: anyone can browse listings
func GetPGs(ctx iris.Context) {
	var pgs []models.PG
	if err := storage.DB.Order("created_at DESC").Find(&pgs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(pgs)
}

func GetPG(ctx iris.Context) {
	id := ctx.Params().Get("id")

	pg := getPGByID(id, ctx)
	if pg == nil {
		return
	}
	ctx.JSON(pg)
}

// Owner only: listings of the authenticated owner
func GetMyPGs(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var pgs []models.PG
	if err := storage.DB.Where("owner_username = ?", claims.Username).Find(&pgs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(pgs)
}

// CreatePG accepts a multipart form with listing fields plus image files and
// an optional video. Stored file URLs are embedded in the listing record.
func CreatePG(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	price, priceErr := strconv.ParseFloat(ctx.FormValue("price"), 64)
	if priceErr != nil || price < 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "price must be a non-negative number", ctx)
		return
	}

	name := ctx.FormValue("name")
	address := ctx.FormValue("address")
	if name == "" || address == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "name and address are required", ctx)
		return
	}

	gender := ctx.FormValueDefault("gender", "Co-ed")

	pg := models.PG{
		Name:          name,
		Address:       address,
		Price:         price,
		Description:   ctx.FormValue("description"),
		Gender:        gender,
		OwnerUsername: claims.Username,
	}
	pg.SetImageURLs(saveUploadedImages(ctx))

	if videoURL, ok := saveUploadedVideo(ctx); ok {
		pg.VideoURL = videoURL
	}

	if err := storage.DB.Create(&pg).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(pg)
}

// UpdatePG replaces the mutable listing fields. Images and video are only
// overwritten when new files are uploaded.
func UpdatePG(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	pg := getPGByID(id, ctx)
	if pg == nil {
		return
	}
	if pg.OwnerUsername != claims.Username {
		utils.JSONError(ctx, iris.StatusForbidden, "forbidden", "not your listing")
		return
	}

	price, priceErr := strconv.ParseFloat(ctx.FormValue("price"), 64)
	if priceErr != nil || price < 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "price must be a non-negative number", ctx)
		return
	}

	pg.Name = ctx.FormValue("name")
	pg.Address = ctx.FormValue("address")
	pg.Price = price
	pg.Description = ctx.FormValue("description")
	if gender := ctx.FormValue("gender"); gender != "" {
		pg.Gender = gender
	}

	if images := saveUploadedImages(ctx); len(images) > 0 {
		pg.SetImageURLs(images)
	}
	if videoURL, ok := saveUploadedVideo(ctx); ok {
		pg.VideoURL = videoURL
	}

	if err := storage.DB.Save(pg).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(pg)
}

// DeletePG removes a listing. Owners can delete their own listings, admins
// any.
func DeletePG(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	pg := getPGByID(id, ctx)
	if pg == nil {
		return
	}
	if pg.OwnerUsername != claims.Username && !claims.HasRole(models.RoleAdmin) {
		utils.JSONError(ctx, iris.StatusForbidden, "forbidden", "not your listing")
		return
	}

	if err := deletePGCascade(pg.ID); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "PG deleted successfully"})
}

// deletePGCascade removes a listing together with its bookings and reviews
// in one transaction, so a failure leaves everything in place.
func deletePGCascade(pgID uint) error {
	return storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pg_id = ?", pgID).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pg_id = ?", pgID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.PG{}, pgID).Error
	})
}

// CreatePaymentOrder forwards the amount to the payment service and relays
// the order id back to the caller.
func CreatePaymentOrder(ctx iris.Context) {
	amount := ctx.URLParam("amount")
	if amount == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "amount is required", ctx)
		return
	}

	base := os.Getenv("PAYMENT_SERVICE_URL")
	if base == "" {
		base = "http://localhost:8081"
	}

	client := &http.Client{Timeout: 10 * time.Second}
	res, err := client.Post(base+"/api/payment/create-order?amount="+amount, "application/json", nil)
	if err != nil {
		utils.CreateError(iris.StatusInternalServerError, "Payment Error", "Error creating payment order: "+err.Error(), ctx)
		return
	}
	defer res.Body.Close()

	body, readErr := io.ReadAll(res.Body)
	if readErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(res.StatusCode)
	ctx.ContentType(res.Header.Get("Content-Type"))
	ctx.Write(body)
}

func getPGByID(id string, ctx iris.Context) *models.PG {
	var pg models.PG
	lookup := storage.DB.Where("id = ?", id).Limit(1).Find(&pg)
	if lookup.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if lookup.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "PG not found", ctx)
		return nil
	}
	return &pg
}

func saveUploadedImages(ctx iris.Context) []string {
	urls := []string{}
	_, files, err := ctx.FormFiles("images")
	if err != nil {
		return urls
	}
	for _, fh := range files {
		name, saveErr := storage.SaveUpload(fh)
		if saveErr != nil {
			continue
		}
		urls = append(urls, storage.UploadURL(name))
	}
	return urls
}

func saveUploadedVideo(ctx iris.Context) (string, bool) {
	_, fh, err := ctx.FormFile("video")
	if err != nil || fh == nil {
		return "", false
	}
	name, saveErr := storage.SaveUpload(fh)
	if saveErr != nil {
		return "", false
	}
	return storage.UploadURL(name), true
}
