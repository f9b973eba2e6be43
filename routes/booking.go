package routes

import (
	"log"
	"strings"
	"time"

	"github.com/Yash-patil03/Area-Stay-point/models"
	"github.com/Yash-patil03/Area-Stay-point/services"
	"github.com/Yash-patil03/Area-Stay-point/storage"
	"github.com/Yash-patil03/Area-Stay-point/utils"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// BookingMailer is the confirmation-mail collaborator. Delivery is
// best-effort; the booking path logs failures and never propagates them.
type BookingMailer interface {
	SendBookingConfirmation(booking *models.Booking, user *models.User) error
}

var bookingMailer BookingMailer = services.NewEmailService()

// CreateBooking books a listing for the authenticated user. With requestAid
// the booking starts in REQUESTING_AID instead of PENDING; a donorId is
// attached only when that donor has a positive sponsorship percentage.
func CreateBooking(ctx iris.Context) {
	pgID := ctx.Params().Get("pgId")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	pg := getPGByID(pgID, ctx)
	if pg == nil {
		return
	}

	booking := models.Booking{
		PGID:        pg.ID,
		Username:    claims.Username,
		BookingDate: time.Now(),
		Status:      models.BookingStatusPending,
	}
	if requestAid, _ := ctx.URLParamBool("requestAid"); requestAid {
		booking.Status = models.BookingStatusRequestingAid
	}

	if donorID := ctx.URLParam("donorId"); donorID != "" {
		var donor models.User
		lookup := storage.DB.Where("id = ?", donorID).Limit(1).Find(&donor)
		if lookup.Error == nil && lookup.RowsAffected > 0 &&
			donor.SponsorshipPercentage != nil && *donor.SponsorshipPercentage > 0 {
			booking.AttachDonor(&donor, pg.Price, *donor.SponsorshipPercentage)
		}
	}

	if err := storage.DB.Create(&booking).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	storage.DB.Preload("PG").Preload("Donor").First(&booking, booking.ID)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(booking)
}

// GetAidRequests lists bookings waiting for a sponsor.
func GetAidRequests(ctx iris.Context) {
	var bookings []models.Booking
	res := storage.DB.Preload("PG").
		Where("status = ?", models.BookingStatusRequestingAid).
		Order("created_at DESC").
		Find(&bookings)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(bookings)
}

type SponsorBookingInput struct {
	Percentage *float64 `json:"percentage" validate:"required,gt=0,lte=100"`
}

// SponsorBooking lets the authenticated donor take over part of the rent.
// The contribution is recomputed from the listing price and the status is
// forced to APPROVED_AID; the guest pays the remainder.
func SponsorBooking(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input SponsorBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	booking := getBookingByID(id, ctx)
	if booking == nil {
		return
	}

	var donor models.User
	lookup := storage.DB.Where("username = ?", claims.Username).Limit(1).Find(&donor)
	if lookup.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if lookup.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Donor not found", ctx)
		return
	}

	booking.AttachDonor(&donor, booking.PG.Price, *input.Percentage)
	booking.Status = models.BookingStatusApprovedAid

	if err := storage.DB.Save(booking).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(booking)
}

type UpdateBookingStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// UpdateBookingStatus moves a booking through the status table. Reaching
// CONFIRMED kicks off exactly one asynchronous confirmation email; a failed
// send is logged and never rolls back the update.
func UpdateBookingStatus(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var input UpdateBookingStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	status := strings.ToUpper(input.Status)
	if !models.ValidBookingStatus(status) {
		utils.CreateError(iris.StatusUnprocessableEntity, "Validation Error",
			"unknown booking status: "+input.Status, ctx)
		return
	}

	booking := getBookingByID(id, ctx)
	if booking == nil {
		return
	}

	if !models.CanTransitionBooking(booking.Status, status) {
		utils.CreateError(iris.StatusUnprocessableEntity, "Validation Error",
			"cannot move booking from "+booking.Status+" to "+status, ctx)
		return
	}

	booking.Status = status
	if err := storage.DB.Save(booking).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if status == models.BookingStatusConfirmed {
		notifyBookingConfirmed(booking)
	}

	ctx.JSON(booking)
}

// notifyBookingConfirmed fires the confirmation mail without blocking the
// request.
func notifyBookingConfirmed(booking *models.Booking) {
	var user models.User
	lookup := storage.DB.Where("username = ?", booking.Username).Limit(1).Find(&user)
	if lookup.Error != nil || lookup.RowsAffected == 0 {
		log.Printf("confirmation email skipped: user %s not found", booking.Username)
		return
	}

	b := *booking
	go func() {
		if err := bookingMailer.SendBookingConfirmation(&b, &user); err != nil {
			log.Println("Error sending confirmation email:", err)
		}
	}()
}

// GetMyBookings lists the authenticated user's bookings.
func GetMyBookings(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var bookings []models.Booking
	res := storage.DB.Preload("PG").Preload("Donor").
		Where("username = ?", claims.Username).
		Order("created_at DESC").
		Find(&bookings)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(bookings)
}

// GetMySponsorships lists bookings the authenticated donor sponsors.
func GetMySponsorships(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var bookings []models.Booking
	res := storage.DB.Preload("PG").Preload("Donor").
		Joins("JOIN users ON users.id = bookings.donor_id").
		Where("users.username = ?", claims.Username).
		Order("bookings.created_at DESC").
		Find(&bookings)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(bookings)
}

// GetOwnerBookings returns the union of bookings across every listing owned
// by the caller, without duplicates. Empty slice for an owner with no
// listings.
func GetOwnerBookings(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var pgs []models.PG
	if err := storage.DB.Where("owner_username = ?", claims.Username).Find(&pgs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	bookings := make([]models.Booking, 0)
	if len(pgs) == 0 {
		ctx.JSON(bookings)
		return
	}

	ids := make([]uint, 0, len(pgs))
	for _, pg := range pgs {
		ids = append(ids, pg.ID)
	}

	res := storage.DB.Preload("PG").Preload("Donor").
		Where("pg_id IN ?", ids).
		Order("created_at DESC").
		Find(&bookings)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(bookings)
}

// DeleteBooking cancels a booking by removing its row. Unknown ids report
// 404 rather than deleting silently.
func DeleteBooking(ctx iris.Context) {
	id := ctx.Params().Get("id")

	booking := getBookingByID(id, ctx)
	if booking == nil {
		return
	}

	if err := storage.DB.Delete(&models.Booking{}, booking.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"message": "Booking cancelled successfully"})
}

func getBookingByID(id string, ctx iris.Context) *models.Booking {
	var booking models.Booking
	lookup := storage.DB.Preload("PG").Preload("Donor").Where("bookings.id = ?", id).Limit(1).Find(&booking)
	if lookup.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if lookup.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "Booking not found", ctx)
		return nil
	}
	return &booking
}
