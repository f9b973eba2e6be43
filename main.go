package main

import (
	"log"
	"os"

	"github.com/Yash-patil03/Area-Stay-point/routes"
	"github.com/Yash-patil03/Area-Stay-point/storage"
	"github.com/Yash-patil03/Area-Stay-point/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.SeedListings()
	storage.InitializeRedis()
	storage.InitializeUploads()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the web client (http://localhost:3000)
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/register", routes.Register)
		auth.Post("/signup", routes.Register)
		auth.Post("/login", routes.Login)
		auth.Post("/signin", routes.Login)
	}

	app.Post("/api/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)

	user := app.Party("/api/users", accessTokenVerifierMiddleware)
	{
		user.Get("/me", routes.GetCurrentUser)
		user.Put("/me", routes.UpdateCurrentUser)
		user.Get("/donors", routes.GetDonors)
		user.Put("/sponsorship", routes.UpdateSponsorship)
		user.Post("/become-donor", routes.BecomeDonor)
	}

	pg := app.Party("/api/pgs")
	{
		pg.Get("/", routes.GetPGs)
		pg.Get("/{id:uint}", routes.GetPG)
		pg.Get("/my-pgs", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.GetMyPGs)
		pg.Post("/", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.CreatePG)
		pg.Put("/{id:uint}", accessTokenVerifierMiddleware, utils.OwnerOnlyMiddleware, routes.UpdatePG)
		pg.Delete("/{id:uint}", accessTokenVerifierMiddleware, routes.DeletePG)
		pg.Post("/payment/create-order", accessTokenVerifierMiddleware, routes.CreatePaymentOrder)
	}

	booking := app.Party("/api/bookings", accessTokenVerifierMiddleware)
	{
		booking.Post("/{pgId:uint}", routes.CreateBooking)
		booking.Get("/aid-requests", utils.DonorOnlyMiddleware, routes.GetAidRequests)
		booking.Put("/{id:uint}/sponsor", utils.DonorOnlyMiddleware, routes.SponsorBooking)
		booking.Put("/{id:uint}/status", routes.UpdateBookingStatus)
		booking.Get("/my-bookings", routes.GetMyBookings)
		booking.Get("/my-sponsorships", utils.DonorOnlyMiddleware, routes.GetMySponsorships)
		booking.Get("/owner-bookings", utils.OwnerOnlyMiddleware, routes.GetOwnerBookings)
		booking.Delete("/{id:uint}", routes.DeleteBooking)
	}

	review := app.Party("/api/reviews")
	{
		review.Get("/{pgId:uint}", routes.GetReviews)
		review.Post("/{pgId:uint}", accessTokenVerifierMiddleware, routes.AddReview)
	}

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/users", routes.AdminListUsers)
		admin.Put("/users/{id:uint}", routes.AdminUpdateUser)
		admin.Delete("/users/{id:uint}", routes.AdminDeleteUser)
		admin.Get("/donors", routes.AdminListDonors)
		admin.Get("/pgs", routes.AdminListPGs)
		admin.Post("/pgs", routes.AdminCreatePG)
		admin.Put("/pgs/{id:uint}", routes.AdminUpdatePG)
		admin.Delete("/pgs/{id:uint}", routes.AdminDeletePG)
	}

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	app.HandleDir("/uploads", iris.Dir(storage.UploadDir()))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("Area Stay Point API listening on :" + port)
	app.Listen(":" + port)
}
