package routes

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/Yash-patil03/Area-Stay-point/models"
	"github.com/Yash-patil03/Area-Stay-point/storage"
	"github.com/Yash-patil03/Area-Stay-point/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "testsecret"

// setupTestDB points storage.DB at a fresh in-memory database for one test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.PG{}, &models.Booking{}, &models.Review{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	prev := storage.DB
	storage.DB = db
	t.Cleanup(func() { storage.DB = prev })
	return db
}

// setupTestRedis backs storage.Redis with miniredis for one test.
func setupTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	prev := storage.Redis
	storage.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { storage.Redis = prev })
	return mr
}

// buildTestApp wires every API party the way the server binary does, against
// whatever storage the test installed.
func buildTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", testSecret)
	os.Setenv("REFRESH_TOKEN_SECRET", testSecret+"-refresh")

	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(testSecret))
	verify := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	auth := app.Party("/api/auth")
	{
		auth.Post("/register", Register)
		auth.Post("/signup", Register)
		auth.Post("/login", Login)
		auth.Post("/signin", Login)
	}

	user := app.Party("/api/users", verify)
	{
		user.Get("/me", GetCurrentUser)
		user.Put("/me", UpdateCurrentUser)
		user.Get("/donors", GetDonors)
		user.Put("/sponsorship", UpdateSponsorship)
		user.Post("/become-donor", BecomeDonor)
	}

	pg := app.Party("/api/pgs")
	{
		pg.Get("/", GetPGs)
		pg.Get("/{id:uint}", GetPG)
		pg.Get("/my-pgs", verify, utils.OwnerOnlyMiddleware, GetMyPGs)
		pg.Post("/", verify, utils.OwnerOnlyMiddleware, CreatePG)
		pg.Put("/{id:uint}", verify, utils.OwnerOnlyMiddleware, UpdatePG)
		pg.Delete("/{id:uint}", verify, DeletePG)
		pg.Post("/payment/create-order", verify, CreatePaymentOrder)
	}

	booking := app.Party("/api/bookings", verify)
	{
		booking.Post("/{pgId:uint}", CreateBooking)
		booking.Get("/aid-requests", utils.DonorOnlyMiddleware, GetAidRequests)
		booking.Put("/{id:uint}/sponsor", utils.DonorOnlyMiddleware, SponsorBooking)
		booking.Put("/{id:uint}/status", UpdateBookingStatus)
		booking.Get("/my-bookings", GetMyBookings)
		booking.Get("/my-sponsorships", utils.DonorOnlyMiddleware, GetMySponsorships)
		booking.Get("/owner-bookings", utils.OwnerOnlyMiddleware, GetOwnerBookings)
		booking.Delete("/{id:uint}", DeleteBooking)
	}

	review := app.Party("/api/reviews")
	{
		review.Get("/{pgId:uint}", GetReviews)
		review.Post("/{pgId:uint}", verify, AddReview)
	}

	admin := app.Party("/api/admin", verify, utils.AdminOnlyMiddleware)
	{
		admin.Get("/stats", AdminStats)
		admin.Get("/users", AdminListUsers)
		admin.Put("/users/{id:uint}", AdminUpdateUser)
		admin.Delete("/users/{id:uint}", AdminDeleteUser)
		admin.Get("/donors", AdminListDonors)
		admin.Get("/pgs", AdminListPGs)
		admin.Post("/pgs", AdminCreatePG)
		admin.Put("/pgs/{id:uint}", AdminUpdatePG)
		admin.Delete("/pgs/{id:uint}", AdminDeletePG)
	}

	if err := app.Build(); err != nil {
		panic(err)
	}
	return app
}

// signTestToken returns a signed access token for the given identity.
func signTestToken(id uint, username string, roles ...string) string {
	signer := jwt.NewSigner(jwt.HS256, testSecret, 0)
	token, _ := signer.Sign(utils.AccessToken{ID: id, Username: username, Roles: roles})
	return string(token)
}

// createTestUser inserts a user with the given roles and returns it.
func createTestUser(t *testing.T, username string, roles ...string) *models.User {
	t.Helper()

	user := models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "irrelevant",
	}
	user.SetRoles(roles)
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return &user
}

// createTestPG inserts a listing owned by the given username.
func createTestPG(t *testing.T, name, owner string, price float64) *models.PG {
	t.Helper()

	pg := models.PG{
		Name:          name,
		Address:       "Test Lane, Pune",
		Price:         price,
		OwnerUsername: owner,
		Gender:        "Co-ed",
	}
	if err := storage.DB.Create(&pg).Error; err != nil {
		t.Fatalf("create pg %s: %v", name, err)
	}
	return &pg
}
