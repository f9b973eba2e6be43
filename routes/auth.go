package routes

import (
	"strings"

	"github.com/Yash-patil03/Area-Stay-point/models"
	"github.com/Yash-patil03/Area-Stay-point/storage"
	"github.com/Yash-patil03/Area-Stay-point/utils"
	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,max=256"`
	Email    string `json:"email" validate:"required,max=256,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	Role     string `json:"role"` // owner, donor or user; case-insensitive
}

type LoginInput struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

func Register(ctx iris.Context) {
	var input RegisterInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	taken, takenErr := usernameTaken(input.Username)
	if takenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if taken {
		utils.CreateUsernameOrEmailTaken("Username is already taken.", ctx)
		return
	}

	taken, takenErr = emailTaken(input.Email)
	if takenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if taken {
		utils.CreateUsernameOrEmailTaken("Email is already registered.", ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(input.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	newUser := models.User{
		Username: input.Username,
		Email:    strings.ToLower(input.Email),
		Password: hashedPassword,
	}
	newUser.SetRoles([]string{registrationRole(input.Role)})

	if err := storage.DB.Create(&newUser).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"message": "User registered successfully."})
}

func Login(ctx iris.Context) {
	var input LoginInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	errorMsg := "Invalid username or password."

	var user models.User
	lookup := storage.DB.
		Where("username = ? OR email = ?", input.UsernameOrEmail, strings.ToLower(input.UsernameOrEmail)).
		Limit(1).
		Find(&user)
	if lookup.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if lookup.RowsAffected == 0 {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	tokenPair, tokenErr := utils.CreateTokenPair(user.ID)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	role := models.RoleUser
	if roles := user.RoleSet(); len(roles) > 0 {
		role = roles[0]
	}

	ctx.JSON(iris.Map{
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
		"role":         role,
	})
}

// registrationRole picks exactly one role tag from the caller-supplied
// string, defaulting to ROLE_USER for anything unrecognized.
func registrationRole(role string) string {
	switch strings.ToLower(role) {
	case "owner":
		return models.RoleOwner
	case "donor":
		return models.RoleDonor
	default:
		return models.RoleUser
	}
}

func usernameTaken(username string) (bool, error) {
	var count int64
	err := storage.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func emailTaken(email string) (bool, error) {
	var count int64
	err := storage.DB.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count).Error
	return count > 0, err
}

func hashAndSaltPassword(password string) (hashedPassword string, err error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
