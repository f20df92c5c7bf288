package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/model"
	"github.com/ferdian3456/envisiontech/internal/observability"
	"github.com/ferdian3456/envisiontech/internal/util"

	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(constant.EMAIL_PATTERN)

type UserUsecase struct {
	UserStore  UserStore
	TokenStore TokenStore
	Log        *zap.Logger
	Config     *koanf.Koanf
}

func NewUserUsecase(userStore UserStore, tokenStore TokenStore, zap *zap.Logger, koanf *koanf.Koanf) *UserUsecase {
	return &UserUsecase{
		UserStore:  userStore,
		TokenStore: tokenStore,
		Log:        zap,
		Config:     koanf,
	}
}

func (usecase *UserUsecase) Register(ctx context.Context, payload model.UserRegisterRequest) (model.TokenResponse, error) {
	token := model.TokenResponse{}

	payload.Username = strings.TrimSpace(payload.Username)
	payload.Email = strings.TrimSpace(payload.Email)
	payload.FirstName = strings.TrimSpace(payload.FirstName)
	payload.LastName = strings.TrimSpace(payload.LastName)

	err := validateRegistration(payload)
	if err != nil {
		return token, err
	}

	exists, err := usecase.UserStore.CheckUsernameExists(ctx, payload.Username)
	if err != nil {
		return token, err
	}

	if exists == 1 {
		return token, model.UsernameConflict()
	}

	exists, err = usecase.UserStore.CheckEmailExists(ctx, payload.Email)
	if err != nil {
		return token, err
	}

	if exists == 1 {
		return token, model.EmailConflict()
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return token, err
	}

	now := time.Now().UTC()
	user := model.User{
		Username:       payload.Username,
		Password:       string(hashedPassword),
		Email:          payload.Email,
		FirstName:      payload.FirstName,
		LastName:       payload.LastName,
		Grade:          payload.Grade,
		Courses:        payload.Courses,
		CreateDatetime: now,
		UpdateDatetime: now,
	}

	userId, err := usecase.UserStore.CreateUser(ctx, user)
	if err != nil {
		return token, err
	}

	observability.WithContext(ctx, usecase.Log).Info("user registered", zap.Int64("userId", userId))

	return usecase.issueToken(ctx, userId)
}

func (usecase *UserUsecase) Login(ctx context.Context, payload model.UserLoginRequest) (model.TokenResponse, error) {
	token := model.TokenResponse{}

	if payload.Username == "" {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Username is required to not be empty",
			Param:   "username",
		}
	}

	if payload.Password == "" {
		return token, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password is required to not be empty",
			Param:   "password",
		}
	}

	userId, passwordHash, err := usecase.UserStore.GetUserAuth(ctx, strings.TrimSpace(payload.Username))
	if err != nil {
		return token, err
	}

	invalidCredentials := &model.ValidationError{
		Code:    constant.ERR_UNAUTHORIZED_ERROR,
		Message: "Invalid username or password",
		Param:   "username",
	}

	if userId == 0 {
		return token, invalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(payload.Password))
	if err != nil {
		return token, invalidCredentials
	}

	return usecase.issueToken(ctx, userId)
}

// Authenticate resolves a bearer header to the user and token id it belongs to. Tokens
// that verify but whose session was removed are rejected.
func (usecase *UserUsecase) Authenticate(ctx context.Context, authHeader string) (int64, string, error) {
	claims, err := util.ValidateAccessToken(authHeader, usecase.Config.String("JWT_SECRET_KEY"))
	if err != nil {
		return 0, "", err
	}

	userId, err := usecase.TokenStore.GetAccessToken(ctx, claims.ID)
	if err != nil {
		return 0, "", err
	}

	if userId == 0 || userId != claims.UserId {
		return 0, "", &model.ValidationError{
			Code:    constant.ERR_UNAUTHORIZED_ERROR,
			Message: "Authorization token not found or expired",
			Param:   "accessToken",
		}
	}

	return userId, claims.ID, nil
}

func (usecase *UserUsecase) Logout(ctx context.Context, tokenId string) error {
	err := usecase.TokenStore.DeleteAccessToken(ctx, tokenId)
	if err != nil {
		return err
	}

	return nil
}

func (usecase *UserUsecase) issueToken(ctx context.Context, userId int64) (model.TokenResponse, error) {
	accessToken, claims, err := util.GenerateAccessToken(userId, usecase.Config.String("JWT_SECRET_KEY"))
	if err != nil {
		return model.TokenResponse{}, err
	}

	err = usecase.TokenStore.SaveAccessToken(ctx, claims.ID, userId, constant.ACCESS_TOKEN_DURATION)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		AccessToken: accessToken,
		Id:          userId,
	}, nil
}

func validateRegistration(payload model.UserRegisterRequest) error {
	if payload.Username == "" {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Username is required to not be empty",
			Param:   "username",
		}
	} else if len(payload.Username) < constant.USERNAME_MIN_LENGTH {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Username must be at least 5 characters",
			Param:   "username",
		}
	} else if len(payload.Username) > constant.USERNAME_MAX_LENGTH {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Username must be at most 20 characters",
			Param:   "username",
		}
	}

	if payload.Email == "" {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Email is required to not be empty",
			Param:   "email",
		}
	} else if len(payload.Email) > constant.EMAIL_MAX_LENGTH || !emailPattern.MatchString(payload.Email) {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Email is not valid",
			Param:   "email",
		}
	}

	if payload.Password == "" {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password is required to not be empty",
			Param:   "password",
		}
	} else if len(payload.Password) < constant.PASSWORD_MIN_LENGTH {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password must be at least 5 characters",
			Param:   "password",
		}
	} else if len(payload.Password) > constant.PASSWORD_MAX_LENGTH {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Password must be at most 72 characters",
			Param:   "password",
		}
	}

	if payload.FirstName == "" || payload.LastName == "" {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "First and last name are required",
			Param:   "name",
		}
	} else if len(payload.FirstName) > constant.NAME_MAX_LENGTH || len(payload.LastName) > constant.NAME_MAX_LENGTH {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Names must be at most 20 characters",
			Param:   "name",
		}
	}

	return nil
}
