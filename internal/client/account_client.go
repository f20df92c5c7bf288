package client

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/ferdian3456/envisiontech/internal/constant"
	"github.com/ferdian3456/envisiontech/internal/model"

	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(constant.EMAIL_PATTERN)

// AccountClient registers and signs users in, keeping the issued token in Credentials.
type AccountClient struct {
	Sender      Sender
	Credentials CredentialStore
	Log         *zap.Logger
}

func NewAccountClient(sender Sender, credentials CredentialStore, log *zap.Logger) *AccountClient {
	if log == nil {
		log = zap.NewNop()
	}

	return &AccountClient{
		Sender:      sender,
		Credentials: credentials,
		Log:         log,
	}
}

// ValidateRegistration runs the checks the sign-up form applies before submitting.
func ValidateRegistration(payload model.UserRegisterRequest) error {
	if strings.TrimSpace(payload.FirstName) == "" || strings.TrimSpace(payload.LastName) == "" {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Please fill out your first and last name",
			Param:   "name",
		}
	}

	if len(payload.Username) < constant.USERNAME_MIN_LENGTH {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Minimum of 5 characters required for username",
			Param:   "username",
		}
	}

	if !emailPattern.MatchString(payload.Email) {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Please enter a valid email address",
			Param:   "email",
		}
	}

	return nil
}

func (client *AccountClient) Register(ctx context.Context, payload model.UserRegisterRequest) (model.TokenResponse, error) {
	err := ValidateRegistration(payload)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return client.authenticate(ctx, "/register", payload)
}

func (client *AccountClient) Login(ctx context.Context, username string, password string) (model.TokenResponse, error) {
	return client.authenticate(ctx, "/login", model.UserLoginRequest{
		Username: username,
		Password: password,
	})
}

// Logout revokes the stored token on the server and forgets it locally. The local copy is
// cleared even when the server call fails.
func (client *AccountClient) Logout(ctx context.Context) error {
	token, err := requireToken(client.Credentials)
	if err != nil {
		return err
	}

	status, raw, sendErr := client.Sender.Send(ctx, http.MethodPost, "/logout", nil, token)
	if sendErr == nil {
		_, sendErr = Resolve[model.MessageResponse](status, raw)
	}

	clearErr := client.Credentials.Clear()

	return errors.Join(sendErr, clearErr)
}

func (client *AccountClient) authenticate(ctx context.Context, route string, payload any) (model.TokenResponse, error) {
	status, raw, err := client.Sender.Send(ctx, http.MethodPost, route, payload, "")
	if err != nil {
		return model.TokenResponse{}, err
	}

	token, err := Resolve[model.TokenResponse](status, raw)
	if err != nil {
		return model.TokenResponse{}, err
	}

	if token.AccessToken == "" {
		return model.TokenResponse{}, model.NewClientError(constant.ERR_INVALID_DATA, "response carried no access token", nil)
	}

	err = client.Credentials.Set(model.Credentials{
		UserId:      token.Id,
		AccessToken: token.AccessToken,
	})
	if err != nil {
		return model.TokenResponse{}, err
	}

	client.Log.Debug("credentials stored", zap.Int64("userId", token.Id))

	return token, nil
}
