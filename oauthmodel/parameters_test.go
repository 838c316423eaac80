package oauthmodel_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oauthlab/go-bff-server/oauthmodel"
)

func validParams() *oauthmodel.AuthorizationParameters {
	return &oauthmodel.AuthorizationParameters{
		ClientID:     "practice-client-id",
		RedirectURI:  "http://localhost:8080/bff/callback",
		ResponseType: oauthmodel.ResponseTypeCode,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validParams().Validate())

	missingClient := validParams()
	missingClient.ClientID = ""
	require.ErrorIs(t, missingClient.Validate(), oauthmodel.ErrMissingParameters)

	missingRedirect := validParams()
	missingRedirect.RedirectURI = ""
	require.ErrorIs(t, missingRedirect.Validate(), oauthmodel.ErrMissingParameters)

	implicit := validParams()
	implicit.ResponseType = "token"
	require.ErrorIs(t, implicit.Validate(), oauthmodel.ErrMissingParameters)
}

func TestChallengeMethodDefaultsToS256(t *testing.T) {
	params := validParams()
	params.CodeChallenge = "some-challenge"

	assert.Equal(t, oauthmodel.CodeMethodS256, params.ChallengeMethod())

	params.CodeChallengeMethod = oauthmodel.CodeMethodPlain
	assert.Equal(t, oauthmodel.CodeMethodPlain, params.ChallengeMethod())

	// No challenge at all: no method to report.
	assert.Empty(t, validParams().ChallengeMethod())
}

func TestErrorMatchingSurvivesDescription(t *testing.T) {
	described := oauthmodel.ErrInvalidGrant.WithDescription("authorization code is invalid or expired")

	require.ErrorIs(t, described, oauthmodel.ErrInvalidGrant)
	assert.Equal(t, "invalid_grant: authorization code is invalid or expired", described.Error())
	assert.False(t, errors.Is(described, oauthmodel.ErrInvalidClient))

	// The sentinel itself stays untouched.
	assert.Empty(t, oauthmodel.ErrInvalidGrant.Description)
}
