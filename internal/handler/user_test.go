package handler

import (
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/film-catalogue/internal/middleware"
	"github.com/iliyamo/film-catalogue/internal/model"
	"github.com/iliyamo/film-catalogue/internal/utils"
)

func adaStore(t *testing.T) *stubUserStore {
	t.Helper()
	hash, err := utils.HashPassword("secret1", 4)
	require.NoError(t, err)
	return &stubUserStore{users: map[uint64]model.User{
		7: {ID: 7, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", PasswordHash: hash},
	}}
}

func newUserHandler(users *stubUserStore) *UserHandler {
	return NewUserHandler(testConfig(), users, newStubImageStore(), zerolog.Nop())
}

func TestUserViewHidesEmailFromOthers(t *testing.T) {
	h := newUserHandler(adaStore(t))

	c, rec := newContext(t, http.MethodGet, "/v1/users/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.View(c))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Ada", body["firstName"])
	assert.NotContains(t, body, "email")
}

func TestUserViewIncludesEmailForSelf(t *testing.T) {
	users := adaStore(t)
	h := newUserHandler(users)

	c, rec := newContext(t, http.MethodGet, "/v1/users/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	middleware.WithUser(c, users.users[7])
	require.NoError(t, h.View(c))

	assert.Equal(t, "ada@example.com", decodeBody(t, rec)["email"])
}

func TestUserViewNotFound(t *testing.T) {
	h := newUserHandler(adaStore(t))

	c, rec := newContext(t, http.MethodGet, "/v1/users/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")
	require.NoError(t, h.View(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserUpdateWrongCurrentPasswordIsIdentityFailure(t *testing.T) {
	users := adaStore(t)
	h := newUserHandler(users)

	c, rec := newContext(t, http.MethodPatch, "/v1/users/7",
		`{"password":"newsecret","currentPassword":"wrong-1"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	middleware.WithUser(c, users.users[7])
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserUpdateSamePasswordDenied(t *testing.T) {
	users := adaStore(t)
	h := newUserHandler(users)

	c, rec := newContext(t, http.MethodPatch, "/v1/users/7",
		`{"password":"secret1","currentPassword":"secret1"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	middleware.WithUser(c, users.users[7])
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserUpdateOtherProfileDenied(t *testing.T) {
	users := adaStore(t)
	h := newUserHandler(users)

	c, rec := newContext(t, http.MethodPatch, "/v1/users/7", `{"firstName":"Eve"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	middleware.WithUser(c, model.User{ID: 8})
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserUpdateEmailTaken(t *testing.T) {
	users := adaStore(t)
	users.emailInUse = true
	h := newUserHandler(users)

	c, rec := newContext(t, http.MethodPatch, "/v1/users/7", `{"email":"taken@example.com"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	middleware.WithUser(c, users.users[7])
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserUpdateStoresNewPasswordHash(t *testing.T) {
	users := adaStore(t)
	h := newUserHandler(users)

	c, rec := newContext(t, http.MethodPatch, "/v1/users/7",
		`{"firstName":"Adeline","password":"newsecret","currentPassword":"secret1"}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	middleware.WithUser(c, users.users[7])
	require.NoError(t, h.Update(c))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, users.lastUpdate.FirstName)
	assert.Equal(t, "Adeline", *users.lastUpdate.FirstName)
	// The new password goes in hashed, and it is the new one that verifies.
	require.NotNil(t, users.lastUpdate.PasswordHash)
	assert.True(t, utils.VerifyPassword(*users.lastUpdate.PasswordHash, "newsecret"))
	assert.False(t, utils.VerifyPassword(*users.lastUpdate.PasswordHash, "secret1"))
}

func TestUserUpdateNormalizesEmail(t *testing.T) {
	users := adaStore(t)
	h := newUserHandler(users)

	c, rec := newContext(t, http.MethodPatch, "/v1/users/7", `{"email":"  Ada.New@Example.COM "}`)
	c.SetParamNames("id")
	c.SetParamValues("7")
	middleware.WithUser(c, users.users[7])
	require.NoError(t, h.Update(c))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, users.lastUpdate.Email)
	assert.Equal(t, "ada.new@example.com", *users.lastUpdate.Email)
}

func TestUserImageUploadChecksContentTypeFirst(t *testing.T) {
	h := newUserHandler(adaStore(t))

	// Wrong type reports 400 even for an anonymous caller.
	c, rec := newContext(t, http.MethodPut, "/v1/users/7/image", "")
	c.Request().Header.Set("Content-Type", "text/plain")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.SetImage(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Right type but anonymous reports 401.
	c, rec = newContext(t, http.MethodPut, "/v1/users/7/image", "pngbytes")
	c.Request().Header.Set("Content-Type", "image/png")
	c.SetParamNames("id")
	c.SetParamValues("7")
	require.NoError(t, h.SetImage(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserImageUploadAndReplace(t *testing.T) {
	users := adaStore(t)
	images := newStubImageStore()
	h := NewUserHandler(testConfig(), users, images, zerolog.Nop())

	upload := func(contentType, body string) int {
		c, rec := newContext(t, http.MethodPut, "/v1/users/7/image", body)
		c.Request().Header.Set("Content-Type", contentType)
		c.SetParamNames("id")
		c.SetParamValues("7")
		middleware.WithUser(c, users.users[7])
		require.NoError(t, h.SetImage(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, upload("image/png", "pngbytes"))
	// The second upload replaces and reports 200.
	assert.Equal(t, http.StatusOK, upload("image/png", "pngbytes2"))

	// Switching type on replace must not leave the earlier file behind.
	assert.Equal(t, http.StatusOK, upload("image/gif", "gifbytes"))
	assert.Contains(t, images.files, "user_7.gif")
	assert.NotContains(t, images.files, "user_7.png")
}

func TestUserImageDeleteWithoutImage(t *testing.T) {
	users := adaStore(t)
	h := newUserHandler(users)

	c, rec := newContext(t, http.MethodDelete, "/v1/users/7/image", "")
	c.SetParamNames("id")
	c.SetParamValues("7")
	middleware.WithUser(c, users.users[7])
	require.NoError(t, h.DeleteImage(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
