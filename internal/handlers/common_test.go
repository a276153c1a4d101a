package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/config"
	"foodgram/internal/logger"
	"foodgram/internal/models"
	"foodgram/internal/store"
)

var testPagination = config.PaginationConfig{PageSize: 6, MaxLimit: 100}

func testContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	c.Request = req
	return c, w
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		want   pageRequest
		wantOK bool
	}{
		{"Defaults", "", pageRequest{Page: 1, Limit: 6}, true},
		{"Explicit", "?page=3&limit=10", pageRequest{Page: 3, Limit: 10}, true},
		{"LimitCapped", "?limit=1000", pageRequest{Page: 1, Limit: 100}, true},
		{"BadLimitIgnored", "?limit=abc", pageRequest{Page: 1, Limit: 6}, true},
		{"BadPage", "?page=abc", pageRequest{Page: 1, Limit: 6}, false},
		{"ZeroPage", "?page=0", pageRequest{Page: 1, Limit: 6}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(http.MethodGet, "/api/recipes"+tt.query, "")
			got, ok := parsePage(c, testPagination)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			} else {
				assert.Equal(t, http.StatusNotFound, w.Code)
			}
		})
	}
}

func TestNewPageLinks(t *testing.T) {
	c, _ := testContext(http.MethodGet, "http://example.com/api/recipes?page=2&limit=2&tags=lunch", "")
	page := newPage(c, pageRequest{Page: 2, Limit: 2}, 5, []int{3, 4})

	assert.Equal(t, 5, page.Count)
	require.NotNil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://example.com/api/recipes?limit=2&page=3&tags=lunch", *page.Next)
	assert.Equal(t, "http://example.com/api/recipes?limit=2&tags=lunch", *page.Previous)

	last := newPage(c, pageRequest{Page: 3, Limit: 2}, 5, []int{5})
	assert.Nil(t, last.Next)

	empty := newPage[int](c, pageRequest{Page: 1, Limit: 2}, 0, nil)
	assert.Nil(t, empty.Next)
	assert.Nil(t, empty.Previous)
	assert.NotNil(t, empty.Results)
}

func TestWritePageOutOfRange(t *testing.T) {
	c, w := testContext(http.MethodGet, "/api/users?page=4", "")
	writePage(c, pageRequest{Page: 4, Limit: 6}, 12, []models.User{})
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = testContext(http.MethodGet, "/api/users", "")
	writePage(c, pageRequest{Page: 1, Limit: 6}, 0, []models.User{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0,"next":null,"previous":null,"results":[]}`, w.Body.String())
}

func TestValidatorUsername(t *testing.T) {
	v := newValidator()
	valid := models.CreateUserRequest{
		Email: "cook@example.com", Username: "cook.one+test@home", FirstName: "A", LastName: "B", Password: "secret1",
	}
	assert.NoError(t, v.Struct(valid))

	for _, username := range []string{"bad name", "me", "ME", "semi;colon"} {
		req := valid
		req.Username = username
		assert.Error(t, v.Struct(req), username)
	}
}

func TestValidationResponseFields(t *testing.T) {
	v := newValidator()
	req := models.CreateRecipeRequest{
		Ingredients: []models.IngredientAmountRequest{{ID: 1, Amount: 0}},
		Tags:        []int{1, 1},
		Image:       "data:image/png;base64,AA==",
		Name:        "Soup",
		Text:        "Boil",
		CookingTime: 0,
	}
	body := validationResponse(v.Struct(req))

	fields, ok := body["fields"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "required", fields["ingredients[0].amount"])
	assert.Equal(t, "unique", fields["tags"])
	assert.Equal(t, "required", fields["cooking_time"])
}

func TestDuplicateIngredientsRejected(t *testing.T) {
	v := newValidator()
	req := models.CreateRecipeRequest{
		Ingredients: []models.IngredientAmountRequest{{ID: 1, Amount: 5}, {ID: 1, Amount: 10}},
		Tags:        []int{1},
		Image:       "data:image/png;base64,AA==",
		Name:        "Soup",
		Text:        "Boil",
		CookingTime: 10,
	}
	assert.Error(t, v.Struct(req))

	req.Ingredients[1].ID = 2
	assert.NoError(t, v.Struct(req))
}

func TestRegisterRejectsInvalidBody(t *testing.T) {
	h := NewAuthHandler(nil, nil, logger.Nop())

	c, w := testContext(http.MethodPost, "/api/users", `{"email":"not-an-email","username":"cook"}`)
	h.Register(c)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "email", body.Fields["email"])
	assert.Equal(t, "required", body.Fields["password"])

	c, w = testContext(http.MethodPost, "/api/users", `{not json`)
	h.Register(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseRecipeFilter(t *testing.T) {
	c, _ := testContext(http.MethodGet, "/api/recipes?tags=breakfast&tags=lunch&author=3&is_favorited=1&is_in_shopping_cart=0", "")
	filter, ok := parseRecipeFilter(c)
	require.True(t, ok)
	assert.Equal(t, []string{"breakfast", "lunch"}, filter.TagSlugs)
	assert.Equal(t, 3, filter.AuthorID)
	assert.True(t, filter.IsFavorited)
	assert.False(t, filter.IsInShoppingCart)

	c, w := testContext(http.MethodGet, "/api/recipes?author=abc", "")
	_, ok = parseRecipeFilter(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseID(t *testing.T) {
	c, w := testContext(http.MethodGet, "/api/recipes/abc", "")
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	_, ok := parseID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, _ = testContext(http.MethodGet, "/api/recipes/12", "")
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	id, ok := parseID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, 12, id)
}

func TestRespondRecipeWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"DuplicateName", &store.ConstraintError{Kind: store.ErrConflict, Constraint: store.RecipeNameConstraint}, "You already have a recipe with this name"},
		{"OtherUnique", &store.ConstraintError{Kind: store.ErrConflict, Constraint: "recipes_slug_key"}, "Object already exists"},
		{"BareConflict", store.ErrConflict, "Object already exists"},
		{"MissingIngredient", &store.ConstraintError{Kind: store.ErrInvalidReference, Constraint: "recipe_ingredients_ingredient_id_fkey"}, "Referenced object does not exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testContext(http.MethodPost, "/api/recipes", "")
			respondRecipeWriteError(c, logger.Nop(), fmt.Errorf("failed to insert recipe: %w", tt.err))
			require.Equal(t, http.StatusBadRequest, w.Code)

			var body struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.want, body.Error)
		})
	}
}
