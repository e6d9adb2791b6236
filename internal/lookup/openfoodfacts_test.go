package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreAnyFunction("net/http.(*persistConn).writeLoop"),
	)
}

const searchBody = `{
	"count": 3,
	"products": [
		{
			"product_name": "Alphonso Mango",
			"categories_tags": ["en:plant-based-foods", "en:fruits"],
			"labels_tags": ["en:organic"],
			"quantity": "2 each",
			"image_front_url": "https://images.test/mango.jpg",
			"nutriments": {"energy-kcal_100g": 60, "proteins_100g": "0.8", "fat_100g": 0.4}
		},
		{"product_name": "", "generic_name": "Dried mango slices", "nutriments": {}},
		{"product_name": "  ", "nutriments": {}}
	]
}`

func TestOpenFoodFactsLookup(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/cgi/search.pl", r.URL.Path)
			assert.Equal(t, "mango", r.URL.Query().Get("search_terms"))
			assert.Equal(t, "5", r.URL.Query().Get("page_size"))
			assert.Equal(t, "1", r.URL.Query().Get("json"))
			assert.Empty(t, r.Header.Get("Authorization"))
			fmt.Fprint(w, searchBody)
		}))
		defer server.Close()

		client := NewOpenFoodFacts(server.URL+"/", WithPageSize(5))
		records, err := client.Lookup(context.Background(), "mango")
		require.NoError(t, err)
		require.Len(t, records, 2)

		first := records[0]
		assert.Equal(t, "Alphonso Mango", first.Name)
		assert.Equal(t, []string{"en:plant-based-foods", "en:fruits"}, first.CategoryTags)
		require.NotNil(t, first.Nutrition.Calories)
		assert.Equal(t, 60.0, *first.Nutrition.Calories)
		require.NotNil(t, first.Nutrition.Protein)
		assert.Equal(t, 0.8, *first.Nutrition.Protein)
		assert.Nil(t, first.Nutrition.Carbs)
		assert.Nil(t, first.Nutrition.Fiber)

		assert.Equal(t, "Dried mango slices", records[1].Name)
	})

	t.Run("ServerError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := NewOpenFoodFacts(server.URL).Lookup(context.Background(), "mango")
		assert.Error(t, err)
	})

	t.Run("NoProducts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"count": 0, "products": []}`)
		}))
		defer server.Close()

		_, err := NewOpenFoodFacts(server.URL).Lookup(context.Background(), "xyz")
		assert.ErrorIs(t, err, ErrNoResults)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"products": [`)
		}))
		defer server.Close()

		_, err := NewOpenFoodFacts(server.URL).Lookup(context.Background(), "mango")
		assert.Error(t, err)
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := NewOpenFoodFacts(server.URL).Lookup(ctx, "mango")
		assert.Error(t, err)
	})
}

func TestOpenFoodFactsSignsRequests(t *testing.T) {
	const key = "catalog-1:a1b2c3d4e5f60718"
	secret := []byte{0xa1, 0xb2, 0xc3, 0xd4, 0xe5, 0xf6, 0x07, 0x18}

	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		fmt.Fprint(w, searchBody)
	}))
	defer server.Close()

	_, err := NewOpenFoodFacts(server.URL, WithAPIKey(key)).Lookup(context.Background(), "mango")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(authHeader, "Bearer "))

	parsed, err := jwt.Parse(strings.TrimPrefix(authHeader, "Bearer "), func(tok *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithAudience(searchAudience))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "catalog-1", parsed.Header["kid"])
}

func TestSignToken(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid", "id:00ff", false},
		{"missing separator", "id00ff", true},
		{"missing id", ":00ff", true},
		{"bad hex", "id:zz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := signToken(tt.key, searchAudience, time.Now())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 3, len(strings.Split(token, ".")))
		})
	}
}

func TestOpenFoodFactsInvalidKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent with an unusable key")
	}))
	defer server.Close()

	_, err := NewOpenFoodFacts(server.URL, WithAPIKey("nocolon")).Lookup(context.Background(), "mango")
	assert.Error(t, err)
}
