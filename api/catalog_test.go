package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jrsteele09/go-cafe-storefront/api"
	"github.com/jrsteele09/go-cafe-storefront/apifake"
	"github.com/jrsteele09/go-cafe-storefront/catalog"
	"github.com/jrsteele09/go-cafe-storefront/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func latteFields(name string) catalog.Fields {
	return catalog.Fields{
		Name:        name,
		Description: "Espresso dengan susu panas",
		Price:       25000,
		Category:    "Milk Based",
		Ingredients: []string{"Espresso shot", "Steamed milk"},
		Caffeine:    "Medium",
	}
}

func TestClient_List(t *testing.T) {
	ctx := context.Background()

	for name, opts := range map[string][]apifake.Option{
		"bare body": nil,
		"enveloped": {apifake.WithEnvelope()},
	} {
		t.Run(name, func(t *testing.T) {
			backend, client := fixture(t, opts)
			backend.SeedMenu()

			coffees, err := client.ListCoffees(ctx)
			require.NoError(t, err)
			require.Len(t, coffees, len(apifake.MenuCoffees))
			require.Equal(t, "Espresso", coffees[0].Name)
			require.Equal(t, int64(15000), coffees[0].Price)
			require.Equal(t, "High", coffees[0].Caffeine)

			foods, err := client.ListFoods(ctx)
			require.NoError(t, err)
			require.NotEmpty(t, foods)
		})
	}

	t.Run("empty list is not nil", func(t *testing.T) {
		_, client := fixture(t, nil)
		foods, err := client.ListFoods(ctx)
		require.NoError(t, err)
		require.NotNil(t, foods)
		require.Empty(t, foods)
	})
}

func TestClient_Get(t *testing.T) {
	ctx := context.Background()
	backend, client := fixture(t, nil)
	backend.SeedMenu()

	t.Run("found", func(t *testing.T) {
		coffee, err := client.GetCoffee(ctx, 2)
		require.NoError(t, err)
		require.Equal(t, int64(2), coffee.ID)
		require.Equal(t, "Cappuccino", coffee.Name)
	})

	t.Run("missing is ErrNotFound", func(t *testing.T) {
		_, err := client.GetFood(ctx, 404)
		require.ErrorIs(t, err, api.ErrNotFound)
		require.ErrorIs(t, err, api.ErrFetch)

		var fe *api.FetchError
		require.ErrorAs(t, err, &fe)
		require.Equal(t, http.StatusNotFound, fe.StatusCode)
		require.Equal(t, catalog.KindFood, fe.Kind)
		require.Equal(t, int64(404), fe.ID)
		require.Equal(t, "food not found", fe.Message)
		require.Equal(t, "food not found", api.Message(err))
	})

	t.Run("server error is a FetchError", func(t *testing.T) {
		backend.FailLookups(true)
		defer backend.FailLookups(false)

		_, err := client.GetCoffee(ctx, 1)
		var fe *api.FetchError
		require.ErrorAs(t, err, &fe)
		require.Equal(t, http.StatusInternalServerError, fe.StatusCode)
		require.False(t, errors.Is(err, api.ErrNotFound))
	})

	t.Run("transport failure has no status", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		offline := api.New(api.Config{BaseURL: srv.URL}, nil)

		_, err := offline.GetCoffee(ctx, 1)
		var fe *api.FetchError
		require.ErrorAs(t, err, &fe)
		require.Zero(t, fe.StatusCode)
		require.NotNil(t, fe.Err)
	})
}

func TestClient_WritesNeedToken(t *testing.T) {
	ctx := context.Background()
	backend, client := fixture(t, nil)

	_, err := client.CreateCoffee(ctx, latteFields("Latte"), nil)
	var authErr *api.AuthError
	require.ErrorAs(t, err, &authErr)
	require.ErrorIs(t, err, api.ErrAuth)
	require.Equal(t, "create", authErr.Op)

	_, err = client.UpdateFood(ctx, 1, latteFields("Roti"), nil)
	require.ErrorIs(t, err, api.ErrAuth)

	err = client.DeleteCoffee(ctx, 1)
	require.ErrorIs(t, err, api.ErrAuth)

	require.Empty(t, backend.Requests(), "no request may leave without a token")
}

func TestClient_ValidationBeforeNetwork(t *testing.T) {
	ctx := context.Background()
	backend, client := fixture(t, nil)
	signIn(t, backend, client, "admin")

	fields := latteFields("")
	_, err := client.CreateCoffee(ctx, fields, nil)
	require.ErrorIs(t, err, api.ErrValidation)

	var ve *api.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, "name", ve.Field)

	fields = latteFields("Latte")
	fields.Price = -5
	_, err = client.UpdateCoffee(ctx, 1, fields, nil)
	require.ErrorIs(t, err, api.ErrValidation)

	require.Empty(t, backend.Requests())
}

func TestClient_Create(t *testing.T) {
	ctx := context.Background()
	backend, client := fixture(t, nil)
	signIn(t, backend, client, "admin")

	image := &catalog.Image{Filename: "latte.jpg", ContentType: "image/jpeg", Data: strings.NewReader("jpeg-bytes")}
	created, err := client.CreateCoffee(ctx, latteFields("Latte"), image)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Latte", created.Name)
	require.Equal(t, []string{"Espresso shot", "Steamed milk"}, created.Ingredients)
	require.NotNil(t, created.ImageURL)

	data, ok := backend.Upload(*created.ImageURL)
	require.True(t, ok)
	require.Equal(t, "jpeg-bytes", string(data))

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	require.True(t, reqs[0].Authorized)
	require.True(t, strings.HasPrefix(reqs[0].ContentType, "multipart/form-data"))

	t.Run("created item is listed", func(t *testing.T) {
		coffees, err := client.ListCoffees(ctx)
		require.NoError(t, err)
		require.Len(t, coffees, 1)
		require.Equal(t, created.ID, coffees[0].ID)
	})
}

func TestClient_UpdateUsesMethodOverride(t *testing.T) {
	ctx := context.Background()
	backend, client := fixture(t, nil)
	backend.SeedMenu()
	signIn(t, backend, client, "admin")

	updated, err := client.UpdateCoffee(ctx, 5, latteFields("Latte Deluxe"), nil)
	require.NoError(t, err)
	require.Equal(t, int64(5), updated.ID)
	require.Equal(t, "Latte Deluxe", updated.Name)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	require.Equal(t, http.MethodPost, reqs[0].Method)
	require.Equal(t, "/coffees/5", reqs[0].Path)
	require.Equal(t, http.MethodPut, reqs[0].Override)

	got, err := client.GetCoffee(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, "Latte Deluxe", got.Name)
}

func TestClient_UpdateDirectPUT(t *testing.T) {
	ctx := context.Background()
	backend, client := fixture(t, nil, api.WithDirectPUT(true))
	backend.SeedMenu()
	signIn(t, backend, client, "admin")

	_, err := client.UpdateFood(ctx, 1, catalog.Fields{Name: "Croissant Almond", Description: "Croissant almond", Price: 21000}, nil)
	require.NoError(t, err)

	reqs := backend.Requests()
	require.Len(t, reqs, 1)
	require.Equal(t, http.MethodPut, reqs[0].Method)
	require.Empty(t, reqs[0].Override)
}

func TestClient_Delete(t *testing.T) {
	ctx := context.Background()
	backend, client := fixture(t, nil)
	backend.SeedMenu()
	signIn(t, backend, client, "admin")

	require.NoError(t, client.DeleteCoffee(ctx, 3))

	_, err := client.GetCoffee(ctx, 3)
	require.ErrorIs(t, err, api.ErrNotFound)

	err = client.DeleteCoffee(ctx, 3)
	require.ErrorIs(t, err, api.ErrNotFound)
}

func TestClient_StaleToken(t *testing.T) {
	ctx := context.Background()
	backend, client := fixture(t, nil)
	require.NoError(t, client.Session().SetToken("not-a-jwt"))

	_, err := client.CreateFood(ctx, catalog.Fields{Name: "Roti", Description: "Roti bakar", Price: 10000}, nil)
	require.ErrorIs(t, err, api.ErrAuth)

	var fe *api.FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, http.StatusUnauthorized, fe.StatusCode)
	require.Len(t, backend.Requests(), 1)
	require.False(t, backend.Requests()[0].Authorized)
}

func TestClient_WireFormat(t *testing.T) {
	type captured struct {
		method, auth, accept string
		values               map[string][]string
		imageName, imageType string
		image                string
	}
	got := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := captured{method: r.Method, auth: r.Header.Get("Authorization"), accept: r.Header.Get("Accept")}
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			c.values = r.MultipartForm.Value
			if file, header, err := r.FormFile("image"); err == nil {
				data, _ := io.ReadAll(file)
				c.image = string(data)
				c.imageName = header.Filename
				c.imageType = header.Header.Get("Content-Type")
			}
		}
		got <- c
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sess := session.New(nil)
	require.NoError(t, sess.SetToken("tok-123"))
	client := api.New(api.Config{BaseURL: srv.URL + "/"}, sess)

	image := &catalog.Image{Filename: "mocha.png", ContentType: "image/png", Data: strings.NewReader("png")}
	_, err := client.UpdateCoffee(context.Background(), 7, latteFields("Mocha"), image)
	require.NoError(t, err, "an empty 2xx body is accepted")

	c := <-got
	require.Equal(t, http.MethodPost, c.method)
	require.Equal(t, "Bearer tok-123", c.auth)
	require.Equal(t, "application/json", c.accept)
	require.Equal(t, []string{"PUT"}, c.values["_method"])
	require.Equal(t, []string{"Mocha"}, c.values["name"])
	require.Equal(t, []string{"25000"}, c.values["price"])
	require.Equal(t, []string{"Milk Based"}, c.values["category"])
	require.Equal(t, []string{"Medium"}, c.values["caffeine"])
	require.Equal(t, []string{"Espresso shot", "Steamed milk"}, c.values["ingredients[]"])
	require.Equal(t, "png", c.image)
	require.Equal(t, "mocha.png", c.imageName)
	require.Equal(t, "image/png", c.imageType)
}

func TestClient_Metrics(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	backend, client := fixture(t, nil, api.WithMetrics(api.NewMetrics(reg)))
	backend.SeedMenu()

	_, err := client.ListCoffees(ctx)
	require.NoError(t, err)
	_, err = client.GetFood(ctx, 99)
	require.Error(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "kopikata_backend_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			key := ""
			for _, l := range m.GetLabel() {
				key += l.GetName() + "=" + l.GetValue() + ","
			}
			counts[key] = m.GetCounter().GetValue()
		}
	}
	require.Equal(t, 1.0, counts["code=200,kind=coffees,op=list,"])
	require.Equal(t, 1.0, counts["code=404,kind=foods,op=get,"])
}
