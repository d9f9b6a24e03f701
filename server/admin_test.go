package server_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-cafe-storefront/apifake"
	"github.com/jrsteele09/go-cafe-storefront/catalog"
	"github.com/jrsteele09/go-cafe-storefront/server"
	"github.com/stretchr/testify/require"
)

func TestAdmin_RequiresLogin(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{server.RouteAdminDashboard, "/admin/products/coffees"} {
		resp, _ := h.get(t, path)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		require.True(t, strings.HasPrefix(resp.Header.Get("Location"), server.RouteAdminLogin), path)
	}

	resp := h.post(t, "/admin/products/coffees/1/delete", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, 6, h.backend.Count(catalog.KindCoffee))
}

func TestAdmin_Login(t *testing.T) {
	t.Run("success shows dashboard", func(t *testing.T) {
		h := newHarness(t)
		h.login(t, "barista", "rahasia")

		resp, body := h.get(t, server.RouteAdminDashboard)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, "Halo, barista")
		require.Contains(t, body, "Total menu: <strong>10</strong>")

		resp, _ = h.get(t, server.RouteAdminLogin)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode, "signed-in admins skip the login page")
	})

	t.Run("wrong password", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.backend.AddUser("barista", "rahasia"))

		resp := h.post(t, server.RouteAdminLogin, url.Values{"username": {"barista"}, "password": {"salah"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		q := redirectQuery(t, resp)
		require.Equal(t, "barista", q.Get("username"))
		require.Equal(t, "Invalid username or password", q.Get("error"))

		resp, body := h.get(t, resp.Header.Get("Location"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, "Invalid username or password")
		require.Contains(t, body, `value="barista"`)
	})

	t.Run("rate limited", func(t *testing.T) {
		h := newHarness(t)
		form := url.Values{"username": {"barista"}, "password": {"salah"}}
		for i := 0; i < 3; i++ {
			require.Equal(t, http.StatusSeeOther, h.post(t, server.RouteAdminLogin, form).StatusCode)
		}
		resp := h.post(t, server.RouteAdminLogin, form)
		require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		require.Equal(t, "60", resp.Header.Get("Retry-After"))
	})

	t.Run("logout", func(t *testing.T) {
		h := newHarness(t)
		h.login(t, "barista", "rahasia")

		resp, _ := h.get(t, server.RouteAdminLogout)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		resp, _ = h.get(t, server.RouteAdminDashboard)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	})
}

func TestAdmin_Register(t *testing.T) {
	h := newHarness(t)

	t.Run("mismatched confirmation never reaches backend", func(t *testing.T) {
		resp := h.post(t, server.RouteAdminRegister, url.Values{
			"username": {"kasir"}, "password": {"satu"}, "confirm_password": {"dua"},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		q := redirectQuery(t, resp)
		require.Equal(t, "register", q.Get("tab"))
		require.Equal(t, "Password dan konfirmasi password tidak sama", q.Get("error"))
		require.Empty(t, h.backend.Requests())
	})

	t.Run("success then login", func(t *testing.T) {
		resp := h.post(t, server.RouteAdminRegister, url.Values{
			"username": {"kasir"}, "password": {"rahasia"}, "confirm_password": {"rahasia"},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Empty(t, redirectQuery(t, resp).Get("error"))

		resp = h.post(t, server.RouteAdminLogin, url.Values{"username": {"kasir"}, "password": {"rahasia"}})
		require.True(t, strings.HasPrefix(resp.Header.Get("Location"), server.RouteAdminDashboard))
	})

	t.Run("duplicate username", func(t *testing.T) {
		resp := h.post(t, server.RouteAdminRegister, url.Values{
			"username": {"kasir"}, "password": {"rahasia"}, "confirm_password": {"rahasia"},
		})
		require.Equal(t, "Username already exists", redirectQuery(t, resp).Get("error"))
	})
}

func TestAdmin_Products(t *testing.T) {
	h := newHarness(t)
	h.login(t, "barista", "rahasia")

	t.Run("lists the kind", func(t *testing.T) {
		resp, body := h.get(t, "/admin/products/foods")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, "Nasi Goreng Kampung")
		require.NotContains(t, body, `name="caffeine"`)

		resp, _ = h.get(t, "/admin/products/teas")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("edit prefill", func(t *testing.T) {
		resp, body := h.get(t, "/admin/products/coffees?edit=2")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, `action="/admin/products/coffees/2"`)
		require.Contains(t, body, `value="22000"`)
		require.Contains(t, body, "Espresso shot, Steamed milk, Milk foam")

		_, body = h.get(t, "/admin/products/coffees?edit=99")
		require.Contains(t, body, "Item tidak ditemukan")
	})

	t.Run("create", func(t *testing.T) {
		resp := h.post(t, "/admin/products/coffees", url.Values{
			"name": {"Kopi Susu Gula Aren"}, "description": {"Kopi susu dengan gula aren"},
			"price": {"24.000"}, "category": {"Specialty"},
			"ingredients": {"Espresso shot, Fresh milk, Palm sugar"}, "caffeine": {"Medium"},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "Menu berhasil ditambahkan", redirectQuery(t, resp).Get("notice"))
		require.Equal(t, 7, h.backend.Count(catalog.KindCoffee))

		_, body := h.get(t, "/menu/7")
		require.Contains(t, body, "Kopi Susu Gula Aren")
		require.Contains(t, body, "Rp 24.000")
		require.Contains(t, body, "Palm sugar")
	})

	t.Run("create with image", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("name", "Pisang Goreng"))
		require.NoError(t, mw.WriteField("description", "Pisang goreng madu"))
		require.NoError(t, mw.WriteField("price", "12000"))
		part, err := mw.CreateFormFile("image", "pisang.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG fake"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		resp, err := h.browser.Post(h.front.URL+"/admin/products/foods", mw.FormDataContentType(), &buf)
		require.NoError(t, err)
		readBody(t, resp)
		require.Equal(t, "Menu berhasil ditambahkan", redirectQuery(t, resp).Get("notice"))
		require.Equal(t, 5, h.backend.Count(catalog.KindFood))

		_, body := h.get(t, "/menu/foods/5")
		require.Contains(t, body, "Pisang Goreng")
		require.Contains(t, body, "/uploads/")
	})

	t.Run("invalid price stays local", func(t *testing.T) {
		before := len(h.backend.Requests())
		resp := h.post(t, "/admin/products/coffees", url.Values{
			"name": {"Kopi"}, "description": {"Kopi"}, "price": {"murah"},
		})
		require.Equal(t, "Harga harus berupa angka yang valid", redirectQuery(t, resp).Get("error"))
		require.Len(t, h.backend.Requests(), before)
	})

	t.Run("update uses method override", func(t *testing.T) {
		resp := h.post(t, "/admin/products/coffees/2", url.Values{
			"name": {"Cappuccino Oat"}, "description": {"Cappuccino dengan susu oat"},
			"price": {"26000"}, "category": {"Milk Based"},
		})
		require.Equal(t, "Menu berhasil diperbarui", redirectQuery(t, resp).Get("notice"))

		reqs := h.backend.Requests()
		last := reqs[len(reqs)-1]
		require.Equal(t, http.MethodPost, last.Method)
		require.Equal(t, "/coffees/2", last.Path)
		require.Equal(t, http.MethodPut, last.Override)
		require.True(t, last.Authorized)

		_, body := h.get(t, "/menu/2")
		require.Contains(t, body, "Cappuccino Oat")
		require.Contains(t, body, "Rp 26.000")
	})

	t.Run("delete", func(t *testing.T) {
		resp := h.post(t, "/admin/products/foods/1/delete", nil)
		require.Equal(t, "Menu berhasil dihapus", redirectQuery(t, resp).Get("notice"))

		resp, _ = h.get(t, "/menu/foods/1")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp = h.post(t, "/admin/products/foods/1/delete", nil)
		require.Equal(t, "food not found", redirectQuery(t, resp).Get("error"))
	})
}

func TestAdmin_ExpiredToken(t *testing.T) {
	var clock atomic.Int64
	clock.Store(time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC).Unix())
	h := newHarness(t,
		apifake.WithTokenTTL(time.Hour),
		apifake.WithNowTime(func() time.Time { return time.Unix(clock.Load(), 0) }),
	)
	h.login(t, "barista", "rahasia")

	clock.Add(int64(2 * time.Hour / time.Second))
	resp := h.post(t, "/admin/products/foods/1/delete", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Location"), server.RouteAdminLogin))
	require.Equal(t, 4, h.backend.Count(catalog.KindFood))

	resp, _ = h.get(t, server.RouteAdminDashboard)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode, "rejected token is cleared")
}
