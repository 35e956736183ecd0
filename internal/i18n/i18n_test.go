package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMatch(t *testing.T) {
	cases := map[string]string{
		"":                        LocaleRU,
		"en":                      LocaleEN,
		"en-GB,en;q=0.8":          LocaleEN,
		"ru":                      LocaleRU,
		"de-DE":                   LocaleRU,
		"fr-FR,en-US;q=0.7":       LocaleEN,
		"not a language header!!": LocaleRU,
	}
	for in, want := range cases {
		if got := Match(in); got != want {
			t.Fatalf("match %q want %s got %s", in, want, got)
		}
	}
}

func TestResolveLocalePrefersQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest("GET", "/api/v1/cart?lang=en", nil)
	c.Request.Header.Set("Accept-Language", "ru-RU")
	if got := ResolveLocale(c); got != LocaleEN {
		t.Fatalf("query lang should win, got %s", got)
	}
}

func TestTFallsBack(t *testing.T) {
	if got := T(LocaleEN, "cart.empty"); got != "Your cart is empty" {
		t.Fatalf("unexpected en message: %s", got)
	}
	if got := T("xx-XX", "cart.empty"); got != catalog[DefaultLocale]["cart.empty"] {
		t.Fatalf("unknown locale should fall back to default, got %s", got)
	}
	if got := T(LocaleEN, "missing.key"); got != "missing.key" {
		t.Fatalf("missing key should echo key, got %s", got)
	}
	if got := Tf(LocaleEN, "email.order_confirmation", "ABC"); got != "Order ABC placed" {
		t.Fatalf("unexpected formatted message: %s", got)
	}
}
