package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"
	"github.com/petshop-next/internal/provider"
	"github.com/petshop-next/internal/repository"
	"github.com/petshop-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func newAdminEngine(t *testing.T) (*gin.Engine, *gorm.DB, *provider.Container) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:admin_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrateDB(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	c := &provider.Container{Config: &config.Config{}}
	c.PromoCodeRepo = repository.NewPromoCodeRepository(db)
	c.PromoAdminService = service.NewPromoAdminService(c.PromoCodeRepo)
	c.UserLoginLogRepo = repository.NewUserLoginLogRepository(db)
	c.UserLoginLogService = service.NewUserLoginLogService(c.UserLoginLogRepo)
	c.DashboardService = service.NewDashboardService(repository.NewDashboardRepository(db))

	h := New(c)
	engine := gin.New()
	engine.GET("/admin/login-logs", h.ListLoginLogs)
	engine.GET("/admin/dashboard/overview", h.GetDashboardOverview)
	engine.GET("/admin/promo-codes", h.ListPromoCodes)
	engine.POST("/admin/promo-codes", h.CreatePromoCode)
	return engine, db, c
}

func call(t *testing.T, engine *gin.Engine, method, path string, body interface{}) envelope {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestListLoginLogsFiltersByStatus(t *testing.T) {
	engine, _, c := newAdminEngine(t)
	for _, input := range []service.RecordUserLoginInput{
		{UserID: 1, Email: "a@example.com", Status: constants.LoginLogStatusSuccess},
		{Email: "a@example.com", Status: constants.LoginLogStatusFailed, FailReason: constants.LoginLogFailReasonInvalidCredentials},
		{Email: "b@example.com", Status: constants.LoginLogStatusFailed},
	} {
		require.NoError(t, c.UserLoginLogService.Record(input))
	}

	env := call(t, engine, http.MethodGet, "/admin/login-logs?status=failed&email=A@example.com", nil)
	require.Equal(t, 0, env.StatusCode, env.Msg)
	var logs []models.UserLoginLog
	require.NoError(t, json.Unmarshal(env.Data, &logs))
	require.Len(t, logs, 1)
	assert.Equal(t, constants.LoginLogFailReasonInvalidCredentials, logs[0].FailReason)

	env = call(t, engine, http.MethodGet, "/admin/login-logs?status=weird", nil)
	assert.Equal(t, 400, env.StatusCode)
	env = call(t, engine, http.MethodGet, "/admin/login-logs?user_id=abc", nil)
	assert.Equal(t, 400, env.StatusCode)
}

func TestDashboardQueryValidation(t *testing.T) {
	engine, _, _ := newAdminEngine(t)

	env := call(t, engine, http.MethodGet, "/admin/dashboard/overview?from=yesterday", nil)
	assert.Equal(t, 400, env.StatusCode)
	env = call(t, engine, http.MethodGet, "/admin/dashboard/overview?range=1y", nil)
	assert.Equal(t, 400, env.StatusCode)

	env = call(t, engine, http.MethodGet, "/admin/dashboard/overview?tz=UTC&force_refresh=true", nil)
	require.Equal(t, 0, env.StatusCode, env.Msg)
	var overview service.DashboardOverviewResponse
	require.NoError(t, json.Unmarshal(env.Data, &overview))
	assert.Equal(t, "7d", overview.Range)
	assert.Equal(t, "UTC", overview.Timezone)
}

func TestCreatePromoCodeStoresUTCWindow(t *testing.T) {
	engine, db, _ := newAdminEngine(t)

	env := call(t, engine, http.MethodPost, "/admin/promo-codes", map[string]interface{}{
		"code":           "spring15",
		"discount_type":  constants.DiscountTypePercent,
		"discount_value": "15",
		"valid_until":    "2030-05-01T12:00:00+03:00",
		"max_uses":       10,
	})
	require.Equal(t, 0, env.StatusCode, env.Msg)

	var stored models.PromoCode
	require.NoError(t, db.Where("code = ?", "SPRING15").First(&stored).Error)
	require.NotNil(t, stored.ValidUntil)
	assert.True(t, stored.ValidUntil.Equal(time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)))

	env = call(t, engine, http.MethodGet, "/admin/promo-codes?is_active=maybe", nil)
	assert.Equal(t, 400, env.StatusCode)
}
