package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AryanCoding77/muscle-ai-waitlist/config"
	"github.com/AryanCoding77/muscle-ai-waitlist/config/router"
	"github.com/AryanCoding77/muscle-ai-waitlist/domain"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/form"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/log"
	"github.com/AryanCoding77/muscle-ai-waitlist/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type WaitlistAPITestSuite struct {
	suite.Suite
	db        *gorm.DB
	server    *httptest.Server
	baseURL   string
	logger    *log.Logger
	appConfig *config.ApplicationConfig
}

func (suite *WaitlistAPITestSuite) SetupSuite() {
	var err error
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	suite.db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true, Logger: gormlogger.Discard})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	err = suite.db.AutoMigrate(models.ModelRegistry...)
	suite.Require().NoError(err)

	suite.logger = log.NewLogger(io.Discard, slog.LevelError)

	suite.appConfig = &config.ApplicationConfig{
		DB:        suite.db,
		Logger:    suite.logger,
		StartedAt: time.Now(),
		Config: &config.AppConfig{
			Waitlist: config.WaitlistConfig{ProductName: "Muscle AI"},
		},
	}

	suite.appConfig.RouterService = router.CreateRouterService(suite.logger, &router.RouterConfig{
		RequestTimeout: 30 * time.Second,
	})

	domain.SetupCoreDomain(suite.appConfig)

	suite.server = httptest.NewServer(suite.appConfig.RouterService.GetEngine())
	suite.baseURL = suite.server.URL
}

func (suite *WaitlistAPITestSuite) TearDownSuite() {
	if suite.server != nil {
		suite.server.Close()
	}
	if suite.db != nil {
		sqlDB, _ := suite.db.DB()
		sqlDB.Close()
	}
}

func (suite *WaitlistAPITestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("DELETE FROM " + models.WaitlistTableName).Error)
}

func (suite *WaitlistAPITestSuite) join(name, email string) (int, map[string]interface{}) {
	jsonBody, _ := json.Marshal(map[string]string{"name": name, "email": email})

	resp, err := http.Post(suite.baseURL+"/join-waitlist", "application/json", bytes.NewBuffer(jsonBody))
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var response map[string]interface{}
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))
	return resp.StatusCode, response
}

func (suite *WaitlistAPITestSuite) entryCount() int64 {
	var n int64
	suite.Require().NoError(suite.db.Model(&models.WaitlistEntry{}).Count(&n).Error)
	return n
}

func (suite *WaitlistAPITestSuite) TestHealthCheck() {
	resp, err := http.Get(suite.baseURL + "/health")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	suite.Equal(true, response["success"])

	data := response["data"].(map[string]interface{})
	suite.Contains(data, "uptime")
	suite.Equal(float64(1), data["database"])
}

func (suite *WaitlistAPITestSuite) TestJoinThenDuplicate() {
	status, response := suite.join("Ada", "ada@example.com")
	suite.Equal(http.StatusOK, status)
	suite.Equal(map[string]interface{}{"success": true, "message": "Successfully joined the waitlist!"}, response)

	status, response = suite.join("Ada", "ada@example.com")
	suite.Equal(http.StatusBadRequest, status)
	suite.Equal(map[string]interface{}{"error": "This email is already on our waitlist!"}, response)

	suite.Equal(int64(1), suite.entryCount())

	var entry models.WaitlistEntry
	suite.Require().NoError(suite.db.Where("email = ?", "ada@example.com").First(&entry).Error)
	suite.Equal("Ada", entry.Name)
	suite.NotEmpty(entry.ID)
	suite.False(entry.CreatedAt.IsZero())
}

func (suite *WaitlistAPITestSuite) TestValidationWritesNothing() {
	status, response := suite.join("", "ada@example.com")

	suite.Equal(http.StatusBadRequest, status)
	suite.Equal("Name and email are required", response["error"])
	suite.Equal(int64(0), suite.entryCount())
}

func (suite *WaitlistAPITestSuite) TestConcurrentSameEmail() {
	const attempts = 4
	statuses := make([]int, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			statuses[i], _ = suite.join("Grace", "grace@example.com")
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, s := range statuses {
		if s == http.StatusOK {
			ok++
		} else {
			suite.Equal(http.StatusBadRequest, s)
		}
	}
	suite.Equal(1, ok)
	suite.Equal(int64(1), suite.entryCount())
}

func (suite *WaitlistAPITestSuite) TestFormClientAgainstServer() {
	f := form.New()
	f.Mount()
	suite.Require().NoError(f.SetName("Linus"))
	suite.Require().NoError(f.SetEmail("linus@example.com"))

	submitter := form.NewHTTPSubmitter(suite.baseURL, suite.server.Client())
	suite.Require().NoError(f.Submit(context.Background(), submitter))
	suite.Equal(form.PhaseSucceeded, f.Phase())

	again := form.New()
	again.Mount()
	suite.Require().NoError(again.SetName("Linus"))
	suite.Require().NoError(again.SetEmail("linus@example.com"))
	suite.Require().NoError(again.Submit(context.Background(), submitter))

	suite.Equal(form.PhaseFailed, again.Phase())
	suite.Equal("This email is already on our waitlist!", again.Failure())
}

func (suite *WaitlistAPITestSuite) TestSignupPage() {
	resp, err := http.PostForm(suite.baseURL+"/", url.Values{"name": {"Ada"}, "email": {"page@example.com"}})
	suite.Require().NoError(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(string(body), "Muscle AI - Join the Waitlist")
	suite.Contains(string(body), `id="joined"`)
	suite.Equal(int64(1), suite.entryCount())
}

func (suite *WaitlistAPITestSuite) TestMetricsExposeSignups() {
	suite.join("Ada", "metrics@example.com")

	resp, err := http.Get(suite.baseURL + "/metrics")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	suite.True(strings.Contains(string(body), "waitlist_signups_total"))
}

func TestWaitlistAPISuite(t *testing.T) {
	// Skip integration tests unless explicitly requested
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration tests. Set RUN_INTEGRATION_TESTS=true to run them")
	}

	suite.Run(t, new(WaitlistAPITestSuite))
}
