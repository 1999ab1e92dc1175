package middleware

import (
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"

	"ticketpulse/internal/config"
	"ticketpulse/internal/utils"
	"ticketpulse/pkg/logger"
)

// SetupServer builds the gin engine with the global semaphore, CORS, the
// per-IP rate limit, request ids and request logging
func SetupServer(cfg *config.App) (engine *gin.Engine) {

	gin.SetMode(gin.ReleaseMode)
	engine = gin.New()

	engine.Use(gin.Recovery())
	setupIds(engine)
	setupSemaphore(engine)
	setupCors(engine)
	setupRedisDB(engine, cfg)
	setupLogger(engine, cfg.Logger)

	certFile, keyFile := utils.GetCertFiles()
	if certFile != "" && keyFile != "" {
		setupSSL(engine, cfg.Logger)
	}

	return engine
}

// setupSSL redirects plain HTTP requests to HTTPS
func setupSSL(engine *gin.Engine, log *logger.Logger) {
	secureMiddleware := secure.New(secure.Options{
		SSLRedirect:          true,
		SSLHost:              os.Getenv("SSL_HOST"),
		STSSeconds:           31536000,
		STSIncludeSubdomains: true,
		FrameDeny:            true,
		ContentTypeNosniff:   true,
	})
	engine.Use(func(c *gin.Context) {
		// Process has already written the redirect or rejection when it errors
		if err := secureMiddleware.Process(c.Writer, c.Request); err != nil {
			log.Debug("secure middleware: "+err.Error(), map[string]interface{}{"path": c.Request.URL.Path})
			c.Abort()
			return
		}
		c.Next()
	})
}

func getEnvAsInt64(name string, defaultValue int64) int64 {
	valueStr := os.Getenv(name)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}

	return int64(value)
}
