package cmd

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tanya/internal/apihandlers"
)

var (
	serveAddr string // Listen address
	servePort string // Listen port
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run Tanya as an HTTP API server",
	Long: `Starts an HTTP server exposing the FAQ resolution cascade (ask, add,
categories) via a RESTful API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		router := gin.Default() // Includes logger and recovery middleware

		apiHandler := apihandlers.NewAPIHandler(appInstance.Resolver, appInstance.Catalog, appInstance.JobClient)

		v1 := router.Group("/api/v1")
		{
			faqGroup := v1.Group("/faq")
			{
				faqGroup.POST("/ask", apiHandler.AskHandler)
				faqGroup.GET("/categories", apiHandler.ListCategoriesHandler)
				faqGroup.POST("/add", apiHandler.AddEntryHandler)
			}
		}

		router.GET("/health", func(c *gin.Context) {
			status := gin.H{"status": "ok"}
			if appInstance.VectorStore != nil {
				if err := appInstance.VectorStore.Ping(c.Request.Context()); err != nil {
					status["vector_index"] = "unreachable"
				} else {
					status["vector_index"] = "ok"
				}
			} else {
				status["vector_index"] = "disabled"
			}
			c.JSON(http.StatusOK, status)
		})

		if serveAddr == "" {
			serveAddr = appInstance.Config.Server.Addr
		}
		if servePort == "" {
			servePort = appInstance.Config.Server.Port
		}
		listenAddr := fmt.Sprintf("%s:%s", serveAddr, servePort)
		log.Infof("Starting Tanya API server on http://%s", listenAddr)

		if err := router.Run(listenAddr); err != nil {
			return fmt.Errorf("failed to run API server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")
}
