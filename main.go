package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/antibyte/retrocalc/pkg/configuration"
	"github.com/antibyte/retrocalc/pkg/keypad"
	"github.com/antibyte/retrocalc/pkg/logger"
	"github.com/antibyte/retrocalc/pkg/session"
	tlsmanager "github.com/antibyte/retrocalc/pkg/tls"
)

func main() {
	// Initialize configuration (before all other initializations)
	configPath := "settings.cfg"
	err := configuration.Initialize(configPath)
	if err != nil {
		fmt.Printf("Error initializing configuration: %v\n", err)
		return
	}

	// Initialize logger
	err = logger.Initialize()
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		return
	}
	defer logger.Close()
	logger.ConfigInfo("System started - Configuration loaded from: %s", configPath)

	// Create the keypad handler; each session gets its own calculator
	handler := keypad.NewKeypadHandler()
	logger.Info(logger.AreaKeypad, "Keypad handler created (session-based calculators)")

	// Configure HTTP handlers
	http.HandleFunc("/api/session", session.HandleCreateSession)
	http.HandleFunc("/ws", handler.HandleWebSocket)

	// Add favicon handler to prevent 404 errors
	http.HandleFunc("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	// Static file servers for the keypad frontend
	http.Handle("/js/", http.StripPrefix("/js/", http.FileServer(http.Dir("js"))))
	http.Handle("/css/", http.StripPrefix("/css/", http.FileServer(http.Dir("css"))))

	// Legacy individual file handlers for backwards compatibility (development)
	http.HandleFunc("/retrocalc.css", serveFile("css/retrocalc.css"))
	http.HandleFunc("/retrocalc.js", serveFile("js/retrocalc.js"))

	// Root route - MUST be registered LAST to not override specific routes
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if _, err := os.Stat("index.html"); err == nil {
			http.ServeFile(w, r, "index.html")
		} else if _, err := os.Stat("retrocalc.html"); err == nil {
			// Fallback to development HTML file
			http.ServeFile(w, r, "retrocalc.html")
		} else {
			logger.Error(logger.AreaGeneral, "Neither index.html nor retrocalc.html found")
			http.Error(w, "Main HTML file not found", http.StatusNotFound)
		}
	})

	// Initialize TLS Manager
	tlsManager, err := tlsmanager.NewTLSManager()
	if err != nil {
		logger.Fatal(logger.AreaSecurity, "TLS manager initialization failed: %v", err)
		return
	}
	// Start servers based on TLS configuration
	if tlsManager.IsEnabled() {
		startTLSServers(tlsManager)
	} else {
		startHTTPServer(tlsManager.GetHTTPPort())
	}
}

// startHTTPServer starts the plain HTTP server
func startHTTPServer(port string) {
	logger.Info(logger.AreaGeneral, "Starting HTTP server on port %s", port)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logger.Fatal(logger.AreaGeneral, "Error starting HTTP server: %v", err)
	}
}

// startTLSServers starts both HTTP and HTTPS servers for TLS mode
func startTLSServers(tlsManager *tlsmanager.TLSManager) {
	httpPort := tlsManager.GetHTTPPort()
	httpsPort := tlsManager.GetHTTPSPort()

	logger.Info(logger.AreaSecurity, "Starting TLS-enabled servers - HTTP: %s, HTTPS: %s", httpPort, httpsPort)

	// Channel to receive errors from server goroutines
	errorChan := make(chan error, 2)

	// Start HTTP server for ACME challenges and redirects (if needed)
	if tlsManager.NeedsHTTPServer() {
		go func() {
			httpHandler := tlsManager.GetHTTPHandler()
			if httpHandler == nil {
				httpHandler = tlsManager.GetHTTPSRedirectHandler()
			}

			if httpHandler != nil {
				logger.Info(logger.AreaSecurity, "Starting HTTP server for ACME challenges/redirects on port %s", httpPort)
				if err := http.ListenAndServe(":"+httpPort, httpHandler); err != nil {
					logger.Error(logger.AreaSecurity, "HTTP server error: %v", err)
					errorChan <- fmt.Errorf("HTTP server error: %v", err)
				}
			}
		}()
	}

	// Start HTTPS server
	go func() {
		httpsServer := &http.Server{
			Addr:      ":" + httpsPort,
			TLSConfig: tlsManager.GetTLSConfig(),
			Handler:   nil, // use default mux with all registered handlers
		}

		logger.Info(logger.AreaSecurity, "Starting HTTPS server on port %s", httpsPort)

		var err error
		if tlsManager.GetTLSConfig() != nil {
			// autocert mode
			err = httpsServer.ListenAndServeTLS("", "")
		} else {
			// manual certificate mode
			certFile, keyFile := tlsManager.GetCertFiles()
			logger.Info(logger.AreaSecurity, "HTTPS server using manual certificates: %s, %s", certFile, keyFile)
			err = httpsServer.ListenAndServeTLS(certFile, keyFile)
		}

		errorChan <- fmt.Errorf("HTTPS server stopped unexpectedly: %v", err)
	}()

	// Wait for either server to report an error
	select {
	case err := <-errorChan:
		logger.Fatal(logger.AreaSecurity, "Server startup failed: %v", err)
	case <-time.After(5 * time.Second):
		logger.Info(logger.AreaSecurity, "TLS servers startup window completed - HTTP: %s, HTTPS: %s", httpPort, httpsPort)

		// Now wait indefinitely for errors (blocking the main thread)
		for {
			err := <-errorChan
			logger.Error(logger.AreaSecurity, "Server error during runtime: %v", err)
		}
	}
}

// serveFile serves a single file with the correct MIME type
func serveFile(filename string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		var contentType string
		lowerFilename := strings.ToLower(filename)
		switch {
		case strings.HasSuffix(lowerFilename, ".css"):
			contentType = "text/css; charset=utf-8"
		case strings.HasSuffix(lowerFilename, ".html"):
			contentType = "text/html; charset=utf-8"
		case strings.HasSuffix(lowerFilename, ".js"):
			contentType = "application/javascript; charset=utf-8"
		case strings.HasSuffix(lowerFilename, ".png"):
			contentType = "image/png"
		default:
			contentType = "application/octet-stream"
		}

		w.Header().Set("Content-Type", contentType)
		http.ServeFile(w, r, filename)
	}
}
