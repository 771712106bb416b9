package tls

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/antibyte/retrocalc/pkg/configuration"
	"github.com/antibyte/retrocalc/pkg/logger"

	"golang.org/x/crypto/acme/autocert"
)

// TLSManager handles TLS certificate management including Let's Encrypt
type TLSManager struct {
	config      *TLSConfig
	autocertMgr *autocert.Manager
	tlsConfig   *tls.Config
	initialized bool
}

// TLSConfig holds TLS configuration options
type TLSConfig struct {
	EnableTLS          bool
	UseAutocert        bool
	Domain             string
	AutocertEmail      string
	CertCacheDir       string
	ForceHTTPSRedirect bool
	CertFile           string
	KeyFile            string
	HTTPPort           string
	HTTPSPort          string
}

// NewTLSManager creates a new TLS manager with configuration
func NewTLSManager() (*TLSManager, error) {
	config := &TLSConfig{
		EnableTLS:          configuration.GetBool("TLS", "enabled", false),
		UseAutocert:        configuration.GetBool("TLS", "use_autocert", false),
		Domain:             configuration.GetString("TLS", "domain", ""),
		AutocertEmail:      configuration.GetString("TLS", "autocert_email", ""),
		CertCacheDir:       configuration.GetString("TLS", "autocert_cache", "certs"),
		ForceHTTPSRedirect: configuration.GetBool("TLS", "redirect_http", true),
		CertFile:           configuration.GetString("TLS", "cert_file", ""),
		KeyFile:            configuration.GetString("TLS", "key_file", ""),
		HTTPPort:           configuration.GetString("Network", "http_port", "8080"),
		HTTPSPort:          configuration.GetString("TLS", "https_port", "8443"),
	}

	manager := &TLSManager{
		config: config,
	}

	if err := manager.validateConfig(); err != nil {
		return nil, fmt.Errorf("TLS configuration validation failed: %v", err)
	}

	if config.EnableTLS {
		if err := manager.initializeTLS(); err != nil {
			return nil, fmt.Errorf("TLS initialization failed: %v", err)
		}
	}

	return manager, nil
}

// validateConfig validates the TLS configuration
func (tm *TLSManager) validateConfig() error {
	if !tm.config.EnableTLS {
		return nil
	}
	if tm.config.UseAutocert {
		if strings.TrimSpace(tm.config.Domain) == "" {
			return fmt.Errorf("domain is required when autocert is enabled")
		}
		if strings.TrimSpace(tm.config.AutocertEmail) == "" {
			return fmt.Errorf("autocert_email is required when autocert is enabled")
		}
	} else {
		if _, err := os.Stat(tm.config.CertFile); os.IsNotExist(err) {
			logger.SecurityWarn("TLS certificate file not found: %s", tm.config.CertFile)
		}
		if _, err := os.Stat(tm.config.KeyFile); os.IsNotExist(err) {
			logger.SecurityWarn("TLS key file not found: %s", tm.config.KeyFile)
		}
	}

	return nil
}

// initializeTLS sets up TLS configuration
func (tm *TLSManager) initializeTLS() error {
	if tm.config.UseAutocert {
		return tm.initializeAutocert()
	}
	return tm.initializeManualTLS()
}

// initializeAutocert sets up Let's Encrypt automatic certificate management
func (tm *TLSManager) initializeAutocert() error {
	logger.Info(logger.AreaSecurity, "Initializing Let's Encrypt for domain: %s", tm.config.Domain)

	if err := os.MkdirAll(tm.config.CertCacheDir, 0700); err != nil {
		return fmt.Errorf("failed to create certificate cache directory: %v", err)
	}

	tm.autocertMgr = &autocert.Manager{
		Cache:      autocert.DirCache(tm.config.CertCacheDir),
		Prompt:     autocert.AcceptTOS,
		Email:      tm.config.AutocertEmail,
		HostPolicy: autocert.HostWhitelist(tm.config.Domain, "www."+tm.config.Domain),
	}

	tm.tlsConfig = &tls.Config{
		GetCertificate: func(clientHello *tls.ClientHelloInfo) (*tls.Certificate, error) {
			serverName := clientHello.ServerName
			if serverName == "" {
				logger.SecurityWarn("TLS handshake without SNI from %s, using default domain", clientHello.Conn.RemoteAddr())
				serverName = tm.config.Domain
			}

			if serverName != tm.config.Domain && serverName != "www."+tm.config.Domain {
				logger.SecurityWarn("TLS request for unauthorized domain: %s from %s", serverName, clientHello.Conn.RemoteAddr())
				return nil, fmt.Errorf("unauthorized domain: %s", serverName)
			}

			cert, err := tm.autocertMgr.GetCertificate(clientHello)
			if err != nil {
				logger.SecurityWarn("Failed to get certificate for %s: %v", serverName, err)
				return nil, fmt.Errorf("certificate error for %s: %v", serverName, err)
			}
			return cert, nil
		},
		NextProtos: []string{"h2", "http/1.1"}, // Enable HTTP/2
		MinVersion: tls.VersionTLS12,
	}

	tm.initialized = true
	logger.Info(logger.AreaSecurity, "Let's Encrypt TLS manager initialized successfully")
	return nil
}

// initializeManualTLS sets up manual certificate management
func (tm *TLSManager) initializeManualTLS() error {
	logger.Info(logger.AreaSecurity, "Initializing manual TLS with cert: %s, key: %s", tm.config.CertFile, tm.config.KeyFile)

	if _, err := os.Stat(tm.config.CertFile); os.IsNotExist(err) {
		return fmt.Errorf("certificate file not found: %s", tm.config.CertFile)
	}
	if _, err := os.Stat(tm.config.KeyFile); os.IsNotExist(err) {
		return fmt.Errorf("key file not found: %s", tm.config.KeyFile)
	}
	tm.initialized = true
	logger.Info(logger.AreaSecurity, "Manual TLS manager initialized successfully")
	return nil
}

// GetTLSConfig returns the TLS configuration for the HTTP server
func (tm *TLSManager) GetTLSConfig() *tls.Config {
	if !tm.initialized || !tm.config.EnableTLS {
		return nil
	}
	return tm.tlsConfig
}

// GetHTTPHandler returns an HTTP handler for Let's Encrypt challenges
func (tm *TLSManager) GetHTTPHandler() http.Handler {
	if tm.autocertMgr != nil {
		return tm.autocertMgr.HTTPHandler(tm.GetHTTPSRedirectHandler())
	}
	return tm.GetHTTPSRedirectHandler()
}

// NeedsHTTPServer returns true if an HTTP server is needed alongside
// HTTPS (for ACME challenges or redirects)
func (tm *TLSManager) NeedsHTTPServer() bool {
	return tm.config.EnableTLS && (tm.config.UseAutocert || tm.config.ForceHTTPSRedirect)
}

// GetHTTPSRedirectHandler returns a handler that redirects HTTP to HTTPS
func (tm *TLSManager) GetHTTPSRedirectHandler() http.Handler {
	if !tm.config.ForceHTTPSRedirect {
		return nil
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if strings.Contains(host, ":") {
			host = strings.Split(host, ":")[0]
		}

		httpsURL := fmt.Sprintf("https://%s", host)
		if tm.config.HTTPSPort != "443" {
			httpsURL = fmt.Sprintf("https://%s:%s", host, tm.config.HTTPSPort)
		}
		httpsURL += r.RequestURI

		http.Redirect(w, r, httpsURL, http.StatusMovedPermanently)
	})
}

// IsEnabled returns true if TLS is enabled
func (tm *TLSManager) IsEnabled() bool {
	return tm.config.EnableTLS
}

// GetHTTPPort returns the HTTP port
func (tm *TLSManager) GetHTTPPort() string {
	return tm.config.HTTPPort
}

// GetHTTPSPort returns the HTTPS port
func (tm *TLSManager) GetHTTPSPort() string {
	return tm.config.HTTPSPort
}

// GetCertFiles returns the certificate and key file paths (for manual TLS)
func (tm *TLSManager) GetCertFiles() (string, string) {
	return tm.config.CertFile, tm.config.KeyFile
}
