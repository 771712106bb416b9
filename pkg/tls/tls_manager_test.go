package tls

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTLSManagerDisabledByDefault(t *testing.T) {
	// Without a configuration file every value falls back to its
	// default, which means TLS off and plain HTTP serving.
	manager, err := NewTLSManager()
	if err != nil {
		t.Fatalf("Failed to create TLS manager: %v", err)
	}

	if manager.IsEnabled() {
		t.Error("TLS should be disabled by default")
	}
	if manager.GetTLSConfig() != nil {
		t.Error("TLS config should be nil when TLS is disabled")
	}
	if manager.GetHTTPPort() == "" {
		t.Error("HTTP port should be set")
	}
	if manager.GetHTTPSPort() == "" {
		t.Error("HTTPS port should be set")
	}
	if manager.NeedsHTTPServer() {
		t.Error("disabled TLS must not request an extra HTTP server")
	}
}

func TestTLSConfigValidation(t *testing.T) {
	config := &TLSConfig{
		EnableTLS:     true,
		UseAutocert:   true,
		Domain:        "", // empty domain must fail validation
		AutocertEmail: "test@example.com",
		CertCacheDir:  "./test_certs",
	}

	manager := &TLSManager{config: config}

	if err := manager.validateConfig(); err == nil {
		t.Error("Expected validation error for empty domain, but got none")
	}

	config.Domain = "calc.example.org"
	config.AutocertEmail = ""
	if err := manager.validateConfig(); err == nil {
		t.Error("Expected validation error for empty email, but got none")
	}

	config.AutocertEmail = "test@example.com"
	if err := manager.validateConfig(); err != nil {
		t.Errorf("valid autocert config rejected: %v", err)
	}
}

func TestTLSRedirectHandler(t *testing.T) {
	manager := &TLSManager{config: &TLSConfig{
		ForceHTTPSRedirect: true,
		HTTPSPort:          "8443",
	}}

	handler := manager.GetHTTPSRedirectHandler()
	if handler == nil {
		t.Fatal("redirect handler should not be nil when redirect is enabled")
	}

	r := httptest.NewRequest("GET", "http://calc.example.org:8080/ws?token=x", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusMovedPermanently)
	}
	want := "https://calc.example.org:8443/ws?token=x"
	if got := w.Header().Get("Location"); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}

	// disabled redirect yields no handler
	manager.config.ForceHTTPSRedirect = false
	if manager.GetHTTPSRedirectHandler() != nil {
		t.Error("redirect handler should be nil when redirect is disabled")
	}
}
