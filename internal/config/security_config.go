// config/security_config.go
package config

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/mux"
)

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No credential attached
	SecurityAccess                      // Bearer credential required
)

func (l SecurityLevel) String() string {
	if l == SecurityPublic {
		return "public"
	}
	return "access"
}

// EndpointSecurity is one row of the backend route table.
type EndpointSecurity struct {
	Method string
	Route  string
	Level  SecurityLevel
}

// EndpointSecurityConfig maps backend routes to their required security level.
// More specific routes come first; mux matches in registration order.
var EndpointSecurityConfig = []EndpointSecurity{
	// Auth - Public
	{http.MethodPost, "/api/auth/login", SecurityPublic},
	{http.MethodPost, "/api/auth/register", SecurityPublic},

	// Users - Access Protected
	{http.MethodGet, "/api/users/me", SecurityAccess},
	{http.MethodPut, "/api/users/me", SecurityAccess},

	// Items
	{http.MethodGet, "/api/items/mine", SecurityAccess},
	{http.MethodGet, "/api/items", SecurityPublic},
	{http.MethodGet, "/api/items/{id}", SecurityPublic},
	{http.MethodGet, "/api/items/{id}/booked-dates", SecurityPublic},
	{http.MethodPost, "/api/items", SecurityAccess},
	{http.MethodPut, "/api/items/{id}", SecurityAccess},
	{http.MethodDelete, "/api/items/{id}", SecurityAccess},

	// Wishlist - Access Protected
	{http.MethodGet, "/api/wishlist", SecurityAccess},
	{http.MethodGet, "/api/wishlist/{itemId}/status", SecurityAccess},
	{http.MethodPost, "/api/wishlist/{itemId}", SecurityAccess},
	{http.MethodDelete, "/api/wishlist/{itemId}", SecurityAccess},

	// Bookings - Access Protected
	{http.MethodPost, "/api/bookings/create-order", SecurityAccess},
	{http.MethodPost, "/api/bookings/verify", SecurityAccess},
	{http.MethodGet, "/api/bookings/my", SecurityAccess},
	{http.MethodGet, "/api/bookings/my/summary", SecurityAccess},
	{http.MethodGet, "/api/bookings/returns/pending-for-owner", SecurityAccess},
	{http.MethodGet, "/api/bookings/{id}", SecurityAccess},
	{http.MethodPut, "/api/bookings/{id}/cancel", SecurityAccess},
	{http.MethodPost, "/api/bookings/{id}/extend/create-order", SecurityAccess},
	{http.MethodPost, "/api/bookings/{id}/extend/verify", SecurityAccess},
	{http.MethodPost, "/api/bookings/{id}/return/request-otp", SecurityAccess},
	{http.MethodPost, "/api/bookings/{id}/return/verify-otp", SecurityAccess},
	{http.MethodPost, "/api/bookings/{id}/return/verify", SecurityAccess},

	// Chats - Access Protected
	{http.MethodGet, "/api/chats", SecurityAccess},
	{http.MethodPost, "/api/chats", SecurityAccess},
	{http.MethodGet, "/api/chats/{id}/messages", SecurityAccess},
	{http.MethodGet, "/ws/chat", SecurityAccess},
}

var (
	securityRouterOnce sync.Once
	securityRouter     *mux.Router
	securityLevels     map[string]SecurityLevel
)

func buildSecurityRouter() {
	securityRouter = mux.NewRouter()
	securityLevels = make(map[string]SecurityLevel, len(EndpointSecurityConfig))
	for _, e := range EndpointSecurityConfig {
		name := e.Method + " " + e.Route
		securityLevels[name] = e.Level
		securityRouter.Methods(e.Method).Path(e.Route).Name(name)
	}
}

// GetSecurityLevel returns the security level for a given method and path
func GetSecurityLevel(method, path string) SecurityLevel {
	securityRouterOnce.Do(buildSecurityRouter)

	req := &http.Request{Method: method, URL: &url.URL{Path: path}}
	var match mux.RouteMatch
	if securityRouter.Match(req, &match) && match.Route != nil {
		if level, exists := securityLevels[match.Route.GetName()]; exists {
			return level
		}
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
